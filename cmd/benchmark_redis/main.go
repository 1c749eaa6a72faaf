// Command benchmark_redis measures pkg/marketdata snapshot publish
// throughput against a live Redis server, replacing the teacher's v8
// Lua-script demo now that pkg/marketdata runs on go-redis v9.
package main

import (
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dtvu/lobcore/pkg/idgen"
	"github.com/dtvu/lobcore/pkg/marketdata"
	"github.com/dtvu/lobcore/pkg/orderbook"
)

func main() {
	ctx := context.Background()

	client := redis.NewClient(&redis.Options{Addr: "localhost:6379"})
	if err := client.Ping(ctx).Err(); err != nil {
		log.Fatalf("ping redis: %v", err)
	}
	defer client.Close()

	publisher := marketdata.NewPublisher(client)

	engine := orderbook.NewEngine()
	seedBook(engine)

	const totalOps = 10_000
	start := time.Now()

	for i := 0; i < totalOps; i++ {
		if err := publisher.PublishSnapshot(ctx, "ABC", engine, 10); err != nil {
			log.Fatalf("publish snapshot: %v", err)
		}
	}

	duration := time.Since(start)
	log.Printf("published %d snapshots in %s (%.2f ops/sec)",
		totalOps, duration, float64(totalOps)/duration.Seconds())
}

func seedBook(engine *orderbook.Engine) {
	for i := 0; i < 20; i++ {
		engine.Execute(orderbook.Limit(idgen.New(), orderbook.Bid, uint64(10000-i), 10))
		engine.Execute(orderbook.Limit(idgen.New(), orderbook.Ask, uint64(10100+i), 10))
	}
}
