// Command benchmark_nats measures publish throughput for the wire
// shape pkg/worker consumes, against a live JetStream server.
package main

import (
	"encoding/json"
	"log"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/dtvu/lobcore/pkg/idgen"
	"github.com/dtvu/lobcore/pkg/orderbook"
)

// record mirrors pkg/eventbus.Record / pkg/worker's internal record —
// kept local so this command has no dependency on either package's
// internals, only their wire shape.
type record struct {
	Symbol       string                 `json:"symbol"`
	Kind         orderbook.EventKind    `json:"kind"`
	OrderID      string                 `json:"order_id"`
	Side         orderbook.Side         `json:"side"`
	OrderType    orderbook.OrderKind    `json:"order_type"`
	QtyRemaining uint64                 `json:"qty_remaining"`
	Reason       orderbook.RejectReason `json:"reason,omitempty"`
}

func main() {
	nc, err := nats.Connect(nats.DefaultURL)
	if err != nil {
		log.Fatalf("connect nats: %v", err)
	}
	js, err := nc.JetStream(nats.PublishAsyncMaxPending(65536))
	if err != nil {
		log.Fatalf("jetstream context: %v", err)
	}

	if _, err := js.AddStream(&nats.StreamConfig{
		Name:     "ORDERS",
		Subjects: []string{"ORDERS.*"},
	}); err != nil && err != nats.ErrStreamNameAlreadyInUse {
		log.Fatalf("ensure stream: %v", err)
	}

	const total = 1_000_000
	start := time.Now()

	for i := 0; i < total; i++ {
		rec := record{
			Symbol:       "ABC",
			Kind:         orderbook.EventFilled,
			OrderID:      idgen.New().String(),
			Side:         orderbook.Bid,
			OrderType:    orderbook.OrderKindLimit,
			QtyRemaining: 0,
		}

		data, err := json.Marshal(rec)
		if err != nil {
			log.Println("marshal:", err)
			continue
		}

		if _, err := js.PublishAsync("ORDERS.events", data); err != nil {
			log.Println("publish:", err)
		}
	}

	select {
	case <-js.PublishAsyncComplete():
	case <-time.After(30 * time.Second):
		log.Println("timed out waiting for outstanding acks")
	}

	elapsed := time.Since(start)
	log.Printf("sent %d messages in %v", total, elapsed)
	log.Printf("throughput: %.2f messages/sec", float64(total)/elapsed.Seconds())
}
