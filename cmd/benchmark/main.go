// Command benchmark drives pkg/orderbook.Engine directly with a stream
// of random limit orders and reports matching throughput.
package main

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/dtvu/lobcore/pkg/idgen"
	"github.com/dtvu/lobcore/pkg/orderbook"
)

const (
	numOrders = 1_000_000
	minPrice  = 10000 // ticks
	maxPrice  = 20000
	minQty    = 1
	maxQty    = 100
)

func randomCommand() orderbook.Command {
	side := orderbook.Bid
	if rand.Intn(2) == 0 {
		side = orderbook.Ask
	}
	price := uint64(minPrice + rand.Intn(maxPrice-minPrice+1))
	qty := uint64(minQty + rand.Intn(maxQty-minQty+1))
	return orderbook.Limit(idgen.New(), side, price, qty)
}

func main() {
	engine := orderbook.NewEngine()

	totalFills := 0
	totalQty := uint64(0)

	start := time.Now()
	for i := 0; i < numOrders; i++ {
		ev := engine.Execute(randomCommand())
		for _, fill := range ev.Fills {
			totalFills++
			totalQty += fill.Qty
			if totalFills <= 5 {
				fmt.Printf("match: %s <=> %s @ %d qty %d\n",
					ev.ID, fill.OppositeOrderID, fill.Price, fill.Qty)
			}
		}
	}
	elapsed := time.Since(start)

	fmt.Println("--------")
	fmt.Printf("total orders     : %d\n", numOrders)
	fmt.Printf("total fills      : %d\n", totalFills)
	fmt.Printf("total matched qty: %d\n", totalQty)
	fmt.Printf("time taken       : %s\n", elapsed)
	fmt.Printf("orders/sec       : %.0f\n", float64(numOrders)/elapsed.Seconds())
}
