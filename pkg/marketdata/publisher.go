package marketdata

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/dtvu/lobcore/pkg/orderbook"
)

// Snapshot is the wire shape published to Redis: a point-in-time view
// of BookQuery, not a replayable event.
type Snapshot struct {
	Symbol   string                  `json:"symbol"`
	BestBid  *uint64                 `json:"best_bid,omitempty"`
	BestAsk  *uint64                 `json:"best_ask,omitempty"`
	Spread   *uint64                 `json:"spread,omitempty"`
	Mid      *uint64                 `json:"mid,omitempty"`
	BidDepth []orderbook.LevelDepth  `json:"bid_depth,omitempty"`
	AskDepth []orderbook.LevelDepth  `json:"ask_depth,omitempty"`
}

// Publisher pushes Snapshot messages to a per-symbol Redis channel.
type Publisher struct {
	client *redis.Client
}

func NewPublisher(client *redis.Client) *Publisher {
	return &Publisher{client: client}
}

func channelFor(symbol string) string {
	return fmt.Sprintf("marketdata.%s", symbol)
}

// PublishSnapshot builds a Snapshot from the engine's current BookQuery
// surface and publishes it. Callers own serializing access to the
// engine — Depth/BestBid/etc. are not safe to call concurrently with
// Execute per spec §5.
func (p *Publisher) PublishSnapshot(ctx context.Context, symbol string, e *orderbook.Engine, depth int) error {
	snap := Snapshot{Symbol: symbol}

	if bid, ok := e.BestBid(); ok {
		snap.BestBid = &bid
	}
	if ask, ok := e.BestAsk(); ok {
		snap.BestAsk = &ask
	}
	if spread, ok := e.Spread(); ok {
		snap.Spread = &spread
	}
	if mid, ok := e.MidPrice(); ok {
		snap.Mid = &mid
	}
	snap.BidDepth = e.Depth(orderbook.Bid, depth)
	snap.AskDepth = e.Depth(orderbook.Ask, depth)

	payload, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	return p.client.Publish(ctx, channelFor(symbol), payload).Err()
}

// Subscribe returns a channel of decoded Snapshots for symbol.
func (p *Publisher) Subscribe(ctx context.Context, symbol string) (<-chan Snapshot, func()) {
	sub := p.client.Subscribe(ctx, channelFor(symbol))
	out := make(chan Snapshot)

	go func() {
		defer close(out)
		for msg := range sub.Channel() {
			var snap Snapshot
			if err := json.Unmarshal([]byte(msg.Payload), &snap); err != nil {
				continue
			}
			select {
			case out <- snap:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, func() { _ = sub.Close() }
}
