// Package worker runs a durable NATS JetStream consumer that drains
// published orderbook.Event records into the event log. It is adapted
// from the teacher's pkg/oms/worker, swapped from a Postgres repo call
// onto pkg/eventlog.Store and from the OMS's decimal OrderEvent onto
// the core's own Event shape.
package worker

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/dtvu/lobcore/pkg/eventlog"
	"github.com/dtvu/lobcore/pkg/orderbook"
)

// record mirrors eventbus.Record: the wire shape events are published
// in, kept independent so this package doesn't import eventbus for a
// struct definition.
type record struct {
	Symbol       string                 `json:"symbol"`
	Kind         orderbook.EventKind    `json:"kind"`
	OrderID      string                 `json:"order_id"`
	Side         orderbook.Side         `json:"side"`
	OrderType    orderbook.OrderKind    `json:"order_type"`
	Fills        []orderbook.Fill       `json:"fills,omitempty"`
	QtyRemaining uint64                 `json:"qty_remaining"`
	Reason       orderbook.RejectReason `json:"reason,omitempty"`
}

// Worker pulls batches off a JetStream durable consumer and appends
// each decoded event to the event log.
type Worker struct {
	store eventlog.Store
	log   *zap.Logger
}

func NewWorker(store eventlog.Store, log *zap.Logger) *Worker {
	if log == nil {
		log = zap.NewNop()
	}
	return &Worker{store: store, log: log}
}

// StartConsumer pulls messages from subject under durable and appends
// them to the event log until ctx is canceled.
func (w *Worker) StartConsumer(ctx context.Context, js nats.JetStreamContext, subject, durable string) error {
	sub, err := js.PullSubscribe(subject, durable)
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		msgs, err := sub.Fetch(64, nats.MaxWait(2*time.Second))
		if err != nil {
			if err == nats.ErrTimeout {
				continue
			}
			w.log.Warn("fetch from jetstream failed", zap.Error(err))
			continue
		}

		for _, msg := range msgs {
			if err := w.handle(ctx, msg.Data); err != nil {
				w.log.Warn("handle event failed", zap.Error(err))
				continue
			}
			_ = msg.Ack()
		}
	}
}

func (w *Worker) handle(ctx context.Context, data []byte) error {
	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		return err
	}

	orderID, err := decodeOrderID(rec.OrderID)
	if err != nil {
		return err
	}

	fills := make([]orderbook.Fill, len(rec.Fills))
	copy(fills, rec.Fills)

	ev := orderbook.Event{
		Kind:         rec.Kind,
		ID:           orderID,
		Side:         rec.Side,
		OrderType:    rec.OrderType,
		Fills:        fills,
		QtyRemaining: rec.QtyRemaining,
		Reason:       rec.Reason,
	}

	return w.store.Append(ctx, rec.Symbol, ev)
}

func decodeOrderID(s string) (orderbook.OrderID, error) {
	var id orderbook.OrderID
	_, err := hex.Decode(id[:], []byte(s))
	return id, err
}
