package main

import (
	"context"

	"github.com/dtvu/lobcore/pkg/eventbus"
	"github.com/dtvu/lobcore/pkg/orderbook"
)

// kafkaRecorder adapts eventbus.Publisher to gateway.EventRecorder,
// binding it to one fixed topic.
type kafkaRecorder struct {
	pub   *eventbus.Publisher
	topic string
}

func (r *kafkaRecorder) Append(ctx context.Context, symbol string, ev orderbook.Event) error {
	return r.pub.PublishEvent(ctx, r.topic, symbol, ev)
}

// fanoutRecorder appends to every configured recorder, so the event
// log and the Kafka event stream both see every Event a gateway emits.
type fanoutRecorder struct {
	recorders []gatewayRecorder
}

type gatewayRecorder interface {
	Append(ctx context.Context, symbol string, ev orderbook.Event) error
}

func (f *fanoutRecorder) Append(ctx context.Context, symbol string, ev orderbook.Event) error {
	var firstErr error
	for _, r := range f.recorders {
		if err := r.Append(ctx, symbol, ev); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
