package worker

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/dtvu/lobcore/pkg/eventlog"
	"github.com/dtvu/lobcore/pkg/orderbook"
)

type fakeStore struct {
	appended []orderbook.Event
	symbols  []string
}

func (f *fakeStore) Append(ctx context.Context, symbol string, ev orderbook.Event) error {
	f.appended = append(f.appended, ev)
	f.symbols = append(f.symbols, symbol)
	return nil
}

func (f *fakeStore) BulkAppend(ctx context.Context, symbol string, evs []orderbook.Event) error {
	for _, ev := range evs {
		if err := f.Append(ctx, symbol, ev); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeStore) Replay(ctx context.Context, symbol string, since time.Time, limit int) ([]eventlog.Record, error) {
	return nil, nil
}

func TestHandleDecodesAndAppendsEvent(t *testing.T) {
	store := &fakeStore{}
	w := NewWorker(store, nil)

	id := orderbook.OrderID{1, 2, 3}
	rec := record{
		Symbol:       "BTCUSD",
		Kind:         orderbook.EventFilled,
		OrderID:      id.String(),
		Side:         orderbook.Bid,
		OrderType:    orderbook.OrderKindLimit,
		QtyRemaining: 0,
	}
	data, err := json.Marshal(rec)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	if err := w.handle(context.Background(), data); err != nil {
		t.Fatalf("handle: %v", err)
	}

	if len(store.appended) != 1 {
		t.Fatalf("expected 1 appended event, got %d", len(store.appended))
	}
	if store.appended[0].ID != id {
		t.Fatalf("expected order id %v, got %v", id, store.appended[0].ID)
	}
	if store.symbols[0] != "BTCUSD" {
		t.Fatalf("expected symbol BTCUSD, got %s", store.symbols[0])
	}
}

func TestHandleRejectsMalformedPayload(t *testing.T) {
	store := &fakeStore{}
	w := NewWorker(store, nil)

	if err := w.handle(context.Background(), []byte("not json")); err == nil {
		t.Fatal("expected error decoding malformed payload")
	}
}
