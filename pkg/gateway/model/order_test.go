package model

import (
	"testing"
	"time"

	"github.com/dtvu/lobcore/pkg/orderbook"
)

func newTestOrder(qty uint64) *Order {
	return NewFromAddOrder(orderbook.OrderID{1}, AddOrder{
		GatewayID:    "cl-1",
		Symbol:       "BTCUSD",
		Type:         orderbook.KindLimit,
		Price:        100,
		Quantity:     qty,
		Side:         orderbook.Bid,
		TransactTime: time.Now(),
	})
}

func TestApplyEventPartialFillLeavesStatusPartiallyFilled(t *testing.T) {
	o := newTestOrder(10)

	o.ApplyEvent(orderbook.Event{
		Kind:         orderbook.EventPartiallyFilled,
		ID:           o.OrderID,
		Fills:        []orderbook.Fill{{OppositeOrderID: orderbook.OrderID{2}, Price: 100, Qty: 4}},
		QtyRemaining: 6,
	})

	if o.Status != OrderStatusPartiallyFilled {
		t.Fatalf("expected PartiallyFilled, got %v", o.Status)
	}
	if o.ExecType != ExecTypeTrade {
		t.Fatalf("expected ExecTypeTrade, got %v", o.ExecType)
	}
	if o.CumQuantity != 4 || o.LeavesQuantity != 6 {
		t.Fatalf("unexpected cum=%d leaves=%d", o.CumQuantity, o.LeavesQuantity)
	}
	if o.LastQuantity != 4 || o.LastPrice != 100 {
		t.Fatalf("unexpected last qty=%d price=%d", o.LastQuantity, o.LastPrice)
	}
	if o.IsTerminal() {
		t.Fatal("partially filled order must not be terminal")
	}
	if !o.CanCancel() {
		t.Fatal("partially filled order must still be cancelable")
	}
}

func TestApplyEventFullFillIsTerminal(t *testing.T) {
	o := newTestOrder(10)

	o.ApplyEvent(orderbook.Event{
		Kind:  orderbook.EventFilled,
		ID:    o.OrderID,
		Fills: []orderbook.Fill{{OppositeOrderID: orderbook.OrderID{2}, Price: 100, Qty: 10}},
	})

	if o.Status != OrderStatusFilled {
		t.Fatalf("expected Filled, got %v", o.Status)
	}
	if !o.IsTerminal() {
		t.Fatal("filled order must be terminal")
	}
	if o.CanCancel() {
		t.Fatal("filled order must not be cancelable")
	}
}

func TestApplyEventRejectedClearsLeavesQuantity(t *testing.T) {
	o := newTestOrder(10)

	o.ApplyEvent(orderbook.Event{Kind: orderbook.EventRejected, ID: o.OrderID, Reason: orderbook.BadPrice})

	if o.Status != OrderStatusRejected {
		t.Fatalf("expected Rejected, got %v", o.Status)
	}
	if o.LeavesQuantity != 0 {
		t.Fatalf("expected zero leaves quantity, got %d", o.LeavesQuantity)
	}
	if o.RejectReason == "" {
		t.Fatal("expected a non-empty reject reason")
	}
	if !o.IsTerminal() {
		t.Fatal("rejected order must be terminal")
	}
}

func TestApplyEventCanceledIsTerminalAndNotCancelable(t *testing.T) {
	o := newTestOrder(10)

	o.ApplyEvent(orderbook.Event{Kind: orderbook.EventCanceled, ID: o.OrderID})

	if o.Status != OrderStatusCanceled {
		t.Fatalf("expected Canceled, got %v", o.Status)
	}
	if !o.IsTerminal() || o.CanCancel() {
		t.Fatal("canceled order must be terminal and not cancelable")
	}
}
