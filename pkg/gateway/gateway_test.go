package gateway

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dtvu/lobcore/pkg/gateway/model"
	"github.com/dtvu/lobcore/pkg/orderbook"
	"github.com/dtvu/lobcore/pkg/riskrule"
)

var errStubViolation = errors.New("stub risk violation")

type recordingSink struct {
	reports []model.Order
}

func (s *recordingSink) OnOrderReport(ctx context.Context, order model.Order) {
	s.reports = append(s.reports, order)
}

func TestAddOrderRestsOnEmptyBook(t *testing.T) {
	sink := &recordingSink{}
	gw := New("BTCUSD", WithReportSink(sink))

	order, err := gw.AddOrder(context.Background(), model.AddOrder{
		GatewayID:    "cl-1",
		Symbol:       "BTCUSD",
		Type:         orderbook.KindLimit,
		Price:        100,
		Quantity:     10,
		Side:         orderbook.Bid,
		TransactTime: time.Now(),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order.Status != model.OrderStatusNew {
		t.Fatalf("expected New status, got %v", order.Status)
	}
	if len(sink.reports) != 1 {
		t.Fatalf("expected 1 report, got %d", len(sink.reports))
	}
}

func TestAddOrderCrossesAndFillsBothSides(t *testing.T) {
	sink := &recordingSink{}
	gw := New("BTCUSD", WithReportSink(sink))
	ctx := context.Background()

	resting, err := gw.AddOrder(ctx, model.AddOrder{
		GatewayID: "cl-1", Symbol: "BTCUSD", Type: orderbook.KindLimit,
		Price: 100, Quantity: 10, Side: orderbook.Ask, TransactTime: time.Now(),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	aggressor, err := gw.AddOrder(ctx, model.AddOrder{
		GatewayID: "cl-2", Symbol: "BTCUSD", Type: orderbook.KindLimit,
		Price: 100, Quantity: 10, Side: orderbook.Bid, TransactTime: time.Now(),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if aggressor.Status != model.OrderStatusFilled {
		t.Fatalf("expected aggressor Filled, got %v", aggressor.Status)
	}
	if resting.Status != model.OrderStatusFilled {
		t.Fatalf("expected resting order Filled via synthesized event, got %v", resting.Status)
	}
}

func TestCancelOrderRemovesRestingOrder(t *testing.T) {
	gw := New("BTCUSD")
	ctx := context.Background()

	_, err := gw.AddOrder(ctx, model.AddOrder{
		GatewayID: "cl-1", Symbol: "BTCUSD", Type: orderbook.KindLimit,
		Price: 100, Quantity: 10, Side: orderbook.Bid, TransactTime: time.Now(),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	canceled, err := gw.CancelOrder(ctx, model.CancelOrder{GatewayID: "cl-1-cancel", OrigGatewayID: "cl-1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if canceled.Status != model.OrderStatusCanceled {
		t.Fatalf("expected Canceled status, got %v", canceled.Status)
	}

	if _, ok := gw.Engine().BestBid(); ok {
		t.Fatal("expected book to be empty after cancel")
	}
}

func TestCancelOrderRejectsAlreadyFilled(t *testing.T) {
	gw := New("BTCUSD")
	ctx := context.Background()

	_, err := gw.AddOrder(ctx, model.AddOrder{
		GatewayID: "cl-1", Symbol: "BTCUSD", Type: orderbook.KindLimit,
		Price: 100, Quantity: 10, Side: orderbook.Ask, TransactTime: time.Now(),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err = gw.AddOrder(ctx, model.AddOrder{
		GatewayID: "cl-2", Symbol: "BTCUSD", Type: orderbook.KindLimit,
		Price: 100, Quantity: 10, Side: orderbook.Bid, TransactTime: time.Now(),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := gw.CancelOrder(ctx, model.CancelOrder{GatewayID: "cl-1-cancel", OrigGatewayID: "cl-1"}); err == nil {
		t.Fatal("expected cancel of a fully filled order to fail")
	}
}

func TestModifyOrderReplacesRestingOrder(t *testing.T) {
	gw := New("BTCUSD")
	ctx := context.Background()

	_, err := gw.AddOrder(ctx, model.AddOrder{
		GatewayID: "cl-1", Symbol: "BTCUSD", Type: orderbook.KindLimit,
		Price: 100, Quantity: 10, Side: orderbook.Bid, TransactTime: time.Now(),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	replacement, err := gw.ModifyOrder(ctx, model.ModifyOrder{
		GatewayID: "cl-1-r1", OrigGatewayID: "cl-1", NewPrice: 105, NewQuantity: 20,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if replacement.Price != 105 || replacement.Quantity != 20 {
		t.Fatalf("expected replacement with new terms, got price=%d qty=%d", replacement.Price, replacement.Quantity)
	}

	bid, ok := gw.Engine().BestBid()
	if !ok || bid != 105 {
		t.Fatalf("expected best bid 105 after replace, got %d ok=%v", bid, ok)
	}
}

func TestAddOrderRejectedByRiskRuleNeverReachesEngine(t *testing.T) {
	tick := riskruleTickStub{step: 5}
	gw := New("BTCUSD", WithRiskRules(riskrule.NewChain(tick)))

	_, err := gw.AddOrder(context.Background(), model.AddOrder{
		GatewayID: "cl-1", Symbol: "BTCUSD", Type: orderbook.KindLimit,
		Price: 101, Quantity: 10, Side: orderbook.Bid, TransactTime: time.Now(),
	})
	if err == nil {
		t.Fatal("expected risk rule violation")
	}
	if _, ok := gw.Engine().BestBid(); ok {
		t.Fatal("expected rejected order to never reach the engine")
	}
}

type riskruleTickStub struct{ step uint64 }

func (r riskruleTickStub) Check(symbol string, cmd orderbook.Command) error {
	if cmd.Kind == orderbook.KindLimit && cmd.Price%r.step != 0 {
		return errStubViolation
	}
	return nil
}
