package riskrule

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/dtvu/lobcore/pkg/orderbook"
)

func TestTickSizeRuleRejectsOffStepPrice(t *testing.T) {
	r := &TickSizeRule{bands: map[string][]tickSizeBand{
		"BTCUSD": {{MaxPrice: 0, Step: 5}},
	}}

	cmd := orderbook.Limit(orderbook.OrderID{1}, orderbook.Bid, 101, 10)
	if err := r.Check("BTCUSD", cmd); err == nil {
		t.Fatal("expected tick size violation for price not divisible by step")
	}

	cmd = orderbook.Limit(orderbook.OrderID{2}, orderbook.Bid, 100, 10)
	if err := r.Check("BTCUSD", cmd); err != nil {
		t.Fatalf("expected no violation, got %v", err)
	}
}

func TestTickSizeRuleIgnoresUnconfiguredSymbol(t *testing.T) {
	r := &TickSizeRule{bands: map[string][]tickSizeBand{}}
	cmd := orderbook.Limit(orderbook.OrderID{1}, orderbook.Bid, 101, 10)
	if err := r.Check("ETHUSD", cmd); err != nil {
		t.Fatalf("expected no violation for unconfigured symbol, got %v", err)
	}
}

func TestTickSizeRuleIgnoresMarketOrders(t *testing.T) {
	r := &TickSizeRule{bands: map[string][]tickSizeBand{
		"BTCUSD": {{MaxPrice: 0, Step: 5}},
	}}
	cmd := orderbook.Market(orderbook.OrderID{1}, orderbook.Bid, 10)
	if err := r.Check("BTCUSD", cmd); err != nil {
		t.Fatalf("expected market orders to be exempt, got %v", err)
	}
}

func TestLimitPriceRuleRejectsOutsideBand(t *testing.T) {
	r := NewLimitPriceRule()
	r.SetBand("BTCUSD", decimal.NewFromInt(100), decimal.NewFromInt(200), 1)

	tooLow := orderbook.Limit(orderbook.OrderID{1}, orderbook.Bid, 50, 10)
	if err := r.Check("BTCUSD", tooLow); err == nil {
		t.Fatal("expected violation for price below floor")
	}

	tooHigh := orderbook.Limit(orderbook.OrderID{2}, orderbook.Bid, 250, 10)
	if err := r.Check("BTCUSD", tooHigh); err == nil {
		t.Fatal("expected violation for price above ceil")
	}

	inBand := orderbook.Limit(orderbook.OrderID{3}, orderbook.Bid, 150, 10)
	if err := r.Check("BTCUSD", inBand); err != nil {
		t.Fatalf("expected no violation, got %v", err)
	}
}

func TestChainStopsAtFirstViolation(t *testing.T) {
	tick := &TickSizeRule{bands: map[string][]tickSizeBand{
		"BTCUSD": {{MaxPrice: 0, Step: 5}},
	}}
	price := NewLimitPriceRule()
	price.SetBand("BTCUSD", decimal.NewFromInt(100), decimal.NewFromInt(200), 1)

	chain := NewChain(tick, price)

	offStep := orderbook.Limit(orderbook.OrderID{1}, orderbook.Bid, 101, 10)
	if err := chain.Check("BTCUSD", offStep); err == nil {
		t.Fatal("expected tick size violation to short-circuit the chain")
	}

	ok := orderbook.Limit(orderbook.OrderID{2}, orderbook.Bid, 150, 10)
	if err := chain.Check("BTCUSD", ok); err != nil {
		t.Fatalf("expected no violation, got %v", err)
	}
}
