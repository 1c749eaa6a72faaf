package fixgateway

import (
	"testing"

	"github.com/quickfixgo/enum"
	"github.com/shopspring/decimal"
)

func TestTickScaleRoundTrips(t *testing.T) {
	scale := TickScale{"BTCUSD": 100}

	ticks := scale.toTicks("BTCUSD", decimal.NewFromFloat(12.34))
	if ticks != 1234 {
		t.Fatalf("expected 1234 ticks, got %d", ticks)
	}

	back := scale.toDecimal("BTCUSD", ticks)
	if !back.Equal(decimal.NewFromFloat(12.34)) {
		t.Fatalf("expected round trip to 12.34, got %s", back)
	}
}

func TestTickScaleDefaultsToOne(t *testing.T) {
	scale := TickScale{}
	if scale.scaleFor("ANY") != 1 {
		t.Fatalf("expected default scale of 1")
	}
}

func TestSideConversionRoundTrips(t *testing.T) {
	if got := sideToCore(enum.Side_BUY); got.String() != "Bid" {
		t.Fatalf("expected Bid, got %s", got)
	}
	if got := sideToCore(enum.Side_SELL); got.String() != "Ask" {
		t.Fatalf("expected Ask, got %s", got)
	}
	if sideFromCore(sideToCore(enum.Side_BUY)) != enum.Side_BUY {
		t.Fatal("expected BUY round trip")
	}
}

func TestOrdTypeConversion(t *testing.T) {
	if ordTypeToCore(enum.OrdType_MARKET).String() != "Market" {
		t.Fatalf("expected Market order kind")
	}
	if ordTypeToCore(enum.OrdType_LIMIT).String() != "Limit" {
		t.Fatalf("expected Limit order kind")
	}
}
