package riskrule

import (
	"github.com/shopspring/decimal"

	"github.com/dtvu/lobcore/pkg/orderbook"
)

// priceBand holds a symbol's permitted price range in decimal currency
// units, plus the scale used to convert a Command's integer ticks back
// to that unit for comparison.
type priceBand struct {
	ceil  decimal.Decimal
	floor decimal.Decimal
	scale decimal.Decimal // ticks per currency unit, e.g. 100 for cent ticks
}

// LimitPriceRule rejects limit orders priced outside a symbol's
// configured [floor, ceil] band. Bands are expressed in decimal
// currency units — shopspring/decimal is the only place in the
// gateway-side stack that touches fractional prices, since the core
// itself only ever deals in integer ticks.
type LimitPriceRule struct {
	bands map[string]priceBand
}

func NewLimitPriceRule() *LimitPriceRule {
	return &LimitPriceRule{bands: make(map[string]priceBand)}
}

// SetBand configures the permitted decimal price range for symbol,
// given the number of ticks per currency unit used to price it.
func (r *LimitPriceRule) SetBand(symbol string, floor, ceil decimal.Decimal, ticksPerUnit int64) {
	r.bands[symbol] = priceBand{
		ceil:  ceil,
		floor: floor,
		scale: decimal.New(ticksPerUnit, 0),
	}
}

func (r *LimitPriceRule) Check(symbol string, cmd orderbook.Command) error {
	if cmd.Kind != orderbook.KindLimit {
		return nil
	}
	band, ok := r.bands[symbol]
	if !ok {
		return nil
	}

	price := decimal.NewFromInt(int64(cmd.Price)).Div(band.scale)
	if price.GreaterThan(band.ceil) || price.LessThan(band.floor) {
		return violation{rule: "limit_price", detail: "price outside permitted band"}
	}
	return nil
}
