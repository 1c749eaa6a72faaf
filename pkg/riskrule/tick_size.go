package riskrule

import (
	"encoding/json"
	"os"

	"github.com/dtvu/lobcore/pkg/orderbook"
)

// tickSizeBand bounds a step requirement to prices at or below
// MaxPrice ticks; MaxPrice 0 means unbounded.
type tickSizeBand struct {
	MaxPrice uint64 `json:"maxPrice"`
	Step     uint64 `json:"step"`
}

// TickSizeRule rejects limit prices that are not a multiple of the
// configured step for the price band the order falls into. Market
// orders carry no price and are exempt.
type TickSizeRule struct {
	bands map[string][]tickSizeBand
}

// NewTickSizeRuleFromFile loads a per-symbol band table from a JSON
// file shaped like {"SYMBOL": [{"maxPrice": 0, "step": 1}, ...]}.
func NewTickSizeRuleFromFile(path string) (*TickSizeRule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var bands map[string][]tickSizeBand
	if err := json.Unmarshal(data, &bands); err != nil {
		return nil, err
	}
	return &TickSizeRule{bands: bands}, nil
}

func (r *TickSizeRule) Check(symbol string, cmd orderbook.Command) error {
	if cmd.Kind != orderbook.KindLimit {
		return nil
	}
	bands, ok := r.bands[symbol]
	if !ok {
		return nil
	}
	for _, band := range bands {
		if band.MaxPrice != 0 && cmd.Price > band.MaxPrice {
			continue
		}
		if band.Step != 0 && cmd.Price%band.Step != 0 {
			return violation{rule: "tick_size", detail: "price is not a multiple of the tick step"}
		}
		return nil
	}
	return nil
}
