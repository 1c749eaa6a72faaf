// Package riskrule implements pre-trade checks that run before a
// Command ever reaches the core engine. Rules only ever see the
// engine's integer-tick Command — a rule configured in decimal
// currency units converts the Command's ticks into those units inside
// its own Check, never inside the core.
package riskrule

import (
	"fmt"

	"github.com/dtvu/lobcore/pkg/orderbook"
)

// Rule rejects a command outright before it reaches the engine. A
// non-nil error means the gateway must synthesize a Rejected event
// without ever calling Engine.Execute.
type Rule interface {
	Check(symbol string, cmd orderbook.Command) error
}

// Chain runs rules in order and stops at the first violation.
type Chain struct {
	rules []Rule
}

func NewChain(rules ...Rule) *Chain {
	return &Chain{rules: rules}
}

func (c *Chain) Check(symbol string, cmd orderbook.Command) error {
	for _, r := range c.rules {
		if err := r.Check(symbol, cmd); err != nil {
			return err
		}
	}
	return nil
}

// violation is the concrete error type every rule in this package
// returns, so callers can distinguish a risk rejection from a
// transport or decode error.
type violation struct {
	rule   string
	detail string
}

func (v violation) Error() string {
	return fmt.Sprintf("risk rule %s: %s", v.rule, v.detail)
}
