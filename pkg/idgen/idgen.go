// Package idgen mints the opaque 128-bit ids the core orderbook engine
// treats as caller-assigned. Kept separate from pkg/orderbook so the
// matching engine itself does not depend on google/uuid.
package idgen

import (
	"github.com/google/uuid"

	"github.com/dtvu/lobcore/pkg/orderbook"
)

// New mints a random v4 UUID and reinterprets its bytes as an
// orderbook.OrderID.
func New() orderbook.OrderID {
	return orderbook.OrderID(uuid.New())
}

// FromString parses a canonical UUID string into an OrderID, for
// gateways (FIX ClOrdID, HTTP request bodies) that carry ids as text.
func FromString(s string) (orderbook.OrderID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return orderbook.OrderID{}, err
	}
	return orderbook.OrderID(u), nil
}
