// Package fixgateway is a FIX 4.4 acceptor translating NewOrderSingle,
// OrderCancelRequest, and OrderCancelReplaceRequest into
// pkg/gateway.Gateway calls, and reporting the resulting order state
// back as ExecutionReports. It is adapted from the teacher's
// pkg/oms/fix and pkg/fixserver, which duplicated the same acceptor —
// this package is their single, consolidated replacement.
package fixgateway

import (
	"time"

	"github.com/quickfixgo/enum"
	"github.com/quickfixgo/quickfix"
	"github.com/shopspring/decimal"
)

// NewOrderSingle is the decoded form of a FIX NewOrderSingle message.
type NewOrderSingle struct {
	SessionID quickfix.SessionID

	Account      string
	ClOrdID      string
	Symbol       string
	OrdType      enum.OrdType
	Price        decimal.Decimal
	TimeInForce  enum.TimeInForce
	Side         enum.Side
	TransactTime time.Time
	OrderQty     decimal.Decimal
}

// OrderCancelRequest is the decoded form of a FIX OrderCancelRequest.
type OrderCancelRequest struct {
	SessionID quickfix.SessionID

	OrigClOrdID string
	ClOrdID     string
	Account     string
	Symbol      string
	Side        enum.Side
}

// OrderCancelReplaceRequest is the decoded form of a FIX
// OrderCancelReplaceRequest (cancel-replace).
type OrderCancelReplaceRequest struct {
	SessionID quickfix.SessionID

	OrigClOrdID string
	ClOrdID     string
	Account     string
	Symbol      string
	Side        enum.Side
	OrderQty    decimal.Decimal
	OrdType     enum.OrdType
	Price       decimal.Decimal
}
