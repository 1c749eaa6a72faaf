// Package model holds the gateway's view of an order: the
// externally-visible lifecycle state layered on top of the core's
// stateless Command/Event pair. None of this reaches pkg/orderbook.
package model

import (
	"time"

	"github.com/dtvu/lobcore/pkg/orderbook"
)

type OrderStatus string

const (
	OrderStatusNew             OrderStatus = "New"
	OrderStatusPartiallyFilled OrderStatus = "PartiallyFilled"
	OrderStatusFilled          OrderStatus = "Filled"
	OrderStatusCanceled        OrderStatus = "Canceled"
	OrderStatusRejected        OrderStatus = "Rejected"
)

type OrderExecType string

const (
	ExecTypeNew       OrderExecType = "New"
	ExecTypeTrade     OrderExecType = "Trade"
	ExecTypeCanceled  OrderExecType = "Canceled"
	ExecTypeRejected  OrderExecType = "Rejected"
)

// Order is the gateway's record of one client order, kept in step with
// the core Events it produces.
type Order struct {
	GatewayID     string
	OrigGatewayID string
	OrderID       orderbook.OrderID
	Account       string
	Symbol        string
	Side          orderbook.Side
	Type          orderbook.CommandKind
	Price         uint64
	Quantity      uint64
	TransactTime  time.Time

	Status         OrderStatus
	ExecType       OrderExecType
	CumQuantity    uint64
	LeavesQuantity uint64
	LastQuantity   uint64
	LastPrice      uint64
	RejectReason   string
}

// NewFromAddOrder seeds an Order in the PendingNew-equivalent state
// before the core has accepted it.
func NewFromAddOrder(orderID orderbook.OrderID, req AddOrder) *Order {
	return &Order{
		GatewayID:      req.GatewayID,
		OrderID:        orderID,
		Account:        req.Account,
		Symbol:         req.Symbol,
		Side:           req.Side,
		Type:           req.Type,
		Price:          req.Price,
		Quantity:       req.Quantity,
		TransactTime:   req.TransactTime,
		Status:         OrderStatusNew,
		ExecType:       ExecTypeNew,
		LeavesQuantity: req.Quantity,
	}
}

// ApplyEvent folds one core Event into the order's externally-visible
// state. The event must belong to this order (matched OrderID) or a
// counterparty fill of it.
func (o *Order) ApplyEvent(ev orderbook.Event) {
	switch ev.Kind {
	case orderbook.EventRejected:
		o.Status = OrderStatusRejected
		o.ExecType = ExecTypeRejected
		o.RejectReason = ev.Reason.String()
		o.LeavesQuantity = 0
	case orderbook.EventCanceled:
		o.Status = OrderStatusCanceled
		o.ExecType = ExecTypeCanceled
	case orderbook.EventPlaced:
		o.Status = OrderStatusNew
		o.ExecType = ExecTypeNew
		// Placed carries no QtyRemaining: the order rested untouched.
		o.LeavesQuantity = o.Quantity - o.CumQuantity
	case orderbook.EventFilled, orderbook.EventPartiallyFilled:
		total := ev.TotalFilled()
		o.CumQuantity += total
		o.LeavesQuantity = ev.QtyRemaining
		if total > 0 {
			o.ExecType = ExecTypeTrade
			last := ev.Fills[len(ev.Fills)-1]
			o.LastQuantity = last.Qty
			o.LastPrice = last.Price
		}
		if ev.Kind == orderbook.EventFilled {
			o.Status = OrderStatusFilled
		} else if o.CumQuantity > 0 {
			o.Status = OrderStatusPartiallyFilled
		}
	}
}

// CanCancel reports whether the order can still be canceled.
func (o *Order) CanCancel() bool {
	return o.Status == OrderStatusNew || o.Status == OrderStatusPartiallyFilled
}

// IsTerminal reports whether the order has reached a final state.
func (o *Order) IsTerminal() bool {
	switch o.Status {
	case OrderStatusFilled, OrderStatusCanceled, OrderStatusRejected:
		return true
	default:
		return false
	}
}

// AddOrder is the gateway-facing request to place a new order.
type AddOrder struct {
	GatewayID    string
	Account      string
	Symbol       string
	Type         orderbook.CommandKind
	Price        uint64
	Quantity     uint64
	Side         orderbook.Side
	TransactTime time.Time
}

// CancelOrder requests cancellation of a resting order by the
// GatewayID it was originally placed with.
type CancelOrder struct {
	GatewayID     string
	OrigGatewayID string
}

// ModifyOrder requests a cancel-replace: the original order is
// canceled and a new one placed under GatewayID with the given terms.
// The core has no in-place modify (spec §4.5.4 cancel is the only
// mutation of a resting order besides matching), so this composes two
// core commands the way a FIX OrderCancelReplaceRequest does.
type ModifyOrder struct {
	GatewayID     string
	OrigGatewayID string
	NewPrice      uint64
	NewQuantity   uint64
}
