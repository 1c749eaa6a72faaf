package fixgateway

import (
	"github.com/quickfixgo/enum"
	"github.com/shopspring/decimal"

	gwmodel "github.com/dtvu/lobcore/pkg/gateway/model"
	"github.com/dtvu/lobcore/pkg/orderbook"
)

// TickScale converts between a symbol's decimal price unit and the
// core's integer ticks. A scale of 100 means two decimal places of
// precision are preserved as ticks (1.23 -> 123 ticks).
type TickScale map[string]int64

func (s TickScale) scaleFor(symbol string) int64 {
	if v, ok := s[symbol]; ok && v > 0 {
		return v
	}
	return 1
}

func (s TickScale) toTicks(symbol string, price decimal.Decimal) uint64 {
	scaled := price.Mul(decimal.NewFromInt(s.scaleFor(symbol)))
	return uint64(scaled.IntPart())
}

func (s TickScale) toDecimal(symbol string, ticks uint64) decimal.Decimal {
	return decimal.NewFromInt(int64(ticks)).Div(decimal.NewFromInt(s.scaleFor(symbol)))
}

func sideToCore(side enum.Side) orderbook.Side {
	if side == enum.Side_SELL {
		return orderbook.Ask
	}
	return orderbook.Bid
}

func sideFromCore(side orderbook.Side) enum.Side {
	if side == orderbook.Ask {
		return enum.Side_SELL
	}
	return enum.Side_BUY
}

func ordTypeToCore(ot enum.OrdType) orderbook.CommandKind {
	if ot == enum.OrdType_MARKET {
		return orderbook.KindMarket
	}
	return orderbook.KindLimit
}

var ordStatusToFIX = map[gwmodel.OrderStatus]enum.OrdStatus{
	gwmodel.OrderStatusNew:             enum.OrdStatus_NEW,
	gwmodel.OrderStatusPartiallyFilled: enum.OrdStatus_PARTIALLY_FILLED,
	gwmodel.OrderStatusFilled:          enum.OrdStatus_FILLED,
	gwmodel.OrderStatusCanceled:        enum.OrdStatus_CANCELED,
	gwmodel.OrderStatusRejected:        enum.OrdStatus_REJECTED,
}

var execTypeToFIX = map[gwmodel.OrderExecType]enum.ExecType{
	gwmodel.ExecTypeNew:      enum.ExecType_NEW,
	gwmodel.ExecTypeTrade:    enum.ExecType_TRADE,
	gwmodel.ExecTypeCanceled: enum.ExecType_CANCELED,
	gwmodel.ExecTypeRejected: enum.ExecType_REJECTED,
}
