package fixgateway

import (
	"github.com/google/uuid"
	"github.com/quickfixgo/enum"
	"github.com/quickfixgo/field"
	"github.com/quickfixgo/fix44/executionreport"
	"github.com/quickfixgo/quickfix"
	"github.com/shopspring/decimal"

	gwmodel "github.com/dtvu/lobcore/pkg/gateway/model"
)

// buildExecutionReport renders a gateway order's current state as a
// FIX 4.4 ExecutionReport, the same field set the teacher's
// orderReportToExecutionReport fills in from its OMS Order model.
func buildExecutionReport(order gwmodel.Order, scale TickScale) *quickfix.Message {
	ordStatus, ok := ordStatusToFIX[order.Status]
	if !ok {
		ordStatus = enum.OrdStatus_NEW
	}
	execType, ok := execTypeToFIX[order.ExecType]
	if !ok {
		execType = enum.ExecType_NEW
	}

	// Quantities are whole units on the way in (OrderQty.IntPart), so
	// only prices go through the tick scale.
	leaves := decimal.NewFromInt(int64(order.LeavesQuantity))
	cum := decimal.NewFromInt(int64(order.CumQuantity))
	avgPx := decimal.Zero
	if order.CumQuantity > 0 {
		avgPx = scale.toDecimal(order.Symbol, order.LastPrice)
	}

	report := executionreport.New(
		field.NewOrderID(order.OrderID.String()),
		field.NewExecID(uuid.New().String()),
		field.NewExecType(execType),
		field.NewOrdStatus(ordStatus),
		field.NewSide(sideFromCore(order.Side)),
		field.NewLeavesQty(leaves, 2),
		field.NewCumQty(cum, 2),
		field.NewAvgPx(avgPx, 2),
	)

	report.SetSymbol(order.Symbol)
	report.SetClOrdID(order.GatewayID)
	if order.OrigGatewayID != "" {
		report.SetOrigClOrdID(order.OrigGatewayID)
	}
	report.SetAccount(order.Account)
	report.SetOrderQty(decimal.NewFromInt(int64(order.Quantity)), 0)
	report.SetPrice(scale.toDecimal(order.Symbol, order.Price), 2)
	report.SetTransactTime(order.TransactTime)
	if order.LastQuantity > 0 {
		report.SetLastQty(decimal.NewFromInt(int64(order.LastQuantity)), 0)
		report.SetLastPx(scale.toDecimal(order.Symbol, order.LastPrice), 2)
	}
	if order.RejectReason != "" {
		report.SetText(order.RejectReason)
	}

	return report.ToMessage()
}
