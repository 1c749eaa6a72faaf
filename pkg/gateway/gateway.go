// Package gateway is the order lifecycle layer sitting in front of
// the core matching engine: it assigns OrderIDs, runs pre-trade risk
// checks, serializes access to the engine, and folds core Events into
// externally-visible order state. None of this lives inside
// pkg/orderbook — the core stays a pure, single-threaded Execute call.
package gateway

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/dtvu/lobcore/pkg/gateway/eventstore"
	"github.com/dtvu/lobcore/pkg/gateway/model"
	"github.com/dtvu/lobcore/pkg/idgen"
	"github.com/dtvu/lobcore/pkg/logging"
	"github.com/dtvu/lobcore/pkg/orderbook"
	"github.com/dtvu/lobcore/pkg/riskrule"
)

// ReportSink receives every order state change the gateway produces,
// the way the teacher's OrderGateway.OnOrderReport fans reports out to
// FIX sessions.
type ReportSink interface {
	OnOrderReport(ctx context.Context, order model.Order)
}

// EventRecorder durably appends core Events, decoupled so callers can
// wire pkg/eventlog.Store or leave it nil in tests.
type EventRecorder interface {
	Append(ctx context.Context, symbol string, ev orderbook.Event) error
}

// Gateway owns one symbol's engine instance plus the risk/report/audit
// collaborators around it. The engine itself is never safe for
// concurrent Execute calls (spec §5); mu is the same single-mutex
// shape as the teacher's orderBook.mu around addOrder.
type Gateway struct {
	mu     sync.Mutex
	symbol string
	engine *orderbook.Engine

	rules    *riskrule.Chain
	store    eventstore.Store
	recorder EventRecorder
	sink     ReportSink

	orders sync.Map // orderbook.OrderID -> *model.Order
}

// Option configures optional collaborators at construction.
type Option func(*Gateway)

func WithRiskRules(rules *riskrule.Chain) Option {
	return func(g *Gateway) { g.rules = rules }
}

func WithEventRecorder(r EventRecorder) Option {
	return func(g *Gateway) { g.recorder = r }
}

func WithReportSink(s ReportSink) Option {
	return func(g *Gateway) { g.sink = s }
}

func New(symbol string, opts ...Option) *Gateway {
	g := &Gateway{
		symbol: symbol,
		engine: orderbook.NewEngine(),
		store:  eventstore.NewInMemory(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Engine exposes the underlying engine for read-only BookQuery access
// (pkg/marketdata). Callers must not call Execute on it directly —
// use AddOrder/CancelOrder/ModifyOrder so order lifecycle stays
// consistent.
func (g *Gateway) Engine() *orderbook.Engine {
	return g.engine
}

var (
	errDuplicateOrder   = errors.New("gateway: duplicate gateway id")
	errUnknownGatewayID = errors.New("gateway: unknown gateway id")
	errNotCancelable    = errors.New("gateway: order is not in a cancelable state")
)

// AddOrder validates req against risk rules, mints an OrderID, submits
// a Limit or Market command to the engine, and reports the resulting
// lifecycle state.
func (g *Gateway) AddOrder(ctx context.Context, req model.AddOrder) (*model.Order, error) {
	ctx = logging.WithRequestID(ctx, req.GatewayID)
	if _, exists := g.store.OrderID(req.GatewayID); exists {
		return nil, errDuplicateOrder
	}

	cmd := g.buildCommand(req)
	ctx = logging.WithOrderID(ctx, cmd.ID)
	if g.rules != nil {
		if err := g.rules.Check(g.symbol, cmd); err != nil {
			rejected := model.NewFromAddOrder(cmd.ID, req)
			rejected.ApplyEvent(orderbook.Event{Kind: orderbook.EventRejected, ID: cmd.ID})
			rejected.RejectReason = err.Error()
			g.report(ctx, rejected)
			return rejected, err
		}
	}

	order := model.NewFromAddOrder(cmd.ID, req)
	g.orders.Store(cmd.ID, order)
	g.store.Track(req.GatewayID, cmd.ID)

	g.mu.Lock()
	ev := g.engine.Execute(cmd)
	g.mu.Unlock()

	g.applyAndReport(ctx, order, ev)
	return order, nil
}

func (g *Gateway) buildCommand(req model.AddOrder) orderbook.Command {
	id := idgen.New()
	if req.Type == orderbook.KindMarket {
		return orderbook.Market(id, req.Side, req.Quantity)
	}
	return orderbook.Limit(id, req.Side, req.Price, req.Quantity)
}

// CancelOrder looks up the resting order by its original GatewayID and
// submits a Cancel command.
func (g *Gateway) CancelOrder(ctx context.Context, req model.CancelOrder) (*model.Order, error) {
	ctx = logging.WithRequestID(ctx, req.GatewayID)
	orderID, ok := g.store.OrderID(req.OrigGatewayID)
	if !ok {
		return nil, errUnknownGatewayID
	}
	ctx = logging.WithOrderID(ctx, orderID)
	order, err := g.orderByID(orderID)
	if err != nil {
		return nil, err
	}
	if !order.CanCancel() {
		return nil, errNotCancelable
	}

	g.mu.Lock()
	ev := g.engine.Execute(orderbook.Cancel(orderID))
	g.mu.Unlock()

	g.store.Track(req.GatewayID, orderID)
	g.applyAndReport(ctx, order, ev)
	return order, nil
}

// ModifyOrder cancels the resting order and places a replacement under
// a new GatewayID, chaining the two in the event store the way a FIX
// OrderCancelReplaceRequest chains ClOrdID/OrigClOrdID.
func (g *Gateway) ModifyOrder(ctx context.Context, req model.ModifyOrder) (*model.Order, error) {
	ctx = logging.WithRequestID(ctx, req.GatewayID)
	orderID, ok := g.store.OrderID(req.OrigGatewayID)
	if !ok {
		return nil, errUnknownGatewayID
	}
	ctx = logging.WithOrderID(ctx, orderID)
	original, err := g.orderByID(orderID)
	if err != nil {
		return nil, err
	}
	if !original.CanCancel() {
		return nil, errNotCancelable
	}

	g.mu.Lock()
	cancelEv := g.engine.Execute(orderbook.Cancel(orderID))
	g.mu.Unlock()
	g.applyAndReport(ctx, original, cancelEv)

	replacement, err := g.AddOrder(ctx, model.AddOrder{
		GatewayID:    req.GatewayID,
		Account:      original.Account,
		Symbol:       original.Symbol,
		Type:         original.Type,
		Price:        req.NewPrice,
		Quantity:     req.NewQuantity,
		Side:         original.Side,
		TransactTime: original.TransactTime,
	})
	if err != nil {
		return nil, err
	}
	// Chain the GatewayIDs only once the replacement exists, then point
	// the new GatewayID back at the replacement's own OrderID.
	g.store.TrackReplace(req.GatewayID, req.OrigGatewayID)
	g.store.Track(req.GatewayID, replacement.OrderID)
	replacement.OrigGatewayID = req.OrigGatewayID
	return replacement, nil
}

func (g *Gateway) orderByID(id orderbook.OrderID) (*model.Order, error) {
	v, ok := g.orders.Load(id)
	if !ok {
		return nil, errUnknownGatewayID
	}
	return v.(*model.Order), nil
}

// applyAndReport folds ev into order, reports it, records it, and — on
// a Filled/PartiallyFilled event — folds the counterparty fills into
// their own resting orders too, mirroring the teacher's
// processMatchResult fan-out to both sides of a match.
func (g *Gateway) applyAndReport(ctx context.Context, order *model.Order, ev orderbook.Event) {
	order.ApplyEvent(ev)
	g.report(ctx, order)
	g.record(ctx, ev)

	rlog, ctx := logging.GetLogger(ctx)
	for _, fill := range ev.Fills {
		counter, err := g.orderByID(fill.OppositeOrderID)
		if err != nil {
			rlog.Warn(ctx, "fill against unknown counterparty order",
				zap.String("order_id", fill.OppositeOrderID.String()))
			continue
		}
		counterEv := orderbook.Event{
			Kind:      orderbook.EventPartiallyFilled,
			ID:        fill.OppositeOrderID,
			Side:      counter.Side,
			OrderType: commandKindToOrderKind(counter.Type),
			Fills: []orderbook.Fill{{
				OppositeOrderID: order.OrderID,
				Price:           fill.Price,
				Qty:             fill.Qty,
			}},
			QtyRemaining: counter.LeavesQuantity - fill.Qty,
		}
		if counterEv.QtyRemaining == 0 {
			counterEv.Kind = orderbook.EventFilled
		}
		counter.ApplyEvent(counterEv)
		g.report(ctx, counter)
		g.record(ctx, counterEv)
	}
}

func commandKindToOrderKind(k orderbook.CommandKind) orderbook.OrderKind {
	if k == orderbook.KindMarket {
		return orderbook.OrderKindMarket
	}
	return orderbook.OrderKindLimit
}

func (g *Gateway) report(ctx context.Context, order *model.Order) {
	if g.sink != nil {
		g.sink.OnOrderReport(ctx, *order)
	}
}

func (g *Gateway) record(ctx context.Context, ev orderbook.Event) {
	if g.recorder == nil {
		return
	}
	if err := g.recorder.Append(ctx, g.symbol, ev); err != nil {
		rlog, ctx := logging.GetLogger(ctx)
		rlog.Error(ctx, "append event to recorder failed", zap.Error(err))
	}
}
