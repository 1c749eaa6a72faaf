package fixgateway

import (
	"context"
	"fmt"
	"sync"

	"github.com/quickfixgo/quickfix"
	"go.uber.org/zap"

	"github.com/dtvu/lobcore/pkg/gateway"
	gwmodel "github.com/dtvu/lobcore/pkg/gateway/model"
)

// AcceptorConfig points at the quickfix session settings file, the
// same ini-style config quickfix.ParseSettings expects.
type AcceptorConfig struct {
	ConfigFilepath string
}

// Acceptor is the FIX-facing front for a set of per-symbol gateways.
// It never touches pkg/orderbook directly — every order flows through
// gateway.Gateway, which owns risk checks, the engine, and reporting.
type Acceptor struct {
	cfg      AcceptorConfig
	gateways map[string]*gateway.Gateway
	scale    TickScale
	log      *zap.Logger

	app      *application
	fixAccpt *quickfix.Acceptor
	sessions sync.Map // gatewayID (ClOrdID) -> quickfix.SessionID
}

func NewAcceptor(cfg AcceptorConfig, gateways map[string]*gateway.Gateway, scale TickScale, log *zap.Logger) *Acceptor {
	if log == nil {
		log = zap.NewNop()
	}
	return &Acceptor{cfg: cfg, gateways: gateways, scale: scale, log: log}
}

func (a *Acceptor) Start() error {
	a.app = newApplication(a, a.log)
	acceptor, err := startAcceptor(a.cfg.ConfigFilepath, a.app)
	if err != nil {
		return err
	}
	a.fixAccpt = acceptor
	return nil
}

// SetGateways replaces the symbol -> gateway routing table. Call it
// before Start; the acceptor keeps no internal default.
func (a *Acceptor) SetGateways(gateways map[string]*gateway.Gateway) {
	a.gateways = gateways
}

func (a *Acceptor) Stop() {
	if a.fixAccpt != nil {
		a.fixAccpt.Stop()
	}
}

func (a *Acceptor) gatewayFor(symbol string) (*gateway.Gateway, error) {
	gw, ok := a.gateways[symbol]
	if !ok {
		return nil, fmt.Errorf("fixgateway: no gateway registered for symbol %q", symbol)
	}
	return gw, nil
}

func (a *Acceptor) handleNewOrderSingle(req NewOrderSingle) {
	ctx := context.Background()
	gw, err := a.gatewayFor(req.Symbol)
	if err != nil {
		a.log.Warn("new order single for unknown symbol", zap.String("symbol", req.Symbol))
		return
	}

	a.sessions.Store(req.ClOrdID, req.SessionID)

	_, err = gw.AddOrder(ctx, gwmodel.AddOrder{
		GatewayID:    req.ClOrdID,
		Account:      req.Account,
		Symbol:       req.Symbol,
		Type:         ordTypeToCore(req.OrdType),
		Price:        a.scale.toTicks(req.Symbol, req.Price),
		Quantity:     uint64(req.OrderQty.IntPart()),
		Side:         sideToCore(req.Side),
		TransactTime: req.TransactTime,
	})
	if err != nil {
		a.log.Info("add order rejected", zap.String("cl_ord_id", req.ClOrdID), zap.Error(err))
	}
}

func (a *Acceptor) handleOrderCancelRequest(req OrderCancelRequest) {
	ctx := context.Background()
	gw, err := a.gatewayFor(req.Symbol)
	if err != nil {
		a.log.Warn("cancel request for unknown symbol", zap.String("symbol", req.Symbol))
		return
	}

	a.sessions.Store(req.ClOrdID, req.SessionID)

	_, err = gw.CancelOrder(ctx, gwmodel.CancelOrder{
		GatewayID:     req.ClOrdID,
		OrigGatewayID: req.OrigClOrdID,
	})
	if err != nil {
		a.log.Info("cancel rejected", zap.String("cl_ord_id", req.ClOrdID), zap.Error(err))
	}
}

func (a *Acceptor) handleOrderCancelReplaceRequest(req OrderCancelReplaceRequest) {
	ctx := context.Background()
	gw, err := a.gatewayFor(req.Symbol)
	if err != nil {
		a.log.Warn("cancel-replace for unknown symbol", zap.String("symbol", req.Symbol))
		return
	}

	a.sessions.Store(req.ClOrdID, req.SessionID)

	_, err = gw.ModifyOrder(ctx, gwmodel.ModifyOrder{
		GatewayID:     req.ClOrdID,
		OrigGatewayID: req.OrigClOrdID,
		NewPrice:      a.scale.toTicks(req.Symbol, req.Price),
		NewQuantity:   uint64(req.OrderQty.IntPart()),
	})
	if err != nil {
		a.log.Info("cancel-replace rejected", zap.String("cl_ord_id", req.ClOrdID), zap.Error(err))
	}
}

// OnOrderReport implements gateway.ReportSink, rendering the order's
// current state as an ExecutionReport and sending it to whichever
// session last touched that GatewayID.
func (a *Acceptor) OnOrderReport(ctx context.Context, order gwmodel.Order) {
	v, ok := a.sessions.Load(order.GatewayID)
	if !ok {
		return
	}
	sessionID := v.(quickfix.SessionID)

	msg := buildExecutionReport(order, a.scale)
	if err := quickfix.SendToTarget(msg, sessionID); err != nil {
		a.log.Warn("send execution report failed",
			zap.String("cl_ord_id", order.GatewayID), zap.Error(err))
	}
}
