package fixgateway

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/quickfixgo/fix44/newordersingle"
	"github.com/quickfixgo/fix44/ordercancelreplacerequest"
	"github.com/quickfixgo/fix44/ordercancelrequest"
	"github.com/quickfixgo/quickfix"
	"github.com/quickfixgo/quickfix/log/file"
	"go.uber.org/zap"
)

const inboundQueueSize = 1_000_000

type inboundMsg struct {
	msg       *quickfix.Message
	sessionID quickfix.SessionID
}

// application implements quickfix.Application, routing decoded
// messages to an Acceptor's handlers through a single dispatcher
// goroutine so session callbacks never block on gateway/engine work.
type application struct {
	*quickfix.MessageRouter
	acceptor   *Acceptor
	dispatcher chan *inboundMsg
	log        *zap.Logger
}

func newApplication(acceptor *Acceptor, log *zap.Logger) *application {
	app := &application{
		MessageRouter: quickfix.NewMessageRouter(),
		acceptor:      acceptor,
		dispatcher:    make(chan *inboundMsg, inboundQueueSize),
		log:           log,
	}

	app.AddRoute(newordersingle.Route(app.onNewOrderSingle))
	app.AddRoute(ordercancelrequest.Route(app.onOrderCancelRequest))
	app.AddRoute(ordercancelreplacerequest.Route(app.onOrderCancelReplaceRequest))

	go app.runDispatcher()
	return app
}

func (a *application) runDispatcher() {
	for m := range a.dispatcher {
		if err := a.Route(m.msg, m.sessionID); err != nil {
			a.log.Warn("route fix message failed", zap.Error(err))
		}
	}
}

func (a application) OnCreate(sessionID quickfix.SessionID)  {}
func (a application) OnLogon(sessionID quickfix.SessionID)   {}
func (a application) OnLogout(sessionID quickfix.SessionID)  {}
func (a application) ToAdmin(msg *quickfix.Message, sessionID quickfix.SessionID) {}
func (a application) ToApp(msg *quickfix.Message, sessionID quickfix.SessionID) error {
	return nil
}
func (a application) FromAdmin(msg *quickfix.Message, sessionID quickfix.SessionID) quickfix.MessageRejectError {
	return nil
}

func (a *application) FromApp(msg *quickfix.Message, sessionID quickfix.SessionID) quickfix.MessageRejectError {
	a.dispatcher <- &inboundMsg{msg: msg, sessionID: sessionID}
	return nil
}

func (a *application) onNewOrderSingle(msg newordersingle.NewOrderSingle, sessionID quickfix.SessionID) quickfix.MessageRejectError {
	account, _ := msg.GetAccount()
	clOrdID, _ := msg.GetClOrdID()
	symbol, _ := msg.GetSymbol()
	side, _ := msg.GetSide()
	ordType, _ := msg.GetOrdType()
	price, _ := msg.GetPrice()
	orderQty, _ := msg.GetOrderQty()
	timeInForce, _ := msg.GetTimeInForce()
	transactTime, _ := msg.GetTransactTime()

	a.acceptor.handleNewOrderSingle(NewOrderSingle{
		SessionID:    sessionID,
		Account:      account,
		ClOrdID:      clOrdID,
		Symbol:       symbol,
		OrdType:      ordType,
		Price:        price,
		TimeInForce:  timeInForce,
		Side:         side,
		TransactTime: transactTime,
		OrderQty:     orderQty,
	})
	return nil
}

func (a *application) onOrderCancelRequest(msg ordercancelrequest.OrderCancelRequest, sessionID quickfix.SessionID) quickfix.MessageRejectError {
	origClOrdID, _ := msg.GetOrigClOrdID()
	clOrdID, _ := msg.GetClOrdID()
	account, _ := msg.GetAccount()
	symbol, _ := msg.GetSymbol()
	side, _ := msg.GetSide()

	a.acceptor.handleOrderCancelRequest(OrderCancelRequest{
		SessionID:   sessionID,
		OrigClOrdID: origClOrdID,
		ClOrdID:     clOrdID,
		Account:     account,
		Symbol:      symbol,
		Side:        side,
	})
	return nil
}

func (a *application) onOrderCancelReplaceRequest(msg ordercancelreplacerequest.OrderCancelReplaceRequest, sessionID quickfix.SessionID) quickfix.MessageRejectError {
	origClOrdID, _ := msg.GetOrigClOrdID()
	clOrdID, _ := msg.GetClOrdID()
	account, _ := msg.GetAccount()
	symbol, _ := msg.GetSymbol()
	side, _ := msg.GetSide()
	orderQty, _ := msg.GetOrderQty()
	ordType, _ := msg.GetOrdType()
	price, _ := msg.GetPrice()

	a.acceptor.handleOrderCancelReplaceRequest(OrderCancelReplaceRequest{
		SessionID:   sessionID,
		OrigClOrdID: origClOrdID,
		ClOrdID:     clOrdID,
		Account:     account,
		Symbol:      symbol,
		Side:        side,
		OrderQty:    orderQty,
		OrdType:     ordType,
		Price:       price,
	})
	return nil
}

func startAcceptor(configFilepath string, app *application) (*quickfix.Acceptor, error) {
	cfgFile, err := os.Open(configFilepath)
	if err != nil {
		return nil, fmt.Errorf("error opening %v: %w", configFilepath, err)
	}
	defer cfgFile.Close() // nolint

	data, err := io.ReadAll(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("error reading cfg: %w", err)
	}

	settings, err := quickfix.ParseSettings(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("error parsing cfg: %w", err)
	}

	logFactory, err := file.NewLogFactory(settings)
	if err != nil {
		return nil, fmt.Errorf("error creating log factory: %w", err)
	}

	acceptor, err := quickfix.NewAcceptor(app, quickfix.NewMemoryStoreFactory(), settings, logFactory)
	if err != nil {
		return nil, fmt.Errorf("unable to create acceptor: %w", err)
	}

	if err := acceptor.Start(); err != nil {
		return nil, fmt.Errorf("unable to start acceptor: %w", err)
	}

	return acceptor, nil
}
