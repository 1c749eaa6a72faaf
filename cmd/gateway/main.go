package main

import (
	"context"
	"encoding/json"
	"flag"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/dtvu/lobcore/config"
	"github.com/dtvu/lobcore/pkg/eventbus"
	"github.com/dtvu/lobcore/pkg/eventlog"
	"github.com/dtvu/lobcore/pkg/fixgateway"
	"github.com/dtvu/lobcore/pkg/gateway"
	"github.com/dtvu/lobcore/pkg/marketdata"
)

func main() {
	go func() {
		_ = http.ListenAndServe("localhost:6060", nil)
	}()

	var configFile string
	flag.StringVar(&configFile, "config-file", "", "Specify config file path")
	flag.Parse()

	cfg, err := config.Load(configFile)
	if err != nil {
		panic(err)
	}
	if configBytes, err := json.MarshalIndent(cfg, "", "   "); err != nil {
		zap.S().Warnf("could not convert config to JSON: %v", err)
	} else {
		zap.S().Debugf("load config %s", string(configBytes))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var recorders []gatewayRecorder
	if cfg.EventLogDB != nil {
		db, err := eventlog.CreateDBAndMigrate(cfg.EventLogDB, "file://migration/sql")
		if err != nil {
			zap.S().Fatalf("migrate event log: %v", err)
		}
		recorders = append(recorders, eventlog.NewSQLStore(db))
	}
	var busPublisher *eventbus.Publisher
	if cfg.EventBus != nil {
		busPublisher = eventbus.NewPublisher(eventbus.ProducerConfig{Brokers: cfg.EventBus.Brokers})
		recorders = append(recorders, &kafkaRecorder{pub: busPublisher, topic: cfg.EventBus.Topic})
	}
	var recorder *fanoutRecorder
	if len(recorders) > 0 {
		recorder = &fanoutRecorder{recorders: recorders}
	}

	var publisher *marketdata.Publisher
	if cfg.MarketData != nil {
		client := marketdata.InitRedisWithBackoff(cfg.MarketData)
		publisher = marketdata.NewPublisher(client)
	}

	var acceptor *fixgateway.Acceptor
	if cfg.FixGateway != nil {
		acceptor = fixgateway.NewAcceptor(
			fixgateway.AcceptorConfig{ConfigFilepath: cfg.FixGateway.ConfigFilepath},
			nil,
			fixgateway.TickScale(cfg.FixGateway.TickScale),
			zap.L(),
		)
	}

	gateways := make(map[string]*gateway.Gateway, len(cfg.Symbols))
	for _, symbol := range cfg.Symbols {
		var opts []gateway.Option
		if recorder != nil {
			opts = append(opts, gateway.WithEventRecorder(recorder))
		}
		if acceptor != nil {
			opts = append(opts, gateway.WithReportSink(acceptor))
		}
		gateways[symbol] = gateway.New(symbol, opts...)
	}

	if acceptor != nil {
		acceptor.SetGateways(gateways)
		if err := acceptor.Start(); err != nil {
			zap.S().Fatalf("start fix acceptor failed: %v", err)
		}
		defer acceptor.Stop()
	}
	if busPublisher != nil {
		defer busPublisher.Close()
	}

	if publisher != nil {
		go publishSnapshots(ctx, gateways, publisher)
	}

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	zap.S().Info("gateway started, press Ctrl+C to exit")

	<-sigs
	zap.S().Info("shutting down...")
	cancel()
}

func publishSnapshots(ctx context.Context, gateways map[string]*gateway.Gateway, publisher *marketdata.Publisher) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}
		for symbol, gw := range gateways {
			if err := publisher.PublishSnapshot(ctx, symbol, gw.Engine(), 10); err != nil {
				zap.S().Warnf("publish snapshot for %s failed: %v", symbol, err)
			}
		}
	}
}
