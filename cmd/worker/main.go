package main

import (
	"context"
	"encoding/json"
	"flag"

	_ "github.com/lib/pq"
	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/dtvu/lobcore/config"
	"github.com/dtvu/lobcore/pkg/eventlog"
	"github.com/dtvu/lobcore/pkg/worker"
)

func main() {
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

	if cfg.Nats == nil {
		zap.S().Fatal("nats config is required to run the worker")
	}

	ctx := context.Background()

	nc, err := nats.Connect(cfg.Nats.URL)
	if err != nil {
		zap.S().Fatalf("connect nats failed: %v", err)
	}
	js, err := nc.JetStream()
	if err != nil {
		zap.S().Fatalf("init jetstream context failed: %v", err)
	}

	if _, err := js.AddStream(&nats.StreamConfig{
		Name:     "ORDERS",
		Subjects: []string{cfg.Nats.Subject},
	}); err != nil && err != nats.ErrStreamNameAlreadyInUse {
		zap.S().Fatalf("ensure jetstream stream failed: %v", err)
	}

	if cfg.EventLogDB == nil {
		zap.S().Fatal("event_log_db config is required to run the worker")
	}
	db, err := eventlog.CreateDBAndMigrate(cfg.EventLogDB, "file://migration/sql")
	if err != nil {
		zap.S().Fatalf("migrate event log: %v", err)
	}
	store := eventlog.NewSQLStore(db)

	w := worker.NewWorker(store, zap.L())
	zap.S().Infof("worker consuming subject %q durable %q", cfg.Nats.Subject, cfg.Nats.Durable)
	if err := w.StartConsumer(ctx, js, cfg.Nats.Subject, cfg.Nats.Durable); err != nil {
		zap.S().Fatalf("consumer stopped: %v", err)
	}
}
