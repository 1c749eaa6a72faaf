package main

import (
	"encoding/json"
	"flag"

	"go.uber.org/zap"

	"github.com/dtvu/lobcore/config"
	"github.com/dtvu/lobcore/pkg/eventlog"
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

	if cfg.EventLogDB == nil {
		zap.S().Fatal("event_log_db config is required to run migrations")
	}

	if err := eventlog.Migrate("file://migration/sql", cfg.EventLogDB.MigrationConnURL); err != nil {
		zap.S().Fatalf("migrate event log: %v", err)
	}
}
