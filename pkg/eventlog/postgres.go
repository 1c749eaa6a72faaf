// Package eventlog persists the matching engine's emitted Event stream
// to Postgres for replay and audit. This is explicitly a collaborator
// outside the core (spec.md §1 excludes persistence/recovery from the
// matching engine itself); it observes Execute's output, it never
// drives Execute.
package eventlog

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/cenkalti/backoff"
	_ "github.com/lib/pq" // nolint
	"go.uber.org/zap"
	pg "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/plugin/dbresolver"
)

// PostgresConfig is the connection shape for the event log database.
// Every write (Append/BulkAppend) always targets DataSource, the
// primary; ReplaySources, when non-empty, gives Store.Replay a pool of
// read replicas to query instead, so a gateway rebuilding order state
// after a restart never competes with the write path for a connection.
type PostgresConfig struct {
	DriverName                 string `yaml:"driver_name"`
	DataSource                 string `yaml:"data_source"`
	MaxOpenConns               int    `yaml:"max_open_conns"`
	MaxIdleConns               int    `yaml:"max_idle_conns"`
	ConnMaxLifeTimeMiliseconds int64  `yaml:"conn_max_life_time_ms"`
	MigrationConnURL           string `yaml:"migration_conn_url"`
	IsDevMode                  bool   `yaml:"is_dev_mode"`

	ReplaySources []string        `yaml:"replay_sources"`
	LogLevel      logger.LogLevel `yaml:"log_level"`
	Location      string          `yaml:"location"`
}

// replicaDialectors turns the configured replay sources into gorm
// dialectors, or nil if none are configured.
func replicaDialectors(sources []string) []gorm.Dialector {
	if len(sources) == 0 {
		return nil
	}
	dialectors := make([]gorm.Dialector, len(sources))
	for i, s := range sources {
		dialectors[i] = pg.Open(s)
	}
	return dialectors
}

// InitPostgres opens a gorm connection to the event log's primary
// database, registering any configured replay replicas behind
// dbresolver so only Store.Replay's read-only queries reach them.
func InitPostgres(cfg *PostgresConfig) (*gorm.DB, error) {
	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold: time.Second,
			LogLevel:      cfg.LogLevel,
			Colorful:      true,
		},
	)

	db, err := gorm.Open(pg.Open(cfg.DataSource), &gorm.Config{
		Logger: newLogger,
		NowFunc: func() time.Time {
			loc, _ := time.LoadLocation(cfg.Location)
			return time.Now().In(loc)
		},
	})
	if err != nil {
		zap.S().Debugf("open event log postgres fail: %+v", err)
		return nil, err
	}

	if replicas := replicaDialectors(cfg.ReplaySources); replicas != nil {
		zap.S().Debugf("routing event log replay queries to %d replica(s)", len(replicas))
		if err := db.Use(dbresolver.Register(dbresolver.Config{
			Replicas: replicas,
			Policy:   dbresolver.RandomPolicy{},
		})); err != nil {
			zap.S().Debugf("register event log replicas fail: %+v", err)
			return nil, err
		}
	}

	sqlDB, err := db.DB()
	if err != nil {
		zap.S().Debugf("get DB instance failed %v", err)
		return nil, err
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifeTimeMiliseconds) * time.Millisecond)

	return db, nil
}

// InitPostgresWithBackoff retries InitPostgres with exponential
// backoff, for callers that start before the database is reachable
// (container orchestration boot order).
func InitPostgresWithBackoff(cfg *PostgresConfig) *gorm.DB {
	var db *gorm.DB
	boff := backoff.NewExponentialBackOff()
	err := backoff.Retry(func() error {
		var err error
		db, err = InitPostgres(cfg)
		if err != nil {
			fmt.Printf("connect event log postgres error %s \n", err.Error())
		}
		return err
	}, boff)
	if err != nil {
		panic(err)
	}
	return db
}
