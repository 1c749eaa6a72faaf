// Package marketdata fans out BookQuery snapshots to subscribers over
// Redis pub/sub. It is a pure read-side observer of the core engine —
// it never calls Execute, and the core is never aware it exists.
package marketdata

import (
	"context"
	"time"

	"github.com/cenkalti/backoff"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisConfig connects to the pub/sub broker used for market-data fan-out.
type RedisConfig struct {
	ConnectionURL       string `yaml:"connection_url"`
	PoolSize            int    `yaml:"pool_size"`
	DialTimeoutSeconds  int    `yaml:"dial_timeout_seconds"`
	ReadTimeoutSeconds  int    `yaml:"read_timeout_seconds"`
	WriteTimeoutSeconds int    `yaml:"write_timeout_seconds"`
	IdleTimeoutSeconds  int    `yaml:"idle_timeout_seconds"`
}

// InitRedis dials Redis from config and verifies connectivity with a Ping.
func InitRedis(cfg *RedisConfig) (*redis.Client, error) {
	opts, err := redis.ParseURL(cfg.ConnectionURL)
	if err != nil {
		zap.S().Debugf("parse redis url fail: %+v", err)
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.DialTimeout = time.Duration(cfg.DialTimeoutSeconds) * time.Second
	opts.ReadTimeout = time.Duration(cfg.ReadTimeoutSeconds) * time.Second
	opts.WriteTimeout = time.Duration(cfg.WriteTimeoutSeconds) * time.Second
	opts.ConnMaxIdleTime = time.Duration(cfg.IdleTimeoutSeconds) * time.Second

	client := redis.NewClient(opts)
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}

	zap.S().Debug("connect to market data redis successful")
	return client, nil
}

// InitRedisWithBackoff retries InitRedis with exponential backoff.
func InitRedisWithBackoff(cfg *RedisConfig) *redis.Client {
	var client *redis.Client
	boff := backoff.NewExponentialBackOff()
	err := backoff.Retry(func() error {
		var err error
		client, err = InitRedis(cfg)
		return err
	}, boff)
	if err != nil {
		panic(err)
	}
	return client
}
