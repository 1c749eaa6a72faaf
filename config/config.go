package config

import (
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/dtvu/lobcore/pkg/eventlog"
	"github.com/dtvu/lobcore/pkg/marketdata"
)

// EventBusConfig points the Kafka publisher/consumer group at a
// broker set and topic.
type EventBusConfig struct {
	Brokers  []string `yaml:"brokers"`
	Topic    string   `yaml:"topic"`
	DLQTopic string   `yaml:"dlq_topic"`
	GroupID  string   `yaml:"group_id"`
}

// FixGatewayConfig points the FIX acceptor at its session settings
// file and the decimal/tick scale used per symbol.
type FixGatewayConfig struct {
	ConfigFilepath string           `yaml:"config_filepath"`
	TickScale      map[string]int64 `yaml:"tick_scale"`
}

// NatsConfig points the worker's JetStream consumer at a server and
// durable subscription.
type NatsConfig struct {
	URL     string `yaml:"url"`
	Subject string `yaml:"subject"`
	Durable string `yaml:"durable"`
}

type AppConfig struct {
	ServiceName string                     `yaml:"service_name"`
	Symbols     []string                   `yaml:"symbols"`
	EventLogDB  *eventlog.PostgresConfig   `yaml:"event_log_db"`
	MarketData  *marketdata.RedisConfig    `yaml:"market_data"`
	EventBus    *EventBusConfig            `yaml:"event_bus"`
	FixGateway  *FixGatewayConfig          `yaml:"fix_gateway"`
	Nats        *NatsConfig                `yaml:"nats"`
}

// Load reads config from filePath (or $CONFIG_FILE when empty),
// expanding environment variables before parsing as YAML.
func Load(filePath string) (*AppConfig, error) {
	if len(filePath) == 0 {
		filePath = os.Getenv("CONFIG_FILE")
	}

	sugar := zap.S().With("func", "config.Load", "filePath", filePath)
	sugar.Debug("loading config...")

	configBytes, err := os.ReadFile(filePath)
	if err != nil {
		sugar.Error("failed to load config file")
		return nil, err
	}
	configBytes = []byte(os.ExpandEnv(string(configBytes)))

	cfg := &AppConfig{}
	if err := yaml.Unmarshal(configBytes, cfg); err != nil {
		sugar.Error("failed to parse config file")
		return nil, err
	}

	zap.S().Debugf("config: %+v", cfg)
	return cfg, nil
}
