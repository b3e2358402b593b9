package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is centralized process configuration.
// Keep infra values here and pass typed config into builders.
type Config struct {
	ServiceName string
	HTTPPort    string
	PostgresDSN string

	KafkaBrokers []string

	OutboxPollInterval time.Duration
	OutboxBatchSize    int
}

func Load() (Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("SERVICE_NAME", "ballotbox")
	v.SetDefault("HTTP_PORT", "8080")
	v.SetDefault("POSTGRES_DSN", "")
	v.SetDefault("KAFKA_BROKERS", "localhost:9092")
	v.SetDefault("OUTBOX_POLL_INTERVAL", "5s")
	v.SetDefault("OUTBOX_BATCH_SIZE", 100)

	var brokers []string
	for _, value := range strings.Split(v.GetString("KAFKA_BROKERS"), ",") {
		value = strings.TrimSpace(value)
		if value != "" {
			brokers = append(brokers, value)
		}
	}

	return Config{
		ServiceName:        v.GetString("SERVICE_NAME"),
		HTTPPort:           v.GetString("HTTP_PORT"),
		PostgresDSN:        v.GetString("POSTGRES_DSN"),
		KafkaBrokers:       brokers,
		OutboxPollInterval: v.GetDuration("OUTBOX_POLL_INTERVAL"),
		OutboxBatchSize:    v.GetInt("OUTBOX_BATCH_SIZE"),
	}, nil
}
