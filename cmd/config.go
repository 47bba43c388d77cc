package cmd

import (
	"fmt"
	"strings"
)

// Storage, ledger and feed backends selectable through the environment.
const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"

	LoyaltyPebble   = "pebble"
	LoyaltyPostgres = "postgres"

	FeedInProcess = "inprocess"
	FeedPostgres  = "postgres"
	FeedKafka     = "kafka"
)

type Config struct {
	HTTPPort               string
	StorageBackend         string
	DBHost                 string
	DBPort                 string
	DBUser                 string
	DBPassword             string
	DBName                 string
	DBSslMode              string
	LoyaltyBackend         string
	PebbleDir              string
	SeedFile               string
	FeedSource             string
	KafkaHost              string
	KafkaConsumerGroup     string
	KafkaOrderChangedTopic string
	JWTSecret              string
	StatsResyncSchedule    string
	LoyaltySweepSchedule   string
}

// WithDefaults fills unset optional keys.
func (c Config) WithDefaults() Config {
	if c.HTTPPort == "" {
		c.HTTPPort = "8080"
	}
	if c.StorageBackend == "" {
		c.StorageBackend = StorageMemory
	}
	if c.LoyaltyBackend == "" {
		c.LoyaltyBackend = LoyaltyPebble
	}
	if c.PebbleDir == "" {
		c.PebbleDir = "data/loyalty"
	}
	if c.FeedSource == "" {
		c.FeedSource = FeedInProcess
	}
	if c.DBSslMode == "" {
		c.DBSslMode = "disable"
	}
	if c.KafkaConsumerGroup == "" {
		c.KafkaConsumerGroup = "cafe-stats"
	}
	if c.KafkaOrderChangedTopic == "" {
		c.KafkaOrderChangedTopic = "order.changed"
	}
	if c.StatsResyncSchedule == "" {
		c.StatsResyncSchedule = "@every 30s"
	}
	if c.LoyaltySweepSchedule == "" {
		c.LoyaltySweepSchedule = "@every 1m"
	}
	return c
}

// Validate rejects unknown backends and combinations that cannot work.
func (c Config) Validate() error {
	switch c.StorageBackend {
	case StorageMemory, StoragePostgres:
	default:
		return fmt.Errorf("unknown STORAGE_BACKEND %q", c.StorageBackend)
	}
	switch c.LoyaltyBackend {
	case LoyaltyPebble, LoyaltyPostgres:
	default:
		return fmt.Errorf("unknown LOYALTY_BACKEND %q", c.LoyaltyBackend)
	}
	switch c.FeedSource {
	case FeedInProcess:
	case FeedPostgres:
		if c.StorageBackend != StoragePostgres {
			return fmt.Errorf("FEED_SOURCE=%s requires STORAGE_BACKEND=%s", FeedPostgres, StoragePostgres)
		}
	case FeedKafka:
		if c.KafkaHost == "" {
			return fmt.Errorf("FEED_SOURCE=%s requires KAFKA_HOST", FeedKafka)
		}
	default:
		return fmt.Errorf("unknown FEED_SOURCE %q", c.FeedSource)
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	return nil
}

func (c Config) usesPostgres() bool {
	return c.StorageBackend == StoragePostgres || c.LoyaltyBackend == LoyaltyPostgres
}

// DSN is the PostgreSQL connection string built from the DB_* keys.
func (c Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
}

func (c Config) kafkaBrokers() []string {
	var brokers []string
	for _, b := range strings.Split(c.KafkaHost, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}
