package kafka

import (
	"time"
)

// Config holds Kafka configuration
type Config struct {
	Brokers  []string
	ClientID string

	// Producer settings
	BatchSize    int
	BatchTimeout time.Duration
	RequiredAcks int // 0: no ack, 1: leader ack, -1: all replicas ack
	WriteTimeout time.Duration
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Brokers:  []string{"localhost:9092"},
		ClientID: "seller-portal",

		BatchSize:    100,
		BatchTimeout: 10 * time.Millisecond,
		RequiredAcks: -1, // All replicas
		WriteTimeout: 10 * time.Second,
	}
}

// Topics contains all marketplace Kafka topic names
var Topics = struct {
	OrdersEvents  string
	SellersEvents string
	CatalogEvents string
}{
	OrdersEvents:  "marketplace.orders.events",
	SellersEvents: "marketplace.sellers.events",
	CatalogEvents: "marketplace.catalog.events",
}
