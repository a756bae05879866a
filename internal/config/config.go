// Package config provides configuration management for the platform agent.
package config

import "time"

// Config is the root configuration structure.
type Config struct {
	Platform              string                     `json:"Platform"`   // platform identifier, e.g. "as9736-64d"
	SenderType            string                     `json:"SenderType"` // "statedb", "kafka", or "file"
	ThresholdOverridePath string                     `json:"ThresholdOverridePath"`
	File                  FileConfig                 `json:"File"`
	Kafka                 KafkaConfig                `json:"Kafka"`
	StateDB               StateDBConfig              `json:"StateDB"`
	SOCKSProxy            SOCKSConfig                `json:"SocksProxy"`
	Collectors            map[string]CollectorConfig `json:"Collectors"`
}

// FileConfig contains settings for the file sender.
type FileConfig struct {
	FilePath   string `json:"FilePath"`
	MaxSizeMB  int    `json:"MaxSizeMB"`
	MaxBackups int    `json:"MaxBackups"`
	Console    bool   `json:"Console"`
	Pretty     bool   `json:"Pretty"`
}

// KafkaConfig contains Kafka connection settings.
type KafkaConfig struct {
	Brokers        []string      `json:"Brokers"`
	Topic          string        `json:"Topic"`
	Compression    string        `json:"Compression"`
	RequiredAcks   int           `json:"RequiredAcks"`
	MaxRetries     int           `json:"MaxRetries"`
	RetryBackoff   time.Duration `json:"RetryBackoff"`
	FlushFrequency time.Duration `json:"FlushFrequency"`
	FlushMessages  int           `json:"FlushMessages"`
	BatchSize      int           `json:"BatchSize"`
	Timeout        time.Duration `json:"Timeout"`
	EnableTLS      bool          `json:"EnableTLS"`
	TLSCertFile    string        `json:"TLSCertFile"`
	TLSKeyFile     string        `json:"TLSKeyFile"`
	TLSCAFile      string        `json:"TLSCAFile"`
	SASLEnabled    bool          `json:"SASLEnabled"`
	SASLMechanism  string        `json:"SASLMechanism"`
	SASLUser       string        `json:"SASLUser"`
	SASLPassword   string        `json:"SASLPassword"`
}

// StateDBConfig contains connection settings for the switch state database,
// the Redis instance shared with the other platform daemons.
type StateDBConfig struct {
	Address  string `json:"Address"`
	Password string `json:"Password"`
	DB       int    `json:"DB"`
}

// SOCKSConfig contains SOCKS5 proxy settings for senders that leave the
// management network.
type SOCKSConfig struct {
	Host string `json:"Host"`
	Port int    `json:"Port"`
}

// CollectorConfig contains settings for individual collectors.
type CollectorConfig struct {
	Enabled        bool          `json:"Enabled"`
	Interval       time.Duration `json:"Interval"`
	IncludeSensors []string      `json:"IncludeSensors,omitempty"`
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Platform:              "as9736-64d",
		SenderType:            "statedb",
		ThresholdOverridePath: "/etc/platform/thermal_overrides.json",
		File: FileConfig{
			FilePath:   "log/platformagent/metrics.jsonl",
			MaxSizeMB:  50,
			MaxBackups: 3,
			Console:    true,
			Pretty:     false,
		},
		Kafka: KafkaConfig{
			Brokers:        []string{"localhost:9092"},
			Topic:          "platform-telemetry",
			Compression:    "snappy",
			RequiredAcks:   1,
			MaxRetries:     3,
			RetryBackoff:   500 * time.Millisecond,
			FlushFrequency: time.Second,
			FlushMessages:  100,
			BatchSize:      1000,
			Timeout:        10 * time.Second,
		},
		StateDB: StateDBConfig{
			Address: "localhost:6379",
			DB:      6,
		},
		Collectors: map[string]CollectorConfig{},
	}
}
