package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"platformagent/internal/logger"
)

// rawConfig is used for JSON unmarshaling with duration strings.
type rawConfig struct {
	Platform              string                        `json:"Platform"`
	SenderType            string                        `json:"SenderType"`
	ThresholdOverridePath string                        `json:"ThresholdOverridePath"`
	File                  FileConfig                    `json:"File"`
	Kafka                 rawKafkaConfig                `json:"Kafka"`
	StateDB               StateDBConfig                 `json:"StateDB"`
	SOCKSProxy            SOCKSConfig                   `json:"SocksProxy"`
	Collectors            map[string]rawCollectorConfig `json:"Collectors"`
}

type rawKafkaConfig struct {
	Brokers        []string `json:"Brokers"`
	Topic          string   `json:"Topic"`
	Compression    string   `json:"Compression"`
	RequiredAcks   int      `json:"RequiredAcks"`
	MaxRetries     int      `json:"MaxRetries"`
	RetryBackoff   string   `json:"RetryBackoff"`
	FlushFrequency string   `json:"FlushFrequency"`
	FlushMessages  int      `json:"FlushMessages"`
	BatchSize      int      `json:"BatchSize"`
	Timeout        string   `json:"Timeout"`
	EnableTLS      bool     `json:"EnableTLS"`
	TLSCertFile    string   `json:"TLSCertFile"`
	TLSKeyFile     string   `json:"TLSKeyFile"`
	TLSCAFile      string   `json:"TLSCAFile"`
	SASLEnabled    bool     `json:"SASLEnabled"`
	SASLMechanism  string   `json:"SASLMechanism"`
	SASLUser       string   `json:"SASLUser"`
	SASLPassword   string   `json:"SASLPassword"`
}

type rawCollectorConfig struct {
	Enabled        bool     `json:"Enabled"`
	Interval       string   `json:"Interval"`
	IncludeSensors []string `json:"IncludeSensors,omitempty"`
}

// Load reads configuration from the specified file path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse parses configuration from JSON bytes. Fields absent from the input
// keep their defaults.
func Parse(data []byte) (*Config, error) {
	var raw rawConfig
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	cfg, err := convertRawConfig(&raw)
	if err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return cfg, nil
}

func convertRawConfig(raw *rawConfig) (*Config, error) {
	cfg := &Config{
		Platform:              raw.Platform,
		SenderType:            raw.SenderType,
		ThresholdOverridePath: raw.ThresholdOverridePath,
		File:                  raw.File,
		StateDB:               raw.StateDB,
		SOCKSProxy:            raw.SOCKSProxy,
		Collectors:            map[string]CollectorConfig{},
	}

	kafka, err := convertRawKafka(&raw.Kafka)
	if err != nil {
		return nil, err
	}
	cfg.Kafka = *kafka

	for name, rawColl := range raw.Collectors {
		coll, err := convertRawCollector(name, rawColl)
		if err != nil {
			return nil, err
		}
		cfg.Collectors[name] = *coll
	}

	return cfg, nil
}

func convertRawKafka(raw *rawKafkaConfig) (*KafkaConfig, error) {
	kafka := &KafkaConfig{
		Brokers:       raw.Brokers,
		Topic:         raw.Topic,
		Compression:   raw.Compression,
		RequiredAcks:  raw.RequiredAcks,
		MaxRetries:    raw.MaxRetries,
		FlushMessages: raw.FlushMessages,
		BatchSize:     raw.BatchSize,
		EnableTLS:     raw.EnableTLS,
		TLSCertFile:   raw.TLSCertFile,
		TLSKeyFile:    raw.TLSKeyFile,
		TLSCAFile:     raw.TLSCAFile,
		SASLEnabled:   raw.SASLEnabled,
		SASLMechanism: raw.SASLMechanism,
		SASLUser:      raw.SASLUser,
		SASLPassword:  raw.SASLPassword,
	}

	if raw.RetryBackoff != "" {
		d, err := time.ParseDuration(raw.RetryBackoff)
		if err != nil {
			return nil, fmt.Errorf("invalid RetryBackoff duration: %w", err)
		}
		kafka.RetryBackoff = d
	}
	if raw.FlushFrequency != "" {
		d, err := time.ParseDuration(raw.FlushFrequency)
		if err != nil {
			return nil, fmt.Errorf("invalid FlushFrequency duration: %w", err)
		}
		kafka.FlushFrequency = d
	}
	if raw.Timeout != "" {
		d, err := time.ParseDuration(raw.Timeout)
		if err != nil {
			return nil, fmt.Errorf("invalid Timeout duration: %w", err)
		}
		kafka.Timeout = d
	}

	return kafka, nil
}

func convertRawCollector(name string, raw rawCollectorConfig) (*CollectorConfig, error) {
	coll := &CollectorConfig{
		Enabled:        raw.Enabled,
		IncludeSensors: raw.IncludeSensors,
	}

	if raw.Interval != "" {
		d, err := time.ParseDuration(raw.Interval)
		if err != nil {
			return nil, fmt.Errorf("invalid interval for collector %s: %w", name, err)
		}
		coll.Interval = d
	}

	return coll, nil
}

// applyDefaults fills fields left empty by the input from DefaultConfig.
func (c *Config) applyDefaults() {
	def := DefaultConfig()

	if c.Platform == "" {
		c.Platform = def.Platform
	}
	if c.SenderType == "" {
		c.SenderType = def.SenderType
	}
	if c.ThresholdOverridePath == "" {
		c.ThresholdOverridePath = def.ThresholdOverridePath
	}
	if c.File.FilePath == "" {
		c.File.FilePath = def.File.FilePath
	}
	if c.File.MaxSizeMB == 0 {
		c.File.MaxSizeMB = def.File.MaxSizeMB
	}
	if c.File.MaxBackups == 0 {
		c.File.MaxBackups = def.File.MaxBackups
	}
	if len(c.Kafka.Brokers) == 0 {
		c.Kafka.Brokers = def.Kafka.Brokers
	}
	if c.Kafka.Topic == "" {
		c.Kafka.Topic = def.Kafka.Topic
	}
	if c.Kafka.Compression == "" {
		c.Kafka.Compression = def.Kafka.Compression
	}
	if c.Kafka.RetryBackoff == 0 {
		c.Kafka.RetryBackoff = def.Kafka.RetryBackoff
	}
	if c.Kafka.FlushFrequency == 0 {
		c.Kafka.FlushFrequency = def.Kafka.FlushFrequency
	}
	if c.Kafka.FlushMessages == 0 {
		c.Kafka.FlushMessages = def.Kafka.FlushMessages
	}
	if c.Kafka.BatchSize == 0 {
		c.Kafka.BatchSize = def.Kafka.BatchSize
	}
	if c.Kafka.Timeout == 0 {
		c.Kafka.Timeout = def.Kafka.Timeout
	}
	if c.StateDB.Address == "" {
		c.StateDB.Address = def.StateDB.Address
	}
	if c.StateDB.DB == 0 {
		c.StateDB.DB = def.StateDB.DB
	}
	if c.Collectors == nil {
		c.Collectors = map[string]CollectorConfig{}
	}
}

// rawLoggingConfig mirrors logger.Config for the separate logging file.
type rawLoggingConfig struct {
	Level      string `json:"Level"`
	FilePath   string `json:"FilePath"`
	MaxSizeMB  int    `json:"MaxSizeMB"`
	MaxBackups int    `json:"MaxBackups"`
	MaxAgeDays int    `json:"MaxAgeDays"`
	Compress   bool   `json:"Compress"`
	Console    bool   `json:"Console"`
}

// LoadLogging reads the logging configuration file. A missing file yields
// the logger defaults.
func LoadLogging(path string) (*logger.Config, error) {
	lc := logger.DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &lc, nil
		}
		return nil, fmt.Errorf("failed to read logging config: %w", err)
	}

	var raw rawLoggingConfig
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse logging config JSON: %w", err)
	}

	if raw.Level != "" {
		lc.Level = raw.Level
	}
	if raw.FilePath != "" {
		lc.FilePath = raw.FilePath
	}
	if raw.MaxSizeMB != 0 {
		lc.MaxSizeMB = raw.MaxSizeMB
	}
	if raw.MaxBackups != 0 {
		lc.MaxBackups = raw.MaxBackups
	}
	if raw.MaxAgeDays != 0 {
		lc.MaxAgeDays = raw.MaxAgeDays
	}
	lc.Compress = raw.Compress
	lc.Console = raw.Console

	return &lc, nil
}

// LoadSplit loads the agent and logging configuration files.
func LoadSplit(configPath, loggingPath string) (*Config, *logger.Config, error) {
	cfg, err := Load(configPath)
	if err != nil {
		return nil, nil, err
	}
	lc, err := LoadLogging(loggingPath)
	if err != nil {
		return nil, nil, err
	}
	return cfg, lc, nil
}
