// Package config loads service settings by layering defaults, an optional
// YAML file, and STORM_-prefixed environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Source selects where raw events come from.
const (
	SourceKafka = "kafka"
	SourceCSV   = "csv"
)

// Config holds all service settings.
type Config struct {
	LogLevel        string        `koanf:"log_level"`
	LogFormat       string        `koanf:"log_format"`
	HTTPAddr        string        `koanf:"http_addr"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`

	// Source is "kafka" (streaming) or "csv" (local file batch).
	Source string `koanf:"source"`

	// CSVPath points at a StormData-style CSV (optionally .gz) when Source
	// is "csv".
	CSVPath string `koanf:"csv_path"`

	KafkaBrokersRaw  string `koanf:"kafka_brokers"`
	KafkaSourceTopic string `koanf:"kafka_source_topic"`
	// KafkaSinkTopic receives cleaned events; empty disables publishing.
	KafkaSinkTopic string `koanf:"kafka_sink_topic"`
	KafkaGroupID   string `koanf:"kafka_group_id"`

	BatchSize int `koanf:"batch_size"`

	// ReportTopN is the default top-N slice size for report views.
	ReportTopN int `koanf:"report_top_n"`

	// KafkaBrokers is derived from KafkaBrokersRaw during Load.
	KafkaBrokers []string `koanf:"-"`
}

func defaults() *Config {
	return &Config{
		LogLevel:         "info",
		LogFormat:        "json",
		HTTPAddr:         ":8080",
		ShutdownTimeout:  10 * time.Second,
		Source:           SourceKafka,
		KafkaBrokersRaw:  "localhost:9092",
		KafkaSourceTopic: "raw-storm-events",
		KafkaSinkTopic:   "cleaned-storm-events",
		KafkaGroupID:     "storm-impact-report",
		BatchSize:        500,
		ReportTopN:       5,
	}
}

// Load builds a Config by layering defaults, an optional YAML file, and
// environment variables.
// Order of precedence (low -> high):
//  1. defaults
//  2. file (YAML) if STORM_CONFIG is set
//  3. env (prefix STORM_), e.g. STORM_KAFKA_BROKERS, STORM_BATCH_SIZE
func Load() (*Config, error) {
	k := koanf.New(".")

	if path := os.Getenv("STORM_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file: %w", err)
		}
	}

	// Map env keys like STORM_BATCH_SIZE -> batch_size (flat keys,
	// underscores preserved to match the koanf struct tags).
	envProvider := env.Provider("STORM_", ".", func(s string) string {
		s = strings.ToLower(s)
		return strings.TrimPrefix(s, "storm_")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	cfg := *defaults()
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.KafkaBrokers = splitBrokers(cfg.KafkaBrokersRaw)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Source {
	case SourceKafka:
		if len(c.KafkaBrokers) == 0 {
			return errors.New("kafka_brokers is required when source is kafka")
		}
		if c.KafkaSourceTopic == "" {
			return errors.New("kafka_source_topic is required when source is kafka")
		}
	case SourceCSV:
		if c.CSVPath == "" {
			return errors.New("csv_path is required when source is csv")
		}
	default:
		return fmt.Errorf("source must be %q or %q, got %q", SourceKafka, SourceCSV, c.Source)
	}

	if c.BatchSize <= 0 {
		return errors.New("batch_size must be positive")
	}
	if c.ReportTopN <= 0 {
		return errors.New("report_top_n must be positive")
	}
	if c.ShutdownTimeout <= 0 {
		return errors.New("shutdown_timeout must be positive")
	}
	return nil
}

// splitBrokers turns a comma-separated broker list into a slice, dropping
// empty entries.
func splitBrokers(raw string) []string {
	parts := strings.Split(raw, ",")
	brokers := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			brokers = append(brokers, p)
		}
	}
	return brokers
}
