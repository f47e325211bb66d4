// Package config loads newsfeatures configuration from defaults, an optional YAML file
// and NEWSFEATURES_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/agorla23/aws-ml-portfolio-intelligence/internal/ingestion"
)

// EnvPrefix is the prefix for environment overrides, e.g. NEWSFEATURES_STORAGE_POSTGRES_DSN.
const EnvPrefix = "NEWSFEATURES"

// Config is the complete application configuration.
type Config struct {
	Data        DataConfig        `mapstructure:"data"        yaml:"data"`
	Storage     StorageConfig     `mapstructure:"storage"     yaml:"storage"`
	Scoring     ScoringConfig     `mapstructure:"scoring"     yaml:"scoring"`
	Aggregation AggregationConfig `mapstructure:"aggregation" yaml:"aggregation"`
	Vocabulary  VocabularyConfig  `mapstructure:"vocabulary"  yaml:"vocabulary"`
	Ingestion   IngestionConfig   `mapstructure:"ingestion"   yaml:"ingestion"`
	Metrics     MetricsConfig     `mapstructure:"metrics"     yaml:"metrics"`
	Logging     LoggingConfig     `mapstructure:"logging"     yaml:"logging"`
}

// DataConfig holds local directories.
type DataConfig struct {
	Dir       string `mapstructure:"dir"        yaml:"dir"`        // file backend root
	ReportDir string `mapstructure:"report_dir" yaml:"report_dir"` // report command output
}

// Storage backends.
const (
	BackendFile       = "file"
	BackendMemory     = "memory"
	BackendPostgres   = "postgres"
	BackendClickhouse = "clickhouse"
)

// StorageConfig selects where articles and features live.
// Articles covers raw/processed batches, the corpus and run history;
// features covers price features and pipeline outputs.
type StorageConfig struct {
	Articles      string `mapstructure:"articles"       yaml:"articles"` // file, memory, postgres
	Features      string `mapstructure:"features"       yaml:"features"` // file, memory, clickhouse
	PostgresDSN   string `mapstructure:"postgres_dsn"   yaml:"postgres_dsn"`
	ClickhouseDSN string `mapstructure:"clickhouse_dsn" yaml:"clickhouse_dsn"`
}

// Scoring providers.
const (
	ProviderKeyword = "keyword"
	ProviderHTTP    = "http"
)

// ScoringConfig selects the sentiment scorer.
type ScoringConfig struct {
	Provider string        `mapstructure:"provider" yaml:"provider"`
	URL      string        `mapstructure:"url"      yaml:"url"`
	Timeout  time.Duration `mapstructure:"timeout"  yaml:"timeout"`
}

// AggregationConfig holds daily aggregation settings.
type AggregationConfig struct {
	SignalMode string `mapstructure:"signal_mode" yaml:"signal_mode"` // "confidence" or "signed"
}

// VocabularyConfig points at an optional ticker vocabulary file.
type VocabularyConfig struct {
	File string `mapstructure:"file" yaml:"file"` // empty: built-in healthcare universe
}

// IngestionConfig holds RSS fetch settings.
type IngestionConfig struct {
	Feeds       []ingestion.FeedSource `mapstructure:"feeds"       yaml:"feeds"` // empty: ingestion.DefaultFeeds
	Timeout     time.Duration          `mapstructure:"timeout"     yaml:"timeout"`
	Concurrency int                    `mapstructure:"concurrency" yaml:"concurrency"`
	UserAgent   string                 `mapstructure:"user_agent"  yaml:"user_agent"`
}

// MetricsConfig holds Pushgateway settings.
type MetricsConfig struct {
	PushgatewayURL string `mapstructure:"pushgateway_url" yaml:"pushgateway_url"` // empty disables pushing
	Job            string `mapstructure:"job"             yaml:"job"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"  yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `mapstructure:"format" yaml:"format"` // "text" or "json"
}

// Load reads configuration. An empty path searches ./config/newsfeatures.yaml and
// ~/.newsfeatures/newsfeatures.yaml; a missing file there is not an error.
// An explicit path must exist.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("newsfeatures")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".newsfeatures"))
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}

// LoadAndValidate loads configuration and validates it.
func LoadAndValidate(path string) (*Config, error) {
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// FeedSources returns the configured feeds, or ingestion.DefaultFeeds when none are set.
func (c *IngestionConfig) FeedSources() []ingestion.FeedSource {
	if len(c.Feeds) == 0 {
		return ingestion.DefaultFeeds
	}
	return c.Feeds
}
