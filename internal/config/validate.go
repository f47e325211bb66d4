package config

import (
	"errors"
	"fmt"
	"net/url"

	"github.com/agorla23/aws-ml-portfolio-intelligence/internal/aggregation"
)

// Validate checks that all required fields are set and values are valid.
func (c *Config) Validate() error {
	if c.Data.Dir == "" {
		return errors.New("data.dir is required")
	}

	if err := c.Storage.validate(); err != nil {
		return err
	}

	switch c.Scoring.Provider {
	case ProviderKeyword:
	case ProviderHTTP:
		if err := validateURL("scoring.url", c.Scoring.URL); err != nil {
			return err
		}
	default:
		return fmt.Errorf("scoring.provider must be %q or %q, got %q", ProviderKeyword, ProviderHTTP, c.Scoring.Provider)
	}
	if c.Scoring.Timeout <= 0 {
		return fmt.Errorf("scoring.timeout must be > 0, got %s", c.Scoring.Timeout)
	}

	if _, err := aggregation.ParseSignalMode(c.Aggregation.SignalMode); err != nil {
		return fmt.Errorf("aggregation.signal_mode: %w", err)
	}

	if c.Ingestion.Timeout <= 0 {
		return fmt.Errorf("ingestion.timeout must be > 0, got %s", c.Ingestion.Timeout)
	}
	if c.Ingestion.Concurrency < 1 {
		return errors.New("ingestion.concurrency must be >= 1")
	}
	seen := make(map[string]bool, len(c.Ingestion.Feeds))
	for i, f := range c.Ingestion.Feeds {
		if f.Name == "" {
			return fmt.Errorf("ingestion.feeds[%d].name is required", i)
		}
		if seen[f.Name] {
			return fmt.Errorf("ingestion.feeds[%d].name %q is duplicated", i, f.Name)
		}
		seen[f.Name] = true
		if err := validateURL(fmt.Sprintf("ingestion.feeds[%d].url", i), f.URL); err != nil {
			return err
		}
	}

	if c.Metrics.PushgatewayURL != "" {
		if err := validateURL("metrics.pushgateway_url", c.Metrics.PushgatewayURL); err != nil {
			return err
		}
	}

	if _, err := parseLevel(c.Logging.Level); err != nil {
		return err
	}
	if c.Logging.Format != "text" && c.Logging.Format != "json" {
		return fmt.Errorf("logging.format must be \"text\" or \"json\", got %q", c.Logging.Format)
	}

	return nil
}

func (s *StorageConfig) validate() error {
	switch s.Articles {
	case BackendFile, BackendMemory:
	case BackendPostgres:
		if s.PostgresDSN == "" {
			return errors.New("storage.postgres_dsn is required when storage.articles is postgres")
		}
	default:
		return fmt.Errorf("storage.articles must be file, memory or postgres, got %q", s.Articles)
	}

	switch s.Features {
	case BackendFile, BackendMemory:
	case BackendClickhouse:
		if s.ClickhouseDSN == "" {
			return errors.New("storage.clickhouse_dsn is required when storage.features is clickhouse")
		}
	default:
		return fmt.Errorf("storage.features must be file, memory or clickhouse, got %q", s.Features)
	}
	return nil
}

func validateURL(field, raw string) error {
	if raw == "" {
		return fmt.Errorf("%s is required", field)
	}
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%s must be an absolute URL, got %q", field, raw)
	}
	return nil
}
