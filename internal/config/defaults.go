package config

import (
	"time"

	"github.com/spf13/viper"

	"github.com/agorla23/aws-ml-portfolio-intelligence/internal/aggregation"
	"github.com/agorla23/aws-ml-portfolio-intelligence/internal/ingestion"
	"github.com/agorla23/aws-ml-portfolio-intelligence/internal/observability"
)

// Every key needs a default so AutomaticEnv can override it.
func setDefaults(v *viper.Viper) {
	v.SetDefault("data.dir", "data")
	v.SetDefault("data.report_dir", "reports")

	v.SetDefault("storage.articles", BackendFile)
	v.SetDefault("storage.features", BackendFile)
	v.SetDefault("storage.postgres_dsn", "")
	v.SetDefault("storage.clickhouse_dsn", "")

	v.SetDefault("scoring.provider", ProviderKeyword)
	v.SetDefault("scoring.url", "")
	v.SetDefault("scoring.timeout", 10*time.Second)

	v.SetDefault("aggregation.signal_mode", string(aggregation.SignalConfidence))

	v.SetDefault("vocabulary.file", "")

	v.SetDefault("ingestion.timeout", 10*time.Second)
	v.SetDefault("ingestion.concurrency", 4)
	v.SetDefault("ingestion.user_agent", ingestion.DefaultUserAgent)

	v.SetDefault("metrics.pushgateway_url", "")
	v.SetDefault("metrics.job", observability.DefaultNamespace)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
}
