package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds all configuration for tablepulse-engine.
// Configuration can come from YAML file (config.yaml) or environment variables.
// Environment variables always override YAML values. Datasource credentials are
// never configured here; they arrive per connection through the API.
type Config struct {
	// Server configuration
	BindAddr string `yaml:"bind_addr" env:"BIND_ADDR" env-default:"0.0.0.0"`
	Port     string `yaml:"port" env:"PORT" env-default:"8000"`
	Env      string `yaml:"env" env:"ENVIRONMENT" env-default:"local"`
	LogLevel string `yaml:"log_level" env:"LOG_LEVEL" env-default:"info"`
	Version  string `yaml:"-"` // Set at load time, not from config

	// Profiling engine settings
	Profile ProfileConfig `yaml:"profile"`

	// Score history persistence settings
	History HistoryConfig `yaml:"history"`
}

// ProfileConfig holds the metric engine's tuning knobs.
type ProfileConfig struct {
	// FreshnessColumnsStr is a comma-separated, ordered list of candidate
	// timestamp column names tried for table freshness detection.
	FreshnessColumnsStr string `yaml:"freshness_columns" env:"FRESHNESS_COLUMNS" env-default:"updated_at,modified_at,created_at,timestamp,date_modified,last_updated"`

	// FreshnessColumns is the parsed list from FreshnessColumnsStr (not from config file).
	FreshnessColumns []string `yaml:"-"`

	// MaxColumnConcurrency bounds concurrent metric queries within one table.
	MaxColumnConcurrency int `yaml:"max_column_concurrency" env:"PROFILE_MAX_COLUMN_CONCURRENCY" env-default:"8"`

	// MaxTableConcurrency bounds concurrent tables in a whole-service batch.
	MaxTableConcurrency int `yaml:"max_table_concurrency" env:"PROFILE_MAX_TABLE_CONCURRENCY" env-default:"4"`

	// QueryTimeoutSeconds bounds each pushdown query. Timeouts are treated
	// like any other per-metric failure.
	QueryTimeoutSeconds int `yaml:"query_timeout_seconds" env:"PROFILE_QUERY_TIMEOUT_SECONDS" env-default:"30"`
}

// QueryTimeout returns the per-query timeout as a duration.
func (p ProfileConfig) QueryTimeout() time.Duration {
	return time.Duration(p.QueryTimeoutSeconds) * time.Second
}

// HistoryConfig holds score history persistence settings.
type HistoryConfig struct {
	// Dir is where per-(service, table) history files and change-detection
	// snapshots live. Created on first write.
	Dir string `yaml:"dir" env:"HISTORY_DIR" env-default:"_history"`
}

// Load reads configuration from config.yaml with environment variable overrides.
// The version parameter is injected at build time and set on the returned Config.
func Load(version string) (*Config, error) {
	cfg := &Config{
		Version: version,
	}

	// Load config from YAML file with environment variable overrides
	if err := cleanenv.ReadConfig("config.yaml", cfg); err != nil {
		return nil, fmt.Errorf("failed to read config.yaml: %w", err)
	}

	if err := cfg.parseComplexFields(); err != nil {
		return nil, fmt.Errorf("failed to parse config fields: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// parseComplexFields handles fields that need post-processing after loading.
func (c *Config) parseComplexFields() error {
	c.Profile.FreshnessColumns = parseColumnList(c.Profile.FreshnessColumnsStr)
	return nil
}

func (c *Config) validate() error {
	if c.Port == "" {
		return fmt.Errorf("port must not be empty")
	}
	if c.Profile.MaxColumnConcurrency < 1 {
		return fmt.Errorf("profile.max_column_concurrency must be at least 1, got %d", c.Profile.MaxColumnConcurrency)
	}
	if c.Profile.MaxTableConcurrency < 1 {
		return fmt.Errorf("profile.max_table_concurrency must be at least 1, got %d", c.Profile.MaxTableConcurrency)
	}
	if c.Profile.QueryTimeoutSeconds < 1 {
		return fmt.Errorf("profile.query_timeout_seconds must be at least 1, got %d", c.Profile.QueryTimeoutSeconds)
	}
	if len(c.Profile.FreshnessColumns) == 0 {
		return fmt.Errorf("profile.freshness_columns must name at least one candidate column")
	}
	if c.History.Dir == "" {
		return fmt.Errorf("history.dir must not be empty")
	}
	return nil
}

// parseColumnList splits a comma-separated column list, trimming whitespace
// and dropping empty entries. Order is preserved; it is the match priority.
func parseColumnList(value string) []string {
	parts := strings.Split(value, ",")
	columns := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			columns = append(columns, trimmed)
		}
	}
	return columns
}
