package sqlite

import (
	"fmt"
)

// Config contains SQLite-specific connection options.
type Config struct {
	Path string
}

// FromMap creates a Config from a generic config map.
func FromMap(config map[string]any) (*Config, error) {
	cfg := &Config{}

	if path, ok := config["path"].(string); ok {
		cfg.Path = path
	} else if database, ok := config["database"].(string); ok {
		cfg.Path = database
	} else if file, ok := config["file"].(string); ok {
		cfg.Path = file
	} else {
		return nil, fmt.Errorf("path is required")
	}

	return cfg, nil
}

// Validate checks if the config has all required fields.
func (c *Config) Validate() error {
	if c.Path == "" {
		return fmt.Errorf("path is required")
	}
	return nil
}
