// Package config loads and validates the application's yaml configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v2"
)

// Config represents the entire application configuration.
type Config struct {
	DatabasePath string    `yaml:"database_path"`
	CatalogPath  string    `yaml:"catalog_path"`
	WatchCatalog bool      `yaml:"watch_catalog"`
	Web          WebConfig `yaml:"web"`
	SessionTTL   time.Duration // Parsed from Web.SessionLifetimeStr
}

// WebConfig holds settings specific to the web server.
type WebConfig struct {
	ListenAddress      string `yaml:"listen_address"`
	Username           string `yaml:"username"`
	Password           string `yaml:"password"`
	SessionLifetimeStr string `yaml:"session_lifetime"`
}

// Load loads and validates the configuration from the given file path.
func Load(filePath string) (*Config, error) {
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file does not exist: %s", filePath)
	}

	configFile, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	err = yaml.Unmarshal(configFile, &cfg)
	if err != nil {
		return nil, fmt.Errorf("unable to parse YAML config file: %w", err)
	}

	if err := validateAndPrepare(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// validateAndPrepare checks for required fields and sets up derived values.
func validateAndPrepare(c *Config) error {
	// General
	if c.DatabasePath == "" {
		return errors.New("database_path is missing")
	}
	if c.WatchCatalog && c.CatalogPath == "" {
		return errors.New("watch_catalog requires catalog_path to be set")
	}

	// Web
	if c.Web.ListenAddress == "" {
		return errors.New("web.listen_address is missing")
	}
	if c.Web.Username == "" {
		return errors.New("web.username is missing")
	}
	if c.Web.Password == "" {
		return errors.New("web.password is missing")
	}
	if c.Web.SessionLifetimeStr == "" {
		c.SessionTTL = 12 * time.Hour
		return nil
	}
	ttl, err := time.ParseDuration(c.Web.SessionLifetimeStr)
	if err != nil {
		return fmt.Errorf("invalid web.session_lifetime: %w", err)
	}
	if ttl <= 0 {
		return errors.New("web.session_lifetime must be positive")
	}
	c.SessionTTL = ttl
	return nil
}
