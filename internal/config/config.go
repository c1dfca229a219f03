package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds the client's configuration values. Tags like
// `envconfig:"TEEBAY_API_URL"` name the environment variable;
// `default:""` supplies a fallback and `required:"true"` makes a
// variable mandatory.
type Config struct {
	AppEnv   string `envconfig:"APP_ENV" default:"development"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	API      APIConfig
	Catalog  CatalogConfig
	Auth     AuthConfig
}

// APIConfig holds the remote Teebay endpoint settings.
type APIConfig struct {
	BaseURL string        `envconfig:"TEEBAY_API_URL" required:"true"`
	Timeout time.Duration `envconfig:"TEEBAY_API_TIMEOUT" default:"15s"`
}

// CatalogConfig holds listing-screen settings.
type CatalogConfig struct {
	PageSize int `envconfig:"CATALOG_PAGE_SIZE" default:"10"`
}

// AuthConfig optionally carries credentials for non-interactive sign-in.
// Both empty means the client starts signed out.
type AuthConfig struct {
	Email    string `envconfig:"TEEBAY_EMAIL"`
	Password string `envconfig:"TEEBAY_PASSWORD"`
}

var cfg Config

// Load initializes the configuration from environment variables. It should
// be called once during startup.
func Load() (*Config, error) {
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("config: failed to process configuration: %w", err)
	}
	return &cfg, nil
}
