// Package config loads client configuration from flags, environment and an
// optional config file via viper.
package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/spf13/viper"
)

// DefaultAPIBase is the local development backend.
const DefaultAPIBase = "http://127.0.0.1:8000"

// DefaultHTTPTimeout bounds every backend call.
const DefaultHTTPTimeout = 30 * time.Second

// Logging configures the process logger.
type Logging struct {
	Level  string
	Format string
	File   string
}

// Config is everything the client needs to run.
type Config struct {
	APIBase     string
	Token       string
	HTTPTimeout time.Duration
	Logging     Logging
}

// FromViper reads the bound keys into a validated Config.
func FromViper() (Config, error) {
	cfg := Config{
		APIBase:     viper.GetString("api_base"),
		Token:       viper.GetString("token"),
		HTTPTimeout: viper.GetDuration("http_timeout"),
		Logging: Logging{
			Level:  viper.GetString("logging.level"),
			Format: viper.GetString("logging.format"),
			File:   viper.GetString("logging.file"),
		},
	}

	if cfg.APIBase == "" {
		cfg.APIBase = DefaultAPIBase
	}
	if u, err := url.Parse(cfg.APIBase); err != nil || u.Scheme == "" || u.Host == "" {
		return Config{}, fmt.Errorf("invalid api_base %q", cfg.APIBase)
	}
	if cfg.HTTPTimeout <= 0 {
		cfg.HTTPTimeout = DefaultHTTPTimeout
	}
	return cfg, nil
}
