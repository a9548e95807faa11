package config

import (
	"fmt"
	"time"
)

// Config holds runtime settings for the memokeeper CLI.
//
// MaxUploadSizeMiB is only a fallback: the server's advertised limit
// replaces it after the first status refresh.
type Config struct {
	ServerURL           string
	RequestTimeout      time.Duration
	MaxUploadSizeMiB    int
	OnlineCheckInterval time.Duration
	LogLevel            string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:8081"
	c.RequestTimeout = 10 * time.Second
	c.MaxUploadSizeMiB = 32
	c.OnlineCheckInterval = 3 * time.Second
	c.LogLevel = "warn"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// the environment (optionally seeded from a .env file), JSON (if present)
// and command-line flags (if present). Later sources take precedence over
// earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseJson(cfg)
	parseFlags(cfg)
	cfg.validate()
	return cfg
}

// validate panics on values the client cannot run with, like the other
// loaders do on malformed input.
func (c *Config) validate() {
	if c.OnlineCheckInterval <= 0 {
		panic(fmt.Sprintf("online check interval must be positive, got %s", c.OnlineCheckInterval))
	}
	if c.RequestTimeout < 0 {
		panic(fmt.Sprintf("request timeout must not be negative, got %s", c.RequestTimeout))
	}
}
