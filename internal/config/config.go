package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Transport identifies how the server talks to its clients.
type Transport string

const (
	TransportStdio Transport = "stdio"
	TransportHTTP  Transport = "http"
	TransportSSE   Transport = "sse"
)

// Config holds the process configuration for the documentation server.
type Config struct {
	Transport Transport `json:"transport"`
	Port      int       `json:"port"`

	// Documentation backend.
	APIBaseURL string `json:"api_base_url"`
	APIKey     string `json:"api_key"`

	// Minimum token budget forwarded to the docs backend. Requests below
	// this floor are raised to it.
	MinimumTokens int `json:"minimum_tokens"`

	// Watchdog timing for sessions that resolved but never fetched docs.
	WatchdogInterval time.Duration `json:"watchdog_interval"`
	SessionExpiry    time.Duration `json:"session_expiry"`

	LogLevel string `json:"log_level"`
}

const (
	DefaultPort          = 3000
	DefaultAPIBaseURL    = "https://context7.com/api"
	DefaultMinimumTokens = 10000

	DefaultWatchdogInterval = 30 * time.Second
	DefaultSessionExpiry    = 5 * time.Minute
)

// Load builds a Config from defaults overlaid with CTXDOCS_* environment
// variables. Command-line flags are applied on top by the caller.
func Load() *Config {
	cfg := &Config{
		Transport:        TransportStdio,
		Port:             DefaultPort,
		APIBaseURL:       DefaultAPIBaseURL,
		APIKey:           os.Getenv("CTXDOCS_API_KEY"),
		MinimumTokens:    DefaultMinimumTokens,
		WatchdogInterval: DefaultWatchdogInterval,
		SessionExpiry:    DefaultSessionExpiry,
		LogLevel:         "info",
	}

	if v := os.Getenv("CTXDOCS_TRANSPORT"); v != "" {
		cfg.Transport = Transport(v)
	}
	if v := os.Getenv("CTXDOCS_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Port = port
		}
	}
	if v := os.Getenv("CTXDOCS_API_URL"); v != "" {
		cfg.APIBaseURL = v
	}
	if v := os.Getenv("CTXDOCS_MINIMUM_TOKENS"); v != "" {
		if tokens, err := strconv.Atoi(v); err == nil {
			cfg.MinimumTokens = tokens
		}
	}
	if v := os.Getenv("CTXDOCS_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}

	return cfg
}

// Validate rejects configurations the server cannot start with. It runs
// before any port binding so a bad transport never opens a socket.
func (c *Config) Validate() error {
	switch c.Transport {
	case TransportStdio, TransportHTTP, TransportSSE:
	default:
		return fmt.Errorf("unknown transport %q (expected stdio, http or sse)", c.Transport)
	}

	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}
	if c.MinimumTokens < 1 {
		return fmt.Errorf("minimum tokens must be positive, got %d", c.MinimumTokens)
	}
	if c.SessionExpiry <= c.WatchdogInterval {
		return fmt.Errorf("session expiry (%s) must exceed watchdog interval (%s)",
			c.SessionExpiry, c.WatchdogInterval)
	}
	return nil
}
