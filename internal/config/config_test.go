package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLoad_Defaults verifies the zero-environment configuration.
func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{
		"CTXDOCS_TRANSPORT", "CTXDOCS_PORT", "CTXDOCS_API_KEY",
		"CTXDOCS_MINIMUM_TOKENS", "CTXDOCS_LOG_LEVEL",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, TransportStdio, cfg.Transport)
	assert.Equal(t, DefaultPort, cfg.Port)
	assert.Equal(t, DefaultAPIBaseURL, cfg.APIBaseURL)
	assert.Equal(t, DefaultMinimumTokens, cfg.MinimumTokens)
	assert.NoError(t, cfg.Validate())
}

// TestLoad_Environment verifies CTXDOCS_* overrides.
func TestLoad_Environment(t *testing.T) {
	t.Setenv("CTXDOCS_TRANSPORT", "http")
	t.Setenv("CTXDOCS_PORT", "8080")
	t.Setenv("CTXDOCS_API_KEY", "secret")
	t.Setenv("CTXDOCS_MINIMUM_TOKENS", "5000")
	t.Setenv("CTXDOCS_LOG_LEVEL", "debug")

	cfg := Load()

	assert.Equal(t, TransportHTTP, cfg.Transport)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "secret", cfg.APIKey)
	assert.Equal(t, 5000, cfg.MinimumTokens)
	assert.Equal(t, "debug", cfg.LogLevel)
}

// TestValidate rejects configurations the server must not start with.
func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Transport:        TransportStdio,
			Port:             3000,
			MinimumTokens:    10000,
			WatchdogInterval: 30 * time.Second,
			SessionExpiry:    5 * time.Minute,
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "Valid_Stdio", mutate: func(c *Config) {}},
		{name: "Valid_HTTP", mutate: func(c *Config) { c.Transport = TransportHTTP }},
		{name: "Valid_SSE", mutate: func(c *Config) { c.Transport = TransportSSE }},
		{
			name:    "UnknownTransport_Rejected",
			mutate:  func(c *Config) { c.Transport = "websocket" },
			wantErr: "unknown transport",
		},
		{
			name:    "PortOutOfRange_Rejected",
			mutate:  func(c *Config) { c.Port = 70000 },
			wantErr: "out of range",
		},
		{
			name:    "ZeroMinimumTokens_Rejected",
			mutate:  func(c *Config) { c.MinimumTokens = 0 },
			wantErr: "minimum tokens",
		},
		{
			name:    "ExpiryNotAboveInterval_Rejected",
			mutate:  func(c *Config) { c.SessionExpiry = 10 * time.Second },
			wantErr: "must exceed watchdog interval",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}
