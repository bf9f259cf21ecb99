package config

import (
	"flag"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestParseFlags tests the ParseFlags function
func TestParseFlags(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		validate func(t *testing.T, cfg *StructuredConfig)
	}{
		{
			name: "all flags set",
			args: []string{
				"-a", "http://localhost:8080",
				"-ws", "ws://localhost:8080/ws",
				"-d", "sparky.db",
				"-c", "/path/to/config.json",
				"-request-timeout", "30s",
				"-dial-timeout", "15s",
				"-max-reconnect", "7",
				"-no-realtime",
				"-metrics-interval", "1m",
			},
			validate: func(t *testing.T, cfg *StructuredConfig) {
				assert.Equal(t, "http://localhost:8080", cfg.API.BaseURL)
				assert.Equal(t, 30*time.Second, cfg.API.RequestTimeout)
				assert.Equal(t, "ws://localhost:8080/ws", cfg.Realtime.URL)
				assert.True(t, cfg.Realtime.Disabled)
				assert.Equal(t, 7, cfg.Realtime.MaxReconnectAttempts)
				assert.Equal(t, 15*time.Second, cfg.Realtime.DialTimeout)
				assert.Equal(t, "sparky.db", cfg.Storage.DB.DSN)
				assert.Equal(t, time.Minute, cfg.Workers.MetricsInterval)
				assert.Equal(t, "/path/to/config.json", cfg.JSONFilePath)
			},
		},
		{
			name: "config alias flag",
			args: []string{
				"-config", "/path/to/config.json",
			},
			validate: func(t *testing.T, cfg *StructuredConfig) {
				assert.Equal(t, "/path/to/config.json", cfg.JSONFilePath)
			},
		},
		{
			name: "partial flags",
			args: []string{
				"-a", "http://127.0.0.1:3000",
				"-d", "cache.db",
			},
			validate: func(t *testing.T, cfg *StructuredConfig) {
				assert.Equal(t, "http://127.0.0.1:3000", cfg.API.BaseURL)
				assert.Equal(t, "cache.db", cfg.Storage.DB.DSN)
				assert.Empty(t, cfg.Realtime.URL)
				assert.False(t, cfg.Realtime.Disabled)
				assert.Zero(t, cfg.API.RequestTimeout)
			},
		},
		{
			name: "no flags",
			args: []string{},
			validate: func(t *testing.T, cfg *StructuredConfig) {
				assert.Empty(t, cfg.API.BaseURL)
				assert.Empty(t, cfg.Realtime.URL)
				assert.False(t, cfg.Realtime.Disabled)
				assert.Zero(t, cfg.Realtime.MaxReconnectAttempts)
				assert.Empty(t, cfg.Storage.DB.DSN)
				assert.Zero(t, cfg.Workers.MetricsInterval)
				assert.Empty(t, cfg.JSONFilePath)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Reset flag.CommandLine for each test
			flag.CommandLine = flag.NewFlagSet(os.Args[0], flag.ContinueOnError)

			// Set os.Args to simulate command line arguments
			oldArgs := os.Args
			os.Args = append([]string{"cmd"}, tt.args...)
			defer func() { os.Args = oldArgs }()

			cfg := ParseFlags()
			require.NotNil(t, cfg)
			tt.validate(t, cfg)
		})
	}
}
