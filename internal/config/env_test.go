// SPDX-License-Identifier: Apache-2.0

package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEnv_AllFields(t *testing.T) {
	// Arrange
	envVars := map[string]string{
		"CONFIG": "/path/to/config.json",

		"APP_VERSION": "1.2.3",

		"API_BASE_URL":        "http://localhost:8080",
		"API_REQUEST_TIMEOUT": "30s",

		"REALTIME_URL":                    "ws://localhost:8080/ws",
		"REALTIME_DISABLED":               "true",
		"REALTIME_MAX_RECONNECT_ATTEMPTS": "7",
		"REALTIME_DIAL_TIMEOUT":           "15s",

		// Storage has a nested prefix: STORAGE_ + DB_
		"STORAGE_DB_DSN": "sparky.db",

		"WORKERS_METRICS_INTERVAL": "1m",
	}
	setEnvVars(t, envVars)

	// Act
	cfg := &StructuredConfig{}
	err := parseEnv(cfg)

	// Assert
	require.NoError(t, err)

	assert.Equal(t, "/path/to/config.json", cfg.JSONFilePath)

	assert.Equal(t, "1.2.3", cfg.App.Version)

	assert.Equal(t, "http://localhost:8080", cfg.API.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.API.RequestTimeout)

	assert.Equal(t, "ws://localhost:8080/ws", cfg.Realtime.URL)
	assert.True(t, cfg.Realtime.Disabled)
	assert.Equal(t, 7, cfg.Realtime.MaxReconnectAttempts)
	assert.Equal(t, 15*time.Second, cfg.Realtime.DialTimeout)

	assert.Equal(t, "sparky.db", cfg.Storage.DB.DSN)

	assert.Equal(t, time.Minute, cfg.Workers.MetricsInterval)
}

func TestParseEnv_PartialFields(t *testing.T) {
	// Arrange
	envVars := map[string]string{
		"API_BASE_URL": "http://localhost:8080",
		"REALTIME_URL": "ws://localhost:8080/ws",
	}
	setEnvVars(t, envVars)

	// Act
	cfg := &StructuredConfig{}
	err := parseEnv(cfg)

	// Assert
	require.NoError(t, err)

	// API partially filled
	assert.Equal(t, "http://localhost:8080", cfg.API.BaseURL)
	assert.Zero(t, cfg.API.RequestTimeout)

	// Realtime partially filled
	assert.Equal(t, "ws://localhost:8080/ws", cfg.Realtime.URL)
	assert.False(t, cfg.Realtime.Disabled)
	assert.Zero(t, cfg.Realtime.MaxReconnectAttempts)

	// Others untouched
	assert.Empty(t, cfg.App.Version)
	assert.Empty(t, cfg.Storage.DB.DSN)
	assert.Zero(t, cfg.Workers.MetricsInterval)
	assert.Empty(t, cfg.JSONFilePath)
}

func TestParseEnv_EmptyEnv(t *testing.T) {
	// Arrange
	clearEnvVars(t)

	// Act
	cfg := &StructuredConfig{}
	err := parseEnv(cfg)

	// Assert
	require.NoError(t, err)

	// All nested fields are non-pointer values, so "empty" state is
	// represented by zero values.
	assert.Equal(t, "", cfg.JSONFilePath)

	assert.Equal(t, App{}, cfg.App)
	assert.Equal(t, API{}, cfg.API)
	assert.Equal(t, Realtime{}, cfg.Realtime)
	assert.Equal(t, Storage{}, cfg.Storage)
	assert.Equal(t, Workers{}, cfg.Workers)
}

func TestParseEnv_InvalidDuration(t *testing.T) {
	// Arrange
	envVars := map[string]string{
		"API_REQUEST_TIMEOUT": "invalid_duration",
	}
	setEnvVars(t, envVars)

	// Act
	cfg := &StructuredConfig{}
	err := parseEnv(cfg)

	// Assert
	require.Error(t, err)
	// Error wording may vary depending on parseEnv internals; assert loosely.
	assert.Contains(t, err.Error(), "env")
}

func TestParseEnv_InvalidInt(t *testing.T) {
	// Arrange
	envVars := map[string]string{
		"REALTIME_MAX_RECONNECT_ATTEMPTS": "many",
	}
	setEnvVars(t, envVars)

	// Act
	cfg := &StructuredConfig{}
	err := parseEnv(cfg)

	// Assert
	require.Error(t, err)
}

func TestParseEnv_DurationFormats(t *testing.T) {
	tests := []struct {
		name     string
		envValue string
		expected time.Duration
	}{
		{"hours", "2h", 2 * time.Hour},
		{"minutes", "45m", 45 * time.Minute},
		{"seconds", "30s", 30 * time.Second},
		{"combined", "1h30m", 90 * time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			envVars := map[string]string{
				"API_REQUEST_TIMEOUT": tt.envValue,
			}
			setEnvVars(t, envVars)

			// Act
			cfg := &StructuredConfig{}
			err := parseEnv(cfg)

			// Assert
			require.NoError(t, err)
			assert.Equal(t, tt.expected, cfg.API.RequestTimeout)
		})
	}
}

// Helpers

func setEnvVars(t *testing.T, vars map[string]string) {
	t.Helper()
	clearEnvVars(t)
	for k, v := range vars {
		require.NoError(t, os.Setenv(k, v))
		t.Cleanup(func() { _ = os.Unsetenv(k) })
	}
}

func clearEnvVars(t *testing.T) {
	t.Helper()
	keys := []string{
		"CONFIG",

		"APP_VERSION",

		"API_BASE_URL",
		"API_REQUEST_TIMEOUT",

		"REALTIME_URL",
		"REALTIME_DISABLED",
		"REALTIME_MAX_RECONNECT_ATTEMPTS",
		"REALTIME_DIAL_TIMEOUT",

		"STORAGE_DB_DSN",

		"WORKERS_METRICS_INTERVAL",
	}
	for _, k := range keys {
		_ = os.Unsetenv(k)
	}
}
