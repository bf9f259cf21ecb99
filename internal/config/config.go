// SPDX-License-Identifier: Apache-2.0

package config

import (
	"time"
)

// StructuredConfig is the top-level configuration container for the Sparky
// client. It aggregates all sub-configurations and is populated by merging
// values from environment variables, command-line flags, and an optional
// JSON file.
//
// Struct tags:
//   - envPrefix: prefix applied to all nested env tag lookups (caarlos0/env).
//   - env: direct environment variable name for scalar fields.
type StructuredConfig struct {
	// App holds application-level settings such as the client version.
	App App `envPrefix:"APP_"`

	// API holds the REST gateway address and request timeout.
	API API `envPrefix:"API_"`

	// Realtime holds the WebSocket endpoint and reconnection settings.
	Realtime Realtime `envPrefix:"REALTIME_"`

	// Storage holds local persistence settings (the SQLite cache).
	Storage Storage `envPrefix:"STORAGE_"`

	// Workers holds configuration for background jobs such as the dashboard
	// metrics poller.
	Workers Workers `envPrefix:"WORKERS_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// When non-empty, the file is parsed and merged on top of the values
	// already loaded from environment variables and flags.
	// Populated via the CONFIG environment variable or the -c / -config flag.
	JSONFilePath string `env:"CONFIG"`
}

// App holds application-level configuration values.
type App struct {
	// Version is the semantic version string of the running client.
	// Env: APP_VERSION
	Version string `env:"VERSION"`
}

// API holds settings for the REST gateway used by the API client.
type API struct {
	// BaseURL is the Sparky backend base URL
	// (e.g. "https://api.sparky.example.com").
	// Env: API_BASE_URL
	BaseURL string `env:"BASE_URL"`

	// RequestTimeout bounds a single outbound HTTP request (e.g. "10s").
	// Env: API_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
}

// Realtime holds settings for the WebSocket channel.
type Realtime struct {
	// URL is the WebSocket endpoint
	// (e.g. "wss://api.sparky.example.com/ws"). When empty it is derived
	// from API.BaseURL.
	// Env: REALTIME_URL
	URL string `env:"URL"`

	// Disabled turns the realtime channel off entirely. The zero value
	// keeps realtime enabled, which lets the merge layers override it
	// without a three-state flag.
	// Env: REALTIME_DISABLED
	Disabled bool `env:"DISABLED"`

	// MaxReconnectAttempts caps automatic reconnection attempts after a
	// connection failure.
	// Env: REALTIME_MAX_RECONNECT_ATTEMPTS
	MaxReconnectAttempts int `env:"MAX_RECONNECT_ATTEMPTS"`

	// DialTimeout bounds a single WebSocket dial (e.g. "10s").
	// Env: REALTIME_DIAL_TIMEOUT
	DialTimeout time.Duration `env:"DIAL_TIMEOUT"`
}

// Storage groups the configuration for local persistence.
type Storage struct {
	// DB holds the local SQLite cache settings.
	DB DB `envPrefix:"DB_"`
}

// DB holds connection settings for the local SQLite cache.
type DB struct {
	// DSN is the SQLite file path used for the local cache
	// (e.g. "sparky.db").
	// Env: STORAGE_DB_DSN
	DSN string `env:"DSN"`
}

// Workers holds configuration for background jobs.
type Workers struct {
	// MetricsInterval defines how often the dashboard metrics poller runs
	// (e.g. "30s").
	// Env: WORKERS_METRICS_INTERVAL
	MetricsInterval time.Duration `env:"METRICS_INTERVAL"`
}

// GetStructuredConfig loads, merges, and validates the client configuration
// from all available sources in the following priority order (last source
// wins for non-zero fields):
//  1. Environment variables
//  2. Command-line flags
//  3. JSON file (path resolved from sources 1 and 2)
//
// Returns a fully populated *StructuredConfig or an error if any source
// fails to load or the final config fails validation.
func GetStructuredConfig() (*StructuredConfig, error) {
	return newConfigBuilder().
		withEnv().
		withFlags().
		withJSON().
		build()
}
