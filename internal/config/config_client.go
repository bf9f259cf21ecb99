package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Defaults applied by [GetClientConfig] when a value was not supplied by any
// configuration source.
const (
	DefaultBaseURL              = "http://localhost:8080"
	DefaultRequestTimeout       = 10 * time.Second
	DefaultDialTimeout          = 10 * time.Second
	DefaultMaxReconnectAttempts = 5
	DefaultMetricsInterval      = 30 * time.Second
	DefaultDBPath               = "sparky.db"
)

// ClientApp holds application-level client settings.
type ClientApp struct {
	// Version is the client version string shown in the UI.
	Version string
}

// ClientAPI holds network settings used by the API client.
type ClientAPI struct {
	// BaseURL is the Sparky backend base URL.
	BaseURL string
	// RequestTimeout is the default timeout for outbound requests.
	RequestTimeout time.Duration
}

// ClientRealtime holds settings for the realtime channel.
type ClientRealtime struct {
	// URL is the WebSocket endpoint.
	URL string
	// Enabled reports whether realtime updates are turned on.
	Enabled bool
	// MaxReconnectAttempts caps automatic reconnection attempts.
	MaxReconnectAttempts int
	// DialTimeout bounds a single WebSocket dial.
	DialTimeout time.Duration
}

// ClientDB contains local database settings for the client cache.
type ClientDB struct {
	// DSN is the SQLite file path.
	DSN string
}

// ClientStorage groups client storage backend settings.
type ClientStorage struct {
	// DB holds local database settings.
	DB ClientDB
}

// ClientWorkers contains client background job settings.
type ClientWorkers struct {
	// MetricsInterval defines how often the dashboard metrics poller runs.
	MetricsInterval time.Duration
}

// ClientConfig is the top-level client configuration assembled from
// [StructuredConfig].
type ClientConfig struct {
	// App contains application-level client settings.
	App ClientApp
	// API contains the REST gateway address and timeouts.
	API ClientAPI
	// Realtime contains WebSocket endpoint and reconnection settings.
	Realtime ClientRealtime
	// Storage contains local cache settings.
	Storage ClientStorage
	// Workers contains background job settings.
	Workers ClientWorkers
}

// GetClientConfig builds and validates the client config view from the
// merged structured configuration.
//
// It loads the base config via [GetStructuredConfig], applies defaults for
// everything left unset, derives the realtime URL from the API base URL when
// no explicit WebSocket endpoint was configured, and validates the result.
func GetClientConfig() (*ClientConfig, error) {
	cfg, err := GetStructuredConfig()
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	clientCfg := &ClientConfig{
		App: ClientApp{
			Version: cfg.App.Version,
		},
		API: ClientAPI{
			BaseURL:        cfg.API.BaseURL,
			RequestTimeout: cfg.API.RequestTimeout,
		},
		Realtime: ClientRealtime{
			URL:                  cfg.Realtime.URL,
			Enabled:              !cfg.Realtime.Disabled,
			MaxReconnectAttempts: cfg.Realtime.MaxReconnectAttempts,
			DialTimeout:          cfg.Realtime.DialTimeout,
		},
		Storage: ClientStorage{
			DB: ClientDB{
				DSN: cfg.Storage.DB.DSN,
			},
		},
		Workers: ClientWorkers{MetricsInterval: cfg.Workers.MetricsInterval},
	}

	clientCfg.applyDefaults()

	return clientCfg, clientCfg.validate()
}

func (cfg *ClientConfig) applyDefaults() {
	if cfg.API.BaseURL == "" {
		cfg.API.BaseURL = DefaultBaseURL
	}
	if cfg.API.RequestTimeout <= 0 {
		cfg.API.RequestTimeout = DefaultRequestTimeout
	}
	if cfg.Realtime.URL == "" {
		cfg.Realtime.URL = deriveRealtimeURL(cfg.API.BaseURL)
	}
	if cfg.Realtime.MaxReconnectAttempts == 0 {
		cfg.Realtime.MaxReconnectAttempts = DefaultMaxReconnectAttempts
	}
	if cfg.Realtime.DialTimeout <= 0 {
		cfg.Realtime.DialTimeout = DefaultDialTimeout
	}
	if cfg.Storage.DB.DSN == "" {
		cfg.Storage.DB.DSN = DefaultDBPath
	}
	if cfg.Workers.MetricsInterval <= 0 {
		cfg.Workers.MetricsInterval = DefaultMetricsInterval
	}
}

// deriveRealtimeURL maps an HTTP base URL onto the backend's conventional
// WebSocket endpoint ("/ws" path, ws/wss scheme).
func deriveRealtimeURL(baseURL string) string {
	u, err := url.Parse(baseURL)
	if err != nil {
		return ""
	}

	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.Path = strings.TrimRight(u.Path, "/") + "/ws"

	return u.String()
}
