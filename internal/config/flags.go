package config

import (
	"flag"
	"time"
)

// ParseFlags parses all configuration flags.
//
// Flags:
//
//	-a API base URL (e.g. "http://localhost:8080")
//	-ws realtime WebSocket URL (e.g. "ws://localhost:8080/ws")
//	-d local SQLite cache path
//	-c/-config json file path with configs
//	-request-timeout request timeout (e.g., "10s", "1m")
//	-dial-timeout websocket dial timeout (e.g., "10s")
//	-max-reconnect maximum automatic reconnect attempts
//	-no-realtime disable the realtime channel
//	-metrics-interval dashboard metrics poll interval (e.g., "30s")
func ParseFlags() *StructuredConfig {
	var apiBaseURL string
	var realtimeURL string
	var dbDSN string
	var jsonConfigPath string
	var requestTimeout time.Duration
	var dialTimeout time.Duration
	var maxReconnect int
	var noRealtime bool
	var metricsInterval time.Duration

	flag.StringVar(&apiBaseURL, "a", "", "API base URL")
	flag.StringVar(&realtimeURL, "ws", "", "Realtime WebSocket URL")
	flag.StringVar(&dbDSN, "d", "", "Local SQLite cache path")
	flag.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	flag.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")
	flag.DurationVar(&requestTimeout, "request-timeout", 0, "Request timeout (e.g., 10s, 1m)")
	flag.DurationVar(&dialTimeout, "dial-timeout", 0, "WebSocket dial timeout (e.g., 10s)")
	flag.IntVar(&maxReconnect, "max-reconnect", 0, "Maximum automatic reconnect attempts")
	flag.BoolVar(&noRealtime, "no-realtime", false, "Disable the realtime channel")
	flag.DurationVar(&metricsInterval, "metrics-interval", 0, "Metrics poll interval (e.g., 30s)")

	flag.Parse()

	return &StructuredConfig{
		API: API{
			BaseURL:        apiBaseURL,
			RequestTimeout: requestTimeout,
		},
		Realtime: Realtime{
			URL:                  realtimeURL,
			Disabled:             noRealtime,
			MaxReconnectAttempts: maxReconnect,
			DialTimeout:          dialTimeout,
		},
		Storage: Storage{
			DB: DB{
				DSN: dbDSN,
			},
		},
		Workers: Workers{
			MetricsInterval: metricsInterval,
		},
		JSONFilePath: jsonConfigPath,
	}
}
