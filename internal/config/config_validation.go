// SPDX-License-Identifier: Apache-2.0

package config

import "net/url"

// validate checks that the final merged [StructuredConfig] satisfies all
// invariants before it is used at startup. Only fields that were actually
// supplied are checked; defaults are applied later in [GetClientConfig].
func (cfg *StructuredConfig) validate() error {
	if cfg.API.BaseURL != "" {
		if _, err := url.Parse(cfg.API.BaseURL); err != nil {
			return ErrInvalidAPIConfigs
		}
	}

	if cfg.Realtime.MaxReconnectAttempts < 0 {
		return ErrInvalidRealtimeConfigs
	}

	return nil
}

func (cfg *ClientConfig) validate() error {
	if cfg.API.BaseURL == "" || cfg.API.RequestTimeout <= 0 {
		return ErrInvalidAPIConfigs
	}

	if cfg.Realtime.Enabled && cfg.Realtime.URL == "" {
		return ErrInvalidRealtimeConfigs
	}

	if cfg.Storage.DB.DSN == "" {
		return ErrInvalidStorageConfigs
	}

	if cfg.Workers.MetricsInterval <= 0 {
		return ErrInvalidWorkerConfigs
	}

	return nil
}
