package config

import "errors"

// Validation errors returned by [ClientConfig.validate] when required
// configuration groups are incomplete or invalid.
var (
	// ErrInvalidAPIConfigs indicates invalid API client settings
	// (for example, an unparseable base URL or missing request timeout).
	ErrInvalidAPIConfigs = errors.New("invalid api configuration")
	// ErrInvalidRealtimeConfigs indicates invalid realtime settings
	// (for example, a negative reconnect attempt cap).
	ErrInvalidRealtimeConfigs = errors.New("invalid realtime configuration")
	// ErrInvalidStorageConfigs indicates invalid local storage settings
	// (for example, an empty DSN after defaulting).
	ErrInvalidStorageConfigs = errors.New("invalid storage configuration")
	// ErrInvalidWorkerConfigs indicates invalid background job settings
	// (for example, zero metrics poll interval).
	ErrInvalidWorkerConfigs = errors.New("invalid worker configuration")
)
