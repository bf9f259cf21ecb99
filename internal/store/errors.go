package store

import "errors"

var (
	// ErrLocalSessionNotFound is returned when no session has been persisted
	// locally yet.
	ErrLocalSessionNotFound = errors.New("local session not found")
)
