package models

import "time"

// Session identifies a single configurator conversation. The identifier is
// issued by the orchestrator when a workflow starts and scopes every chat
// message, realtime event, and quote produced during the conversation.
type Session struct {
	// ID is the server-issued session identifier.
	ID string `json:"session_id"`

	// CreatedAt records when the orchestrator opened the session.
	CreatedAt time.Time `json:"created_at"`
}

// ConnectionState describes the realtime channel lifecycle. Exactly one
// value is active at a time; the value is never persisted.
type ConnectionState string

const (
	// ConnDisconnected is the initial state and the terminal state after an
	// explicit disconnect or session reset.
	ConnDisconnected ConnectionState = "disconnected"

	// ConnConnecting is set while a dial is in flight.
	ConnConnecting ConnectionState = "connecting"

	// ConnConnected is set once the channel is established.
	ConnConnected ConnectionState = "connected"

	// ConnError is set when an established channel fails or a dial attempt
	// does not complete. Reconnection is only ever scheduled from this state.
	ConnError ConnectionState = "error"
)

// Connectivity describes the HTTP backend reachability as observed by the
// API client: "connected" after any successful response, "disconnected"
// after a transport-level failure.
type Connectivity string

const (
	BackendConnected    Connectivity = "connected"
	BackendDisconnected Connectivity = "disconnected"
)
