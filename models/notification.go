package models

import "time"

// NotificationLevel controls how a notification is rendered.
type NotificationLevel string

const (
	NotifyInfo    NotificationLevel = "info"
	NotifyWarning NotificationLevel = "warning"
	NotifyError   NotificationLevel = "error"
)

// Notification is a transient user-facing message (the toast equivalent in
// the terminal UI). Produced by the API client for network errors, request
// failures, and session expiry; consumed by the UI.
type Notification struct {
	Level   NotificationLevel `json:"level"`
	Message string            `json:"message"`
	At      time.Time         `json:"at"`
}

// RealtimeError is the typed error event delivered over the realtime
// channel. Recovery carries static suggestions the UI can show alongside
// the message.
type RealtimeError struct {
	Code     string   `json:"code,omitempty"`
	Message  string   `json:"message"`
	Recovery []string `json:"recovery,omitempty"`
}
