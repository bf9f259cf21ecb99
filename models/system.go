package models

import "time"

// ServiceHealth reports the state of one backend dependency as seen by the
// system-health endpoint.
type ServiceHealth struct {
	Name    string `json:"name"`
	Status  string `json:"status"` // "ok", "degraded", "down"
	Message string `json:"message,omitempty"`
}

// SystemHealth is the aggregate health report for the dashboard.
type SystemHealth struct {
	Status    string          `json:"status"`
	Services  []ServiceHealth `json:"services,omitempty"`
	CheckedAt time.Time       `json:"checked_at"`
}

// SystemMetrics are the dashboard counters polled from the metrics endpoint.
type SystemMetrics struct {
	ActiveSessions   int       `json:"active_sessions"`
	RunningWorkflows int       `json:"running_workflows"`
	QuotesToday      int       `json:"quotes_today"`
	AvgResponseMs    float64   `json:"avg_response_ms"`
	CollectedAt      time.Time `json:"collected_at"`
}
