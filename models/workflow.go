package models

import "time"

// WorkflowPhase enumerates the orchestrator phases pushed to the client
// while a recommendation workflow runs.
type WorkflowPhase string

const (
	WorkflowPending   WorkflowPhase = "pending"
	WorkflowRunning   WorkflowPhase = "running"
	WorkflowCompleted WorkflowPhase = "completed"
	WorkflowCancelled WorkflowPhase = "cancelled"
	WorkflowFailed    WorkflowPhase = "failed"
)

// WorkflowStatusUpdate is pushed whenever the orchestrator advances a
// workflow belonging to the session.
type WorkflowStatusUpdate struct {
	SessionID  string        `json:"session_id"`
	WorkflowID string        `json:"workflow_id"`
	Phase      WorkflowPhase `json:"phase"`

	// Step and TotalSteps describe progress through the workflow plan.
	Step       int    `json:"step,omitempty"`
	TotalSteps int    `json:"total_steps,omitempty"`
	Detail     string `json:"detail,omitempty"`

	UpdatedAt time.Time `json:"updated_at"`
}

// AgentExecutionUpdate reports progress of a single backend agent (catalog
// matcher, pricing agent, compatibility checker) inside a workflow.
type AgentExecutionUpdate struct {
	SessionID string `json:"session_id"`
	AgentName string `json:"agent_name"`
	Status    string `json:"status"`
	Detail    string `json:"detail,omitempty"`

	StartedAt  time.Time  `json:"started_at,omitempty"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}

// TypingUpdate signals that the assistant started or stopped composing a
// response in the configurator chat.
type TypingUpdate struct {
	SessionID string `json:"session_id"`
	IsTyping  bool   `json:"is_typing"`
}

// Recommendation is a single equipment package proposed by the configurator.
type Recommendation struct {
	PackageID string  `json:"package_id"`
	Name      string  `json:"name"`
	Score     float64 `json:"score"`
	Reason    string  `json:"reason,omitempty"`

	// ProductIDs references the catalog entries making up the package.
	ProductIDs []int64 `json:"product_ids,omitempty"`

	// TotalCents is the indicative package price before quoting.
	TotalCents int64 `json:"total_cents,omitempty"`
}

// RecommendationUpdate carries the current recommendation set for a session.
// Each update replaces the previous set.
type RecommendationUpdate struct {
	SessionID       string           `json:"session_id"`
	Recommendations []Recommendation `json:"recommendations"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

// ChatMessage is one turn of a configurator conversation.
type ChatMessage struct {
	// ID is a client-generated UUID for user turns, server-generated
	// otherwise.
	ID        string    `json:"id"`
	SessionID string    `json:"session_id"`
	Role      string    `json:"role"` // "user" or "assistant"
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// StartWorkflowResponse is returned when a configurator conversation is
// opened. The session identifier scopes everything that follows.
type StartWorkflowResponse struct {
	SessionID  string `json:"session_id"`
	WorkflowID string `json:"workflow_id"`
}
