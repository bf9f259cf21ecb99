package realtime

import (
	"encoding/json"
	"sync"
)

// Message kinds on the wire. Inbound and outbound kinds share the same
// envelope shape.
const (
	kindConnectionStatus = "connection_status"
	kindChatMessage      = "chat_message"
	kindWorkflowStatus   = "workflow_status"
	kindAgentExecution   = "agent_execution"
	kindTypingIndicator  = "typing_indicator"
	kindRecommendation   = "recommendation"
	kindError            = "error"

	kindCancelWorkflow        = "cancel_workflow"
	kindWorkflowStatusRequest = "workflow_status_request"
)

// frame is the wire envelope for both directions.
type frame struct {
	Type      string          `json:"type"`
	SessionID string          `json:"session_id,omitempty"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

// connectionStatusPayload is pushed by the server on its own state changes.
type connectionStatusPayload struct {
	Status string `json:"status"`
}

// typingPayload is the outbound typing-indicator body.
type typingPayload struct {
	IsTyping bool `json:"is_typing"`
}

// Unsubscribe removes a previously registered event callback. Calling it
// more than once is a no-op.
type Unsubscribe func()

// registry is a typed publish/subscribe fan-out for one event category.
type registry[T any] struct {
	mu   sync.Mutex
	next int
	fns  map[int]func(T)
}

func (r *registry[T]) add(fn func(T)) Unsubscribe {
	r.mu.Lock()
	if r.fns == nil {
		r.fns = make(map[int]func(T))
	}
	id := r.next
	r.next++
	r.fns[id] = fn
	r.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			r.mu.Lock()
			delete(r.fns, id)
			r.mu.Unlock()
		})
	}
}

// emit invokes every registered callback outside the registry lock, so
// callbacks may subscribe or unsubscribe re-entrantly.
func (r *registry[T]) emit(v T) {
	r.mu.Lock()
	fns := make([]func(T), 0, len(r.fns))
	for _, fn := range r.fns {
		fns = append(fns, fn)
	}
	r.mu.Unlock()

	for _, fn := range fns {
		fn(v)
	}
}

func (r *registry[T]) clear() {
	r.mu.Lock()
	r.fns = nil
	r.mu.Unlock()
}
