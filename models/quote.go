package models

import "time"

// QuoteStatus tracks a quote through its lifecycle. Transitions are owned by
// the backend; the client only displays and requests them.
type QuoteStatus string

const (
	QuoteDraft    QuoteStatus = "draft"
	QuoteSent     QuoteStatus = "sent"
	QuoteAccepted QuoteStatus = "accepted"
	QuoteRejected QuoteStatus = "rejected"
	QuoteExpired  QuoteStatus = "expired"
)

// Quote is a priced equipment package produced by a configurator
// conversation.
type Quote struct {
	// ID is the backend identifier.
	ID int64 `json:"id"`

	// Number is the human-facing quote number (e.g. "Q-2026-0142").
	Number string `json:"number"`

	// SessionID links the quote back to the conversation that produced it.
	SessionID string `json:"session_id,omitempty"`

	// CustomerName labels who the quote was prepared for.
	CustomerName string `json:"customer_name,omitempty"`

	// Status is the current lifecycle state.
	Status QuoteStatus `json:"status"`

	// Lines are the individual priced items.
	Lines []QuoteLine `json:"lines,omitempty"`

	// TotalCents is the quote total in cents, computed by the backend.
	TotalCents int64 `json:"total_cents"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// QuoteLine is a single priced item on a quote.
type QuoteLine struct {
	ProductID   int64  `json:"product_id"`
	SKU         string `json:"sku"`
	Description string `json:"description"`
	Quantity    int    `json:"quantity"`
	UnitCents   int64  `json:"unit_cents"`
}

// CreateQuoteRequest asks the backend to price the current recommendation
// set of a session into a draft quote.
type CreateQuoteRequest struct {
	SessionID    string `json:"session_id"`
	CustomerName string `json:"customer_name,omitempty"`
}
