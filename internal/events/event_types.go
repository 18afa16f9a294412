package events

import (
	"time"

	"github.com/spec-kit/query-desk/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventQueryCreated       EventType = "query_created"
	EventQueryStatusChanged EventType = "query_status_changed"
	EventPaymentRecorded    EventType = "payment_recorded"
)

// Actor encapsulates actor metadata for an event.
type Actor struct {
	Role    domain.Role `json:"role"`
	UserID  *int64      `json:"user_id,omitempty"`
	AdminID *int64      `json:"admin_id,omitempty"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	QueryID   int64       `json:"query_id"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// QueryCreatedPayload payload.
type QueryCreatedPayload struct {
	Title     string `json:"title"`
	QueryType string `json:"query_type"`
}

// QueryStatusChangedPayload payload.
type QueryStatusChangedPayload struct {
	NewStatus   domain.QueryStatus `json:"new_status"`
	Amount      *float64           `json:"amount,omitempty"`
	PaymentLink *string            `json:"payment_link,omitempty"`
}

// PaymentRecordedPayload payload.
type PaymentRecordedPayload struct {
	PaymentID int64   `json:"payment_id"`
	Reference string  `json:"reference"`
	Amount    float64 `json:"amount"`
}
