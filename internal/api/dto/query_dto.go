package dto

import (
	"time"

	"github.com/spec-kit/query-desk/internal/domain"
)

// CreateQueryRequest payload.
type CreateQueryRequest struct {
	Title       string `json:"title"`
	QueryType   string `json:"query_type"`
	Description string `json:"description"`
}

// CreateQueryResponse confirms creation.
type CreateQueryResponse struct {
	Message string `json:"message"`
	QueryID int64  `json:"query_id"`
}

// QuerySummary response. Payment fields appear only when the status
// exposes them.
type QuerySummary struct {
	ID          int64              `json:"id"`
	Title       string             `json:"title"`
	QueryType   string             `json:"query_type"`
	Description string             `json:"description"`
	Status      domain.QueryStatus `json:"status"`
	Amount      *float64           `json:"amount,omitempty"`
	PaymentLink *string            `json:"payment_link,omitempty"`
	CreatedAt   time.Time          `json:"created_at"`
}

// AdminQuerySummary extends QuerySummary with owner contact details.
type AdminQuerySummary struct {
	QuerySummary
	OwnerName  string `json:"name"`
	OwnerEmail string `json:"email"`
}

// TransitionRequest captures an admin status change.
type TransitionRequest struct {
	QueryID     int64    `json:"query_id"`
	Status      string   `json:"status"`
	Amount      *float64 `json:"amount,omitempty"`
	PaymentLink *string  `json:"payment_link,omitempty"`
}

// TransitionResponse confirms an applied transition.
type TransitionResponse struct {
	Message     string             `json:"message"`
	QueryID     int64              `json:"query_id"`
	Status      domain.QueryStatus `json:"status"`
	PaymentLink *string            `json:"payment_link,omitempty"`
}

// AuditEntryResponse represents one recorded transition.
type AuditEntryResponse struct {
	ID        int64              `json:"id"`
	QueryID   int64              `json:"query_id"`
	AdminID   int64              `json:"admin_id"`
	NewStatus domain.QueryStatus `json:"new_status"`
	Amount    *float64           `json:"amount,omitempty"`
	CreatedAt time.Time          `json:"created_at"`
}
