package domain

import (
	"math"
	"time"
)

// QueryStatus enumerates lifecycle states for queries.
type QueryStatus string

const (
	QueryStatusNew        QueryStatus = "new"
	QueryStatusInProgress QueryStatus = "in_progress"
	QueryStatusResolved   QueryStatus = "resolved"
)

// ValidQueryStatus reports whether s belongs to the recognized status set.
func ValidQueryStatus(s QueryStatus) bool {
	switch s {
	case QueryStatusNew, QueryStatusInProgress, QueryStatusResolved:
		return true
	}
	return false
}

// ParseQueryStatus converts a boundary string into a QueryStatus.
func ParseQueryStatus(raw string) (QueryStatus, bool) {
	status := QueryStatus(raw)
	return status, ValidQueryStatus(status)
}

// ExposesPayment reports whether amount and payment link are visible for the status.
func (s QueryStatus) ExposesPayment() bool {
	return s == QueryStatusInProgress || s == QueryStatusResolved
}

// Query is the aggregate for user-submitted support requests.
type Query struct {
	ID          int64
	OwnerID     int64
	Title       string
	QueryType   string
	Description string
	Status      QueryStatus
	Amount      *float64
	PaymentLink *string
	CreatedAt   time.Time
}

// HasPaymentData reports whether both payment fields are present.
func (q *Query) HasPaymentData() bool {
	return q.Amount != nil && q.PaymentLink != nil
}

// AdminQuery pairs a query with the owning user's contact details for admin views.
type AdminQuery struct {
	Query
	OwnerName  string
	OwnerEmail string
}

// FiniteAmount reports whether the value is a usable monetary amount.
func FiniteAmount(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
