package domain

import "time"

// QueryAuditEntry captures one applied status transition on a query.
type QueryAuditEntry struct {
	ID        int64
	QueryID   int64
	AdminID   int64
	NewStatus QueryStatus
	Amount    *float64
	CreatedAt time.Time
}
