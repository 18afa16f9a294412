package domain

import "time"

// Payment records a settlement made by a user against a query.
type Payment struct {
	ID        int64
	UserID    int64
	QueryID   int64
	Reference string
	Amount    float64
	CreatedAt time.Time
}
