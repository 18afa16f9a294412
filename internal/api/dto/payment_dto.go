package dto

import "time"

// CreatePaymentRequest payload.
type CreatePaymentRequest struct {
	QueryID int64   `json:"query_id"`
	Amount  float64 `json:"amount"`
}

// PaymentResponse represents a recorded payment.
type PaymentResponse struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	QueryID   int64     `json:"query_id"`
	Reference string    `json:"reference"`
	Amount    float64   `json:"amount"`
	CreatedAt time.Time `json:"created_at"`
}
