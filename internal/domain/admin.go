package domain

import "time"

// Admin is the domain model for administrators who triage queries.
// Admin login is OTP-verified on top of the password check.
type Admin struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}
