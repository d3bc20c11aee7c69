package domain

import "time"

// User represents an account in the system. Every shelf, bottle, and
// tasting note belongs to exactly one user; all queries are scoped by it.
type User struct {
	ID           string    `json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	DisplayName  string    `json:"display_name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Stored hashed, never serialized
}
