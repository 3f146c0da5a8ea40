package models

import "github.com/google/uuid"

// Identity is the authenticated user carried inside a token.
type Identity struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
}
