// Package user holds the account-owner entity. Registration and credential
// management live outside this service; the ledger core only resolves owners
// when validating balance operations.
package user

import (
	"time"

	"github.com/google/uuid"
)

// User represents an account owner
type User struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
