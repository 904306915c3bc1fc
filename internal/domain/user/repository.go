package user

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines user lookup operations
type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
}

// ErrUserNotFound indicates missing user
type ErrUserNotFound struct {
	UserID uuid.UUID
}

func (e ErrUserNotFound) Error() string {
	return "user not found: " + e.UserID.String()
}

// Is matches any ErrUserNotFound when the target carries a nil user ID
func (e ErrUserNotFound) Is(target error) bool {
	t, ok := target.(ErrUserNotFound)
	if !ok {
		return false
	}
	if t.UserID == uuid.Nil {
		return true
	}
	return e.UserID == t.UserID
}
