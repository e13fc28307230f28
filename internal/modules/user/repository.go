package user

import (
	"context"

	"github.com/google/uuid"
)

// Repository stores staff accounts. Emails are unique.
type Repository interface {
	CreateUser(ctx context.Context, user *User) error
	GetUserByID(ctx context.Context, id uuid.UUID) (*User, error)
}
