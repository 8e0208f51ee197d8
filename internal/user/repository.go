package user

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrUserNotFound is returned when a user record is not found.
var ErrUserNotFound = errors.New("user not found")

// ErrDuplicateEmail is returned when a user with the same email already exists.
var ErrDuplicateEmail = errors.New("user email already exists")

// Repository provides operations on the users table.
type Repository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	FindByAPIKeyPrefix(ctx context.Context, prefix string) ([]User, error)
	SetAPIKey(ctx context.Context, id uuid.UUID, prefix, hash string) error
	CountAll(ctx context.Context) (int, error)
}
