package role

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrRoleNotFound is returned when a role record is not found.
var ErrRoleNotFound = errors.New("role not found")

// ErrDuplicateRoleName is returned when a role with the same name already exists.
var ErrDuplicateRoleName = errors.New("role name already exists")

// Repository provides operations on the roles table. Roles are never deleted.
type Repository interface {
	Create(ctx context.Context, role *Role) error
	GetByID(ctx context.Context, id uuid.UUID) (*Role, error)
	GetByName(ctx context.Context, name string) (*Role, error)
	List(ctx context.Context, filter ListFilter) ([]Role, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) (*Role, error)
}
