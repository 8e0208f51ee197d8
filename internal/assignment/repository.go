package assignment

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrAssignmentNotFound is returned when an assignment record is not found.
var ErrAssignmentNotFound = errors.New("assignment not found")

// Repository is the assignment ledger.
type Repository interface {
	// GetOrCreate returns the row for (UserID, RoleID), inserting an active
	// one when absent. An existing row is returned unchanged whatever its
	// state, with created=false.
	GetOrCreate(ctx context.Context, in NewAssignment) (*Assignment, bool, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Assignment, error)
	// Revoke deactivates an assignment and stamps the revocation. Revoking an
	// inactive assignment leaves the row as it is.
	Revoke(ctx context.Context, id uuid.UUID, by *uuid.UUID, at time.Time) (*Assignment, error)
	ListByUser(ctx context.Context, userID uuid.UUID, filter ListFilter) ([]Assignment, error)
	ListRoleViews(ctx context.Context, userID uuid.UUID) ([]RoleView, error)
}
