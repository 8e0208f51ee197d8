package assignment

import (
	"time"

	"github.com/google/uuid"
)

// Assignment represents a row in the role_assignments table. At most one row
// exists per (user, role) pair; rows are deactivated, never deleted.
type Assignment struct {
	ID         uuid.UUID
	UserID     uuid.UUID
	RoleID     uuid.UUID
	IsActive   bool
	AssignedAt time.Time
	AssignedBy *uuid.UUID // nil for system assignments
	RevokedAt  *time.Time
	RevokedBy  *uuid.UUID
	Notes      string
}

// NewAssignment holds the values used when a (user, role) pair is linked for
// the first time.
type NewAssignment struct {
	UserID     uuid.UUID
	RoleID     uuid.UUID
	AssignedBy *uuid.UUID
	AssignedAt time.Time
	Notes      string
}

// ListFilter narrows an assignment listing.
type ListFilter struct {
	ActiveOnly bool
}

// RoleView is an active assignment joined with its role and the email of the
// assigning user.
type RoleView struct {
	AssignmentID    uuid.UUID
	RoleID          uuid.UUID
	Name            string
	DisplayName     string
	Description     string
	AssignedAt      time.Time
	AssignedByEmail *string // nil for system assignments
}
