// Package event carries domain events between the user directory, the
// assignment workflow and optional external consumers.
package event

import (
	"time"

	"github.com/google/uuid"
)

// Event names.
const (
	UserCreatedName       = "user.created"
	RolesAssignedName     = "roles.assigned"
	AssignmentRevokedName = "assignment.revoked"
)

// Event is a domain event published on the Bus.
type Event interface {
	Name() string
}

// UserCreated is published after a user row has been persisted, whatever
// path created it.
type UserCreated struct {
	UserID    uuid.UUID `json:"userId"`
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"createdAt"`
}

func (UserCreated) Name() string { return UserCreatedName }

// RolesAssigned is published when an assignment call linked at least one new role.
type RolesAssigned struct {
	UserID     uuid.UUID  `json:"userId"`
	Email      string     `json:"email"`
	Roles      []string   `json:"roles"`
	NewUser    bool       `json:"newUser"`
	AssignedBy *uuid.UUID `json:"assignedBy,omitempty"`
}

func (RolesAssigned) Name() string { return RolesAssignedName }

// AssignmentRevoked is published when an active assignment is revoked.
type AssignmentRevoked struct {
	AssignmentID uuid.UUID  `json:"assignmentId"`
	UserID       uuid.UUID  `json:"userId"`
	RoleID       uuid.UUID  `json:"roleId"`
	RevokedBy    *uuid.UUID `json:"revokedBy,omitempty"`
	RevokedAt    time.Time  `json:"revokedAt"`
}

func (AssignmentRevoked) Name() string { return AssignmentRevokedName }
