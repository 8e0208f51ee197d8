package role

import (
	"time"

	"github.com/google/uuid"
)

// Role represents a row in the roles table.
type Role struct {
	ID          uuid.UUID
	Name        string
	DisplayName string
	Description string
	IsActive    bool
	CreatedBy   *uuid.UUID // nil for system-created roles
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ListFilter narrows a role listing.
type ListFilter struct {
	ActiveOnly bool
}
