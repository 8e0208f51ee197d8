package user

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// User represents a row in the users table. Accounts created on first
// reference have no API key until one is issued.
type User struct {
	ID           uuid.UUID
	Email        string
	Username     string
	IsStaff      bool
	ApiKeyPrefix *string
	ApiKeyHash   *string
	CreatedAt    time.Time
}

// UsernameFromEmail returns the local part of an email address.
func UsernameFromEmail(email string) string {
	local, _, found := strings.Cut(email, "@")
	if !found {
		return email
	}
	return local
}
