// Package validation checks request payloads before they reach the workflow.
package validation

import (
	"strings"

	"github.com/asaskevich/govalidator"
)

// FieldError represents a validation error on a specific field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

const (
	maxEmailLen    = 254
	maxRoleNameLen = 100
)

// ValidateEmail checks that email is present and well formed. field names
// the input in the returned error.
func ValidateEmail(field, email string) []FieldError {
	switch {
	case strings.TrimSpace(email) == "":
		return []FieldError{{Field: field, Message: field + " is required"}}
	case len(email) > maxEmailLen:
		return []FieldError{{Field: field, Message: field + " must be at most 254 characters"}}
	case !govalidator.IsEmail(email):
		return []FieldError{{Field: field, Message: field + " must be a valid email address"}}
	}
	return nil
}
