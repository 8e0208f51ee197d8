package validation

import "strings"

// CreateUserRequest mirrors the fields needed for create user validation.
type CreateUserRequest struct {
	Email    string
	Username string
}

// ValidateCreateUserRequest validates the fields of a create user request.
// Username is optional and defaults to the email's local part.
func ValidateCreateUserRequest(req CreateUserRequest) []FieldError {
	errs := ValidateEmail("email", req.Email)

	if len(strings.TrimSpace(req.Username)) > 150 {
		errs = append(errs, FieldError{Field: "username", Message: "username must be at most 150 characters"})
	}

	return errs
}
