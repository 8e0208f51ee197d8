package validation

import (
	"fmt"
	"strings"
)

// AssignRolesRequest mirrors the fields needed for role assignment validation.
type AssignRolesRequest struct {
	Email         string
	SelectedRoles []string
}

// ValidateAssignRolesRequest validates the fields of a role assignment request.
func ValidateAssignRolesRequest(req AssignRolesRequest) []FieldError {
	errs := ValidateEmail("email", req.Email)

	if len(req.SelectedRoles) == 0 {
		errs = append(errs, FieldError{Field: "selected_roles", Message: "at least one role must be selected"})
		return errs
	}

	for i, name := range req.SelectedRoles {
		field := fmt.Sprintf("selected_roles[%d]", i)
		switch {
		case strings.TrimSpace(name) == "":
			errs = append(errs, FieldError{Field: field, Message: "role name must not be empty"})
		case name != strings.TrimSpace(name):
			errs = append(errs, FieldError{Field: field, Message: "role name must not start or end with whitespace"})
		case len(name) > maxRoleNameLen:
			errs = append(errs, FieldError{Field: field, Message: "role name must be at most 100 characters"})
		}
	}

	return errs
}
