package validation

// UpdateRoleRequest mirrors the fields needed for role update validation.
type UpdateRoleRequest struct {
	IsActive *bool
}

// ValidateUpdateRoleRequest validates the fields of a role update request.
func ValidateUpdateRoleRequest(req UpdateRoleRequest) []FieldError {
	if req.IsActive == nil {
		return []FieldError{{Field: "is_active", Message: "is_active is required"}}
	}
	return nil
}
