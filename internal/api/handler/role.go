package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/daap14/roleassign/internal/api/middleware"
	"github.com/daap14/roleassign/internal/api/response"
	"github.com/daap14/roleassign/internal/api/validation"
	"github.com/daap14/roleassign/internal/role"
)

type updateRoleRequest struct {
	IsActive *bool `json:"is_active"`
}

type roleDetailResponse struct {
	roleResponse
	IsActive  bool   `json:"is_active"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// RoleHandler handles role administration endpoints.
type RoleHandler struct {
	repo role.Repository
}

// NewRoleHandler creates a new RoleHandler.
func NewRoleHandler(repo role.Repository) *RoleHandler {
	return &RoleHandler{repo: repo}
}

// Update handles PATCH /api/roles/{id}. Roles are never deleted; setting
// is_active=false hides them from the available roles.
func (h *RoleHandler) Update(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_ID", "id must be a valid UUID", requestID)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req updateRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", requestID)
		return
	}

	if fieldErrors := validation.ValidateUpdateRoleRequest(validation.UpdateRoleRequest{IsActive: req.IsActive}); len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed", fieldErrors, requestID)
		return
	}

	ro, err := h.repo.SetActive(r.Context(), id, *req.IsActive)
	if err != nil {
		if errors.Is(err, role.ErrRoleNotFound) {
			response.Err(w, http.StatusNotFound, "NOT_FOUND", "Role not found", requestID)
			return
		}
		slog.Error("failed to update role", "error", err, "id", id, "requestId", requestID)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to update role", requestID)
		return
	}

	slog.Info("updated role", "role", ro.Name, "isActive", ro.IsActive)

	response.Success(w, http.StatusOK, roleDetailResponse{
		roleResponse: toRoleResponse(ro),
		IsActive:     ro.IsActive,
		CreatedAt:    formatTime(ro.CreatedAt),
		UpdatedAt:    formatTime(ro.UpdatedAt),
	}, requestID)
}
