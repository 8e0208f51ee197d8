package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/daap14/roleassign/internal/api/middleware"
	"github.com/daap14/roleassign/internal/api/response"
	"github.com/daap14/roleassign/internal/api/validation"
	"github.com/daap14/roleassign/internal/assignment"
	"github.com/daap14/roleassign/internal/auth"
	"github.com/daap14/roleassign/internal/role"
	"github.com/daap14/roleassign/internal/user"
	"github.com/daap14/roleassign/internal/workflow"
)

const timeLayout = "2006-01-02T15:04:05Z"

// systemAssigner is shown in place of an assigner email for system assignments.
const systemAssigner = "System"

// AssignmentService is the workflow surface used by AssignmentHandler.
type AssignmentService interface {
	AssignRoles(ctx context.Context, in workflow.AssignInput) (*workflow.AssignResult, error)
	RolesForUser(ctx context.Context, email string) (*user.User, []assignment.RoleView, error)
	AssignmentsByEmail(ctx context.Context, email string) (*user.User, []workflow.AssignmentDetail, error)
	AssignmentsForUser(ctx context.Context, userID uuid.UUID, requester *auth.Identity) ([]workflow.AssignmentDetail, error)
	AvailableRoles(ctx context.Context) ([]role.Role, error)
	RevokeAssignment(ctx context.Context, id uuid.UUID, actor *auth.Identity) (*workflow.Revocation, error)
}

type assignRolesRequest struct {
	Email         string   `json:"email"`
	SelectedRoles []string `json:"selected_roles"`
}

type assignedUserResponse struct {
	ID         string `json:"id"`
	Email      string `json:"email"`
	Username   string `json:"username"`
	UserExists bool   `json:"user_exists"`
}

type assignedRoleResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
}

type failedRoleResponse struct {
	Role    string `json:"role"`
	Message string `json:"message"`
}

type assignRolesResponse struct {
	Success         bool                   `json:"success"`
	Message         string                 `json:"message"`
	User            assignedUserResponse   `json:"user"`
	AssignedRoles   []assignedRoleResponse `json:"assigned_roles"`
	AlreadyAssigned []string               `json:"already_assigned"`
	FailedRoles     []failedRoleResponse   `json:"failed_roles,omitempty"`
}

type roleResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	Description string `json:"description"`
}

func toRoleResponse(r *role.Role) roleResponse {
	return roleResponse{
		ID:          r.ID.String(),
		Name:        r.Name,
		DisplayName: r.DisplayName,
		Description: r.Description,
	}
}

type userRoleResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	Description string `json:"description"`
	AssignedAt  string `json:"assigned_at"`
	AssignedBy  string `json:"assigned_by"`
}

type userInfoResponse struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
}

func toUserInfo(u *user.User) *userInfoResponse {
	return &userInfoResponse{ID: u.ID.String(), Email: u.Email, Username: u.Username}
}

type userRolesResponse struct {
	Message    string             `json:"message"`
	UserExists bool               `json:"user_exists"`
	UserRoles  []userRoleResponse `json:"user_roles"`
	UserInfo   *userInfoResponse  `json:"user_info,omitempty"`
}

type assignmentResponse struct {
	ID         string       `json:"id"`
	UserID     string       `json:"user_id"`
	Role       roleResponse `json:"role"`
	IsActive   bool         `json:"is_active"`
	AssignedAt string       `json:"assigned_at"`
	AssignedBy *string      `json:"assigned_by"`
	RevokedAt  *string      `json:"revoked_at"`
	RevokedBy  *string      `json:"revoked_by"`
	Notes      string       `json:"notes"`
}

func toAssignmentResponse(a *assignment.Assignment, r *role.Role) assignmentResponse {
	resp := assignmentResponse{
		ID:         a.ID.String(),
		UserID:     a.UserID.String(),
		Role:       toRoleResponse(r),
		IsActive:   a.IsActive,
		AssignedAt: formatTime(a.AssignedAt),
		AssignedBy: uuidString(a.AssignedBy),
		RevokedBy:  uuidString(a.RevokedBy),
		Notes:      a.Notes,
	}
	if a.RevokedAt != nil {
		revoked := formatTime(*a.RevokedAt)
		resp.RevokedAt = &revoked
	}
	return resp
}

func toAssignmentResponses(details []workflow.AssignmentDetail) []assignmentResponse {
	items := make([]assignmentResponse, 0, len(details))
	for i := range details {
		items = append(items, toAssignmentResponse(&details[i].Assignment, &details[i].Role))
	}
	return items
}

func uuidString(id *uuid.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}

type assignmentsByEmailResponse struct {
	User        userInfoResponse     `json:"user"`
	Assignments []assignmentResponse `json:"assignments"`
}

type revokeResponse struct {
	Message    string             `json:"message"`
	Assignment assignmentResponse `json:"assignment"`
}

// AssignmentHandler handles role assignment endpoints.
type AssignmentHandler struct {
	svc AssignmentService
}

// NewAssignmentHandler creates a new AssignmentHandler.
func NewAssignmentHandler(svc AssignmentService) *AssignmentHandler {
	return &AssignmentHandler{svc: svc}
}

// assignFailure is a failed assignment request, rendered by Assign as a
// plain error and by AssignEnhanced inside its error wrapper.
type assignFailure struct {
	status  int
	code    string
	message string
	details any
}

func decodeAssignRequest(w http.ResponseWriter, r *http.Request) (assignRolesRequest, *assignFailure) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req assignRolesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return req, &assignFailure{status: http.StatusBadRequest, code: "INVALID_JSON", message: "Request body must be valid JSON"}
	}
	return req, nil
}

func (h *AssignmentHandler) assign(r *http.Request, req assignRolesRequest) (*assignRolesResponse, *assignFailure) {
	requestID := middleware.GetRequestID(r.Context())

	fieldErrors := validation.ValidateAssignRolesRequest(validation.AssignRolesRequest{
		Email:         req.Email,
		SelectedRoles: req.SelectedRoles,
	})
	if len(fieldErrors) > 0 {
		return nil, &assignFailure{
			status:  http.StatusBadRequest,
			code:    "VALIDATION_ERROR",
			message: "Input validation failed",
			details: fieldErrors,
		}
	}

	res, err := h.svc.AssignRoles(r.Context(), workflow.AssignInput{
		Email:     req.Email,
		RoleNames: req.SelectedRoles,
		Actor:     middleware.GetIdentity(r.Context()),
	})
	if err != nil {
		slog.Error("failed to assign roles", "error", err, "email", req.Email, "requestId", requestID)
		return nil, &assignFailure{
			status:  http.StatusInternalServerError,
			code:    "INTERNAL_ERROR",
			message: "Failed to assign roles",
			details: err.Error(),
		}
	}

	assigned := make([]assignedRoleResponse, 0, len(res.Assigned))
	for _, ro := range res.Assigned {
		assigned = append(assigned, assignedRoleResponse{
			ID:          ro.ID.String(),
			Name:        ro.Name,
			DisplayName: ro.DisplayName,
		})
	}

	already := res.AlreadyAssigned
	if already == nil {
		already = []string{}
	}

	var failed []failedRoleResponse
	for _, f := range res.Failed {
		failed = append(failed, failedRoleResponse{Role: f.Role, Message: f.Message})
	}

	return &assignRolesResponse{
		Success: true,
		Message: fmt.Sprintf("Successfully assigned %d role(s) to %s", len(res.Assigned), req.Email),
		User: assignedUserResponse{
			ID:         res.User.ID.String(),
			Email:      res.User.Email,
			Username:   res.User.Username,
			UserExists: res.UserExists,
		},
		AssignedRoles:   assigned,
		AlreadyAssigned: already,
		FailedRoles:     failed,
	}, nil
}

// Assign handles POST /api/role-assignment.
func (h *AssignmentHandler) Assign(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	req, fail := decodeAssignRequest(w, r)
	var resp *assignRolesResponse
	if fail == nil {
		resp, fail = h.assign(r, req)
	}
	if fail != nil {
		response.ErrWithDetails(w, fail.status, fail.code, fail.message, fail.details, requestID)
		return
	}

	response.Success(w, http.StatusCreated, resp, requestID)
}

type enhancedAssignResponse struct {
	*assignRolesResponse
	Status         string `json:"status"`
	Timestamp      string `json:"timestamp"`
	ServerResponse string `json:"server_response"`
}

type enhancedFailureDetails struct {
	Status    string `json:"status"`
	Details   any    `json:"details,omitempty"`
	Timestamp string `json:"timestamp"`
}

// AssignEnhanced handles POST /api/role-assignment-enhanced. It runs the same
// assignment as Assign and adds status fields used by the assignment form.
// A missing email or an empty role list is reported with its own code; any
// other failure keeps the status and code of the plain endpoint under the
// message "Role assignment failed".
func (h *AssignmentHandler) AssignEnhanced(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	req, fail := decodeAssignRequest(w, r)
	if fail == nil {
		switch {
		case strings.TrimSpace(req.Email) == "":
			fail = &assignFailure{status: http.StatusBadRequest, code: "MISSING_EMAIL", message: "Email is required"}
		case len(req.SelectedRoles) == 0:
			fail = &assignFailure{status: http.StatusBadRequest, code: "NO_ROLES_SELECTED", message: "At least one role must be selected"}
		}
		if fail != nil {
			response.ErrWithDetails(w, fail.status, fail.code, fail.message,
				enhancedFailureDetails{Status: "error", Timestamp: now()}, requestID)
			return
		}
	}

	var resp *assignRolesResponse
	if fail == nil {
		resp, fail = h.assign(r, req)
	}
	if fail != nil {
		response.ErrWithDetails(w, fail.status, fail.code, "Role assignment failed",
			enhancedFailureDetails{Status: "error", Details: fail.details, Timestamp: now()}, requestID)
		return
	}

	response.Success(w, http.StatusCreated, enhancedAssignResponse{
		assignRolesResponse: resp,
		Status:              "success",
		Timestamp:           now(),
		ServerResponse:      "OK",
	}, requestID)
}

// UserRoles handles GET /api/user-roles?email= and its alias
// GET /api/simple-user-roles. An unknown email is not an error: the response
// reports user_exists=false.
func (h *AssignmentHandler) UserRoles(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	email := r.URL.Query().Get("email")
	if fieldErrors := validation.ValidateEmail("email", email); len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed", fieldErrors, requestID)
		return
	}

	u, views, err := h.svc.RolesForUser(r.Context(), email)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			response.Success(w, http.StatusOK, userRolesResponse{
				Message:    "User not found",
				UserExists: false,
				UserRoles:  []userRoleResponse{},
			}, requestID)
			return
		}
		slog.Error("failed to list user roles", "error", err, "email", email, "requestId", requestID)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list user roles", requestID)
		return
	}

	roles := make([]userRoleResponse, 0, len(views))
	for _, v := range views {
		assignedBy := systemAssigner
		if v.AssignedByEmail != nil {
			assignedBy = *v.AssignedByEmail
		}
		roles = append(roles, userRoleResponse{
			ID:          v.RoleID.String(),
			Name:        v.Name,
			DisplayName: v.DisplayName,
			Description: v.Description,
			AssignedAt:  formatTime(v.AssignedAt),
			AssignedBy:  assignedBy,
		})
	}

	response.Success(w, http.StatusOK, userRolesResponse{
		Message:    fmt.Sprintf("Found %d role(s) for user", len(roles)),
		UserExists: true,
		UserRoles:  roles,
		UserInfo:   toUserInfo(u),
	}, requestID)
}

// AvailableRoles handles GET /api/role-assignments/available-roles.
func (h *AssignmentHandler) AvailableRoles(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	roles, err := h.svc.AvailableRoles(r.Context())
	if err != nil {
		slog.Error("failed to list available roles", "error", err, "requestId", requestID)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list roles", requestID)
		return
	}

	items := make([]roleResponse, 0, len(roles))
	for i := range roles {
		items = append(items, toRoleResponse(&roles[i]))
	}

	response.SuccessList(w, http.StatusOK, items, len(items), requestID)
}

// ByEmail handles GET /api/role-assignments/by-email?email=.
func (h *AssignmentHandler) ByEmail(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	email := r.URL.Query().Get("email")
	if fieldErrors := validation.ValidateEmail("email", email); len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed", fieldErrors, requestID)
		return
	}

	u, details, err := h.svc.AssignmentsByEmail(r.Context(), email)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			response.Err(w, http.StatusNotFound, "NOT_FOUND", "User not found", requestID)
			return
		}
		slog.Error("failed to list assignments by email", "error", err, "email", email, "requestId", requestID)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list assignments", requestID)
		return
	}

	response.Success(w, http.StatusOK, assignmentsByEmailResponse{
		User:        *toUserInfo(u),
		Assignments: toAssignmentResponses(details),
	}, requestID)
}

// List handles GET /api/role-assignments?userId=. Without userId the
// caller's own assignments are listed.
func (h *AssignmentHandler) List(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	identity := middleware.GetIdentity(r.Context())

	var userID uuid.UUID
	if raw := r.URL.Query().Get("userId"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			response.Err(w, http.StatusBadRequest, "INVALID_ID", "userId must be a valid UUID", requestID)
			return
		}
		userID = parsed
	} else if identity != nil {
		userID = identity.UserID
	}

	details, err := h.svc.AssignmentsForUser(r.Context(), userID, identity)
	if err != nil {
		switch {
		case errors.Is(err, workflow.ErrForbidden):
			response.Err(w, http.StatusForbidden, "FORBIDDEN", "You may only list your own assignments", requestID)
		case errors.Is(err, user.ErrUserNotFound):
			response.Err(w, http.StatusNotFound, "NOT_FOUND", "User not found", requestID)
		default:
			slog.Error("failed to list assignments", "error", err, "userId", userID, "requestId", requestID)
			response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list assignments", requestID)
		}
		return
	}

	items := toAssignmentResponses(details)
	response.SuccessList(w, http.StatusOK, items, len(items), requestID)
}

// Revoke handles POST /api/role-assignments/{id}/revoke.
func (h *AssignmentHandler) Revoke(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_ID", "id must be a valid UUID", requestID)
		return
	}

	rev, err := h.svc.RevokeAssignment(r.Context(), id, middleware.GetIdentity(r.Context()))
	if err != nil {
		if errors.Is(err, assignment.ErrAssignmentNotFound) {
			response.Err(w, http.StatusNotFound, "NOT_FOUND", "Assignment not found", requestID)
			return
		}
		slog.Error("failed to revoke assignment", "error", err, "id", id, "requestId", requestID)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to revoke assignment", requestID)
		return
	}

	response.Success(w, http.StatusOK, revokeResponse{
		Message:    fmt.Sprintf("Role %s revoked from %s", rev.Role.DisplayName, rev.User.Email),
		Assignment: toAssignmentResponse(&rev.Assignment, &rev.Role),
	}, requestID)
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}
