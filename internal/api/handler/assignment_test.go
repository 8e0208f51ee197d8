package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daap14/roleassign/internal/api/handler"
	"github.com/daap14/roleassign/internal/assignment"
	"github.com/daap14/roleassign/internal/auth"
	"github.com/daap14/roleassign/internal/role"
	"github.com/daap14/roleassign/internal/user"
	"github.com/daap14/roleassign/internal/workflow"
)

// --- Mock Assignment Service ---

type mockAssignmentService struct {
	assignRolesFn        func(ctx context.Context, in workflow.AssignInput) (*workflow.AssignResult, error)
	rolesForUserFn       func(ctx context.Context, email string) (*user.User, []assignment.RoleView, error)
	assignmentsByEmailFn func(ctx context.Context, email string) (*user.User, []workflow.AssignmentDetail, error)
	assignmentsForUserFn func(ctx context.Context, userID uuid.UUID, requester *auth.Identity) ([]workflow.AssignmentDetail, error)
	availableRolesFn     func(ctx context.Context) ([]role.Role, error)
	revokeFn             func(ctx context.Context, id uuid.UUID, actor *auth.Identity) (*workflow.Revocation, error)
}

func (m *mockAssignmentService) AssignRoles(ctx context.Context, in workflow.AssignInput) (*workflow.AssignResult, error) {
	return m.assignRolesFn(ctx, in)
}

func (m *mockAssignmentService) RolesForUser(ctx context.Context, email string) (*user.User, []assignment.RoleView, error) {
	if m.rolesForUserFn != nil {
		return m.rolesForUserFn(ctx, email)
	}
	return nil, nil, user.ErrUserNotFound
}

func (m *mockAssignmentService) AssignmentsByEmail(ctx context.Context, email string) (*user.User, []workflow.AssignmentDetail, error) {
	if m.assignmentsByEmailFn != nil {
		return m.assignmentsByEmailFn(ctx, email)
	}
	return nil, nil, user.ErrUserNotFound
}

func (m *mockAssignmentService) AssignmentsForUser(ctx context.Context, userID uuid.UUID, requester *auth.Identity) ([]workflow.AssignmentDetail, error) {
	return m.assignmentsForUserFn(ctx, userID, requester)
}

func (m *mockAssignmentService) AvailableRoles(ctx context.Context) ([]role.Role, error) {
	if m.availableRolesFn != nil {
		return m.availableRolesFn(ctx)
	}
	return []role.Role{}, nil
}

func (m *mockAssignmentService) RevokeAssignment(ctx context.Context, id uuid.UUID, actor *auth.Identity) (*workflow.Revocation, error) {
	if m.revokeFn != nil {
		return m.revokeFn(ctx, id, actor)
	}
	return nil, assignment.ErrAssignmentNotFound
}

// --- Helpers ---

func sampleUser(email string) *user.User {
	return &user.User{ID: uuid.New(), Email: email, Username: user.UsernameFromEmail(email), CreatedAt: time.Now().UTC()}
}

func sampleRole(name, display string) role.Role {
	now := time.Now().UTC()
	return role.Role{
		ID:          uuid.New(),
		Name:        name,
		DisplayName: display,
		Description: "Role for " + name,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func assignBody(email string, roles ...string) []byte {
	body, _ := json.Marshal(map[string]interface{}{"email": email, "selected_roles": roles})
	return body
}

// ===== POST /api/role-assignment =====

func TestAssign_Success(t *testing.T) {
	t.Parallel()

	var got workflow.AssignInput
	svc := &mockAssignmentService{
		assignRolesFn: func(_ context.Context, in workflow.AssignInput) (*workflow.AssignResult, error) {
			got = in
			return &workflow.AssignResult{
				User:            sampleUser(in.Email),
				UserExists:      false,
				Assigned:        []role.Role{sampleRole("qa-lead", "Qa Lead")},
				AlreadyAssigned: []string{"client"},
			}, nil
		},
	}
	h := handler.NewAssignmentHandler(svc)

	req, w := makeChiRequest(http.MethodPost, "/api/role-assignment", assignBody("new@x.com", "qa-lead", "client"), nil)
	h.Assign(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, []string{"qa-lead", "client"}, got.RoleNames)
	assert.Nil(t, got.Actor)

	data := parseEnvelope(t, w)["data"].(map[string]interface{})
	assert.Equal(t, true, data["success"])
	assert.Equal(t, "Successfully assigned 1 role(s) to new@x.com", data["message"])

	u := data["user"].(map[string]interface{})
	assert.Equal(t, "new@x.com", u["email"])
	assert.Equal(t, "new", u["username"])
	assert.Equal(t, false, u["user_exists"])

	assigned := data["assigned_roles"].([]interface{})
	require.Len(t, assigned, 1)
	assert.Equal(t, "Qa Lead", assigned[0].(map[string]interface{})["display_name"])
	assert.Equal(t, []interface{}{"client"}, data["already_assigned"])
	assert.NotContains(t, data, "failed_roles")
}

func TestAssign_PassesActor(t *testing.T) {
	t.Parallel()

	actor := &auth.Identity{UserID: uuid.New(), Email: "admin@x.com", IsStaff: true}
	var got *auth.Identity
	svc := &mockAssignmentService{
		assignRolesFn: func(_ context.Context, in workflow.AssignInput) (*workflow.AssignResult, error) {
			got = in.Actor
			return &workflow.AssignResult{User: sampleUser(in.Email), UserExists: true}, nil
		},
	}
	h := handler.NewAssignmentHandler(svc)

	req, w := makeChiRequest(http.MethodPost, "/api/role-assignment", assignBody("old@x.com", "editor"), nil)
	h.Assign(w, withIdentity(req, actor))

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, actor, got)

	data := parseEnvelope(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "Successfully assigned 0 role(s) to old@x.com", data["message"])
	assert.Equal(t, []interface{}{}, data["assigned_roles"])
	assert.Equal(t, []interface{}{}, data["already_assigned"])
}

func TestAssign_ReportsFailedRoles(t *testing.T) {
	t.Parallel()

	svc := &mockAssignmentService{
		assignRolesFn: func(_ context.Context, in workflow.AssignInput) (*workflow.AssignResult, error) {
			return &workflow.AssignResult{
				User:     sampleUser(in.Email),
				Assigned: []role.Role{sampleRole("editor", "Editor")},
				Failed:   []workflow.RoleFailure{{Role: "reviewer", Message: "connection reset"}},
			}, nil
		},
	}
	h := handler.NewAssignmentHandler(svc)

	req, w := makeChiRequest(http.MethodPost, "/api/role-assignment", assignBody("new@x.com", "editor", "reviewer"), nil)
	h.Assign(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	data := parseEnvelope(t, w)["data"].(map[string]interface{})
	failed := data["failed_roles"].([]interface{})
	require.Len(t, failed, 1)
	assert.Equal(t, "reviewer", failed[0].(map[string]interface{})["role"])
}

func TestAssign_ValidationError(t *testing.T) {
	t.Parallel()

	h := handler.NewAssignmentHandler(&mockAssignmentService{})

	body, _ := json.Marshal(map[string]interface{}{"email": "bad"})
	req, w := makeChiRequest(http.MethodPost, "/api/role-assignment", body, nil)
	h.Assign(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	errObj := parseEnvelope(t, w)["error"].(map[string]interface{})
	assert.Equal(t, "VALIDATION_ERROR", errObj["code"])
	assert.Len(t, errObj["details"], 2) // email + selected_roles
}

func TestAssign_InvalidJSON(t *testing.T) {
	t.Parallel()

	h := handler.NewAssignmentHandler(&mockAssignmentService{})

	req, w := makeChiRequest(http.MethodPost, "/api/role-assignment", []byte("{not json"), nil)
	h.Assign(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_JSON", errorCode(t, w))
}

func TestAssign_WorkflowFailure(t *testing.T) {
	t.Parallel()

	svc := &mockAssignmentService{
		assignRolesFn: func(_ context.Context, in workflow.AssignInput) (*workflow.AssignResult, error) {
			return nil, &workflow.StepError{Step: "resolve_user", Email: in.Email, Err: errors.New("db down")}
		},
	}
	h := handler.NewAssignmentHandler(svc)

	req, w := makeChiRequest(http.MethodPost, "/api/role-assignment", assignBody("new@x.com", "editor"), nil)
	h.Assign(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	errObj := parseEnvelope(t, w)["error"].(map[string]interface{})
	assert.Equal(t, "INTERNAL_ERROR", errObj["code"])
	assert.Equal(t, "Failed to assign roles", errObj["message"])
	assert.Equal(t, "resolve_user for new@x.com: db down", errObj["details"])
}

// ===== POST /api/role-assignment-enhanced =====

func TestAssignEnhanced_Success(t *testing.T) {
	t.Parallel()

	svc := &mockAssignmentService{
		assignRolesFn: func(_ context.Context, in workflow.AssignInput) (*workflow.AssignResult, error) {
			return &workflow.AssignResult{
				User:     sampleUser(in.Email),
				Assigned: []role.Role{sampleRole("editor", "Editor")},
			}, nil
		},
	}
	h := handler.NewAssignmentHandler(svc)

	req, w := makeChiRequest(http.MethodPost, "/api/role-assignment-enhanced", assignBody("new@x.com", "editor"), nil)
	h.AssignEnhanced(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	data := parseEnvelope(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "success", data["status"])
	assert.Equal(t, "OK", data["server_response"])
	assert.Equal(t, true, data["success"])
	assert.Equal(t, "Successfully assigned 1 role(s) to new@x.com", data["message"])
	assert.Len(t, data["assigned_roles"], 1)

	_, err := time.Parse(time.RFC3339, data["timestamp"].(string))
	assert.NoError(t, err)
}

func TestAssignEnhanced_MissingInput(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		body     []byte
		wantCode string
	}{
		{"empty email", assignBody("  ", "editor"), "MISSING_EMAIL"},
		{"no email field", []byte(`{"selected_roles":["editor"]}`), "MISSING_EMAIL"},
		{"empty roles", assignBody("new@x.com"), "NO_ROLES_SELECTED"},
		{"no roles field", []byte(`{"email":"new@x.com"}`), "NO_ROLES_SELECTED"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			called := false
			svc := &mockAssignmentService{
				assignRolesFn: func(_ context.Context, _ workflow.AssignInput) (*workflow.AssignResult, error) {
					called = true
					return nil, errors.New("unexpected call")
				},
			}
			h := handler.NewAssignmentHandler(svc)

			req, w := makeChiRequest(http.MethodPost, "/api/role-assignment-enhanced", tt.body, nil)
			h.AssignEnhanced(w, req)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.False(t, called)

			env := parseEnvelope(t, w)
			assert.Nil(t, env["data"])
			errObj := env["error"].(map[string]interface{})
			assert.Equal(t, tt.wantCode, errObj["code"])
			details := errObj["details"].(map[string]interface{})
			assert.Equal(t, "error", details["status"])
			assert.NotEmpty(t, details["timestamp"])
		})
	}
}

func TestAssignEnhanced_ValidationError(t *testing.T) {
	t.Parallel()

	h := handler.NewAssignmentHandler(&mockAssignmentService{})

	req, w := makeChiRequest(http.MethodPost, "/api/role-assignment-enhanced", assignBody("bad", "editor"), nil)
	h.AssignEnhanced(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	errObj := parseEnvelope(t, w)["error"].(map[string]interface{})
	assert.Equal(t, "VALIDATION_ERROR", errObj["code"])
	assert.Equal(t, "Role assignment failed", errObj["message"])

	details := errObj["details"].(map[string]interface{})
	assert.Equal(t, "error", details["status"])
	fieldErrors := details["details"].([]interface{})
	require.Len(t, fieldErrors, 1)
	assert.Equal(t, "email", fieldErrors[0].(map[string]interface{})["field"])
}

func TestAssignEnhanced_InvalidJSON(t *testing.T) {
	t.Parallel()

	h := handler.NewAssignmentHandler(&mockAssignmentService{})

	req, w := makeChiRequest(http.MethodPost, "/api/role-assignment-enhanced", []byte("{not json"), nil)
	h.AssignEnhanced(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_JSON", errorCode(t, w))
}

func TestAssignEnhanced_WorkflowFailure(t *testing.T) {
	t.Parallel()

	svc := &mockAssignmentService{
		assignRolesFn: func(_ context.Context, in workflow.AssignInput) (*workflow.AssignResult, error) {
			return nil, &workflow.StepError{Step: "resolve_user", Email: in.Email, Err: errors.New("db down")}
		},
	}
	h := handler.NewAssignmentHandler(svc)

	req, w := makeChiRequest(http.MethodPost, "/api/role-assignment-enhanced", assignBody("new@x.com", "editor"), nil)
	h.AssignEnhanced(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	errObj := parseEnvelope(t, w)["error"].(map[string]interface{})
	assert.Equal(t, "INTERNAL_ERROR", errObj["code"])
	assert.Equal(t, "Role assignment failed", errObj["message"])

	details := errObj["details"].(map[string]interface{})
	assert.Equal(t, "error", details["status"])
	assert.Equal(t, "resolve_user for new@x.com: db down", details["details"])
}

// ===== GET /api/user-roles =====

func TestUserRoles_Found(t *testing.T) {
	t.Parallel()

	assigner := "admin@x.com"
	u := sampleUser("old@x.com")
	svc := &mockAssignmentService{
		rolesForUserFn: func(_ context.Context, email string) (*user.User, []assignment.RoleView, error) {
			return u, []assignment.RoleView{
				{RoleID: uuid.New(), Name: "client", DisplayName: "Client", Description: "Role for client", AssignedAt: time.Now()},
				{RoleID: uuid.New(), Name: "editor", DisplayName: "Editor", Description: "Role for editor", AssignedAt: time.Now(), AssignedByEmail: &assigner},
			}, nil
		},
	}
	h := handler.NewAssignmentHandler(svc)

	req, w := makeChiRequest(http.MethodGet, "/api/user-roles?email=old@x.com", nil, nil)
	h.UserRoles(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	data := parseEnvelope(t, w)["data"].(map[string]interface{})
	assert.Equal(t, true, data["user_exists"])
	assert.Equal(t, "Found 2 role(s) for user", data["message"])
	assert.Equal(t, u.ID.String(), data["user_info"].(map[string]interface{})["id"])

	roles := data["user_roles"].([]interface{})
	require.Len(t, roles, 2)
	assert.Equal(t, "System", roles[0].(map[string]interface{})["assigned_by"])
	assert.Equal(t, assigner, roles[1].(map[string]interface{})["assigned_by"])
}

func TestUserRoles_UnknownUser(t *testing.T) {
	t.Parallel()

	h := handler.NewAssignmentHandler(&mockAssignmentService{})

	req, w := makeChiRequest(http.MethodGet, "/api/user-roles?email=ghost@x.com", nil, nil)
	h.UserRoles(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	data := parseEnvelope(t, w)["data"].(map[string]interface{})
	assert.Equal(t, false, data["user_exists"])
	assert.Equal(t, "User not found", data["message"])
	assert.Equal(t, []interface{}{}, data["user_roles"])
	assert.NotContains(t, data, "user_info")
}

func TestUserRoles_MissingEmail(t *testing.T) {
	t.Parallel()

	h := handler.NewAssignmentHandler(&mockAssignmentService{})

	req, w := makeChiRequest(http.MethodGet, "/api/user-roles", nil, nil)
	h.UserRoles(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_ERROR", errorCode(t, w))
}

// ===== GET /api/role-assignments/available-roles =====

func TestAvailableRoles(t *testing.T) {
	t.Parallel()

	svc := &mockAssignmentService{
		availableRolesFn: func(_ context.Context) ([]role.Role, error) {
			return []role.Role{sampleRole("client", "Client"), sampleRole("editor", "Editor")}, nil
		},
	}
	h := handler.NewAssignmentHandler(svc)

	req, w := makeChiRequest(http.MethodGet, "/api/role-assignments/available-roles", nil, nil)
	h.AvailableRoles(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	env := parseEnvelope(t, w)
	items := env["data"].([]interface{})
	require.Len(t, items, 2)
	first := items[0].(map[string]interface{})
	assert.Equal(t, "client", first["name"])
	assert.Equal(t, "Role for client", first["description"])
	assert.Equal(t, float64(2), env["meta"].(map[string]interface{})["total"])
}

func TestAvailableRoles_Failure(t *testing.T) {
	t.Parallel()

	svc := &mockAssignmentService{
		availableRolesFn: func(_ context.Context) ([]role.Role, error) { return nil, errors.New("boom") },
	}
	h := handler.NewAssignmentHandler(svc)

	req, w := makeChiRequest(http.MethodGet, "/api/role-assignments/available-roles", nil, nil)
	h.AvailableRoles(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

// ===== GET /api/role-assignments/by-email =====

func TestByEmail(t *testing.T) {
	t.Parallel()

	u := sampleUser("old@x.com")
	ro := sampleRole("editor", "Editor")
	svc := &mockAssignmentService{
		assignmentsByEmailFn: func(_ context.Context, _ string) (*user.User, []workflow.AssignmentDetail, error) {
			return u, []workflow.AssignmentDetail{{
				Assignment: assignment.Assignment{ID: uuid.New(), UserID: u.ID, RoleID: ro.ID, IsActive: true, AssignedAt: time.Now()},
				Role:       ro,
			}}, nil
		},
	}
	h := handler.NewAssignmentHandler(svc)

	req, w := makeChiRequest(http.MethodGet, "/api/role-assignments/by-email?email=old@x.com", nil, nil)
	h.ByEmail(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	data := parseEnvelope(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "old", data["user"].(map[string]interface{})["username"])
	items := data["assignments"].([]interface{})
	require.Len(t, items, 1)
	item := items[0].(map[string]interface{})
	assert.Equal(t, true, item["is_active"])
	assert.Nil(t, item["assigned_by"])
	assert.Nil(t, item["revoked_at"])
	assert.Equal(t, "editor", item["role"].(map[string]interface{})["name"])
}

func TestByEmail_NotFound(t *testing.T) {
	t.Parallel()

	h := handler.NewAssignmentHandler(&mockAssignmentService{})

	req, w := makeChiRequest(http.MethodGet, "/api/role-assignments/by-email?email=ghost@x.com", nil, nil)
	h.ByEmail(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "NOT_FOUND", errorCode(t, w))
}

// ===== GET /api/role-assignments =====

func TestList_DefaultsToCaller(t *testing.T) {
	t.Parallel()

	caller := &auth.Identity{UserID: uuid.New(), Email: "member@x.com"}
	var gotID uuid.UUID
	svc := &mockAssignmentService{
		assignmentsForUserFn: func(_ context.Context, userID uuid.UUID, _ *auth.Identity) ([]workflow.AssignmentDetail, error) {
			gotID = userID
			return []workflow.AssignmentDetail{}, nil
		},
	}
	h := handler.NewAssignmentHandler(svc)

	req, w := makeChiRequest(http.MethodGet, "/api/role-assignments", nil, nil)
	h.List(w, withIdentity(req, caller))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, caller.UserID, gotID)
}

func TestList_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		err        error
		wantStatus int
		wantCode   string
	}{
		{name: "forbidden", query: "?userId=" + uuid.NewString(), err: workflow.ErrForbidden, wantStatus: http.StatusForbidden, wantCode: "FORBIDDEN"},
		{name: "unknown user", query: "?userId=" + uuid.NewString(), err: user.ErrUserNotFound, wantStatus: http.StatusNotFound, wantCode: "NOT_FOUND"},
		{name: "bad id", query: "?userId=nope", wantStatus: http.StatusBadRequest, wantCode: "INVALID_ID"},
		{name: "store failure", query: "", err: errors.New("boom"), wantStatus: http.StatusInternalServerError, wantCode: "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockAssignmentService{
				assignmentsForUserFn: func(context.Context, uuid.UUID, *auth.Identity) ([]workflow.AssignmentDetail, error) {
					return nil, tt.err
				},
			}
			h := handler.NewAssignmentHandler(svc)

			req, w := makeChiRequest(http.MethodGet, "/api/role-assignments"+tt.query, nil, nil)
			h.List(w, withIdentity(req, &auth.Identity{UserID: uuid.New()}))

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantCode, errorCode(t, w))
		})
	}
}

// ===== POST /api/role-assignments/{id}/revoke =====

func TestRevoke_Success(t *testing.T) {
	t.Parallel()

	actor := &auth.Identity{UserID: uuid.New(), Email: "admin@x.com", IsStaff: true}
	u := sampleUser("old@x.com")
	ro := sampleRole("editor", "Editor")
	id := uuid.New()
	revokedAt := time.Now().UTC()

	svc := &mockAssignmentService{
		revokeFn: func(_ context.Context, gotID uuid.UUID, gotActor *auth.Identity) (*workflow.Revocation, error) {
			assert.Equal(t, id, gotID)
			assert.Equal(t, actor, gotActor)
			return &workflow.Revocation{
				Assignment: assignment.Assignment{
					ID: id, UserID: u.ID, RoleID: ro.ID, IsActive: false,
					AssignedAt: revokedAt.Add(-time.Hour), RevokedAt: &revokedAt, RevokedBy: &actor.UserID,
				},
				Role: ro,
				User: *u,
			}, nil
		},
	}
	h := handler.NewAssignmentHandler(svc)

	req, w := makeChiRequest(http.MethodPost, "/api/role-assignments/"+id.String()+"/revoke", nil, map[string]string{"id": id.String()})
	h.Revoke(w, withIdentity(req, actor))

	assert.Equal(t, http.StatusOK, w.Code)
	data := parseEnvelope(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "Role Editor revoked from old@x.com", data["message"])
	as := data["assignment"].(map[string]interface{})
	assert.Equal(t, false, as["is_active"])
	assert.Equal(t, actor.UserID.String(), as["revoked_by"])
	assert.NotNil(t, as["revoked_at"])
}

func TestRevoke_NotFound(t *testing.T) {
	t.Parallel()

	h := handler.NewAssignmentHandler(&mockAssignmentService{})
	id := uuid.NewString()

	req, w := makeChiRequest(http.MethodPost, "/api/role-assignments/"+id+"/revoke", nil, map[string]string{"id": id})
	h.Revoke(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRevoke_InvalidID(t *testing.T) {
	t.Parallel()

	h := handler.NewAssignmentHandler(&mockAssignmentService{})

	req, w := makeChiRequest(http.MethodPost, "/api/role-assignments/abc/revoke", nil, map[string]string{"id": "abc"})
	h.Revoke(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_ID", errorCode(t, w))
}
