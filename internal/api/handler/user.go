package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/daap14/roleassign/internal/api/middleware"
	"github.com/daap14/roleassign/internal/api/response"
	"github.com/daap14/roleassign/internal/api/validation"
	"github.com/daap14/roleassign/internal/user"
)

// UserCreator creates users and announces their creation.
type UserCreator interface {
	Create(ctx context.Context, u *user.User) error
}

// KeyIssuer issues API keys for existing users.
type KeyIssuer interface {
	IssueKey(ctx context.Context, userID uuid.UUID) (string, error)
}

type createUserRequest struct {
	Email       string `json:"email"`
	Username    string `json:"username"`
	IsStaff     bool   `json:"is_staff"`
	IssueAPIKey bool   `json:"issue_api_key"`
}

type userResponse struct {
	ID        string  `json:"id"`
	Email     string  `json:"email"`
	Username  string  `json:"username"`
	IsStaff   bool    `json:"is_staff"`
	CreatedAt string  `json:"created_at"`
	APIKey    *string `json:"api_key,omitempty"`
}

type apiKeyResponse struct {
	UserID string `json:"user_id"`
	APIKey string `json:"api_key"`
}

// UserHandler handles user registration and key issuance.
type UserHandler struct {
	users UserCreator
	keys  KeyIssuer
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(users UserCreator, keys KeyIssuer) *UserHandler {
	return &UserHandler{users: users, keys: keys}
}

// Create handles POST /api/users. Users created here receive the default
// role like any other new user.
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", requestID)
		return
	}

	fieldErrors := validation.ValidateCreateUserRequest(validation.CreateUserRequest{
		Email:    req.Email,
		Username: req.Username,
	})
	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed", fieldErrors, requestID)
		return
	}

	u := &user.User{
		Email:    req.Email,
		Username: strings.TrimSpace(req.Username),
		IsStaff:  req.IsStaff,
	}

	if err := h.users.Create(r.Context(), u); err != nil {
		if errors.Is(err, user.ErrDuplicateEmail) {
			response.Err(w, http.StatusConflict, "DUPLICATE_EMAIL", fmt.Sprintf("A user with email %q already exists", req.Email), requestID)
			return
		}
		slog.Error("failed to create user", "error", err, "email", req.Email, "requestId", requestID)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create user", requestID)
		return
	}

	resp := userResponse{
		ID:        u.ID.String(),
		Email:     u.Email,
		Username:  u.Username,
		IsStaff:   u.IsStaff,
		CreatedAt: formatTime(u.CreatedAt),
	}

	if req.IssueAPIKey {
		rawKey, err := h.keys.IssueKey(r.Context(), u.ID)
		if err != nil {
			slog.Error("failed to issue API key", "error", err, "userId", u.ID, "requestId", requestID)
			response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "User created but API key could not be issued", requestID)
			return
		}
		resp.APIKey = &rawKey
	}

	response.Success(w, http.StatusCreated, resp, requestID)
}

// IssueKey handles POST /api/users/{id}/api-key. Any previous key stops
// working.
func (h *UserHandler) IssueKey(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_ID", "id must be a valid UUID", requestID)
		return
	}

	rawKey, err := h.keys.IssueKey(r.Context(), id)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			response.Err(w, http.StatusNotFound, "NOT_FOUND", "User not found", requestID)
			return
		}
		slog.Error("failed to issue API key", "error", err, "userId", id, "requestId", requestID)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to issue API key", requestID)
		return
	}

	response.Success(w, http.StatusCreated, apiKeyResponse{UserID: id.String(), APIKey: rawKey}, requestID)
}
