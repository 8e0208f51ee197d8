package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/daap14/roleassign/internal/api/response"
	"github.com/daap14/roleassign/internal/auth"
)

const identityKey contextKey = "identity"

// APIKeyHeader carries the caller's API key.
const APIKeyHeader = "X-API-Key"

// Authenticator resolves a raw API key to an Identity.
type Authenticator interface {
	Authenticate(ctx context.Context, rawKey string) (*auth.Identity, error)
}

// Auth is middleware that extracts the X-API-Key header and resolves it
// to an Identity. Missing or invalid keys return 401.
func Auth(authn Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := GetRequestID(r.Context())

			rawKey := r.Header.Get(APIKeyHeader)
			if rawKey == "" {
				response.Err(w, http.StatusUnauthorized, "UNAUTHORIZED", "API key is required", requestID)
				return
			}

			identity, ok := authenticate(w, r, authn, rawKey)
			if !ok {
				return
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
		})
	}
}

// OptionalAuth resolves the X-API-Key header when present and lets anonymous
// requests through. A key that is present but invalid still returns 401.
func OptionalAuth(authn Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rawKey := r.Header.Get(APIKeyHeader)
			if rawKey == "" {
				next.ServeHTTP(w, r)
				return
			}

			identity, ok := authenticate(w, r, authn, rawKey)
			if !ok {
				return
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
		})
	}
}

func authenticate(w http.ResponseWriter, r *http.Request, authn Authenticator, rawKey string) (*auth.Identity, bool) {
	requestID := GetRequestID(r.Context())

	identity, err := authn.Authenticate(r.Context(), rawKey)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidKey) {
			response.Err(w, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid API key", requestID)
			return nil, false
		}
		slog.Error("authentication failed", "error", err, "requestId", requestID)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Authentication failed", requestID)
		return nil, false
	}
	return identity, true
}

// RequireStaff returns middleware that rejects non-staff identities with 403.
// It must run after Auth.
func RequireStaff() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := GetRequestID(r.Context())

			identity := GetIdentity(r.Context())
			if identity == nil {
				response.Err(w, http.StatusUnauthorized, "UNAUTHORIZED", "API key is required", requestID)
				return
			}

			if !identity.IsStaff {
				response.Err(w, http.StatusForbidden, "FORBIDDEN", "Staff access required", requestID)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// WithIdentity returns a copy of ctx carrying identity.
func WithIdentity(ctx context.Context, identity *auth.Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

// GetIdentity retrieves the authenticated Identity from the request context.
// It returns nil for anonymous requests.
func GetIdentity(ctx context.Context) *auth.Identity {
	if id, ok := ctx.Value(identityKey).(*auth.Identity); ok {
		return id
	}
	return nil
}
