// Package response writes the JSON envelope shared by every endpoint except
// /openapi.json.
package response

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// Meta is attached to every response.
type Meta struct {
	RequestID string `json:"requestId"`
	Timestamp string `json:"timestamp"`
}

// ListMeta adds the item count for list endpoints.
type ListMeta struct {
	Meta
	Total int `json:"total"`
}

// Error is the error member of a failed response. Details carries field
// errors or other structured context.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// Envelope wraps a response body. Data is null whenever Error is set.
type Envelope[M Meta | ListMeta] struct {
	Data  any    `json:"data"`
	Error *Error `json:"error"`
	Meta  M      `json:"meta"`
}

// NewMeta stamps the current time. An empty requestID is replaced by a
// fresh UUID so that responses written outside the RequestID middleware are
// still traceable.
func NewMeta(requestID string) Meta {
	if requestID == "" {
		requestID = uuid.NewString()
	}
	return Meta{
		RequestID: requestID,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

// Success writes data with the given status.
func Success(w http.ResponseWriter, status int, data any, requestID string) {
	write(w, status, Envelope[Meta]{Data: data, Meta: NewMeta(requestID)})
}

// SuccessList writes a list of items together with their count.
func SuccessList(w http.ResponseWriter, status int, items any, total int, requestID string) {
	write(w, status, Envelope[ListMeta]{
		Data: items,
		Meta: ListMeta{Meta: NewMeta(requestID), Total: total},
	})
}

// Err writes an error response without details.
func Err(w http.ResponseWriter, status int, code, message, requestID string) {
	Fail(w, status, &Error{Code: code, Message: message}, requestID)
}

// ErrWithDetails writes an error response with details, typically a slice of
// validation field errors.
func ErrWithDetails(w http.ResponseWriter, status int, code, message string, details any, requestID string) {
	Fail(w, status, &Error{Code: code, Message: message, Details: details}, requestID)
}

// Fail writes e as the error member of the envelope.
func Fail(w http.ResponseWriter, status int, e *Error, requestID string) {
	write(w, status, Envelope[Meta]{Error: e, Meta: NewMeta(requestID)})
}

func write(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("failed to encode response", "error", err, "status", status)
	}
}
