package handler

import (
	"log/slog"
	"net/http"
	"sync"

	"sigs.k8s.io/yaml"

	"github.com/daap14/roleassign/internal/api/middleware"
	"github.com/daap14/roleassign/internal/api/response"
)

// OpenAPIHandler serves the embedded OpenAPI document as JSON.
type OpenAPIHandler struct {
	rawYAML    []byte
	renderOnce sync.Once
	document   []byte
	renderErr  error
}

// NewOpenAPIHandler creates a handler that renders yamlDoc as JSON on first request.
func NewOpenAPIHandler(yamlDoc []byte) *OpenAPIHandler {
	return &OpenAPIHandler{rawYAML: yamlDoc}
}

// ServeHTTP converts the YAML document to JSON once and writes the cached result.
func (h *OpenAPIHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.renderOnce.Do(func() {
		h.document, h.renderErr = yaml.YAMLToJSON(h.rawYAML)
	})

	if h.renderErr != nil {
		slog.Error("failed to render OpenAPI document", "error", h.renderErr)
		requestID := middleware.GetRequestID(r.Context())
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to render OpenAPI document", requestID)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "public, max-age=300")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(h.document); err != nil {
		slog.Error("failed to write OpenAPI document", "error", err)
	}
}
