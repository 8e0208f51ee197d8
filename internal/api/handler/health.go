package handler

import (
	"context"
	"net/http"

	"github.com/daap14/roleassign/internal/api/middleware"
	"github.com/daap14/roleassign/internal/api/response"
)

// DBPinger checks database connectivity. It is nil for the in-memory store.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// Database connectivity states reported by the health and status endpoints.
const (
	dbConnected    = "connected"
	dbDisconnected = "disconnected"
	dbInMemory     = "in_memory"
)

func databaseState(ctx context.Context, db DBPinger) (string, error) {
	if db == nil {
		return dbInMemory, nil
	}
	if err := db.Ping(ctx); err != nil {
		return dbDisconnected, err
	}
	return dbConnected, nil
}

// HealthHandler handles the GET /health endpoint.
type HealthHandler struct {
	db      DBPinger
	version string
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(db DBPinger, version string) *HealthHandler {
	return &HealthHandler{
		db:      db,
		version: version,
	}
}

type healthData struct {
	Status   string `json:"status"`
	Version  string `json:"version"`
	Database string `json:"database"`
}

// ServeHTTP handles the health check request.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	status := "healthy"
	state, err := databaseState(r.Context(), h.db)
	if err != nil {
		status = "degraded"
	}

	response.Success(w, http.StatusOK, healthData{
		Status:   status,
		Version:  h.version,
		Database: state,
	}, requestID)
}
