package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/daap14/roleassign/internal/api/middleware"
	"github.com/daap14/roleassign/internal/api/response"
)

// Endpoints lists the public routes reported by GET /api/status.
var Endpoints = map[string]string{
	"role_assignment": "/api/role-assignment",
	"server_response": "/api/server-response",
	"api_status":      "/api/status",
	"user_roles":      "/api/user-roles",
	"available_roles": "/api/role-assignments/available-roles",
}

// Server-response probe actions.
const (
	ActionHealthCheck    = "health_check"
	ActionTestConnection = "test_connection"
	ActionGetServerInfo  = "get_server_info"
)

var availableActions = []string{ActionHealthCheck, ActionTestConnection, ActionGetServerInfo}

// ServerInfo describes the running process for the status endpoints.
type ServerInfo struct {
	Version     string
	Port        int
	Store       string
	Environment string
}

// StatusHandler serves the monitoring endpoints GET /api/status and
// GET, POST /api/server-response.
type StatusHandler struct {
	db   DBPinger
	info ServerInfo
}

// NewStatusHandler creates a new StatusHandler.
func NewStatusHandler(db DBPinger, info ServerInfo) *StatusHandler {
	return &StatusHandler{db: db, info: info}
}

type apiStatusData struct {
	Status         string            `json:"status"`
	APIStatus      string            `json:"api_status"`
	DatabaseStatus string            `json:"database_status"`
	Timestamp      string            `json:"timestamp"`
	Endpoints      map[string]string `json:"endpoints"`
}

// APIStatus handles GET /api/status.
func (h *StatusHandler) APIStatus(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	state, err := databaseState(r.Context(), h.db)
	if err != nil {
		slog.Warn("database ping failed", "error", err, "requestId", requestID)
		state = "error: " + err.Error()
	}

	response.Success(w, http.StatusOK, apiStatusData{
		Status:         "success",
		APIStatus:      "operational",
		DatabaseStatus: state,
		Timestamp:      now(),
		Endpoints:      Endpoints,
	}, requestID)
}

type probeData struct {
	Status     string          `json:"status"`
	Message    string          `json:"message"`
	Timestamp  string          `json:"timestamp"`
	Version    string          `json:"version,omitempty"`
	Database   string          `json:"database,omitempty"`
	API        string          `json:"api,omitempty"`
	Server     string          `json:"server,omitempty"`
	Port       string          `json:"port,omitempty"`
	ServerInfo *serverInfoData `json:"server_info,omitempty"`
}

type serverInfoData struct {
	Framework   string `json:"framework"`
	Version     string `json:"version"`
	Database    string `json:"database"`
	Port        string `json:"port"`
	Environment string `json:"environment"`
}

type probeRequest struct {
	Action string `json:"action"`
}

// Probe handles GET /api/server-response.
func (h *StatusHandler) Probe(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	response.Success(w, http.StatusOK, probeData{
		Status:    "success",
		Message:   "Server is running",
		Timestamp: now(),
		Version:   h.info.Version,
	}, requestID)
}

// ProbeAction handles POST /api/server-response.
func (h *StatusHandler) ProbeAction(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, 1<<16)
	var req probeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		response.Err(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", requestID)
		return
	}
	if req.Action == "" {
		req.Action = "unknown"
	}

	slog.Info("server response probe", "action", req.Action, "requestId", requestID)

	port := strconv.Itoa(h.info.Port)
	switch req.Action {
	case ActionHealthCheck:
		state, err := databaseState(r.Context(), h.db)
		if err != nil {
			slog.Warn("database ping failed", "error", err, "requestId", requestID)
		}
		response.Success(w, http.StatusOK, probeData{
			Status:    "success",
			Message:   "Server is healthy",
			Timestamp: now(),
			Database:  state,
			API:       "operational",
		}, requestID)
	case ActionTestConnection:
		response.Success(w, http.StatusOK, probeData{
			Status:    "success",
			Message:   "Connection test successful",
			Timestamp: now(),
			Server:    "roleassign",
			Port:      port,
			Database:  h.info.Store,
		}, requestID)
	case ActionGetServerInfo:
		response.Success(w, http.StatusOK, probeData{
			Status:    "success",
			Message:   "Server information retrieved",
			Timestamp: now(),
			ServerInfo: &serverInfoData{
				Framework:   "chi",
				Version:     h.info.Version,
				Database:    h.info.Store,
				Port:        port,
				Environment: h.info.Environment,
			},
		}, requestID)
	default:
		response.ErrWithDetails(w, http.StatusBadRequest, "UNKNOWN_ACTION", "Unknown action: "+req.Action,
			map[string][]string{"available_actions": availableActions}, requestID)
	}
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}
