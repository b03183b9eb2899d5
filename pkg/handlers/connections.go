package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/tablepulse-io/tablepulse-engine/pkg/apperrors"
	"github.com/tablepulse-io/tablepulse-engine/pkg/logging"
	"github.com/tablepulse-io/tablepulse-engine/pkg/models"
	"github.com/tablepulse-io/tablepulse-engine/pkg/services"
)

// ConnectionsHandler handles datasource registration HTTP requests.
type ConnectionsHandler struct {
	connections services.ConnectionService
	logger      *zap.Logger
}

// NewConnectionsHandler creates a new connections handler.
func NewConnectionsHandler(connections services.ConnectionService, logger *zap.Logger) *ConnectionsHandler {
	return &ConnectionsHandler{
		connections: connections,
		logger:      logger,
	}
}

// RegisterRoutes registers the connection handler's routes on the given mux.
func (h *ConnectionsHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/connections", h.Create)
	mux.HandleFunc("GET /api/connections", h.List)
	mux.HandleFunc("DELETE /api/connections/{service}", h.Delete)
}

type createConnectionRequest struct {
	ServiceName string         `json:"service_name"`
	Type        string         `json:"type"`
	Config      map[string]any `json:"config"`
}

type connectionListResponse struct {
	Connections []models.ConnectionInfo `json:"connections"`
}

// Create handles POST /api/connections.
func (h *ConnectionsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createConnectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid_request", "request body must be valid JSON")
		return
	}
	if req.ServiceName == "" || req.Type == "" {
		h.writeError(w, http.StatusBadRequest, "invalid_request", "service_name and type are required")
		return
	}

	info, err := h.connections.Register(r.Context(), req.ServiceName, req.Type, req.Config)
	if err != nil {
		// Registration errors can echo DSN fragments, so scrub before logging.
		h.logger.Warn("Connection registration failed",
			zap.String("service", req.ServiceName),
			zap.String("type", req.Type),
			zap.String("error", logging.SanitizeError(err)))
		switch {
		case errors.Is(err, apperrors.ErrServiceExists):
			h.writeError(w, http.StatusConflict, "service_exists", err.Error())
		case errors.Is(err, apperrors.ErrAdapterNotRegistered):
			h.writeError(w, http.StatusBadRequest, "unknown_datasource_type", err.Error())
		default:
			// Unreachable hosts and bad credentials are client-side config
			// problems, not server faults.
			h.writeError(w, http.StatusBadRequest, "connection_failed", err.Error())
		}
		return
	}

	if err := WriteJSON(w, http.StatusCreated, info); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// List handles GET /api/connections.
func (h *ConnectionsHandler) List(w http.ResponseWriter, r *http.Request) {
	response := connectionListResponse{Connections: h.connections.List()}
	if response.Connections == nil {
		response.Connections = []models.ConnectionInfo{}
	}
	if err := WriteJSON(w, http.StatusOK, response); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Delete handles DELETE /api/connections/{service}.
func (h *ConnectionsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	service := r.PathValue("service")

	if err := h.connections.Remove(service); err != nil {
		if err := ServiceError(w, err); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	message := map[string]string{
		"message": fmt.Sprintf("Service '%s' removed successfully.", service),
	}
	if err := WriteJSON(w, http.StatusOK, message); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

func (h *ConnectionsHandler) writeError(w http.ResponseWriter, status int, code, message string) {
	if err := ErrorResponse(w, status, code, message); err != nil {
		h.logger.Error("Failed to write error response", zap.Error(err))
	}
}
