package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/tablepulse-io/tablepulse-engine/pkg/services"
)

// ChangesHandler handles schema change detection HTTP requests.
type ChangesHandler struct {
	changes services.ChangeService
	logger  *zap.Logger
}

// NewChangesHandler creates a new changes handler.
func NewChangesHandler(changes services.ChangeService, logger *zap.Logger) *ChangesHandler {
	return &ChangesHandler{
		changes: changes,
		logger:  logger,
	}
}

// RegisterRoutes registers the changes handler's routes on the given mux.
func (h *ChangesHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/changes/{service}", h.Changes)
}

// Changes handles GET /api/changes/{service}.
func (h *ChangesHandler) Changes(w http.ResponseWriter, r *http.Request) {
	service := r.PathValue("service")

	report, err := h.changes.CheckChanges(r.Context(), service)
	if err != nil {
		h.logger.Warn("Change check failed",
			zap.String("service", service),
			zap.Error(err))
		if werr := ServiceError(w, err); werr != nil {
			h.logger.Error("Failed to write error response", zap.Error(werr))
		}
		return
	}

	if err := WriteJSON(w, http.StatusOK, report); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}
