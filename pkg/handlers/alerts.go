package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/tablepulse-io/tablepulse-engine/pkg/services"
)

// AlertsHandler handles quality alert HTTP requests.
type AlertsHandler struct {
	history services.HistoryService
	logger  *zap.Logger
}

// NewAlertsHandler creates a new alerts handler.
func NewAlertsHandler(history services.HistoryService, logger *zap.Logger) *AlertsHandler {
	return &AlertsHandler{
		history: history,
		logger:  logger,
	}
}

// RegisterRoutes registers the alerts handler's routes on the given mux.
func (h *AlertsHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/alerts/{service}", h.Alerts)
}

// Alerts handles GET /api/alerts/{service}. A service with no recorded
// history gets an empty report, not a 404, so alerts stay readable after
// a connection has been removed.
func (h *AlertsHandler) Alerts(w http.ResponseWriter, r *http.Request) {
	service := r.PathValue("service")

	alerts, err := h.history.AlertsForService(service)
	if err != nil {
		h.logger.Error("Failed to load alerts",
			zap.String("service", service),
			zap.Error(err))
		if werr := ServiceError(w, err); werr != nil {
			h.logger.Error("Failed to write error response", zap.Error(werr))
		}
		return
	}

	if err := WriteJSON(w, http.StatusOK, alerts); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}
