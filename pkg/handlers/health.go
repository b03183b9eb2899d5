package handlers

import (
	"net/http"
	"sort"

	"go.uber.org/zap"

	"github.com/tablepulse-io/tablepulse-engine/pkg/adapters/datasource"
	"github.com/tablepulse-io/tablepulse-engine/pkg/config"
)

// HealthResponse reports service liveness and which datasource adapters
// this build can profile.
type HealthResponse struct {
	Status   string                   `json:"status"`
	Version  string                   `json:"version"`
	Adapters []datasource.AdapterInfo `json:"adapters"`
}

// HealthHandler handles the health check endpoint.
type HealthHandler struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewHealthHandler creates a new HealthHandler with the given configuration.
func NewHealthHandler(cfg *config.Config, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{cfg: cfg, logger: logger}
}

// RegisterRoutes registers the health handler's routes on the given mux.
func (h *HealthHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", h.Health)
}

// Health handles GET /health requests.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	adapters := datasource.RegisteredAdapters()
	sort.Slice(adapters, func(i, j int) bool {
		return adapters[i].Type < adapters[j].Type
	})

	response := HealthResponse{
		Status:   "healthy",
		Version:  h.cfg.Version,
		Adapters: adapters,
	}
	if err := WriteJSON(w, http.StatusOK, response); err != nil {
		h.logger.Error("Failed to encode health response", zap.Error(err))
	}
}
