package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/tablepulse-io/tablepulse-engine/pkg/apperrors"
	"github.com/tablepulse-io/tablepulse-engine/pkg/services"
)

// ProfileHandler handles profiling HTTP requests.
type ProfileHandler struct {
	profiles services.ProfileService
	logger   *zap.Logger
}

// NewProfileHandler creates a new profile handler.
func NewProfileHandler(profiles services.ProfileService, logger *zap.Logger) *ProfileHandler {
	return &ProfileHandler{
		profiles: profiles,
		logger:   logger,
	}
}

// RegisterRoutes registers the profile handler's routes on the given mux.
func (h *ProfileHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/profile", h.Profile)
}

type profileRequest struct {
	ServiceName string `json:"service_name"`
	TableName   string `json:"table_name"`
}

// Profile handles POST /api/profile. An empty table_name profiles every
// table the datasource exposes.
func (h *ProfileHandler) Profile(w http.ResponseWriter, r *http.Request) {
	var req profileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid_request", "request body must be valid JSON")
		return
	}
	if req.ServiceName == "" {
		h.writeError(w, http.StatusBadRequest, "invalid_request", "service_name is required")
		return
	}

	var (
		result any
		err    error
	)
	if req.TableName == "" {
		result, err = h.profiles.ProfileAllTables(r.Context(), req.ServiceName)
	} else {
		result, err = h.profiles.ProfileTable(r.Context(), req.ServiceName, req.TableName)
	}
	if err != nil {
		h.logger.Warn("Profiling failed",
			zap.String("service", req.ServiceName),
			zap.String("table", req.TableName),
			zap.Error(err))
		switch {
		case errors.Is(err, apperrors.ErrServiceNotFound), errors.Is(err, apperrors.ErrTableNotFound):
			if werr := ServiceError(w, err); werr != nil {
				h.logger.Error("Failed to write error response", zap.Error(werr))
			}
		default:
			h.writeError(w, http.StatusInternalServerError, "profiling_failed", err.Error())
		}
		return
	}

	if err := WriteJSON(w, http.StatusOK, result); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

func (h *ProfileHandler) writeError(w http.ResponseWriter, status int, code, message string) {
	if err := ErrorResponse(w, status, code, message); err != nil {
		h.logger.Error("Failed to write error response", zap.Error(err))
	}
}
