package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/tablepulse-io/tablepulse-engine/pkg/apperrors"
)

// ErrorResponse writes a JSON error response and returns any encoding error.
func ErrorResponse(w http.ResponseWriter, statusCode int, errorCode, message string) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(map[string]string{
		"error":   errorCode,
		"message": message,
	})
}

// WriteJSON writes a JSON response and returns any encoding error.
func WriteJSON(w http.ResponseWriter, statusCode int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	if statusCode != http.StatusOK {
		w.WriteHeader(statusCode)
	}
	return json.NewEncoder(w).Encode(data)
}

// ServiceError writes the response for a service-layer error, mapping the
// sentinel errors onto HTTP statuses. Anything unrecognized is a 500.
func ServiceError(w http.ResponseWriter, err error) error {
	switch {
	case errors.Is(err, apperrors.ErrServiceNotFound):
		return ErrorResponse(w, http.StatusNotFound, "service_not_found", err.Error())
	case errors.Is(err, apperrors.ErrTableNotFound):
		return ErrorResponse(w, http.StatusNotFound, "table_not_found", err.Error())
	case errors.Is(err, apperrors.ErrServiceExists):
		return ErrorResponse(w, http.StatusConflict, "service_exists", err.Error())
	case errors.Is(err, apperrors.ErrAdapterNotRegistered):
		return ErrorResponse(w, http.StatusBadRequest, "unknown_datasource_type", err.Error())
	default:
		return ErrorResponse(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}
