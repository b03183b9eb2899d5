package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tablepulse-io/tablepulse-engine/pkg/models"
)

func TestAlertsHandler_WithAlerts(t *testing.T) {
	profiledAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc := &mockHistoryService{
		alerts: &models.ServiceAlerts{
			ServiceName: "orders-api",
			AlertCount:  1,
			Alerts: []models.Alert{
				{
					Table:         "orders",
					Severity:      models.SeverityWarning,
					Message:       "Quality score dropped 12.0 points (A → B)",
					PreviousScore: 95.0,
					CurrentScore:  83.0,
					ProfiledAt:    profiledAt,
				},
			},
			Trend: map[string][]models.HistoryEntry{
				"orders": {
					{ProfiledAt: profiledAt.Add(-24 * time.Hour), Score: 95.0, Grade: "A"},
					{ProfiledAt: profiledAt, Score: 83.0, Grade: "B"},
				},
			},
		},
	}
	handler := NewAlertsHandler(svc, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/api/alerts/orders-api", nil)
	req.SetPathValue("service", "orders-api")
	rec := httptest.NewRecorder()

	handler.Alerts(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp models.ServiceAlerts
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "orders-api", resp.ServiceName)
	assert.Equal(t, 1, resp.AlertCount)
	require.Len(t, resp.Alerts, 1)
	assert.Equal(t, "orders", resp.Alerts[0].Table)
	assert.Equal(t, models.SeverityWarning, resp.Alerts[0].Severity)
	assert.Len(t, resp.Trend["orders"], 2)
}

func TestAlertsHandler_NoHistoryIsEmptyReport(t *testing.T) {
	handler := NewAlertsHandler(&mockHistoryService{}, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/api/alerts/never-profiled", nil)
	req.SetPathValue("service", "never-profiled")
	rec := httptest.NewRecorder()

	handler.Alerts(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp models.ServiceAlerts
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "never-profiled", resp.ServiceName)
	assert.Zero(t, resp.AlertCount)
	assert.Empty(t, resp.Alerts)
}

func TestAlertsHandler_HistoryReadFailure(t *testing.T) {
	svc := &mockHistoryService{
		err: errors.New("read history dir: permission denied"),
	}
	handler := NewAlertsHandler(svc, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/api/alerts/orders-api", nil)
	req.SetPathValue("service", "orders-api")
	rec := httptest.NewRecorder()

	handler.Alerts(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "internal_error", decodeError(t, rec)["error"])
}
