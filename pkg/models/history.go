package models

import "time"

// Alert severities.
const (
	SeverityWarning  = "warning"
	SeverityCritical = "critical"
)

// MaxHistoryEntries caps how many runs are retained per (service, table) key.
// The oldest entry is evicted when the cap is exceeded.
const MaxHistoryEntries = 50

// HistoryEntry records the outcome of one past profiling run.
type HistoryEntry struct {
	ProfiledAt time.Time `json:"profiled_at"`
	Score      float64   `json:"score"`
	Grade      string    `json:"grade"`
}

// Alert flags a quality-score regression between the two most recent runs
// of one table. Alerts are derived on demand and never stored.
type Alert struct {
	Table         string    `json:"table"`
	Severity      string    `json:"severity"`
	Message       string    `json:"message"`
	PreviousScore float64   `json:"previous_score"`
	CurrentScore  float64   `json:"current_score"`
	ProfiledAt    time.Time `json:"profiled_at"`
}

// Drop returns how many points the score fell between the two runs.
func (a Alert) Drop() float64 {
	return a.PreviousScore - a.CurrentScore
}

// ServiceAlerts is the alerting view for one service: every regression
// across its tables plus the raw trend series for charting.
type ServiceAlerts struct {
	ServiceName string                    `json:"service_name"`
	AlertCount  int                       `json:"alert_count"`
	Alerts      []Alert                   `json:"alerts"`
	Trend       map[string][]HistoryEntry `json:"trend"`
}
