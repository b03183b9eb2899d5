package handlers

import (
	"context"
	"time"

	"github.com/tablepulse-io/tablepulse-engine/pkg/adapters/datasource"
	"github.com/tablepulse-io/tablepulse-engine/pkg/models"
)

// mockConnectionService is a configurable mock for handler tests.
type mockConnectionService struct {
	info        *models.ConnectionInfo
	connections []models.ConnectionInfo
	err         error

	registered []string
	removed    []string
}

func (m *mockConnectionService) Register(ctx context.Context, serviceName, dsType string, config map[string]any) (*models.ConnectionInfo, error) {
	m.registered = append(m.registered, serviceName)
	if m.err != nil {
		return nil, m.err
	}
	if m.info != nil {
		return m.info, nil
	}
	return &models.ConnectionInfo{
		ServiceName: serviceName,
		Type:        dsType,
		Status:      "connected",
	}, nil
}

func (m *mockConnectionService) Adapter(serviceName string) (datasource.Adapter, error) {
	return nil, m.err
}

func (m *mockConnectionService) List() []models.ConnectionInfo {
	return m.connections
}

func (m *mockConnectionService) Remove(serviceName string) error {
	if m.err != nil {
		return m.err
	}
	m.removed = append(m.removed, serviceName)
	return nil
}

func (m *mockConnectionService) Close() {}

// mockProfileService is a configurable mock for handler tests.
type mockProfileService struct {
	profile *models.TableQualityProfile
	batch   *models.BatchProfileResult
	err     error

	profiledTables []string
}

func (m *mockProfileService) ProfileTable(ctx context.Context, serviceName, table string) (*models.TableQualityProfile, error) {
	m.profiledTables = append(m.profiledTables, serviceName+"/"+table)
	if m.err != nil {
		return nil, m.err
	}
	if m.profile != nil {
		return m.profile, nil
	}
	return &models.TableQualityProfile{
		TableName:      table,
		RowCount:       100,
		AggregateScore: 90.0,
		Grade:          "A",
		BadgeColor:     "green",
		Columns:        []models.ColumnMetric{},
		ProfiledAt:     time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}, nil
}

func (m *mockProfileService) ProfileAllTables(ctx context.Context, serviceName string) (*models.BatchProfileResult, error) {
	m.profiledTables = append(m.profiledTables, serviceName+"/*")
	if m.err != nil {
		return nil, m.err
	}
	if m.batch != nil {
		return m.batch, nil
	}
	return &models.BatchProfileResult{
		ServiceName:    serviceName,
		TablesProfiled: 2,
		FailedTables:   0,
		Profiles:       []*models.TableQualityProfile{},
	}, nil
}

// mockHistoryService is a configurable mock for handler tests.
type mockHistoryService struct {
	alerts *models.ServiceAlerts
	err    error
}

func (m *mockHistoryService) Record(ctx context.Context, serviceName, table string, profile *models.TableQualityProfile) error {
	return m.err
}

func (m *mockHistoryService) AlertsForService(serviceName string) (*models.ServiceAlerts, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.alerts != nil {
		return m.alerts, nil
	}
	return &models.ServiceAlerts{
		ServiceName: serviceName,
		AlertCount:  0,
		Alerts:      []models.Alert{},
		Trend:       map[string][]models.HistoryEntry{},
	}, nil
}

// mockChangeService is a configurable mock for handler tests.
type mockChangeService struct {
	report *models.ChangeReport
	err    error
}

func (m *mockChangeService) CheckChanges(ctx context.Context, serviceName string) (*models.ChangeReport, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.report != nil {
		return m.report, nil
	}
	return &models.ChangeReport{
		ServiceName:   serviceName,
		CurrentCounts: map[string]int64{},
		ChangedTables: []string{},
	}, nil
}
