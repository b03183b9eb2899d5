package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/tablepulse-io/tablepulse-engine/pkg/adapters/datasource"
	"github.com/tablepulse-io/tablepulse-engine/pkg/apperrors"
	"github.com/tablepulse-io/tablepulse-engine/pkg/models"
)

// stubAdapter implements datasource.Adapter with per-method hooks.
// Unset hooks return zero values so tests only wire what they assert.
type stubAdapter struct {
	mu     sync.Mutex
	closed bool

	dialect          string
	testConnectionFn func(ctx context.Context) error
	listTablesFn     func(ctx context.Context) ([]models.TableDescriptor, error)
	tableColumnsFn   func(ctx context.Context, table string) ([]models.ColumnDescriptor, error)
	rowCountFn       func(ctx context.Context, table string) (int64, error)
	nullCountFn      func(ctx context.Context, table, column string) (int64, error)
	distinctCountFn  func(ctx context.Context, table, column string) (int64, error)
	maxTimestampFn   func(ctx context.Context, table, column string) (*time.Time, error)
}

var _ datasource.Adapter = (*stubAdapter)(nil)

func (a *stubAdapter) Dialect() string {
	if a.dialect == "" {
		return "stub"
	}
	return a.dialect
}

func (a *stubAdapter) TestConnection(ctx context.Context) error {
	if a.testConnectionFn != nil {
		return a.testConnectionFn(ctx)
	}
	return nil
}

func (a *stubAdapter) Close() error {
	a.mu.Lock()
	a.closed = true
	a.mu.Unlock()
	return nil
}

func (a *stubAdapter) isClosed() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.closed
}

func (a *stubAdapter) ListTables(ctx context.Context) ([]models.TableDescriptor, error) {
	if a.listTablesFn != nil {
		return a.listTablesFn(ctx)
	}
	return nil, nil
}

func (a *stubAdapter) TableColumns(ctx context.Context, table string) ([]models.ColumnDescriptor, error) {
	if a.tableColumnsFn != nil {
		return a.tableColumnsFn(ctx, table)
	}
	return nil, nil
}

func (a *stubAdapter) RowCount(ctx context.Context, table string) (int64, error) {
	if a.rowCountFn != nil {
		return a.rowCountFn(ctx, table)
	}
	return 0, nil
}

func (a *stubAdapter) NullCount(ctx context.Context, table, column string) (int64, error) {
	if a.nullCountFn != nil {
		return a.nullCountFn(ctx, table, column)
	}
	return 0, nil
}

func (a *stubAdapter) DistinctCount(ctx context.Context, table, column string) (int64, error) {
	if a.distinctCountFn != nil {
		return a.distinctCountFn(ctx, table, column)
	}
	return 0, nil
}

func (a *stubAdapter) TopValues(context.Context, string, string, int) ([]datasource.ValueCount, error) {
	return nil, nil
}

func (a *stubAdapter) MinMax(context.Context, string, string) (any, any, error) {
	return nil, nil, nil
}

func (a *stubAdapter) Mean(context.Context, string, string) (*float64, error) {
	return nil, nil
}

func (a *stubAdapter) VarianceAroundMean(context.Context, string, string, float64) (*float64, error) {
	return nil, nil
}

func (a *stubAdapter) Median(context.Context, string, string) (*float64, error) {
	return nil, nil
}

func (a *stubAdapter) MaxTimestamp(ctx context.Context, table, column string) (*time.Time, error) {
	if a.maxTimestampFn != nil {
		return a.maxTimestampFn(ctx, table, column)
	}
	return nil, nil
}

// stubConnections serves pre-wired adapters without touching the registry.
type stubConnections struct {
	adapters map[string]datasource.Adapter
}

var _ ConnectionService = (*stubConnections)(nil)

func newStubConnections() *stubConnections {
	return &stubConnections{adapters: make(map[string]datasource.Adapter)}
}

func (s *stubConnections) add(name string, adapter datasource.Adapter) *stubConnections {
	s.adapters[name] = adapter
	return s
}

func (s *stubConnections) Register(context.Context, string, string, map[string]any) (*models.ConnectionInfo, error) {
	return nil, errors.New("not implemented")
}

func (s *stubConnections) Adapter(serviceName string) (datasource.Adapter, error) {
	adapter, ok := s.adapters[serviceName]
	if !ok {
		return nil, fmt.Errorf("%w: %q", apperrors.ErrServiceNotFound, serviceName)
	}
	return adapter, nil
}

func (s *stubConnections) List() []models.ConnectionInfo { return nil }

func (s *stubConnections) Remove(string) error { return nil }

func (s *stubConnections) Close() {}

// stubHistory records history calls and can inject failures.
type stubHistory struct {
	mu      sync.Mutex
	records []string
	err     error
}

var _ HistoryService = (*stubHistory)(nil)

func (h *stubHistory) Record(_ context.Context, serviceName, table string, _ *models.TableQualityProfile) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.records = append(h.records, serviceName+"/"+table)
	return h.err
}

func (h *stubHistory) recorded() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.records...)
}

func (h *stubHistory) AlertsForService(string) (*models.ServiceAlerts, error) {
	return nil, errors.New("not implemented")
}
