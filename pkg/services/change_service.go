package services

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/tablepulse-io/tablepulse-engine/pkg/models"
	"github.com/tablepulse-io/tablepulse-engine/pkg/repositories"
)

// ChangeService compares current row counts against the previous snapshot
// to tell whether a full re-profile is worth running.
type ChangeService interface {
	// CheckChanges counts rows in every table, diffs against the last
	// snapshot and replaces it. Tables whose count query fails are logged
	// and left out of the new snapshot.
	CheckChanges(ctx context.Context, serviceName string) (*models.ChangeReport, error)
}

type changeService struct {
	connections ConnectionService
	snapshots   repositories.SnapshotRepository
	logger      *zap.Logger
}

// NewChangeService creates a change detection service.
func NewChangeService(connections ConnectionService, snapshots repositories.SnapshotRepository, logger *zap.Logger) ChangeService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &changeService{
		connections: connections,
		snapshots:   snapshots,
		logger:      logger.Named("changes"),
	}
}

var _ ChangeService = (*changeService)(nil)

func (s *changeService) CheckChanges(ctx context.Context, serviceName string) (*models.ChangeReport, error) {
	adapter, err := s.connections.Adapter(serviceName)
	if err != nil {
		return nil, err
	}

	tables, err := adapter.ListTables(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tables for %q: %w", serviceName, err)
	}

	current := make(map[string]int64, len(tables))
	order := make([]string, 0, len(tables))
	for _, tbl := range tables {
		name := tbl.QualifiedName()
		count, err := adapter.RowCount(ctx, name)
		if err != nil {
			s.logger.Warn("row count failed",
				zap.String("service", serviceName),
				zap.String("table", name),
				zap.Error(err))
			continue
		}
		current[name] = count
		order = append(order, name)
	}

	previous, hadSnapshot, err := s.snapshots.Load(serviceName)
	if err != nil {
		return nil, fmt.Errorf("load snapshot for %q: %w", serviceName, err)
	}

	// New or count-changed tables in listing order, then tables that
	// disappeared since the snapshot, sorted.
	changed := []string{}
	for _, name := range order {
		prev, seen := previous[name]
		if !seen || prev != current[name] {
			changed = append(changed, name)
		}
	}
	removed := []string{}
	for name := range previous {
		if _, ok := current[name]; !ok {
			removed = append(removed, name)
		}
	}
	sort.Strings(removed)
	changed = append(changed, removed...)

	if err := s.snapshots.Save(serviceName, current); err != nil {
		return nil, fmt.Errorf("save snapshot for %q: %w", serviceName, err)
	}

	report := &models.ChangeReport{
		ServiceName:   serviceName,
		CurrentCounts: current,
		ChangedTables: changed,
		IsFirstCheck:  !hadSnapshot,
		HasChanges:    len(changed) > 0 && hadSnapshot,
	}
	s.logger.Debug("change check finished",
		zap.String("service", serviceName),
		zap.Int("tables", len(current)),
		zap.Int("changed", len(changed)),
		zap.Bool("first_check", report.IsFirstCheck))
	return report, nil
}
