package services

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/tablepulse-io/tablepulse-engine/pkg/models"
	"github.com/tablepulse-io/tablepulse-engine/pkg/repositories"
	"github.com/tablepulse-io/tablepulse-engine/pkg/retry"
)

// Alert thresholds in score points, compared against the drop between the
// two most recent runs of one table.
const (
	alertDropThreshold    = 5.0
	criticalDropThreshold = 15.0
)

// HistoryService records profiling outcomes per (service, table) key and
// derives regression alerts from the stored series.
type HistoryService interface {
	// Record appends one run to the series, trimming to the retention cap.
	// Writes to the same key are serialized.
	Record(ctx context.Context, serviceName, table string, profile *models.TableQualityProfile) error

	// AlertsForService scans every table series recorded for a service and
	// flags regressions between the two most recent runs. Alerts are
	// derived fresh on every call, never stored.
	AlertsForService(serviceName string) (*models.ServiceAlerts, error)
}

type historyService struct {
	repo     repositories.HistoryRepository
	retryCfg *retry.Config
	logger   *zap.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewHistoryService creates a history service over the given repository.
func NewHistoryService(repo repositories.HistoryRepository, logger *zap.Logger) HistoryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &historyService{
		repo:     repo,
		retryCfg: retry.DefaultConfig(),
		logger:   logger.Named("history"),
		locks:    make(map[string]*sync.Mutex),
	}
}

var _ HistoryService = (*historyService)(nil)

func (s *historyService) Record(ctx context.Context, serviceName, table string, profile *models.TableQualityProfile) error {
	lock := s.keyLock(serviceName + "\x00" + table)
	lock.Lock()
	defer lock.Unlock()

	entries, err := s.repo.Load(serviceName, table)
	if err != nil {
		// An unreadable series must not lose the new run.
		s.logger.Warn("loading history, starting fresh",
			zap.String("service", serviceName),
			zap.String("table", table),
			zap.Error(err))
		entries = nil
	}

	entries = append(entries, models.HistoryEntry{
		ProfiledAt: profile.ProfiledAt,
		Score:      profile.AggregateScore,
		Grade:      profile.Grade,
	})
	if len(entries) > models.MaxHistoryEntries {
		entries = entries[len(entries)-models.MaxHistoryEntries:]
	}

	if err := retry.Do(ctx, s.retryCfg, func() error {
		return s.repo.Save(serviceName, table, entries)
	}); err != nil {
		return fmt.Errorf("save history for %s/%s: %w", serviceName, table, err)
	}
	return nil
}

func (s *historyService) AlertsForService(serviceName string) (*models.ServiceAlerts, error) {
	series, err := s.repo.LoadAll(serviceName)
	if err != nil {
		return nil, fmt.Errorf("load history for %q: %w", serviceName, err)
	}

	result := &models.ServiceAlerts{
		ServiceName: serviceName,
		Alerts:      []models.Alert{},
		Trend:       series,
	}

	for table, entries := range series {
		if len(entries) < 2 {
			continue
		}
		latest := entries[len(entries)-1]
		previous := entries[len(entries)-2]

		drop := previous.Score - latest.Score
		if drop < alertDropThreshold {
			continue
		}

		severity := models.SeverityWarning
		if drop >= criticalDropThreshold {
			severity = models.SeverityCritical
		}

		result.Alerts = append(result.Alerts, models.Alert{
			Table:         table,
			Severity:      severity,
			Message:       fmt.Sprintf("Quality score dropped %.1f points (%s → %s)", drop, previous.Grade, latest.Grade),
			PreviousScore: previous.Score,
			CurrentScore:  latest.Score,
			ProfiledAt:    latest.ProfiledAt,
		})
	}

	// Largest regression first; table name breaks ties for stable output.
	sort.Slice(result.Alerts, func(i, j int) bool {
		if result.Alerts[i].Drop() != result.Alerts[j].Drop() {
			return result.Alerts[i].Drop() > result.Alerts[j].Drop()
		}
		return result.Alerts[i].Table < result.Alerts[j].Table
	})
	result.AlertCount = len(result.Alerts)
	return result, nil
}

func (s *historyService) keyLock(key string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	lock, ok := s.locks[key]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[key] = lock
	}
	return lock
}
