package services

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tablepulse-io/tablepulse-engine/pkg/adapters/datasource"
	"github.com/tablepulse-io/tablepulse-engine/pkg/apperrors"
	"github.com/tablepulse-io/tablepulse-engine/pkg/models"
	"github.com/tablepulse-io/tablepulse-engine/pkg/profiler"
	"github.com/tablepulse-io/tablepulse-engine/pkg/repositories"
	"github.com/tablepulse-io/tablepulse-engine/pkg/scoring"
	"github.com/tablepulse-io/tablepulse-engine/pkg/workerpool"
)

// ProfileService orchestrates profiling runs: schema read, metric engine,
// scoring, profile assembly, caching and history recording.
type ProfileService interface {
	// ProfileTable profiles one table of a registered service.
	ProfileTable(ctx context.Context, serviceName, table string) (*models.TableQualityProfile, error)

	// ProfileAllTables profiles every table of a service. Tables fan out
	// on a bounded pool; a failing table is logged and counted, never
	// fails the batch.
	ProfileAllTables(ctx context.Context, serviceName string) (*models.BatchProfileResult, error)
}

type profileService struct {
	connections ConnectionService
	engine      *profiler.Engine
	store       repositories.ProfileStore
	history     HistoryService
	pool        *workerpool.Pool
	logger      *zap.Logger
}

// NewProfileService creates the profiling orchestrator.
// maxTableConcurrency bounds concurrent tables within one batch run.
func NewProfileService(
	connections ConnectionService,
	engine *profiler.Engine,
	store repositories.ProfileStore,
	history HistoryService,
	maxTableConcurrency int,
	logger *zap.Logger,
) ProfileService {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("profile")
	return &profileService{
		connections: connections,
		engine:      engine,
		store:       store,
		history:     history,
		pool:        workerpool.New(workerpool.Config{MaxConcurrent: maxTableConcurrency}, logger),
		logger:      logger,
	}
}

var _ ProfileService = (*profileService)(nil)

func (s *profileService) ProfileTable(ctx context.Context, serviceName, table string) (*models.TableQualityProfile, error) {
	adapter, err := s.connections.Adapter(serviceName)
	if err != nil {
		return nil, err
	}

	tables, err := adapter.ListTables(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tables for %q: %w", serviceName, err)
	}
	if !tableKnown(tables, table) {
		return nil, fmt.Errorf("%w: %q in service %q", apperrors.ErrTableNotFound, table, serviceName)
	}

	logger := s.runLogger(serviceName).With(zap.String("table", table))
	return s.profileOne(ctx, logger, adapter, serviceName, table)
}

func (s *profileService) ProfileAllTables(ctx context.Context, serviceName string) (*models.BatchProfileResult, error) {
	adapter, err := s.connections.Adapter(serviceName)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	tables, err := adapter.ListTables(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tables for %q: %w", serviceName, err)
	}

	logger := s.runLogger(serviceName)
	logger.Info("profiling all tables", zap.Int("tables", len(tables)))

	items := make([]workerpool.WorkItem[*models.TableQualityProfile], len(tables))
	for i, tbl := range tables {
		name := tbl.QualifiedName()
		items[i] = workerpool.WorkItem[*models.TableQualityProfile]{
			ID: name,
			Execute: func(ctx context.Context) (*models.TableQualityProfile, error) {
				return s.profileOne(ctx, logger.With(zap.String("table", name)), adapter, serviceName, name)
			},
		}
	}
	completed := workerpool.Process(ctx, s.pool, items, nil)

	byTable := make(map[string]*models.TableQualityProfile, len(completed))
	failed := 0
	for _, r := range completed {
		if r.Err != nil {
			failed++
			logger.Warn("table profiling failed",
				zap.String("table", r.ID),
				zap.Error(r.Err))
			continue
		}
		byTable[r.ID] = r.Result
	}

	// Response order follows the table listing, not completion order.
	profiles := make([]*models.TableQualityProfile, 0, len(byTable))
	for _, tbl := range tables {
		if p, ok := byTable[tbl.QualifiedName()]; ok {
			profiles = append(profiles, p)
		}
	}

	result := &models.BatchProfileResult{
		ServiceName:     serviceName,
		TablesProfiled:  len(profiles),
		FailedTables:    failed,
		DurationSeconds: roundSeconds(time.Since(start)),
		Profiles:        profiles,
	}
	logger.Info("batch profiling finished",
		zap.Int("profiled", result.TablesProfiled),
		zap.Int("failed", result.FailedTables),
		zap.Float64("seconds", result.DurationSeconds))
	return result, nil
}

// profileOne runs the pipeline for a single table the caller has already
// resolved: metrics, scoring, assembly, cache and history.
func (s *profileService) profileOne(ctx context.Context, logger *zap.Logger, adapter datasource.Adapter, serviceName, table string) (*models.TableQualityProfile, error) {
	start := time.Now()

	columns, err := adapter.TableColumns(ctx, table)
	if err != nil {
		return nil, fmt.Errorf("columns for %s: %w", table, err)
	}

	result, err := s.engine.ProfileTable(ctx, adapter, table, columns)
	if err != nil {
		return nil, fmt.Errorf("profile %s: %w", table, err)
	}

	var keyColumns []string
	for _, col := range columns {
		if col.IsKey() {
			keyColumns = append(keyColumns, col.Name)
		}
	}

	now := time.Now().UTC()
	components := scoring.ComputeComponents(result.Columns, keyColumns, result.Freshness, now)
	score := components.Score()

	profile := &models.TableQualityProfile{
		TableName:              table,
		RowCount:               result.RowCount,
		FreshnessTimestamp:     result.Freshness,
		OverallCompletenessPct: scoring.OverallCompleteness(result.Columns),
		AggregateScore:         score,
		Grade:                  scoring.Grade(score),
		BadgeColor:             scoring.Badge(score),
		Columns:                result.Columns,
		ProfiledAt:             now,
	}

	s.store.Put(serviceName, table, profile)

	if err := s.history.Record(ctx, serviceName, table, profile); err != nil {
		logger.Warn("recording history", zap.Error(err))
	}

	logger.Info("profiled table",
		zap.Int64("rows", result.RowCount),
		zap.Int("columns", len(result.Columns)),
		zap.Int("skips", len(result.Skips)),
		zap.Float64("score", score),
		zap.String("grade", profile.Grade),
		zap.Duration("elapsed", time.Since(start)))

	return profile, nil
}

// runLogger tags every log line of one run with a correlation id.
func (s *profileService) runLogger(serviceName string) *zap.Logger {
	return s.logger.With(
		zap.String("run_id", uuid.NewString()),
		zap.String("service", serviceName))
}

func tableKnown(tables []models.TableDescriptor, name string) bool {
	for _, tbl := range tables {
		if tbl.QualifiedName() == name {
			return true
		}
	}
	return false
}

// roundSeconds reports a duration in seconds with 2 decimals.
func roundSeconds(d time.Duration) float64 {
	return math.Round(d.Seconds()*100) / 100
}
