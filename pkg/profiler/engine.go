package profiler

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/tablepulse-io/tablepulse-engine/pkg/adapters/datasource"
	"github.com/tablepulse-io/tablepulse-engine/pkg/models"
	"github.com/tablepulse-io/tablepulse-engine/pkg/workerpool"
)

// topValueLimit bounds the frequent-values list per column.
const topValueLimit = 5

// Config holds the metric engine's tuning knobs.
type Config struct {
	// FreshnessColumns is the ordered candidate list of timestamp column
	// names tried for freshness detection.
	FreshnessColumns []string

	// QueryTimeout bounds each pushdown query. A timeout counts as that
	// metric's failure, never as a table failure.
	QueryTimeout time.Duration

	// MaxConcurrency bounds concurrent metric queries within one table.
	MaxConcurrency int
}

// DefaultConfig returns the engine defaults applied to zero config fields.
func DefaultConfig() Config {
	return Config{
		FreshnessColumns: []string{"updated_at", "modified_at", "created_at", "timestamp", "date_modified", "last_updated"},
		QueryTimeout:     30 * time.Second,
		MaxConcurrency:   8,
	}
}

// Engine computes per-column quality metrics with aggregate pushdown
// queries. Row data never crosses the wire beyond the bounded top-K list.
type Engine struct {
	config Config
	pool   *workerpool.Pool
	logger *zap.Logger
}

// New creates a metric engine. Zero config fields fall back to defaults.
func New(config Config, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}

	defaults := DefaultConfig()
	if len(config.FreshnessColumns) == 0 {
		config.FreshnessColumns = defaults.FreshnessColumns
	}
	if config.QueryTimeout <= 0 {
		config.QueryTimeout = defaults.QueryTimeout
	}
	if config.MaxConcurrency < 1 {
		config.MaxConcurrency = defaults.MaxConcurrency
	}

	logger = logger.Named("profiler")
	return &Engine{
		config: config,
		pool:   workerpool.New(workerpool.Config{MaxConcurrent: config.MaxConcurrency}, logger),
		logger: logger,
	}
}

// Result carries everything the metric engine computed for one table.
// Scoring and profile assembly happen in the caller.
type Result struct {
	RowCount  int64
	Freshness *time.Time
	Columns   []models.ColumnMetric
	Skips     []ColumnSkip
}

type columnOutcome struct {
	metric *models.ColumnMetric
	skips  []ColumnSkip
}

// ProfileTable runs all metric queries for one table. Columns fan out on
// the bounded pool; output keeps the caller's column order regardless of
// completion order. A row-count failure fails the whole table; everything
// else degrades per the skip's stage.
func (e *Engine) ProfileTable(ctx context.Context, reader datasource.MetricReader, table string, columns []models.ColumnDescriptor) (*Result, error) {
	qctx, cancel := e.queryContext(ctx)
	rowCount, err := reader.RowCount(qctx, table)
	cancel()
	if err != nil {
		return nil, fmt.Errorf("row count for %s: %w", table, err)
	}

	items := make([]workerpool.WorkItem[columnOutcome], len(columns))
	for i, col := range columns {
		items[i] = workerpool.WorkItem[columnOutcome]{
			ID: col.Name,
			Execute: func(ctx context.Context) (columnOutcome, error) {
				return e.profileColumn(ctx, reader, table, col, rowCount), nil
			},
		}
	}
	completed := workerpool.Process(ctx, e.pool, items, nil)

	outcomes := make(map[string]columnOutcome, len(completed))
	failed := make(map[string]error)
	for _, r := range completed {
		if r.Err != nil {
			// Only cancellation surfaces here; metric failures are skips.
			failed[r.ID] = r.Err
			continue
		}
		outcomes[r.ID] = r.Result
	}

	result := &Result{RowCount: rowCount}
	for _, col := range columns {
		if err, ok := failed[col.Name]; ok {
			result.Skips = append(result.Skips, ColumnSkip{Column: col.Name, Stage: StageCompleteness, Err: err})
			continue
		}
		outcome := outcomes[col.Name]
		result.Skips = append(result.Skips, outcome.skips...)
		if outcome.metric != nil {
			result.Columns = append(result.Columns, *outcome.metric)
		}
	}

	names := make([]string, len(columns))
	for i, col := range columns {
		names[i] = col.Name
	}
	freshness, freshSkips := e.freshness(ctx, reader, table, names)
	result.Freshness = freshness
	result.Skips = append(result.Skips, freshSkips...)

	e.logSkips(table, result.Skips)
	return result, nil
}

// profileColumn computes one column's metrics. A completeness or
// distinctness failure drops the column; statistics failures only leave
// the affected statistic unset.
func (e *Engine) profileColumn(ctx context.Context, reader datasource.MetricReader, table string, col models.ColumnDescriptor, totalRows int64) columnOutcome {
	qctx, cancel := e.queryContext(ctx)
	nullCount, err := reader.NullCount(qctx, table, col.Name)
	cancel()
	if err != nil {
		return columnOutcome{skips: []ColumnSkip{{Column: col.Name, Stage: StageCompleteness, Err: err}}}
	}

	qctx, cancel = e.queryContext(ctx)
	distinctCount, err := reader.DistinctCount(qctx, table, col.Name)
	cancel()
	if err != nil {
		return columnOutcome{skips: []ColumnSkip{{Column: col.Name, Stage: StageDistinctness, Err: err}}}
	}

	metric := &models.ColumnMetric{
		ColumnName:      col.Name,
		CompletenessPct: pctOf(totalRows-nullCount, totalRows),
		DistinctnessPct: pctOf(distinctCount, totalRows),
		NullCount:       nullCount,
		DistinctCount:   distinctCount,
	}

	stats, skips := e.columnStatistics(ctx, reader, table, col, totalRows)
	metric.Statistics = stats
	return columnOutcome{metric: metric, skips: skips}
}

// pctOf returns 100*part/total rounded to 2 decimals. An empty table yields
// 0 rather than a division error on any dialect.
func pctOf(part, total int64) float64 {
	if total == 0 {
		return 0
	}
	return roundTo(float64(part)*100/float64(total), 2)
}

// queryContext derives the per-query timeout context.
func (e *Engine) queryContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, e.config.QueryTimeout)
}

func (e *Engine) logSkips(table string, skips []ColumnSkip) {
	for _, skip := range skips {
		if skip.DropsColumn() {
			e.logger.Warn("skipping column",
				zap.String("table", table),
				zap.String("column", skip.Column),
				zap.String("stage", string(skip.Stage)),
				zap.Error(skip.Err))
			continue
		}
		e.logger.Debug("statistic skipped",
			zap.String("table", table),
			zap.String("column", skip.Column),
			zap.String("stage", string(skip.Stage)),
			zap.Error(skip.Err))
	}
}
