package profiler

import (
	"context"
	"fmt"
	"math"

	"github.com/tablepulse-io/tablepulse-engine/pkg/adapters/datasource"
	"github.com/tablepulse-io/tablepulse-engine/pkg/models"
)

// columnStatistics computes top values for every column and the numeric
// summary (min/max/mean/std-dev/median) for numeric declared types. Each
// sub-query failure is recorded as a skip and leaves that statistic unset.
func (e *Engine) columnStatistics(ctx context.Context, reader datasource.MetricReader, table string, col models.ColumnDescriptor, totalRows int64) (*models.ColumnStatistics, []ColumnSkip) {
	stats := &models.ColumnStatistics{
		ColumnName: col.Name,
		DataType:   baseType(col.DataType),
	}
	var skips []ColumnSkip

	qctx, cancel := e.queryContext(ctx)
	top, err := reader.TopValues(qctx, table, col.Name, topValueLimit)
	cancel()
	if err != nil {
		skips = append(skips, ColumnSkip{Column: col.Name, Stage: StageTopValues, Err: err})
	} else {
		stats.TopValues = topValues(top, totalRows)
	}

	if !isNumericType(col.DataType) {
		return stats, skips
	}

	qctx, cancel = e.queryContext(ctx)
	minVal, maxVal, err := reader.MinMax(qctx, table, col.Name)
	cancel()
	if err != nil {
		skips = append(skips, ColumnSkip{Column: col.Name, Stage: StageMinMax, Err: err})
	} else {
		stats.MinValue = minVal
		stats.MaxValue = maxVal
	}

	qctx, cancel = e.queryContext(ctx)
	mean, err := reader.Mean(qctx, table, col.Name)
	cancel()
	switch {
	case err != nil:
		skips = append(skips, ColumnSkip{Column: col.Name, Stage: StageMean, Err: err})
	case mean != nil:
		rounded := roundTo(*mean, 4)
		stats.Mean = &rounded
	}

	// Two-pass std-dev: the rounded mean binds as a query parameter, so the
	// variance is computed around exactly the mean we report.
	if stats.Mean != nil {
		qctx, cancel = e.queryContext(ctx)
		variance, err := reader.VarianceAroundMean(qctx, table, col.Name, *stats.Mean)
		cancel()
		switch {
		case err != nil:
			skips = append(skips, ColumnSkip{Column: col.Name, Stage: StageStdDev, Err: err})
		case variance != nil && *variance >= 0:
			stdDev := roundTo(math.Sqrt(*variance), 4)
			stats.StdDev = &stdDev
		}
	}

	qctx, cancel = e.queryContext(ctx)
	median, err := reader.Median(qctx, table, col.Name)
	cancel()
	switch {
	case err != nil:
		skips = append(skips, ColumnSkip{Column: col.Name, Stage: StageMedian, Err: err})
	case median != nil:
		rounded := roundTo(*median, 4)
		stats.Median = &rounded
	}

	return stats, skips
}

// topValues converts raw value counts into the wire shape. Percentages are
// of total table rows, one decimal, so they share the completeness
// denominator.
func topValues(counts []datasource.ValueCount, totalRows int64) []models.TopValue {
	if len(counts) == 0 {
		return nil
	}

	total := totalRows
	if total == 0 {
		total = 1
	}

	out := make([]models.TopValue, len(counts))
	for i, vc := range counts {
		out[i] = models.TopValue{
			Value: stringifyValue(vc.Value),
			Count: vc.Count,
			Pct:   roundTo(float64(vc.Count)*100/float64(total), 1),
		}
	}
	return out
}

// stringifyValue renders a raw driver value for the top-values list.
func stringifyValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []byte:
		return string(t)
	default:
		return fmt.Sprintf("%v", t)
	}
}
