package profiler

import (
	"context"
	"time"

	"github.com/tablepulse-io/tablepulse-engine/pkg/adapters/datasource"
)

// freshness tries the configured candidate column names in order against
// the table's actual columns. The first candidate whose MAX() yields a
// usable timestamp wins; a NULL or failing candidate falls through to the
// next one. No match is "no signal", never an error.
func (e *Engine) freshness(ctx context.Context, reader datasource.MetricReader, table string, columnNames []string) (*time.Time, []ColumnSkip) {
	present := make(map[string]bool, len(columnNames))
	for _, name := range columnNames {
		present[name] = true
	}

	var skips []ColumnSkip
	for _, candidate := range e.config.FreshnessColumns {
		if !present[candidate] {
			continue
		}

		qctx, cancel := e.queryContext(ctx)
		ts, err := reader.MaxTimestamp(qctx, table, candidate)
		cancel()
		if err != nil {
			skips = append(skips, ColumnSkip{Column: candidate, Stage: StageFreshness, Err: err})
			continue
		}
		if ts != nil {
			return ts, skips
		}
	}

	return nil, skips
}
