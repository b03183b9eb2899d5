package models

import "time"

// Badge colors assigned to aggregate scores.
const (
	BadgeGreen    = "green"
	BadgeAmber    = "amber"
	BadgeRed      = "red"
	BadgeCritical = "critical"
)

// TopValue is one entry of a column's most-frequent-values list.
type TopValue struct {
	Value string  `json:"value"`
	Count int64   `json:"count"`
	Pct   float64 `json:"pct"` // percentage of total rows, 1 decimal
}

// ColumnStatistics holds the statistical analysis for one column.
// Numeric fields are populated only for numeric declared types; any
// statistic whose query failed is left unset.
type ColumnStatistics struct {
	ColumnName string     `json:"column_name"`
	DataType   string     `json:"data_type"`
	MinValue   any        `json:"min_value,omitempty"`
	MaxValue   any        `json:"max_value,omitempty"`
	Mean       *float64   `json:"mean,omitempty"`
	Median     *float64   `json:"median,omitempty"`
	StdDev     *float64   `json:"std_dev,omitempty"`
	TopValues  []TopValue `json:"top_values,omitempty"`
}

// ColumnMetric is the quality record for one successfully profiled column.
// Columns whose completeness/distinctness queries fail are omitted from
// the profile entirely rather than reported with zeroed values.
type ColumnMetric struct {
	ColumnName      string            `json:"column_name"`
	CompletenessPct float64           `json:"completeness_pct"`
	DistinctnessPct float64           `json:"distinctness_pct"`
	NullCount       int64             `json:"null_count"`
	DistinctCount   int64             `json:"distinct_count"`
	Statistics      *ColumnStatistics `json:"statistics,omitempty"`
}

// TableQualityProfile is the result of one profiling run for one table.
// It is immutable once constructed.
type TableQualityProfile struct {
	TableName              string         `json:"table_name"`
	RowCount               int64          `json:"row_count"`
	FreshnessTimestamp     *time.Time     `json:"freshness_timestamp,omitempty"`
	OverallCompletenessPct float64        `json:"overall_completeness_pct"`
	AggregateScore         float64        `json:"aggregate_score"`
	Grade                  string         `json:"grade"`
	BadgeColor             string         `json:"badge_color"`
	Columns                []ColumnMetric `json:"columns"`
	ProfiledAt             time.Time      `json:"profiled_at"`
}

// BatchProfileResult summarizes a whole-service profiling run.
// Tables that failed are counted but do not abort the batch.
type BatchProfileResult struct {
	ServiceName     string                 `json:"service_name"`
	TablesProfiled  int                    `json:"tables_profiled"`
	FailedTables    int                    `json:"failed_tables"`
	DurationSeconds float64                `json:"duration_seconds"`
	Profiles        []*TableQualityProfile `json:"profiles"`
}
