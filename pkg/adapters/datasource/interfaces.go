package datasource

import (
	"context"
	"time"

	"github.com/tablepulse-io/tablepulse-engine/pkg/models"
)

// ConnectionTester tests database connectivity.
// Each implementation owns its connection and must be closed when done.
type ConnectionTester interface {
	// TestConnection verifies the database is reachable with valid credentials.
	// Returns nil if connection is healthy, error otherwise.
	TestConnection(ctx context.Context) error

	// Close releases the database connection.
	Close() error
}

// SchemaReader lists user tables and describes their columns.
type SchemaReader interface {
	// ListTables returns all user tables (excludes system schemas).
	// The Schema field is empty for tables in the dialect's default schema,
	// so QualifiedName yields plain names for the common case.
	ListTables(ctx context.Context) ([]models.TableDescriptor, error)

	// TableColumns returns column descriptors for a table, including
	// primary and foreign key participation. The table may be given as
	// "name" or "schema.name".
	TableColumns(ctx context.Context, table string) ([]models.ColumnDescriptor, error)
}

// ValueCount is one row of a grouped frequency query.
type ValueCount struct {
	Value any
	Count int64
}

// MetricReader runs per-column profiling queries, pushing aggregation
// into the database so no row data crosses the wire. Identifier quoting
// and value binding are dialect-specific and internal to each adapter.
// Methods returning pointers yield nil when the table has no usable rows.
type MetricReader interface {
	// RowCount returns the total number of rows in the table.
	RowCount(ctx context.Context, table string) (int64, error)

	// NullCount returns how many rows have a NULL in the column.
	NullCount(ctx context.Context, table, column string) (int64, error)

	// DistinctCount returns the number of distinct non-null values.
	DistinctCount(ctx context.Context, table, column string) (int64, error)

	// TopValues returns the most frequent non-null values with their
	// occurrence counts, ordered by count descending.
	TopValues(ctx context.Context, table, column string, limit int) ([]ValueCount, error)

	// MinMax returns the raw minimum and maximum values of the column.
	MinMax(ctx context.Context, table, column string) (min, max any, err error)

	// Mean returns the average of the column cast to a float.
	Mean(ctx context.Context, table, column string) (*float64, error)

	// VarianceAroundMean returns AVG((x - mean)^2) over non-null values,
	// with the mean bound as a query parameter rather than interpolated.
	VarianceAroundMean(ctx context.Context, table, column string, mean float64) (*float64, error)

	// Median returns the middle order statistic of the column, averaging
	// the two middle values for even row counts.
	Median(ctx context.Context, table, column string) (*float64, error)

	// MaxTimestamp returns the latest value of a timestamp column in UTC.
	MaxTimestamp(ctx context.Context, table, column string) (*time.Time, error)
}

// Adapter is the full per-dialect surface a profiling run needs.
type Adapter interface {
	ConnectionTester
	SchemaReader
	MetricReader

	// Dialect returns the canonical adapter type ("postgres", "mssql", "sqlite").
	Dialect() string
}
