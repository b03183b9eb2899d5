//go:build mssql || all_adapters

package mssql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/tablepulse-io/tablepulse-engine/pkg/adapters/datasource"
)

// RowCount returns the total number of rows in the table.
func (a *Adapter) RowCount(ctx context.Context, table string) (int64, error) {
	query := fmt.Sprintf("SELECT COUNT_BIG(*) FROM %s", tableRef(table))

	var count int64
	if err := a.db.QueryRowContext(ctx, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("count rows: %w", err)
	}
	return count, nil
}

// NullCount returns how many rows have a NULL in the column.
func (a *Adapter) NullCount(ctx context.Context, table, column string) (int64, error) {
	query := fmt.Sprintf("SELECT COUNT_BIG(*) FROM %s WHERE %s IS NULL", tableRef(table), columnRef(column))

	var count int64
	if err := a.db.QueryRowContext(ctx, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("count nulls: %w", err)
	}
	return count, nil
}

// DistinctCount returns the number of distinct non-null values.
func (a *Adapter) DistinctCount(ctx context.Context, table, column string) (int64, error) {
	query := fmt.Sprintf("SELECT COUNT_BIG(DISTINCT %s) FROM %s", columnRef(column), tableRef(table))

	var count int64
	if err := a.db.QueryRowContext(ctx, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("count distinct: %w", err)
	}
	return count, nil
}

// TopValues returns the most frequent non-null values with occurrence counts.
func (a *Adapter) TopValues(ctx context.Context, table, column string, limit int) ([]datasource.ValueCount, error) {
	col := columnRef(column)
	query := fmt.Sprintf(`
		SELECT TOP (@p1) %s AS value, COUNT_BIG(*) AS cnt
		FROM %s
		WHERE %s IS NOT NULL
		GROUP BY %s
		ORDER BY cnt DESC
	`, col, tableRef(table), col, col)

	rows, err := a.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query top values: %w", err)
	}
	defer rows.Close()

	var values []datasource.ValueCount
	for rows.Next() {
		var vc datasource.ValueCount
		if err := rows.Scan(&vc.Value, &vc.Count); err != nil {
			return nil, fmt.Errorf("scan top value: %w", err)
		}
		values = append(values, vc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate top values: %w", err)
	}

	return values, nil
}

// MinMax returns the raw minimum and maximum values of the column.
func (a *Adapter) MinMax(ctx context.Context, table, column string) (any, any, error) {
	col := columnRef(column)
	query := fmt.Sprintf("SELECT MIN(%s), MAX(%s) FROM %s", col, col, tableRef(table))

	var minVal, maxVal any
	if err := a.db.QueryRowContext(ctx, query).Scan(&minVal, &maxVal); err != nil {
		return nil, nil, fmt.Errorf("query min/max: %w", err)
	}
	return minVal, maxVal, nil
}

// Mean returns the average of the column cast to FLOAT.
func (a *Adapter) Mean(ctx context.Context, table, column string) (*float64, error) {
	col := columnRef(column)
	query := fmt.Sprintf(
		"SELECT AVG(CAST(%s AS FLOAT)) FROM %s WHERE %s IS NOT NULL",
		col, tableRef(table), col,
	)

	var mean *float64
	if err := a.db.QueryRowContext(ctx, query).Scan(&mean); err != nil {
		return nil, fmt.Errorf("query mean: %w", err)
	}
	return mean, nil
}

// VarianceAroundMean returns AVG((x - mean)^2) with the mean bound as a parameter.
func (a *Adapter) VarianceAroundMean(ctx context.Context, table, column string, mean float64) (*float64, error) {
	col := columnRef(column)
	query := fmt.Sprintf(`
		SELECT AVG((CAST(%s AS FLOAT) - @p1) * (CAST(%s AS FLOAT) - @p1))
		FROM %s
		WHERE %s IS NOT NULL
	`, col, col, tableRef(table), col)

	var variance *float64
	if err := a.db.QueryRowContext(ctx, query, mean).Scan(&variance); err != nil {
		return nil, fmt.Errorf("query variance: %w", err)
	}
	return variance, nil
}

// Median returns the continuous 50th percentile of the column.
// SQL Server only exposes PERCENTILE_CONT as a window function, so the
// per-row result is collapsed with DISTINCT. An empty column yields zero
// rows rather than a NULL row.
func (a *Adapter) Median(ctx context.Context, table, column string) (*float64, error) {
	col := columnRef(column)
	query := fmt.Sprintf(`
		SELECT DISTINCT PERCENTILE_CONT(0.5) WITHIN GROUP (ORDER BY CAST(%s AS FLOAT)) OVER ()
		FROM %s
		WHERE %s IS NOT NULL
	`, col, tableRef(table), col)

	var median *float64
	err := a.db.QueryRowContext(ctx, query).Scan(&median)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query median: %w", err)
	}
	return median, nil
}

// MaxTimestamp returns the latest value of a timestamp column in UTC.
// Returns nil when the column is empty or its maximum is not a timestamp.
func (a *Adapter) MaxTimestamp(ctx context.Context, table, column string) (*time.Time, error) {
	query := fmt.Sprintf("SELECT MAX(%s) FROM %s", columnRef(column), tableRef(table))

	var raw any
	if err := a.db.QueryRowContext(ctx, query).Scan(&raw); err != nil {
		return nil, fmt.Errorf("query max timestamp: %w", err)
	}
	return datasource.CoerceTimestamp(raw), nil
}
