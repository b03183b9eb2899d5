package sqlite

import (
	"context"
	"fmt"

	"github.com/tablepulse-io/tablepulse-engine/pkg/models"
)

// ListTables returns all user tables, skipping SQLite internal tables.
// Schema is always empty since the adapter profiles a single database file.
func (a *Adapter) ListTables(ctx context.Context) ([]models.TableDescriptor, error) {
	const query = `
		SELECT name FROM sqlite_master
		WHERE type = 'table' AND name NOT LIKE 'sqlite_%'
		ORDER BY name
	`

	rows, err := a.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query tables: %w", err)
	}
	defer rows.Close()

	var tables []models.TableDescriptor
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan table: %w", err)
		}
		tables = append(tables, models.TableDescriptor{Name: name})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tables: %w", err)
	}

	return tables, nil
}

// TableColumns returns column descriptors for a table.
// pragma_table_info reports declared types and primary key membership,
// pragma_foreign_key_list the columns referencing other tables. Both are
// table-valued functions, so the table name binds as a regular parameter.
func (a *Adapter) TableColumns(ctx context.Context, table string) ([]models.ColumnDescriptor, error) {
	name := bareTable(table)

	fkCols := make(map[string]bool)
	fkRows, err := a.db.QueryContext(ctx, `SELECT "from" FROM pragma_foreign_key_list(?)`, name)
	if err != nil {
		return nil, fmt.Errorf("query foreign keys: %w", err)
	}
	defer fkRows.Close()

	for fkRows.Next() {
		var col string
		if err := fkRows.Scan(&col); err != nil {
			return nil, fmt.Errorf("scan foreign key: %w", err)
		}
		fkCols[col] = true
	}
	if err := fkRows.Err(); err != nil {
		return nil, fmt.Errorf("iterate foreign keys: %w", err)
	}

	rows, err := a.db.QueryContext(ctx,
		`SELECT name, type, "notnull", pk FROM pragma_table_info(?) ORDER BY cid`, name)
	if err != nil {
		return nil, fmt.Errorf("query columns: %w", err)
	}
	defer rows.Close()

	var columns []models.ColumnDescriptor
	for rows.Next() {
		var colName, dataType string
		var notNull, pk int
		if err := rows.Scan(&colName, &dataType, &notNull, &pk); err != nil {
			return nil, fmt.Errorf("scan column: %w", err)
		}

		columns = append(columns, models.ColumnDescriptor{
			Name:     colName,
			DataType: dataType,
			// INTEGER PRIMARY KEY columns report notnull=0 even though
			// the rowid alias can never hold NULL.
			IsNullable:   notNull == 0 && pk == 0,
			IsPrimaryKey: pk > 0,
			IsForeignKey: fkCols[colName],
		})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate columns: %w", err)
	}

	return columns, nil
}
