//go:build postgres || all_adapters

package postgres

import (
	"context"
	"fmt"

	"github.com/tablepulse-io/tablepulse-engine/pkg/models"
)

// ListTables returns all user tables (excludes system schemas).
// Tables in the public schema are reported with an empty Schema so their
// qualified name stays bare.
func (a *Adapter) ListTables(ctx context.Context) ([]models.TableDescriptor, error) {
	const query = `
		SELECT table_schema, table_name
		FROM information_schema.tables
		WHERE table_type = 'BASE TABLE'
		  AND table_schema NOT IN ('pg_catalog', 'information_schema', 'pg_toast')
		ORDER BY table_schema, table_name
	`

	rows, err := a.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query tables: %w", err)
	}
	defer rows.Close()

	var tables []models.TableDescriptor
	for rows.Next() {
		var schemaName, tableName string
		if err := rows.Scan(&schemaName, &tableName); err != nil {
			return nil, fmt.Errorf("scan table: %w", err)
		}
		if schemaName == defaultSchema {
			schemaName = ""
		}
		tables = append(tables, models.TableDescriptor{Schema: schemaName, Name: tableName})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tables: %w", err)
	}

	return tables, nil
}

// TableColumns returns column descriptors for a table.
// Uses pg_index for primary key detection, which correctly identifies
// primary keys even when created as unique indexes (common with ORMs).
// Foreign key participation comes from information_schema constraints.
func (a *Adapter) TableColumns(ctx context.Context, table string) ([]models.ColumnDescriptor, error) {
	schemaName, tableName := splitTable(table)
	if schemaName == "" {
		schemaName = defaultSchema
	}

	const query = `
		SELECT
			c.column_name,
			c.data_type,
			c.is_nullable = 'YES' as is_nullable,
			COALESCE(pk.is_pk, false) as is_primary_key,
			COALESCE(fk.is_fk, false) as is_foreign_key
		FROM information_schema.columns c
		LEFT JOIN (
			SELECT a.attname as column_name, true as is_pk
			FROM pg_index ix
			JOIN pg_class t ON t.oid = ix.indrelid
			JOIN pg_namespace n ON n.oid = t.relnamespace
			JOIN pg_attribute a ON a.attrelid = t.oid AND a.attnum = ANY(ix.indkey)
			WHERE ix.indisprimary = true
			  AND n.nspname = $1
			  AND t.relname = $2
		) pk ON c.column_name = pk.column_name
		LEFT JOIN (
			SELECT kcu.column_name, true as is_fk
			FROM information_schema.table_constraints tc
			JOIN information_schema.key_column_usage kcu
				ON tc.constraint_name = kcu.constraint_name
				AND tc.table_schema = kcu.table_schema
			WHERE tc.constraint_type = 'FOREIGN KEY'
			  AND tc.table_schema = $1
			  AND tc.table_name = $2
		) fk ON c.column_name = fk.column_name
		WHERE c.table_schema = $1 AND c.table_name = $2
		ORDER BY c.ordinal_position
	`

	rows, err := a.pool.Query(ctx, query, schemaName, tableName)
	if err != nil {
		return nil, fmt.Errorf("query columns: %w", err)
	}
	defer rows.Close()

	var columns []models.ColumnDescriptor
	for rows.Next() {
		var c models.ColumnDescriptor
		if err := rows.Scan(&c.Name, &c.DataType, &c.IsNullable, &c.IsPrimaryKey, &c.IsForeignKey); err != nil {
			return nil, fmt.Errorf("scan column: %w", err)
		}
		columns = append(columns, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate columns: %w", err)
	}

	return columns, nil
}
