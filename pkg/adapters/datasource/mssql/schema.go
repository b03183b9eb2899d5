//go:build mssql || all_adapters

package mssql

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/tablepulse-io/tablepulse-engine/pkg/models"
)

// ListTables returns all user tables (excludes system tables).
// Tables in the dbo schema are reported with an empty Schema so their
// qualified name stays bare.
func (a *Adapter) ListTables(ctx context.Context) ([]models.TableDescriptor, error) {
	const query = `
	SET NOCOUNT ON;
	SELECT
	    SCHEMA_NAME(t.schema_id) AS table_schema,
	    t.name AS table_name
	FROM sys.tables t
	WHERE t.is_ms_shipped = 0
	ORDER BY table_schema, table_name
	`

	rows, err := a.db.QueryContext(ctx, query)
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
// Primary key membership comes from sys.index_columns, foreign key
// membership from sys.foreign_key_columns. The declared type carries its
// length or precision suffix where SQL Server defines one.
func (a *Adapter) TableColumns(ctx context.Context, table string) ([]models.ColumnDescriptor, error) {
	schemaName, tableName := parseSchemaTable(table)

	const query = `
	SET NOCOUNT ON;
	SELECT
	    c.name AS column_name,
	    tp.name +
	        CASE
	            WHEN tp.name IN ('varchar', 'char', 'varbinary', 'binary') THEN
	                '(' + CASE WHEN c.max_length = -1 THEN 'max' ELSE CAST(c.max_length AS VARCHAR(10)) END + ')'
	            WHEN tp.name IN ('nvarchar', 'nchar') THEN
	                '(' + CASE WHEN c.max_length = -1 THEN 'max' ELSE CAST(c.max_length / 2 AS VARCHAR(10)) END + ')'
	            WHEN tp.name IN ('decimal', 'numeric') THEN
	                '(' + CAST(c.precision AS VARCHAR(10)) + ',' + CAST(c.scale AS VARCHAR(10)) + ')'
	            ELSE ''
	        END AS data_type,
	    CASE WHEN c.is_nullable = 1 THEN 1 ELSE 0 END AS is_nullable,
	    CASE WHEN pk.column_id IS NOT NULL THEN 1 ELSE 0 END AS is_primary_key,
	    CASE WHEN fk.parent_column_id IS NOT NULL THEN 1 ELSE 0 END AS is_foreign_key
	FROM sys.columns c
	INNER JOIN sys.types tp ON c.user_type_id = tp.user_type_id
	LEFT JOIN (
	    SELECT ic.object_id, ic.column_id
	    FROM sys.index_columns ic
	    INNER JOIN sys.indexes i ON ic.object_id = i.object_id AND ic.index_id = i.index_id
	    WHERE i.is_primary_key = 1
	) pk ON c.object_id = pk.object_id AND c.column_id = pk.column_id
	LEFT JOIN (
	    SELECT DISTINCT fkc.parent_object_id, fkc.parent_column_id
	    FROM sys.foreign_key_columns fkc
	) fk ON c.object_id = fk.parent_object_id AND c.column_id = fk.parent_column_id
	WHERE c.object_id = OBJECT_ID(QUOTENAME(@schema) + N'.' + QUOTENAME(@table))
	ORDER BY c.column_id
	`

	rows, err := a.db.QueryContext(ctx, query,
		sql.Named("schema", schemaName),
		sql.Named("table", tableName),
	)
	if err != nil {
		return nil, fmt.Errorf("query columns: %w", err)
	}
	defer rows.Close()

	var columns []models.ColumnDescriptor
	for rows.Next() {
		var c models.ColumnDescriptor
		var isNullable, isPrimary, isForeign int

		if err := rows.Scan(&c.Name, &c.DataType, &isNullable, &isPrimary, &isForeign); err != nil {
			return nil, fmt.Errorf("scan column: %w", err)
		}

		c.IsNullable = isNullable == 1
		c.IsPrimaryKey = isPrimary == 1
		c.IsForeignKey = isForeign == 1
		columns = append(columns, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate columns: %w", err)
	}

	return columns, nil
}
