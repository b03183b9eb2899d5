package mssql

import (
	"fmt"
	"strings"
)

// parseSchemaTable parses a table name that may include schema.
// SQL Server format: [schema].[table] or schema.table
// Returns (schema, table). Defaults to "dbo" schema if not specified.
func parseSchemaTable(tableName string) (string, string) {
	// Remove brackets if present
	cleaned := strings.ReplaceAll(tableName, "[", "")
	cleaned = strings.ReplaceAll(cleaned, "]", "")

	parts := strings.Split(cleaned, ".")
	if len(parts) >= 2 {
		return parts[0], parts[1]
	}

	return defaultSchema, cleaned
}

// quoteName brackets an identifier the way QUOTENAME() does in SQL Server,
// escaping ] as ]].
func quoteName(identifier string) string {
	escaped := strings.ReplaceAll(identifier, "]", "]]")
	return fmt.Sprintf("[%s]", escaped)
}

// tableRef builds a fully qualified, bracket-quoted table reference: [schema].[table]
func tableRef(tableName string) string {
	schema, table := parseSchemaTable(tableName)
	return fmt.Sprintf("%s.%s", quoteName(schema), quoteName(table))
}

// columnRef builds a bracket-quoted column reference.
func columnRef(columnName string) string {
	return quoteName(columnName)
}
