package models

// ColumnDescriptor describes one table column as reported by schema reading.
// DataType carries the type exactly as the database declares it, length
// suffix included ("VARCHAR(255)", "numeric(10,2)").
type ColumnDescriptor struct {
	Name         string `json:"name"`
	DataType     string `json:"data_type"`
	IsNullable   bool   `json:"is_nullable"`
	IsPrimaryKey bool   `json:"is_primary_key"`
	IsForeignKey bool   `json:"is_foreign_key"`
}

// IsKey reports whether the column participates in a primary or foreign key.
// Key columns are the ones whose distinctness feeds the uniqueness component.
func (c ColumnDescriptor) IsKey() bool {
	return c.IsPrimaryKey || c.IsForeignKey
}

// TableDescriptor identifies one user table in a datasource.
// Schema is empty for tables in the dialect's default schema.
type TableDescriptor struct {
	Schema  string             `json:"schema,omitempty"`
	Name    string             `json:"name"`
	Columns []ColumnDescriptor `json:"columns,omitempty"` // populated on demand
}

// QualifiedName returns "schema.name", or the bare table name when the
// table lives in the default schema.
func (t TableDescriptor) QualifiedName() string {
	if t.Schema == "" {
		return t.Name
	}
	return t.Schema + "." + t.Name
}
