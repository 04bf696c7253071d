package ddl

import "ordersql/internal/config"

// ColumnDef describes a single column in a table definition.
//
// Fields:
//   - Name: column name, rendered through the builder's identifier function
//   - SQLType: target SQL type (TEXT, INTEGER, REAL)
//   - Nullable: whether NULL is allowed
//   - PrimaryKey: whether the column is part of the primary key
//   - Default: raw default expression (e.g., 'anon', CURRENT_TIMESTAMP)
type ColumnDef struct {
	Name       string
	SQLType    string
	Nullable   bool
	PrimaryKey bool
	Default    string
}

// TableDef holds the table name and an ordered list of columns.
type TableDef struct {
	Name        string
	Columns     []ColumnDef
	IfNotExists bool
}

// ForTarget builds the table definition matching the target schema. Every
// column is nullable: cleaned rows may carry null dates, names and emails.
func ForTarget(s config.TargetSchema) TableDef {
	cols := s.Columns()
	def := TableDef{Name: s.Table(), Columns: make([]ColumnDef, 0, len(cols))}
	for _, c := range cols {
		def.Columns = append(def.Columns, ColumnDef{
			Name:     c.Name,
			SQLType:  c.SQLType,
			Nullable: true,
		})
	}
	return def
}
