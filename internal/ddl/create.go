// Package ddl is a small model for the destination table of the emitted
// INSERT statements and a renderer for its CREATE TABLE statement.
//
// The command never prints DDL. It exists so the emitted statements can be
// loaded into a real database (tests use an in-memory SQLite) against a table
// whose shape is derived from the same config.TargetSchema the emitter uses.
package ddl

import (
	"fmt"
	"strings"
)

// Ident renders an identifier. Verbatim leaves names untouched.
type Ident func(string) string

// Verbatim is the identity Ident.
func Verbatim(s string) string { return s }

// BuildCreateTableSQL renders a CREATE TABLE statement for t with names
// emitted verbatim. See BuildCreateTableSQLWith.
func BuildCreateTableSQL(t TableDef) (string, error) {
	return BuildCreateTableSQLWith(t, Verbatim)
}

// BuildCreateTableSQLWith renders t using ident for the table and column names.
//
// Each column renders as
//
//	<name> <SQLType> [NOT NULL] [DEFAULT <Default>]
//
// Primary-key columns are gathered into a trailing PRIMARY KEY (...) clause.
// The table and every column need a non-empty name and every column a
// non-empty type.
func BuildCreateTableSQLWith(t TableDef, ident Ident) (string, error) {
	if ident == nil {
		ident = Verbatim
	}
	name := strings.TrimSpace(t.Name)
	if name == "" {
		return "", fmt.Errorf("ddl: table name must not be empty")
	}
	if len(t.Columns) == 0 {
		return "", fmt.Errorf("ddl: table %s needs at least one column", name)
	}

	lines := make([]string, 0, len(t.Columns)+1)
	var pks []string
	for i, c := range t.Columns {
		col := strings.TrimSpace(c.Name)
		if col == "" {
			return "", fmt.Errorf("ddl: table %s: column %d has no name", name, i)
		}
		typ := strings.TrimSpace(c.SQLType)
		if typ == "" {
			return "", fmt.Errorf("ddl: table %s: column %s has no SQL type", name, col)
		}

		var sb strings.Builder
		sb.WriteString(ident(col))
		sb.WriteByte(' ')
		sb.WriteString(typ)
		if !c.Nullable {
			sb.WriteString(" NOT NULL")
		}
		if def := strings.TrimSpace(c.Default); def != "" {
			sb.WriteString(" DEFAULT ")
			sb.WriteString(def)
		}
		lines = append(lines, sb.String())

		if c.PrimaryKey {
			pks = append(pks, ident(col))
		}
	}
	if len(pks) > 0 {
		lines = append(lines, "PRIMARY KEY ("+strings.Join(pks, ", ")+")")
	}

	head := "CREATE TABLE "
	if t.IfNotExists {
		head += "IF NOT EXISTS "
	}
	return head + ident(name) + " (\n  " + strings.Join(lines, ",\n  ") + "\n);", nil
}
