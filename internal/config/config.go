// Package config defines the explicit, immutable configuration for an
// ordersql run. Every stage (loader, transformer chain, emitter) receives the
// values it needs from a Pipeline instead of reading package-level globals.
//
// The command does not read configuration from disk, flags or the
// environment: Default returns the fixed constants the tool is built around.
// Library callers and tests may construct their own Pipeline values.
package config

import "strings"

// Fixed constants of the tool.
const (
	DefaultInputPath   = "messy_data.csv"
	DefaultTable       = "customer_orders"
	DefaultPreviewRows = 5
	DefaultDateLayout  = "2006-01-02"
)

// Policy selects how numeric coercion failures are handled.
type Policy string

const (
	// PolicyStrict aborts the whole batch on the first unparseable cell.
	PolicyStrict Policy = "strict"
	// PolicyLenient nulls the failing cell, records the error and keeps going.
	PolicyLenient Policy = "lenient"
)

// Column describes one destination column of the target table.
type Column struct {
	// Name is the destination column name.
	Name string
	// SQLType is used when rendering DDL for the table (TEXT, INTEGER, REAL).
	SQLType string
	// Bare marks columns whose values are emitted as unquoted literals.
	Bare bool
}

// TargetSchema is the destination table name plus its ordered column list.
// Its fields are unexported so a schema cannot change after construction;
// accessors hand out copies.
type TargetSchema struct {
	table   string
	columns []Column
}

// NewTargetSchema builds a TargetSchema. The columns slice is copied.
func NewTargetSchema(table string, cols ...Column) TargetSchema {
	return TargetSchema{table: table, columns: append([]Column(nil), cols...)}
}

// Table returns the destination table name.
func (s TargetSchema) Table() string { return s.table }

// Columns returns a copy of the column definitions, in order.
func (s TargetSchema) Columns() []Column { return append([]Column(nil), s.columns...) }

// Names returns the column names, in order.
func (s TargetSchema) Names() []string {
	out := make([]string, len(s.columns))
	for i, c := range s.columns {
		out[i] = c.Name
	}
	return out
}

// Rename maps a sanitized source column to its target name.
type Rename struct {
	From string
	To   string
}

// SourceColumns names the sanitized input columns the cleaning rules act on.
type SourceColumns struct {
	Name    string
	Email   string
	OrderID string
	Price   string
	Date    string
}

// EmailRule is a literal substring replacement applied to the email column.
type EmailRule struct {
	Old string
	New string
}

// OrderIDRule strips every occurrence of Strip before integer parsing.
type OrderIDRule struct {
	Strip string
}

// PriceRule strips every occurrence of Strip before float parsing and rounds
// the result to Places decimals.
type PriceRule struct {
	Strip  string
	Places int
}

// DateRule controls date normalization.
type DateRule struct {
	// DayFirst prefers day-before-month for ambiguous numeric dates.
	DayFirst bool
	// Layout is the output layout for parsed dates.
	Layout string
}

// Pipeline is the full configuration of one run.
type Pipeline struct {
	// Job labels metrics and log lines.
	Job string

	// InputPath is the CSV file to read.
	InputPath string

	// PreviewRows is how many raw rows the input preview shows.
	PreviewRows int

	Columns SourceColumns
	Email   EmailRule
	OrderID OrderIDRule
	Price   PriceRule
	Date    DateRule

	// Renames are applied in order before projection onto Target.
	Renames []Rename

	Target TargetSchema

	// Policy selects strict (default) or lenient numeric coercion.
	Policy Policy
}

// Default returns the fixed configuration of the ordersql command. Each call
// returns a fresh value.
func Default() Pipeline {
	return Pipeline{
		Job:         "ordersql",
		InputPath:   DefaultInputPath,
		PreviewRows: DefaultPreviewRows,
		Columns: SourceColumns{
			Name:    "client_name",
			Email:   "email",
			OrderID: "order_id",
			Price:   "total_price",
			Date:    "date_of_sale",
		},
		Email:   EmailRule{Old: " AT ", New: "@"},
		OrderID: OrderIDRule{Strip: "ID"},
		Price:   PriceRule{Strip: `"`, Places: 2},
		Date:    DateRule{DayFirst: true, Layout: DefaultDateLayout},
		Renames: []Rename{
			{From: "client_name", To: "customer_name"},
			{From: "email", To: "customer_email"},
			{From: "date_of_sale", To: "sale_date"},
		},
		Target: NewTargetSchema(DefaultTable,
			Column{Name: "customer_name", SQLType: "TEXT"},
			Column{Name: "customer_email", SQLType: "TEXT"},
			Column{Name: "order_id", SQLType: "INTEGER"},
			Column{Name: "total_price", SQLType: "REAL", Bare: true},
			Column{Name: "sale_date", SQLType: "TEXT"},
		),
		Policy: PolicyStrict,
	}
}

// InputName is the base name of InputPath, used in user-facing messages.
func (p Pipeline) InputName() string {
	if i := strings.LastIndexAny(p.InputPath, `/\`); i >= 0 {
		return p.InputPath[i+1:]
	}
	return p.InputPath
}
