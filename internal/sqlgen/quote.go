package sqlgen

import (
	"strings"

	"github.com/jackc/pgx/v5"

	"ordersql/pkg/records"
)

// Quoter renders identifiers and values into SQL text.
type Quoter interface {
	// Ident renders a table or column name.
	Ident(name string) string
	// Literal renders one cell. bare is set for columns emitted without
	// quotes (numeric columns).
	Literal(v any, bare bool) string
}

// Naive wraps values in single quotes without escaping and emits identifiers
// verbatim. A value containing a single quote yields broken (and injectable)
// SQL; null cells render as 'nan'. This is the output format of the command.
type Naive struct{}

func (Naive) Ident(name string) string { return name }

func (Naive) Literal(v any, bare bool) string {
	s := records.Text(v)
	if bare {
		return s
	}
	return "'" + s + "'"
}

// Strict doubles embedded single quotes, renders null cells as NULL and
// double-quotes identifiers. Dotted names are split into their parts first,
// so "sales.customer_orders" becomes "sales"."customer_orders".
type Strict struct{}

func (Strict) Ident(name string) string {
	return pgx.Identifier(strings.Split(name, ".")).Sanitize()
}

func (Strict) Literal(v any, bare bool) string {
	if records.IsNull(v) {
		return "NULL"
	}
	s := records.Text(v)
	if bare {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
