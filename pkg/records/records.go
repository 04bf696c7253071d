// Package records defines the in-memory row and table types shared by the
// loader, the transformer chain and the SQL emitter.
//
// A Record is a loosely typed map keyed by column name. A nil value is the
// null marker for a cell: an empty or NA input cell, a date that could not be
// parsed, or a numeric cell tolerated under the lenient error policy.
package records

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// NullText is how a nil (or NaN) value is rendered in previews and SQL text.
const NullText = "nan"

// Record is a single row keyed by column name.
type Record map[string]any

// Clone returns a shallow copy of r.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Table is an ordered set of rows sharing a common, ordered column list.
// Row order is input order and is preserved by every stage.
type Table struct {
	Columns []string
	Rows    []Record
}

// Len reports the number of rows.
func (t Table) Len() int { return len(t.Rows) }

// Has reports whether col is one of the table's columns.
func (t Table) Has(col string) bool {
	return t.Index(col) >= 0
}

// Index returns the position of col in Columns, or -1.
func (t Table) Index(col string) int {
	for i, c := range t.Columns {
		if c == col {
			return i
		}
	}
	return -1
}

// Head returns a table holding at most the first n rows. The rows are shared
// with t, not copied.
func (t Table) Head(n int) Table {
	if n < 0 || n >= len(t.Rows) {
		return t
	}
	return Table{Columns: t.Columns, Rows: t.Rows[:n]}
}

// Column returns the values of col in row order.
func (t Table) Column(col string) []any {
	out := make([]any, len(t.Rows))
	for i, r := range t.Rows {
		out[i] = r[col]
	}
	return out
}

// SetColumn writes vals into col, row by row. len(vals) must equal Len().
func (t Table) SetColumn(col string, vals []any) error {
	if len(vals) != len(t.Rows) {
		return fmt.Errorf("records: column %q: got %d values for %d rows", col, len(vals), len(t.Rows))
	}
	for i, r := range t.Rows {
		r[col] = vals[i]
	}
	return nil
}

// Clone deep-copies the column list and every row map.
func (t Table) Clone() Table {
	cols := append([]string(nil), t.Columns...)
	rows := make([]Record, len(t.Rows))
	for i, r := range t.Rows {
		rows[i] = r.Clone()
	}
	return Table{Columns: cols, Rows: rows}
}

// Values returns the cells of r in the order given by cols.
func Values(r Record, cols []string) []any {
	out := make([]any, len(cols))
	for i, c := range cols {
		out[i] = r[c]
	}
	return out
}

// IsNull reports whether v is the null marker (nil or a NaN float).
func IsNull(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case float64:
		return math.IsNaN(x)
	}
	return false
}

// Text renders v the way the cleaning rules see a cell coerced to text:
// nil becomes "nan", numbers use their shortest form, strings pass through.
func Text(v any) string {
	switch x := v.(type) {
	case nil:
		return NullText
	case string:
		return x
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return FormatFloat(x)
	case bool:
		if x {
			return "True"
		}
		return "False"
	case fmt.Stringer:
		return x.String()
	}
	return fmt.Sprint(v)
}

// FormatFloat renders f with the shortest digits that round-trip, always
// keeping a fractional part ("20.0", "19.9"). Magnitudes outside
// [1e-4, 1e16) use exponent form ("1e+16", "1.5e-05"). NaN renders as "nan"
// and infinities as "inf" / "-inf".
func FormatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return NullText
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}
	abs := math.Abs(f)
	if abs != 0 && (abs < 1e-4 || abs >= 1e16) {
		return strconv.FormatFloat(f, 'e', -1, 64)
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
