// Package transformer runs an ordered chain of cleaning rules over a table.
//
// Every Rule can be applied two ways: over whole columns (Chain.Apply) or one
// row at a time (Chain.ApplyRows). Both paths share the same per-cell
// conversion code and produce identical tables.
package transformer

import (
	"errors"
	"fmt"

	"ordersql/internal/config"
	"ordersql/pkg/records"
)

// Rule is one cleaning step.
type Rule interface {
	// Name identifies the rule in reports and errors.
	Name() string

	// Header maps the incoming column list to the outgoing one and fails when
	// a column the rule needs is absent.
	Header(cols []string) ([]string, error)

	// Apply runs the rule over whole columns of t.
	Apply(t records.Table, rep *Report) (records.Table, error)

	// ApplyRecord runs the rule over a single row; row is its index in the
	// table and cols the rule's input column list, in order.
	ApplyRecord(row int, cols []string, r records.Record, rep *Report) (records.Record, error)
}

// ParseError describes a cell that could not be coerced to its target type.
type ParseError struct {
	Rule   string
	Column string
	Row    int
	Value  string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: row %d, column %q: cannot parse %q: %v", e.Rule, e.Row, e.Column, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// MissingColumnError is returned when a rule's input column is absent.
type MissingColumnError struct {
	Rule    string
	Columns []string
}

func (e *MissingColumnError) Error() string {
	if len(e.Columns) == 1 {
		return fmt.Sprintf("%s: missing column %q", e.Rule, e.Columns[0])
	}
	return fmt.Sprintf("%s: missing columns %q", e.Rule, e.Columns)
}

// Report collects what a chain run did: how many cells each rule changed and,
// under the lenient policy, every tolerated ParseError.
type Report struct {
	Policy  config.Policy
	Changed map[string]int
	Errors  []*ParseError
}

// NewReport returns an empty report for the given policy.
func NewReport(p config.Policy) *Report {
	return &Report{Policy: p, Changed: make(map[string]int)}
}

// Count records n changed cells for rule.
func (r *Report) Count(rule string, n int) {
	if n > 0 {
		r.Changed[rule] += n
	}
}

// Handle decides the fate of a failed cell. Under the strict policy it returns
// pe, which aborts the run; under the lenient policy it records pe and returns
// nil so the caller stores a null cell and continues.
func (r *Report) Handle(pe *ParseError) error {
	if r.Policy == config.PolicyLenient {
		r.Errors = append(r.Errors, pe)
		return nil
	}
	return pe
}

// Chain is an ordered list of rules.
type Chain struct {
	Rules  []Rule
	Policy config.Policy
}

// Apply runs every rule column-wise, in order, over a copy of in.
func (c Chain) Apply(in records.Table) (records.Table, *Report, error) {
	rep := NewReport(c.Policy)
	out := in.Clone()
	for _, r := range c.Rules {
		var err error
		if out, err = r.Apply(out, rep); err != nil {
			return records.Table{}, rep, err
		}
	}
	return out, rep, nil
}

// ApplyRows runs the chain one row at a time over a copy of in. The column
// lists are derived once from the rules' Header methods.
func (c Chain) ApplyRows(in records.Table) (records.Table, *Report, error) {
	rep := NewReport(c.Policy)
	cols := append([]string(nil), in.Columns...)
	heads := make([][]string, len(c.Rules))
	for i, r := range c.Rules {
		heads[i] = cols
		var err error
		if cols, err = r.Header(cols); err != nil {
			return records.Table{}, rep, err
		}
	}

	out := records.Table{Columns: cols, Rows: make([]records.Record, 0, len(in.Rows))}
	for i, row := range in.Rows {
		rec := row.Clone()
		for j, r := range c.Rules {
			var err error
			if rec, err = r.ApplyRecord(i, heads[j], rec, rep); err != nil {
				return records.Table{}, rep, err
			}
		}
		out.Rows = append(out.Rows, rec)
	}
	return out, rep, nil
}

// IsParseError reports whether err wraps a *ParseError.
func IsParseError(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}
