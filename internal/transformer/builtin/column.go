package builtin

import (
	"ordersql/internal/transformer"
	"ordersql/pkg/records"
)

// convertFunc converts one cell value. A non-nil error marks the cell as
// unparseable; what happens next is up to the report's policy.
type convertFunc func(v any) (any, error)

// column is the shared implementation of rules that rewrite the values of a
// single column. Both apply paths convert through cell.
type column struct {
	rule    string
	name    string
	convert convertFunc
}

func (c column) header(cols []string) ([]string, error) {
	for _, x := range cols {
		if x == c.name {
			return cols, nil
		}
	}
	return nil, &transformer.MissingColumnError{Rule: c.rule, Columns: []string{c.name}}
}

// cell converts v, consulting rep on failure. The bool reports whether the
// rendered value differs from the input.
func (c column) cell(row int, v any, rep *transformer.Report) (any, bool, error) {
	out, err := c.convert(v)
	if err != nil {
		pe := &transformer.ParseError{
			Rule:   c.rule,
			Column: c.name,
			Row:    row,
			Value:  records.Text(v),
			Err:    err,
		}
		if herr := rep.Handle(pe); herr != nil {
			return nil, false, herr
		}
		out = nil
	}
	return out, records.Text(out) != records.Text(v), nil
}

func (c column) apply(t records.Table, rep *transformer.Report) (records.Table, error) {
	if _, err := c.header(t.Columns); err != nil {
		return t, err
	}
	vals := t.Column(c.name)
	changed := 0
	for i, v := range vals {
		out, diff, err := c.cell(i, v, rep)
		if err != nil {
			return t, err
		}
		vals[i] = out
		if diff {
			changed++
		}
	}
	rep.Count(c.rule, changed)
	return t, t.SetColumn(c.name, vals)
}

func (c column) applyRecord(row int, r records.Record, rep *transformer.Report) (records.Record, error) {
	out, diff, err := c.cell(row, r[c.name], rep)
	if err != nil {
		return nil, err
	}
	r[c.name] = out
	if diff {
		rep.Count(c.rule, 1)
	}
	return r, nil
}
