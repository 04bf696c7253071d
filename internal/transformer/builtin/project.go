package builtin

import (
	"ordersql/internal/config"
	"ordersql/internal/transformer"
	"ordersql/pkg/records"
)

// RenameProject renames columns with Renames and then keeps exactly Columns,
// in that order. Every other column is dropped.
type RenameProject struct {
	Renames []config.Rename
	Columns []string
}

func (RenameProject) Name() string { return "rename_project" }

func (p RenameProject) rename(c string) string {
	for _, r := range p.Renames {
		if r.From == c {
			return r.To
		}
	}
	return c
}

// source returns the input column that feeds target. A renamed column wins
// over one that already carries the target name.
func (p RenameProject) source(target string, has func(string) bool) string {
	for _, r := range p.Renames {
		if r.To == target && has(r.From) {
			return r.From
		}
	}
	return target
}

func (p RenameProject) Header(cols []string) ([]string, error) {
	present := make(map[string]struct{}, len(cols))
	for _, c := range cols {
		present[p.rename(c)] = struct{}{}
	}
	var missing []string
	for _, c := range p.Columns {
		if _, ok := present[c]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return nil, &transformer.MissingColumnError{Rule: p.Name(), Columns: missing}
	}
	return append([]string(nil), p.Columns...), nil
}

func (p RenameProject) Apply(t records.Table, _ *transformer.Report) (records.Table, error) {
	cols, err := p.Header(t.Columns)
	if err != nil {
		return t, err
	}
	has := func(c string) bool { return t.Has(c) }
	for i, r := range t.Rows {
		t.Rows[i] = p.project(r, has)
	}
	t.Columns = cols
	return t, nil
}

func (p RenameProject) ApplyRecord(_ int, _ []string, r records.Record, _ *transformer.Report) (records.Record, error) {
	has := func(c string) bool {
		_, ok := r[c]
		return ok
	}
	return p.project(r, has), nil
}

func (p RenameProject) project(r records.Record, has func(string) bool) records.Record {
	out := make(records.Record, len(p.Columns))
	for _, c := range p.Columns {
		out[c] = r[p.source(c, has)]
	}
	return out
}
