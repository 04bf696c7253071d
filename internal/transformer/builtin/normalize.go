package builtin

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"ordersql/internal/transformer"
	"ordersql/pkg/records"
)

// nonIdent matches every character that may not appear in a sanitized
// column name.
var nonIdent = regexp.MustCompile(`[^a-zA-Z0-9_]`)

// SanitizeName lower-cases name and removes every character outside
// [a-zA-Z0-9_].
func SanitizeName(name string) string {
	return nonIdent.ReplaceAllString(cases.Lower(language.Und).String(name), "")
}

// SanitizeColumns rewrites every column name with SanitizeName. When two
// columns collapse to the same name the first one is kept and the later ones
// are dropped, unless the name is in Protect, in which case the collision is
// an error.
type SanitizeColumns struct {
	Protect []string
}

func (SanitizeColumns) Name() string { return "sanitize_columns" }

// Header returns the sanitized column list.
func (s SanitizeColumns) Header(cols []string) ([]string, error) {
	out := make([]string, 0, len(cols))
	from := make(map[string]string, len(cols))
	for _, c := range cols {
		n := SanitizeName(c)
		if prev, dup := from[n]; dup {
			if s.protected(n) {
				return nil, fmt.Errorf("%s: columns %q and %q both sanitize to %q", s.Name(), prev, c, n)
			}
			continue
		}
		from[n] = c
		out = append(out, n)
	}
	return out, nil
}

func (s SanitizeColumns) protected(name string) bool {
	for _, p := range s.Protect {
		if SanitizeName(p) == name {
			return true
		}
	}
	return false
}

func (s SanitizeColumns) Apply(t records.Table, _ *transformer.Report) (records.Table, error) {
	out, err := s.Header(t.Columns)
	if err != nil {
		return t, err
	}
	for i, r := range t.Rows {
		t.Rows[i] = rekey(t.Columns, r)
	}
	t.Columns = out
	return t, nil
}

func (s SanitizeColumns) ApplyRecord(_ int, cols []string, r records.Record, _ *transformer.Report) (records.Record, error) {
	return rekey(cols, r), nil
}

// rekey renames the fields of r in column order; the first column to claim a
// sanitized name wins.
func rekey(cols []string, r records.Record) records.Record {
	out := make(records.Record, len(r))
	for _, c := range cols {
		n := SanitizeName(c)
		if _, taken := out[n]; taken {
			continue
		}
		if v, ok := r[c]; ok {
			out[n] = v
		}
	}
	return out
}

// Replace substitutes every literal occurrence of Old with New in the string
// cells of Column. Null and non-string cells pass through unchanged.
type Replace struct {
	Column string
	Old    string
	New    string
}

func (Replace) Name() string { return "replace" }

func (r Replace) col() column {
	return column{rule: r.Name(), name: r.Column, convert: r.convert}
}

func (r Replace) convert(v any) (any, error) {
	s, ok := v.(string)
	if !ok || r.Old == "" {
		return v, nil
	}
	return strings.ReplaceAll(s, r.Old, r.New), nil
}

func (r Replace) Header(cols []string) ([]string, error) { return r.col().header(cols) }

func (r Replace) Apply(t records.Table, rep *transformer.Report) (records.Table, error) {
	return r.col().apply(t, rep)
}

func (r Replace) ApplyRecord(row int, _ []string, rec records.Record, rep *transformer.Report) (records.Record, error) {
	return r.col().applyRecord(row, rec, rep)
}
