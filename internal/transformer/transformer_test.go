package transformer

import (
	"errors"
	"strings"
	"testing"

	"ordersql/internal/config"
	"ordersql/pkg/records"
)

// upper is a minimal rule: it upper-cases one column and fails on "bad".
type upper struct{ col string }

func (upper) Name() string { return "upper" }

func (u upper) Header(cols []string) ([]string, error) {
	for _, c := range cols {
		if c == u.col {
			return cols, nil
		}
	}
	return nil, &MissingColumnError{Rule: u.Name(), Columns: []string{u.col}}
}

func (u upper) cell(row int, v any, rep *Report) (any, error) {
	s, _ := v.(string)
	if s == "bad" {
		if err := rep.Handle(&ParseError{Rule: u.Name(), Column: u.col, Row: row, Value: s, Err: errors.New("bad")}); err != nil {
			return nil, err
		}
		return nil, nil
	}
	rep.Count(u.Name(), 1)
	return strings.ToUpper(s), nil
}

func (u upper) Apply(t records.Table, rep *Report) (records.Table, error) {
	if _, err := u.Header(t.Columns); err != nil {
		return t, err
	}
	for i, r := range t.Rows {
		v, err := u.cell(i, r[u.col], rep)
		if err != nil {
			return t, err
		}
		r[u.col] = v
	}
	return t, nil
}

func (u upper) ApplyRecord(row int, _ []string, r records.Record, rep *Report) (records.Record, error) {
	v, err := u.cell(row, r[u.col], rep)
	if err != nil {
		return nil, err
	}
	r[u.col] = v
	return r, nil
}

func table(vals ...string) records.Table {
	t := records.Table{Columns: []string{"a"}}
	for _, v := range vals {
		t.Rows = append(t.Rows, records.Record{"a": v})
	}
	return t
}

/*
TestChain_ApplyBothPaths verifies that Apply and ApplyRows return the same
rows and counts and leave the input untouched.
*/
func TestChain_ApplyBothPaths(t *testing.T) {
	c := Chain{Rules: []Rule{upper{col: "a"}}, Policy: config.PolicyStrict}
	in := table("x", "y")

	col, crep, err := c.Apply(in)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	row, rrep, err := c.ApplyRows(in)
	if err != nil {
		t.Fatalf("ApplyRows: %v", err)
	}
	for i := range in.Rows {
		if col.Rows[i]["a"] != row.Rows[i]["a"] {
			t.Fatalf("row %d: column-wise %v, row-wise %v", i, col.Rows[i]["a"], row.Rows[i]["a"])
		}
	}
	if col.Rows[0]["a"] != "X" {
		t.Fatalf("got %v; want X", col.Rows[0]["a"])
	}
	if in.Rows[0]["a"] != "x" {
		t.Fatalf("input mutated: %v", in.Rows[0]["a"])
	}
	if crep.Changed["upper"] != 2 || rrep.Changed["upper"] != 2 {
		t.Fatalf("changed counts: %v / %v", crep.Changed, rrep.Changed)
	}
}

/*
TestChain_StrictAborts verifies that the strict policy stops at the first
failing cell and returns a *ParseError.
*/
func TestChain_StrictAborts(t *testing.T) {
	c := Chain{Rules: []Rule{upper{col: "a"}}, Policy: config.PolicyStrict}
	for name, run := range map[string]func(records.Table) (records.Table, *Report, error){
		"columns": c.Apply,
		"rows":    c.ApplyRows,
	} {
		_, _, err := run(table("x", "bad", "z"))
		if !IsParseError(err) {
			t.Fatalf("%s: got %v; want a parse error", name, err)
		}
		var pe *ParseError
		errors.As(err, &pe)
		if pe.Row != 1 {
			t.Fatalf("%s: row %d; want 1", name, pe.Row)
		}
	}
}

/*
TestChain_LenientNullsCell verifies that the lenient policy stores nil for
a failing cell, records the error and keeps every row.
*/
func TestChain_LenientNullsCell(t *testing.T) {
	c := Chain{Rules: []Rule{upper{col: "a"}}, Policy: config.PolicyLenient}
	out, rep, err := c.ApplyRows(table("x", "bad", "z"))
	if err != nil {
		t.Fatalf("ApplyRows: %v", err)
	}
	if out.Len() != 3 {
		t.Fatalf("got %d rows; want 3", out.Len())
	}
	if out.Rows[1]["a"] != nil {
		t.Fatalf("failing cell = %v; want nil", out.Rows[1]["a"])
	}
	if len(rep.Errors) != 1 || rep.Errors[0].Row != 1 {
		t.Fatalf("errors = %v", rep.Errors)
	}
}

func TestChain_MissingColumn(t *testing.T) {
	c := Chain{Rules: []Rule{upper{col: "b"}}}
	_, _, err := c.ApplyRows(table("x"))
	var mc *MissingColumnError
	if !errors.As(err, &mc) {
		t.Fatalf("got %v; want *MissingColumnError", err)
	}
	if got := mc.Error(); got != `upper: missing column "b"` {
		t.Fatalf("message = %q", got)
	}
}

func TestParseError_Unwrap(t *testing.T) {
	inner := errors.New("invalid syntax")
	pe := &ParseError{Rule: "r", Column: "c", Row: 3, Value: "v", Err: inner}
	if !errors.Is(pe, inner) {
		t.Fatal("ParseError does not unwrap to its cause")
	}
	want := `r: row 3, column "c": cannot parse "v": invalid syntax`
	if pe.Error() != want {
		t.Fatalf("got %q; want %q", pe.Error(), want)
	}
}
