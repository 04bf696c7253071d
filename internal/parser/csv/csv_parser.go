// Package csv loads a delimited text file with a header row into an
// in-memory records.Table. The whole input is materialized before the table
// is returned; there is no streaming mode.
//
// Cell handling follows the conventions of the spreadsheet-style exports the
// tool is fed: empty cells and the usual NA tokens become nil, short rows are
// padded with nil, and over-long rows are a hard error.
package csv

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"

	"ordersql/pkg/records"
)

// ErrNoColumns is returned when the input has no header row at all.
var ErrNoColumns = errors.New("no columns to parse from file")

// DefaultNAValues are the cell texts read as null.
var DefaultNAValues = []string{
	"", "#N/A", "#N/A N/A", "#NA", "-1.#IND", "-1.#QNAN", "-NaN", "-nan",
	"1.#IND", "1.#QNAN", "<NA>", "N/A", "NA", "NULL", "NaN", "None",
	"n/a", "nan", "null",
}

// Options configures the CSV parser behavior. All fields are optional;
// sensible defaults are applied when a field is zero.
type Options struct {
	// Comma specifies the field delimiter. When zero, ',' is used.
	Comma rune

	// NAValues replaces DefaultNAValues when non-nil. An empty, non-nil
	// slice disables null detection except for empty cells.
	NAValues []string
}

// Parser parses CSV input according to Options. It is safe to reuse across
// inputs, but Parser itself is not concurrency-safe.
type Parser struct {
	opt Options
	na  map[string]struct{}
}

// NewParser constructs a Parser with the provided Options.
func NewParser(opt Options) *Parser {
	vals := opt.NAValues
	if vals == nil {
		vals = DefaultNAValues
	}
	na := make(map[string]struct{}, len(vals)+1)
	na[""] = struct{}{}
	for _, v := range vals {
		na[v] = struct{}{}
	}
	return &Parser{opt: opt, na: na}
}

// TokenizeError reports a body row wider than the header.
type TokenizeError struct {
	Line     int
	Expected int
	Saw      int
}

func (e *TokenizeError) Error() string {
	return fmt.Sprintf("Error tokenizing data. Expected %d fields in line %d, saw %d", e.Expected, e.Line, e.Saw)
}

// Parse reads the header and every body row of r.
//
// Header cells are BOM-stripped, blank ones are named "Unnamed: <i>" and
// duplicates are suffixed ".1", ".2", ... in order of appearance. Column
// names are otherwise kept verbatim; sanitization is a transformer concern.
func (p *Parser) Parse(r io.Reader) (records.Table, error) {
	cr := csv.NewReader(r)
	if p.opt.Comma != 0 {
		cr.Comma = p.opt.Comma
	}
	// Messy exports carry bare quotes inside unquoted fields; keep them as text.
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1

	h, err := cr.Read()
	if err == io.EOF {
		return records.Table{}, ErrNoColumns
	}
	if err != nil {
		return records.Table{}, fmt.Errorf("read csv header: %w", err)
	}
	headers := dedupeHeaders(StripHeaderBOM(h))

	tab := records.Table{Columns: headers}
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return records.Table{}, fmt.Errorf("read csv: %w", err)
		}
		if len(row) > len(headers) {
			line, _ := cr.FieldPos(0)
			return records.Table{}, &TokenizeError{Line: line, Expected: len(headers), Saw: len(row)}
		}

		rec := make(records.Record, len(headers))
		for i, col := range headers {
			if i < len(row) {
				rec[col] = p.cell(row[i])
			} else {
				rec[col] = nil
			}
		}
		tab.Rows = append(tab.Rows, rec)
	}
	return tab, nil
}

// cell converts NA tokens to nil; all other values are returned as-is.
func (p *Parser) cell(s string) any {
	if _, ok := p.na[s]; ok {
		return nil
	}
	return s
}

// dedupeHeaders names blank header cells and suffixes repeated names so every
// column key is unique.
func dedupeHeaders(h []string) []string {
	out := make([]string, len(h))
	used := make(map[string]bool, len(h))
	counts := make(map[string]int, len(h))
	for i, c := range h {
		if c == "" {
			c = "Unnamed: " + strconv.Itoa(i)
		}
		name := c
		for used[name] {
			counts[c]++
			name = c + "." + strconv.Itoa(counts[c])
		}
		used[name] = true
		out[i] = name
	}
	return out
}
