// Package sqlgen turns cleaned rows into INSERT statements for the target
// table.
package sqlgen

import (
	"fmt"
	"io"
	"strings"

	"github.com/zeebo/xxh3"

	"ordersql/internal/config"
	"ordersql/pkg/records"
)

// Emitter renders one INSERT statement per row. It is immutable once built
// and safe for concurrent use.
type Emitter struct {
	schema config.TargetSchema
	quote  Quoter
	cols   []config.Column
	prefix string
}

// Result summarizes one Emit call.
type Result struct {
	// Statements is the number of statements written.
	Statements int
	// Bytes is the number of bytes written.
	Bytes int64
	// Digest is the xxh3 hash of everything written.
	Digest uint64
}

// DigestHex renders Digest as 16 hex digits.
func (r Result) DigestHex() string { return fmt.Sprintf("%016x", r.Digest) }

// NewEmitter builds an Emitter for schema. A nil quoter means Naive.
func NewEmitter(schema config.TargetSchema, q Quoter) *Emitter {
	if q == nil {
		q = Naive{}
	}
	cols := schema.Columns()
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = q.Ident(c.Name)
	}
	return &Emitter{
		schema: schema,
		quote:  q,
		cols:   cols,
		prefix: "INSERT INTO " + q.Ident(schema.Table()) + " (" + strings.Join(names, ", ") + ") VALUES (",
	}
}

// Statement renders the INSERT for r. Columns absent from r render as null.
func (e *Emitter) Statement(r records.Record) string {
	var sb strings.Builder
	sb.WriteString(e.prefix)
	for i, c := range e.cols {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(e.quote.Literal(r[c.Name], c.Bare))
	}
	sb.WriteString(");")
	return sb.String()
}

// Statements renders every row of t, in row order.
func (e *Emitter) Statements(t records.Table) []string {
	out := make([]string, len(t.Rows))
	for i, r := range t.Rows {
		out[i] = e.Statement(r)
	}
	return out
}

// Emit writes one statement per line to w, in row order.
func (e *Emitter) Emit(w io.Writer, t records.Table) (Result, error) {
	h := xxh3.New()
	var res Result
	for _, stmt := range e.Statements(t) {
		line := stmt + "\n"
		n, err := io.WriteString(w, line)
		res.Bytes += int64(n)
		if err != nil {
			return res, fmt.Errorf("sqlgen: write statement %d: %w", res.Statements+1, err)
		}
		_, _ = h.WriteString(line)
		res.Statements++
	}
	res.Digest = h.Sum64()
	return res, nil
}
