// Package sqlite loads emitted INSERT statements into a SQLite database
// (modernc.org/sqlite, pure Go) so their syntax and values can be checked by
// a real SQL engine. The command itself never connects to a database.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"ordersql/internal/ddl"
)

// MemoryDSN opens a private in-memory database.
const MemoryDSN = ":memory:"

// Sandbox is a SQLite database holding one target table.
type Sandbox struct {
	db *sql.DB
}

// Open connects to dsn and pings it. The pool is pinned to one connection so
// an in-memory database survives between calls.
func Open(ctx context.Context, dsn string) (*Sandbox, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, fmt.Errorf("sqlite: DSN must not be empty")
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open: %w", err)
	}
	db.SetMaxOpenConns(1)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: ping: %w", err)
	}
	return &Sandbox{db: db}, nil
}

// Close releases the database.
func (s *Sandbox) Close() error { return s.db.Close() }

// Load creates the table described by def (rendered with ident) and executes
// stmts in a single transaction. It returns the number of rows inserted. On
// any failure the transaction is rolled back and nothing is kept.
func (s *Sandbox) Load(ctx context.Context, def ddl.TableDef, ident ddl.Ident, stmts []string) (int64, error) {
	create, err := ddl.BuildCreateTableSQLWith(def, ident)
	if err != nil {
		return 0, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("sqlite: begin tx: %w", err)
	}
	if _, err := tx.ExecContext(ctx, create); err != nil {
		_ = tx.Rollback()
		return 0, fmt.Errorf("sqlite: create table: %w", err)
	}

	var inserted int64
	for i, stmt := range stmts {
		res, err := tx.ExecContext(ctx, stmt)
		if err != nil {
			_ = tx.Rollback()
			return 0, fmt.Errorf("sqlite: statement %d: %w", i+1, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			_ = tx.Rollback()
			return 0, fmt.Errorf("sqlite: statement %d: rows affected: %w", i+1, err)
		}
		inserted += n
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("sqlite: commit: %w", err)
	}
	return inserted, nil
}

// Rows reads cols from table in insertion order. NULL cells come back as nil.
func (s *Sandbox) Rows(ctx context.Context, table string, cols []string) ([][]any, error) {
	if len(cols) == 0 {
		return nil, fmt.Errorf("sqlite: rows: no columns")
	}
	q := fmt.Sprintf("SELECT %s FROM %s ORDER BY rowid", strings.Join(cols, ", "), table)
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("sqlite: query: %w", err)
	}
	defer rows.Close()

	var out [][]any
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("sqlite: scan: %w", err)
		}
		out = append(out, vals)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: rows: %w", err)
	}
	return out, nil
}
