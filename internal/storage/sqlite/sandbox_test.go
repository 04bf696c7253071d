package sqlite

import (
	"context"
	"testing"

	"ordersql/internal/config"
	"ordersql/internal/ddl"
)

func newSandbox(tb testing.TB) *Sandbox {
	tb.Helper()
	s, err := Open(context.Background(), MemoryDSN)
	if err != nil {
		tb.Fatalf("open sqlite %s: %v", MemoryDSN, err)
	}
	tb.Cleanup(func() { _ = s.Close() })
	return s
}

/*
TestLoadAndRows verifies that Load creates the target table, inserts every
statement and that Rows returns them in insertion order.
*/
func TestLoadAndRows(t *testing.T) {
	ctx := context.Background()
	s := newSandbox(t)
	def := ddl.ForTarget(config.Default().Target)

	n, err := s.Load(ctx, def, ddl.Verbatim, []string{
		"INSERT INTO customer_orders (customer_name, customer_email, order_id, total_price, sale_date) VALUES ('Ann', 'a@b.com', '1023', 20.0, '2024-04-03');",
		"INSERT INTO customer_orders (customer_name, customer_email, order_id, total_price, sale_date) VALUES ('Bo', 'b@c.com', '1024', 19.9, NULL);",
	})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if n != 2 {
		t.Fatalf("inserted %d; want 2", n)
	}

	rows, err := s.Rows(ctx, "customer_orders", []string{"customer_name", "order_id", "total_price", "sale_date"})
	if err != nil {
		t.Fatalf("Rows: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows; want 2", len(rows))
	}
	if rows[0][0] != "Ann" || rows[1][0] != "Bo" {
		t.Fatalf("order not preserved: %v", rows)
	}
	// INTEGER affinity turns the quoted id into a number.
	if id, ok := rows[0][1].(int64); !ok || id != 1023 {
		t.Fatalf("order_id = %#v; want int64(1023)", rows[0][1])
	}
	if p, ok := rows[1][2].(float64); !ok || p != 19.9 {
		t.Fatalf("total_price = %#v; want 19.9", rows[1][2])
	}
	if rows[1][3] != nil {
		t.Fatalf("sale_date = %#v; want nil", rows[1][3])
	}
}

// TestLoadRollsBack verifies a broken statement leaves no table behind.
func TestLoadRollsBack(t *testing.T) {
	ctx := context.Background()
	s := newSandbox(t)
	def := ddl.ForTarget(config.Default().Target)

	_, err := s.Load(ctx, def, ddl.Verbatim, []string{
		"INSERT INTO customer_orders (customer_name) VALUES ('O'Brien');",
	})
	if err == nil {
		t.Fatal("Load accepted an unterminated string literal")
	}
	if _, err := s.Rows(ctx, "customer_orders", []string{"customer_name"}); err == nil {
		t.Fatal("table survived a rolled-back load")
	}
}

func TestOpen_EmptyDSN(t *testing.T) {
	if _, err := Open(context.Background(), " "); err == nil {
		t.Fatal("Open accepted an empty DSN")
	}
}
