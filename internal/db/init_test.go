package db

import (
	"context"
	"database/sql"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"
)

func TestInitializeRunsScriptsInOrder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "order.db")
	scripts := fstest.MapFS{
		"first.sql":  &fstest.MapFile{Data: []byte("CREATE TABLE parents (id INTEGER PRIMARY KEY);")},
		"second.sql": &fstest.MapFile{Data: []byte("CREATE TABLE children (parent_id INTEGER REFERENCES parents(id));\nINSERT INTO parents (id) VALUES (1);\nINSERT INTO children (parent_id) VALUES (1);")},
	}

	if err := Initialize(context.Background(), path, scripts, []string{"first.sql", "second.sql"}); err != nil {
		t.Fatalf("Initialize: %v", err)
	}

	db := openAt(t, path)
	if n := countRows(t, db, "children"); n != 1 {
		t.Errorf("expected 1 child row, got %d", n)
	}
}

func TestInitializeSkipsMissingScript(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.db")
	scripts := fstest.MapFS{
		"items.sql": &fstest.MapFile{Data: []byte("CREATE TABLE items (id INTEGER PRIMARY KEY);")},
	}

	err := Initialize(context.Background(), path, scripts, []string{"items.sql", "orders.sql", "data.sql"})
	if err != nil {
		t.Fatalf("expected missing scripts to be skipped, got %v", err)
	}

	db := openAt(t, path)
	if n := countRows(t, db, "items"); n != 0 {
		t.Errorf("expected empty items table, got %d rows", n)
	}
}

func TestInitializeFailsOnBadScript(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.db")
	scripts := fstest.MapFS{
		"good.sql": &fstest.MapFile{Data: []byte("CREATE TABLE items (id INTEGER PRIMARY KEY);")},
		"bad.sql":  &fstest.MapFile{Data: []byte("CREAT TABLE things (id INT);")},
		"late.sql": &fstest.MapFile{Data: []byte("CREATE TABLE late (id INTEGER PRIMARY KEY);")},
	}

	err := Initialize(context.Background(), path, scripts, []string{"good.sql", "bad.sql", "late.sql"})
	if err == nil {
		t.Fatal("expected error from bad script")
	}
	if !strings.Contains(err.Error(), "bad.sql") {
		t.Errorf("expected error to name the failing script, got %v", err)
	}

	db := openAt(t, path)
	if tableExists(t, db, "late") {
		t.Error("expected scripts after the failing one not to run")
	}
}

func TestInitializeIsDestructive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.db")
	ctx := context.Background()

	if err := Initialize(ctx, path, Scripts(), SchemaScripts); err != nil {
		t.Fatalf("Initialize: %v", err)
	}

	db := openAt(t, path)
	if _, err := db.Exec(`INSERT INTO items (title, barcode, price) VALUES ('Old', 'B0', 1.0)`); err != nil {
		t.Fatalf("seeding row: %v", err)
	}
	db.Close()

	if err := Initialize(ctx, path, Scripts(), SchemaScripts); err != nil {
		t.Fatalf("second Initialize: %v", err)
	}

	db = openAt(t, path)
	if n := countRows(t, db, "items"); n != 0 {
		t.Errorf("expected reinitialized store to be empty, got %d items", n)
	}
}

func TestInitializeEmbeddedSeed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.db")

	if err := Initialize(context.Background(), path, Scripts(), AllScripts); err != nil {
		t.Fatalf("Initialize: %v", err)
	}

	db := openAt(t, path)
	if n := countRows(t, db, "items"); n != 5 {
		t.Errorf("expected 5 seeded items, got %d", n)
	}
	if n := countRows(t, db, "orders"); n != 3 {
		t.Errorf("expected 3 seeded orders, got %d", n)
	}
	if n := countRows(t, db, "order_items"); n != 4 {
		t.Errorf("expected 4 seeded order items, got %d", n)
	}

	// Seeded totals follow the order-item subtotals.
	var mismatched int
	err := db.QueryRow(`
		SELECT COUNT(*) FROM orders o
		WHERE ABS(o.total_amount - (SELECT COALESCE(SUM(subtotal), 0) FROM order_items WHERE order_id = o.id)) > 0.001`,
	).Scan(&mismatched)
	if err != nil {
		t.Fatalf("checking totals: %v", err)
	}
	if mismatched != 0 {
		t.Errorf("expected seeded totals to match subtotals, %d orders differ", mismatched)
	}
}

func TestOrderItemsCascadeOnOrderDelete(t *testing.T) {
	database := NewTestDB(t)

	if _, err := database.Exec(`INSERT INTO orders (id, customer_id, order_number) VALUES (1, 1, 'A')`); err != nil {
		t.Fatalf("inserting order: %v", err)
	}
	if _, err := database.Exec(`INSERT INTO order_items (order_id, item_id, unit_price, subtotal) VALUES (1, 9, 1, 1)`); err != nil {
		t.Fatalf("inserting order item: %v", err)
	}
	if _, err := database.Exec(`DELETE FROM orders WHERE id = 1`); err != nil {
		t.Fatalf("deleting order: %v", err)
	}

	if n := countRows(t, database, "order_items"); n != 0 {
		t.Errorf("expected order items to cascade, got %d rows", n)
	}
}

func openAt(t *testing.T, path string) *sql.DB {
	t.Helper()
	db, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func countRows(t *testing.T, db *sql.DB, table string) int {
	t.Helper()
	var n int
	if err := db.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&n); err != nil {
		t.Fatalf("counting %s: %v", table, err)
	}
	return n
}

func tableExists(t *testing.T, db *sql.DB, name string) bool {
	t.Helper()
	var found string
	err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, name).Scan(&found)
	if err == sql.ErrNoRows {
		return false
	}
	if err != nil {
		t.Fatalf("checking table %s: %v", name, err)
	}
	return true
}
