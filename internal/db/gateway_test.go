package db

import (
	"context"
	"database/sql"
	"errors"
	"testing"
)

func TestAcquireReleasesConnection(t *testing.T) {
	gw := NewGateway(NewTestDB(t))
	ctx := context.Background()

	err := gw.Acquire(ctx, func(conn *sql.Conn) error {
		if inUse := gw.DB().Stats().InUse; inUse != 1 {
			t.Errorf("expected 1 connection in use inside Acquire, got %d", inUse)
		}
		var one int
		return conn.QueryRowContext(ctx, "SELECT 1").Scan(&one)
	})
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}

	if inUse := gw.DB().Stats().InUse; inUse != 0 {
		t.Errorf("expected connection to be released, %d still in use", inUse)
	}
}

func TestAcquireReleasesConnectionOnError(t *testing.T) {
	gw := NewGateway(NewTestDB(t))
	boom := errors.New("boom")

	err := gw.Acquire(context.Background(), func(*sql.Conn) error {
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected handler error to propagate, got %v", err)
	}

	if inUse := gw.DB().Stats().InUse; inUse != 0 {
		t.Errorf("expected connection to be released, %d still in use", inUse)
	}
}

func TestAcquireForeignKeysEnabled(t *testing.T) {
	gw := NewGateway(NewTestDB(t))
	ctx := context.Background()

	err := gw.Acquire(ctx, func(conn *sql.Conn) error {
		var enabled int
		if err := conn.QueryRowContext(ctx, "PRAGMA foreign_keys").Scan(&enabled); err != nil {
			return err
		}
		if enabled != 1 {
			t.Errorf("expected foreign_keys=1 on pooled connection, got %d", enabled)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
}
