package db

import (
	"context"
	"database/sql"
	"fmt"
)

// Gateway hands out one dedicated connection per unit of work.
type Gateway struct {
	db *sql.DB
}

// NewGateway wraps an open database handle.
func NewGateway(db *sql.DB) *Gateway {
	return &Gateway{db: db}
}

// DB returns the underlying pool.
func (g *Gateway) DB() *sql.DB {
	return g.db
}

// Acquire checks out a connection, runs fn with it and releases it when fn
// returns, whatever the outcome.
func (g *Gateway) Acquire(ctx context.Context, fn func(conn *sql.Conn) error) error {
	conn, err := g.db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("acquiring connection: %w", err)
	}
	defer conn.Close()

	return fn(conn)
}

// Close closes the underlying pool.
func (g *Gateway) Close() error {
	return g.db.Close()
}
