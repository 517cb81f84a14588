package db

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
)

//go:embed sql/*.sql
var embedded embed.FS

// Scripts returns the embedded schema and seed scripts.
func Scripts() fs.FS {
	sub, err := fs.Sub(embedded, "sql")
	if err != nil {
		panic(fmt.Sprintf("embedded sql scripts: %v", err))
	}
	return sub
}

// Script names, in the order they must run.
var (
	SchemaScripts = []string{"items.sql", "orders.sql"}
	SeedScripts   = []string{"data.sql"}
	AllScripts    = append(append([]string{}, SchemaScripts...), SeedScripts...)
)

// Initialize destroys any existing database at path, recreates it and runs
// the named scripts from scripts in order. A script that does not exist is
// skipped with a warning; any other failure aborts initialization.
//
// Initialize is destructive and must only run at startup, before the
// database is opened for serving.
func Initialize(ctx context.Context, path string, scripts fs.FS, names []string) error {
	if err := removeDatabase(path); err != nil {
		return err
	}

	db, err := Open(path)
	if err != nil {
		return err
	}
	defer db.Close()

	for _, name := range names {
		slog.Info("loading sql script", "script", name)

		script, err := fs.ReadFile(scripts, name)
		if errors.Is(err, fs.ErrNotExist) {
			slog.Warn("sql script not found, skipping", "script", name)
			continue
		}
		if err != nil {
			return fmt.Errorf("reading script %s: %w", name, err)
		}

		if _, err := db.ExecContext(ctx, string(script)); err != nil {
			return fmt.Errorf("running script %s: %w", name, err)
		}
	}

	return nil
}

// removeDatabase deletes the database file and its WAL sidecars.
func removeDatabase(path string) error {
	if path == "" || path == ":memory:" {
		return nil
	}
	for _, p := range []string{path, path + "-wal", path + "-shm"} {
		if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("removing %s: %w", p, err)
		}
	}
	return nil
}
