package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/erazemk/retailapi/internal/api"
	"github.com/erazemk/retailapi/internal/db"
	"github.com/erazemk/retailapi/internal/telemetry"
)

const serviceName = "retailapi"

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Reinitialize the database and serve the API",
		Long: `Serve deletes any existing database file, recreates it from the
schema and seed scripts, and then starts the HTTP server.

Examples:
  retailapi serve
  retailapi serve --db /tmp/store.db --addr :9000
  retailapi serve --sql-dir ./sql`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&cfg.DBPath, "db", "d", cfg.DBPath, "SQLite database path (recreated on start)")
	flags.StringVarP(&cfg.Addr, "addr", "a", cfg.Addr, "listen address")
	flags.StringVar(&cfg.SQLDir, "sql-dir", cfg.SQLDir, "directory with items.sql, orders.sql and data.sql (default: embedded scripts)")
	flags.StringVarP(&cfg.LogPath, "log", "l", cfg.LogPath, "log file path (default: stdout/stderr only)")
	flags.Var((*levelValue)(&cfg.LogLevel), "log-level", "minimum log level (DEBUG, INFO, WARN, ERROR)")
	flags.StringVar(&cfg.TokenSecret, "token-secret", cfg.TokenSecret, "require bearer tokens signed with this secret for writes")
	flags.StringVar(&cfg.OTelEndpoint, "otel-endpoint", cfg.OTelEndpoint, "OTLP/HTTP trace endpoint (default: tracing off)")
	flags.DurationVar(&cfg.ShutdownTimeout, "shutdown-timeout", cfg.ShutdownTimeout, "graceful shutdown timeout")

	return cmd
}

func runServe(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	// Set up structured logging: below ERROR -> stdout, ERROR -> stderr.
	closeLog, err := setupLogger(cfg.LogPath, cfg.LogLevel)
	if err != nil {
		return err
	}
	defer closeLog()

	shutdownTracing, err := telemetry.Setup(ctx, serviceName, cfg.OTelEndpoint)
	if err != nil {
		slog.Error("failed to set up tracing", "error", err)
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := shutdownTracing(shutdownCtx); err != nil {
			slog.Error("tracing shutdown", "error", err)
		}
	}()

	// Startup stage: rebuild the store before any request can be served.
	var scripts fs.FS = db.Scripts()
	if cfg.SQLDir != "" {
		scripts = os.DirFS(cfg.SQLDir)
	}
	if err := db.Initialize(ctx, cfg.DBPath, scripts, db.AllScripts); err != nil {
		slog.Error("failed to initialize database", "path", cfg.DBPath, "error", err)
		return err
	}

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		return err
	}
	gateway := db.NewGateway(database)
	defer gateway.Close()

	slog.Info("database ready", "path", cfg.DBPath)
	if cfg.TokenSecret != "" {
		slog.Info("write protection enabled")
	}

	handler := api.LoggingMiddleware(api.NewRouter(gateway, api.Options{
		TokenSecret: cfg.TokenSecret,
	}))

	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	// Graceful shutdown on SIGINT/SIGTERM.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	shutdownDone := make(chan struct{})
	go func() {
		defer close(shutdownDone)
		sig := <-quit
		slog.Info("shutdown signal received", "signal", sig.String())

		ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			slog.Error("server forced to shutdown", "error", err)
		}
	}()

	slog.Info("server started", "addr", cfg.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server error", "error", err)
		return fmt.Errorf("serving: %w", err)
	}
	<-shutdownDone

	slog.Info("server stopped, closing database")
	return nil
}
