package main

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/erazemk/retailapi/internal/auth"
)

func TestLevelRouter(t *testing.T) {
	var stdout, stderr bytes.Buffer
	logger := slog.New(&levelRouter{
		stdout: slog.NewTextHandler(&stdout, nil),
		stderr: slog.NewTextHandler(&stderr, nil),
	})

	logger.Debug("hidden")
	logger.Info("started")
	logger.Warn("script missing")
	logger.Error("request failed")

	if strings.Contains(stdout.String(), "hidden") {
		t.Error("debug record should be dropped")
	}
	if !strings.Contains(stdout.String(), "started") || !strings.Contains(stdout.String(), "script missing") {
		t.Errorf("stdout missing info/warn records: %q", stdout.String())
	}
	if strings.Contains(stdout.String(), "request failed") {
		t.Error("error record written to stdout")
	}
	if !strings.Contains(stderr.String(), "request failed") {
		t.Errorf("stderr missing error record: %q", stderr.String())
	}
}

func TestLevelRouterWithAttrs(t *testing.T) {
	var stdout, stderr bytes.Buffer
	var h slog.Handler = &levelRouter{
		stdout: slog.NewTextHandler(&stdout, nil),
		stderr: slog.NewTextHandler(&stderr, nil),
	}
	h = h.WithAttrs([]slog.Attr{slog.String("component", "db")})

	if !h.Enabled(context.Background(), slog.LevelWarn) {
		t.Fatal("warn should be enabled")
	}
	slog.New(h).Error("boom")

	if !strings.Contains(stderr.String(), "component=db") {
		t.Errorf("attrs not propagated: %q", stderr.String())
	}
}

func TestLevelRouterMinimumLevel(t *testing.T) {
	var stdout bytes.Buffer
	lr := &levelRouter{
		level:  slog.LevelWarn,
		stdout: slog.NewTextHandler(&stdout, &slog.HandlerOptions{Level: slog.LevelWarn}),
		stderr: slog.NewTextHandler(&bytes.Buffer{}, nil),
	}

	if lr.Enabled(context.Background(), slog.LevelInfo) {
		t.Error("info should be dropped below a WARN threshold")
	}
	if !lr.WithGroup("http").Enabled(context.Background(), slog.LevelWarn) {
		t.Error("threshold lost by WithGroup")
	}
}

func TestSetupLoggerWritesFile(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	path := filepath.Join(t.TempDir(), "retailapi.log")
	cleanup, err := setupLogger(path, slog.LevelDebug)
	if err != nil {
		t.Fatalf("setupLogger: %v", err)
	}

	slog.Debug("opening database")
	slog.Error("request failed")
	cleanup()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	out := string(data)
	for _, want := range []string{"opening database", "request failed", "service=retailapi"} {
		if !strings.Contains(out, want) {
			t.Errorf("log file missing %q: %q", want, out)
		}
	}
}

func TestSetupLoggerBadPath(t *testing.T) {
	cleanup, err := setupLogger(filepath.Join(t.TempDir(), "missing", "x.log"), slog.LevelInfo)
	if err == nil {
		t.Fatal("expected error for unwritable log path")
	}
	if cleanup == nil {
		t.Fatal("cleanup must never be nil")
	}
	cleanup()
}

func TestLevelValue(t *testing.T) {
	level := slog.LevelInfo
	v := (*levelValue)(&level)

	if err := v.Set("warn"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if level != slog.LevelWarn || v.String() != "WARN" {
		t.Errorf("expected WARN, got %v (%s)", level, v.String())
	}
	if err := v.Set("chatty"); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestTokenCommand(t *testing.T) {
	cmd := newTokenCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--token-secret", "s3cret", "--subject", "ci", "--ttl", "1h"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("token command: %v", err)
	}

	claims, err := auth.ValidateToken("s3cret", strings.TrimSpace(out.String()))
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.Subject != "ci" {
		t.Errorf("subject = %q, want ci", claims.Subject)
	}
	if ttl := time.Until(claims.ExpiresAt.Time); ttl > time.Hour || ttl < 59*time.Minute {
		t.Errorf("unexpected expiry in %v", ttl)
	}
}

func TestTokenCommandWithoutSecret(t *testing.T) {
	cfg.TokenSecret = ""
	cmd := newTokenCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{})

	if err := cmd.Execute(); err == nil {
		t.Fatal("expected error without a signing secret")
	}
}
