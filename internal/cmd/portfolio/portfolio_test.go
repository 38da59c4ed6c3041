package portfolio

import (
	"context"
	"flag"
	"testing"
	"time"
)

func TestParseConfigDefaults(t *testing.T) {
	t.Parallel()

	fs := flag.NewFlagSet("portfolio", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, nil)
	if err != nil {
		t.Fatalf("ParseConfig() error = %v", err)
	}
	if cfg.HTTPAddr != "localhost:3000" {
		t.Fatalf("HTTPAddr = %q, want %q", cfg.HTTPAddr, "localhost:3000")
	}
	if cfg.StorageBackend != "json" {
		t.Fatalf("StorageBackend = %q, want %q", cfg.StorageBackend, "json")
	}
	if cfg.DataPath != "data/portfolio.json" {
		t.Fatalf("DataPath = %q, want %q", cfg.DataPath, "data/portfolio.json")
	}
	if cfg.AdminUsername != "admin" || cfg.AdminPassword != "admin123" {
		t.Fatalf("admin = %q/%q, want admin/admin123", cfg.AdminUsername, cfg.AdminPassword)
	}
	if cfg.SessionTTL != 24*time.Hour {
		t.Fatalf("SessionTTL = %v, want 24h", cfg.SessionTTL)
	}
	if cfg.WatchData {
		t.Fatalf("WatchData = %t, want false", cfg.WatchData)
	}
}

func TestParseConfigOverrideFlags(t *testing.T) {
	t.Parallel()

	fs := flag.NewFlagSet("portfolio", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, []string{"-http-addr", "127.0.0.1:9002", "-storage", "sqlite", "-watch"})
	if err != nil {
		t.Fatalf("ParseConfig() error = %v", err)
	}
	if cfg.HTTPAddr != "127.0.0.1:9002" {
		t.Fatalf("HTTPAddr = %q, want %q", cfg.HTTPAddr, "127.0.0.1:9002")
	}
	if cfg.StorageBackend != "sqlite" {
		t.Fatalf("StorageBackend = %q, want %q", cfg.StorageBackend, "sqlite")
	}
	if !cfg.WatchData {
		t.Fatal("WatchData = false, want true")
	}
}

func TestParseConfigReadsEnv(t *testing.T) {
	t.Setenv("PORTFOLIO_JWT_SECRET", "from-env")
	t.Setenv("PORTFOLIO_SESSION_TTL", "2h")
	t.Setenv("PORTFOLIO_COOKIE_SECURE", "true")

	fs := flag.NewFlagSet("portfolio", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, nil)
	if err != nil {
		t.Fatalf("ParseConfig() error = %v", err)
	}
	app := cfg.AppConfig()
	if app.Session.Secret != "from-env" {
		t.Fatalf("Secret = %q, want %q", app.Session.Secret, "from-env")
	}
	if app.Session.TTL != 2*time.Hour {
		t.Fatalf("TTL = %v, want 2h", app.Session.TTL)
	}
	if !app.Cookie.ForceSecure {
		t.Fatal("ForceSecure = false, want true")
	}
}

func TestParseConfigRejectsUnknownFlag(t *testing.T) {
	t.Parallel()

	fs := flag.NewFlagSet("portfolio", flag.ContinueOnError)
	fs.SetOutput(devNull{})
	if _, err := ParseConfig(fs, []string{"-nope"}); err == nil {
		t.Fatal("expected unknown flag error")
	}
}

func TestRunRejectsBadLogFormat(t *testing.T) {
	t.Parallel()

	err := Run(context.Background(), Config{LogFormat: "xml"})
	if err == nil {
		t.Fatal("expected log format error")
	}
}

type devNull struct{}

func (devNull) Write(p []byte) (int, error) { return len(p), nil }
