package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_DefaultsAndEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("KENNEL_API_SERVER", "https://kennel.example.com/")
	t.Setenv("KENNEL_PAGE_SIZE", "10")

	v, err := New("")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	cfg, err := Load(v)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.APIServer != "https://kennel.example.com" {
		t.Fatalf("expected trimmed api server, got %q", cfg.APIServer)
	}
	if cfg.PageSize != 10 {
		t.Fatalf("expected page size from env, got %d", cfg.PageSize)
	}
	if cfg.Timeout != DefaultTimeout {
		t.Fatalf("expected default timeout, got %s", cfg.Timeout)
	}
	if cfg.SessionFile == "" {
		t.Fatalf("expected a default session file")
	}
}

func TestLoad_FromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "kennelctl.yaml")
	body := "api_server: http://10.0.0.5:3030\ntimeout: 3s\npage_size: -3\nlog_level: debug\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	v, err := New(path)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	cfg, err := Load(v)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.APIServer != "http://10.0.0.5:3030" || cfg.Timeout != 3*time.Second {
		t.Fatalf("unexpected cfg %+v", cfg)
	}
	if cfg.PageSize != 0 {
		t.Fatalf("negative page size must fall back to the screen default, got %d", cfg.PageSize)
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("expected log level from file, got %q", cfg.LogLevel)
	}
}

func TestNew_MissingExplicitFileFails(t *testing.T) {
	if _, err := New(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatalf("expected error for missing explicit config file")
	}
}
