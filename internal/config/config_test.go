package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadWritesDefaultFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg, resolved, err := Load(nil, path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if resolved != path {
		t.Fatalf("resolved path = %s, want %s", resolved, path)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("default config not written: %v", err)
	}

	def := Default()
	if cfg.Addr != def.Addr || cfg.Subprotocol != "json" || !cfg.RosterIncludeUnnamed {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if len(cfg.HealthPaths) != 3 {
		t.Fatalf("health paths = %q", cfg.HealthPaths)
	}
}

func TestLoadFileAndEnvPrecedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := []byte("addr: \":7000\"\nlog_level: debug\nroster_include_unnamed: false\nshutdown_timeout: 2s\n")
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("RELAYCHAT_ADDR", ":7100")

	cfg, _, err := Load(nil, path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Addr != ":7100" {
		t.Fatalf("env should override file, addr = %s", cfg.Addr)
	}
	if cfg.LogLevel != "debug" || cfg.RosterIncludeUnnamed {
		t.Fatalf("file values not applied: %+v", cfg)
	}
	if cfg.ShutdownTimeout != 2*time.Second {
		t.Fatalf("shutdown timeout = %s", cfg.ShutdownTimeout)
	}
}

func TestLoadRejectsInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("send_buffer: -1\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, _, err := Load(nil, path); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestUpdateFrom(t *testing.T) {
	cfg := Default()
	cfg.UpdateFrom(Config{Addr: ":9000", DatabasePath: "relay.db", AllowedOrigins: []string{"http://a.test"}})

	if cfg.Addr != ":9000" || cfg.DatabasePath != "relay.db" || len(cfg.AllowedOrigins) != 1 {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	if cfg.LogLevel != "info" || cfg.SendBuffer != 64 {
		t.Fatalf("zero values should not override: %+v", cfg)
	}
}

func TestLoadEnvReachesEveryDefaultKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	t.Setenv("RELAYCHAT_DATABASE_PATH", "journal.db")
	t.Setenv("RELAYCHAT_READ_HEADER_TIMEOUT", "3s")
	t.Setenv("RELAYCHAT_SEND_BUFFER", "8")

	cfg, _, err := Load(nil, path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DatabasePath != "journal.db" {
		t.Fatalf("database path = %q", cfg.DatabasePath)
	}
	if cfg.ReadHeaderTimeout != 3*time.Second || cfg.SendBuffer != 8 {
		t.Fatalf("env overrides not applied: %+v", cfg)
	}

	written, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read default file: %v", err)
	}
	if !strings.Contains(string(written), "read_header_timeout: 5s") {
		t.Fatalf("default file should hold defaults, got:\n%s", written)
	}
}
