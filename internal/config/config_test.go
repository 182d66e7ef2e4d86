package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("expected no error for missing file, got %v", err)
	}
	if cfg.Innings.BallsPerOver != nil || cfg.Archive.Enabled != nil {
		t.Fatalf("expected unset fields, got %+v", cfg)
	}
}

func TestLoadConfigEmptyPath(t *testing.T) {
	if _, err := LoadConfig(""); err == nil {
		t.Fatalf("expected error for empty path")
	}
}

func TestLoadConfigSections(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	body := `[innings]
balls-per-over = 8
max-wickets = 10

[display]
history-order = "oldest-first"
strict = true

[archive]
enabled = false
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Innings.BallsPerOver == nil || *cfg.Innings.BallsPerOver != 8 {
		t.Fatalf("unexpected balls-per-over: %v", cfg.Innings.BallsPerOver)
	}
	if cfg.Innings.MaxWickets == nil || *cfg.Innings.MaxWickets != 10 {
		t.Fatalf("unexpected max-wickets: %v", cfg.Innings.MaxWickets)
	}
	if cfg.Display.HistoryOrder == nil || *cfg.Display.HistoryOrder != "oldest-first" {
		t.Fatalf("unexpected history-order: %v", cfg.Display.HistoryOrder)
	}
	if cfg.Display.Strict == nil || !*cfg.Display.Strict {
		t.Fatalf("expected strict to be set")
	}
	if cfg.Archive.Enabled == nil || *cfg.Archive.Enabled {
		t.Fatalf("expected archive disabled")
	}
	if cfg.Archive.Path != nil {
		t.Fatalf("expected archive path unset")
	}
}

func TestLoadConfigUnknownKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[innings]\novers = 20\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	_, err := LoadConfig(path)
	if err == nil || !strings.Contains(err.Error(), "innings.overs") {
		t.Fatalf("expected unknown key error, got %v", err)
	}
}

func TestDefaultPathsFollowXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/cfg")
	t.Setenv("XDG_DATA_HOME", "/tmp/data")
	if got := DefaultConfigPath(); got != filepath.Join("/tmp/cfg", "crease", "config.toml") {
		t.Fatalf("unexpected config path %s", got)
	}
	if got := DefaultDBPath(); got != filepath.Join("/tmp/data", "crease", "crease.db") {
		t.Fatalf("unexpected db path %s", got)
	}
}
