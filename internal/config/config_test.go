package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	// Clean environment
	os.Unsetenv("MATCHBOX_OUTPUT")
	os.Unsetenv("MATCHBOX_LIFT_TO_NULL")
	os.Unsetenv("MATCHBOX_TIME_LAYOUT")
	os.Unsetenv("MATCHBOX_DB_URL")

	t.Run("defaults", func(t *testing.T) {
		cfg, err := Load("")
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if cfg.Output != "text" {
			t.Errorf("expected output text, got %s", cfg.Output)
		}
		if !cfg.LiftToNull {
			t.Error("expected lift_to_null true by default")
		}
		if cfg.TimeLayout != time.RFC3339 {
			t.Errorf("expected RFC3339 time layout, got %s", cfg.TimeLayout)
		}
		if cfg.DBURL != "" {
			t.Errorf("expected empty db_url, got %s", cfg.DBURL)
		}
	})

	t.Run("environment overrides", func(t *testing.T) {
		os.Setenv("MATCHBOX_OUTPUT", "json")
		os.Setenv("MATCHBOX_LIFT_TO_NULL", "false")
		defer os.Unsetenv("MATCHBOX_OUTPUT")
		defer os.Unsetenv("MATCHBOX_LIFT_TO_NULL")

		cfg, err := Load("")
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if cfg.Output != "json" {
			t.Errorf("expected output json, got %s", cfg.Output)
		}
		if cfg.LiftToNull {
			t.Error("expected lift_to_null false from environment")
		}
	})

	t.Run("config file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "matchbox.yaml")
		content := "output: json\ndb_url: sqlite://rules.db\n"
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatalf("write config: %v", err)
		}

		cfg, err := Load(path)
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if cfg.Output != "json" {
			t.Errorf("expected output json, got %s", cfg.Output)
		}
		if cfg.DBURL != "sqlite://rules.db" {
			t.Errorf("expected sqlite db_url, got %s", cfg.DBURL)
		}
	})

	t.Run("missing config file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
		if err == nil {
			t.Error("expected error for missing config file")
		}
	})

	t.Run("invalid output mode", func(t *testing.T) {
		os.Setenv("MATCHBOX_OUTPUT", "xml")
		defer os.Unsetenv("MATCHBOX_OUTPUT")

		_, err := Load("")
		if err == nil {
			t.Error("expected error for unsupported output mode")
		}
	})

	t.Run("db_url without scheme", func(t *testing.T) {
		os.Setenv("MATCHBOX_DB_URL", "rules.db")
		defer os.Unsetenv("MATCHBOX_DB_URL")

		_, err := Load("")
		if err == nil {
			t.Error("expected error for db_url without scheme")
		}
	})
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if err := validateConfig(cfg); err != nil {
		t.Errorf("DefaultConfig does not validate: %v", err)
	}
}
