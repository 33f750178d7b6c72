package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("Port = %d", cfg.Server.Port)
	}
	if cfg.Server.Timeout != 30*time.Second {
		t.Errorf("Timeout = %v", cfg.Server.Timeout)
	}
	if cfg.DB.Path != "replaygen.db" {
		t.Errorf("DB.Path = %q", cfg.DB.Path)
	}
	if cfg.Telemetry.Enabled {
		t.Error("telemetry must default to off")
	}
}

func TestLoad_YAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte(`
server:
  port: 9090
  timeout: 5s
generator:
  component_name: CheckoutForm
telemetry:
  enabled: true
`)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Port = %d", cfg.Server.Port)
	}
	if cfg.Server.Timeout != 5*time.Second {
		t.Errorf("Timeout = %v", cfg.Server.Timeout)
	}
	if cfg.Generator.ComponentName != "CheckoutForm" {
		t.Errorf("ComponentName = %q", cfg.Generator.ComponentName)
	}
	if !cfg.Telemetry.Enabled {
		t.Error("telemetry must be enabled")
	}
	if cfg.DB.Path != "replaygen.db" {
		t.Errorf("unset keys keep their defaults, DB.Path = %q", cfg.DB.Path)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("server:\n  port: 9090\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("REPLAYGEN_SERVER__PORT", "7070")
	t.Setenv("REPLAYGEN_GENERATOR__TEST_NAME", "replays the checkout flow")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Port != 7070 {
		t.Errorf("env must win over the file, Port = %d", cfg.Server.Port)
	}
	if cfg.Generator.TestName != "replays the checkout flow" {
		t.Errorf("TestName = %q", cfg.Generator.TestName)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/config.yaml"); err == nil {
		t.Fatal("expected an error for a missing config file")
	}
}
