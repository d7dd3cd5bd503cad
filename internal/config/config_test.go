package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/vera-byte/vgo-diet/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := config.Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Address != "http://localhost:8080" {
		t.Errorf("server.address = %q", cfg.Server.Address)
	}
	if cfg.API.BasePath != "/api" || cfg.API.Timeout != 5*time.Second {
		t.Errorf("api = %+v", cfg.API)
	}
	if cfg.Notify.Type != "memory" || cfg.Notify.Window != 500*time.Millisecond ||
		cfg.Notify.Key != "error-message" || cfg.Notify.Prefix != "vgo-diet:notify" {
		t.Errorf("notify = %+v", cfg.Notify)
	}
	if cfg.Session.Storage != "file" || cfg.Session.Path == "" {
		t.Errorf("session = %+v", cfg.Session)
	}
	if cfg.DevServer.Port != "3000" || cfg.DevServer.Target != "http://localhost:8080" {
		t.Errorf("devserver = %+v", cfg.DevServer)
	}
}

func TestLoadFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "vgo-diet.yaml")
	content := `
server:
  address: http://diet.internal:9000
api:
  timeout: 2s
notify:
  type: redis
  window: 1s
session:
  storage: memory
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("VGO_DIET_LOG_LEVEL", "debug")

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Address != "http://diet.internal:9000" || cfg.API.Timeout != 2*time.Second {
		t.Errorf("unexpected config: %+v", cfg)
	}
	if cfg.Notify.Type != "redis" || cfg.Notify.Window != time.Second {
		t.Errorf("notify = %+v", cfg.Notify)
	}
	if cfg.Session.Storage != "memory" {
		t.Errorf("session.storage = %q", cfg.Session.Storage)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("log.level = %q, want env override", cfg.Log.Level)
	}
	if cfg.API.BasePath != "/api" {
		t.Errorf("unset keys keep defaults, got base_path %q", cfg.API.BasePath)
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	if _, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for a missing explicit config file")
	}
}

func TestNewLogger(t *testing.T) {
	tests := []struct {
		cfg     config.LogConfig
		wantErr bool
	}{
		{cfg: config.LogConfig{Level: "info", Format: "json"}},
		{cfg: config.LogConfig{Level: "debug", Format: "console"}},
		{cfg: config.LogConfig{Level: "loud", Format: "json"}, wantErr: true},
		{cfg: config.LogConfig{Level: "info", Format: "xml"}, wantErr: true},
	}
	for _, tt := range tests {
		_, err := config.NewLogger(tt.cfg)
		if (err != nil) != tt.wantErr {
			t.Errorf("NewLogger(%+v) err = %v, wantErr %v", tt.cfg, err, tt.wantErr)
		}
	}
}
