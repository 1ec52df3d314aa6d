package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("cannot write config: %v", err)
	}
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `{"channels":{"teams":{"enabled":true,"webhook":"https://example.com/hook"}}}`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.DedupWindowSeconds != 300 {
		t.Errorf("dedup_window_seconds = %d, want default 300", cfg.DedupWindowSeconds)
	}
	if cfg.SendTimeoutSeconds != 10 {
		t.Errorf("send_timeout_seconds = %d, want default 10", cfg.SendTimeoutSeconds)
	}
	if cfg.Logger.Level != "info" {
		t.Errorf("logger level = %q, want info", cfg.Logger.Level)
	}
	if !cfg.Channels.Teams.Enabled {
		t.Error("teams channel not parsed as enabled")
	}
	if cfg.DedupWindow() != 5*time.Minute {
		t.Errorf("DedupWindow() = %v, want 5m", cfg.DedupWindow())
	}
}

func TestLoadMissingFileIsNotConfigured(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	if !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("err = %v, want ErrNotConfigured", err)
	}
}

func TestLoadRejectsBadQuietHours(t *testing.T) {
	path := writeConfig(t, `{"quiet_hours":{"enabled":true,"start":"25:00","end":"08:00"}}`)
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for invalid quiet hours clock")
	}
}

func TestLoadRejectsBadWechatService(t *testing.T) {
	path := writeConfig(t, `{"channels":{"wechat":{"enabled":true,"service":"carrierpigeon","key":"k"}}}`)
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for unknown wechat service")
	}
}

func TestInitWritesDefaultConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json")

	if err := Init(path); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("cannot read written config: %v", err)
	}
	var cfg Config
	if err := json.Unmarshal(content, &cfg); err != nil {
		t.Fatalf("written config is not valid JSON: %v", err)
	}

	if !cfg.QuietHours.Enabled || cfg.QuietHours.Start != "22:00" || cfg.QuietHours.End != "08:00" {
		t.Errorf("quiet hours = %+v, want enabled 22:00-08:00", cfg.QuietHours)
	}
	if got := cfg.Events["security_alert"]; len(got) != 3 {
		t.Errorf("security_alert routing = %v, want three channels", got)
	}
	if cfg.Channels.Teams.Enabled {
		t.Error("default config must not enable any channel")
	}
}

func TestInitRefusesOverwrite(t *testing.T) {
	path := writeConfig(t, `{}`)
	if err := Init(path); err == nil {
		t.Fatal("expected error when config already exists")
	}
}

func TestDefaultPathHonoursEnv(t *testing.T) {
	t.Setenv("ALERTGATE_CONFIG", "/tmp/custom.json")
	path, err := DefaultPath()
	if err != nil {
		t.Fatalf("DefaultPath failed: %v", err)
	}
	if path != "/tmp/custom.json" {
		t.Errorf("path = %q, want /tmp/custom.json", path)
	}
}
