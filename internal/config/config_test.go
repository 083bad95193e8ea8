package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfigIsValid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Errorf("Default config should validate, got %v", err)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Scan.Workers != 8 {
		t.Errorf("Expected default worker count 8, got %d", cfg.Scan.Workers)
	}
	if cfg.Watch.Cron != "0 16 * * 1-5" {
		t.Errorf("Expected default watch cron, got %q", cfg.Watch.Cron)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
scan:
  workers: 4
  timeout: 10s
  days: 130
indicator:
  trend_short: 10
  trend_long: 30
watch:
  codes: ["600519", "000858"]
web:
  port: 9000
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Scan.Workers != 4 {
		t.Errorf("Expected 4 workers, got %d", cfg.Scan.Workers)
	}
	if cfg.Scan.Timeout != 10*time.Second {
		t.Errorf("Expected 10s timeout, got %v", cfg.Scan.Timeout)
	}
	if cfg.Scan.Days != 130 {
		t.Errorf("Expected 130 days, got %d", cfg.Scan.Days)
	}
	if cfg.Indicator.TrendShort != 10 || cfg.Indicator.TrendLong != 30 {
		t.Errorf("Expected trend 10/30, got %d/%d", cfg.Indicator.TrendShort, cfg.Indicator.TrendLong)
	}
	// untouched sections keep their defaults
	if cfg.Indicator.MACDSlow != 26 {
		t.Errorf("Expected default MACD slow 26, got %d", cfg.Indicator.MACDSlow)
	}
	if len(cfg.Watch.Codes) != 2 || cfg.Watch.Codes[0] != "600519" {
		t.Errorf("Unexpected watchlist: %v", cfg.Watch.Codes)
	}
	if cfg.Web.Port != 9000 {
		t.Errorf("Expected port 9000, got %d", cfg.Web.Port)
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
source:
  gateway_url: https://file.example.com
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("ANALYST_GATEWAY_URL", "https://env.example.com")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Source.GatewayURL != "https://env.example.com" {
		t.Errorf("Expected env value to win, got %q", cfg.Source.GatewayURL)
	}
}

func TestLoadRejectsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("scan: ["), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Error("Expected a parse error for malformed YAML")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"zero workers", func(c *Config) { c.Scan.Workers = 0 }, true},
		{"negative timeout", func(c *Config) { c.Scan.Timeout = -time.Second }, true},
		{"zero days", func(c *Config) { c.Scan.Days = 0 }, true},
		{"zero rate limit", func(c *Config) { c.Source.RateLimit = 0 }, true},
		{"empty cron", func(c *Config) { c.Watch.Cron = "" }, true},
		{"port too high", func(c *Config) { c.Web.Port = 70000 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr && err == nil {
				t.Error("Expected a validation error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Expected no error, got %v", err)
			}
		})
	}
}
