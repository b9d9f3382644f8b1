package cfg

import (
	"testing"
	"time"

	"golang.org/x/text/language"
)

func TestGetVersion(t *testing.T) {
	// Test default version
	if GetVersion() == "" {
		t.Error("GetVersion should never return empty string")
	}

	// Test that version is at least "dev" or "unknown"
	version := GetVersion()
	if version != "dev" && version != "unknown" {
		// This is fine, version could be set at build time
		t.Logf("Version: %s", version)
	}
}

func TestLoadArgs_Defaults(t *testing.T) {
	cfg, err := LoadArgs([]string{"--sheet-id", "abc"})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Source != SourceSheet {
		t.Errorf("Expected source 'sheet', got '%s'", cfg.Source)
	}
	if cfg.SheetID != "abc" {
		t.Errorf("Expected sheet ID 'abc', got '%s'", cfg.SheetID)
	}
	if cfg.SheetGID != "0" {
		t.Errorf("Expected default gid '0', got '%s'", cfg.SheetGID)
	}
	if cfg.Port != "8080" {
		t.Errorf("Expected port '8080', got '%s'", cfg.Port)
	}
	if cfg.GetRefreshInterval() != 300*time.Second {
		t.Errorf("Expected refresh interval 300s, got %v", cfg.GetRefreshInterval())
	}
	if cfg.WorkerCount != 1 {
		t.Errorf("Expected worker count 1, got %d", cfg.WorkerCount)
	}
	if cfg.MaxRetries != 0 {
		t.Errorf("Expected no retries by default, got %d", cfg.MaxRetries)
	}
	if cfg.LocaleTag() != language.MustParse("zh-Hant") {
		t.Errorf("Expected zh-Hant locale, got %v", cfg.LocaleTag())
	}
}

func TestLoadArgs_Environment(t *testing.T) {
	t.Setenv("SOURCE", "backend")
	t.Setenv("BACKEND_URL", "https://script.example.com/exec")
	t.Setenv("BACKEND_TOKEN", "secret")
	t.Setenv("REFRESH_INTERVAL", "60")

	cfg, err := LoadArgs([]string{})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Source != SourceBackend {
		t.Errorf("Expected source 'backend', got '%s'", cfg.Source)
	}
	if cfg.BackendURL != "https://script.example.com/exec" || cfg.BackendToken != "secret" {
		t.Errorf("Unexpected backend config: %s %s", cfg.BackendURL, cfg.BackendToken)
	}
	if cfg.GetRefreshInterval() != 60*time.Second {
		t.Errorf("Expected refresh interval 60s, got %v", cfg.GetRefreshInterval())
	}
}

func TestLoadArgs_Validation(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"sheet without id", []string{"--source", "sheet"}},
		{"backend without url", []string{"--source", "backend"}},
		{"unknown source", []string{"--source", "ftp", "--sheet-id", "x"}},
		{"negative timeout", []string{"--sheet-id", "x", "--timeout", "-1"}},
		{"zero workers", []string{"--sheet-id", "x", "--worker-count", "0"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadArgs(tt.args); err == nil {
				t.Errorf("Expected error for %v", tt.args)
			}
		})
	}
}

func TestLocaleTag_Invalid(t *testing.T) {
	cfg := &Cfg{Locale: "not a locale!"}
	if cfg.LocaleTag() != language.TraditionalChinese {
		t.Errorf("Expected fallback to Traditional Chinese, got %v", cfg.LocaleTag())
	}
}

func TestDurations_Fallback(t *testing.T) {
	cfg := &Cfg{}
	if cfg.GetRefreshInterval() != 300*time.Second {
		t.Errorf("Expected default refresh interval, got %v", cfg.GetRefreshInterval())
	}
	if cfg.GetTimeout() != 30*time.Second {
		t.Errorf("Expected default timeout, got %v", cfg.GetTimeout())
	}
}
