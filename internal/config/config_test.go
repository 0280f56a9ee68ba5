package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.DebounceMillis != 1000 {
		t.Errorf("DebounceMillis = %d, want 1000", cfg.DebounceMillis)
	}
	if cfg.CompletionTimeoutSecs != 120 {
		t.Errorf("CompletionTimeoutSecs = %d, want 120", cfg.CompletionTimeoutSecs)
	}
	if cfg.Port != 3001 {
		t.Errorf("Port = %d, want 3001", cfg.Port)
	}
	if cfg.BindAddr != "127.0.0.1" {
		t.Errorf("BindAddr = %q, want loopback default", cfg.BindAddr)
	}
}

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.DebounceMillis != 1000 {
		t.Errorf("DebounceMillis = %d, want default", cfg.DebounceMillis)
	}
}

func TestLoad_OverlayWins(t *testing.T) {
	tmpDir := t.TempDir()
	content := `{"debounce_millis": 250, "port": 9000, "disabled_tools": ["backup_import"]}`
	if err := os.WriteFile(filepath.Join(tmpDir, "config.json"), []byte(content), 0600); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.DebounceMillis != 250 {
		t.Errorf("DebounceMillis = %d, want 250", cfg.DebounceMillis)
	}
	if cfg.Port != 9000 {
		t.Errorf("Port = %d, want 9000", cfg.Port)
	}
	if cfg.CompletionTimeoutSecs != 120 {
		t.Errorf("CompletionTimeoutSecs = %d, want default preserved", cfg.CompletionTimeoutSecs)
	}
	if len(cfg.DisabledTools) != 1 || cfg.DisabledTools[0] != "backup_import" {
		t.Errorf("DisabledTools = %v", cfg.DisabledTools)
	}
}

func TestLoad_InvalidJSON(t *testing.T) {
	tmpDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(tmpDir, "config.json"), []byte("{broken"), 0600); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	if _, err := Load(tmpDir); err == nil {
		t.Error("Load should fail on invalid JSON")
	}
}

func TestMerge_ArraysDeduplicated(t *testing.T) {
	base := &Config{AllowedOrigins: []string{"http://a", "http://b"}}
	overlay := &Config{AllowedOrigins: []string{"http://b", "http://c", " "}}

	merged := Merge(base, overlay)

	want := []string{"http://a", "http://b", "http://c"}
	if len(merged.AllowedOrigins) != len(want) {
		t.Fatalf("AllowedOrigins = %v, want %v", merged.AllowedOrigins, want)
	}
	for n := range want {
		if merged.AllowedOrigins[n] != want[n] {
			t.Errorf("AllowedOrigins[%d] = %q, want %q", n, merged.AllowedOrigins[n], want[n])
		}
	}
}

func TestDebounce(t *testing.T) {
	cfg := &Config{DebounceMillis: 500}
	if got := cfg.Debounce(); got != 500*time.Millisecond {
		t.Errorf("Debounce = %v", got)
	}

	cfg = &Config{DebounceMillis: -1}
	if got := cfg.Debounce(); got != 0 {
		t.Errorf("Debounce = %v, want 0 for negative (immediate save)", got)
	}
}

func TestCompletionTimeout(t *testing.T) {
	cfg := &Config{CompletionTimeoutSecs: 30}
	if got := cfg.CompletionTimeout(); got != 30*time.Second {
		t.Errorf("CompletionTimeout = %v", got)
	}
}
