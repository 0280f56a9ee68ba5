package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Config holds application configuration, loaded once at startup.
// LLM provider settings are a separate, persisted entity (see the
// settings package); this file covers process-level knobs only.
type Config struct {
	// DebounceMillis is the autosave inactivity window. 0 uses the
	// default; a negative value disables debouncing (immediate save).
	DebounceMillis int `json:"debounce_millis,omitempty"`

	// CompletionTimeoutSecs bounds a single completion-provider call.
	// A hung provider surfaces as PROVIDER_ERROR instead of leaving
	// the caller waiting forever.
	CompletionTimeoutSecs int `json:"completion_timeout_secs,omitempty"`

	// BindAddr and Port configure the REST API server.
	BindAddr string `json:"bind_addr,omitempty"`
	Port     int    `json:"port,omitempty"`

	// AllowedOrigins is the CORS allowlist for the SPA frontend.
	AllowedOrigins []string `json:"allowed_origins,omitempty"`

	// DBMaxOpenConns limits the maximum number of open database
	// connections. 0 means use sql.DB default.
	DBMaxOpenConns int `json:"db_max_open_conns,omitempty"`

	// DBMaxIdleConns limits the maximum number of idle database
	// connections. 0 means use sql.DB default.
	DBMaxIdleConns int `json:"db_max_idle_conns,omitempty"`

	// DisabledTools is a list of MCP tool names to exclude from
	// registration. Unknown tool names are ignored with a warning.
	DisabledTools []string `json:"disabled_tools,omitempty"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		DebounceMillis:        1000,
		CompletionTimeoutSecs: 120,
		BindAddr:              "127.0.0.1",
		Port:                  3001,
		AllowedOrigins:        []string{"http://localhost:5173", "http://localhost:3000"},
	}
}

// Debounce returns the autosave window as a duration.
func (c *Config) Debounce() time.Duration {
	if c.DebounceMillis < 0 {
		return 0
	}
	return time.Duration(c.DebounceMillis) * time.Millisecond
}

// CompletionTimeout returns the provider call timeout as a duration.
func (c *Config) CompletionTimeout() time.Duration {
	return time.Duration(c.CompletionTimeoutSecs) * time.Second
}

// Load loads configuration from baseDir/config.json, merged over
// defaults. Returns defaults if the file doesn't exist.
func Load(baseDir string) (*Config, error) {
	overlay, err := loadFileRaw(filepath.Join(baseDir, "config.json"))
	if err != nil {
		return nil, err
	}
	return Merge(DefaultConfig(), overlay), nil
}

// loadFileRaw loads configuration from a specific file path.
// Returns zero-valued config if the file doesn't exist (not defaults).
func loadFileRaw(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, err
	}

	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Merge combines base and overlay configs.
// Overlay values take precedence for scalars; arrays are merged and
// deduplicated.
func Merge(base, overlay *Config) *Config {
	result := &Config{}

	result.DebounceMillis = overlay.DebounceMillis
	if result.DebounceMillis == 0 {
		result.DebounceMillis = base.DebounceMillis
	}

	result.CompletionTimeoutSecs = overlay.CompletionTimeoutSecs
	if result.CompletionTimeoutSecs == 0 {
		result.CompletionTimeoutSecs = base.CompletionTimeoutSecs
	}

	result.BindAddr = overlay.BindAddr
	if result.BindAddr == "" {
		result.BindAddr = base.BindAddr
	}

	result.Port = overlay.Port
	if result.Port == 0 {
		result.Port = base.Port
	}

	result.DBMaxOpenConns = overlay.DBMaxOpenConns
	if result.DBMaxOpenConns == 0 {
		result.DBMaxOpenConns = base.DBMaxOpenConns
	}

	result.DBMaxIdleConns = overlay.DBMaxIdleConns
	if result.DBMaxIdleConns == 0 {
		result.DBMaxIdleConns = base.DBMaxIdleConns
	}

	result.AllowedOrigins = mergeStringSlice(base.AllowedOrigins, overlay.AllowedOrigins)
	result.DisabledTools = mergeStringSlice(base.DisabledTools, overlay.DisabledTools)

	return result
}

// mergeStringSlice combines two slices, trims whitespace, and removes
// duplicates.
func mergeStringSlice(a, b []string) []string {
	seen := make(map[string]bool)
	result := make([]string, 0, len(a)+len(b))

	for _, s := range append(append([]string{}, a...), b...) {
		s = strings.TrimSpace(s)
		if s != "" && !seen[s] {
			seen[s] = true
			result = append(result, s)
		}
	}

	if len(result) == 0 {
		return nil
	}
	return result
}
