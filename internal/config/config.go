// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides unified configuration loading and management for verifact.
//
// Configuration file locations (in order of precedence):
//   - Environment variables (VERIFACT_*)
//   - ~/.verifact/config.toml
//   - Built-in defaults
package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/jeranaias/verifact-tui/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete verifact configuration.
type Config struct {
	Version string `toml:"version" json:"version"`

	// Verification service
	Verifier VerifierConfig `toml:"verifier" json:"verifier"`

	// Verification history storage
	History HistoryConfig `toml:"history" json:"history"`

	// Terminal UI
	UI UIConfig `toml:"ui" json:"ui"`

	// Log output
	Log LogConfig `toml:"log" json:"log"`

	// User profile shown in the header
	Profile ProfileConfig `toml:"profile" json:"profile"`

	// Demo verification server
	Server ServerConfig `toml:"server" json:"server"`
}

// VerifierConfig selects and configures the verification backend.
type VerifierConfig struct {
	// Backend is "mock" (local simulated results) or "http".
	Backend string `toml:"backend" json:"backend"`

	// Endpoint is the base URL of the HTTP service.
	Endpoint string `toml:"endpoint" json:"endpoint"`

	// APIKey is sent as a bearer token when set.
	APIKey string `toml:"api_key" json:"api_key"`

	// TimeoutSecs bounds a single verification.
	TimeoutSecs int `toml:"timeout_secs" json:"timeout_secs"`

	// MockDelayMs is the simulated latency of the mock backend.
	MockDelayMs int `toml:"mock_delay_ms" json:"mock_delay_ms"`

	// RatePerSec is the client-side request budget for the HTTP backend.
	RatePerSec float64 `toml:"rate_per_sec" json:"rate_per_sec"`
}

// Timeout returns TimeoutSecs as a duration.
func (v VerifierConfig) Timeout() time.Duration {
	return time.Duration(v.TimeoutSecs) * time.Second
}

// MockDelay returns MockDelayMs as a duration.
func (v VerifierConfig) MockDelay() time.Duration {
	return time.Duration(v.MockDelayMs) * time.Millisecond
}

// HistoryConfig selects the history backend.
type HistoryConfig struct {
	// Backend is "memory", "sqlite" or "file".
	Backend string `toml:"backend" json:"backend"`

	// Path is the database file (sqlite) or directory (file).
	Path string `toml:"path" json:"path"`

	// SeedDemo fills an empty history with demonstration records.
	SeedDemo bool `toml:"seed_demo" json:"seed_demo"`
}

// UIConfig contains terminal UI settings.
type UIConfig struct {
	// Theme is "light", "dark" or "system".
	Theme string `toml:"theme" json:"theme"`

	// ShowWelcome shows the suggestion cards before the first submission.
	ShowWelcome bool `toml:"show_welcome" json:"show_welcome"`

	// Markdown renders verification details as markdown.
	Markdown bool `toml:"markdown" json:"markdown"`
}

// LogConfig controls the log file.
type LogConfig struct {
	Level string `toml:"level" json:"level"`
	Path  string `toml:"path" json:"path"`
}

// ProfileConfig identifies the local user.
type ProfileConfig struct {
	FullName string `toml:"full_name" json:"full_name"`
	Username string `toml:"username" json:"username"`
	Email    string `toml:"email" json:"email"`
}

// DisplayName returns the best available name for the header.
func (p ProfileConfig) DisplayName() string {
	switch {
	case p.FullName != "":
		return p.FullName
	case p.Username != "":
		return p.Username
	default:
		return p.Email
	}
}

// ServerConfig configures `verifact serve`.
type ServerConfig struct {
	Addr string `toml:"addr" json:"addr"`
}

// =============================================================================
// DEFAULTS
// =============================================================================

const (
	currentVersion = "1"

	BackendMock = "mock"
	BackendHTTP = "http"
)

// Default returns the built-in configuration.
func Default() *Config {
	dir, err := ConfigDir()
	if err != nil {
		dir = ".verifact"
	}
	return &Config{
		Version: currentVersion,
		Verifier: VerifierConfig{
			Backend:     BackendMock,
			Endpoint:    "http://127.0.0.1:8787",
			TimeoutSecs: 30,
			MockDelayMs: 1500,
			RatePerSec:  2,
		},
		History: HistoryConfig{
			Backend:  "memory",
			Path:     filepath.Join(dir, "history.db"),
			SeedDemo: true,
		},
		UI: UIConfig{
			Theme:       "system",
			ShowWelcome: true,
			Markdown:    true,
		},
		Log: LogConfig{
			Level: "info",
			Path:  filepath.Join(dir, "verifact.log"),
		},
		Server: ServerConfig{
			Addr: "127.0.0.1:8787",
		},
	}
}

// SetDefaults fills zero-valued fields that must not be empty.
func (c *Config) SetDefaults() {
	d := Default()
	if c.Version == "" {
		c.Version = d.Version
	}
	if c.Verifier.Backend == "" {
		c.Verifier.Backend = d.Verifier.Backend
	}
	if c.Verifier.Endpoint == "" {
		c.Verifier.Endpoint = d.Verifier.Endpoint
	}
	if c.Verifier.TimeoutSecs == 0 {
		c.Verifier.TimeoutSecs = d.Verifier.TimeoutSecs
	}
	if c.Verifier.RatePerSec == 0 {
		c.Verifier.RatePerSec = d.Verifier.RatePerSec
	}
	if c.History.Backend == "" {
		c.History.Backend = d.History.Backend
	}
	if c.History.Path == "" {
		c.History.Path = d.History.Path
	}
	if c.UI.Theme == "" {
		c.UI.Theme = d.UI.Theme
	}
	if c.Log.Level == "" {
		c.Log.Level = d.Log.Level
	}
	if c.Server.Addr == "" {
		c.Server.Addr = d.Server.Addr
	}
	c.History.Path = expandHome(c.History.Path)
	c.Log.Path = expandHome(c.Log.Path)
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the verifact configuration directory path.
// VERIFACT_HOME overrides the default ~/.verifact.
func ConfigDir() (string, error) {
	if dir := os.Getenv("VERIFACT_HOME"); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".verifact"), nil
}

// ConfigPath returns the path to the TOML config file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load loads configuration from the default config file.
// A missing file yields the defaults. Environment overrides are applied last.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		cfg := Default()
		cfg.ApplyEnvOverrides()
		cfg.SetDefaults()
		return cfg, err
	}
	return LoadFromPath(path)
}

// LoadFromPath loads the TOML file at path over the defaults, applies
// environment overrides and validates the result.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	if _, err := os.Stat(path); err == nil {
		if err := LoadTOML(cfg, path); err != nil {
			return nil, err
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to stat config: %w", err)
	}

	cfg.ApplyEnvOverrides()
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadTOML decodes the TOML file at path into cfg.
func LoadTOML(cfg *Config, path string) error {
	meta, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return fmt.Errorf("unknown config keys: %s", strings.Join(keys, ", "))
	}
	return nil
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// SaveTOML writes cfg to path atomically with owner-only permissions,
// since the file may hold an API key.
func SaveTOML(cfg *Config, path string) error {
	var buf bytes.Buffer
	buf.WriteString("# verifact configuration file\n")
	buf.WriteString("# Generated by verifact - edit with care\n\n")

	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := util.AtomicWriteFileWithDir(path, buf.Bytes(), 0600, 0700); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

func oneOf(value string, allowed ...string) bool {
	for _, a := range allowed {
		if strings.EqualFold(value, a) {
			return true
		}
	}
	return false
}

// Validate validates the configuration and returns any errors.
func (c *Config) Validate() error {
	var errs ValidateErrors

	if !oneOf(c.Verifier.Backend, BackendMock, BackendHTTP) {
		errs = append(errs, ValidationError{
			Field:   "verifier.backend",
			Message: fmt.Sprintf("invalid backend '%s', must be one of: mock, http", c.Verifier.Backend),
		})
	}
	if strings.EqualFold(c.Verifier.Backend, BackendHTTP) {
		u, err := url.Parse(c.Verifier.Endpoint)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			errs = append(errs, ValidationError{
				Field:   "verifier.endpoint",
				Message: fmt.Sprintf("invalid URL '%s', must be http(s)://host[:port]", c.Verifier.Endpoint),
			})
		}
	}
	if c.Verifier.TimeoutSecs < 1 || c.Verifier.TimeoutSecs > 600 {
		errs = append(errs, ValidationError{
			Field:   "verifier.timeout_secs",
			Message: fmt.Sprintf("must be between 1 and 600, got %d", c.Verifier.TimeoutSecs),
		})
	}
	if c.Verifier.MockDelayMs < 0 {
		errs = append(errs, ValidationError{
			Field:   "verifier.mock_delay_ms",
			Message: "must not be negative",
		})
	}
	if c.Verifier.RatePerSec <= 0 {
		errs = append(errs, ValidationError{
			Field:   "verifier.rate_per_sec",
			Message: "must be positive",
		})
	}

	if !oneOf(c.History.Backend, "memory", "sqlite", "file") {
		errs = append(errs, ValidationError{
			Field:   "history.backend",
			Message: fmt.Sprintf("invalid backend '%s', must be one of: memory, sqlite, file", c.History.Backend),
		})
	}

	if !oneOf(c.UI.Theme, "light", "dark", "system") {
		errs = append(errs, ValidationError{
			Field:   "ui.theme",
			Message: fmt.Sprintf("invalid theme '%s', must be one of: light, dark, system", c.UI.Theme),
		})
	}

	if !oneOf(c.Log.Level, "debug", "info", "warn", "error") {
		errs = append(errs, ValidationError{
			Field:   "log.level",
			Message: fmt.Sprintf("invalid level '%s', must be one of: debug, info, warn, error", c.Log.Level),
		})
	}

	if c.Profile.Email != "" && !strings.Contains(c.Profile.Email, "@") {
		errs = append(errs, ValidationError{
			Field:   "profile.email",
			Message: fmt.Sprintf("invalid email '%s'", c.Profile.Email),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies environment variable overrides to the config.
//
// Supported environment variables:
//   - VERIFACT_BACKEND: overrides verifier.backend
//   - VERIFACT_ENDPOINT: overrides verifier.endpoint
//   - VERIFACT_API_KEY: overrides verifier.api_key
//   - VERIFACT_TIMEOUT: overrides verifier.timeout_secs
//   - VERIFACT_HISTORY: overrides history.backend
//   - VERIFACT_THEME: overrides ui.theme
//   - VERIFACT_LOG_LEVEL: overrides log.level
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("VERIFACT_BACKEND"); v != "" {
		c.Verifier.Backend = v
	}
	if v := os.Getenv("VERIFACT_ENDPOINT"); v != "" {
		c.Verifier.Endpoint = v
	}
	if v := os.Getenv("VERIFACT_API_KEY"); v != "" {
		c.Verifier.APIKey = v
	}
	if v := os.Getenv("VERIFACT_TIMEOUT"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil {
			c.Verifier.TimeoutSecs = secs
		}
	}
	if v := os.Getenv("VERIFACT_HISTORY"); v != "" {
		c.History.Backend = v
	}
	if v := os.Getenv("VERIFACT_THEME"); v != "" {
		c.UI.Theme = v
	}
	if v := os.Getenv("VERIFACT_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
}

// =============================================================================
// GET/SET HELPERS (DOT NOTATION)
// =============================================================================

// Get retrieves a configuration value using dot notation (e.g., "verifier.backend").
func (c *Config) Get(key string) (interface{}, error) {
	field, err := c.lookup(key)
	if err != nil {
		return nil, err
	}
	return field.Interface(), nil
}

// Set sets a configuration value using dot notation (e.g., "ui.theme").
// String values are converted to the field's type.
func (c *Config) Set(key string, value interface{}) error {
	field, err := c.lookup(key)
	if err != nil {
		return err
	}
	if !field.CanSet() {
		return fmt.Errorf("cannot set field: %s", key)
	}
	return setFieldValue(field, value)
}

func (c *Config) lookup(key string) (reflect.Value, error) {
	if strings.TrimSpace(key) == "" {
		return reflect.Value{}, errors.New("empty key")
	}
	parts := strings.Split(key, ".")

	v := reflect.ValueOf(c).Elem()
	for i, part := range parts {
		fieldName := normalizeFieldName(part)
		field := v.FieldByNameFunc(func(name string) bool {
			return strings.EqualFold(name, fieldName)
		})
		if !field.IsValid() {
			return reflect.Value{}, fmt.Errorf("unknown field: %s", strings.Join(parts[:i+1], "."))
		}
		if i == len(parts)-1 {
			if field.Kind() == reflect.Struct {
				return reflect.Value{}, fmt.Errorf("'%s' is a section, not a value", key)
			}
			return field, nil
		}
		if field.Kind() != reflect.Struct {
			return reflect.Value{}, fmt.Errorf("field '%s' is not a struct", strings.Join(parts[:i+1], "."))
		}
		v = field
	}
	return reflect.Value{}, fmt.Errorf("invalid key: %s", key)
}

// normalizeFieldName converts a snake_case or kebab-case name to its Go field equivalent.
func normalizeFieldName(name string) string {
	parts := strings.FieldsFunc(name, func(r rune) bool {
		return r == '_' || r == '-'
	})

	var result strings.Builder
	for _, part := range parts {
		if len(part) > 0 {
			result.WriteString(strings.ToUpper(string(part[0])))
			result.WriteString(strings.ToLower(part[1:]))
		}
	}
	return result.String()
}

// setFieldValue sets a reflect.Value from an interface{} value with type conversion.
func setFieldValue(field reflect.Value, value interface{}) error {
	if strVal, ok := value.(string); ok {
		switch field.Kind() {
		case reflect.String:
			field.SetString(strVal)
			return nil
		case reflect.Int, reflect.Int64:
			intVal, err := strconv.ParseInt(strVal, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid integer value: %v", err)
			}
			field.SetInt(intVal)
			return nil
		case reflect.Float64:
			floatVal, err := strconv.ParseFloat(strVal, 64)
			if err != nil {
				return fmt.Errorf("invalid float value: %v", err)
			}
			field.SetFloat(floatVal)
			return nil
		case reflect.Bool:
			boolVal, err := strconv.ParseBool(strings.ToLower(strVal))
			if err != nil {
				boolVal = strings.EqualFold(strVal, "yes")
			}
			field.SetBool(boolVal)
			return nil
		}
	}

	val := reflect.ValueOf(value)
	if !val.IsValid() {
		return fmt.Errorf("cannot assign nil to %s", field.Type())
	}
	if val.Type().AssignableTo(field.Type()) {
		field.Set(val)
		return nil
	}
	if val.Type().ConvertibleTo(field.Type()) {
		field.Set(val.Convert(field.Type()))
		return nil
	}
	return fmt.Errorf("cannot assign %T to %s", value, field.Type())
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// GetAllKeys returns all configuration keys in dot notation, sorted.
func GetAllKeys() []string {
	var keys []string
	collectKeys(reflect.TypeOf(Config{}), "", &keys)
	sort.Strings(keys)
	return keys
}

func collectKeys(t reflect.Type, prefix string, keys *[]string) {
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		name := strings.Split(f.Tag.Get("toml"), ",")[0]
		if name == "" || name == "-" {
			continue
		}
		if prefix != "" {
			name = prefix + "." + name
		}
		if f.Type.Kind() == reflect.Struct {
			collectKeys(f.Type, name, keys)
			continue
		}
		*keys = append(*keys, name)
	}
}

// Clone returns a copy of the config.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// String returns a JSON rendering of the config with secrets redacted.
func (c *Config) String() string {
	safe := c.Clone()
	if safe.Verifier.APIKey != "" {
		safe.Verifier.APIKey = "[REDACTED]"
	}
	data, _ := json.MarshalIndent(safe, "", "  ")
	return string(data)
}

// =============================================================================
// SINGLETON PATTERN (THREAD-SAFE)
// =============================================================================

var (
	globalConfig     *Config
	globalConfigOnce sync.Once
	globalConfigMu   sync.RWMutex
)

// Global returns the global configuration instance.
// Loads configuration on first access. Thread-safe.
func Global() *Config {
	globalConfigOnce.Do(func() {
		cfg, err := Load()
		if err != nil || cfg == nil {
			fmt.Fprintf(os.Stderr, "Warning: %v (using defaults)\n", err)
			cfg = Default()
		}
		globalConfigMu.Lock()
		globalConfig = cfg
		globalConfigMu.Unlock()
	})

	globalConfigMu.RLock()
	defer globalConfigMu.RUnlock()
	return globalConfig
}

// ReloadGlobal reloads the global configuration from disk. Thread-safe.
func ReloadGlobal() error {
	cfg, err := Load()
	if err != nil {
		return err
	}
	SetGlobal(cfg)
	return nil
}

// SetGlobal sets the global configuration instance. Thread-safe.
func SetGlobal(cfg *Config) {
	globalConfigOnce.Do(func() {})
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = cfg
}

// ResetGlobalForTesting resets the global config state for testing.
func ResetGlobalForTesting() {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = nil
	globalConfigOnce = sync.Once{}
}
