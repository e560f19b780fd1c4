// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for threadline.
//
// Configuration lives in a single TOML file with sensible defaults,
// environment variable overrides, and validation.
//
// Configuration file locations (in order of precedence):
//   - Environment variables
//   - ~/.threadline/config.toml
//   - Built-in defaults
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/BurntSushi/toml"
)

// =============================================================================
// CONFIG STRUCTURE
// =============================================================================

// Config is the root configuration for threadline.
type Config struct {
	// Version of the config schema.
	Version int `toml:"version" json:"version"`

	// API holds connection settings for the assistant service.
	API APIConfig `toml:"api" json:"api"`

	// Assistant selects the remote assistant identity runs execute as.
	Assistant AssistantConfig `toml:"assistant" json:"assistant"`

	// Poll controls the run-status polling cadence.
	Poll PollConfig `toml:"poll" json:"poll"`

	// Stream controls the typing cadence of replayed replies.
	Stream StreamConfig `toml:"stream" json:"stream"`

	// Auth controls the local login gate.
	Auth AuthConfig `toml:"auth" json:"auth"`

	// Session controls the idle lock.
	Session SessionConfig `toml:"session" json:"session"`

	// UI holds interface preferences.
	UI UIConfig `toml:"ui" json:"ui"`
}

// APIConfig holds connection settings for the assistant service.
type APIConfig struct {
	// Key is the API key. Usually supplied via OPENAI_API_KEY rather
	// than stored here.
	Key string `toml:"key" json:"key"`

	// BaseURL is the API root.
	BaseURL string `toml:"base_url" json:"base_url"`

	// TimeoutSeconds bounds each individual HTTP request.
	TimeoutSeconds int `toml:"timeout_seconds" json:"timeout_seconds"`
}

// AssistantConfig selects the assistant identity and its instructions.
type AssistantConfig struct {
	// ID of the remote assistant.
	ID string `toml:"id" json:"id"`

	// Instructions is the system prompt attached to every run.
	Instructions string `toml:"instructions" json:"instructions"`
}

// PollConfig controls the run-status polling cadence.
type PollConfig struct {
	// IntervalMs is the fixed pause between status checks. This is a
	// throttle, not a timeout; the wait itself is unbounded.
	IntervalMs int `toml:"interval_ms" json:"interval_ms"`
}

// StreamConfig controls the typing cadence of replayed replies.
type StreamConfig struct {
	// CharDelayMs is the pause between emitted characters.
	CharDelayMs int `toml:"char_delay_ms" json:"char_delay_ms"`
}

// AuthConfig controls the local login gate.
type AuthConfig struct {
	// Required gates the UI behind the credential check.
	Required bool `toml:"required" json:"required"`
}

// SessionConfig controls the idle lock.
type SessionConfig struct {
	// IdleTimeoutMinutes locks the UI after this much inactivity.
	// Zero disables the idle lock.
	IdleTimeoutMinutes int `toml:"idle_timeout_minutes" json:"idle_timeout_minutes"`

	// WarningMinutes shows the lock warning this long before locking.
	WarningMinutes int `toml:"warning_minutes" json:"warning_minutes"`
}

// UIConfig holds interface preferences.
type UIConfig struct {
	// SidebarOpen shows the chat sidebar on startup.
	SidebarOpen bool `toml:"sidebar_open" json:"sidebar_open"`

	// Mouse enables mouse support in the TUI.
	Mouse bool `toml:"mouse" json:"mouse"`
}

// =============================================================================
// DEFAULTS
// =============================================================================

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Version: 1,
		API: APIConfig{
			BaseURL:        "https://api.openai.com/v1",
			TimeoutSeconds: 30,
		},
		Assistant: AssistantConfig{},
		Poll: PollConfig{
			IntervalMs: 2000,
		},
		Stream: StreamConfig{
			CharDelayMs: 5,
		},
		Auth: AuthConfig{
			Required: true,
		},
		Session: SessionConfig{
			IdleTimeoutMinutes: 15,
			WarningMinutes:     2,
		},
		UI: UIConfig{
			SidebarOpen: true,
			Mouse:       true,
		},
	}
}

// =============================================================================
// DURATION HELPERS
// =============================================================================

// RequestTimeout returns the per-request HTTP timeout.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.API.TimeoutSeconds) * time.Second
}

// PollInterval returns the run-status polling cadence.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.Poll.IntervalMs) * time.Millisecond
}

// CharDelay returns the streaming typing cadence.
func (c *Config) CharDelay() time.Duration {
	return time.Duration(c.Stream.CharDelayMs) * time.Millisecond
}

// IdleTimeout returns the idle-lock timeout; zero means disabled.
func (c *Config) IdleTimeout() time.Duration {
	return time.Duration(c.Session.IdleTimeoutMinutes) * time.Minute
}

// WarningBefore returns how long before the idle lock the warning shows.
func (c *Config) WarningBefore() time.Duration {
	return time.Duration(c.Session.WarningMinutes) * time.Minute
}

// =============================================================================
// PATHS
// =============================================================================

// ConfigDir returns the threadline configuration directory.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".threadline"), nil
}

// ConfigPath returns the path to the TOML config file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// EnsureConfigDir ensures the config directory exists.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0755)
}

// ensureSecurePermissions checks and fixes permissions on config files.
// SECURITY: Config files should be 0600 (owner read/write only) to protect API keys.
func ensureSecurePermissions(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	mode := info.Mode().Perm()
	if mode != 0600 {
		if err := os.Chmod(path, 0600); err != nil {
			return fmt.Errorf("failed to fix insecure permissions (was %o): %w", mode, err)
		}
	}

	return nil
}

// =============================================================================
// LOAD
// =============================================================================

// Load loads configuration from the default config file, falling back to
// defaults when no file exists. Environment overrides are applied after
// the file, then the result is validated.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFromPath(path)
}

// LoadFromPath loads configuration from a specific TOML file. A missing
// file is not an error; defaults plus env overrides are returned.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	if _, statErr := os.Stat(path); statErr == nil {
		if err := loadTOML(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}

	cfg.ApplyEnvOverrides()
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// loadTOML decodes a TOML file over the given config. Absent keys keep
// their current values.
// SECURITY: Checks and fixes file permissions on load.
func loadTOML(cfg *Config, path string) error {
	if err := ensureSecurePermissions(path); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not ensure secure permissions on %s: %v\n", path, err)
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return err
	}
	return nil
}

// =============================================================================
// SAVE
// =============================================================================

// Save writes the configuration to the default config file.
func Save(cfg *Config) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return SaveTOML(cfg, path)
}

// SaveTOML saves the configuration to a TOML file.
// SECURITY: Creates config files with 0600 permissions (owner read/write only).
func SaveTOML(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer file.Close()

	if err := os.Chmod(path, 0600); err != nil {
		return fmt.Errorf("failed to set config file permissions: %w", err)
	}

	fmt.Fprintln(file, "# threadline configuration file")
	fmt.Fprintln(file, "# Generated by threadline - edit with care")
	fmt.Fprintln(file, "")

	encoder := toml.NewEncoder(file)
	if err := encoder.Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
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

// SetDefaults fills zero values with their defaults after a file load.
func (c *Config) SetDefaults() {
	def := Default()

	if c.Version == 0 {
		c.Version = def.Version
	}
	if c.API.BaseURL == "" {
		c.API.BaseURL = def.API.BaseURL
	}
	if c.API.TimeoutSeconds == 0 {
		c.API.TimeoutSeconds = def.API.TimeoutSeconds
	}
	if c.Poll.IntervalMs == 0 {
		c.Poll.IntervalMs = def.Poll.IntervalMs
	}
	if c.Session.IdleTimeoutMinutes != 0 && c.Session.WarningMinutes == 0 {
		c.Session.WarningMinutes = def.Session.WarningMinutes
	}
}

// Validate validates the configuration and returns any errors.
func (c *Config) Validate() error {
	var errs ValidateErrors

	if c.API.BaseURL != "" {
		u, err := url.Parse(c.API.BaseURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, ValidationError{
				Field:   "api.base_url",
				Message: "must be an absolute URL",
			})
		}
	}

	if c.API.TimeoutSeconds < 1 || c.API.TimeoutSeconds > 600 {
		errs = append(errs, ValidationError{
			Field:   "api.timeout_seconds",
			Message: "must be between 1 and 600",
		})
	}

	if c.Poll.IntervalMs < 100 || c.Poll.IntervalMs > 600000 {
		errs = append(errs, ValidationError{
			Field:   "poll.interval_ms",
			Message: "must be between 100 and 600000",
		})
	}

	if c.Stream.CharDelayMs < 0 || c.Stream.CharDelayMs > 1000 {
		errs = append(errs, ValidationError{
			Field:   "stream.char_delay_ms",
			Message: "must be between 0 and 1000",
		})
	}

	if c.Session.IdleTimeoutMinutes < 0 || c.Session.IdleTimeoutMinutes > 1440 {
		errs = append(errs, ValidationError{
			Field:   "session.idle_timeout_minutes",
			Message: "must be between 0 and 1440",
		})
	}

	if c.Session.WarningMinutes < 0 {
		errs = append(errs, ValidationError{
			Field:   "session.warning_minutes",
			Message: "must not be negative",
		})
	}

	if c.Session.IdleTimeoutMinutes > 0 && c.Session.WarningMinutes >= c.Session.IdleTimeoutMinutes {
		errs = append(errs, ValidationError{
			Field:   "session.warning_minutes",
			Message: "must be smaller than idle_timeout_minutes",
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

// ApplyEnvOverrides applies environment variables over the loaded
// configuration. The provider-conventional names are honored alongside
// threadline's own.
//
//	OPENAI_API_KEY              -> api.key
//	THREADLINE_BASE_URL         -> api.base_url
//	ASSISTANT_ID                -> assistant.id
//	ASSISTANT_INSTRUCTIONS      -> assistant.instructions
//	THREADLINE_POLL_INTERVAL_MS -> poll.interval_ms
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		c.API.Key = v
	}
	if v := os.Getenv("THREADLINE_BASE_URL"); v != "" {
		c.API.BaseURL = v
	}
	if v := os.Getenv("ASSISTANT_ID"); v != "" {
		c.Assistant.ID = v
	}
	if v := os.Getenv("ASSISTANT_INSTRUCTIONS"); v != "" {
		c.Assistant.Instructions = v
	}
	if v := os.Getenv("THREADLINE_POLL_INTERVAL_MS"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil && ms > 0 {
			c.Poll.IntervalMs = ms
		}
	}
}

// =============================================================================
// DOT-NOTATION ACCESS
// =============================================================================

// Get retrieves a configuration value using dot notation
// (e.g., "poll.interval_ms").
func (c *Config) Get(key string) (interface{}, error) {
	parts := strings.Split(key, ".")
	if len(parts) == 0 {
		return nil, errors.New("empty key")
	}

	v := reflect.ValueOf(c).Elem()
	for i, part := range parts {
		fieldName := normalizeFieldName(part)

		field := v.FieldByNameFunc(func(name string) bool {
			return strings.EqualFold(name, fieldName)
		})

		if !field.IsValid() {
			return nil, fmt.Errorf("unknown field: %s", strings.Join(parts[:i+1], "."))
		}

		if i == len(parts)-1 {
			return field.Interface(), nil
		}

		if field.Kind() == reflect.Struct {
			v = field
		} else {
			return nil, fmt.Errorf("field '%s' is not a struct", strings.Join(parts[:i+1], "."))
		}
	}

	return nil, fmt.Errorf("invalid key: %s", key)
}

// Set sets a configuration value using dot notation
// (e.g., "poll.interval_ms").
func (c *Config) Set(key string, value interface{}) error {
	parts := strings.Split(key, ".")
	if len(parts) == 0 {
		return errors.New("empty key")
	}

	v := reflect.ValueOf(c).Elem()
	for i, part := range parts {
		fieldName := normalizeFieldName(part)

		field := v.FieldByNameFunc(func(name string) bool {
			return strings.EqualFold(name, fieldName)
		})

		if !field.IsValid() {
			return fmt.Errorf("unknown field: %s", strings.Join(parts[:i+1], "."))
		}

		if i == len(parts)-1 {
			if !field.CanSet() {
				return fmt.Errorf("cannot set field: %s", key)
			}
			return setFieldValue(field, value)
		}

		if field.Kind() == reflect.Struct {
			v = field
		} else {
			return fmt.Errorf("field '%s' is not a struct", strings.Join(parts[:i+1], "."))
		}
	}

	return fmt.Errorf("invalid key: %s", key)
}

// normalizeFieldName converts a snake_case or kebab-case name to its Go
// field equivalent.
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

// setFieldValue sets a reflect.Value from an interface{} value with type
// conversion. String inputs (from the CLI) convert to the field's kind.
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
		case reflect.Bool:
			boolVal := strVal == "1" || strings.EqualFold(strVal, "true") || strings.EqualFold(strVal, "yes")
			field.SetBool(boolVal)
			return nil
		}
	}

	val := reflect.ValueOf(value)
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

// GetAllKeys returns all configuration keys in dot notation.
func GetAllKeys() []string {
	return []string{
		"version",
		"api.key",
		"api.base_url",
		"api.timeout_seconds",
		"assistant.id",
		"assistant.instructions",
		"poll.interval_ms",
		"stream.char_delay_ms",
		"auth.required",
		"session.idle_timeout_minutes",
		"session.warning_minutes",
		"ui.sidebar_open",
		"ui.mouse",
	}
}

// MaskedKey returns the API key elided for display.
func (c *Config) MaskedKey() string {
	k := c.API.Key
	if k == "" {
		return "(not set)"
	}
	if len(k) <= 8 {
		return "****"
	}
	return k[:4] + "..." + k[len(k)-4:]
}

// =============================================================================
// GLOBAL CONFIG
// =============================================================================

var (
	globalConfig     *Config
	globalConfigOnce sync.Once
	globalConfigMu   sync.RWMutex
)

// Global returns the shared configuration, loading it on first use.
// Load failures fall back to defaults with a warning.
func Global() *Config {
	globalConfigOnce.Do(func() {
		cfg, err := Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v (using defaults)\n", err)
			cfg = Default()
		}
		globalConfig = cfg
	})

	globalConfigMu.RLock()
	defer globalConfigMu.RUnlock()
	return globalConfig
}

// SetGlobal replaces the shared configuration (used by hot reload).
func SetGlobal(cfg *Config) {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = cfg
}

// ReloadGlobal re-reads the config file into the shared configuration.
func ReloadGlobal() error {
	cfg, err := Load()
	if err != nil {
		return err
	}
	SetGlobal(cfg)
	return nil
}

// ResetGlobalForTesting clears the shared configuration so tests can
// exercise the load path again.
func ResetGlobalForTesting() {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = nil
	globalConfigOnce = sync.Once{}
}
