// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides unified configuration loading and management
// for chatsync.
//
// Supports both TOML and JSON configuration formats, with sensible
// defaults, environment variable overrides, and validation.
//
// Configuration file locations (in order of precedence):
//   - ~/.chatsync/config.toml
//   - ~/.chatsync/config.json
//   - Built-in defaults
package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/jeranaias/chatsync/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete chatsync configuration.
type Config struct {
	Version string `toml:"version" json:"version"`

	// Remote service configuration
	API APIConfig `toml:"api" json:"api"`

	// Streaming configuration
	Stream StreamConfig `toml:"stream" json:"stream"`

	// Local persistence configuration
	Store StoreConfig `toml:"store" json:"store"`

	// UI configuration
	UI UIConfig `toml:"ui" json:"ui"`
}

// APIConfig contains the conversation service connection settings.
type APIConfig struct {
	// BaseURL is the conversation service base URL
	BaseURL string `toml:"base_url" json:"base_url"`
	// TimeoutSecs is the timeout for non-streaming requests
	TimeoutSecs int `toml:"timeout_secs" json:"timeout_secs"`
	// PageSize is the page size requested from list endpoints
	PageSize int `toml:"page_size" json:"page_size"`
	// RequestsPerSecond caps outbound request rate
	RequestsPerSecond float64 `toml:"requests_per_second" json:"requests_per_second"`
}

// StreamConfig contains streamed-response settings.
type StreamConfig struct {
	// ThrottleMs is the minimum interval between streamed UI updates
	ThrottleMs int `toml:"throttle_ms" json:"throttle_ms"`
}

// StoreConfig contains local persistence settings.
type StoreConfig struct {
	// Path is the local database file (empty = ~/.chatsync/local.db)
	Path string `toml:"path" json:"path"`
}

// UIConfig contains UI configuration.
type UIConfig struct {
	// Theme is the UI theme: "dark", "light", "auto"
	Theme string `toml:"theme" json:"theme"`
	// ToastSecs is how long a notification toast stays on screen
	ToastSecs int `toml:"toast_secs" json:"toast_secs"`
}

// =============================================================================
// DEFAULT CONFIGURATION
// =============================================================================

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Version: "1.0.0",

		API: APIConfig{
			BaseURL:           "http://127.0.0.1:8000",
			TimeoutSecs:       30,
			PageSize:          10,
			RequestsPerSecond: 10,
		},

		Stream: StreamConfig{
			ThrottleMs: 500,
		},

		Store: StoreConfig{
			Path: "",
		},

		UI: UIConfig{
			Theme:     "dark",
			ToastSecs: 4,
		},
	}
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the chatsync configuration directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".chatsync"), nil
}

// ConfigPathTOML returns the path to the TOML config file.
func ConfigPathTOML() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// ConfigPathJSON returns the path to the JSON config file.
func ConfigPathJSON() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// EnsureConfigDir ensures the config directory exists.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0755)
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load loads configuration from the config file(s).
// Tries TOML first, then JSON, and falls back to defaults.
// Environment overrides are applied last.
func Load() (*Config, error) {
	cfg := Default()

	tomlPath, err := ConfigPathTOML()
	if err == nil {
		if _, statErr := os.Stat(tomlPath); statErr == nil {
			return finishLoad(cfg, LoadTOML(cfg, tomlPath))
		}
	}

	jsonPath, err := ConfigPathJSON()
	if err == nil {
		if _, statErr := os.Stat(jsonPath); statErr == nil {
			return finishLoad(cfg, LoadJSON(cfg, jsonPath))
		}
	}

	return finishLoad(cfg, nil)
}

// LoadFromPath loads configuration from a specific file path with full
// validation. JSON is inferred from the extension; anything else is TOML.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()
	if strings.HasSuffix(path, ".json") {
		return finishLoad(cfg, LoadJSON(cfg, path))
	}
	return finishLoad(cfg, LoadTOML(cfg, path))
}

func finishLoad(cfg *Config, loadErr error) (*Config, error) {
	if loadErr != nil {
		return nil, loadErr
	}
	cfg.ApplyEnvOverrides()
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadTOML loads configuration from a TOML file.
func LoadTOML(cfg *Config, path string) error {
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	return nil
}

// LoadJSON loads configuration from a JSON file.
func LoadJSON(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read JSON file: %w", err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to decode JSON file: %w", err)
	}
	return nil
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// Save saves the configuration to the default TOML file.
func Save(cfg *Config) error {
	path, err := ConfigPathTOML()
	if err != nil {
		return err
	}
	return SaveTOML(cfg, path)
}

// SaveTOML saves the configuration to a TOML file.
func SaveTOML(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer file.Close()

	fmt.Fprintln(file, "# chatsync configuration file")
	fmt.Fprintln(file, "# Generated by chatsync - edit with care")
	fmt.Fprintln(file, "")

	encoder := toml.NewEncoder(file)
	if err := encoder.Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// SaveJSON saves the configuration to a JSON file.
// RELIABILITY: Atomic write with fsync prevents data loss on crash
func SaveJSON(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := util.AtomicWriteFile(path, data, 0600); err != nil {
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

// Validate validates the configuration and returns any errors.
func (c *Config) Validate() error {
	var errs ValidateErrors

	if c.API.BaseURL != "" {
		if _, err := url.Parse(c.API.BaseURL); err != nil {
			errs = append(errs, ValidationError{
				Field:   "api.base_url",
				Message: fmt.Sprintf("invalid URL: %v", err),
			})
		}
	}
	if c.API.TimeoutSecs < 0 {
		errs = append(errs, ValidationError{
			Field:   "api.timeout_secs",
			Message: "must be non-negative",
		})
	}
	if c.API.PageSize < 1 || c.API.PageSize > 100 {
		errs = append(errs, ValidationError{
			Field:   "api.page_size",
			Message: fmt.Sprintf("must be 1-100, got %d", c.API.PageSize),
		})
	}
	if c.API.RequestsPerSecond < 0 {
		errs = append(errs, ValidationError{
			Field:   "api.requests_per_second",
			Message: "must be non-negative",
		})
	}

	if c.Stream.ThrottleMs < 0 {
		errs = append(errs, ValidationError{
			Field:   "stream.throttle_ms",
			Message: "must be non-negative",
		})
	}

	validThemes := map[string]bool{"dark": true, "light": true, "auto": true}
	if !validThemes[strings.ToLower(c.UI.Theme)] {
		errs = append(errs, ValidationError{
			Field:   "ui.theme",
			Message: fmt.Sprintf("invalid theme '%s', must be one of: dark, light, auto", c.UI.Theme),
		})
	}
	if c.UI.ToastSecs < 1 {
		errs = append(errs, ValidationError{
			Field:   "ui.toast_secs",
			Message: fmt.Sprintf("must be at least 1, got %d", c.UI.ToastSecs),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// SetDefaults sets default values for any missing or zero-value fields.
func (c *Config) SetDefaults() {
	defaults := Default()

	if c.Version == "" {
		c.Version = defaults.Version
	}
	if c.API.BaseURL == "" {
		c.API.BaseURL = defaults.API.BaseURL
	}
	if c.API.TimeoutSecs == 0 {
		c.API.TimeoutSecs = defaults.API.TimeoutSecs
	}
	if c.API.PageSize == 0 {
		c.API.PageSize = defaults.API.PageSize
	}
	if c.API.RequestsPerSecond == 0 {
		c.API.RequestsPerSecond = defaults.API.RequestsPerSecond
	}
	if c.Stream.ThrottleMs == 0 {
		c.Stream.ThrottleMs = defaults.Stream.ThrottleMs
	}
	if c.UI.Theme == "" {
		c.UI.Theme = defaults.UI.Theme
	}
	if c.UI.ToastSecs == 0 {
		c.UI.ToastSecs = defaults.UI.ToastSecs
	}
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies environment variable overrides to the config.
//
// Supported environment variables:
//   - CHATSYNC_API_URL: overrides api.base_url
//   - CHATSYNC_PAGE_SIZE: overrides api.page_size
//   - CHATSYNC_THROTTLE_MS: overrides stream.throttle_ms
//   - CHATSYNC_STORE_PATH: overrides store.path
//   - CHATSYNC_THEME: overrides ui.theme
func (c *Config) ApplyEnvOverrides() {
	if baseURL := os.Getenv("CHATSYNC_API_URL"); baseURL != "" {
		c.API.BaseURL = baseURL
	}
	if pageSize := os.Getenv("CHATSYNC_PAGE_SIZE"); pageSize != "" {
		if n := util.StrToInt(pageSize); n > 0 {
			c.API.PageSize = n
		}
	}
	if throttle := os.Getenv("CHATSYNC_THROTTLE_MS"); throttle != "" {
		if n := util.StrToInt(throttle); n > 0 {
			c.Stream.ThrottleMs = n
		}
	}
	if path := os.Getenv("CHATSYNC_STORE_PATH"); path != "" {
		c.Store.Path = path
	}
	if theme := os.Getenv("CHATSYNC_THEME"); theme != "" {
		c.UI.Theme = theme
	}
}

