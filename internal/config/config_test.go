// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// LOAD TESTS
// =============================================================================

func TestDefault_IsValid(t *testing.T) {
	assert.NoError(t, Default().Validate())
}

func TestLoadFromPath_TOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
version = "2.0.0"

[api]
base_url = "http://service.internal:9000"
page_size = 25

[stream]
throttle_ms = 250
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	cfg, err := LoadFromPath(path)
	require.NoError(t, err)

	assert.Equal(t, "2.0.0", cfg.Version)
	assert.Equal(t, "http://service.internal:9000", cfg.API.BaseURL)
	assert.Equal(t, 25, cfg.API.PageSize)
	assert.Equal(t, 250, cfg.Stream.ThrottleMs)

	// Unset fields fall back to defaults.
	assert.Equal(t, 30, cfg.API.TimeoutSecs)
	assert.Equal(t, "dark", cfg.UI.Theme)
}

func TestLoadFromPath_JSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	content := `{"api": {"base_url": "http://json.example:8000"}}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	cfg, err := LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, "http://json.example:8000", cfg.API.BaseURL)
}

func TestLoadFromPath_InvalidRejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[api]
page_size = 5000
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	_, err := LoadFromPath(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "api.page_size")
}

func TestSaveTOMLRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	cfg := Default()
	cfg.API.PageSize = 42
	require.NoError(t, SaveTOML(cfg, path))

	loaded, err := LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, 42, loaded.API.PageSize)
}

// =============================================================================
// ENV OVERRIDE TESTS
// =============================================================================

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("CHATSYNC_API_URL", "http://env.example:7000")
	t.Setenv("CHATSYNC_PAGE_SIZE", "15")
	t.Setenv("CHATSYNC_THEME", "light")

	cfg := Default()
	cfg.ApplyEnvOverrides()

	assert.Equal(t, "http://env.example:7000", cfg.API.BaseURL)
	assert.Equal(t, 15, cfg.API.PageSize)
	assert.Equal(t, "light", cfg.UI.Theme)
}

func TestApplyEnvOverrides_BadIntIgnored(t *testing.T) {
	t.Setenv("CHATSYNC_PAGE_SIZE", "not-a-number")

	cfg := Default()
	cfg.ApplyEnvOverrides()

	assert.Equal(t, 10, cfg.API.PageSize)
}

// =============================================================================
// VALIDATION TESTS
// =============================================================================

func TestValidate_CollectsAllErrors(t *testing.T) {
	cfg := Default()
	cfg.API.PageSize = 0
	cfg.UI.Theme = "neon"

	err := cfg.Validate()
	require.Error(t, err)

	var errs ValidateErrors
	require.ErrorAs(t, err, &errs)
	assert.Len(t, errs, 2)
}

// =============================================================================
// WATCHER TESTS
// =============================================================================

func TestWatcher_ReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, SaveTOML(Default(), path))

	loaded := make(chan *Config, 4)
	watcher, err := Watch(path, func(cfg *Config) { loaded <- cfg }, nil)
	require.NoError(t, err)
	defer watcher.Close()

	updated := Default()
	updated.API.PageSize = 77
	require.NoError(t, SaveTOML(updated, path))

	deadline := time.After(5 * time.Second)
	for {
		select {
		case cfg := <-loaded:
			if cfg.API.PageSize == 77 {
				return
			}
		case <-deadline:
			t.Fatal("timed out waiting for config reload")
		}
	}
}

func TestWatcher_ReportsInvalidFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, SaveTOML(Default(), path))

	failures := make(chan error, 4)
	watcher, err := Watch(path, nil, func(err error) { failures <- err })
	require.NoError(t, err)
	defer watcher.Close()

	require.NoError(t, os.WriteFile(path, []byte("not [valid toml"), 0600))

	select {
	case err := <-failures:
		assert.Error(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for reload failure")
	}
}
