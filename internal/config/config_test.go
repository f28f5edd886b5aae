// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestConfig sets SESSCACHE_CFG to point to a test config file.
// Returns cleanup function that should be deferred.
func setupTestConfig(t *testing.T, testdataFile string) (cleanup func()) {
	t.Helper()

	absPath, err := filepath.Abs(filepath.Join("testdata", testdataFile))
	require.NoError(t, err, "failed to get absolute path for test config")

	t.Setenv("SESSCACHE_CFG", absPath)

	// Reset the global Config to force reload
	Config = Type{}

	return func() {
		Config = Type{}
	}
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name      string
		testFile  string
		wantErr   bool
		checkFunc func(*testing.T, Type)
	}{
		{
			name:     "simple string values",
			testFile: "simple.yaml",
			checkFunc: func(t *testing.T, cfg Type) {
				assert.NotEmpty(t, cfg.Source)
				assert.Equal(t, "users", cfg.Data["name"])
				assert.Equal(t, "zh", cfg.Data["locale"])
			},
		},
		{
			name:     "nested structure",
			testFile: "nested.yaml",
			checkFunc: func(t *testing.T, cfg Type) {
				app, ok := cfg.Data["append"].(map[string]interface{})
				assert.True(t, ok, "append should be a map")
				assert.Equal(t, 2.5, app["max_stack"])
				assert.Equal(t, 4, app["max_times"])
			},
		},
		{
			name:     "empty file",
			testFile: "empty.yaml",
			checkFunc: func(t *testing.T, cfg Type) {
				assert.NotEmpty(t, cfg.Source, "should have a source path")
				assert.Empty(t, cfg.Data)
			},
		},
		{
			name:     "malformed file",
			testFile: "broken.yaml",
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cleanup := setupTestConfig(t, tt.testFile)
			defer cleanup()

			cfg, err := Load()

			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			assert.NoError(t, err)
			if tt.checkFunc != nil {
				tt.checkFunc(t, cfg)
			}
		})
	}
}

func TestLoad_NoConfigFile(t *testing.T) {
	t.Setenv("SESSCACHE_CFG", "/nonexistent/path/sesscache.yaml")
	Config = Type{}

	_, err := Load()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "config file not found")
}

func TestLoad_CfgIsDirectory(t *testing.T) {
	t.Setenv("SESSCACHE_CFG", "testdata")
	Config = Type{}

	_, err := Load()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "points to a directory")
}

func TestLoad_StandardLocation(t *testing.T) {
	dir, err := filepath.Abs("testdata")
	require.NoError(t, err)

	t.Setenv("SESSCACHE_CFG", "")
	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("APPDATA", "")
	t.Setenv("HOME", t.TempDir())
	Config = Type{}

	_, err = Load()
	assert.Error(t, err, "no sesscache.yaml anywhere")

	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "xdg"))
	_, err = Load()
	assert.Error(t, err, "directory without the file")
}

func TestGetString(t *testing.T) {
	tests := []struct {
		name         string
		testFile     string
		key          string
		defaultValue []string
		want         string
		wantErr      bool
	}{
		{name: "simple string value", testFile: "simple.yaml", key: "name", want: "users"},
		{name: "nested string value", testFile: "nested.yaml", key: "repl.store", want: "memory"},
		{name: "missing key with default", testFile: "simple.yaml", key: "missing", defaultValue: []string{"dflt"}, want: "dflt"},
		{name: "missing key without default", testFile: "simple.yaml", key: "missing", wantErr: true},
		{name: "non-string value", testFile: "mixed-types.yaml", key: "max_times", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cleanup := setupTestConfig(t, tt.testFile)
			defer cleanup()

			_, _ = Load()

			got, err := GetString(tt.key, tt.defaultValue...)

			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGetInt(t *testing.T) {
	tests := []struct {
		name         string
		testFile     string
		key          string
		defaultValue []int
		want         int
		wantErr      bool
	}{
		{name: "int value", testFile: "mixed-types.yaml", key: "max_times", want: 3},
		{name: "float value truncated", testFile: "nested.yaml", key: "append.max_stack", want: 2},
		{name: "missing key with default", testFile: "simple.yaml", key: "missing", defaultValue: []int{60}, want: 60},
		{name: "missing key without default", testFile: "simple.yaml", key: "missing", wantErr: true},
		{name: "non-int value", testFile: "simple.yaml", key: "name", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cleanup := setupTestConfig(t, tt.testFile)
			defer cleanup()

			_, _ = Load()

			got, err := GetInt(tt.key, tt.defaultValue...)

			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGetFloatAndBool(t *testing.T) {
	cleanup := setupTestConfig(t, "mixed-types.yaml")
	defer cleanup()
	_, err := Load()
	require.NoError(t, err)

	f, err := GetFloat("max_stack")
	assert.NoError(t, err)
	assert.Equal(t, 0.5, f)

	f, err = GetFloat("max_times")
	assert.NoError(t, err)
	assert.Equal(t, 3.0, f)

	f, err = GetFloat("missing", 1.5)
	assert.NoError(t, err)
	assert.Equal(t, 1.5, f)

	_, err = GetFloat("name")
	assert.Error(t, err)

	b, err := GetBool("titles")
	assert.NoError(t, err)
	assert.True(t, b)

	_, err = GetBool("name")
	assert.Error(t, err)
}

func TestConfig_GetWithNamespace(t *testing.T) {
	cleanup := setupTestConfig(t, "nested.yaml")
	defer cleanup()

	_, err := Load("append")
	require.NoError(t, err)

	val, err := Config.get("name")
	assert.NoError(t, err)
	assert.Equal(t, "sessions", val)

	// Falls back to the bare key.
	val, err = Config.get("live")
	assert.NoError(t, err)
	assert.Equal(t, 120, val)

	Config.Namespace = "repl"
	val, err = Config.get("name")
	assert.NoError(t, err)
	assert.Equal(t, "scratch", val)

	Config.Namespace = ""
	val, err = Config.get("name")
	assert.NoError(t, err)
	assert.Equal(t, "default", val)
}

func TestConfig_GetNestedPath(t *testing.T) {
	cleanup := setupTestConfig(t, "deep-nested.yaml")
	defer cleanup()

	_, err := Load()
	assert.NoError(t, err)

	val, err := Config.get("level1.level2.level3.value")
	assert.NoError(t, err)
	assert.Equal(t, "deep-value", val)
}

func TestConfig_LazyLoad(t *testing.T) {
	cleanup := setupTestConfig(t, "simple.yaml")
	defer cleanup()

	// GetString alone triggers the load.
	val, err := GetString("name")
	assert.NoError(t, err)
	assert.Equal(t, "users", val)
	assert.NotEmpty(t, Config.Source, "Config should be loaded")
}

func TestGetStringSlice(t *testing.T) {
	cleanup := setupTestConfig(t, "mixed-types.yaml")
	defer cleanup()
	_, err := Load()
	require.NoError(t, err)

	got, err := GetStringSlice("ls.big")
	assert.NoError(t, err)
	assert.Equal(t, []string{"--sort -size", "--filter size>1024"}, got)

	got, err = GetStringSlice("ls.plain")
	assert.NoError(t, err)
	assert.Equal(t, []string{"--titles"}, got)

	_, err = GetStringSlice("ls.bad")
	assert.Error(t, err)

	_, err = GetStringSlice("max_times")
	assert.Error(t, err)

	got, err = GetStringSlice("ls.defaults", []string{})
	assert.NoError(t, err)
	assert.Empty(t, got)
}
