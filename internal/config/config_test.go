package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfig(t *testing.T) {
	yml := writeFile(t, "linker.yml", `
env: dev
log_level: debug
select_mode: toggle
timeout: 3s
breaker:
  enabled: false
dev:
  endpoint: http://localhost:4001/
prod:
  endpoint: https://linker.example.com/api
`)
	json := writeFile(t, "api.json", `{"dev": {"endpoint": "http://localhost:8080"}}`)

	tests := []struct {
		name       string
		opts       Options
		env        map[string]string
		endpoint   string
		selectMode string
		timeout    time.Duration
	}{
		{
			name:       "dev block from yaml",
			opts:       Options{File: yml},
			endpoint:   "http://localhost:4001",
			selectMode: SelectModeToggle,
			timeout:    3 * time.Second,
		},
		{
			name:       "explicit env",
			opts:       Options{File: yml, Env: "prod"},
			endpoint:   "https://linker.example.com/api",
			selectMode: SelectModeToggle,
			timeout:    3 * time.Second,
		},
		{
			name:       "env selected through environment",
			opts:       Options{File: yml},
			env:        map[string]string{"LINKER_ENV": "prod"},
			endpoint:   "https://linker.example.com/api",
			selectMode: SelectModeToggle,
			timeout:    3 * time.Second,
		},
		{
			name:       "json document like the web ui config",
			opts:       Options{File: json},
			endpoint:   "http://localhost:8080",
			selectMode: SelectModeSet,
			timeout:    DefaultTimeout,
		},
		{
			name:       "endpoint override",
			opts:       Options{File: json},
			env:        map[string]string{"LINKER_ENDPOINT": "http://override:9000"},
			endpoint:   "http://override:9000",
			selectMode: SelectModeSet,
			timeout:    DefaultTimeout,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cfg, err := LoadConfig(tt.opts)
			require.NoError(t, err)
			assert.Equal(t, tt.endpoint, cfg.Endpoint)
			assert.Equal(t, tt.selectMode, cfg.SelectMode)
			assert.Equal(t, tt.timeout, cfg.Timeout)
		})
	}
}

func TestLoadConfig_Errors(t *testing.T) {
	t.Run("missing endpoint", func(t *testing.T) {
		path := writeFile(t, "linker.yml", "env: dev\n")
		_, err := LoadConfig(Options{File: path})
		assert.ErrorIs(t, err, ErrMissingEndpoint)
	})

	t.Run("invalid select mode", func(t *testing.T) {
		path := writeFile(t, "linker.yml", "select_mode: sometimes\ndev:\n  endpoint: http://localhost:4001\n")
		_, err := LoadConfig(Options{File: path})
		assert.Error(t, err)
	})

	t.Run("missing explicit file", func(t *testing.T) {
		_, err := LoadConfig(Options{File: filepath.Join(t.TempDir(), "nope.yml")})
		assert.Error(t, err)
	})
}

func TestLoadConfig_DotEnv(t *testing.T) {
	yml := writeFile(t, "linker.yml", "dev:\n  endpoint: http://localhost:4001\n")
	dotenv := writeFile(t, ".env", "LINKER_ENDPOINT=http://from-dotenv:4001\n")
	t.Setenv("LINKER_ENDPOINT", "")
	require.NoError(t, os.Unsetenv("LINKER_ENDPOINT"))

	cfg, err := LoadConfig(Options{File: yml, DotEnv: []string{dotenv}})
	require.NoError(t, err)
	assert.Equal(t, "http://from-dotenv:4001", cfg.Endpoint)
}

func TestSaveEndpoint(t *testing.T) {
	path := filepath.Join(t.TempDir(), "linker", "linker.yml")

	require.NoError(t, SaveEndpoint(path, "", "http://localhost:4001"))
	env, endpoint, err := Current(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultEnv, env)
	assert.Equal(t, "http://localhost:4001", endpoint)

	require.NoError(t, SaveEndpoint(path, "prod", "https://linker.example.com"))
	env, endpoint, err = Current(path)
	require.NoError(t, err)
	assert.Equal(t, "prod", env)
	assert.Equal(t, "https://linker.example.com", endpoint)

	cfg, err := LoadConfig(Options{File: path, Env: "dev"})
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:4001", cfg.Endpoint)

	require.NoError(t, Reset(path))
	require.NoError(t, Reset(path))
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}
