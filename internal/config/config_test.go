package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"AUDITLOG_DB", "AUDITLOG_EXPORT_DIR", "AUDITLOG_SHARE_DIR", "AUDITLOG_LOG_LEVEL", "AUDITLOG_LOG_FORMAT"} {
		t.Setenv(k, "")
	}
	t.Setenv("AUDITLOG_CONFIG", filepath.Join(t.TempDir(), "absent.yaml"))
}

func TestLoad_DefaultsWhenNoFile(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 800, cfg.Image.MaxWidth)
	assert.Equal(t, 70, cfg.Image.Quality)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.False(t, cfg.RequirePriority)
	assert.Equal(t, "auditlog.db", filepath.Base(cfg.Database))
}

func TestLoad_ExplicitMissingFile(t *testing.T) {
	clearEnv(t)
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read config file")
}

func TestLoad_YAML(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
database: /var/lib/auditlog/site.db
exportDir: /tmp/exports
shareDir: /srv/outbox
requirePriority: true
image:
  maxWidth: 1024
  quality: 85
logLevel: debug
logFormat: json
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/auditlog/site.db", cfg.Database)
	assert.Equal(t, "/tmp/exports", cfg.ExportDir)
	assert.Equal(t, "/srv/outbox", cfg.ShareDir)
	assert.True(t, cfg.RequirePriority)
	assert.Equal(t, 1024, cfg.Image.MaxWidth)
	assert.Equal(t, 85, cfg.Image.Quality)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
}

func TestLoad_EnvOverridesYAML(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "database: /from/file.db\nlogLevel: warn\n")
	t.Setenv("AUDITLOG_DB", "/from/env.db")
	t.Setenv("AUDITLOG_LOG_LEVEL", "ERROR")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/from/env.db", cfg.Database)
	assert.Equal(t, "error", cfg.LogLevel)
}

func TestLoad_DefaultPathFromEnv(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "shareDir: /outbox\n")
	t.Setenv("AUDITLOG_CONFIG", path)

	assert.Equal(t, path, DefaultPath())
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "/outbox", cfg.ShareDir)
}

func TestLoad_BadYAML(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "image: [not, a, map")
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config")
}

func TestValidate_SchemaViolations(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"quality zero", func(c *Config) { c.Image.Quality = 0 }},
		{"quality too high", func(c *Config) { c.Image.Quality = 101 }},
		{"width zero", func(c *Config) { c.Image.MaxWidth = 0 }},
		{"unknown level", func(c *Config) { c.LogLevel = "verbose" }},
		{"unknown format", func(c *Config) { c.LogFormat = "xml" }},
		{"empty database", func(c *Config) { c.Database = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid config")
		})
	}
}

func TestValidate_Default(t *testing.T) {
	require.NoError(t, Default().Validate())
}
