package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bitty.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "bitty.db", cfg.Database)
	assert.Equal(t, 30*time.Second, cfg.DecayInterval)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_NoFile(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
database: /tmp/pet.db
decay_interval: 1m
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/pet.db", cfg.Database)
	assert.Equal(t, time.Minute, cfg.DecayInterval)
	assert.Equal(t, "info", cfg.LogLevel, "unset fields keep defaults")
}

func TestLoad_EmptyFileKeepsDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, ""))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "database: file.db\nlog_level: warn\n")
	t.Setenv("BITTY_DATABASE", "env.db")
	t.Setenv("BITTY_DECAY_INTERVAL", "5s")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "env.db", cfg.Database)
	assert.Equal(t, 5*time.Second, cfg.DecayInterval)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestLoad_UnknownFieldRejected(t *testing.T) {
	path := writeConfig(t, "databse: typo.db\n")

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config file")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/nonexistent/bitty.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoad_BadEnvDuration(t *testing.T) {
	t.Setenv("BITTY_DECAY_INTERVAL", "soon")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse env")
}

func TestValidate_Rejects(t *testing.T) {
	tests := []struct {
		name  string
		mod   func(*Config)
		field string
	}{
		{"empty database", func(c *Config) { c.Database = "" }, "database"},
		{"zero interval", func(c *Config) { c.DecayInterval = 0 }, "decay_interval_ms"},
		{"negative interval", func(c *Config) { c.DecayInterval = -time.Second }, "decay_interval_ms"},
		{"interval over a day", func(c *Config) { c.DecayInterval = 25 * time.Hour }, "decay_interval_ms"},
		{"unknown log level", func(c *Config) { c.LogLevel = "loud" }, "log_level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mod(&cfg)

			err := cfg.Validate()
			require.Error(t, err)

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Contains(t, verr.Field, tt.field)
		})
	}
}

func TestSlogLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"info":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
		"":      slog.LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, Config{LogLevel: in}.SlogLevel(), "level %q", in)
	}
}

func TestValidationError_Format(t *testing.T) {
	err := &ValidationError{Field: "log_level", Message: "bad value"}
	assert.Equal(t, "invalid config: log_level: bad value", err.Error())
}
