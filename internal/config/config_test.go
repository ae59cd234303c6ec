package config

import (
	"os"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetViper(t *testing.T) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)
}

func clearEnvVars(t *testing.T) {
	t.Helper()
	vars := []string{
		"DCS_SERVER_PORT", "DCS_PATTERN_STORE_BACKEND", "DCS_PATTERN_STORE_DSN",
		"DCS_LOGGING_LEVEL", "DCS_EXTRACTION_QUALITY_THRESHOLD", "DCS_ENVIRONMENT",
	}
	for _, v := range vars {
		os.Unsetenv(v)
	}
	t.Cleanup(func() {
		for _, v := range vars {
			os.Unsetenv(v)
		}
	})
}

func TestNewManager_Defaults(t *testing.T) {
	resetViper(t)
	clearEnvVars(t)

	m, err := NewManager()
	require.NoError(t, err)

	cfg := m.GetConfig()
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "sqlite", cfg.PatternStore.Backend)
	assert.True(t, cfg.PatternStore.AutoMigrate)
	assert.Equal(t, "migrations/patterns", cfg.PatternStore.MigrationsPath)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, 2, cfg.Extraction.MaxRefinementIterations)
	assert.InDelta(t, 0.7, cfg.Extraction.QualityThreshold, 0.0001)
}

func TestNewManager_EnvironmentOverrides(t *testing.T) {
	resetViper(t)
	clearEnvVars(t)

	os.Setenv("DCS_SERVER_PORT", "9090")
	os.Setenv("DCS_PATTERN_STORE_BACKEND", "postgres")
	os.Setenv("DCS_PATTERN_STORE_DSN", "postgres://localhost/dcs")
	os.Setenv("DCS_LOGGING_LEVEL", "debug")

	m, err := NewManager()
	require.NoError(t, err)

	cfg := m.GetConfig()
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "postgres", cfg.PatternStore.Backend)
	assert.Equal(t, "postgres://localhost/dcs", cfg.PatternStore.DSN)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestManager_Validate_RejectsInvalidPort(t *testing.T) {
	resetViper(t)
	clearEnvVars(t)
	os.Setenv("DCS_SERVER_PORT", "0")

	m, err := NewManager()
	require.NoError(t, err)

	assert.Error(t, m.Validate())
}

func TestManager_Validate_RejectsMissingPostgresDSN(t *testing.T) {
	resetViper(t)
	clearEnvVars(t)
	os.Setenv("DCS_PATTERN_STORE_BACKEND", "postgres")

	m, err := NewManager()
	require.NoError(t, err)

	err = m.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "dsn")
}

func TestManager_Validate_RejectsUnknownLogLevel(t *testing.T) {
	resetViper(t)
	clearEnvVars(t)
	os.Setenv("DCS_LOGGING_LEVEL", "verbose")

	m, err := NewManager()
	require.NoError(t, err)

	assert.Error(t, m.Validate())
}

func TestManager_Validate_AcceptsDefaults(t *testing.T) {
	resetViper(t)
	clearEnvVars(t)

	m, err := NewManager()
	require.NoError(t, err)

	assert.NoError(t, m.Validate())
}

func TestManager_IsProduction(t *testing.T) {
	resetViper(t)
	clearEnvVars(t)
	os.Setenv("DCS_ENVIRONMENT", "production")

	m, err := NewManager()
	require.NoError(t, err)

	assert.True(t, m.IsProduction())
}

func TestManager_Reload(t *testing.T) {
	resetViper(t)
	clearEnvVars(t)

	m, err := NewManager()
	require.NoError(t, err)
	assert.Equal(t, 8080, m.GetServerConfig().Port)

	os.Setenv("DCS_SERVER_PORT", "7000")
	require.NoError(t, m.Reload())
	assert.Equal(t, 7000, m.GetServerConfig().Port)
}
