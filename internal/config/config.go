// Package config loads and validates the service's runtime configuration
// using Viper, binding file, environment, and default sources into the
// domain.Config tree the rest of the service depends on.
package config

import (
	"fmt"
	"strings"

	"github.com/ramihatou97/DCS-sub011/internal/domain"
	"github.com/spf13/viper"
)

// Manager implements domain.ConfigManager using Viper.
type Manager struct {
	config *domain.Config
}

// NewManager loads configuration from config.yaml (if present), the
// DCS_-prefixed environment, and built-in defaults, in that precedence.
func NewManager() (*Manager, error) {
	m := &Manager{}
	if err := m.loadConfig(); err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}
	return m, nil
}

func (m *Manager) loadConfig() error {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AddConfigPath("/etc/dcs-sub011/")

	viper.SetEnvPrefix("DCS")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	m.setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("reading config file: %w", err)
		}
	}

	config := &domain.Config{}
	if err := viper.Unmarshal(config); err != nil {
		return fmt.Errorf("unmarshaling config: %w", err)
	}

	m.config = config
	return nil
}

func (m *Manager) setDefaults() {
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout", "30s")
	viper.SetDefault("server.write_timeout", "30s")
	viper.SetDefault("server.idle_timeout", "120s")

	viper.SetDefault("pattern_store.backend", "sqlite")
	viper.SetDefault("pattern_store.sqlite_path", "./data/patterns.db")
	viper.SetDefault("pattern_store.dsn", "")
	viper.SetDefault("pattern_store.max_open_conns", 25)
	viper.SetDefault("pattern_store.max_idle_conns", 5)
	viper.SetDefault("pattern_store.conn_max_lifetime", "5m")
	viper.SetDefault("pattern_store.circuit_breaker.max_failures", 3)
	viper.SetDefault("pattern_store.circuit_breaker.timeout", "60s")
	viper.SetDefault("pattern_store.auto_migrate", true)
	viper.SetDefault("pattern_store.migrations_path", "migrations/patterns")

	viper.SetDefault("cache.redis_url", "")
	viper.SetDefault("cache.default_ttl", "24h")
	viper.SetDefault("cache.lru_size", 512)

	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "json")

	viper.SetDefault("mcp.server_name", "dcs-sub011")
	viper.SetDefault("mcp.server_version", "0.1.0")

	viper.SetDefault("extraction.enable_deduplication", true)
	viper.SetDefault("extraction.enable_preprocessing", true)
	viper.SetDefault("extraction.enable_feedback_loops", true)
	viper.SetDefault("extraction.max_refinement_iterations", 2)
	viper.SetDefault("extraction.quality_threshold", 0.7)
	viper.SetDefault("extraction.cross_note_dedup_timeout", "5m")
	viper.SetDefault("extraction.per_extractor_soft_budget", "8s")
}

// GetConfig returns the complete configuration tree.
func (m *Manager) GetConfig() *domain.Config {
	return m.config
}

// GetServerConfig returns the HTTP boundary configuration.
func (m *Manager) GetServerConfig() *domain.ServerConfig {
	return &m.config.Server
}

// GetPatternStoreConfig returns the C10 pattern store's backend configuration.
func (m *Manager) GetPatternStoreConfig() *domain.PatternStoreConfig {
	return &m.config.PatternStore
}

// Reload re-reads configuration from all sources.
func (m *Manager) Reload() error {
	return m.loadConfig()
}

// Validate checks required fields and reports the first violation found.
func (m *Manager) Validate() error {
	config := m.config

	if config.Server.Port <= 0 || config.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", config.Server.Port)
	}

	switch config.PatternStore.Backend {
	case "sqlite":
		if config.PatternStore.SQLitePath == "" {
			return fmt.Errorf("pattern_store.sqlite_path is required for the sqlite backend")
		}
	case "postgres":
		if config.PatternStore.DSN == "" {
			return fmt.Errorf("pattern_store.dsn is required for the postgres backend")
		}
	default:
		return fmt.Errorf("unknown pattern_store.backend: %q", config.PatternStore.Backend)
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true, "fatal": true, "panic": true,
	}
	if !validLogLevels[strings.ToLower(config.Logging.Level)] {
		return fmt.Errorf("invalid log level: %s", config.Logging.Level)
	}

	if config.Extraction.QualityThreshold < 0 || config.Extraction.QualityThreshold > 1 {
		return fmt.Errorf("extraction.quality_threshold must be in [0,1], got %f", config.Extraction.QualityThreshold)
	}
	if config.Extraction.MaxRefinementIterations < 0 {
		return fmt.Errorf("extraction.max_refinement_iterations must be non-negative")
	}

	return nil
}

// IsProduction reports whether the DCS_ENVIRONMENT variable names
// production deployment.
func (m *Manager) IsProduction() bool {
	return strings.ToLower(viper.GetString("environment")) == "production"
}

var _ domain.ConfigManager = (*Manager)(nil)
