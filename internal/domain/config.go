package domain

import "time"

// Config is the root application configuration tree, mirroring the
// teacher's viper-backed Config but trimmed to this service's actual
// external systems (no ClinVar/gnomAD/COSMIC configs — this domain has no
// genomic-evidence collaborators).
type Config struct {
	Server       ServerConfig       `mapstructure:"server"`
	PatternStore PatternStoreConfig `mapstructure:"pattern_store"`
	Cache        CacheConfig        `mapstructure:"cache"`
	Logging      LoggingConfig      `mapstructure:"logging"`
	MCP          MCPConfig          `mapstructure:"mcp"`
	Extraction   ExtractionConfig   `mapstructure:"extraction"`
}

// ServerConfig configures the HTTP boundary.
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

// PatternStoreConfig configures the C10 pattern store's backend.
type PatternStoreConfig struct {
	Backend         string        `mapstructure:"backend"` // "sqlite" or "postgres"
	SQLitePath      string        `mapstructure:"sqlite_path"`
	DSN             string        `mapstructure:"dsn"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	CircuitBreaker  CircuitBreakerConfig `mapstructure:"circuit_breaker"`

	// AutoMigrate, when true and Backend is "postgres", runs the
	// learned_patterns schema forward via MigrationsPath before the store
	// is constructed. SQLiteStore always creates its own schema inline,
	// so this has no effect on the sqlite backend.
	AutoMigrate    bool   `mapstructure:"auto_migrate"`
	MigrationsPath string `mapstructure:"migrations_path"`
}

// CircuitBreakerConfig configures the gobreaker wrapper around pattern
// store access.
type CircuitBreakerConfig struct {
	MaxFailures uint32        `mapstructure:"max_failures"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

// CacheConfig configures the optional shared Redis cache plus the
// in-process LRU used within a single request's refinement loop.
type CacheConfig struct {
	RedisURL    string        `mapstructure:"redis_url"`
	DefaultTTL  time.Duration `mapstructure:"default_ttl"`
	LRUSize     int           `mapstructure:"lru_size"`
}

// LoggingConfig configures logrus output.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// MCPConfig configures the MCP tool boundary.
type MCPConfig struct {
	ServerName    string `mapstructure:"server_name"`
	ServerVersion string `mapstructure:"server_version"`
}

// ExtractionConfig configures orchestrator-level defaults (§6 options).
type ExtractionConfig struct {
	EnableDeduplication    bool          `mapstructure:"enable_deduplication"`
	EnablePreprocessing    bool          `mapstructure:"enable_preprocessing"`
	EnableFeedbackLoops    bool          `mapstructure:"enable_feedback_loops"`
	MaxRefinementIterations int          `mapstructure:"max_refinement_iterations"`
	QualityThreshold       float64       `mapstructure:"quality_threshold"`
	CrossNoteDedupTimeout  time.Duration `mapstructure:"cross_note_dedup_timeout"`
	PerExtractorSoftBudget time.Duration `mapstructure:"per_extractor_soft_budget"`
}

// ConfigManager is the interface the rest of the service depends on for
// configuration access.
type ConfigManager interface {
	GetConfig() *Config
	GetServerConfig() *ServerConfig
	GetPatternStoreConfig() *PatternStoreConfig
	Reload() error
	Validate() error
	IsProduction() bool
}
