// Package bootstrap builds the object graph shared by every transport
// entry point: the pattern store (behind a circuit breaker and an
// optional Redis read-through cache) and the coordinator/orchestrator
// pair built on top of it.
package bootstrap

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/ramihatou97/DCS-sub011/internal/cache"
	"github.com/ramihatou97/DCS-sub011/internal/coordinator"
	"github.com/ramihatou97/DCS-sub011/internal/domain"
	"github.com/ramihatou97/DCS-sub011/internal/orchestrate"
	"github.com/ramihatou97/DCS-sub011/internal/patterns"
)

// App is the fully wired backend every transport (gin, MCP) dispatches
// extraction requests to.
type App struct {
	Orchestrator *orchestrate.Orchestrator
	Store        patterns.Store
	PatternCache *cache.PatternCache
	log          *logrus.Entry
}

// New constructs the pattern store for the configured backend, wraps it
// in a named circuit breaker, layers an optional Redis cache in front of
// pattern recall, and assembles the coordinator and orchestrator.
func New(configManager domain.ConfigManager) (*App, error) {
	log := logrus.WithField("component", "bootstrap")
	cfg := configManager.GetConfig()

	store, err := newStore(&cfg.PatternStore)
	if err != nil {
		return nil, fmt.Errorf("building pattern store: %w", err)
	}

	guarded := patterns.NewBreakerStore("pattern-store", store, cfg.PatternStore.CircuitBreaker.Timeout)

	var patternCache *cache.PatternCache
	if cfg.Cache.RedisURL != "" {
		patternCache, err = cache.NewPatternCache(cfg.Cache.RedisURL, cfg.Cache.DefaultTTL)
		if err != nil {
			log.WithError(err).Warn("pattern cache unavailable, proceeding without it")
			patternCache = nil
		}
	}

	provider := cache.NewCachedPatternProvider(guarded, patternCache)
	coord := coordinator.NewWithBudget(provider, cfg.Extraction.PerExtractorSoftBudget)

	return &App{
		Orchestrator: orchestrate.New(coord),
		Store:        guarded,
		PatternCache: patternCache,
		log:          log,
	}, nil
}

func newStore(cfg *domain.PatternStoreConfig) (patterns.Store, error) {
	switch cfg.Backend {
	case "sqlite":
		return patterns.NewSQLiteStore(cfg.SQLitePath)
	case "postgres":
		if cfg.AutoMigrate {
			if err := runPatternMigrations(cfg); err != nil {
				return nil, fmt.Errorf("running pattern store migrations: %w", err)
			}
		}
		return patterns.NewPostgresStoreFromDSN(cfg.DSN, cfg.MaxOpenConns, cfg.MaxIdleConns, cfg.ConnMaxLifetime)
	default:
		return nil, fmt.Errorf("unknown pattern_store.backend: %q", cfg.Backend)
	}
}

// runPatternMigrations brings the learned_patterns schema up to date
// before the Postgres-backed store opens its pool, so a fresh database
// is usable on first request instead of failing on the first query.
func runPatternMigrations(cfg *domain.PatternStoreConfig) error {
	runner, err := patterns.NewMigrationRunner(cfg.DSN, cfg.MigrationsPath)
	if err != nil {
		return fmt.Errorf("building migration runner: %w", err)
	}
	defer runner.Close()

	return runner.Up(context.Background())
}

// Close releases the store's and cache's underlying connections.
func (a *App) Close() error {
	if closer, ok := a.Store.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			a.log.WithError(err).Error("failed to close pattern store")
		}
	}
	if a.PatternCache != nil {
		if err := a.PatternCache.Close(); err != nil {
			a.log.WithError(err).Error("failed to close pattern cache")
			return err
		}
	}
	return nil
}
