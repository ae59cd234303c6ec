package patterns

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/ramihatou97/DCS-sub011/internal/domain"
	"github.com/sirupsen/logrus"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// PostgresStore implements Store using PostgreSQL via the pgx stdlib
// driver, for multi-process deployments where several extraction
// workers share one pattern store. Schema is expected to already exist,
// created via MigrationRunner before the store is constructed.
type PostgresStore struct {
	db  *sql.DB
	log *logrus.Entry
}

// NewPostgresStore wraps an already-open *sql.DB.
func NewPostgresStore(db *sql.DB) (*PostgresStore, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is required")
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	return &PostgresStore{db: db, log: logrus.WithField("component", "patterns.postgres")}, nil
}

// NewPostgresStoreFromDSN opens a connection pool against dsn using the
// pgx stdlib driver with the given pool sizing.
func NewPostgresStoreFromDSN(dsn string, maxOpenConns, maxIdleConns int, connMaxLifetime time.Duration) (*PostgresStore, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if maxOpenConns > 0 {
		db.SetMaxOpenConns(maxOpenConns)
	}
	if maxIdleConns > 0 {
		db.SetMaxIdleConns(maxIdleConns)
	}
	if connMaxLifetime > 0 {
		db.SetConnMaxLifetime(connMaxLifetime)
	}

	store, err := NewPostgresStore(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

func (s *PostgresStore) ListAll(ctx context.Context) ([]domain.LearnedPattern, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+pgSelectColumns+" FROM learned_patterns ORDER BY created_at DESC")
	if err != nil {
		return nil, fmt.Errorf("querying patterns: %w", err)
	}
	defer rows.Close()
	return scanPgPatternRows(rows)
}

func (s *PostgresStore) FilterByField(ctx context.Context, field string) ([]domain.LearnedPattern, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+pgSelectColumns+" FROM learned_patterns WHERE field = $1 AND enabled = true ORDER BY confidence DESC", field)
	if err != nil {
		return nil, fmt.Errorf("querying patterns by field: %w", err)
	}
	defer rows.Close()
	return scanPgPatternRows(rows)
}

func (s *PostgresStore) FilterByPathology(ctx context.Context, types []domain.PathologyType) ([]domain.LearnedPattern, error) {
	if len(types) == 0 {
		return nil, nil
	}
	placeholders := make([]string, len(types))
	args := make([]interface{}, len(types))
	for i, t := range types {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = string(t)
	}
	query := fmt.Sprintf(
		"SELECT %s FROM learned_patterns WHERE pathology IN (%s) AND enabled = true ORDER BY confidence DESC",
		pgSelectColumns, strings.Join(placeholders, ","),
	)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying patterns by pathology: %w", err)
	}
	defer rows.Close()
	return scanPgPatternRows(rows)
}

const pgSelectColumns = `id, field, pathology, pattern, value_template, enabled, confidence, version_history, created_at, last_updated`

func scanPgPatternRows(rows *sql.Rows) ([]domain.LearnedPattern, error) {
	var result []domain.LearnedPattern
	for rows.Next() {
		p, err := scanPattern(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning pattern row: %w", err)
		}
		result = append(result, p)
	}
	return result, rows.Err()
}

func (s *PostgresStore) Insert(ctx context.Context, pattern *domain.LearnedPattern) error {
	now := time.Now().UTC()
	pathology := ""
	if pattern.Pathology != nil {
		pathology = string(*pattern.Pathology)
	}

	err := s.db.QueryRowContext(ctx, `
		INSERT INTO learned_patterns (field, pathology, pattern, value_template, enabled, confidence, version_history, created_at, last_updated)
		VALUES ($1, $2, $3, $4, $5, $6, '[]', $7, $7)
		RETURNING id
	`, pattern.Field, pathology, pattern.Pattern, pattern.ValueTemplate, pattern.Enabled, pattern.Confidence, now).Scan(&pattern.ID)
	if err != nil {
		return fmt.Errorf("inserting pattern: %w", err)
	}
	pattern.CreatedAt = now
	pattern.LastUpdated = now

	warnIfPHI(s.log, pattern.ID, pattern.Pattern, pattern.ValueTemplate)
	return nil
}

func (s *PostgresStore) UpdateConfidence(ctx context.Context, id int64, confidence float64) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE learned_patterns SET confidence = $1, last_updated = $2 WHERE id = $3",
		confidence, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("updating confidence: %w", err)
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM learned_patterns WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("deleting pattern: %w", err)
	}
	return nil
}

func (s *PostgresStore) Snapshot(ctx context.Context, id int64) error {
	var pattern, versionHistoryJSON string
	var confidence float64
	err := s.db.QueryRowContext(ctx, "SELECT pattern, confidence, version_history FROM learned_patterns WHERE id = $1", id).
		Scan(&pattern, &confidence, &versionHistoryJSON)
	if err == sql.ErrNoRows {
		return fmt.Errorf("pattern %d not found", id)
	}
	if err != nil {
		return fmt.Errorf("reading pattern for snapshot: %w", err)
	}

	var history []domain.LearnedPatternVersion
	_ = json.Unmarshal([]byte(versionHistoryJSON), &history)
	history = append(history, domain.LearnedPatternVersion{Pattern: pattern, Confidence: confidence, SavedAt: time.Now().UTC()})

	encoded, err := json.Marshal(history)
	if err != nil {
		return fmt.Errorf("encoding version history: %w", err)
	}
	_, err = s.db.ExecContext(ctx, "UPDATE learned_patterns SET version_history = $1 WHERE id = $2", string(encoded), id)
	if err != nil {
		return fmt.Errorf("persisting snapshot: %w", err)
	}
	return nil
}

func (s *PostgresStore) Rollback(ctx context.Context, id int64, versionIndex int) error {
	var versionHistoryJSON string
	err := s.db.QueryRowContext(ctx, "SELECT version_history FROM learned_patterns WHERE id = $1", id).Scan(&versionHistoryJSON)
	if err == sql.ErrNoRows {
		return fmt.Errorf("pattern %d not found", id)
	}
	if err != nil {
		return fmt.Errorf("reading version history: %w", err)
	}

	var history []domain.LearnedPatternVersion
	_ = json.Unmarshal([]byte(versionHistoryJSON), &history)
	if versionIndex < 0 || versionIndex >= len(history) {
		return fmt.Errorf("version index %d out of range (have %d versions)", versionIndex, len(history))
	}

	target := history[versionIndex]
	truncated := history[:versionIndex]
	encoded, err := json.Marshal(truncated)
	if err != nil {
		return fmt.Errorf("encoding truncated version history: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		UPDATE learned_patterns SET pattern = $1, confidence = $2, version_history = $3, last_updated = $4 WHERE id = $5
	`, target.Pattern, target.Confidence, string(encoded), time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("applying rollback: %w", err)
	}
	return nil
}

func (s *PostgresStore) ExportJSON(ctx context.Context, w io.Writer) error {
	all, err := s.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("listing patterns for export: %w", err)
	}
	bundle := ExportBundle{ExportedAt: time.Now().UTC(), Version: CurrentExportVersion, Patterns: all}
	return json.NewEncoder(w).Encode(bundle)
}

func (s *PostgresStore) ImportJSON(ctx context.Context, r io.Reader) (imported, skipped int, err error) {
	var bundle ExportBundle
	if err := json.NewDecoder(r).Decode(&bundle); err != nil {
		return 0, 0, fmt.Errorf("decoding export bundle: %w", err)
	}
	if bundle.Version != CurrentExportVersion {
		s.log.WithFields(logrus.Fields{
			"bundle_version": bundle.Version, "current_version": CurrentExportVersion,
		}).Warn("pattern import version mismatch, attempting best-effort load")
	}
	for i := range bundle.Patterns {
		p := bundle.Patterns[i]
		p.ID = 0
		if err := s.Insert(ctx, &p); err != nil {
			skipped++
			continue
		}
		imported++
	}
	return imported, skipped, nil
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}

var _ io.Closer = (*PostgresStore)(nil)
