package patterns

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ramihatou97/DCS-sub011/internal/domain"
	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store using SQLite, for single-process
// deployments that don't need a shared Postgres instance.
type SQLiteStore struct {
	db  *sql.DB
	log *logrus.Entry
}

// NewSQLiteStore creates a new SQLite pattern store, creating the
// database file and schema if they don't already exist.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting WAL mode: %w", err)
	}

	if err := createSQLiteSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &SQLiteStore{db: db, log: logrus.WithField("component", "patterns.sqlite")}, nil
}

func createSQLiteSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS learned_patterns (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		field TEXT NOT NULL,
		pathology TEXT DEFAULT '',
		pattern TEXT NOT NULL,
		value_template TEXT DEFAULT '',
		enabled INTEGER NOT NULL DEFAULT 1,
		confidence REAL NOT NULL DEFAULT 0,
		version_history TEXT DEFAULT '[]',
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		last_updated DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_patterns_field ON learned_patterns(field);
	CREATE INDEX IF NOT EXISTS idx_patterns_pathology ON learned_patterns(pathology);
	CREATE INDEX IF NOT EXISTS idx_patterns_confidence ON learned_patterns(confidence);
	CREATE INDEX IF NOT EXISTS idx_patterns_created_at ON learned_patterns(created_at);
	`
	_, err := db.Exec(schema)
	return err
}

type sqliteScanner interface {
	Scan(dest ...interface{}) error
}

func scanPattern(s sqliteScanner) (domain.LearnedPattern, error) {
	var p domain.LearnedPattern
	var pathology, versionHistoryJSON string

	err := s.Scan(&p.ID, &p.Field, &pathology, &p.Pattern, &p.ValueTemplate,
		&p.Enabled, &p.Confidence, &versionHistoryJSON, &p.CreatedAt, &p.LastUpdated)
	if err != nil {
		return p, err
	}

	if pathology != "" {
		t := domain.PathologyType(pathology)
		p.Pathology = &t
	}
	if versionHistoryJSON != "" {
		_ = json.Unmarshal([]byte(versionHistoryJSON), &p.VersionHistory)
	}
	return p, nil
}

const selectColumns = `id, field, pathology, pattern, value_template, enabled, confidence, version_history, created_at, last_updated`

func (s *SQLiteStore) ListAll(ctx context.Context) ([]domain.LearnedPattern, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+selectColumns+" FROM learned_patterns ORDER BY created_at DESC")
	if err != nil {
		return nil, fmt.Errorf("querying patterns: %w", err)
	}
	defer rows.Close()
	return scanPatternRows(rows)
}

func (s *SQLiteStore) FilterByField(ctx context.Context, field string) ([]domain.LearnedPattern, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+selectColumns+" FROM learned_patterns WHERE field = ? AND enabled = 1 ORDER BY confidence DESC", field)
	if err != nil {
		return nil, fmt.Errorf("querying patterns by field: %w", err)
	}
	defer rows.Close()
	return scanPatternRows(rows)
}

func (s *SQLiteStore) FilterByPathology(ctx context.Context, types []domain.PathologyType) ([]domain.LearnedPattern, error) {
	if len(types) == 0 {
		return nil, nil
	}
	placeholders := make([]string, len(types))
	args := make([]interface{}, len(types))
	for i, t := range types {
		placeholders[i] = "?"
		args[i] = string(t)
	}
	query := fmt.Sprintf(
		"SELECT %s FROM learned_patterns WHERE pathology IN (%s) AND enabled = 1 ORDER BY confidence DESC",
		selectColumns, strings.Join(placeholders, ","),
	)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying patterns by pathology: %w", err)
	}
	defer rows.Close()
	return scanPatternRows(rows)
}

func scanPatternRows(rows *sql.Rows) ([]domain.LearnedPattern, error) {
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

func (s *SQLiteStore) Insert(ctx context.Context, pattern *domain.LearnedPattern) error {
	now := time.Now().UTC()
	pathology := ""
	if pattern.Pathology != nil {
		pathology = string(*pattern.Pathology)
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO learned_patterns (field, pathology, pattern, value_template, enabled, confidence, version_history, created_at, last_updated)
		VALUES (?, ?, ?, ?, ?, ?, '[]', ?, ?)
	`, pattern.Field, pathology, pattern.Pattern, pattern.ValueTemplate, pattern.Enabled, pattern.Confidence, now, now)
	if err != nil {
		return fmt.Errorf("inserting pattern: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading insert id: %w", err)
	}
	pattern.ID = id
	pattern.CreatedAt = now
	pattern.LastUpdated = now

	warnIfPHI(s.log, id, pattern.Pattern, pattern.ValueTemplate)
	return nil
}

func (s *SQLiteStore) UpdateConfidence(ctx context.Context, id int64, confidence float64) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE learned_patterns SET confidence = ?, last_updated = ? WHERE id = ?",
		confidence, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("updating confidence: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Delete(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM learned_patterns WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting pattern: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Snapshot(ctx context.Context, id int64) error {
	var pattern, versionHistoryJSON string
	var confidence float64
	err := s.db.QueryRowContext(ctx, "SELECT pattern, confidence, version_history FROM learned_patterns WHERE id = ?", id).
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
	_, err = s.db.ExecContext(ctx, "UPDATE learned_patterns SET version_history = ? WHERE id = ?", string(encoded), id)
	if err != nil {
		return fmt.Errorf("persisting snapshot: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Rollback(ctx context.Context, id int64, versionIndex int) error {
	var versionHistoryJSON string
	err := s.db.QueryRowContext(ctx, "SELECT version_history FROM learned_patterns WHERE id = ?", id).Scan(&versionHistoryJSON)
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
		UPDATE learned_patterns SET pattern = ?, confidence = ?, version_history = ?, last_updated = ? WHERE id = ?
	`, target.Pattern, target.Confidence, string(encoded), time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("applying rollback: %w", err)
	}
	return nil
}

func (s *SQLiteStore) ExportJSON(ctx context.Context, w io.Writer) error {
	all, err := s.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("listing patterns for export: %w", err)
	}
	bundle := ExportBundle{ExportedAt: time.Now().UTC(), Version: CurrentExportVersion, Patterns: all}
	return json.NewEncoder(w).Encode(bundle)
}

func (s *SQLiteStore) ImportJSON(ctx context.Context, r io.Reader) (imported, skipped int, err error) {
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

// Close releases the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

var _ io.Closer = (*SQLiteStore)(nil)
