// Package patterns persists learned extraction patterns: the coordinator's
// recall path and the validator-feedback write path that lets the
// extraction engine improve across requests without touching clinical
// note text itself.
package patterns

import (
	"context"
	"io"
	"time"

	"github.com/ramihatou97/DCS-sub011/internal/domain"
)

// Correction is one recorded validator-feedback correction: a category
// and field where the rule-based extraction was wrong, paired with the
// pattern it should have matched instead. Corrections accumulate
// independently of the LearnedPattern they eventually produce.
type Correction struct {
	Field        string    `json:"field"`
	Pathology    string    `json:"pathology,omitempty"`
	OriginalValue string   `json:"originalValue"`
	CorrectedValue string  `json:"correctedValue"`
	RecordedAt   time.Time `json:"recordedAt"`
}

// Metric is a single aggregate measurement recorded against the pattern
// store over time (e.g. a day's extraction accuracy for one field).
type Metric struct {
	Name      string    `json:"name"`
	Value     float64   `json:"value"`
	RecordedAt time.Time `json:"recordedAt"`
}

// ExportBundle is the privacy-safe import/export representation: no
// ClinicalNote text is ever stored here, only patterns, corrections, and
// metrics.
type ExportBundle struct {
	ExportedAt  time.Time              `json:"exportedAt"`
	Version     string                 `json:"version"`
	Patterns    []domain.LearnedPattern `json:"patterns"`
	Corrections []Correction           `json:"corrections"`
	Metrics     []Metric               `json:"metrics"`
}

// CurrentExportVersion is bumped whenever ExportBundle's shape changes in
// a way that is not backward compatible with a best-effort import.
const CurrentExportVersion = "1.0"

// Store is the opaque patternId -> LearnedPattern mapping the core
// extraction engine depends on. The core never depends on a specific
// backend; SQLiteStore and PostgresStore are the two implementations
// here, and BreakerStore wraps either behind a circuit breaker.
type Store interface {
	ListAll(ctx context.Context) ([]domain.LearnedPattern, error)
	FilterByField(ctx context.Context, field string) ([]domain.LearnedPattern, error)
	FilterByPathology(ctx context.Context, types []domain.PathologyType) ([]domain.LearnedPattern, error)
	Insert(ctx context.Context, pattern *domain.LearnedPattern) error
	UpdateConfidence(ctx context.Context, id int64, confidence float64) error
	Delete(ctx context.Context, id int64) error

	// Snapshot appends the pattern's current {Pattern, Confidence} onto
	// its own VersionHistory, for later Rollback.
	Snapshot(ctx context.Context, id int64) error
	// Rollback restores the pattern's {Pattern, Confidence} from the
	// version at versionIndex in VersionHistory, discarding that version
	// and every later one.
	Rollback(ctx context.Context, id int64, versionIndex int) error

	ExportJSON(ctx context.Context, w io.Writer) error
	ImportJSON(ctx context.Context, r io.Reader) (imported, skipped int, err error)
}
