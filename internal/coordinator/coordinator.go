package coordinator

import (
	"context"
	"time"

	"github.com/ramihatou97/DCS-sub011/internal/domain"
	"github.com/ramihatou97/DCS-sub011/internal/extract"
	"github.com/ramihatou97/DCS-sub011/internal/ontology"
	"github.com/ramihatou97/DCS-sub011/internal/quality"
	"github.com/sirupsen/logrus"
)

// PatternProvider is the subset of the pattern store the coordinator
// depends on: a single filtered read per request, batched rather than
// looked up per-field.
type PatternProvider interface {
	FilterByPathology(ctx context.Context, types []domain.PathologyType) ([]domain.LearnedPattern, error)
}

// Options controls which coordinator steps run, mirroring the recognized
// option keys of the external extraction contract.
type Options struct {
	EnableDeduplication bool
	EnablePreprocessing bool
	LearnedPatterns     []domain.LearnedPattern
	Targets             []string

	// SkipLearnedPatterns forces a pure rule-based pass: neither an
	// explicit LearnedPatterns override nor a Pattern-store recall is
	// consulted by the category extractors. The orchestrator sets this
	// for the baseline extraction (Metadata.Method: "rule-based") and
	// leaves it false for the refinement loop's targeted patch calls,
	// which is where learned-pattern application is actually meant to
	// earn its keep: augmenting the specific categories validation or
	// quality flagged as weak, not the whole record every time.
	SkipLearnedPatterns bool
}

// DefaultOptions returns the contract's documented defaults.
func DefaultOptions() Options {
	return Options{EnableDeduplication: true, EnablePreprocessing: true}
}

// Coordinator runs pre-processing, pathology detection, and
// dependency-ordered extractor dispatch over one or more notes.
type Coordinator struct {
	Patterns PatternProvider
	log      *logrus.Entry
	budget   *extractorBudget
}

// New constructs a Coordinator. patterns may be nil, in which case
// learned-pattern recall is skipped entirely (equivalent to
// PatternStoreUnavailable degrading to an empty set). The per-extractor
// soft budget defaults to 8 seconds; use NewWithBudget to override it from
// configuration.
func New(patterns PatternProvider) *Coordinator {
	return NewWithBudget(patterns, defaultExtractorBudget)
}

// NewWithBudget constructs a Coordinator with an explicit per-extractor
// soft budget, for callers wiring internal/config's
// ExtractionConfig.PerExtractorSoftBudget.
func NewWithBudget(patterns PatternProvider, perExtractorBudget time.Duration) *Coordinator {
	log := logrus.WithField("component", "coordinator")
	return &Coordinator{
		Patterns: patterns,
		log:      log,
		budget:   newExtractorBudget(perExtractorBudget, log),
	}
}

func wants(targets []string, category string) bool {
	if len(targets) == 0 {
		return true
	}
	for _, t := range targets {
		if t == category {
			return true
		}
	}
	return false
}

// Run executes the full coordinator pipeline: normalize, pre-process,
// cross-note dedup, pathology detection, source-quality assessment,
// learned-pattern recall, dependency-ordered extraction, and confidence
// calibration.
func (c *Coordinator) Run(ctx context.Context, notes []string, opts Options) (domain.ExtractedRecord, error) {
	var record domain.ExtractedRecord
	noteCount := len(notes)

	if opts.EnableDeduplication && len(notes) > 1 {
		deduped, completed := DeduplicateNotes(ctx, notes)
		if !completed {
			c.log.Warn("cross-note deduplication timed out, proceeding with original note list")
		}
		notes = deduped
	}

	combined := NormalizeInput(notes)
	combined = Preprocess(combined, opts.EnablePreprocessing)

	detections := ontology.DetectPathology(combined)
	qualityReport := quality.Assess(combined)

	var patterns []domain.LearnedPattern
	if !opts.SkipLearnedPatterns {
		if len(opts.LearnedPatterns) > 0 {
			patterns = opts.LearnedPatterns
		} else if c.Patterns != nil {
			types := make([]domain.PathologyType, 0, len(detections))
			for _, d := range detections {
				types = append(types, d.Type)
			}
			loaded, err := c.Patterns.FilterByPathology(ctx, types)
			if err != nil {
				c.log.WithError(err).Warn("pattern store unavailable, proceeding with empty learned-pattern set")
			} else {
				patterns = loaded
			}
		}
	}

	record.Pathology.Types = detections
	if len(detections) > 0 {
		record.Pathology.Primary = detections[0].Name
	}

	if wants(opts.Targets, "demographics") {
		c.budget.guard("demographics", func() {
			record.Demographics, _ = extract.ExtractDemographics(combined)
		})
	}

	if wants(opts.Targets, "dates") {
		c.budget.guard("dates", func() {
			record.Dates, _ = extract.ExtractDates(combined, detections)
		})
	}

	if wants(opts.Targets, "pathology") {
		c.budget.guard("pathology", func() {
			pathologyRecord, _ := extract.ExtractPathology(combined, detections)
			record.Pathology = pathologyRecord
		})
	}

	refDates := record.Dates.Reference

	if wants(opts.Targets, "symptoms") {
		c.budget.guard("symptoms", func() {
			record.Symptoms, _ = extract.ExtractSymptoms(combined, detections, refDates, patterns)
		})
	}
	if wants(opts.Targets, "procedures") {
		c.budget.guard("procedures", func() {
			record.Procedures, _ = extract.ExtractProcedures(combined, detections, refDates, patterns)
		})
	}
	if wants(opts.Targets, "complications") {
		c.budget.guard("complications", func() {
			record.Complications, _ = extract.ExtractComplications(combined, detections, refDates, patterns)
		})
	}
	if wants(opts.Targets, "medications") {
		c.budget.guard("medications", func() {
			record.Medications, _ = extract.ExtractMedications(combined, refDates, patterns)
		})
	}
	if wants(opts.Targets, "imaging") {
		c.budget.guard("imaging", func() {
			record.Imaging, _ = extract.ExtractImaging(combined, refDates, patterns)
		})
	}
	if wants(opts.Targets, "functional") {
		c.budget.guard("functional", func() {
			record.Functional, _ = extract.ExtractFunctionalScores(combined)
		})
	}
	if wants(opts.Targets, "followup") {
		c.budget.guard("followup", func() {
			record.FollowUp, _ = extract.ExtractFollowUp(combined, refDates, patterns)
		})
	}
	if wants(opts.Targets, "destination") {
		c.budget.guard("destination", func() {
			record.DischargeDestination, _ = extract.ExtractDischargeDestination(combined, patterns)
		})
	}
	if wants(opts.Targets, "anticoagulation") {
		c.budget.guard("anticoagulation", func() {
			record.Anticoagulation, _ = extract.ExtractAnticoagulation(combined, refDates, patterns)
		})
	}
	if wants(opts.Targets, "oncology") {
		c.budget.guard("oncology", func() {
			record.OncologyMarkers, _ = extract.ExtractOncologyMarkers(combined, refDates, patterns)
		})
	}
	if wants(opts.Targets, "laterecovery") {
		c.budget.guard("laterecovery", func() {
			record.LateRecovery = extract.DetectLateRecovery(combined, record.Dates)
		})
	}

	record.Confidence = calibrateAll(record, qualityReport)
	record.Metadata = domain.RecordMetadata{
		Method:        "rule-based",
		NoteCount:     noteCount,
		TotalLength:   len(combined),
		SourceQuality: qualityReport,
	}

	return record, nil
}

func calibrateAll(record domain.ExtractedRecord, report domain.SourceQualityReport) map[string]float64 {
	confidence := make(map[string]float64)
	if record.Demographics.MRN != "" || record.Demographics.Name != "" {
		confidence["demographics"] = quality.CalibrateConfidence(0.7, report)
	}
	if len(record.Pathology.Types) > 0 {
		confidence["pathology"] = quality.CalibrateConfidence(record.Pathology.Types[0].Confidence, report)
	}
	confidence["procedures"] = calibrateCategory(record.Procedures, report)
	confidence["complications"] = calibrateCategory(record.Complications, report)
	confidence["medications"] = calibrateCategory(record.Medications, report)
	confidence["symptoms"] = calibrateCategory(record.Symptoms, report)
	confidence["imaging"] = calibrateCategory(record.Imaging, report)
	confidence["followup"] = calibrateCategory(record.FollowUp, report)
	confidence["anticoagulation"] = calibrateCategory(record.Anticoagulation, report)
	confidence["oncology"] = calibrateCategory(record.OncologyMarkers, report)
	return confidence
}

func calibrateCategory(entities []domain.CanonicalEntity, report domain.SourceQualityReport) float64 {
	if len(entities) == 0 {
		return 0
	}
	sum := 0.0
	for _, e := range entities {
		sum += quality.CalibrateConfidence(e.Confidence, report)
	}
	return sum / float64(len(entities))
}
