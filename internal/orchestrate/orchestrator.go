// Package orchestrate sequences extraction, validation, clinical-
// intelligence gathering, and six-dimension quality scoring into the
// single entry point external callers use, with an optional bounded
// refinement loop.
package orchestrate

import (
	"context"
	"strings"
	"time"

	"github.com/ramihatou97/DCS-sub011/internal/coordinator"
	"github.com/ramihatou97/DCS-sub011/internal/domain"
	"github.com/ramihatou97/DCS-sub011/internal/validate"
	"github.com/sirupsen/logrus"
)

// Options mirrors the recognized keys of the external programmatic
// contract.
type Options struct {
	UseLLM                  *bool
	UsePatterns             bool
	EnableDeduplication     bool
	EnablePreprocessing     bool
	IncludeConfidence       bool
	Targets                 []string
	LearnedPatterns         []domain.LearnedPattern
	EnableLearning          bool
	EnableFeedbackLoops     bool
	MaxRefinementIterations int
	QualityThreshold        float64
	LegacyThreeDimension    bool
}

// DefaultOptions returns the contract's documented defaults.
func DefaultOptions() Options {
	return Options{
		EnableDeduplication:     true,
		EnablePreprocessing:     true,
		IncludeConfidence:       true,
		MaxRefinementIterations: 2,
		QualityThreshold:        0.7,
	}
}

// PerformanceMetrics is the per-phase timing breakdown attached to
// Metadata. ContextBuilding is folded into Extraction: the coordinator
// does not expose a normalize/pre-process sub-timing separately from
// the extraction pass it runs inline with it.
type PerformanceMetrics struct {
	ContextBuilding time.Duration `json:"contextBuilding"`
	Extraction      time.Duration `json:"extraction"`
	Intelligence    time.Duration `json:"intelligence"`
	Validation      time.Duration `json:"validation"`
	Narrative       time.Duration `json:"narrative"`
	QualityMetrics  time.Duration `json:"qualityMetrics"`
	Overall         time.Duration `json:"overall"`
}

// ResultMetadata is the metadata block of the external contract's output.
type ResultMetadata struct {
	StartTime          time.Time          `json:"startTime"`
	ProcessingTime     time.Duration      `json:"processingTime"`
	PerformanceMetrics PerformanceMetrics `json:"performanceMetrics"`
}

// Result is the external contract's output shape, success and failure
// alike: a catastrophic failure sets Success=false and Error, never a
// panic or a returned error value.
type Result struct {
	Success              bool                  `json:"success"`
	Summary              string                `json:"summary,omitempty"`
	ExtractedData        domain.ExtractedRecord `json:"extractedData"`
	Validation           validate.Result       `json:"validation"`
	Intelligence         Intelligence          `json:"intelligence"`
	QualityMetrics       domain.QualityReport  `json:"qualityMetrics"`
	RefinementIterations int                   `json:"refinementIterations"`
	Metadata             ResultMetadata        `json:"metadata"`
	Error                string                `json:"error,omitempty"`
}

// Orchestrator sequences C7 -> C8 -> intelligence -> quality scoring ->
// optional refinement.
type Orchestrator struct {
	coordinator *coordinator.Coordinator
	log         *logrus.Entry
}

// New constructs an Orchestrator around a Coordinator.
func New(coord *coordinator.Coordinator) *Orchestrator {
	return &Orchestrator{coordinator: coord, log: logrus.WithField("component", "orchestrator")}
}

func allBlank(notes []string) bool {
	for _, n := range notes {
		if strings.TrimSpace(n) != "" {
			return false
		}
	}
	return true
}

// Run executes the full pipeline. extractedData, when non-nil, is a
// caller-supplied record the orchestrator trusts instead of running C7 —
// used both for round-trip idempotence and for resuming a refinement
// loop external to this call. The orchestrator never propagates a Go
// error to the caller; every failure path returns Result{Success:false}.
func (o *Orchestrator) Run(ctx context.Context, notes []string, extractedData *domain.ExtractedRecord, opts Options) Result {
	startTime := time.Now()
	metrics := PerformanceMetrics{}

	if extractedData == nil && (len(notes) == 0 || allBlank(notes)) {
		return Result{
			Success: false,
			Error:   "No valid input provided",
			Metadata: ResultMetadata{
				StartTime:      startTime,
				ProcessingTime: time.Since(startTime),
			},
		}
	}

	sourceText := coordinator.Preprocess(coordinator.NormalizeInput(notes), opts.EnablePreprocessing)

	record, extractErr := o.extract(ctx, notes, extractedData, opts, &metrics)
	if extractErr != nil {
		return o.deadlineResult(startTime, metrics)
	}

	validationStart := time.Now()
	validationResult := validate.Validate(record, sourceText)
	metrics.Validation = time.Since(validationStart)
	if ctx.Err() != nil {
		return o.partialDeadlineResult(startTime, metrics, record, validationResult)
	}

	intelStart := time.Now()
	intel := GatherIntelligence(validationResult.ValidatedData, validationResult, opts.LearnedPatterns)
	metrics.Intelligence = time.Since(intelStart)

	qualityStart := time.Now()
	report := ScoreQuality(validationResult.ValidatedData, validationResult, intel)
	if opts.LegacyThreeDimension {
		report = RemapToLegacyThreeDimension(report)
	}
	metrics.QualityMetrics = time.Since(qualityStart)

	refinementIterations := 0
	if opts.EnableFeedbackLoops {
		validationResult, intel, report, refinementIterations = o.refine(ctx, sourceText, validationResult, opts, &metrics)
	}

	metrics.Overall = time.Since(startTime)
	return Result{
		Success:              true,
		ExtractedData:        validationResult.ValidatedData,
		Validation:           validationResult,
		Intelligence:         intel,
		QualityMetrics:       report,
		RefinementIterations: refinementIterations,
		Metadata: ResultMetadata{
			StartTime:          startTime,
			ProcessingTime:      time.Since(startTime),
			PerformanceMetrics: metrics,
		},
	}
}

func (o *Orchestrator) extract(ctx context.Context, notes []string, extractedData *domain.ExtractedRecord, opts Options, metrics *PerformanceMetrics) (domain.ExtractedRecord, error) {
	if extractedData != nil {
		return *extractedData, nil
	}

	extractionStart := time.Now()
	coordOpts := coordinator.Options{
		EnableDeduplication: opts.EnableDeduplication,
		EnablePreprocessing: opts.EnablePreprocessing,
		LearnedPatterns:     opts.LearnedPatterns,
		Targets:             opts.Targets,
		// The baseline pass stays pure rule-based (Metadata.Method:
		// "rule-based"); learned-pattern application is reserved for
		// refine's targeted patch calls below, so it has a genuinely
		// different input to work with rather than repeating this pass.
		SkipLearnedPatterns: true,
	}
	record, err := o.coordinator.Run(ctx, notes, coordOpts)
	metrics.Extraction = time.Since(extractionStart)
	if err != nil {
		o.log.WithError(err).Warn("extraction failed, degrading to empty record")
		return domain.ExtractedRecord{}, err
	}
	if ctx.Err() != nil {
		return record, ctx.Err()
	}
	return record, nil
}

func (o *Orchestrator) deadlineResult(startTime time.Time, metrics PerformanceMetrics) Result {
	metrics.Overall = time.Since(startTime)
	return Result{
		Success: false,
		Error:   "deadline exceeded",
		Metadata: ResultMetadata{
			StartTime:          startTime,
			ProcessingTime:      time.Since(startTime),
			PerformanceMetrics: metrics,
		},
	}
}

func (o *Orchestrator) partialDeadlineResult(startTime time.Time, metrics PerformanceMetrics, record domain.ExtractedRecord, validation validate.Result) Result {
	metrics.Overall = time.Since(startTime)
	return Result{
		Success:       false,
		Error:         "deadline exceeded",
		ExtractedData: record,
		Validation:    validation,
		Metadata: ResultMetadata{
			StartTime:          startTime,
			ProcessingTime:      time.Since(startTime),
			PerformanceMetrics: metrics,
		},
	}
}

// refine re-runs validation and scoring after patching the categories
// named in the intelligence report's improvement suggestions, for up to
// MaxRefinementIterations rounds, keeping a round's result only if
// overall quality improved.
func (o *Orchestrator) refine(ctx context.Context, sourceText string, validation validate.Result, opts Options, metrics *PerformanceMetrics) (validate.Result, Intelligence, domain.QualityReport, int) {
	intel := GatherIntelligence(validation.ValidatedData, validation, opts.LearnedPatterns)
	report := ScoreQuality(validation.ValidatedData, validation, intel)
	if opts.LegacyThreeDimension {
		report = RemapToLegacyThreeDimension(report)
	}

	iterations := 0
	for iterations < opts.MaxRefinementIterations && report.Overall < opts.QualityThreshold {
		if ctx.Err() != nil {
			break
		}
		if len(intel.ImprovementSuggestions) == 0 {
			break
		}

		targets := targetsFromSuggestions(intel.ImprovementSuggestions)
		patchOpts := coordinator.Options{
			EnableDeduplication: opts.EnableDeduplication,
			EnablePreprocessing: opts.EnablePreprocessing,
			LearnedPatterns:     opts.LearnedPatterns,
			Targets:             targets,
		}
		patched, err := o.coordinator.Run(ctx, []string{sourceText}, patchOpts)
		if err != nil {
			break
		}

		candidateValidation := validate.Validate(mergeRecords(validation.ValidatedData, patched, targets), sourceText)
		candidateIntel := GatherIntelligence(candidateValidation.ValidatedData, candidateValidation, opts.LearnedPatterns)
		candidateReport := ScoreQuality(candidateValidation.ValidatedData, candidateValidation, candidateIntel)
		if opts.LegacyThreeDimension {
			candidateReport = RemapToLegacyThreeDimension(candidateReport)
		}

		iterations++
		if candidateReport.Overall <= report.Overall {
			break
		}
		validation, intel, report = candidateValidation, candidateIntel, candidateReport
	}

	return validation, intel, report, iterations
}

// targetsFromSuggestions maps improvement-suggestion strings back to
// extractor target tags, ignoring suggestions that name a confidence
// issue rather than a missing category (those have no single extractor
// to re-run in isolation).
func targetsFromSuggestions(suggestions []string) []string {
	var targets []string
	for _, s := range suggestions {
		for _, category := range expectedCategories {
			if s == category {
				targets = append(targets, category)
			}
		}
	}
	return targets
}

// mergeRecords copies the named target categories from patched into
// base, leaving every other field of base untouched.
func mergeRecords(base, patched domain.ExtractedRecord, targets []string) domain.ExtractedRecord {
	for _, t := range targets {
		switch t {
		case "demographics":
			base.Demographics = patched.Demographics
		case "dates":
			base.Dates = patched.Dates
		case "pathology":
			base.Pathology = patched.Pathology
		case "procedures":
			base.Procedures = patched.Procedures
		case "medications":
			base.Medications = patched.Medications
		case "complications":
			base.Complications = patched.Complications
		case "destination":
			base.DischargeDestination = patched.DischargeDestination
		case "functional":
			base.Functional = patched.Functional
		}
	}
	for k, v := range patched.Confidence {
		if base.Confidence == nil {
			base.Confidence = map[string]float64{}
		}
		base.Confidence[k] = v
	}
	return base
}
