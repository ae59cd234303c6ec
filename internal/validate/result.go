// Package validate enforces the no-extrapolation guarantee and cross-field
// logical consistency over an already-extracted record. It never derives
// new data; it only confirms, flags, or prunes what C7 produced.
package validate

import "github.com/ramihatou97/DCS-sub011/internal/domain"

// Severity is the graded level a ValidationFlag or logical check carries.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
)

// Flag is a per-category no-extrapolation finding: an emitted literal that
// could not be matched back to the source text.
type Flag struct {
	Category string   `json:"category"`
	Value    string   `json:"value"`
	Severity Severity `json:"severity"`
	Reason   string   `json:"reason"`
}

// Warning is an informational cross-field observation that never prunes
// data.
type Warning struct {
	Message string `json:"message"`
}

// ValidationErrorEntry is a cross-field finding severe enough to prune the
// offending value from the record.
type ValidationErrorEntry struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Result is the validator's external contract: isValid, overallConfidence,
// warnings, errors, flags, the (possibly pruned) validated record, and the
// list of fields that were pruned.
type Result struct {
	IsValid           bool                    `json:"isValid"`
	OverallConfidence float64                 `json:"overallConfidence"`
	Warnings          []Warning               `json:"warnings,omitempty"`
	Errors            []ValidationErrorEntry  `json:"errors,omitempty"`
	Flags             []Flag                  `json:"flags,omitempty"`
	ValidatedData     domain.ExtractedRecord  `json:"validatedData"`
	InvalidFields     []string                `json:"invalidFields,omitempty"`
}

// pruningCategories allows a flagged value to be removed from the record;
// every other category only flags, never prunes.
var pruningCategories = map[string]bool{
	"symptoms":      true,
	"complications": true,
	"procedures":    true,
	"medications":   true,
}

// categorySeverity is the fixed severity a missing literal in a given
// category carries, independent of which specific check failed.
var categorySeverity = map[string]Severity{
	"diagnosis":       SeverityCritical,
	"procedures":      SeverityCritical,
	"complications":   SeverityCritical,
	"anticoagulation": SeverityCritical,
	"destination":     SeverityHigh,
	"symptoms":        SeverityMedium,
	"followup":        SeverityLow,
}
