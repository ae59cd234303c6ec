package orchestrate

import (
	"github.com/ramihatou97/DCS-sub011/internal/domain"
	"github.com/ramihatou97/DCS-sub011/internal/validate"
)

const (
	weightCompleteness     = 0.30
	weightAccuracy         = 0.25
	weightConsistency      = 0.20
	weightNarrativeQuality = 0.15
	weightSpecificity      = 0.05
	weightTimeliness       = 0.05
)

// ScoreQuality computes the six-dimension quality report. This is the
// only real scoring algorithm; LegacyThreeDimension in Options selects a
// remapped view of the same dimensions rather than a second algorithm.
func ScoreQuality(record domain.ExtractedRecord, validation validate.Result, intel Intelligence) domain.QualityReport {
	dimensions := map[domain.QualityDimension]float64{
		domain.DimCompleteness:     completenessScore(record),
		domain.DimAccuracy:         accuracyScore(validation),
		domain.DimConsistency:      consistencyScore(validation),
		domain.DimNarrativeQuality: record.Metadata.SourceQuality.OverallScore,
		domain.DimSpecificity:      specificityScore(record),
		domain.DimTimeliness:       timelinessScore(record),
	}

	issues := map[domain.QualityDimension][]string{}
	if len(intel.CompletenessCheck) > 0 {
		issues[domain.DimCompleteness] = intel.CompletenessCheck
	}
	if len(intel.ConsistencyCheck) > 0 {
		issues[domain.DimConsistency] = intel.ConsistencyCheck
	}

	overall := dimensions[domain.DimCompleteness]*weightCompleteness +
		dimensions[domain.DimAccuracy]*weightAccuracy +
		dimensions[domain.DimConsistency]*weightConsistency +
		dimensions[domain.DimNarrativeQuality]*weightNarrativeQuality +
		dimensions[domain.DimSpecificity]*weightSpecificity +
		dimensions[domain.DimTimeliness]*weightTimeliness

	return domain.QualityReport{Overall: overall, Dimensions: dimensions, Issues: issues}
}

func completenessScore(record domain.ExtractedRecord) float64 {
	missing := completenessCheck(record)
	return 1 - float64(len(missing))/float64(len(expectedCategories))
}

func accuracyScore(validation validate.Result) float64 {
	penalty := 0.0
	for _, f := range validation.Flags {
		switch f.Severity {
		case validate.SeverityCritical:
			penalty += 0.2
		case validate.SeverityHigh:
			penalty += 0.1
		case validate.SeverityMedium:
			penalty += 0.05
		case validate.SeverityLow:
			penalty += 0.02
		}
	}
	penalty += float64(len(validation.Errors)) * 0.15
	if penalty > 1 {
		penalty = 1
	}
	return 1 - penalty
}

func consistencyScore(validation validate.Result) float64 {
	penalty := float64(len(validation.Warnings)) * 0.1
	if penalty > 1 {
		penalty = 1
	}
	return 1 - penalty
}

func specificityScore(record domain.ExtractedRecord) float64 {
	if len(record.Confidence) == 0 {
		return 0
	}
	sum := 0.0
	count := 0
	for _, c := range record.Confidence {
		if c <= 0 {
			continue
		}
		sum += c
		count++
	}
	if count == 0 {
		return 0
	}
	return sum / float64(count)
}

// timelinessScore rewards having both ends of the admission timeline
// anchored, since every relative-date resolution in the pipeline depends
// on ReferenceDates being populated.
func timelinessScore(record domain.ExtractedRecord) float64 {
	score := 0.0
	if record.Dates.AdmissionDate != nil {
		score += 0.5
	}
	if record.Dates.DischargeDate != nil {
		score += 0.5
	}
	return score
}

// RemapToLegacyThreeDimension folds the six weighted dimensions onto
// {completeness, accuracy, consistency} by absorbing narrative and
// specificity into accuracy and timeliness into consistency, per the
// documented compatibility-shim resolution. It is a view over the same
// report, not an independent scoring pass.
func RemapToLegacyThreeDimension(report domain.QualityReport) domain.QualityReport {
	accuracy := report.Dimensions[domain.DimAccuracy]*0.7 +
		report.Dimensions[domain.DimNarrativeQuality]*0.2 +
		report.Dimensions[domain.DimSpecificity]*0.1

	consistency := report.Dimensions[domain.DimConsistency]*0.8 +
		report.Dimensions[domain.DimTimeliness]*0.2

	dimensions := map[domain.QualityDimension]float64{
		domain.DimCompleteness: report.Dimensions[domain.DimCompleteness],
		domain.DimAccuracy:     accuracy,
		domain.DimConsistency:  consistency,
	}

	overall := dimensions[domain.DimCompleteness]*0.40 +
		dimensions[domain.DimAccuracy]*0.35 +
		dimensions[domain.DimConsistency]*0.25

	return domain.QualityReport{Overall: overall, Dimensions: dimensions, Issues: report.Issues}
}
