// Package quality assesses how reliable a note's extractions are likely
// to be, and calibrates per-field extractor confidences against that
// assessment.
package quality

import (
	"math"
	"regexp"
	"strings"

	"github.com/ramihatou97/DCS-sub011/internal/domain"
)

var (
	sectionHeaders = []*regexp.Regexp{
		regexp.MustCompile(`(?i)admission\s+date\s*:`),
		regexp.MustCompile(`(?i)discharge\s+date\s*:`),
		regexp.MustCompile(`(?i)procedures?\s*:`),
		regexp.MustCompile(`(?i)diagnos(?:is|es)\s*:`),
		regexp.MustCompile(`(?i)(?:discharge\s+)?medications?\s*:`),
		regexp.MustCompile(`(?i)history\s+of\s+present\s+illness\s*:`),
	}

	medicalTermHint = regexp.MustCompile(`(?i)\b(?:craniotomy|hemorrhage|aneurysm|edema|catheter|infusion|resection|shunt|hematoma|mg|po|iv|bid|tid|q\d+h)\b`)

	dateLexeme = regexp.MustCompile(`(?i)\d{1,2}/\d{1,2}/\d{2,4}|\d{4}-\d{1,2}-\d{1,2}|[A-Za-z]+\s+\d{1,2},?\s+\d{4}`)

	sentenceEnd = regexp.MustCompile(`[.!?]`)
)

const (
	weightStructure    = 0.3
	weightLength       = 0.2
	weightTermDensity  = 0.2
	weightHasDate      = 0.15
	weightSentenceForm = 0.15
)

// Assess grades a note on structure, length, terminology density, date
// presence, and sentence form, and returns the report whose OverallScore
// CalibrateConfidence uses to scale downstream confidences.
func Assess(text string) domain.SourceQualityReport {
	factors := map[string]float64{
		"structure":    structureScore(text),
		"length":       lengthScore(text),
		"termDensity":  termDensityScore(text),
		"hasDate":      hasDateScore(text),
		"sentenceForm": sentenceFormScore(text),
	}

	overall := weightStructure*factors["structure"] +
		weightLength*factors["length"] +
		weightTermDensity*factors["termDensity"] +
		weightHasDate*factors["hasDate"] +
		weightSentenceForm*factors["sentenceForm"]

	var issues []string
	if factors["structure"] < 0.5 {
		issues = append(issues, "few recognizable section headers")
	}
	if factors["length"] < 0.5 {
		issues = append(issues, "note length outside the expected range")
	}
	if factors["termDensity"] < 0.3 {
		issues = append(issues, "low medical terminology density")
	}
	if factors["hasDate"] == 0 {
		issues = append(issues, "no parseable date found")
	}

	return domain.SourceQualityReport{
		Grade:        gradeFor(overall),
		OverallScore: overall,
		Factors:      factors,
		Issues:       issues,
	}
}

func gradeFor(score float64) domain.QualityGrade {
	switch {
	case score >= 0.85:
		return domain.GradeExcellent
	case score >= 0.7:
		return domain.GradeGood
	case score >= 0.5:
		return domain.GradeFair
	case score >= 0.3:
		return domain.GradePoor
	default:
		return domain.GradeVeryPoor
	}
}

func structureScore(text string) float64 {
	hits := 0
	for _, h := range sectionHeaders {
		if h.MatchString(text) {
			hits++
		}
	}
	return float64(hits) / float64(len(sectionHeaders))
}

func lengthScore(text string) float64 {
	n := len(text)
	switch {
	case n >= 500 && n <= 8000:
		return 1.0
	case n < 500:
		return float64(n) / 500.0
	default:
		// Gentle falloff past the upper bound rather than a hard cliff;
		// an 8500-char note isn't materially worse than an 8000-char one.
		over := float64(n-8000) / 8000.0
		score := 1.0 - over
		if score < 0 {
			return 0
		}
		return score
	}
}

func termDensityScore(text string) float64 {
	words := strings.Fields(text)
	if len(words) == 0 {
		return 0
	}
	hits := len(medicalTermHint.FindAllString(text, -1))
	density := float64(hits) / float64(len(words))
	// A density of 0.08 (roughly one medical term per twelve words) is
	// treated as full marks; scale linearly below that.
	score := density / 0.08
	if score > 1 {
		return 1
	}
	return score
}

func hasDateScore(text string) float64 {
	if dateLexeme.MatchString(text) {
		return 1
	}
	return 0
}

func sentenceFormScore(text string) float64 {
	sentences := sentenceEnd.Split(text, -1)
	count := 0
	totalWords := 0
	for _, s := range sentences {
		words := strings.Fields(s)
		if len(words) == 0 {
			continue
		}
		count++
		totalWords += len(words)
	}
	if count == 0 {
		return 0
	}
	avg := float64(totalWords) / float64(count)
	// Reasonable clinical sentences run roughly 4-30 words; score falls
	// off outside that band rather than cutting off sharply.
	switch {
	case avg >= 4 && avg <= 30:
		return 1.0
	case avg < 4:
		return avg / 4.0
	default:
		score := 1.0 - (avg-30)/30.0
		if score < 0 {
			return 0
		}
		return score
	}
}

// CalibrateConfidence applies the source-quality calibration formula,
// clamped at both ends of [0,1].
func CalibrateConfidence(c float64, report domain.SourceQualityReport) float64 {
	calibrated := c * (0.5 + 0.5*report.OverallScore)
	return math.Max(0, math.Min(1, calibrated))
}
