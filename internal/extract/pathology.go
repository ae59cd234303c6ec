package extract

import (
	"regexp"

	"github.com/ramihatou97/DCS-sub011/internal/domain"
	"github.com/ramihatou97/DCS-sub011/internal/ontology"
)

var (
	diagnosisLabel = regexp.MustCompile(`(?i)diagnos(?:is|es)\s*:\s*([^\n.]+)`)
	locationPattern = regexp.MustCompile(`(?i)\b(left|right|bilateral)\s+(frontal|temporal|parietal|occipital|cerebellar|brainstem|frontoparietal)\b`)
)

// ExtractPathology extracts the primary diagnosis, per-scale grades,
// anatomical location, and (for pathologies with a subtype detector) risk
// level and prognosis. An explicit "Diagnosis:" section is preferred over
// inference from detection.
func ExtractPathology(text string, detections []domain.PathologyDetection) (domain.PathologyRecord, float64) {
	record := domain.PathologyRecord{Types: detections}
	confidence := 0.0

	if len(detections) > 0 {
		record.Primary = detections[0].Name
		confidence = detections[0].Confidence
	}

	if m := diagnosisLabel.FindStringSubmatch(text); m != nil {
		record.Primary = cleanDateFragmentKeepWords(m[1])
		if confidence < 0.6 {
			confidence = 0.6
		}
	}

	record.Grades = make(map[string]int)
	for _, det := range detections {
		for scale, grade := range ontology.GradingScaleMatches(det.Type, text) {
			record.Grades[scale] = grade
		}
	}

	if m := locationPattern.FindStringSubmatch(text); m != nil {
		record.Location = m[1] + " " + m[2]
	}

	if len(detections) > 0 && detections[0].Type == domain.SAH {
		if risk, prognosis, ok := sahSubtype(record.Grades); ok {
			record.RiskLevel = risk
			record.Prognosis = prognosis
			confidence = domainHighConfidence()
		}
	}

	return record, confidence
}

// sahSubtype derives a coarse risk level and prognosis phrase from the
// grading scales present, the one subtype detector this catalogue
// currently implements.
func sahSubtype(grades map[string]int) (risk, prognosis string, ok bool) {
	huntHess, hasHH := grades["Hunt-Hess"]
	fisher, hasFisher := grades["Fisher"]
	if !hasHH && !hasFisher {
		return "", "", false
	}

	switch {
	case hasHH && huntHess >= 4:
		return "high", "poor functional outcome likely without aggressive intervention", true
	case hasHH && huntHess <= 2:
		return "low", "favorable outcome expected", true
	case hasFisher && fisher >= 3:
		return "high", "elevated vasospasm risk", true
	default:
		return "moderate", "guarded, dependent on clinical course", true
	}
}

func domainHighConfidence() float64 {
	return float64(domain.ConfidenceHigh)
}

func cleanDateFragmentKeepWords(s string) string {
	trimmed := regexp.MustCompile(`\s+`).ReplaceAllString(s, " ")
	return regexp.MustCompile(`^\s+|\s+$`).ReplaceAllString(trimmed, "")
}
