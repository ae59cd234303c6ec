package extract

import (
	"regexp"
	"strconv"

	"github.com/ramihatou97/DCS-sub011/internal/domain"
)

var (
	kpsPattern  = regexp.MustCompile(`(?i)\bKPS\s*(?:of|score)?\s*:?\s*(\d{1,3})\b`)
	ecogPattern = regexp.MustCompile(`(?i)\bECOG\s*(?:of|score)?\s*:?\s*([0-5])\b`)
	mrsPattern  = regexp.MustCompile(`(?i)\b(?:mRS|modified\s+Rankin)\s*(?:of|score)?\s*:?\s*([0-6])\b`)

	// PT/OT fallback language, ordered most-to-least independent; the
	// first phrase found determines the estimated KPS.
	ptEstimates = []struct {
		pattern *regexp.Regexp
		kps     int
	}{
		{regexp.MustCompile(`(?i)independent\s+with\s+(?:all\s+)?(?:adls|mobility)`), 90},
		{regexp.MustCompile(`(?i)minimal\s+assist`), 80},
		{regexp.MustCompile(`(?i)moderate\s+assist`), 60},
		{regexp.MustCompile(`(?i)maximal\s+assist`), 40},
		{regexp.MustCompile(`(?i)total\s+assist|dependent\s+for\s+(?:all\s+)?(?:adls|mobility)`), 20},
	}
)

// ExtractFunctionalScores extracts explicit KPS/ECOG/mRS scores and, when
// no explicit score is present, estimates KPS from PT/OT assistance-level
// language at MEDIUM confidence at most.
func ExtractFunctionalScores(text string) (domain.FunctionalScores, float64) {
	var f domain.FunctionalScores
	f.Estimated = map[string]bool{}
	confidences := []float64{}

	if m := kpsPattern.FindStringSubmatch(text); m != nil {
		if v, err := strconv.Atoi(m[1]); err == nil && v >= 0 && v <= 100 && v%10 == 0 {
			f.KPS = &v
			confidences = append(confidences, float64(domain.ConfidenceHigh))
		}
	}
	if m := ecogPattern.FindStringSubmatch(text); m != nil {
		if v, err := strconv.Atoi(m[1]); err == nil {
			f.ECOG = &v
			confidences = append(confidences, float64(domain.ConfidenceHigh))
		}
	}
	if m := mrsPattern.FindStringSubmatch(text); m != nil {
		if v, err := strconv.Atoi(m[1]); err == nil {
			f.MRS = &v
			confidences = append(confidences, float64(domain.ConfidenceHigh))
		}
	}

	if f.KPS == nil {
		for _, est := range ptEstimates {
			if est.pattern.MatchString(text) {
				v := est.kps
				f.KPS = &v
				f.Estimated["KPS"] = true
				confidences = append(confidences, float64(domain.ConfidenceMedium))
				break
			}
		}
	}

	return f, minConfidence(confidences)
}
