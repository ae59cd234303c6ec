package extract

import (
	"regexp"

	"github.com/ramihatou97/DCS-sub011/internal/domain"
)

var destinationPatterns = []struct {
	pattern *regexp.Regexp
	label   string
}{
	{regexp.MustCompile(`(?i)discharge(?:d)?\s+to\s+home`), "home"},
	{regexp.MustCompile(`(?i)acute\s+rehab(?:ilitation)?`), "acute rehabilitation"},
	{regexp.MustCompile(`(?i)skilled\s+nursing\s+facility|\bsnf\b`), "skilled nursing facility"},
	{regexp.MustCompile(`(?i)long[\s-]?term\s+acute\s+care|\bltac\b`), "long-term acute care"},
	{regexp.MustCompile(`(?i)inpatient\s+rehab(?:ilitation)?`), "inpatient rehabilitation"},
	{regexp.MustCompile(`(?i)hospice`), "hospice"},
}

// ExtractDischargeDestination returns the first matching discharge
// destination label and a fixed MEDIUM confidence. When the fixed
// vocabulary finds nothing, it falls back to any enabled learned pattern
// recalled for the "destination" field, using that pattern's own
// confidence and, if set, expanding its ValueTemplate against the match
// instead of returning the raw matched text. Returns "" with zero
// confidence when nothing matched either way.
func ExtractDischargeDestination(text string, learned []domain.LearnedPattern) (string, float64) {
	for _, d := range destinationPatterns {
		if d.pattern.MatchString(text) {
			return d.label, 0.6
		}
	}

	for _, p := range learnedPatternsFor(learned, "destination") {
		loc := p.re.FindStringSubmatchIndex(text)
		if loc == nil {
			continue
		}
		label := text[loc[0]:loc[1]]
		if p.valueTemplate != "" {
			if expanded := p.re.ExpandString(nil, p.valueTemplate, text, loc); len(expanded) > 0 {
				label = string(expanded)
			}
		}
		return label, confidenceFor(learned, "destination")
	}

	return "", 0
}

// confidenceFor returns the highest confidence among enabled learned
// patterns for field, or the MEDIUM default when none carry one.
func confidenceFor(learned []domain.LearnedPattern, field string) float64 {
	best := 0.6
	found := false
	for _, p := range learned {
		if !p.Enabled || p.Field != field {
			continue
		}
		if !found || p.Confidence > best {
			best = p.Confidence
			found = true
		}
	}
	return best
}
