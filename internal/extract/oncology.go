package extract

import (
	"regexp"

	"github.com/ramihatou97/DCS-sub011/internal/domain"
)

var oncologyMarkerPattern = regexp.MustCompile(`(?i)\b(?:MGMT\s+methylat\w+|IDH[\s-]?(?:1|2)?\s+mutat\w+|1p/19q\s+co-?deletion|Ki-?67\s+(?:index\s+)?\d+%?|EGFR\s+amplificat\w+)\b`)

// ExtractOncologyMarkers runs the shared pipeline over the molecular
// marker vocabulary relevant to tumor and metastasis pathology plus any
// enabled learned pattern recalled for the "oncology" field.
func ExtractOncologyMarkers(text string, refDates domain.ReferenceDates, learned []domain.LearnedPattern) ([]domain.CanonicalEntity, float64) {
	patterns := append(plainPatterns([]*regexp.Regexp{oncologyMarkerPattern}), learnedPatternsFor(learned, "oncology")...)
	canonicals := runCategoryPipeline(text, patterns, "oncology", refDates)
	return toEntityList(canonicals), averageConfidence(canonicals)
}
