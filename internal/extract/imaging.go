package extract

import (
	"regexp"

	"github.com/ramihatou97/DCS-sub011/internal/domain"
)

var imagingPattern = regexp.MustCompile(`(?i)\b(?:CT|CTA|MRI|MRA|angiogram|angiography)\s+(?:head|brain|spine|cervical|lumbar)\b`)

// ExtractImaging runs the shared pipeline over the imaging-study
// vocabulary plus any enabled learned pattern recalled for the "imaging"
// field.
func ExtractImaging(text string, refDates domain.ReferenceDates, learned []domain.LearnedPattern) ([]domain.CanonicalEntity, float64) {
	patterns := append(plainPatterns([]*regexp.Regexp{imagingPattern}), learnedPatternsFor(learned, "imaging")...)
	canonicals := runCategoryPipeline(text, patterns, "imaging", refDates)
	return toEntityList(canonicals), averageConfidence(canonicals)
}
