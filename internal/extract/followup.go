package extract

import (
	"regexp"

	"github.com/ramihatou97/DCS-sub011/internal/domain"
)

var followUpPattern = regexp.MustCompile(`(?i)follow[\s-]?up\s+(?:with\s+)?(?:Dr\.?\s*[A-Z][a-zA-Z'-]+\s+)?in\s+\d+\s*(?:days?|weeks?|months?)|return\s+to\s+clinic\s+in\s+\d+\s*(?:days?|weeks?|months?)`)

// ExtractFollowUp runs the shared pipeline over follow-up instruction
// language plus any enabled learned pattern recalled for the "followup"
// field.
func ExtractFollowUp(text string, refDates domain.ReferenceDates, learned []domain.LearnedPattern) ([]domain.CanonicalEntity, float64) {
	patterns := append(plainPatterns([]*regexp.Regexp{followUpPattern}), learnedPatternsFor(learned, "followup")...)
	canonicals := runCategoryPipeline(text, patterns, "followup", refDates)
	return toEntityList(canonicals), averageConfidence(canonicals)
}
