package extract

import (
	"regexp"

	"github.com/ramihatou97/DCS-sub011/internal/domain"
	"github.com/ramihatou97/DCS-sub011/internal/ontology"
)

// ExtractSymptoms runs the shared pipeline over the symptom patterns
// registered for the detected pathologies, plus any enabled learned
// pattern recalled for the "symptoms" field.
func ExtractSymptoms(text string, pathologies []domain.PathologyDetection, refDates domain.ReferenceDates, learned []domain.LearnedPattern) ([]domain.CanonicalEntity, float64) {
	var ontologyPatterns []*regexp.Regexp
	for _, p := range pathologies {
		ontologyPatterns = append(ontologyPatterns, ontology.SymptomPatterns(p.Type)...)
	}

	patterns := append(plainPatterns(ontologyPatterns), learnedPatternsFor(learned, "symptoms")...)
	canonicals := runCategoryPipeline(text, patterns, "symptom", refDates)
	return toEntityList(canonicals), averageConfidence(canonicals)
}
