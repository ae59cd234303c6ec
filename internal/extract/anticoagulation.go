package extract

import (
	"regexp"

	"github.com/ramihatou97/DCS-sub011/internal/domain"
)

var anticoagulantPattern = regexp.MustCompile(`(?i)\b(heparin|enoxaparin|warfarin|apixaban|rivaroxaban|dabigatran|aspirin|clopidogrel)\b[^.\n]{0,30}`)

// ExtractAnticoagulation runs the shared pipeline over the anticoagulant
// vocabulary plus any enabled learned pattern recalled for the
// "anticoagulation" field; kept distinct from ExtractMedications because
// the validator cross-checks this category against hemorrhagic
// pathologies.
func ExtractAnticoagulation(text string, refDates domain.ReferenceDates, learned []domain.LearnedPattern) ([]domain.CanonicalEntity, float64) {
	patterns := append(plainPatterns([]*regexp.Regexp{anticoagulantPattern}), learnedPatternsFor(learned, "anticoagulation")...)
	canonicals := runCategoryPipeline(text, patterns, "anticoagulation", refDates)
	return toEntityList(canonicals), averageConfidence(canonicals)
}
