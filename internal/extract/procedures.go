package extract

import (
	"regexp"

	"github.com/ramihatou97/DCS-sub011/internal/domain"
	"github.com/ramihatou97/DCS-sub011/internal/ontology"
)

// sharedProcedurePatterns catches procedures common across pathologies
// that a single pathology's catalogue entry wouldn't otherwise list.
var sharedProcedurePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)tracheostomy`),
	regexp.MustCompile(`(?i)peg\s+tube\s+placement`),
	regexp.MustCompile(`(?i)lumbar\s+puncture`),
}

// ExtractProcedures runs the shared five-step category pipeline
// (collect → classify+date → partition → dedup new-events → link
// references) against every procedure pattern registered for the
// detected pathologies plus the shared cross-pathology keyword list and
// any enabled learned pattern recalled for the "procedures" field.
func ExtractProcedures(text string, pathologies []domain.PathologyDetection, refDates domain.ReferenceDates, learned []domain.LearnedPattern) ([]domain.CanonicalEntity, float64) {
	ontologyPatterns := append([]*regexp.Regexp{}, sharedProcedurePatterns...)
	for _, p := range pathologies {
		ontologyPatterns = append(ontologyPatterns, ontology.ProcedurePatterns(p.Type)...)
	}

	patterns := append(plainPatterns(ontologyPatterns), learnedPatternsFor(learned, "procedures")...)
	canonicals := runCategoryPipeline(text, patterns, "procedure", refDates)
	return toEntityList(canonicals), averageConfidence(canonicals)
}
