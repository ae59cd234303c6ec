package dedup

import (
	"github.com/ramihatou97/DCS-sub011/internal/domain"
	"github.com/ramihatou97/DCS-sub011/internal/lexical"
)

// linkThreshold is the minimum similarity a reference must reach against
// its best-matching canonical before it is linked at all.
const linkThreshold = 0.75

// SimilarityFunc scores how well a reference mention matches a canonical
// entity, folding in both name and date agreement.
type SimilarityFunc func(ref domain.EntityMention, canonical domain.CanonicalEntity) float64

// ProcedureSimilarity is the reference similarity function for procedures:
// name-similarity is boosted to 0.95 when dates match and the base name
// similarity exceeds 0.6; it is discounted to 0.9x when names exceed 0.8
// but dates differ.
func ProcedureSimilarity(ref domain.EntityMention, canonical domain.CanonicalEntity) float64 {
	nameSim := lexical.CalculateCombinedSimilarity(ref.Name, canonical.Name)
	datesMatch := ref.Date != nil && canonical.Date != nil && ref.Date.Equal(*canonical.Date)

	switch {
	case datesMatch && nameSim > 0.6:
		return 0.95
	case nameSim > 0.8 && !datesMatch:
		return nameSim * 0.9
	default:
		return nameSim
	}
}

// LinkReferencesToEvents assigns each reference mention to the canonical
// entity maximizing sim, provided that value is at least linkThreshold.
// Linked references are appended to the matched canonical's
// LinkedReferences; unmatched references are returned separately.
func LinkReferencesToEvents(references []domain.EntityMention, canonicals []domain.CanonicalEntity, sim SimilarityFunc) ([]domain.CanonicalEntity, []domain.EntityMention) {
	if len(canonicals) == 0 {
		return canonicals, references
	}

	var unlinked []domain.EntityMention
	for _, ref := range references {
		bestIdx := -1
		bestScore := 0.0
		for i, c := range canonicals {
			score := sim(ref, c)
			if score > bestScore {
				bestScore = score
				bestIdx = i
			}
		}
		if bestIdx >= 0 && bestScore >= linkThreshold {
			canonicals[bestIdx].LinkedReferences = append(canonicals[bestIdx].LinkedReferences, ref)
		} else {
			unlinked = append(unlinked, ref)
		}
	}

	return canonicals, unlinked
}
