package extract

import (
	"regexp"
	"strings"

	"github.com/ramihatou97/DCS-sub011/internal/domain"
	"github.com/ramihatou97/DCS-sub011/internal/ontology"
)

var negationCue = regexp.MustCompile(`(?i)\bno\s+evidence\s+of\b|\bruled\s+out\b|\bnegative\s+for\b`)

const negationScope = 40

var severityOrder = []string{"low", "moderate", "high", "critical"}

var severityKeywords = map[string]string{
	"herniation":  "critical",
	"rebleeding":  "critical",
	"rebleed":     "critical",
	"brain death": "critical",
	"vasospasm":   "high",
	"hemorrhage":  "high",
	"stroke":      "high",
	"delayed cerebral ischemia": "high",
	"meningitis":  "high",
	"seizure":     "moderate",
	"infection":   "moderate",
	"hydrocephalus": "moderate",
	"dvt":         "moderate",
	"pulmonary embolism": "moderate",
	"headache":    "low",
	"nausea":      "low",
	"fever":       "low",
	"hyponatremia": "low",
}

var (
	severityUpgrade   = regexp.MustCompile(`(?i)\bsevere\b`)
	severityDowngrade = regexp.MustCompile(`(?i)\bmild\b|\btransient\b`)
)

// ExtractComplications runs the shared pipeline over the complication
// vocabulary for the detected pathologies plus any enabled learned
// pattern recalled for the "complications" field, drops any mention that
// falls within a negation scope ("no evidence of", "ruled out", "negative
// for"), and annotates each surviving canonical with a severity grade.
func ExtractComplications(text string, pathologies []domain.PathologyDetection, refDates domain.ReferenceDates, learned []domain.LearnedPattern) ([]domain.CanonicalEntity, float64) {
	var ontologyPatterns []*regexp.Regexp
	for _, p := range pathologies {
		ontologyPatterns = append(ontologyPatterns, ontology.ComplicationPatterns(p.Type)...)
	}

	patterns := append(plainPatterns(ontologyPatterns), learnedPatternsFor(learned, "complications")...)
	mentions := collectMentions(text, patterns, "complication", refDates)
	mentions = dropNegated(text, mentions)
	for i := range mentions {
		mentions[i].CategoryFields = map[string]string{
			"severity": severityFor(mentions[i].Name, text, mentions[i].Position),
		}
	}

	canonicals := clusterAndLink(mentions, "complication")
	return toEntityList(canonicals), averageConfidence(canonicals)
}

func dropNegated(text string, mentions []domain.EntityMention) []domain.EntityMention {
	negations := negationCue.FindAllStringIndex(text, -1)
	if len(negations) == 0 {
		return mentions
	}

	var kept []domain.EntityMention
	for _, m := range mentions {
		negated := false
		for _, n := range negations {
			// A negation cue's scope also ends at the end of its sentence.
			if m.Position >= n[1] && m.Position <= n[1]+negationScope && !strings.Contains(text[n[1]:m.Position], ".") {
				negated = true
				break
			}
		}
		if !negated {
			kept = append(kept, m)
		}
	}
	return kept
}

func severityFor(name, text string, position int) string {
	base := "moderate"
	lower := strings.ToLower(name)
	for keyword, level := range severityKeywords {
		if strings.Contains(lower, keyword) {
			base = level
			break
		}
	}

	from := position - 20
	if from < 0 {
		from = 0
	}
	left := text[from:position]

	idx := severityIndex(base)
	if severityUpgrade.MatchString(left) {
		idx = min(idx+1, len(severityOrder)-1)
	}
	if severityDowngrade.MatchString(left) && base != "critical" {
		idx = max(idx-1, 0)
	}
	return severityOrder[idx]
}

func severityIndex(level string) int {
	for i, s := range severityOrder {
		if s == level {
			return i
		}
	}
	return 1
}
