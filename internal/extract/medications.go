package extract

import (
	"regexp"
	"strings"

	"github.com/ramihatou97/DCS-sub011/internal/domain"
)

var medicationPattern = regexp.MustCompile(`(?i)\b(nimodipine|mannitol|levetiracetam|keppra|dexamethasone|phenytoin|labetalol|hydralazine|vancomycin|ceftriaxone|heparin|enoxaparin|warfarin|aspirin|acetaminophen|hypertonic\s+saline)\b[^.\n]{0,40}`)

var dischargeMedicationsSection = regexp.MustCompile(`(?i)discharge\s+medications?\s*:\s*([\s\S]{0,1000}?)(?:\n\n|\z)`)

var (
	verbStarted       = regexp.MustCompile(`(?i)\bstart(?:ed|ing)?\b|\binitiated\b`)
	verbContinued     = regexp.MustCompile(`(?i)\bcontinu(?:ed|ing)\b`)
	verbDiscontinued  = regexp.MustCompile(`(?i)\bdiscontinu(?:ed|ing)\b|\bd/c'?d?\b|\bstopped\b`)
	verbChanged       = regexp.MustCompile(`(?i)\bchanged\s+to\b|\bswitched\s+to\b|\btitrated\b`)
)

const leftStatusWindow = 50

// ExtractMedications runs the shared pipeline over the medication
// vocabulary plus any enabled learned pattern recalled for the
// "medications" field, derives a started/continued/discontinued/changed/
// active status from left-context verbs, and lets an explicit "DISCHARGE
// MEDICATIONS" section take precedence over the general extraction for
// any medication named in both.
func ExtractMedications(text string, refDates domain.ReferenceDates, learned []domain.LearnedPattern) ([]domain.CanonicalEntity, float64) {
	patterns := append(plainPatterns([]*regexp.Regexp{medicationPattern}), learnedPatternsFor(learned, "medications")...)
	mentions := collectMentions(text, patterns, "medication", refDates)
	for i := range mentions {
		status := statusFor(text, mentions[i].Position)
		mentions[i].CategoryFields = map[string]string{"status": status}
	}

	canonicals := clusterAndLink(mentions, "medication")

	if m := dischargeMedicationsSection.FindStringSubmatch(text); m != nil {
		canonicals = applyDischargeSection(canonicals, m[1])
	}

	return toEntityList(canonicals), averageConfidence(canonicals)
}

func statusFor(text string, position int) string {
	from := position - leftStatusWindow
	if from < 0 {
		from = 0
	}
	left := text[from:position]

	switch {
	case verbDiscontinued.MatchString(left):
		return "discontinued"
	case verbChanged.MatchString(left):
		return "changed"
	case verbStarted.MatchString(left):
		return "started"
	case verbContinued.MatchString(left):
		return "continued"
	default:
		return "active"
	}
}

// applyDischargeSection marks every canonical medication named within the
// discharge-medications section as active-on-discharge, taking precedence
// over whatever status the general extraction assigned, and deduplicates
// against it rather than adding a second entry.
func applyDischargeSection(canonicals []domain.CanonicalEntity, section string) []domain.CanonicalEntity {
	lowerSection := strings.ToLower(section)
	for i := range canonicals {
		if strings.Contains(lowerSection, strings.ToLower(canonicals[i].Name)) {
			if canonicals[i].CategoryFields == nil {
				canonicals[i].CategoryFields = map[string]string{}
			}
			canonicals[i].CategoryFields["status"] = "active"
		}
	}
	return canonicals
}
