package validate

import (
	"strings"

	"github.com/ramihatou97/DCS-sub011/internal/lexical"
)

const similarityThreshold = 0.8

// abbreviationExpansions is a small, fixed table of clinical shorthand the
// no-extrapolation check accepts as equivalent to its expansion. The
// coordinator's pre-processing performs no abbreviation expansion at all,
// and this table is used only here; the goal is only
// to avoid flagging an extractor for writing out what the source text
// abbreviated.
var abbreviationExpansions = map[string]string{
	"sah":  "subarachnoid hemorrhage",
	"ich":  "intracerebral hemorrhage",
	"tbi":  "traumatic brain injury",
	"s/p":  "status post",
	"h/o":  "history of",
	"c/b":  "complicated by",
	"w/":   "with",
	"r/o":  "rule out",
	"pod":  "postoperative day",
	"evd":  "external ventricular drain",
	"csf":  "cerebrospinal fluid",
	"lp":   "lumbar puncture",
}

func expandAbbreviations(s string) string {
	normalized := lexical.NormalizeText(s)
	words := strings.Fields(normalized)
	for i, w := range words {
		if expansion, ok := abbreviationExpansions[w]; ok {
			words[i] = expansion
		}
	}
	return strings.Join(words, " ")
}

// literalTraceable reports whether value appears in source by direct
// substring match, by abbreviation-expanded match in either direction, or
// by combined-similarity greater than similarityThreshold against some
// same-length substring window of source.
func literalTraceable(value, source string) bool {
	if strings.TrimSpace(value) == "" {
		return true
	}

	normValue := lexical.NormalizeText(value)
	normSource := lexical.NormalizeText(source)
	if strings.Contains(normSource, normValue) {
		return true
	}

	expandedValue := expandAbbreviations(value)
	expandedSource := expandAbbreviations(source)
	if strings.Contains(normSource, expandedValue) || strings.Contains(expandedSource, normValue) {
		return true
	}

	return similarWindowExists(normValue, normSource)
}

// similarWindowExists scans source for any substring the same length as
// value (in runes) with combined similarity above similarityThreshold.
// The scan is cheap because validated values are short entity names, not
// full notes.
func similarWindowExists(value, source string) bool {
	valueRunes := []rune(value)
	sourceRunes := []rune(source)
	n := len(valueRunes)
	if n == 0 || n > len(sourceRunes) {
		return false
	}

	for start := 0; start+n <= len(sourceRunes); start++ {
		window := string(sourceRunes[start : start+n])
		if lexical.CalculateCombinedSimilarity(value, window) > similarityThreshold {
			return true
		}
	}
	return false
}
