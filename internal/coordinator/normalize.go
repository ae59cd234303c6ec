// Package coordinator runs pre-processing, pathology detection, and the
// full dependency-ordered extractor dispatch that produces an
// ExtractedRecord from one or more raw clinical notes.
package coordinator

import (
	"regexp"
	"strings"
)

// NormalizeInput concatenates one or more notes into the single combined
// text every downstream component addresses by byte offset.
func NormalizeInput(notes []string) string {
	var nonEmpty []string
	for _, n := range notes {
		if strings.TrimSpace(n) != "" {
			nonEmpty = append(nonEmpty, n)
		}
	}
	return strings.Join(nonEmpty, "\n\n")
}

var (
	institutionArtifact = regexp.MustCompile(`(?i)\*{3,}.*?\*{3,}|CONFIDENTIAL[:\s-]*|\[REDACTED\]`)
	multiBlankLines     = regexp.MustCompile(`\n{3,}`)
)

// Preprocess normalizes institution-specific artifacts (banner lines,
// confidentiality stamps) when enabled. Abbreviation expansion is
// deliberately not performed here: pathology-specific patterns are built
// to match clinical abbreviations directly, and expanding them ahead of
// detection risks breaking those patterns rather than helping them.
func Preprocess(text string, enabled bool) string {
	if !enabled {
		return text
	}
	cleaned := institutionArtifact.ReplaceAllString(text, "")
	cleaned = multiBlankLines.ReplaceAllString(cleaned, "\n\n")
	return cleaned
}
