package patterns

import (
	"regexp"

	"github.com/sirupsen/logrus"
)

var (
	ssnPattern   = regexp.MustCompile(`\b\d{3}-\d{2}-\d{4}\b`)
	phonePattern = regexp.MustCompile(`\b\d{3}[-.\s]?\d{3}[-.\s]?\d{4}\b`)
	emailPattern = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)
	namePattern  = regexp.MustCompile(`\b[A-Z][a-z]+\s+[A-Z][a-z]+\b`)
)

// scanForPHI is a best-effort heuristic, not a guarantee: it is meant to
// catch the obvious case of a caller accidentally persisting a pattern
// built from an unredacted note fragment, not to certify a pattern is
// PHI-free. The store's consumer remains responsible for anonymizing
// learned patterns before insert.
func scanForPHI(text string) []string {
	var matches []string
	if ssnPattern.MatchString(text) {
		matches = append(matches, "ssn-like")
	}
	if phonePattern.MatchString(text) {
		matches = append(matches, "phone-like")
	}
	if emailPattern.MatchString(text) {
		matches = append(matches, "email")
	}
	if namePattern.MatchString(text) {
		matches = append(matches, "name-like")
	}
	return matches
}

// warnIfPHI logs a warning naming which heuristic categories matched
// pattern or valueTemplate; it never blocks the insert.
func warnIfPHI(log *logrus.Entry, patternID int64, pattern, valueTemplate string) {
	matches := scanForPHI(pattern)
	matches = append(matches, scanForPHI(valueTemplate)...)
	if len(matches) == 0 {
		return
	}
	log.WithFields(logrus.Fields{
		"pattern_id": patternID,
		"categories": matches,
	}).Warn("learned pattern insert matched a PHI heuristic, verify it was anonymized")
}
