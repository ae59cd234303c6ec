package temporal

import (
	"regexp"
	"sort"
	"time"

	"github.com/ramihatou97/DCS-sub011/internal/domain"
	"github.com/ramihatou97/DCS-sub011/internal/lexical"
)

const dateWindow = 80

// dateToken matches any of the flexible-date shapes lexical.ParseFlexibleDate
// accepts, so AssociateDateWithEntity can locate date-shaped substrings
// inside a window before attempting to parse them.
var dateToken = regexp.MustCompile(`(?i)\d{1,2}/\d{1,2}/\d{2,4}|\d{4}-\d{1,2}-\d{1,2}|\d{1,2}-\d{1,2}-\d{2,4}|[A-Za-z]+\s+\d{1,2},?\s+\d{4}`)

// anchorCue matches admission/surgery anchor language used to justify an
// INHERITED date when no explicit date lexeme sits in the window.
var anchorCue = regexp.MustCompile(`(?i)\badmission\b|\bsurg(?:ery|ical)\b|\badmitted\b`)

type dateMatch struct {
	text  string
	start int
}

// AssociateDateWithEntity scans a ±80-character window around
// [mentionStart,mentionEnd) for date tokens and returns the nearest
// parseable one plus how it was derived. Returns (nil, NOT_FOUND) when no
// date is found.
func AssociateDateWithEntity(text string, mentionStart, mentionEnd int, referenceDates domain.ReferenceDates) (*time.Time, domain.DateSource) {
	from := mentionStart - dateWindow
	if from < 0 {
		from = 0
	}
	to := mentionEnd + dateWindow
	if to > len(text) {
		to = len(text)
	}
	span := text[from:to]

	locs := dateToken.FindAllStringIndex(span, -1)
	var candidates []dateMatch
	for _, loc := range locs {
		candidates = append(candidates, dateMatch{text: span[loc[0]:loc[1]], start: from + loc[0]})
	}

	if len(candidates) > 0 {
		// Nearest to the mention's own position wins.
		mentionCenter := (mentionStart + mentionEnd) / 2
		sort.SliceStable(candidates, func(i, j int) bool {
			return abs(candidates[i].start-mentionCenter) < abs(candidates[j].start-mentionCenter)
		})
		for _, c := range candidates {
			if t, err := lexical.ParseFlexibleDate(c.text); err == nil && t != nil {
				return t, domain.DateExplicit
			}
		}
	}

	if anchorCue.MatchString(span) {
		if referenceDates.Admission != nil {
			t := *referenceDates.Admission
			return &t, domain.DateInherited
		}
		if len(referenceDates.SurgeryDates) > 0 {
			t := referenceDates.SurgeryDates[0]
			return &t, domain.DateInherited
		}
	}

	return nil, domain.DateNotFound
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// ResolveRelativeDate resolves a POD (post-operative day) offset against
// the reference-date anchor set: firstProcedure + n days when a
// firstProcedure exists, otherwise admission + n days, otherwise nil.
func ResolveRelativeDate(pod int, referenceDates domain.ReferenceDates) *time.Time {
	var anchor *time.Time
	switch {
	case referenceDates.FirstProcedure != nil:
		anchor = referenceDates.FirstProcedure
	case referenceDates.Admission != nil:
		anchor = referenceDates.Admission
	default:
		return nil
	}
	resolved := anchor.AddDate(0, 0, pod)
	return &resolved
}
