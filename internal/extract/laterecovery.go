package extract

import (
	"regexp"

	"github.com/ramihatou97/DCS-sub011/internal/domain"
	"github.com/ramihatou97/DCS-sub011/internal/lexical"
)

// prolongedStayThreshold is the length-of-stay, in days, above which a
// course is flagged as prolonged on its own, independent of any textual
// indicator.
const prolongedStayThreshold = 14

var lateRecoveryCues = []struct {
	pattern  *regexp.Regexp
	name     string
	severity string
}{
	{regexp.MustCompile(`(?i)prolonged\s+icu|extended\s+icu\s+stay`), "prolonged ICU stay", "high"},
	{regexp.MustCompile(`(?i)tracheostomy`), "tracheostomy", "moderate"},
	{regexp.MustCompile(`(?i)fail(?:ed|ure)\s+to\s+progress`), "failure to progress", "moderate"},
}

var institutionalDestination = regexp.MustCompile(`(?i)skilled\s+nursing\s+facility|\bsnf\b|long[\s-]?term\s+acute\s+care|\bltac\b|acute\s+rehab(?:ilitation)?|inpatient\s+rehab(?:ilitation)?`)

// DetectLateRecovery computes length of stay from admission/discharge
// dates and scans for tokens indicating a prolonged or complicated
// recovery course.
func DetectLateRecovery(text string, dates domain.Dates) domain.LateRecoveryFlag {
	var flag domain.LateRecoveryFlag

	if dates.AdmissionDate != nil && dates.DischargeDate != nil {
		flag.LOS = lexical.CalculateDaysBetween(*dates.AdmissionDate, *dates.DischargeDate)
	}

	for _, cue := range lateRecoveryCues {
		if cue.pattern.MatchString(text) {
			flag.Indicators = append(flag.Indicators, domain.LateRecoveryIndicator{Name: cue.name, Severity: cue.severity})
		}
	}
	if institutionalDestination.MatchString(text) {
		flag.Indicators = append(flag.Indicators, domain.LateRecoveryIndicator{Name: "institutional discharge", Severity: "low"})
	}

	flag.Flagged = len(flag.Indicators) > 0 || flag.LOS > prolongedStayThreshold
	return flag
}
