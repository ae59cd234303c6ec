package extract

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/ramihatou97/DCS-sub011/internal/domain"
	"github.com/ramihatou97/DCS-sub011/internal/lexical"
)

var (
	ageSexPattern = regexp.MustCompile(`(?i)\b(\d{1,3})\s*[-]?\s*(?:year[\s-]?old|yo\b|y/o\b)|\b(\d{1,3})\s*([MF])\b,?`)
	mrnPattern    = regexp.MustCompile(`(?i)\b(?:MRN|Medical\s+Record\s+(?:Number|#)|ID)\s*[:#]?\s*(\d{6,10})\b`)
	dobPattern    = regexp.MustCompile(`(?i)\bDOB\s*[:]?\s*([A-Za-z0-9/,\s-]+?)(?:\.|\n|,\s*(?:MRN|admission))`)
	attendingPattern = regexp.MustCompile(`(?i)\battending(?:\s+physician)?\s*[:]?\s*(?:Dr\.?\s*)?([A-Z][a-zA-Z'-]+(?:\s+[A-Z][a-zA-Z'-]+){0,2})`)
	namePattern   = regexp.MustCompile(`^\s*([A-Z][a-z'-]+(?:\s+[A-Z][a-z'-]+){1,3}),`)

	noiseTokens = map[string]struct{}{
		"Patient": {}, "Admission": {}, "Discharge": {}, "History": {}, "Present": {},
	}
)

const (
	confMRN        = 0.9
	confAge        = 0.85
	confSex        = 0.85
	confDOB        = 0.8
	confAttending  = 0.7
	confName       = 0.7
)

// ExtractDemographics populates {name, mrn, dob, age, sex,
// attendingPhysician}. Confidence is the minimum over every populated
// field's per-field confidence.
func ExtractDemographics(text string) (domain.Demographics, float64) {
	var d domain.Demographics
	confidences := []float64{}

	if m := mrnPattern.FindStringSubmatch(text); m != nil && !looksLikeDate(m[1]) {
		d.MRN = m[1]
		confidences = append(confidences, confMRN)
	}

	if m := ageSexPattern.FindStringSubmatch(text); m != nil {
		var ageStr, sex string
		if m[1] != "" {
			ageStr = m[1]
		} else {
			ageStr, sex = m[2], m[3]
		}
		if age, err := strconv.Atoi(ageStr); err == nil && age >= 0 && age <= 120 {
			d.Age = &age
			confidences = append(confidences, confAge)
		}
		if sex != "" {
			d.Sex = strings.ToUpper(sex)
			confidences = append(confidences, confSex)
		}
	}

	if m := dobPattern.FindStringSubmatch(text); m != nil {
		if t, err := lexical.ParseFlexibleDate(strings.TrimSpace(m[1])); err == nil && t != nil && t.Before(time.Now()) {
			age := int(time.Since(*t).Hours() / 24 / 365.25)
			if age <= 120 {
				d.DOB = t
				confidences = append(confidences, confDOB)
			}
		}
	}

	if m := attendingPattern.FindStringSubmatch(text); m != nil {
		d.AttendingPhysician = strings.TrimSpace(m[1])
		confidences = append(confidences, confAttending)
	}

	if m := namePattern.FindStringSubmatch(text); m != nil && validName(m[1]) {
		d.Name = m[1]
		confidences = append(confidences, confName)
	}

	return d, minConfidence(confidences)
}

func looksLikeDate(digits string) bool {
	if len(digits) != 8 {
		return false
	}
	month, _ := strconv.Atoi(digits[0:2])
	day, _ := strconv.Atoi(digits[2:4])
	return month >= 1 && month <= 12 && day >= 1 && day <= 31
}

func validName(candidate string) bool {
	words := strings.Fields(candidate)
	if len(words) < 2 || len(words) > 4 {
		return false
	}
	for _, w := range words {
		if _, noisy := noiseTokens[w]; noisy {
			return false
		}
		for _, r := range w {
			if r >= '0' && r <= '9' {
				return false
			}
		}
	}
	return true
}

func minConfidence(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	min := vals[0]
	for _, v := range vals[1:] {
		if v < min {
			min = v
		}
	}
	return min
}
