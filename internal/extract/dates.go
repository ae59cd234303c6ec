package extract

import (
	"regexp"
	"sort"
	"time"

	"github.com/ramihatou97/DCS-sub011/internal/domain"
	"github.com/ramihatou97/DCS-sub011/internal/lexical"
)

var (
	admissionLabel = regexp.MustCompile(`(?i)admission\s+date\s*:?\s*([A-Za-z0-9/,\s-]+?)(?:\.|\n)`)
	dischargeLabel = regexp.MustCompile(`(?i)discharge\s+date\s*:?\s*([A-Za-z0-9/,\s-]+?)(?:\.|\n)`)
	ictusLabel     = regexp.MustCompile(`(?i)(?:ictus|symptom\s+onset)\s*:?\s*([A-Za-z0-9/,\s-]+?)(?:\.|\n)`)
	admittedOn     = regexp.MustCompile(`(?i)\badmitted\s+(?:on\s+)?(\d{1,2}/\d{1,2}/\d{2,4}|\d{4}-\d{1,2}-\d{1,2}|[A-Za-z]+\s+\d{1,2},?\s+\d{4})`)

	surgeryCue = regexp.MustCompile(`(?i)\b(?:craniotomy|craniectomy|clipping|coiling|embolization|laminectomy|discectomy|fusion|shunt|surgery|operation|resection|evacuation)\b`)
	dateLexeme = regexp.MustCompile(`(?i)\d{1,2}/\d{1,2}/\d{2,4}|\d{4}-\d{1,2}-\d{1,2}|[A-Za-z]+\s+\d{1,2},?\s+\d{4}`)

	hemorrhagic = map[domain.PathologyType]bool{
		domain.SAH: true,
		domain.ICH: true,
	}

	dateFragmentNoise = regexp.MustCompile(`[^A-Za-z0-9,/\s-]`)
	dateFragmentSpace = regexp.MustCompile(`\s+`)
)

const surgeryDateWindow = 60

// ExtractDates populates {ictusDate, admissionDate, surgeryDate,
// surgeryDates, dischargeDate} and emits the ReferenceDates bundle every
// later extractor threads through. Ictus is only attempted when a
// hemorrhagic pathology was detected.
func ExtractDates(text string, pathologies []domain.PathologyDetection) (domain.Dates, float64) {
	var d domain.Dates
	confidences := []float64{}

	if m := admissionLabel.FindStringSubmatch(text); m != nil {
		if t, err := lexical.ParseFlexibleDate(cleanDateFragment(m[1])); err == nil && t != nil {
			d.AdmissionDate = t
			confidences = append(confidences, 0.9)
		}
	}
	if d.AdmissionDate == nil {
		if m := admittedOn.FindStringSubmatch(text); m != nil {
			if t, err := lexical.ParseFlexibleDate(m[1]); err == nil && t != nil {
				d.AdmissionDate = t
				confidences = append(confidences, 0.9)
			}
		}
	}
	if m := dischargeLabel.FindStringSubmatch(text); m != nil {
		if t, err := lexical.ParseFlexibleDate(cleanDateFragment(m[1])); err == nil && t != nil {
			d.DischargeDate = t
			confidences = append(confidences, 0.9)
		}
	}
	if isHemorrhagic(pathologies) {
		if m := ictusLabel.FindStringSubmatch(text); m != nil {
			if t, err := lexical.ParseFlexibleDate(cleanDateFragment(m[1])); err == nil && t != nil {
				d.IctusDate = t
				confidences = append(confidences, 0.8)
			}
		}
	}

	d.SurgeryDates = collectSurgeryDates(text)
	if len(d.SurgeryDates) > 0 {
		d.SurgeryDate = &d.SurgeryDates[0]
		confidences = append(confidences, 0.85)
	}

	d.Reference = domain.ReferenceDates{
		Ictus:     d.IctusDate,
		Admission: d.AdmissionDate,
		Discharge: d.DischargeDate,
	}
	if len(d.SurgeryDates) > 0 {
		fp := d.SurgeryDates[0]
		d.Reference.FirstProcedure = &fp
		d.Reference.SurgeryDates = d.SurgeryDates
	}

	return d, minConfidence(confidences)
}

func isHemorrhagic(pathologies []domain.PathologyDetection) bool {
	for _, p := range pathologies {
		if hemorrhagic[p.Type] {
			return true
		}
	}
	return false
}

func cleanDateFragment(s string) string {
	return dateFragmentSpace.ReplaceAllString(dateFragmentNoise.ReplaceAllString(s, ""), " ")
}

// collectSurgeryDates finds every date token within surgeryDateWindow
// characters of a surgery-cue keyword, skipping the dates that follow an
// admission, discharge or ictus label, parses and dedups them, and
// returns them sorted ascending.
func collectSurgeryDates(text string) []time.Time {
	cues := surgeryCue.FindAllStringIndex(text, -1)
	if cues == nil {
		return nil
	}

	var labelled [][]int
	for _, label := range []*regexp.Regexp{admissionLabel, dischargeLabel, ictusLabel} {
		labelled = append(labelled, label.FindAllStringSubmatchIndex(text, -1)...)
	}

	seen := make(map[string]time.Time)
	for _, cue := range cues {
		from := cue[0] - surgeryDateWindow
		if from < 0 {
			from = 0
		}
		to := cue[1] + surgeryDateWindow
		if to > len(text) {
			to = len(text)
		}
		span := text[from:to]
		for _, loc := range dateLexeme.FindAllStringIndex(span, -1) {
			labelledDate := false
			for _, l := range labelled {
				if from+loc[0] >= l[2] && from+loc[0] < l[3] {
					labelledDate = true
				}
			}
			if labelledDate {
				continue
			}
			if t, err := lexical.ParseFlexibleDate(span[loc[0]:loc[1]]); err == nil && t != nil {
				seen[t.Format("2006-01-02")] = *t
			}
		}
	}

	dates := make([]time.Time, 0, len(seen))
	for _, t := range seen {
		dates = append(dates, t)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates
}
