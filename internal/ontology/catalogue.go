// Package ontology holds the static pathology catalogue: for each
// neurosurgical pathology type, the regex patterns that detect it and its
// associated symptoms, procedures, complications, and grading scales.
package ontology

import (
	"regexp"
	"sort"

	"github.com/ramihatou97/DCS-sub011/internal/domain"
)

// gradingScale is one named scale within a pathology's catalogue entry
// (Hunt-Hess, Fisher, modified Fisher, WFNS, ...). Pattern must have
// exactly one capture group holding the numeric grade.
type gradingScale struct {
	Name    string
	Pattern *regexp.Regexp
}

// definition is one entry in the static pathology catalogue.
type definition struct {
	Type                 domain.PathologyType
	Name                 string
	DetectionPatterns    []*regexp.Regexp
	IndirectCuePatterns  []*regexp.Regexp
	SymptomPatterns      []*regexp.Regexp
	ProcedurePatterns    []*regexp.Regexp
	ComplicationPatterns []*regexp.Regexp
	GradingScales        []gradingScale
}

func mustCompileAll(exprs ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(exprs))
	for _, e := range exprs {
		out = append(out, regexp.MustCompile(e))
	}
	return out
}

// catalogue is populated once at package init and never mutated — a
// process-wide read-only table, not a singleton cache (nothing in it
// changes between requests, unlike the Pattern store).
var catalogue = []definition{
	{
		// SAH is the fully fleshed out entry: all four standard grading
		// scales, a broad symptom/procedure/complication vocabulary. Every
		// other entry in this catalogue is comparatively thin — detection
		// plus a handful of cues — and should be expanded as the need
		// arises.
		Type: domain.SAH,
		Name: "Subarachnoid Hemorrhage",
		DetectionPatterns: mustCompileAll(
			`(?i)subarachnoid\s+hemorrhage`,
			`(?i)\bsah\b`,
			`(?i)aneurysmal\s+(?:bleed|hemorrhage|rupture)`,
			`(?i)ruptured\s+(?:cerebral\s+)?aneurysm`,
		),
		IndirectCuePatterns: mustCompileAll(
			`(?i)\bvasospasm\b`,
			`(?i)xanthochromia`,
			`(?i)thunderclap\s+headache`,
		),
		SymptomPatterns: mustCompileAll(
			`(?i)worst\s+headache`,
			`(?i)\bthunderclap\s+headache\b`,
			`(?i)neck\s+stiffness`,
			`(?i)photophobia`,
			`(?i)loss\s+of\s+consciousness`,
		),
		ProcedurePatterns: mustCompileAll(
			`(?i)(?:pterional\s+)?craniotomy(?:\s+for\s+[a-z\s]+)?(?:\s+aneurysm\s+clipping)?`,
			`(?i)aneurysm\s+clipping`,
			`(?i)(?:endovascular\s+)?coil(?:ing|\s+embolization)?`,
			`(?i)external\s+ventricular\s+drain(?:age)?|\bevd\b`,
			`(?i)ventriculostomy`,
		),
		ComplicationPatterns: mustCompileAll(
			`(?i)vasospasm`,
			`(?i)rebleed(?:ing)?`,
			`(?i)hydrocephalus`,
			`(?i)delayed\s+cerebral\s+ischemia`,
			`(?i)seizure`,
			`(?i)hyponatremia`,
		),
		GradingScales: []gradingScale{
			{Name: "Hunt-Hess", Pattern: regexp.MustCompile(`(?i)hunt[\s-]?hess\s*(?:grade|score)?\s*(?:of)?\s*([1-5])`)},
			{Name: "Fisher", Pattern: regexp.MustCompile(`(?i)\bfisher\s*(?:grade|score)?\s*(?:of)?\s*([1-4])`)},
			{Name: "ModifiedFisher", Pattern: regexp.MustCompile(`(?i)modified\s+fisher\s*(?:grade|score)?\s*(?:of)?\s*([0-4])`)},
			{Name: "WFNS", Pattern: regexp.MustCompile(`(?i)\bwfns\s*(?:grade|score)?\s*(?:of)?\s*([1-5])`)},
		},
	},
	{
		Type: domain.TBI,
		Name: "Traumatic Brain Injury",
		DetectionPatterns: mustCompileAll(
			`(?i)traumatic\s+brain\s+injury`,
			`(?i)\btbi\b`,
			`(?i)chronic\s+subdural\s+hematoma|\bcsdh\b`,
			`(?i)acute\s+subdural\s+hematoma|\basdh\b`,
			`(?i)epidural\s+hematoma`,
			`(?i)diffuse\s+axonal\s+injury`,
		),
		IndirectCuePatterns: mustCompileAll(
			`(?i)\bgcs\s*\d{1,2}\b`,
			`(?i)concussion`,
		),
		ProcedurePatterns: mustCompileAll(
			`(?i)burr\s+hole`,
			`(?i)decompressive\s+craniectomy`,
			`(?i)evacuation\s+of\s+(?:subdural|epidural)\s+hematoma`,
		),
		ComplicationPatterns: mustCompileAll(
			`(?i)increased\s+intracranial\s+pressure|\bicp\b`,
			`(?i)cerebral\s+edema`,
			`(?i)herniation`,
		),
		GradingScales: []gradingScale{
			{Name: "GCS", Pattern: regexp.MustCompile(`(?i)\bgcs\s*(?:of|score)?\s*([3-9]|1[0-5])\b`)},
		},
	},
	{
		Type: domain.ICH,
		Name: "Intracerebral Hemorrhage",
		DetectionPatterns: mustCompileAll(
			`(?i)intracerebral\s+hemorrhage`,
			`(?i)\bich\b`,
			`(?i)intraparenchymal\s+hemorrhage`,
			`(?i)hypertensive\s+hemorrhage`,
		),
		IndirectCuePatterns: mustCompileAll(
			`(?i)hematoma\s+expansion`,
		),
		ProcedurePatterns: mustCompileAll(
			`(?i)craniotomy\s+for\s+(?:clot|hematoma)\s+evacuation`,
			`(?i)stereotactic\s+aspiration`,
		),
		ComplicationPatterns: mustCompileAll(
			`(?i)rebleeding`,
			`(?i)mass\s+effect`,
		),
		GradingScales: []gradingScale{
			{Name: "ICH Score", Pattern: regexp.MustCompile(`(?i)ich\s+score\s*(?:of)?\s*([0-6])`)},
		},
	},
	{
		Type: domain.TUMOR,
		Name: "Brain Tumor",
		DetectionPatterns: mustCompileAll(
			`(?i)glioblastoma|\bgbm\b`,
			`(?i)meningioma`,
			`(?i)astrocytoma`,
			`(?i)oligodendroglioma`,
			`(?i)brain\s+tumor`,
		),
		ProcedurePatterns: mustCompileAll(
			`(?i)craniotomy\s+for\s+tumor\s+resection`,
			`(?i)gross\s+total\s+resection|\bgtr\b`,
			`(?i)subtotal\s+resection|\bstr\b`,
			`(?i)stereotactic\s+biopsy`,
		),
		ComplicationPatterns: mustCompileAll(
			`(?i)tumor\s+progression`,
			`(?i)peritumoral\s+edema`,
		),
		GradingScales: []gradingScale{
			{Name: "WHO Grade", Pattern: regexp.MustCompile(`(?i)who\s+grade\s*([1-4]|I{1,3}V?)`)},
		},
	},
	{
		Type: domain.METASTASES,
		Name: "Brain Metastases",
		DetectionPatterns: mustCompileAll(
			`(?i)brain\s+metasta(?:sis|ses)`,
			`(?i)metastatic\s+(?:lesion|disease)\s+to\s+the\s+brain`,
			`(?i)\bmets\b`,
		),
		ProcedurePatterns: mustCompileAll(
			`(?i)stereotactic\s+radiosurgery|\bsrs\b`,
			`(?i)whole\s+brain\s+radiation\s+therapy|\bwbrt\b`,
			`(?i)craniotomy\s+for\s+metastasis\s+resection`,
		),
		ComplicationPatterns: mustCompileAll(
			`(?i)radiation\s+necrosis`,
			`(?i)leptomeningeal\s+(?:disease|spread)`,
		),
	},
	{
		Type: domain.SPINE,
		Name: "Spine Pathology",
		DetectionPatterns: mustCompileAll(
			`(?i)spinal\s+stenosis`,
			`(?i)herniated\s+disc`,
			`(?i)cauda\s+equina`,
			`(?i)spinal\s+cord\s+compression`,
			`(?i)cervical\s+myelopathy`,
		),
		ProcedurePatterns: mustCompileAll(
			`(?i)laminectomy`,
			`(?i)discectomy`,
			`(?i)spinal\s+fusion`,
			`(?i)\bacdf\b`,
		),
		ComplicationPatterns: mustCompileAll(
			`(?i)dural\s+tear`,
			`(?i)hardware\s+failure`,
			`(?i)pseudarthrosis`,
		),
	},
	{
		Type: domain.HYDROCEPHALUS,
		Name: "Hydrocephalus",
		DetectionPatterns: mustCompileAll(
			`(?i)hydrocephalus`,
			`(?i)ventriculomegaly`,
			`(?i)normal\s+pressure\s+hydrocephalus|\bnph\b`,
		),
		ProcedurePatterns: mustCompileAll(
			`(?i)ventriculoperitoneal\s+shunt|\bvp\s+shunt\b`,
			`(?i)endoscopic\s+third\s+ventriculostomy|\betv\b`,
			`(?i)external\s+ventricular\s+drain(?:age)?|\bevd\b`,
		),
		ComplicationPatterns: mustCompileAll(
			`(?i)shunt\s+malfunction`,
			`(?i)shunt\s+infection`,
			`(?i)overdrainage`,
		),
	},
}

const (
	confidenceHigh   = 0.8
	confidenceMedium = 0.6
	confidenceLow    = 0.4
)

// DetectPathology returns every pathology type the catalogue recognizes in
// text, sorted by confidence descending. Confidence is HIGH when a
// specific grading term is present, MEDIUM on a primary detection
// pattern, LOW on an indirect cue only.
func DetectPathology(text string) []domain.PathologyDetection {
	var results []domain.PathologyDetection

	for _, def := range catalogue {
		confidence := 0.0
		matched := false

		for _, scale := range def.GradingScales {
			if scale.Pattern.MatchString(text) {
				confidence = confidenceHigh
				matched = true
				break
			}
		}
		if !matched {
			for _, p := range def.DetectionPatterns {
				if p.MatchString(text) {
					confidence = confidenceMedium
					matched = true
					break
				}
			}
		}
		if !matched {
			for _, p := range def.IndirectCuePatterns {
				if p.MatchString(text) {
					confidence = confidenceLow
					matched = true
					break
				}
			}
		}

		if matched {
			results = append(results, domain.PathologyDetection{
				Type:       def.Type,
				Name:       def.Name,
				Confidence: confidence,
			})
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Confidence > results[j].Confidence
	})
	return results
}

// definitionFor returns the catalogue entry for a pathology type, or nil
// if the type is unknown to the catalogue.
func definitionFor(t domain.PathologyType) *definition {
	for i := range catalogue {
		if catalogue[i].Type == t {
			return &catalogue[i]
		}
	}
	return nil
}

// SymptomPatterns returns the symptom-detection patterns registered for a
// pathology type, or nil if none are catalogued.
func SymptomPatterns(t domain.PathologyType) []*regexp.Regexp {
	if def := definitionFor(t); def != nil {
		return def.SymptomPatterns
	}
	return nil
}

// ProcedurePatterns returns the procedure-detection patterns registered
// for a pathology type, or nil if none are catalogued.
func ProcedurePatterns(t domain.PathologyType) []*regexp.Regexp {
	if def := definitionFor(t); def != nil {
		return def.ProcedurePatterns
	}
	return nil
}

// ComplicationPatterns returns the complication-detection patterns
// registered for a pathology type, or nil if none are catalogued.
func ComplicationPatterns(t domain.PathologyType) []*regexp.Regexp {
	if def := definitionFor(t); def != nil {
		return def.ComplicationPatterns
	}
	return nil
}

// GradingScaleMatches scans text for every grading scale registered
// against a pathology type and returns the captured integer grades keyed
// by scale name.
func GradingScaleMatches(t domain.PathologyType, text string) map[string]int {
	def := definitionFor(t)
	if def == nil {
		return nil
	}
	out := make(map[string]int)
	for _, scale := range def.GradingScales {
		m := scale.Pattern.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		if n := parseGrade(m[1]); n != nil {
			out[scale.Name] = *n
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func parseGrade(s string) *int {
	romanToArabic := map[string]int{"I": 1, "II": 2, "III": 3, "IV": 4}
	if v, ok := romanToArabic[s]; ok {
		return &v
	}
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return nil
		}
		n = n*10 + int(r-'0')
	}
	return &n
}
