package validate

import (
	"fmt"
	"math"
	"strings"

	"github.com/ramihatou97/DCS-sub011/internal/domain"
)

var hemorrhagicTypes = map[domain.PathologyType]bool{
	domain.SAH: true,
	domain.ICH: true,
}

var reversalCues = []string{
	"vitamin k", "protamine", "ffp", "fresh frozen plasma", "pcc",
	"prothrombin complex concentrate", "andexanet", "idarucizumab", "kcentra",
	"reversal", "reversed",
}

var functionalRanges = map[string][2]int{
	"kps":      {0, 100},
	"ecog":     {0, 5},
	"mrs":      {0, 6},
	"huntHess": {1, 5},
	"fisher":   {1, 4},
}

// Validate runs the no-extrapolation check over every category literal in
// record, the cross-field logical checks, and computes overallConfidence
// as the clamped product of per-category confidences. sourceText is the
// same combined, pre-processed text C7 ran extraction against.
func Validate(record domain.ExtractedRecord, sourceText string) Result {
	result := Result{ValidatedData: record}

	checkDiagnosis(&result, sourceText)
	checkDestination(&result, sourceText)
	checkEntityCategory(&result, "procedures", sourceText, &result.ValidatedData.Procedures)
	checkEntityCategory(&result, "complications", sourceText, &result.ValidatedData.Complications)
	checkEntityCategory(&result, "medications", sourceText, &result.ValidatedData.Medications)
	checkEntityCategory(&result, "symptoms", sourceText, &result.ValidatedData.Symptoms)
	checkEntityCategory(&result, "anticoagulation", sourceText, &result.ValidatedData.Anticoagulation)
	checkEntityCategory(&result, "imaging", sourceText, &result.ValidatedData.Imaging)
	checkEntityCategory(&result, "followup", sourceText, &result.ValidatedData.FollowUp)
	checkEntityCategory(&result, "oncology", sourceText, &result.ValidatedData.OncologyMarkers)

	checkDateOrdering(&result)
	checkAnticoagulationReversal(&result, sourceText)
	checkFunctionalRanges(&result)

	result.OverallConfidence = overallConfidence(result.ValidatedData.Confidence)
	result.IsValid = len(result.Errors) == 0 && result.OverallConfidence >= float64(domain.ConfidenceMedium)

	return result
}

func severityFor(category string) Severity {
	if s, ok := categorySeverity[category]; ok {
		return s
	}
	return SeverityMedium
}

func checkDiagnosis(result *Result, source string) {
	primary := result.ValidatedData.Pathology.Primary
	if primary == "" {
		return
	}
	if !literalTraceable(primary, source) {
		result.Flags = append(result.Flags, Flag{
			Category: "diagnosis", Value: primary, Severity: SeverityCritical,
			Reason: "primary diagnosis not traceable to source text",
		})
	}
}

func checkDestination(result *Result, source string) {
	destination := result.ValidatedData.DischargeDestination
	if destination == "" {
		return
	}
	if !literalTraceable(destination, source) {
		result.Flags = append(result.Flags, Flag{
			Category: "destination", Value: destination, Severity: SeverityHigh,
			Reason: "discharge destination not traceable to source text",
		})
	}
}

// checkEntityCategory flags any entity whose name cannot be traced to
// source, pruning it from entities in place when category allows pruning.
func checkEntityCategory(result *Result, category, source string, entities *[]domain.CanonicalEntity) {
	if entities == nil || len(*entities) == 0 {
		return
	}
	kept := (*entities)[:0:0]
	for _, e := range *entities {
		if literalTraceable(e.Name, source) {
			kept = append(kept, e)
			continue
		}
		result.Flags = append(result.Flags, Flag{
			Category: category, Value: e.Name, Severity: severityFor(category),
			Reason: fmt.Sprintf("%s entity %q not traceable to source text", category, e.Name),
		})
		if pruningCategories[category] {
			result.InvalidFields = append(result.InvalidFields, category+"."+e.Name)
			continue
		}
		kept = append(kept, e)
	}
	*entities = kept
}

func checkDateOrdering(result *Result) {
	dates := &result.ValidatedData.Dates

	if dates.IctusDate != nil && dates.AdmissionDate != nil && dates.IctusDate.After(*dates.AdmissionDate) {
		result.Warnings = append(result.Warnings, Warning{Message: "ictus date after admission date is unusual"})
	}

	if dates.AdmissionDate != nil {
		if dates.SurgeryDate != nil && dates.SurgeryDate.Before(*dates.AdmissionDate) {
			result.Errors = append(result.Errors, ValidationErrorEntry{Field: "dates.surgeryDate", Message: "surgery date precedes admission date"})
			result.InvalidFields = append(result.InvalidFields, "dates.surgeryDate")
			dates.SurgeryDate = nil
		}
		keptSurgeryDates := dates.SurgeryDates[:0:0]
		for _, d := range dates.SurgeryDates {
			if d.Before(*dates.AdmissionDate) {
				result.Errors = append(result.Errors, ValidationErrorEntry{Field: "dates.surgeryDates", Message: "a surgery date precedes admission date"})
				result.InvalidFields = append(result.InvalidFields, "dates.surgeryDates")
				continue
			}
			keptSurgeryDates = append(keptSurgeryDates, d)
		}
		dates.SurgeryDates = keptSurgeryDates

		if dates.DischargeDate != nil && dates.DischargeDate.Before(*dates.AdmissionDate) {
			result.Errors = append(result.Errors, ValidationErrorEntry{Field: "dates.dischargeDate", Message: "discharge date precedes admission date"})
			result.InvalidFields = append(result.InvalidFields, "dates.dischargeDate")
		}
	}
}

func checkAnticoagulationReversal(result *Result, source string) {
	if len(result.ValidatedData.Anticoagulation) == 0 {
		return
	}
	hemorrhagic := false
	for _, p := range result.ValidatedData.Pathology.Types {
		if hemorrhagicTypes[p.Type] {
			hemorrhagic = true
			break
		}
	}
	if !hemorrhagic {
		return
	}

	lowered := strings.ToLower(source)
	for _, cue := range reversalCues {
		if strings.Contains(lowered, cue) {
			return
		}
	}
	result.Warnings = append(result.Warnings, Warning{
		Message: "patient on anticoagulation with hemorrhagic pathology and no documented reversal",
	})
}

func checkFunctionalRanges(result *Result) {
	functional := &result.ValidatedData.Functional

	checkRange(result, "kps", functional.KPS)
	checkRange(result, "ecog", functional.ECOG)
	checkRange(result, "mrs", functional.MRS)
	checkRange(result, "huntHess", functional.HuntHess)
	checkRange(result, "fisher", functional.Fisher)
}

func checkRange(result *Result, field string, value *int) {
	if value == nil {
		return
	}
	bounds, ok := functionalRanges[field]
	if !ok {
		return
	}
	if *value < bounds[0] || *value > bounds[1] {
		result.Errors = append(result.Errors, ValidationErrorEntry{
			Field:   "functional." + field,
			Message: fmt.Sprintf("%s value %d outside valid range [%d,%d]", field, *value, bounds[0], bounds[1]),
		})
		result.InvalidFields = append(result.InvalidFields, "functional."+field)
		nullifyFunctionalField(&result.ValidatedData.Functional, field)
	}
}

func nullifyFunctionalField(scores *domain.FunctionalScores, field string) {
	switch field {
	case "kps":
		scores.KPS = nil
	case "ecog":
		scores.ECOG = nil
	case "mrs":
		scores.MRS = nil
	case "huntHess":
		scores.HuntHess = nil
	case "fisher":
		scores.Fisher = nil
	}
}

// overallConfidence is the product of every present per-category
// confidence, clamped to [0,1]. A record with no populated categories at
// all has overallConfidence 0, matching the orchestrator's expectation
// that empty extraction never passes validation.
func overallConfidence(confidence map[string]float64) float64 {
	if len(confidence) == 0 {
		return 0
	}
	product := 1.0
	any := false
	for _, c := range confidence {
		if c <= 0 {
			continue
		}
		product *= c
		any = true
	}
	if !any {
		return 0
	}
	return math.Max(0, math.Min(1, product))
}
