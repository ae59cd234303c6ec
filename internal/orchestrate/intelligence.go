package orchestrate

import (
	"sort"
	"sync"
	"time"

	"github.com/ramihatou97/DCS-sub011/internal/domain"
	"github.com/ramihatou97/DCS-sub011/internal/validate"
)

// TimelineEvent is one dated entity folded into the causal timeline that
// every clinical-intelligence sub-phase reads from.
type TimelineEvent struct {
	Category string     `json:"category"`
	Name     string     `json:"name"`
	Date     *time.Time `json:"date,omitempty"`
}

// Intelligence is the bundle of sub-phase outputs the orchestrator folds
// into the final result between validation and quality scoring.
type Intelligence struct {
	PathologyAnalysis      string                  `json:"pathologyAnalysis"`
	CompletenessCheck      []string                `json:"completenessCheck,omitempty"`
	ConsistencyCheck       []string                `json:"consistencyCheck,omitempty"`
	LearnedPatternRecall   []domain.LearnedPattern `json:"learnedPatternRecall,omitempty"`
	ImprovementSuggestions []string                `json:"improvementSuggestions,omitempty"`
	ValidationFeedback     ValidationFeedback      `json:"validationFeedback"`

	Timeline               []TimelineEvent `json:"timeline,omitempty"`
	TreatmentResponse      []string        `json:"treatmentResponse,omitempty"`
	FunctionalEvolution    string          `json:"functionalEvolution"`
	RelationshipExtraction []string        `json:"relationshipExtraction,omitempty"`
}

// ValidationFeedback summarizes the validator's findings for the
// intelligence report without duplicating the full Result.
type ValidationFeedback struct {
	ErrorCount   int `json:"errorCount"`
	WarningCount int `json:"warningCount"`
	FlagCount    int `json:"flagCount"`
}

var expectedCategories = []string{
	"demographics", "dates", "pathology", "procedures", "medications",
	"complications", "destination", "functional",
}

// GatherIntelligence builds the causal timeline first, since two of the
// three sub-phases that follow read from it, then runs treatment-response
// tracking, functional-evolution analysis, and relationship extraction
// concurrently: they are independent of each other and their completion
// order has no effect on the merged Intelligence value because each
// writes only its own dedicated field.
func GatherIntelligence(record domain.ExtractedRecord, validation validate.Result, patterns []domain.LearnedPattern) Intelligence {
	intel := Intelligence{
		PathologyAnalysis:    pathologyAnalysis(record),
		CompletenessCheck:    completenessCheck(record),
		ConsistencyCheck:     consistencyCheck(validation),
		LearnedPatternRecall: patterns,
		ValidationFeedback: ValidationFeedback{
			ErrorCount:   len(validation.Errors),
			WarningCount: len(validation.Warnings),
			FlagCount:    len(validation.Flags),
		},
	}
	intel.Timeline = buildTimeline(record)
	intel.ImprovementSuggestions = improvementSuggestions(record, validation)

	var wg sync.WaitGroup
	wg.Add(3)

	go func() {
		defer wg.Done()
		intel.TreatmentResponse = treatmentResponseTracking(record, intel.Timeline)
	}()
	go func() {
		defer wg.Done()
		intel.FunctionalEvolution = functionalEvolutionAnalysis(record)
	}()
	go func() {
		defer wg.Done()
		intel.RelationshipExtraction = relationshipExtraction(intel.Timeline)
	}()

	wg.Wait()
	return intel
}

func pathologyAnalysis(record domain.ExtractedRecord) string {
	if record.Pathology.Primary == "" {
		return "no primary pathology detected"
	}
	analysis := record.Pathology.Primary
	if record.Pathology.Subtype != "" {
		analysis += " (" + record.Pathology.Subtype + ")"
	}
	return analysis
}

func completenessCheck(record domain.ExtractedRecord) []string {
	var missing []string
	if record.Demographics.MRN == "" && record.Demographics.Name == "" {
		missing = append(missing, "demographics")
	}
	if record.Dates.AdmissionDate == nil {
		missing = append(missing, "dates")
	}
	if len(record.Pathology.Types) == 0 {
		missing = append(missing, "pathology")
	}
	if len(record.Procedures) == 0 {
		missing = append(missing, "procedures")
	}
	if len(record.Medications) == 0 {
		missing = append(missing, "medications")
	}
	if len(record.Complications) == 0 {
		missing = append(missing, "complications")
	}
	if record.DischargeDestination == "" {
		missing = append(missing, "destination")
	}
	if record.Functional.KPS == nil && record.Functional.ECOG == nil && record.Functional.MRS == nil {
		missing = append(missing, "functional")
	}
	return missing
}

func consistencyCheck(validation validate.Result) []string {
	var issues []string
	for _, w := range validation.Warnings {
		issues = append(issues, w.Message)
	}
	for _, e := range validation.Errors {
		issues = append(issues, e.Field+": "+e.Message)
	}
	return issues
}

// improvementSuggestions names the categories completenessCheck found
// missing plus any category whose confidence fell below the medium
// threshold, as candidate targets for the refinement loop's learned-
// pattern application.
func improvementSuggestions(record domain.ExtractedRecord, validation validate.Result) []string {
	suggestions := append([]string{}, completenessCheck(record)...)
	for category, confidence := range record.Confidence {
		if confidence > 0 && confidence < float64(domain.ConfidenceMedium) {
			suggestions = append(suggestions, category+" confidence below medium")
		}
	}
	return suggestions
}

func buildTimeline(record domain.ExtractedRecord) []TimelineEvent {
	var events []TimelineEvent
	appendEntities := func(category string, entities []domain.CanonicalEntity) {
		for _, e := range entities {
			events = append(events, TimelineEvent{Category: category, Name: e.Name, Date: e.Date})
		}
	}
	appendEntities("procedure", record.Procedures)
	appendEntities("complication", record.Complications)
	appendEntities("medication", record.Medications)

	sort.SliceStable(events, func(i, j int) bool {
		if events[i].Date == nil {
			return false
		}
		if events[j].Date == nil {
			return true
		}
		return events[i].Date.Before(*events[j].Date)
	})
	return events
}

// treatmentResponseTracking pairs each complication with the nearest
// preceding procedure or medication in the timeline, a coarse proxy for
// "was this complication addressed".
func treatmentResponseTracking(record domain.ExtractedRecord, timeline []TimelineEvent) []string {
	var responses []string
	for i, event := range timeline {
		if event.Category != "complication" {
			continue
		}
		var precedingTreatment string
		for j := i - 1; j >= 0; j-- {
			if timeline[j].Category == "procedure" || timeline[j].Category == "medication" {
				precedingTreatment = timeline[j].Name
				break
			}
		}
		if precedingTreatment != "" {
			responses = append(responses, event.Name+" followed "+precedingTreatment)
		}
	}
	return responses
}

// functionalEvolutionAnalysis describes the single functional-score
// snapshot available in one extracted record; trend analysis across
// multiple records is left to the caller aggregating successive calls.
func functionalEvolutionAnalysis(record domain.ExtractedRecord) string {
	switch {
	case record.Functional.KPS != nil:
		return "KPS recorded at discharge"
	case record.Functional.MRS != nil:
		return "mRS recorded at discharge"
	case record.Functional.ECOG != nil:
		return "ECOG recorded at discharge"
	default:
		return "no functional score recorded"
	}
}

func relationshipExtraction(timeline []TimelineEvent) []string {
	var relationships []string
	for i := 1; i < len(timeline); i++ {
		if timeline[i].Date == nil || timeline[i-1].Date == nil {
			continue
		}
		if timeline[i].Date.Equal(*timeline[i-1].Date) {
			relationships = append(relationships, timeline[i-1].Name+" co-occurs with "+timeline[i].Name)
		}
	}
	return relationships
}
