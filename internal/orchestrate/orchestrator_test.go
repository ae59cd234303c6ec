package orchestrate

import (
	"context"
	"testing"
	"time"

	"github.com/ramihatou97/DCS-sub011/internal/coordinator"
	"github.com/ramihatou97/DCS-sub011/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sahNoteS1 = `Patient is a 55M, MRN: 12345678, admitted with aneurysmal subarachnoid
hemorrhage. Admission Date: October 10, 2025. Hunt-Hess grade 3, Fisher
grade 3. Underwent pterional craniotomy for MCA aneurysm clipping on
October 11, 2025. Nimodipine 60mg PO q4h started on admission. Course
complicated by mild vasospasm on POD#5. Discharge Date: October 18, 2025.`

func newOrchestrator() *Orchestrator {
	return New(coordinator.New(nil))
}

func TestOrchestratorRun_S1BasicSAH(t *testing.T) {
	o := newOrchestrator()
	result := o.Run(context.Background(), []string{sahNoteS1}, nil, DefaultOptions())

	require.True(t, result.Success)
	assert.Equal(t, 55, *result.ExtractedData.Demographics.Age)
	assert.Equal(t, "M", result.ExtractedData.Demographics.Sex)
	assert.Equal(t, "12345678", result.ExtractedData.Demographics.MRN)
	require.NotEmpty(t, result.ExtractedData.Pathology.Types)
	assert.NotEmpty(t, result.ExtractedData.Procedures)
	assert.NotEmpty(t, result.ExtractedData.Medications)
	assert.NotEmpty(t, result.ExtractedData.Complications)
	assert.GreaterOrEqual(t, result.QualityMetrics.Overall, 0.0)
	assert.LessOrEqual(t, result.QualityMetrics.Overall, 1.0)
}

func TestOrchestratorRun_S5NoExtrapolation(t *testing.T) {
	o := newOrchestrator()
	result := o.Run(context.Background(), []string{"Patient had surgery."}, nil, DefaultOptions())

	require.True(t, result.Success)
	for _, p := range result.ExtractedData.Procedures {
		assert.NotEmpty(t, p.Name)
	}
	assert.Empty(t, result.Validation.Flags, "no procedure literal should have been emitted to flag in the first place")
}

func TestOrchestratorRun_S6EmptyInput(t *testing.T) {
	o := newOrchestrator()
	result := o.Run(context.Background(), []string{""}, nil, DefaultOptions())

	assert.False(t, result.Success)
	assert.Equal(t, "No valid input provided", result.Error)
}

func TestOrchestratorRun_DateInconsistencyDropsSurgeryDate(t *testing.T) {
	note := `Admission Date: October 15, 2025. Patient is a 60 year old male
admitted following a fall with head trauma and was evaluated by the
neurosurgery service overnight. Patient underwent craniotomy for
evacuation of hematoma on October 10, 2025. Postoperative course was
uneventful and patient was monitored in the intensive care unit for
several days without complication before transfer to the general floor.
Discharge Date: October 20, 2025.`

	o := newOrchestrator()
	result := o.Run(context.Background(), []string{note}, nil, DefaultOptions())

	require.True(t, result.Success)
	found := false
	for _, e := range result.Validation.Errors {
		if e.Field == "dates.surgeryDates" {
			found = true
		}
	}
	assert.True(t, found)
	assert.Empty(t, result.ExtractedData.Dates.SurgeryDates)
}

func TestOrchestratorRun_DeadlineExceeded(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancel()
	time.Sleep(time.Millisecond)

	o := newOrchestrator()
	result := o.Run(ctx, []string{sahNoteS1}, nil, DefaultOptions())

	assert.False(t, result.Success)
	assert.Equal(t, "deadline exceeded", result.Error)
}

func TestOrchestratorRun_RoundTripIdempotence(t *testing.T) {
	o := newOrchestrator()
	first := o.Run(context.Background(), []string{sahNoteS1}, nil, DefaultOptions())
	require.True(t, first.Success)

	second := o.Run(context.Background(), []string{sahNoteS1}, &first.ExtractedData, DefaultOptions())
	require.True(t, second.Success)

	assert.Equal(t, first.ExtractedData.Demographics, second.ExtractedData.Demographics)
	assert.Equal(t, len(first.ExtractedData.Procedures), len(second.ExtractedData.Procedures))
}

func TestOrchestratorRun_TrustsCallerSuppliedRecordWithoutReExtracting(t *testing.T) {
	o := newOrchestrator()
	first := o.Run(context.Background(), []string{sahNoteS1}, nil, DefaultOptions())
	require.True(t, first.Success)

	second := o.Run(context.Background(), []string{sahNoteS1}, &first.ExtractedData, DefaultOptions())
	require.True(t, second.Success)
	assert.Zero(t, second.Metadata.PerformanceMetrics.Extraction)
}

func TestOrchestratorRun_RefinementAppliesLearnedPatternBaselineMisses(t *testing.T) {
	note := `Patient is a 55M, MRN: 12345678, admitted with aneurysmal subarachnoid
hemorrhage. Admission Date: October 10, 2025. Underwent pterional
craniotomy for MCA aneurysm clipping on October 11, 2025. Nimodipine
60mg PO q4h started on admission. Discharge Date: October 18, 2025.
Patient will transfer to Willowbrook Care Center on discharge.`

	o := newOrchestrator()
	opts := DefaultOptions()
	opts.EnableFeedbackLoops = true
	opts.LearnedPatterns = []domain.LearnedPattern{
		{Field: "destination", Pattern: `transfer to ([A-Za-z ]+Care Center)`, ValueTemplate: "$1", Enabled: true, Confidence: 0.8},
	}

	result := o.Run(context.Background(), []string{note}, nil, opts)

	require.True(t, result.Success)
	assert.Equal(t, "Willowbrook Care Center", result.ExtractedData.DischargeDestination)
	assert.GreaterOrEqual(t, result.RefinementIterations, 1)
}

func TestRemapToLegacyThreeDimension_FoldsSixIntoThree(t *testing.T) {
	o := newOrchestrator()
	opts := DefaultOptions()
	opts.LegacyThreeDimension = true

	result := o.Run(context.Background(), []string{sahNoteS1}, nil, opts)

	require.True(t, result.Success)
	assert.Len(t, result.QualityMetrics.Dimensions, 3)
	assert.Contains(t, result.QualityMetrics.Dimensions, domain.DimCompleteness)
	assert.Contains(t, result.QualityMetrics.Dimensions, domain.DimAccuracy)
	assert.Contains(t, result.QualityMetrics.Dimensions, domain.DimConsistency)
}
