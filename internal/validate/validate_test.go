package validate

import (
	"testing"
	"time"

	"github.com/ramihatou97/DCS-sub011/internal/domain"
	"github.com/stretchr/testify/assert"
)

func ptrInt(v int) *int { return &v }

func TestValidate_FlagsUntraceableLiteral(t *testing.T) {
	record := domain.ExtractedRecord{
		Procedures: []domain.CanonicalEntity{
			{Name: "ventriculoperitoneal shunt", Category: "procedures", Confidence: 0.8},
		},
		Confidence: map[string]float64{"procedures": 0.8},
	}
	source := "Patient had surgery."

	result := Validate(record, source)

	assert.NotEmpty(t, result.Flags)
	assert.Equal(t, SeverityCritical, result.Flags[0].Severity)
	assert.Empty(t, result.ValidatedData.Procedures, "pruning category must drop the untraceable entity")
}

func TestValidate_TraceableLiteralSurvives(t *testing.T) {
	record := domain.ExtractedRecord{
		Procedures: []domain.CanonicalEntity{
			{Name: "craniotomy", Category: "procedures", Confidence: 0.8},
		},
		Confidence: map[string]float64{"procedures": 0.8},
	}
	source := "Patient underwent pterional craniotomy for MCA aneurysm clipping."

	result := Validate(record, source)

	assert.Empty(t, result.Flags)
	assert.Len(t, result.ValidatedData.Procedures, 1)
}

func TestValidate_AbbreviationExpandedMatch(t *testing.T) {
	record := domain.ExtractedRecord{
		Pathology:  domain.PathologyRecord{Primary: "subarachnoid hemorrhage"},
		Confidence: map[string]float64{"pathology": 0.8},
	}
	source := "Patient presents with SAH following a fall."

	result := Validate(record, source)

	assert.Empty(t, result.Flags)
}

func TestValidate_SurgeryBeforeAdmissionIsDroppedAsError(t *testing.T) {
	admission := time.Date(2025, time.October, 15, 0, 0, 0, 0, time.UTC)
	earlySurgery := time.Date(2025, time.October, 10, 0, 0, 0, 0, time.UTC)

	record := domain.ExtractedRecord{
		Dates: domain.Dates{
			AdmissionDate: &admission,
			SurgeryDates:  []time.Time{earlySurgery},
		},
		Confidence: map[string]float64{"dates": 0.8},
	}

	result := Validate(record, "")

	assert.NotEmpty(t, result.Errors)
	assert.Contains(t, result.InvalidFields, "dates.surgeryDates")
	assert.Empty(t, result.ValidatedData.Dates.SurgeryDates)
}

func TestValidate_DischargeBeforeAdmissionIsError(t *testing.T) {
	admission := time.Date(2025, time.October, 15, 0, 0, 0, 0, time.UTC)
	discharge := time.Date(2025, time.October, 12, 0, 0, 0, 0, time.UTC)

	record := domain.ExtractedRecord{
		Dates:      domain.Dates{AdmissionDate: &admission, DischargeDate: &discharge},
		Confidence: map[string]float64{"dates": 0.8},
	}

	result := Validate(record, "")

	assert.NotEmpty(t, result.Errors)
	assert.Contains(t, result.InvalidFields, "dates.dischargeDate")
}

func TestValidate_IctusAfterAdmissionIsWarningNotError(t *testing.T) {
	admission := time.Date(2025, time.October, 10, 0, 0, 0, 0, time.UTC)
	ictus := time.Date(2025, time.October, 12, 0, 0, 0, 0, time.UTC)

	record := domain.ExtractedRecord{
		Dates:      domain.Dates{AdmissionDate: &admission, IctusDate: &ictus},
		Confidence: map[string]float64{"dates": 0.8},
	}

	result := Validate(record, "")

	assert.NotEmpty(t, result.Warnings)
	assert.Empty(t, result.Errors)
}

func TestValidate_AnticoagulationWithoutReversalWarnsOnHemorrhagicPathology(t *testing.T) {
	record := domain.ExtractedRecord{
		Pathology:       domain.PathologyRecord{Types: []domain.PathologyDetection{{Type: domain.SAH, Name: "SAH", Confidence: 0.8}}},
		Anticoagulation: []domain.CanonicalEntity{{Name: "warfarin", Category: "anticoagulation", Confidence: 0.7}},
		Confidence:      map[string]float64{"anticoagulation": 0.7},
	}
	source := "Patient was on warfarin for atrial fibrillation."

	result := Validate(record, source)

	found := false
	for _, w := range result.Warnings {
		if w.Message != "" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestValidate_AnticoagulationWithReversalDoesNotWarn(t *testing.T) {
	record := domain.ExtractedRecord{
		Pathology:       domain.PathologyRecord{Types: []domain.PathologyDetection{{Type: domain.SAH, Name: "SAH", Confidence: 0.8}}},
		Anticoagulation: []domain.CanonicalEntity{{Name: "warfarin", Category: "anticoagulation", Confidence: 0.7}},
		Confidence:      map[string]float64{"anticoagulation": 0.7},
	}
	source := "Patient was on warfarin, reversed with vitamin K and FFP prior to craniotomy."

	result := Validate(record, source)

	assert.Empty(t, result.Warnings)
}

func TestValidate_FunctionalScoreOutOfRangeIsNulledWithError(t *testing.T) {
	record := domain.ExtractedRecord{
		Functional: domain.FunctionalScores{KPS: ptrInt(150)},
		Confidence: map[string]float64{"functional": 0.6},
	}

	result := Validate(record, "")

	assert.NotEmpty(t, result.Errors)
	assert.Nil(t, result.ValidatedData.Functional.KPS)
	assert.Contains(t, result.InvalidFields, "functional.kps")
}

func TestValidate_FunctionalScoreInRangeSurvives(t *testing.T) {
	record := domain.ExtractedRecord{
		Functional: domain.FunctionalScores{KPS: ptrInt(70)},
		Confidence: map[string]float64{"functional": 0.6},
	}

	result := Validate(record, "")

	assert.Empty(t, result.Errors)
	assert.Equal(t, 70, *result.ValidatedData.Functional.KPS)
}

func TestValidate_OverallConfidenceClampedAndIsValid(t *testing.T) {
	record := domain.ExtractedRecord{
		Confidence: map[string]float64{"demographics": 0.9},
	}

	result := Validate(record, "")

	assert.InDelta(t, 0.9, result.OverallConfidence, 0.0001)
	assert.True(t, result.IsValid)
}

func TestValidate_EmptyConfidenceIsInvalid(t *testing.T) {
	result := Validate(domain.ExtractedRecord{}, "")

	assert.Equal(t, 0.0, result.OverallConfidence)
	assert.False(t, result.IsValid)
}
