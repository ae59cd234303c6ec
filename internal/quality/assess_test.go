package quality

import (
	"strings"
	"testing"

	"github.com/ramihatou97/DCS-sub011/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestAssess(t *testing.T) {
	t.Run("well structured note scores highly", func(t *testing.T) {
		note := strings.Repeat("Patient tolerated the overnight course without incident and remained stable. ", 10) +
			"History of Present Illness: 55M with subarachnoid hemorrhage. " +
			"Admission Date: October 10, 2025. Procedures: pterional craniotomy for aneurysm clipping on October 11, 2025. " +
			"Diagnosis: subarachnoid hemorrhage, Hunt-Hess grade 2, Fisher grade 3. " +
			"Discharge Medications: Nimodipine 60mg PO q4h. Discharge Date: October 18, 2025."
		report := Assess(note)
		assert.Greater(t, report.OverallScore, 0.5)
		assert.NotEqual(t, domain.GradeVeryPoor, report.Grade)
	})

	t.Run("sparse unstructured note scores poorly", func(t *testing.T) {
		report := Assess("pt ok")
		assert.Less(t, report.OverallScore, 0.3)
		assert.Equal(t, domain.GradeVeryPoor, report.Grade)
		assert.NotEmpty(t, report.Issues)
	})
}

func TestGradeFor(t *testing.T) {
	tests := []struct {
		score float64
		want  domain.QualityGrade
	}{
		{0.9, domain.GradeExcellent},
		{0.75, domain.GradeGood},
		{0.55, domain.GradeFair},
		{0.35, domain.GradePoor},
		{0.1, domain.GradeVeryPoor},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, gradeFor(tt.score))
	}
}

func TestCalibrateConfidence(t *testing.T) {
	t.Run("high quality barely discounts confidence", func(t *testing.T) {
		report := domain.SourceQualityReport{OverallScore: 1.0}
		assert.Equal(t, 0.8, CalibrateConfidence(0.8, report))
	})

	t.Run("zero quality halves confidence, never drops below zero", func(t *testing.T) {
		report := domain.SourceQualityReport{OverallScore: 0.0}
		assert.Equal(t, 0.4, CalibrateConfidence(0.8, report))
	})

	t.Run("clamped above one", func(t *testing.T) {
		report := domain.SourceQualityReport{OverallScore: 1.0}
		assert.Equal(t, 1.0, CalibrateConfidence(1.5, report))
	})
}
