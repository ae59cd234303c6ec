package extract

import (
	"testing"

	"github.com/ramihatou97/DCS-sub011/internal/domain"
	"github.com/ramihatou97/DCS-sub011/internal/ontology"
	"github.com/stretchr/testify/assert"
)

func TestExtractPathology(t *testing.T) {
	text := "Diagnosis: Subarachnoid hemorrhage. Hunt-Hess grade 2, Fisher grade 3, left frontal aneurysm."
	detections := ontology.DetectPathology(text)

	record, confidence := ExtractPathology(text, detections)

	assert.Equal(t, "Subarachnoid hemorrhage", record.Primary)
	assert.Equal(t, 2, record.Grades["Hunt-Hess"])
	assert.Equal(t, 3, record.Grades["Fisher"])
	assert.Equal(t, "left frontal", record.Location)
	assert.NotEmpty(t, record.RiskLevel)
	assert.Greater(t, confidence, 0.0)
}

func TestExtractPathology_NoSubtypeWithoutGrading(t *testing.T) {
	text := "Diagnosis: subarachnoid hemorrhage noted on CT head."
	detections := []domain.PathologyDetection{{Type: domain.SAH, Name: "Subarachnoid Hemorrhage", Confidence: 0.6}}
	record, _ := ExtractPathology(text, detections)
	assert.Empty(t, record.RiskLevel)
}
