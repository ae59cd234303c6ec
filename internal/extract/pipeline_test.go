package extract

import (
	"testing"

	"github.com/ramihatou97/DCS-sub011/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLearnedPatternsFor_FiltersByFieldAndEnabled(t *testing.T) {
	learned := []domain.LearnedPattern{
		{Field: "symptoms", Pattern: `ataxia`, Enabled: true},
		{Field: "symptoms", Pattern: `dysarthria`, Enabled: false},
		{Field: "procedures", Pattern: `craniotomy`, Enabled: true},
		{Field: "symptoms", Pattern: `([`, Enabled: true},
	}

	out := learnedPatternsFor(learned, "symptoms")
	require.Len(t, out, 1)
	assert.Equal(t, "ataxia", out[0].re.String())
}

func TestExtractSymptoms_LearnedPatternAugmentsOntology(t *testing.T) {
	text := "Patient reports new-onset facial drooping since yesterday."
	learned := []domain.LearnedPattern{
		{Field: "symptoms", Pattern: `facial droop\w*`, Enabled: true, Confidence: 0.75},
	}

	canonicals, _ := ExtractSymptoms(text, nil, domain.ReferenceDates{}, learned)
	require.NotEmpty(t, canonicals)
	assert.Equal(t, "facial drooping", canonicals[0].Name)
}

func TestExtractSymptoms_DisabledLearnedPatternIgnored(t *testing.T) {
	text := "Patient reports new-onset facial drooping since yesterday."
	learned := []domain.LearnedPattern{
		{Field: "symptoms", Pattern: `facial droop\w*`, Enabled: false},
	}

	canonicals, _ := ExtractSymptoms(text, nil, domain.ReferenceDates{}, learned)
	assert.Empty(t, canonicals)
}
