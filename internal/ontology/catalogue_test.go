package ontology

import (
	"testing"

	"github.com/ramihatou97/DCS-sub011/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectPathology(t *testing.T) {
	t.Run("grading term yields high confidence", func(t *testing.T) {
		results := DetectPathology("Patient presented with Fisher grade 3 subarachnoid hemorrhage.")
		require.NotEmpty(t, results)
		assert.Equal(t, domain.SAH, results[0].Type)
		assert.Equal(t, confidenceHigh, results[0].Confidence)
	})

	t.Run("primary pattern without grading yields medium confidence", func(t *testing.T) {
		results := DetectPathology("CT head shows a large glioblastoma in the left frontal lobe.")
		require.NotEmpty(t, results)
		assert.Equal(t, domain.TUMOR, results[0].Type)
		assert.Equal(t, confidenceMedium, results[0].Confidence)
	})

	t.Run("indirect cue only yields low confidence", func(t *testing.T) {
		results := DetectPathology("Patient developed vasospasm on post-op day 5.")
		require.NotEmpty(t, results)
		assert.Equal(t, domain.SAH, results[0].Type)
		assert.Equal(t, confidenceLow, results[0].Confidence)
	})

	t.Run("multiple co-occurring types are all preserved", func(t *testing.T) {
		text := "History of subarachnoid hemorrhage with Hunt-Hess grade 2, now with hydrocephalus requiring VP shunt."
		results := DetectPathology(text)
		var foundSAH, foundHydro bool
		for _, r := range results {
			if r.Type == domain.SAH {
				foundSAH = true
			}
			if r.Type == domain.HYDROCEPHALUS {
				foundHydro = true
			}
		}
		assert.True(t, foundSAH)
		assert.True(t, foundHydro)
	})

	t.Run("sorted by confidence descending", func(t *testing.T) {
		text := "VP shunt placed for hydrocephalus. Fisher grade 4 subarachnoid hemorrhage noted on admission."
		results := DetectPathology(text)
		for i := 1; i < len(results); i++ {
			assert.GreaterOrEqual(t, results[i-1].Confidence, results[i].Confidence)
		}
	})

	t.Run("no match returns empty", func(t *testing.T) {
		results := DetectPathology("Patient is recovering well with no acute findings.")
		assert.Empty(t, results)
	})
}

func TestGradingScaleMatches(t *testing.T) {
	grades := GradingScaleMatches(domain.SAH, "Hunt-Hess grade 2, Fisher grade 3, modified Fisher grade 4.")
	require.NotNil(t, grades)
	assert.Equal(t, 2, grades["Hunt-Hess"])
	assert.Equal(t, 3, grades["Fisher"])
	assert.Equal(t, 4, grades["ModifiedFisher"])
}
