package dedup

import (
	"testing"
	"time"

	"github.com/ramihatou97/DCS-sub011/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCluster(t *testing.T) {
	t.Run("merges near-duplicate spellings on the same date", func(t *testing.T) {
		d := time.Date(2025, time.October, 1, 0, 0, 0, 0, time.UTC)
		mentions := []domain.EntityMention{
			{ID: "1", Name: "Nimodipine 60mg PO q4h", Position: 10, Date: &d, Confidence: 0.8},
			{ID: "2", Name: "Nimodipine 60mg PO q4hr", Position: 40, Date: &d, Confidence: 0.9},
		}
		canonicals := Cluster(mentions, Options{MergeSameDate: true})
		require.Len(t, canonicals, 1)
		assert.Equal(t, 2, canonicals[0].MergedFrom)
		assert.Equal(t, 0.9, canonicals[0].Confidence)
		assert.Equal(t, "Nimodipine 60mg PO q4hr", canonicals[0].Name)
	})

	t.Run("does not merge same name on different dates when mergeSameDate set", func(t *testing.T) {
		d1 := time.Date(2025, time.October, 1, 0, 0, 0, 0, time.UTC)
		d2 := time.Date(2025, time.October, 5, 0, 0, 0, 0, time.UTC)
		mentions := []domain.EntityMention{
			{ID: "1", Name: "vasospasm", Position: 5, Date: &d1, Confidence: 0.7},
			{ID: "2", Name: "vasospasm", Position: 50, Date: &d2, Confidence: 0.7},
		}
		canonicals := Cluster(mentions, Options{MergeSameDate: true})
		assert.Len(t, canonicals, 2)
	})

	t.Run("dissimilar names never merge", func(t *testing.T) {
		mentions := []domain.EntityMention{
			{ID: "1", Name: "craniotomy", Position: 0, Confidence: 0.8},
			{ID: "2", Name: "nimodipine", Position: 20, Confidence: 0.8},
		}
		canonicals := Cluster(mentions, Options{})
		assert.Len(t, canonicals, 2)
	})

	t.Run("ordered by date ascending with nulls last", func(t *testing.T) {
		d1 := time.Date(2025, time.October, 5, 0, 0, 0, 0, time.UTC)
		d2 := time.Date(2025, time.October, 1, 0, 0, 0, 0, time.UTC)
		mentions := []domain.EntityMention{
			{ID: "1", Name: "headache", Position: 0, Date: &d1, Confidence: 0.6},
			{ID: "2", Name: "nausea", Position: 20, Date: &d2, Confidence: 0.6},
			{ID: "3", Name: "fatigue", Position: 40, Confidence: 0.6},
		}
		canonicals := Cluster(mentions, Options{})
		require.Len(t, canonicals, 3)
		assert.True(t, canonicals[0].Date.Equal(d2))
		assert.True(t, canonicals[1].Date.Equal(d1))
		assert.Nil(t, canonicals[2].Date)
	})
}
