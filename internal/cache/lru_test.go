package cache

import (
	"testing"

	"github.com/ramihatou97/DCS-sub011/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputationCache_PathologyRoundTrip(t *testing.T) {
	c, err := NewComputationCache(4)
	require.NoError(t, err)

	key := NoteKey("normalized note text")
	_, ok := c.GetPathology(key)
	assert.False(t, ok)

	detection := domain.PathologyDetection{Type: domain.SAH, Confidence: 0.9}
	c.SetPathology(key, detection)

	got, ok := c.GetPathology(key)
	require.True(t, ok)
	assert.Equal(t, domain.SAH, got.Type)
}

func TestComputationCache_QualityRoundTrip(t *testing.T) {
	c, err := NewComputationCache(4)
	require.NoError(t, err)

	key := NoteKey("another note")
	report := domain.SourceQualityReport{Grade: domain.GradeExcellent}
	c.SetQuality(key, report)

	got, ok := c.GetQuality(key)
	require.True(t, ok)
	assert.Equal(t, domain.GradeExcellent, got.Grade)
}

func TestComputationCache_Purge(t *testing.T) {
	c, err := NewComputationCache(4)
	require.NoError(t, err)

	key := NoteKey("note")
	c.SetPathology(key, domain.PathologyDetection{Type: domain.TBI})
	c.Purge()

	_, ok := c.GetPathology(key)
	assert.False(t, ok)
}

func TestNoteKey_Deterministic(t *testing.T) {
	a := NoteKey("same text")
	b := NoteKey("same text")
	c := NoteKey("different text")
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}
