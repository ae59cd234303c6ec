package dedup

import (
	"testing"
	"time"

	"github.com/ramihatou97/DCS-sub011/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinkReferencesToEvents(t *testing.T) {
	d := time.Date(2025, time.October, 1, 0, 0, 0, 0, time.UTC)
	canonicals := []domain.CanonicalEntity{
		{ID: "c1", Name: "coiling", Date: &d},
	}

	t.Run("links reference with matching date", func(t *testing.T) {
		ref := domain.EntityMention{ID: "r1", Name: "Coiling", Date: &d}
		updated, unlinked := LinkReferencesToEvents([]domain.EntityMention{ref}, canonicals, ProcedureSimilarity)
		require.Len(t, updated[0].LinkedReferences, 1)
		assert.Empty(t, unlinked)
		assert.Equal(t, "r1", updated[0].LinkedReferences[0].ID)
	})

	t.Run("unmatched reference stays unlinked", func(t *testing.T) {
		fresh := []domain.CanonicalEntity{{ID: "c1", Name: "coiling", Date: &d}}
		ref := domain.EntityMention{ID: "r2", Name: "nimodipine administration"}
		_, unlinked := LinkReferencesToEvents([]domain.EntityMention{ref}, fresh, ProcedureSimilarity)
		require.Len(t, unlinked, 1)
		assert.Equal(t, "r2", unlinked[0].ID)
	})
}

func TestProcedureSimilarity(t *testing.T) {
	d := time.Date(2025, time.October, 1, 0, 0, 0, 0, time.UTC)
	other := time.Date(2025, time.October, 5, 0, 0, 0, 0, time.UTC)

	canonical := domain.CanonicalEntity{Name: "coiling", Date: &d}

	t.Run("boosted when dates match and names related", func(t *testing.T) {
		ref := domain.EntityMention{Name: "Coiling", Date: &d}
		got := ProcedureSimilarity(ref, canonical)
		assert.Equal(t, 0.95, got)
	})

	t.Run("discounted when dates differ but names close", func(t *testing.T) {
		veryClose := domain.CanonicalEntity{Name: "pterional craniotomy for mca aneurysm clipping", Date: &other}
		ref := domain.EntityMention{Name: "pterional craniotomy for mca aneurysm clipping procedure", Date: &d}
		// dates differ (other vs d is actually d vs d here is fine to flip); force distinct anchors
		veryClose.Date = &other
		ref.Date = &d
		got := ProcedureSimilarity(ref, veryClose)
		assert.Less(t, got, 0.95)
		assert.Greater(t, got, 0.5)
	})
}
