// Package dedup merges clinically equivalent entity mentions of the same
// category into canonical entities, and links reference mentions back to
// the canonical event they refer to.
package dedup

import (
	"sort"
	"time"

	"github.com/ramihatou97/DCS-sub011/internal/domain"
	"github.com/ramihatou97/DCS-sub011/internal/lexical"
)

// DefaultThreshold is the similarity cutoff for clustering mentions into
// one canonical entity when the caller supplies no override.
const DefaultThreshold = 0.75

// Options parameterizes Cluster.
type Options struct {
	Threshold     float64
	MergeSameDate bool
}

// unionFind is a standard disjoint-set structure used to build
// single-linkage clusters over the pairwise similarity graph.
type unionFind struct {
	parent []int
}

func newUnionFind(n int) *unionFind {
	uf := &unionFind{parent: make([]int, n)}
	for i := range uf.parent {
		uf.parent[i] = i
	}
	return uf
}

func (uf *unionFind) find(x int) int {
	for uf.parent[x] != x {
		uf.parent[x] = uf.parent[uf.parent[x]]
		x = uf.parent[x]
	}
	return x
}

func (uf *unionFind) union(a, b int) {
	ra, rb := uf.find(a), uf.find(b)
	if ra != rb {
		uf.parent[ra] = rb
	}
}

// Cluster merges mentions of one category into canonical entities using
// pairwise combined-similarity single-linkage clustering. When
// opts.MergeSameDate is true, two mentions may only join a cluster if
// either both lack dates or their dates are equal.
func Cluster(mentions []domain.EntityMention, opts Options) []domain.CanonicalEntity {
	if len(mentions) == 0 {
		return nil
	}
	threshold := opts.Threshold
	if threshold <= 0 {
		threshold = DefaultThreshold
	}

	uf := newUnionFind(len(mentions))
	for i := 0; i < len(mentions); i++ {
		for j := i + 1; j < len(mentions); j++ {
			if !datesCompatible(mentions[i], mentions[j], opts.MergeSameDate) {
				continue
			}
			sim := lexical.CalculateCombinedSimilarity(mentions[i].Name, mentions[j].Name)
			if sim >= threshold {
				uf.union(i, j)
			}
		}
	}

	groups := make(map[int][]int)
	for i := range mentions {
		root := uf.find(i)
		groups[root] = append(groups[root], i)
	}

	canonicals := make([]domain.CanonicalEntity, 0, len(groups))
	for _, members := range groups {
		canonicals = append(canonicals, buildCanonical(mentions, members))
	}

	sort.SliceStable(canonicals, func(i, j int) bool {
		return dateLess(canonicals[i].Date, canonicals[j].Date)
	})

	return canonicals
}

func datesCompatible(a, b domain.EntityMention, mergeSameDate bool) bool {
	if !mergeSameDate {
		return true
	}
	if a.Date == nil && b.Date == nil {
		return true
	}
	if a.Date == nil || b.Date == nil {
		return false
	}
	return a.Date.Equal(*b.Date)
}

func buildCanonical(mentions []domain.EntityMention, members []int) domain.CanonicalEntity {
	// Name: longest mention name; ties broken by earliest position.
	best := members[0]
	for _, idx := range members[1:] {
		if len(mentions[idx].Name) > len(mentions[best].Name) {
			best = idx
		} else if len(mentions[idx].Name) == len(mentions[best].Name) && mentions[idx].Position < mentions[best].Position {
			best = idx
		}
	}

	var dateHistory []time.Time
	seen := make(map[int64]struct{})
	maxConfidence := 0.0
	for _, idx := range members {
		m := mentions[idx]
		if m.Date != nil {
			key := m.Date.Unix()
			if _, ok := seen[key]; !ok {
				seen[key] = struct{}{}
				dateHistory = append(dateHistory, *m.Date)
			}
		}
		if m.Confidence > maxConfidence {
			maxConfidence = m.Confidence
		}
	}
	sort.Slice(dateHistory, func(i, j int) bool { return dateHistory[i].Before(dateHistory[j]) })

	canonical := mentions[best]
	var date *time.Time
	if len(dateHistory) > 0 {
		d := dateHistory[0]
		date = &d
	}

	return domain.CanonicalEntity{
		ID:             canonical.ID,
		Name:           canonical.Name,
		Date:           date,
		DateHistory:    dateHistory,
		MergedFrom:     len(members),
		Confidence:     maxConfidence,
		Category:       canonical.Category,
		CategoryFields: canonical.CategoryFields,
	}
}

// dateLess orders canonical entities by date ascending with nulls last,
// matching the external ordering contract.
func dateLess(a, b *time.Time) bool {
	if a == nil && b == nil {
		return false
	}
	if a == nil {
		return false
	}
	if b == nil {
		return true
	}
	return a.Before(*b)
}
