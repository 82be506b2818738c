// Package ranking orders scored items into a reproducible total order.
package ranking

import (
	"cmp"
	"slices"

	"github.com/jonathan/careerpilot/internal/types"
)

// Item is a scored record awaiting ranking. Key is the caller-supplied secondary
// sort key, such as catalog insertion order.
type Item[K cmp.Ordered] struct {
	ID    string
	Score types.ScoreResult
	Key   K
}

// Sorted returns a copy of items ordered by descending total, then ascending key,
// then ascending id.
func Sorted[K cmp.Ordered](items []Item[K]) []Item[K] {
	out := slices.Clone(items)
	slices.SortFunc(out, compare[K])
	return out
}

// Rank returns item ids in ranked order. The input slice is not modified.
func Rank[K cmp.Ordered](items []Item[K]) []string {
	sorted := Sorted(items)
	ids := make([]string, len(sorted))
	for i, item := range sorted {
		ids[i] = item.ID
	}
	return ids
}

// FromScores builds items keyed by position in ids, the usual catalog order.
// ids and scores must be the same length.
func FromScores(ids []string, scores []types.ScoreResult) []Item[int] {
	items := make([]Item[int], len(ids))
	for i, id := range ids {
		items[i] = Item[int]{ID: id, Score: scores[i], Key: i}
	}
	return items
}

func compare[K cmp.Ordered](a, b Item[K]) int {
	// Exact comparison: equal totals fall through to the secondary key.
	if c := cmp.Compare(b.Score.Total, a.Score.Total); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Key, b.Key); c != 0 {
		return c
	}
	return cmp.Compare(a.ID, b.ID)
}
