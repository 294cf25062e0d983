package rating

import "sort"

// Rank sorts entries descending by the active key and assigns dense 1-based
// ranks. Equal keys break ties by performer name ascending so output never
// depends on incidental aggregation order.
func Rank(entries []Entry, byEngagement bool) []Entry {
	ranked := make([]Entry, len(entries))
	copy(ranked, entries)

	key := func(e Entry) float64 {
		if byEngagement {
			return e.ScoreWithEngagement
		}
		return e.Score
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		ki, kj := key(ranked[i]), key(ranked[j])
		if ki != kj {
			return ki > kj
		}
		return ranked[i].Performer < ranked[j].Performer
	})

	// Ranks are a permutation of 1..N: ties are ordered by the name
	// tiebreak above and still receive distinct positions.
	for i := range ranked {
		ranked[i].Rank = i + 1
	}
	return ranked
}
