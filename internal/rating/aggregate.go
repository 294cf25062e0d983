// Package rating turns attributed video records into the ranked performer
// reach index: per-performer aggregation, log-compressed composite scoring,
// Bayesian-smoothed engagement, and dense ranking.
package rating

import (
	"standuphub/internal/video"
)

// Aggregate accumulates one performer's metrics. Each performer's
// accumulator is independent; no cross-performer mutation occurs.
type Aggregate struct {
	Performer string
	// Views is the ordered list of per-video view counts, the source for
	// both total and peak.
	Views        []int64
	TotalMinutes float64
	TotalLikes   int64
}

// TotalViews sums the per-video view counts.
func (a *Aggregate) TotalViews() int64 {
	var total int64
	for _, v := range a.Views {
		total += v
	}
	return total
}

// PeakViews returns the largest single-video view count.
func (a *Aggregate) PeakViews() int64 {
	var peak int64
	for _, v := range a.Views {
		if v > peak {
			peak = v
		}
	}
	return peak
}

// VideoCount returns the number of attributed videos.
func (a *Aggregate) VideoCount() int {
	return len(a.Views)
}

// Aggregator folds attributed records into per-performer aggregates while
// tracking the pipeline-wide view and like totals that anchor the
// engagement prior.
type Aggregator struct {
	byPerformer map[string]*Aggregate
	order       []string
	globalViews int64
	globalLikes int64
}

// NewAggregator returns an empty aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{byPerformer: make(map[string]*Aggregate)}
}

// Add folds one attributed record into the performer's aggregate.
func (ag *Aggregator) Add(performer string, rec video.Record) {
	agg, ok := ag.byPerformer[performer]
	if !ok {
		agg = &Aggregate{Performer: performer}
		ag.byPerformer[performer] = agg
		ag.order = append(ag.order, performer)
	}
	agg.Views = append(agg.Views, rec.ViewCount)
	agg.TotalMinutes += rec.DurationMin()
	agg.TotalLikes += rec.LikeCount

	ag.globalViews += rec.ViewCount
	ag.globalLikes += rec.LikeCount
}

// Aggregates returns the per-performer aggregates in first-seen order. The
// order is an artifact of input order and carries no meaning; the ranker
// applies its own deterministic tiebreak.
func (ag *Aggregator) Aggregates() []*Aggregate {
	out := make([]*Aggregate, 0, len(ag.order))
	for _, name := range ag.order {
		out = append(out, ag.byPerformer[name])
	}
	return out
}

// PriorMean returns p0, the dataset-wide mean like rate across all
// attributed videos, or 0 when no views were attributed.
func (ag *Aggregator) PriorMean() float64 {
	if ag.globalViews <= 0 {
		return 0
	}
	return float64(ag.globalLikes) / float64(ag.globalViews)
}

// GlobalViews returns the total attributed view count.
func (ag *Aggregator) GlobalViews() int64 { return ag.globalViews }

// GlobalLikes returns the total attributed like count.
func (ag *Aggregator) GlobalLikes() int64 { return ag.globalLikes }
