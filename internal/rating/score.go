package rating

import (
	"math"

	"standuphub/internal/config"
)

// Entry is one performer's row in the reach index.
type Entry struct {
	Performer string
	Rank      int

	// Score is the composite reach index; ScoreWithEngagement applies the
	// optional clamped multiplier and equals Score when the flag is off.
	Score                float64
	ScoreWithEngagement  float64
	EngagementMultiplier float64

	TotalViews   int64
	PeakViews    int64
	VideoCount   int
	TotalMinutes float64
	TotalLikes   int64

	// LikeRate is raw likes/views; LikeRateSmooth shrinks it toward the
	// dataset prior. Both are fractions, not percentages.
	LikeRate       float64
	LikeRateSmooth float64
}

// Scorer computes reach-index entries from aggregates using configured
// weights. Weights are constants of the run, never literals in the math.
type Scorer struct {
	cfg config.Rating
}

// NewScorer builds a scorer from the rating configuration.
func NewScorer(cfg config.Rating) *Scorer {
	return &Scorer{cfg: cfg}
}

// Score computes one performer's entry given the dataset prior mean p0.
//
// The composite index log1p-compresses each metric so a single viral video
// cannot dominate: total views reward catalog impact, peak views hit power,
// video count consistency, and total minutes output volume.
func (s *Scorer) Score(agg *Aggregate, p0 float64) Entry {
	totalViews := agg.TotalViews()
	peakViews := agg.PeakViews()
	videoCount := agg.VideoCount()

	base := s.cfg.WeightTotalViews*log1pClamped(float64(totalViews)) +
		s.cfg.WeightPeakViews*log1pClamped(float64(peakViews)) +
		s.cfg.WeightVideoCount*log1pClamped(float64(videoCount)) +
		s.cfg.WeightTotalMinutes*log1pClamped(agg.TotalMinutes)

	var likeRate float64
	if totalViews > 0 {
		likeRate = float64(agg.TotalLikes) / float64(totalViews)
	}

	m := float64(s.cfg.SmoothingViews)
	var likeRateSmooth float64
	if denom := float64(totalViews) + m; denom > 0 {
		likeRateSmooth = (float64(agg.TotalLikes) + m*p0) / denom
	}

	multiplier := 1.0
	withEngagement := base
	if s.cfg.EngagementMultiplier && p0 > 0 {
		multiplier = clamp(1.0+0.5*((likeRateSmooth-p0)/p0), s.cfg.MultiplierFloor, s.cfg.MultiplierCeiling)
		withEngagement = base * multiplier
	}

	return Entry{
		Performer:            agg.Performer,
		Score:                base,
		ScoreWithEngagement:  withEngagement,
		EngagementMultiplier: multiplier,
		TotalViews:           totalViews,
		PeakViews:            peakViews,
		VideoCount:           videoCount,
		TotalMinutes:         agg.TotalMinutes,
		TotalLikes:           agg.TotalLikes,
		LikeRate:             likeRate,
		LikeRateSmooth:       likeRateSmooth,
	}
}

func log1pClamped(x float64) float64 {
	if x < 0 {
		x = 0
	}
	return math.Log1p(x)
}

func clamp(x, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, x))
}
