// Package pipeline drives the single-pass batch transform: exception filter,
// rule chain, performer attribution, aggregation, scoring, and ranking.
// Every input record lands in exactly one of the clean or dropped outputs;
// nothing is silently discarded.
package pipeline

import (
	"log/slog"
	"time"

	"github.com/google/uuid"

	"standuphub/internal/attribute"
	"standuphub/internal/config"
	"standuphub/internal/logging"
	"standuphub/internal/rating"
	"standuphub/internal/roster"
	"standuphub/internal/rules"
	"standuphub/internal/video"
)

// ReasonException marks records pre-listed in the exclusion file.
const ReasonException = "exception"

// CleanRecord is an accepted record attributed to exactly one performer.
type CleanRecord struct {
	video.Record
	Performer string
}

// DroppedRecord is a rejected record with its single reason code and, for
// ambiguous attributions, the full matched set for audit.
type DroppedRecord struct {
	video.Record
	Reason            string
	MatchedPerformers []string
}

// Counts summarizes the partition of the input.
type Counts struct {
	Input    int            `json:"input"`
	Accepted int            `json:"accepted"`
	Dropped  int            `json:"dropped"`
	ByReason map[string]int `json:"by_reason"`
}

// Summary is the audit record of one pipeline run.
type Summary struct {
	RunID                string    `json:"run_id"`
	GeneratedAt          time.Time `json:"generated_at"`
	CriteriaOrder        []string  `json:"criteria_order"`
	Counts               Counts    `json:"counts"`
	Performers           int       `json:"performers"`
	PriorMeanLikeRate    float64   `json:"prior_mean_like_rate"`
	SmoothingViews       int64     `json:"smoothing_views"`
	EngagementMultiplier bool      `json:"engagement_multiplier"`
}

// Result bundles every pipeline output.
type Result struct {
	Clean   []CleanRecord
	Dropped []DroppedRecord
	Rating  []rating.Entry
	Summary Summary
}

// Pipeline holds the immutable per-run tables: the compiled rule chain and
// alias matcher, the exclusion set, and the scoring configuration. It is
// built once and applied to the whole batch.
type Pipeline struct {
	chain      *rules.Chain
	matcher    *roster.Matcher
	exclusions *roster.Exclusions
	ratingCfg  config.Rating
	logger     *slog.Logger
}

// New compiles the pipeline from configuration and loaded side tables.
func New(cfg *config.Config, dict *roster.Dictionary, exclusions *roster.Exclusions, overrides *roster.ChannelOverrides, logger *slog.Logger) (*Pipeline, error) {
	if logger == nil {
		logger = logging.NewNop()
	}
	chain, err := rules.NewChain(cfg.Filter, overrides)
	if err != nil {
		return nil, err
	}
	matcher, err := dict.Compile()
	if err != nil {
		return nil, err
	}
	return &Pipeline{
		chain:      chain,
		matcher:    matcher,
		exclusions: exclusions,
		ratingCfg:  cfg.Rating,
		logger:     logging.NewComponentLogger(logger, "pipeline"),
	}, nil
}

// Run classifies every record and produces the ranked reach index. The
// output depends only on the input records and the immutable tables, so
// identical inputs yield identical classifications and ranks.
func (p *Pipeline) Run(records []video.Record) Result {
	result := Result{}
	aggregator := rating.NewAggregator()
	byReason := make(map[string]int)

	drop := func(rec video.Record, reason string, matched []string) {
		result.Dropped = append(result.Dropped, DroppedRecord{Record: rec, Reason: reason, MatchedPerformers: matched})
		byReason[reason]++
	}

	for _, rec := range records {
		if p.exclusions.Excluded(rec) {
			drop(rec, ReasonException, nil)
			continue
		}

		if outcome := p.chain.Evaluate(rec); !outcome.Pass {
			drop(rec, outcome.Reason, nil)
			continue
		}

		attr := attribute.Attribute(p.matcher, rec)
		if !attr.Attributed() {
			drop(rec, attr.Reason, attr.Matched)
			continue
		}

		result.Clean = append(result.Clean, CleanRecord{Record: rec, Performer: attr.Performer})
		aggregator.Add(attr.Performer, rec)
	}

	p0 := aggregator.PriorMean()
	scorer := rating.NewScorer(p.ratingCfg)
	entries := make([]rating.Entry, 0, len(aggregator.Aggregates()))
	for _, agg := range aggregator.Aggregates() {
		entries = append(entries, scorer.Score(agg, p0))
	}
	result.Rating = rating.Rank(entries, p.ratingCfg.EngagementMultiplier)

	result.Summary = Summary{
		RunID:         uuid.NewString(),
		GeneratedAt:   time.Now().UTC(),
		CriteriaOrder: p.chain.Descriptions(),
		Counts: Counts{
			Input:    len(records),
			Accepted: len(result.Clean),
			Dropped:  len(result.Dropped),
			ByReason: byReason,
		},
		Performers:           len(result.Rating),
		PriorMeanLikeRate:    p0,
		SmoothingViews:       p.ratingCfg.SmoothingViews,
		EngagementMultiplier: p.ratingCfg.EngagementMultiplier,
	}

	p.logger.Info("pipeline run complete",
		logging.String("run_id", result.Summary.RunID),
		logging.Int("input", len(records)),
		logging.Int("accepted", len(result.Clean)),
		logging.Int("dropped", len(result.Dropped)),
		logging.Int("performers", len(result.Rating)),
		logging.Float64("prior_like_rate", p0))

	return result
}
