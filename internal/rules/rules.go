// Package rules implements the ordered, short-circuiting predicate chain
// that classifies fetched videos as accepted or rejected-with-reason.
package rules

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"golang.org/x/text/cases"

	"standuphub/internal/config"
	"standuphub/internal/roster"
	"standuphub/internal/video"
)

// Outcome is a rule verdict: pass, or fail with exactly one reason code.
// Rules never error; malformed record fields were already coerced at load.
type Outcome struct {
	Pass   bool
	Reason string
}

func pass() Outcome { return Outcome{Pass: true} }

func fail(reason string) Outcome { return Outcome{Reason: reason} }

// Rule is one named predicate in the chain.
type Rule interface {
	// Describe returns the human-readable criterion for the run summary.
	Describe() string
	Evaluate(video.Record) Outcome
}

// Chain evaluates rules in declared order and stops at the first failure,
// so every rejected record carries exactly one reason even when it violates
// several rules.
type Chain struct {
	rules []Rule
}

// NewChain builds the rule chain from filter configuration and the
// per-channel override table. The order is fixed: cutoff, duration window,
// signature keyword, topic blocklist (patterns in name order), banned
// phrases.
func NewChain(cfg config.Filter, overrides *roster.ChannelOverrides) (*Chain, error) {
	cutoff, err := time.Parse(time.RFC3339, cfg.Cutoff)
	if err != nil {
		return nil, fmt.Errorf("parse filter cutoff: %w", err)
	}

	chain := &Chain{}
	chain.rules = append(chain.rules,
		cutoffRule{cutoff: cutoff},
		minDurationRule{seconds: cfg.MinDurationSec},
		maxDurationRule{seconds: cfg.MaxDurationSec},
		signatureRule{keywords: foldAll(cfg.SignatureKeywords), overrides: overrides},
	)

	names := make([]string, 0, len(cfg.TopicPatterns))
	for name := range cfg.TopicPatterns {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		re, err := regexp.Compile(cfg.TopicPatterns[name])
		if err != nil {
			return nil, fmt.Errorf("compile topic pattern %q: %w", name, err)
		}
		chain.rules = append(chain.rules, topicRule{name: name, re: re})
	}

	chain.rules = append(chain.rules, bannedPhrasesRule{phrases: cfg.BannedPhrases, folded: foldAll(cfg.BannedPhrases)})
	return chain, nil
}

// Evaluate runs the chain against one record. The first failing rule
// short-circuits; later rules are never consulted.
func (c *Chain) Evaluate(r video.Record) Outcome {
	for _, rule := range c.rules {
		if outcome := rule.Evaluate(r); !outcome.Pass {
			return outcome
		}
	}
	return pass()
}

// Descriptions lists the criteria in evaluation order for audit output.
func (c *Chain) Descriptions() []string {
	out := make([]string, 0, len(c.rules))
	for _, rule := range c.rules {
		out = append(out, rule.Describe())
	}
	return out
}

func fold(s string) string {
	return cases.Fold().String(s)
}

func foldAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		out = append(out, fold(v))
	}
	return out
}

type cutoffRule struct {
	cutoff time.Time
}

func (r cutoffRule) Describe() string {
	return fmt.Sprintf("published_at >= %s", r.cutoff.Format("2006-01-02"))
}

func (r cutoffRule) Evaluate(v video.Record) Outcome {
	if v.PublishedAt.Before(r.cutoff) {
		return fail(fmt.Sprintf("before_%s", r.cutoff.Format("2006_01_02")))
	}
	return pass()
}

type minDurationRule struct {
	seconds int
}

func (r minDurationRule) Describe() string {
	return fmt.Sprintf("duration > %d sec", r.seconds)
}

func (r minDurationRule) Evaluate(v video.Record) Outcome {
	if v.DurationSec <= r.seconds {
		return fail(fmt.Sprintf("too_short_<=_%ds", r.seconds))
	}
	return pass()
}

type maxDurationRule struct {
	seconds int
}

func (r maxDurationRule) Describe() string {
	return fmt.Sprintf("duration < %d sec", r.seconds)
}

func (r maxDurationRule) Evaluate(v video.Record) Outcome {
	if v.DurationSec >= r.seconds {
		return fail(fmt.Sprintf("too_long_>=_%ds", r.seconds))
	}
	return pass()
}

type signatureRule struct {
	keywords  []string
	overrides *roster.ChannelOverrides
}

func (r signatureRule) Describe() string {
	return "title contains a signature keyword (unless channel override)"
}

func (r signatureRule) Evaluate(v video.Record) Outcome {
	if r.overrides.HasFlag(v.ChannelID, roster.FlagAllowWithoutSignatureKeyword) {
		return pass()
	}
	title := fold(v.Title)
	for _, kw := range r.keywords {
		if strings.Contains(title, kw) {
			return pass()
		}
	}
	return fail("no_signature_keyword")
}

type topicRule struct {
	name string
	re   *regexp.Regexp
}

func (r topicRule) Describe() string {
	return fmt.Sprintf("title does NOT match topic %q", r.name)
}

func (r topicRule) Evaluate(v video.Record) Outcome {
	if r.re.MatchString(v.Title) {
		return fail("title_has_" + r.name)
	}
	return pass()
}

type bannedPhrasesRule struct {
	phrases []string
	folded  []string
}

func (r bannedPhrasesRule) Describe() string {
	return "title does NOT contain a banned phrase"
}

func (r bannedPhrasesRule) Evaluate(v video.Record) Outcome {
	title := fold(v.Title)
	for i, phrase := range r.folded {
		if strings.Contains(title, phrase) {
			return fail("banned_phrase:" + r.phrases[i])
		}
	}
	return pass()
}
