// Package attribute assigns each accepted video to exactly one performer by
// alias matching against the title. Ambiguity is never resolved
// heuristically: zero or multiple matches reject the record with a reason.
package attribute

import (
	"standuphub/internal/roster"
	"standuphub/internal/video"
)

// Rejection reasons emitted by Attribute.
const (
	ReasonNoPerformer       = "no_performer_in_title"
	ReasonMultiplePerformer = "multiple_performers_in_title"
)

// Result is the attribution verdict for one record.
type Result struct {
	// Performer is the canonical name, set only on an unambiguous match.
	Performer string
	// Matched is the full sorted matched set, retained for audit when the
	// record is rejected as ambiguous.
	Matched []string
	// Reason is empty for attributed records.
	Reason string
}

// Attributed reports whether the record was assigned to one performer.
func (r Result) Attributed() bool {
	return r.Reason == ""
}

// Attribute matches the record title against the compiled alias table and
// applies the strict cardinality policy: exactly one canonical match
// attributes the record, anything else rejects it.
func Attribute(matcher *roster.Matcher, rec video.Record) Result {
	matched := matcher.Match(rec.Title)
	switch len(matched) {
	case 0:
		return Result{Reason: ReasonNoPerformer}
	case 1:
		return Result{Performer: matched[0], Matched: matched}
	default:
		return Result{Matched: matched, Reason: ReasonMultiplePerformer}
	}
}
