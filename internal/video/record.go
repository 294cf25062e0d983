// Package video defines the immutable video metadata record and the parsing
// helpers shared by the fetch and rating stages.
package video

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Record is one video's metadata as loaded from the fetch stage. Records are
// value types and never mutated after load.
type Record struct {
	VideoID      string
	URL          string
	ChannelID    string
	ChannelTitle string
	Title        string
	PublishedAt  time.Time
	DurationSec  int
	ViewCount    int64
	LikeCount    int64
	CommentCount int64
}

// DurationMin returns the duration in fractional minutes.
func (r Record) DurationMin() float64 {
	if r.DurationSec <= 0 {
		return 0
	}
	return float64(r.DurationSec) / 60.0
}

// WatchURL builds the canonical watch URL for a video ID.
func WatchURL(videoID string) string {
	return "https://www.youtube.com/watch?v=" + videoID
}

var (
	videoIDRE    = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)
	videoIDURLRE = regexp.MustCompile(`(?:v=|/shorts/|youtu\.be/)([A-Za-z0-9_-]{11})`)
	isoDurRE     = regexp.MustCompile(`^PT(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?$`)
	spacesRE     = regexp.MustCompile(`\s+`)
)

// ExtractVideoID pulls the 11-character video ID out of a bare ID or any of
// the common URL shapes (watch?v=, /shorts/, youtu.be/). Returns "" when no
// ID is present.
func ExtractVideoID(urlOrID string) string {
	s := strings.TrimSpace(urlOrID)
	if s == "" {
		return ""
	}
	if videoIDRE.MatchString(s) {
		return s
	}
	if m := videoIDURLRE.FindStringSubmatch(s); m != nil {
		return m[1]
	}
	return ""
}

// ParseISODuration converts an ISO-8601 PT#H#M#S duration to seconds.
// Malformed input yields 0 by policy, never an error.
func ParseISODuration(d string) int {
	m := isoDurRE.FindStringSubmatch(strings.TrimSpace(d))
	if m == nil {
		return 0
	}
	hours := atoiDefault(m[1])
	minutes := atoiDefault(m[2])
	seconds := atoiDefault(m[3])
	return hours*3600 + minutes*60 + seconds
}

func atoiDefault(s string) int {
	if s == "" {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

// NormalizeSpaces collapses whitespace runs to single spaces and trims.
func NormalizeSpaces(s string) string {
	return strings.TrimSpace(spacesRE.ReplaceAllString(s, " "))
}

// ParseCount parses a human-entered integer, tolerating surrounding spaces,
// embedded thousands spaces, and float renderings. Unparseable input yields
// the zero default by policy.
func ParseCount(s string) int64 {
	s = strings.ReplaceAll(strings.TrimSpace(s), " ", "")
	if s == "" {
		return 0
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int64(f)
	}
	return 0
}
