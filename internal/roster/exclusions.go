package roster

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"standuphub/internal/video"
)

// Exclusions is the set of videos to drop unconditionally, keyed both by
// extracted video ID and by the exact source line (for URL-form entries).
type Exclusions struct {
	ids   map[string]struct{}
	lines map[string]struct{}
}

// LoadExclusions parses an exceptions file. A missing file is an empty set,
// not an error; the list is optional by design.
func LoadExclusions(path string) (*Exclusions, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ParseExclusions("")
		}
		return nil, fmt.Errorf("read exceptions file: %w", err)
	}
	return ParseExclusions(string(data))
}

// ParseExclusions parses exclusion content from memory.
func ParseExclusions(content string) (*Exclusions, error) {
	ex := &Exclusions{
		ids:   make(map[string]struct{}),
		lines: make(map[string]struct{}),
	}
	for _, raw := range strings.Split(content, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		ex.lines[line] = struct{}{}
		if id := video.ExtractVideoID(line); id != "" {
			ex.ids[id] = struct{}{}
		}
	}
	return ex, nil
}

// Excluded reports whether a record is pre-listed by ID or exact locator.
func (e *Exclusions) Excluded(r video.Record) bool {
	if e == nil {
		return false
	}
	if _, ok := e.ids[r.VideoID]; ok {
		return true
	}
	_, ok := e.lines[r.URL]
	return ok
}

// Len returns the number of distinct exclusion lines.
func (e *Exclusions) Len() int {
	if e == nil {
		return 0
	}
	return len(e.lines)
}
