package roster

import (
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"

	"standuphub/internal/video"
)

// Performer is one canonical name with its accepted title aliases. The
// canonical name is always its own first alias.
type Performer struct {
	Canonical string
	Aliases   []string
}

// Dictionary is the ordered performer roster parsed from performers.txt.
type Dictionary struct {
	Performers []Performer
}

// fold casefolds a string for case-insensitive identity comparisons.
func fold(s string) string {
	return cases.Fold().String(s)
}

// LoadDictionary parses a performer dictionary file. Lines have the shape
// `Canonical | alias1 | alias2`; blank lines and `#` comments are skipped,
// and aliases are deduplicated case-insensitively.
func LoadDictionary(path string) (*Dictionary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read performers file: %w", err)
	}
	return ParseDictionary(string(data))
}

// ParseDictionary parses dictionary content from memory.
func ParseDictionary(content string) (*Dictionary, error) {
	dict := &Dictionary{}
	seenCanonical := make(map[string]struct{})

	for i, raw := range strings.Split(content, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		var fields []string
		for _, part := range strings.Split(line, "|") {
			if p := video.NormalizeSpaces(part); p != "" {
				fields = append(fields, p)
			}
		}
		if len(fields) == 0 {
			continue
		}

		canonical := fields[0]
		key := fold(canonical)
		if _, dup := seenCanonical[key]; dup {
			return nil, fmt.Errorf("performers file line %d: duplicate canonical name %q", i+1, canonical)
		}
		seenCanonical[key] = struct{}{}

		performer := Performer{Canonical: canonical}
		seenAlias := make(map[string]struct{})
		for _, alias := range fields {
			aliasKey := fold(alias)
			if _, dup := seenAlias[aliasKey]; dup {
				continue
			}
			seenAlias[aliasKey] = struct{}{}
			performer.Aliases = append(performer.Aliases, alias)
		}
		dict.Performers = append(dict.Performers, performer)
	}

	if len(dict.Performers) == 0 {
		return nil, fmt.Errorf("performers file lists no performers")
	}
	return dict, nil
}

// Matcher is the compiled alias table: one case-insensitive pattern per
// alias, evaluated against a normalized title to produce the set of matching
// canonical names.
type Matcher struct {
	patterns []aliasPattern
}

type aliasPattern struct {
	canonical string
	re        *regexp.Regexp
}

// Compile builds the matcher from a dictionary. Compilation happens once per
// run; every title lookup reuses the same immutable table.
func (d *Dictionary) Compile() (*Matcher, error) {
	m := &Matcher{}
	for _, performer := range d.Performers {
		for _, alias := range performer.Aliases {
			re, err := regexp.Compile(`(?i)` + regexp.QuoteMeta(alias))
			if err != nil {
				return nil, fmt.Errorf("compile alias %q: %w", alias, err)
			}
			m.patterns = append(m.patterns, aliasPattern{canonical: performer.Canonical, re: re})
		}
	}
	return m, nil
}

// Match returns the sorted set of canonical names whose aliases occur in the
// title on Unicode word boundaries. Case-insensitive candidate hits come
// from the compiled patterns; boundary checks inspect the adjacent runes
// directly because RE2 has no lookaround, giving \w-boundary semantics that
// hold for Cyrillic and other non-Latin scripts.
func (m *Matcher) Match(title string) []string {
	normalized := video.NormalizeSpaces(title)
	if normalized == "" {
		return nil
	}

	matched := make(map[string]struct{})
	for _, p := range m.patterns {
		if _, done := matched[p.canonical]; done {
			continue
		}
		for _, loc := range p.re.FindAllStringIndex(normalized, -1) {
			if boundedAt(normalized, loc[0], loc[1]) {
				matched[p.canonical] = struct{}{}
				break
			}
		}
	}

	if len(matched) == 0 {
		return nil
	}
	names := make([]string, 0, len(matched))
	for name := range matched {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// boundedAt reports whether the [start, end) occurrence sits on word
// boundaries: the title edge, or an adjacent rune that is not a letter,
// digit, or underscore in any script.
func boundedAt(s string, start, end int) bool {
	if start > 0 {
		r, _ := utf8.DecodeLastRuneInString(s[:start])
		if isWordRune(r) {
			return false
		}
	}
	if end < len(s) {
		r, _ := utf8.DecodeRuneInString(s[end:])
		if isWordRune(r) {
			return false
		}
	}
	return true
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
