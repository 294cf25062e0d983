package roster

import (
	"reflect"
	"testing"
)

func mustMatcher(t *testing.T, content string) *Matcher {
	t.Helper()
	dict, err := ParseDictionary(content)
	if err != nil {
		t.Fatalf("ParseDictionary: %v", err)
	}
	m, err := dict.Compile()
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	return m
}

func TestParseDictionary(t *testing.T) {
	dict, err := ParseDictionary(`
# roster
Іван Петренко | Ваня Петренко | ІВАН ПЕТРЕНКО

Mike Smith|Майк Сміт
`)
	if err != nil {
		t.Fatalf("ParseDictionary: %v", err)
	}
	if len(dict.Performers) != 2 {
		t.Fatalf("performers = %d, want 2", len(dict.Performers))
	}
	// Canonical included once; case-insensitive duplicate alias dropped.
	want := []string{"Іван Петренко", "Ваня Петренко"}
	if !reflect.DeepEqual(dict.Performers[0].Aliases, want) {
		t.Errorf("aliases = %v, want %v", dict.Performers[0].Aliases, want)
	}
}

func TestParseDictionaryRejectsDuplicateCanonical(t *testing.T) {
	_, err := ParseDictionary("Іван | Ваня\nіван | Inny")
	if err == nil {
		t.Error("ParseDictionary accepted a duplicate canonical name")
	}
}

func TestParseDictionaryRejectsEmpty(t *testing.T) {
	if _, err := ParseDictionary("# only a comment\n"); err == nil {
		t.Error("ParseDictionary accepted an empty roster")
	}
}

func TestMatchWordBoundaries(t *testing.T) {
	m := mustMatcher(t, "Ivan | Ivan")

	tests := []struct {
		name  string
		title string
		want  []string
	}{
		{"exact word", "Ivan speaks", []string{"Ivan"}},
		{"start of title", "Ivan", []string{"Ivan"}},
		{"end of title", "Стендап від Ivan", []string{"Ivan"}},
		{"punctuation boundary", "стендап (Ivan) 2024", []string{"Ivan"}},
		{"embedded prefix", "Ivanenko speaks", nil},
		{"embedded suffix", "DzhIvan speaks", nil},
		{"digit adjacent", "Ivan2 speaks", nil},
		{"underscore adjacent", "Ivan_ speaks", nil},
		{"case insensitive", "IVAN на сцені", []string{"Ivan"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := m.Match(tt.title); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Match(%q) = %v, want %v", tt.title, got, tt.want)
			}
		})
	}
}

func TestMatchCyrillicBoundaries(t *testing.T) {
	m := mustMatcher(t, "Іван Петренко | Іван")

	// A Cyrillic letter adjacent to the alias must block the match; ASCII
	// \b would treat every Cyrillic rune as a boundary and match wrongly.
	if got := m.Match("Іваненко на сцені"); got != nil {
		t.Errorf("Match embedded Cyrillic = %v, want no match", got)
	}
	if got := m.Match("Стендап: Іван на сцені"); len(got) != 1 || got[0] != "Іван Петренко" {
		t.Errorf("Match = %v, want [Іван Петренко]", got)
	}
}

func TestMatchMultiplePerformers(t *testing.T) {
	m := mustMatcher(t, "Іван | Ваня\nПетро | Петя")

	got := m.Match("Розмова: Ваня і Петя")
	want := []string{"Іван", "Петро"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Match = %v, want %v (sorted canonicals)", got, want)
	}
}

func TestMatchNormalizesWhitespace(t *testing.T) {
	m := mustMatcher(t, "Іван Петренко")

	if got := m.Match("Стендап   Іван \t Петренко  2024"); len(got) != 1 {
		t.Errorf("Match with ragged whitespace = %v, want one match", got)
	}
}

func TestMatchAliasWithRegexMetacharacters(t *testing.T) {
	m := mustMatcher(t, "C.J. Комік | C.J.")

	if got := m.Match("Вечір з C.J. у клубі"); len(got) != 1 {
		t.Errorf("Match = %v, want one match for quoted alias", got)
	}
	// The dots are literal, not wildcards.
	if got := m.Match("Вечір з CxJx у клубі"); got != nil {
		t.Errorf("Match = %v, want no match for wildcard interpretation", got)
	}
}

func TestMatchEmptyTitle(t *testing.T) {
	m := mustMatcher(t, "Іван")
	if got := m.Match("   "); got != nil {
		t.Errorf("Match(blank) = %v, want nil", got)
	}
}
