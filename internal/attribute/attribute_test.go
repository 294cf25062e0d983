package attribute

import (
	"reflect"
	"testing"

	"standuphub/internal/roster"
	"standuphub/internal/video"
)

func testMatcher(t *testing.T) *roster.Matcher {
	t.Helper()
	dict, err := roster.ParseDictionary(`
Іван Петренко | Ваня
Петро Коваль | Петя
`)
	if err != nil {
		t.Fatal(err)
	}
	m, err := dict.Compile()
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func TestAttributeSingleMatch(t *testing.T) {
	m := testMatcher(t)
	result := Attribute(m, video.Record{Title: "Стендап: Ваня про життя"})
	if !result.Attributed() {
		t.Fatalf("Attribute() = %+v, want attributed", result)
	}
	if result.Performer != "Іван Петренко" {
		t.Errorf("Performer = %q, want canonical name", result.Performer)
	}
}

func TestAttributeNoMatch(t *testing.T) {
	m := testMatcher(t)
	result := Attribute(m, video.Record{Title: "Стендап без імені"})
	if result.Attributed() || result.Reason != ReasonNoPerformer {
		t.Errorf("Attribute() = %+v, want %q", result, ReasonNoPerformer)
	}
}

func TestAttributeMultipleMatches(t *testing.T) {
	m := testMatcher(t)
	result := Attribute(m, video.Record{Title: "Ваня та Петя розганяють"})
	if result.Attributed() || result.Reason != ReasonMultiplePerformer {
		t.Fatalf("Attribute() = %+v, want %q", result, ReasonMultiplePerformer)
	}
	want := []string{"Іван Петренко", "Петро Коваль"}
	if !reflect.DeepEqual(result.Matched, want) {
		t.Errorf("Matched = %v, want full audited set %v", result.Matched, want)
	}
}

func TestAttributeTwoAliasesOnePerformer(t *testing.T) {
	m := testMatcher(t)
	// Canonical and alias of the same performer: still exactly one match.
	result := Attribute(m, video.Record{Title: "Іван Петренко (Ваня) стендап"})
	if !result.Attributed() || result.Performer != "Іван Петренко" {
		t.Errorf("Attribute() = %+v, want single attribution", result)
	}
}
