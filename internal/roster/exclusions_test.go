package roster

import (
	"path/filepath"
	"testing"

	"standuphub/internal/video"
)

func TestParseExclusions(t *testing.T) {
	ex, err := ParseExclusions(`
# manual removals
dQw4w9WgXcQ
https://www.youtube.com/watch?v=aaaaaaaaaaa
https://example.com/not-a-video
`)
	if err != nil {
		t.Fatalf("ParseExclusions: %v", err)
	}
	if ex.Len() != 3 {
		t.Errorf("Len() = %d, want 3", ex.Len())
	}

	tests := []struct {
		name   string
		record video.Record
		want   bool
	}{
		{"by bare id", video.Record{VideoID: "dQw4w9WgXcQ"}, true},
		{"by id extracted from url line", video.Record{VideoID: "aaaaaaaaaaa"}, true},
		{"by exact locator", video.Record{VideoID: "bbbbbbbbbbb", URL: "https://example.com/not-a-video"}, true},
		{"unlisted", video.Record{VideoID: "ccccccccccc", URL: "https://youtu.be/ccccccccccc"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ex.Excluded(tt.record); got != tt.want {
				t.Errorf("Excluded() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLoadExclusionsMissingFileIsEmpty(t *testing.T) {
	ex, err := LoadExclusions(filepath.Join(t.TempDir(), "absent.txt"))
	if err != nil {
		t.Fatalf("LoadExclusions: %v", err)
	}
	if ex.Len() != 0 {
		t.Errorf("Len() = %d, want 0", ex.Len())
	}
}

func TestParseChannelOverrides(t *testing.T) {
	o, err := ParseChannelOverrides(`
# per-channel exemptions
UCaaa | allow_without_signature_keyword
UCaaa | some_future_flag
UCbbb|allow_without_signature_keyword
`)
	if err != nil {
		t.Fatalf("ParseChannelOverrides: %v", err)
	}
	if !o.HasFlag("UCaaa", FlagAllowWithoutSignatureKeyword) {
		t.Error("UCaaa missing accumulated flag")
	}
	if !o.HasFlag("UCaaa", "some_future_flag") {
		t.Error("UCaaa second flag not accumulated")
	}
	if !o.HasFlag("UCbbb", FlagAllowWithoutSignatureKeyword) {
		t.Error("UCbbb flag not parsed without spaces")
	}
	if o.HasFlag("UCccc", FlagAllowWithoutSignatureKeyword) {
		t.Error("unknown channel reported a flag")
	}
}

func TestParseChannelOverridesRejectsMalformedLine(t *testing.T) {
	if _, err := ParseChannelOverrides("UCaaa without separator"); err == nil {
		t.Error("ParseChannelOverrides accepted a line without |")
	}
}

func TestNilTablesAreInert(t *testing.T) {
	var ex *Exclusions
	var o *ChannelOverrides
	if ex.Excluded(video.Record{VideoID: "dQw4w9WgXcQ"}) {
		t.Error("nil exclusions excluded a record")
	}
	if o.HasFlag("UCaaa", FlagAllowWithoutSignatureKeyword) {
		t.Error("nil overrides reported a flag")
	}
}
