package video

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeTempCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "videos.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestReadCSVCanonicalHeaders(t *testing.T) {
	path := writeTempCSV(t, strings.Join([]string{
		"video_id,url,title,view_count,like_count,duration_sec,published_at,channel_id,channel_title",
		"dQw4w9WgXcQ,https://youtu.be/dQw4w9WgXcQ,Стендап концерт,1000,50,360,2023-05-01T10:00:00Z,UCabc,Комік",
	}, "\n"))

	result, err := ReadCSV(path)
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	if len(result.Records) != 1 {
		t.Fatalf("records = %d, want 1", len(result.Records))
	}
	r := result.Records[0]
	if r.VideoID != "dQw4w9WgXcQ" || r.ViewCount != 1000 || r.LikeCount != 50 || r.DurationSec != 360 {
		t.Errorf("unexpected record: %+v", r)
	}
	want := time.Date(2023, 5, 1, 10, 0, 0, 0, time.UTC)
	if !r.PublishedAt.Equal(want) {
		t.Errorf("PublishedAt = %v, want %v", r.PublishedAt, want)
	}
}

func TestReadCSVSynonymHeaders(t *testing.T) {
	path := writeTempCSV(t, strings.Join([]string{
		"id,title,views,likes,duration,publishedAt",
		"dQw4w9WgXcQ,Standup Special,2500,100,PT1H5M,2024-01-15T00:00:00Z",
	}, "\n"))

	result, err := ReadCSV(path)
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	r := result.Records[0]
	if r.DurationSec != 3900 {
		t.Errorf("DurationSec = %d, want 3900 (ISO duration)", r.DurationSec)
	}
	if r.ViewCount != 2500 || r.LikeCount != 100 {
		t.Errorf("counts = (%d, %d), want (2500, 100)", r.ViewCount, r.LikeCount)
	}
	if r.URL != WatchURL("dQw4w9WgXcQ") {
		t.Errorf("URL = %q, want derived watch url", r.URL)
	}
}

func TestReadCSVMissingRequiredColumn(t *testing.T) {
	path := writeTempCSV(t, strings.Join([]string{
		"video_id,title,like_count,duration_sec,published_at",
		"dQw4w9WgXcQ,No views column,5,60,2024-01-01T00:00:00Z",
	}, "\n"))

	_, err := ReadCSV(path)
	if err == nil || !strings.Contains(err.Error(), "view_count") {
		t.Errorf("ReadCSV() = %v, want missing view_count error", err)
	}
}

func TestReadCSVCoercesMalformedNumbers(t *testing.T) {
	path := writeTempCSV(t, strings.Join([]string{
		"video_id,title,view_count,like_count,duration_sec,published_at",
		"dQw4w9WgXcQ,Broken row,not-a-number,,bogus,not-a-date",
	}, "\n"))

	result, err := ReadCSV(path)
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	r := result.Records[0]
	if r.ViewCount != 0 || r.LikeCount != 0 || r.DurationSec != 0 {
		t.Errorf("malformed cells not coerced to zero: %+v", r)
	}
	if !r.PublishedAt.IsZero() {
		t.Errorf("malformed timestamp not coerced to zero time: %v", r.PublishedAt)
	}
}

func TestReadCSVDeduplicatesByID(t *testing.T) {
	path := writeTempCSV(t, strings.Join([]string{
		"video_id,title,view_count,duration_sec,published_at",
		"dQw4w9WgXcQ,First occurrence,100,60,2024-01-01T00:00:00Z",
		"dQw4w9WgXcQ,Second occurrence,999,60,2024-01-01T00:00:00Z",
		"aaaaaaaaaaa,Unique,10,60,2024-01-01T00:00:00Z",
	}, "\n"))

	result, err := ReadCSV(path)
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	if len(result.Records) != 2 || result.Duplicates != 1 {
		t.Fatalf("records = %d dupes = %d, want 2 and 1", len(result.Records), result.Duplicates)
	}
	if result.Records[0].Title != "First occurrence" {
		t.Errorf("dedup kept %q, want first occurrence", result.Records[0].Title)
	}
}

func TestReadCSVSkipsRowsWithoutID(t *testing.T) {
	path := writeTempCSV(t, strings.Join([]string{
		"video_id,url,title,view_count,duration_sec,published_at",
		",,No id at all,100,60,2024-01-01T00:00:00Z",
		"dQw4w9WgXcQ,,Has id,100,60,2024-01-01T00:00:00Z",
	}, "\n"))

	result, err := ReadCSV(path)
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	if len(result.Records) != 1 || result.Skipped != 1 {
		t.Errorf("records = %d skipped = %d, want 1 and 1", len(result.Records), result.Skipped)
	}
}

func TestWriteReadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	records := []Record{{
		VideoID:      "dQw4w9WgXcQ",
		URL:          WatchURL("dQw4w9WgXcQ"),
		ChannelID:    "UCabc",
		ChannelTitle: "Канал",
		Title:        "Стендап, який ти заслужив",
		PublishedAt:  time.Date(2023, 8, 10, 18, 30, 0, 0, time.UTC),
		DurationSec:  1800,
		ViewCount:    123456,
		LikeCount:    7890,
		CommentCount: 321,
	}}
	if err := WriteCSV(path, records); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	result, err := ReadCSV(path)
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	if len(result.Records) != 1 {
		t.Fatalf("records = %d, want 1", len(result.Records))
	}
	got := result.Records[0]
	if got != records[0] {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, records[0])
	}
}
