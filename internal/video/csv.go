package video

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
)

// column describes one canonical field and the source header spellings that
// feed it, in preference order.
type column struct {
	canonical string
	headers   []string
	required  bool
}

// schema is the tolerant header-resolution table for raw video CSVs. Several
// upstream exports disagree on header casing and naming; every synonym maps
// to one canonical field, resolved once at load.
var schema = []column{
	{canonical: "video_id", headers: []string{"video_id", "id"}},
	{canonical: "url", headers: []string{"url", "video_url"}},
	{canonical: "title", headers: []string{"title"}, required: true},
	{canonical: "view_count", headers: []string{"view_count", "views", "viewCount", "viewcount"}, required: true},
	{canonical: "like_count", headers: []string{"like_count", "likes", "likeCount", "likecount"}},
	{canonical: "comment_count", headers: []string{"comment_count", "comments", "commentCount"}},
	{canonical: "duration", headers: []string{"duration_sec", "duration_seconds", "length_seconds", "lengthSeconds", "duration"}, required: true},
	{canonical: "published_at", headers: []string{"published_at", "published", "publishedAt"}, required: true},
	{canonical: "channel_id", headers: []string{"channel_id", "channelId"}},
	{canonical: "channel_title", headers: []string{"channel_title", "channelTitle"}},
}

// LoadResult carries the loaded records plus load-time bookkeeping.
type LoadResult struct {
	Records []Record
	// Duplicates counts records dropped because their video ID already
	// appeared earlier in the file; the first occurrence wins.
	Duplicates int
	// Skipped counts rows without a resolvable video ID.
	Skipped int
}

// ReadCSV loads a raw video table. Header names are resolved through the
// schema table; a missing required column is a fatal load error, while
// unparseable numeric cells coerce to zero by policy.
func ReadCSV(path string) (LoadResult, error) {
	file, err := os.Open(path)
	if err != nil {
		return LoadResult{}, fmt.Errorf("open videos csv: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return LoadResult{}, fmt.Errorf("read csv header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\uFEFF")
	}

	index, err := resolveHeader(header)
	if err != nil {
		return LoadResult{}, err
	}

	var result LoadResult
	seen := make(map[string]struct{})
	for {
		row, err := reader.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return LoadResult{}, fmt.Errorf("read csv row: %w", err)
		}

		cell := func(canonical string) string {
			i, ok := index[canonical]
			if !ok || i >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[i])
		}

		url := cell("url")
		id := cell("video_id")
		if id == "" {
			id = ExtractVideoID(url)
		}
		if id == "" {
			result.Skipped++
			continue
		}
		if _, dup := seen[id]; dup {
			result.Duplicates++
			continue
		}
		seen[id] = struct{}{}
		if url == "" {
			url = WatchURL(id)
		}

		result.Records = append(result.Records, Record{
			VideoID:      id,
			URL:          url,
			ChannelID:    cell("channel_id"),
			ChannelTitle: cell("channel_title"),
			Title:        cell("title"),
			PublishedAt:  parseTimestamp(cell("published_at")),
			DurationSec:  parseDurationCell(cell("duration")),
			ViewCount:    ParseCount(cell("view_count")),
			LikeCount:    ParseCount(cell("like_count")),
			CommentCount: ParseCount(cell("comment_count")),
		})
	}
	return result, nil
}

func resolveHeader(header []string) (map[string]int, error) {
	position := make(map[string]int, len(header))
	for i, name := range header {
		position[strings.TrimSpace(name)] = i
	}

	index := make(map[string]int, len(schema))
	for _, col := range schema {
		found := false
		for _, name := range col.headers {
			if i, ok := position[name]; ok {
				index[col.canonical] = i
				found = true
				break
			}
		}
		if !found && col.required {
			return nil, fmt.Errorf("videos csv: required column %q not found (accepted: %s)",
				col.canonical, strings.Join(col.headers, ", "))
		}
	}

	if _, hasID := index["video_id"]; !hasID {
		if _, hasURL := index["url"]; !hasURL {
			return nil, fmt.Errorf("videos csv: neither a video_id nor a url column found")
		}
	}
	return index, nil
}

// parseDurationCell accepts either plain seconds or an ISO-8601 duration.
func parseDurationCell(value string) int {
	if value == "" {
		return 0
	}
	if strings.HasPrefix(value, "PT") {
		return ParseISODuration(value)
	}
	if n, err := strconv.Atoi(value); err == nil && n >= 0 {
		return n
	}
	if f, err := strconv.ParseFloat(value, 64); err == nil && f >= 0 {
		return int(f)
	}
	return 0
}

func parseTimestamp(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts
		}
	}
	return time.Time{}
}

// rawHeader is the column order for raw video CSVs written by the fetch
// stage, mirrored by the rating stage's record tables.
var rawHeader = []string{
	"published_at", "channel_title", "channel_id", "title",
	"duration_sec", "duration_min", "view_count", "like_count",
	"comment_count", "url", "video_id",
}

// WriteCSV writes records as a raw video table.
func WriteCSV(path string, records []Record) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create videos csv: %w", err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.Write(rawHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, r := range records {
		row := []string{
			formatTimestamp(r.PublishedAt),
			r.ChannelTitle,
			r.ChannelID,
			r.Title,
			strconv.Itoa(r.DurationSec),
			strconv.FormatFloat(r.DurationMin(), 'f', 2, 64),
			strconv.FormatInt(r.ViewCount, 10),
			strconv.FormatInt(r.LikeCount, 10),
			strconv.FormatInt(r.CommentCount, 10),
			r.URL,
			r.VideoID,
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

func formatTimestamp(ts time.Time) string {
	if ts.IsZero() {
		return ""
	}
	return ts.UTC().Format(time.RFC3339)
}
