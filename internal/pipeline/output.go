package pipeline

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Output file names under the configured out directory.
const (
	RatingFile  = "rating.csv"
	CleanFile   = "videos_clean.csv"
	DroppedFile = "videos_dropped.csv"
	SummaryFile = "run_summary.json"
)

// WriteOutputs persists the full result set: the ranked index, the clean and
// dropped record tables, and the JSON run summary.
func WriteOutputs(outDir string, result Result) error {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("create out directory: %w", err)
	}
	if err := writeRatingCSV(filepath.Join(outDir, RatingFile), result); err != nil {
		return err
	}
	if err := writeCleanCSV(filepath.Join(outDir, CleanFile), result.Clean); err != nil {
		return err
	}
	if err := writeDroppedCSV(filepath.Join(outDir, DroppedFile), result.Dropped); err != nil {
		return err
	}
	return writeSummaryJSON(filepath.Join(outDir, SummaryFile), result.Summary)
}

func writeRatingCSV(path string, result Result) error {
	header := []string{
		"rank", "performer", "score", "score_with_engagement", "eng_mult",
		"total_views", "peak_views", "video_count", "total_minutes",
		"total_likes", "like_rate_pct", "like_rate_smooth_pct",
	}
	rows := make([][]string, 0, len(result.Rating))
	for _, e := range result.Rating {
		rows = append(rows, []string{
			strconv.Itoa(e.Rank),
			e.Performer,
			strconv.FormatFloat(e.Score, 'f', 8, 64),
			strconv.FormatFloat(e.ScoreWithEngagement, 'f', 8, 64),
			strconv.FormatFloat(e.EngagementMultiplier, 'f', 6, 64),
			strconv.FormatInt(e.TotalViews, 10),
			strconv.FormatInt(e.PeakViews, 10),
			strconv.Itoa(e.VideoCount),
			strconv.FormatFloat(e.TotalMinutes, 'f', 3, 64),
			strconv.FormatInt(e.TotalLikes, 10),
			strconv.FormatFloat(e.LikeRate*100, 'f', 4, 64),
			strconv.FormatFloat(e.LikeRateSmooth*100, 'f', 4, 64),
		})
	}
	return writeCSVFile(path, header, rows)
}

func writeCleanCSV(path string, clean []CleanRecord) error {
	header := []string{
		"performer", "video_id", "url", "title", "view_count", "like_count",
		"duration_sec", "duration_min", "published_at", "channel_id", "channel_title",
	}
	rows := make([][]string, 0, len(clean))
	for _, r := range clean {
		rows = append(rows, []string{
			r.Performer,
			r.VideoID,
			r.URL,
			r.Title,
			strconv.FormatInt(r.ViewCount, 10),
			strconv.FormatInt(r.LikeCount, 10),
			strconv.Itoa(r.DurationSec),
			strconv.FormatFloat(r.DurationMin(), 'f', 3, 64),
			formatTime(r.PublishedAt),
			r.ChannelID,
			r.ChannelTitle,
		})
	}
	return writeCSVFile(path, header, rows)
}

func writeDroppedCSV(path string, dropped []DroppedRecord) error {
	header := []string{
		"video_id", "url", "title", "view_count", "like_count",
		"duration_sec", "published_at", "channel_id", "channel_title",
		"drop_reason", "matched_performers",
	}
	rows := make([][]string, 0, len(dropped))
	for _, r := range dropped {
		rows = append(rows, []string{
			r.VideoID,
			r.URL,
			r.Title,
			strconv.FormatInt(r.ViewCount, 10),
			strconv.FormatInt(r.LikeCount, 10),
			strconv.Itoa(r.DurationSec),
			formatTime(r.PublishedAt),
			r.ChannelID,
			r.ChannelTitle,
			r.Reason,
			strings.Join(r.MatchedPerformers, "; "),
		})
	}
	return writeCSVFile(path, header, rows)
}

func writeSummaryJSON(path string, summary Summary) error {
	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return fmt.Errorf("encode run summary: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write run summary: %w", err)
	}
	return nil
}

func writeCSVFile(path string, header []string, rows [][]string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", filepath.Base(path), err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush %s: %w", filepath.Base(path), err)
	}
	return nil
}

func formatTime(ts time.Time) string {
	if ts.IsZero() {
		return ""
	}
	return ts.UTC().Format(time.RFC3339)
}
