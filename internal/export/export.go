// Package export converts the pipeline's CSV outputs into the compact JSON
// arrays the static front end loads.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"standuphub/internal/logging"
)

// Output file names under <site_dir>/data.
const (
	VideosJSON = "videos.json"
	RatingJSON = "rating.json"
)

// VideoEntry is one clean video row as the front end consumes it.
type VideoEntry struct {
	Performer    string  `json:"performer"`
	VideoID      string  `json:"video_id"`
	URL          string  `json:"url"`
	Title        string  `json:"title"`
	ViewCount    int64   `json:"view_count"`
	LikeCount    int64   `json:"like_count"`
	DurationSec  int     `json:"duration_sec"`
	DurationMin  float64 `json:"duration_min"`
	PublishedAt  string  `json:"published_at"`
	ChannelID    string  `json:"channel_id"`
	ChannelTitle string  `json:"channel_title"`
}

// RatingEntry is one ranking row as the front end consumes it.
type RatingEntry struct {
	Rank                 int     `json:"rank"`
	Performer            string  `json:"performer"`
	Score                float64 `json:"score"`
	ScoreWithEngagement  float64 `json:"score_with_engagement"`
	EngagementMultiplier float64 `json:"eng_mult"`
	TotalViews           int64   `json:"total_views"`
	PeakViews            int64   `json:"peak_views"`
	VideoCount           int     `json:"video_count"`
	TotalMinutes         float64 `json:"total_minutes"`
	TotalLikes           int64   `json:"total_likes"`
	LikeRatePct          float64 `json:"like_rate_pct"`
	LikeRateSmoothPct    float64 `json:"like_rate_smooth_pct"`
}

// Run reads rating and clean-video CSVs from outDir and writes the JSON
// files under <siteDir>/data.
func Run(outDir, siteDir string, logger *slog.Logger) error {
	if logger == nil {
		logger = logging.NewNop()
	}
	logger = logging.NewComponentLogger(logger, "export")

	videos, err := readVideos(filepath.Join(outDir, "videos_clean.csv"))
	if err != nil {
		return err
	}
	rating, err := readRating(filepath.Join(outDir, "rating.csv"))
	if err != nil {
		return err
	}

	dataDir := filepath.Join(siteDir, "data")
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return fmt.Errorf("ensure site data directory: %w", err)
	}
	if err := writeJSON(filepath.Join(dataDir, VideosJSON), videos); err != nil {
		return err
	}
	if err := writeJSON(filepath.Join(dataDir, RatingJSON), rating); err != nil {
		return err
	}

	logger.Info("export complete",
		logging.Int("videos", len(videos)),
		logging.Int("rating_entries", len(rating)),
		logging.String("output", dataDir))
	return nil
}

func readVideos(path string) ([]VideoEntry, error) {
	rows, err := readCSVMaps(path)
	if err != nil {
		return nil, err
	}
	entries := make([]VideoEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, VideoEntry{
			Performer:    strings.TrimSpace(row["performer"]),
			VideoID:      strings.TrimSpace(row["video_id"]),
			URL:          strings.TrimSpace(row["url"]),
			Title:        row["title"],
			ViewCount:    toInt(row["view_count"]),
			LikeCount:    toInt(row["like_count"]),
			DurationSec:  int(toInt(row["duration_sec"])),
			DurationMin:  toFloat(row["duration_min"]),
			PublishedAt:  strings.TrimSpace(row["published_at"]),
			ChannelID:    strings.TrimSpace(row["channel_id"]),
			ChannelTitle: row["channel_title"],
		})
	}
	return entries, nil
}

func readRating(path string) ([]RatingEntry, error) {
	rows, err := readCSVMaps(path)
	if err != nil {
		return nil, err
	}
	entries := make([]RatingEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, RatingEntry{
			Rank:                 int(toInt(row["rank"])),
			Performer:            strings.TrimSpace(row["performer"]),
			Score:                toFloat(row["score"]),
			ScoreWithEngagement:  toFloat(row["score_with_engagement"]),
			EngagementMultiplier: toFloat(row["eng_mult"]),
			TotalViews:           toInt(row["total_views"]),
			PeakViews:            toInt(row["peak_views"]),
			VideoCount:           int(toInt(row["video_count"])),
			TotalMinutes:         toFloat(row["total_minutes"]),
			TotalLikes:           toInt(row["total_likes"]),
			LikeRatePct:          toFloat(row["like_rate_pct"]),
			LikeRateSmoothPct:    toFloat(row["like_rate_smooth_pct"]),
		})
	}
	return entries, nil
}

// readCSVMaps reads a headered CSV into one map per row.
func readCSVMaps(path string) ([]map[string]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	all, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(all) == 0 {
		return nil, fmt.Errorf("%s: empty csv", path)
	}

	header := all[0]
	rows := make([]map[string]string, 0, len(all)-1)
	for _, record := range all[1:] {
		row := make(map[string]string, len(header))
		for i, name := range header {
			if i < len(record) {
				row[name] = record[i]
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func writeJSON(path string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// toInt parses a numeric cell, tolerating spaces and float notation.
func toInt(s string) int64 {
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

func toFloat(s string) float64 {
	s = strings.ReplaceAll(strings.TrimSpace(s), " ", "")
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}
