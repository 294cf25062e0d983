// Package fetchcache persists raw video metadata between fetch runs so
// repeated runs spend API quota only on videos not yet seen. Only fetched
// facts are stored; scores and classifications are always recomputed.
package fetchcache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "embed"

	_ "modernc.org/sqlite"

	"standuphub/internal/video"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is the current schema version. Bump this when the schema
// changes; stale caches are cheap to rebuild from the API.
const schemaVersion = 1

// ErrSchemaMismatch indicates the cache was written by an incompatible version.
var ErrSchemaMismatch = errors.New("cache schema version mismatch")

// Store manages the raw metadata cache backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the cache database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure cache directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) initSchema(ctx context.Context) error {
	var tableExists int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	).Scan(&tableExists)
	if err != nil {
		return fmt.Errorf("check schema_version table: %w", err)
	}

	if tableExists == 0 {
		if _, err := s.db.ExecContext(ctx, schemaSQL); err != nil {
			return fmt.Errorf("create cache schema: %w", err)
		}
		if _, err := s.db.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
			return fmt.Errorf("record schema version: %w", err)
		}
		return nil
	}

	var version int
	if err := s.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version != schemaVersion {
		return fmt.Errorf("%w: cache has version %d, expected %d (delete %s to rebuild)",
			ErrSchemaMismatch, version, schemaVersion, s.path)
	}
	return nil
}

// Put upserts one record with the current fetch timestamp.
func (s *Store) Put(ctx context.Context, rec video.Record) error {
	return s.PutAll(ctx, []video.Record{rec})
}

// PutAll upserts records in one transaction.
func (s *Store) PutAll(ctx context.Context, records []video.Record) error {
	if len(records) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin cache tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO videos (
            video_id, url, channel_id, channel_title, title, published_at,
            duration_sec, view_count, like_count, comment_count, fetched_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT(video_id) DO UPDATE SET
            url = excluded.url,
            channel_id = excluded.channel_id,
            channel_title = excluded.channel_title,
            title = excluded.title,
            published_at = excluded.published_at,
            duration_sec = excluded.duration_sec,
            view_count = excluded.view_count,
            like_count = excluded.like_count,
            comment_count = excluded.comment_count,
            fetched_at = excluded.fetched_at`)
	if err != nil {
		return fmt.Errorf("prepare upsert: %w", err)
	}
	defer stmt.Close()

	fetchedAt := time.Now().UTC().Format(time.RFC3339Nano)
	for _, rec := range records {
		if rec.VideoID == "" {
			continue
		}
		published := ""
		if !rec.PublishedAt.IsZero() {
			published = rec.PublishedAt.UTC().Format(time.RFC3339)
		}
		if _, err := stmt.ExecContext(ctx,
			rec.VideoID, rec.URL, rec.ChannelID, rec.ChannelTitle, rec.Title,
			published, rec.DurationSec, rec.ViewCount, rec.LikeCount,
			rec.CommentCount, fetchedAt,
		); err != nil {
			return fmt.Errorf("upsert video %s: %w", rec.VideoID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit cache tx: %w", err)
	}
	return nil
}

// Get returns one cached record, or false when the id is unknown.
func (s *Store) Get(ctx context.Context, videoID string) (video.Record, bool, error) {
	row := s.db.QueryRowContext(ctx, selectColumns+" WHERE video_id = ?", videoID)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return video.Record{}, false, nil
	}
	if err != nil {
		return video.Record{}, false, err
	}
	return rec, true, nil
}

// Known partitions ids into cached and missing, preserving input order.
func (s *Store) Known(ctx context.Context, videoIDs []string) (cached, missing []string, err error) {
	for _, id := range videoIDs {
		var one int
		err := s.db.QueryRowContext(ctx, "SELECT 1 FROM videos WHERE video_id = ?", id).Scan(&one)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			missing = append(missing, id)
		case err != nil:
			return nil, nil, fmt.Errorf("probe video %s: %w", id, err)
		default:
			cached = append(cached, id)
		}
	}
	return cached, missing, nil
}

// All returns every cached record ordered by video id.
func (s *Store) All(ctx context.Context) ([]video.Record, error) {
	rows, err := s.db.QueryContext(ctx, selectColumns+" ORDER BY video_id")
	if err != nil {
		return nil, fmt.Errorf("query cache: %w", err)
	}
	defer rows.Close()

	var records []video.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Count returns the number of cached records.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(1) FROM videos").Scan(&n); err != nil {
		return 0, fmt.Errorf("count cache: %w", err)
	}
	return n, nil
}

const selectColumns = `SELECT video_id, url, channel_id, channel_title, title,
    published_at, duration_sec, view_count, like_count, comment_count FROM videos`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (video.Record, error) {
	var rec video.Record
	var published string
	if err := row.Scan(
		&rec.VideoID, &rec.URL, &rec.ChannelID, &rec.ChannelTitle, &rec.Title,
		&published, &rec.DurationSec, &rec.ViewCount, &rec.LikeCount, &rec.CommentCount,
	); err != nil {
		return video.Record{}, err
	}
	if published != "" {
		parsed, err := time.Parse(time.RFC3339, published)
		if err == nil {
			rec.PublishedAt = parsed
		}
	}
	return rec, nil
}
