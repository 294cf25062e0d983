// Package fetch orchestrates metadata retrieval: configured channels are
// resolved, their uploads listed, and per-video metadata collected through
// the cache before landing in the raw CSV.
package fetch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"standuphub/internal/config"
	"standuphub/internal/fetchcache"
	"standuphub/internal/logging"
	"standuphub/internal/video"
	"standuphub/internal/youtube"
)

// RawFile is the fetch output consumed by the rate stage.
const RawFile = "videos_raw.csv"

// Options tune a single fetch run.
type Options struct {
	// Refresh bypasses the cache and refetches every video.
	Refresh bool
}

// Result reports what one fetch run did.
type Result struct {
	Channels   int
	Videos     int
	FromCache  int
	FromAPI    int
	RawCSVPath string
}

// Fetcher drives one retrieval run.
type Fetcher struct {
	cfg    *config.Config
	client youtube.Lister
	cache  *fetchcache.Store
	logger *slog.Logger
}

// New assembles a fetcher from its collaborators. The cache may be nil, in
// which case every video is fetched from the API.
func New(cfg *config.Config, client youtube.Lister, cache *fetchcache.Store, logger *slog.Logger) *Fetcher {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Fetcher{
		cfg:    cfg,
		client: client,
		cache:  cache,
		logger: logging.NewComponentLogger(logger, "fetch"),
	}
}

// Run resolves every configured channel, gathers video metadata, and writes
// the raw CSV. Any unresolvable channel identifier aborts the run.
func (f *Fetcher) Run(ctx context.Context, opts Options) (*Result, error) {
	identifiers, err := ReadChannelsFile(f.cfg.ChannelsPath())
	if err != nil {
		return nil, err
	}
	if len(identifiers) == 0 {
		return nil, fmt.Errorf("no channels configured in %s", f.cfg.ChannelsPath())
	}

	var videoIDs []string
	seen := make(map[string]struct{})
	for _, identifier := range identifiers {
		channel, err := f.client.ResolveChannel(ctx, identifier)
		if err != nil {
			return nil, fmt.Errorf("resolve channel %q: %w", identifier, err)
		}
		uploads, err := f.client.ListUploads(ctx, channel.UploadsPlaylist)
		if err != nil {
			return nil, fmt.Errorf("list uploads for %q: %w", identifier, err)
		}
		f.logger.Info("channel resolved",
			logging.String("identifier", identifier),
			logging.String("channel_id", channel.ID),
			logging.String("title", channel.Title),
			logging.Int("uploads", len(uploads)))
		for _, id := range uploads {
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			videoIDs = append(videoIDs, id)
		}
	}

	records, fromCache, fromAPI, err := f.collect(ctx, videoIDs, opts.Refresh)
	if err != nil {
		return nil, err
	}

	outPath := filepath.Join(f.cfg.Paths.OutDir, RawFile)
	if err := os.MkdirAll(f.cfg.Paths.OutDir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure out directory: %w", err)
	}
	if err := video.WriteCSV(outPath, records); err != nil {
		return nil, fmt.Errorf("write raw csv: %w", err)
	}

	f.logger.Info("fetch complete",
		logging.Int("channels", len(identifiers)),
		logging.Int("videos", len(records)),
		logging.Int("from_cache", fromCache),
		logging.Int("from_api", fromAPI),
		logging.String("output", outPath))

	return &Result{
		Channels:   len(identifiers),
		Videos:     len(records),
		FromCache:  fromCache,
		FromAPI:    fromAPI,
		RawCSVPath: outPath,
	}, nil
}

// collect returns the metadata for videoIDs, serving from the cache where
// possible and persisting fresh rows back into it.
func (f *Fetcher) collect(ctx context.Context, videoIDs []string, refresh bool) (records []video.Record, fromCache, fromAPI int, err error) {
	toFetch := videoIDs
	if f.cache != nil && !refresh {
		cached, missing, err := f.cache.Known(ctx, videoIDs)
		if err != nil {
			return nil, 0, 0, err
		}
		for _, id := range cached {
			rec, ok, err := f.cache.Get(ctx, id)
			if err != nil {
				return nil, 0, 0, err
			}
			if ok {
				records = append(records, rec)
			}
		}
		fromCache = len(records)
		toFetch = missing
	}

	if len(toFetch) > 0 {
		fresh, err := f.client.ListVideos(ctx, toFetch)
		if err != nil {
			return nil, 0, 0, fmt.Errorf("fetch video metadata: %w", err)
		}
		fromAPI = len(fresh)
		if f.cache != nil {
			if err := f.cache.PutAll(ctx, fresh); err != nil {
				return nil, 0, 0, fmt.Errorf("cache fetched metadata: %w", err)
			}
		}
		records = append(records, fresh...)
	}
	return records, fromCache, fromAPI, nil
}

// ReadChannelsFile loads channel identifiers, one per line. Blank lines and
// # comments are skipped.
func ReadChannelsFile(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read channels file: %w", err)
	}
	var identifiers []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		identifiers = append(identifiers, line)
	}
	return identifiers, nil
}
