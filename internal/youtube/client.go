// Package youtube wraps the YouTube Data API v3 endpoints the fetch stage
// needs: channel resolution, uploads playlist listing, and video metadata.
package youtube

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/tidwall/gjson"

	"standuphub/internal/video"
)

// maxVideosPerCall is the hard API limit on ids per videos.list request.
const maxVideosPerCall = 50

// Channel is a resolved channel with its uploads playlist.
type Channel struct {
	ID              string
	Title           string
	UploadsPlaylist string
}

// Lister defines the API operations the fetch stage depends on.
type Lister interface {
	ResolveChannel(ctx context.Context, identifier string) (*Channel, error)
	ListUploads(ctx context.Context, playlistID string) ([]string, error)
	ListVideos(ctx context.Context, videoIDs []string) ([]video.Record, error)
}

// Client provides access to the YouTube Data API v3.
type Client struct {
	apiKey     string
	baseURL    string
	pageSize   int
	httpClient *http.Client
}

var _ Lister = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default retrying HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// New creates a YouTube API client. The default transport retries
// transient failures with backoff.
func New(apiKey, baseURL string, timeoutSec, pageSize int, opts ...Option) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("youtube api key required")
	}
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("youtube base url required")
	}
	if pageSize <= 0 || pageSize > 50 {
		pageSize = 50
	}

	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = 3
	retryClient.RetryWaitMin = 500 * time.Millisecond
	retryClient.RetryWaitMax = 8 * time.Second
	retryClient.Logger = nil
	httpClient := retryClient.StandardClient()
	if timeoutSec > 0 {
		httpClient.Timeout = time.Duration(timeoutSec) * time.Second
	}

	client := &Client{
		apiKey:     apiKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		pageSize:   pageSize,
		httpClient: httpClient,
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// ResolveChannel looks up a channel by UC id or @handle and returns its
// uploads playlist. An identifier the API does not know is an error; a
// silent skip would quietly shrink the corpus.
func (c *Client) ResolveChannel(ctx context.Context, identifier string) (*Channel, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return nil, errors.New("channel identifier must not be empty")
	}

	params := url.Values{}
	params.Set("part", "snippet,contentDetails")
	switch {
	case strings.HasPrefix(identifier, "UC"):
		params.Set("id", identifier)
	case strings.HasPrefix(identifier, "@"):
		params.Set("forHandle", identifier)
	default:
		params.Set("forHandle", "@"+identifier)
	}

	body, err := c.get(ctx, "/channels", params)
	if err != nil {
		return nil, err
	}

	items := gjson.GetBytes(body, "items")
	if !items.Exists() || len(items.Array()) == 0 {
		return nil, fmt.Errorf("channel %q not found", identifier)
	}
	item := items.Array()[0]

	channel := &Channel{
		ID:              item.Get("id").String(),
		Title:           item.Get("snippet.title").String(),
		UploadsPlaylist: item.Get("contentDetails.relatedPlaylists.uploads").String(),
	}
	if channel.UploadsPlaylist == "" {
		return nil, fmt.Errorf("channel %q has no uploads playlist", identifier)
	}
	return channel, nil
}

// ListUploads walks the uploads playlist page by page and returns every
// video id in playlist order.
func (c *Client) ListUploads(ctx context.Context, playlistID string) ([]string, error) {
	playlistID = strings.TrimSpace(playlistID)
	if playlistID == "" {
		return nil, errors.New("playlist id must not be empty")
	}

	var ids []string
	pageToken := ""
	for {
		params := url.Values{}
		params.Set("part", "contentDetails")
		params.Set("playlistId", playlistID)
		params.Set("maxResults", strconv.Itoa(c.pageSize))
		if pageToken != "" {
			params.Set("pageToken", pageToken)
		}

		body, err := c.get(ctx, "/playlistItems", params)
		if err != nil {
			return nil, err
		}

		for _, item := range gjson.GetBytes(body, "items.#.contentDetails.videoId").Array() {
			if id := item.String(); id != "" {
				ids = append(ids, id)
			}
		}

		pageToken = gjson.GetBytes(body, "nextPageToken").String()
		if pageToken == "" {
			return ids, nil
		}
	}
}

// ListVideos fetches snippet, duration, and statistics for the given ids,
// batching at the API limit. Ids the API no longer knows (deleted or
// private videos) are omitted from the result.
func (c *Client) ListVideos(ctx context.Context, videoIDs []string) ([]video.Record, error) {
	records := make([]video.Record, 0, len(videoIDs))
	for start := 0; start < len(videoIDs); start += maxVideosPerCall {
		end := start + maxVideosPerCall
		if end > len(videoIDs) {
			end = len(videoIDs)
		}

		params := url.Values{}
		params.Set("part", "snippet,contentDetails,statistics")
		params.Set("id", strings.Join(videoIDs[start:end], ","))
		params.Set("maxResults", strconv.Itoa(maxVideosPerCall))

		body, err := c.get(ctx, "/videos", params)
		if err != nil {
			return nil, err
		}

		for _, item := range gjson.GetBytes(body, "items").Array() {
			records = append(records, recordFromItem(item))
		}
	}
	return records, nil
}

func recordFromItem(item gjson.Result) video.Record {
	id := item.Get("id").String()
	publishedAt, _ := time.Parse(time.RFC3339, item.Get("snippet.publishedAt").String())
	return video.Record{
		VideoID:      id,
		URL:          video.WatchURL(id),
		ChannelID:    item.Get("snippet.channelId").String(),
		ChannelTitle: item.Get("snippet.channelTitle").String(),
		Title:        video.NormalizeSpaces(item.Get("snippet.title").String()),
		PublishedAt:  publishedAt,
		DurationSec:  video.ParseISODuration(item.Get("contentDetails.duration").String()),
		ViewCount:    item.Get("statistics.viewCount").Int(),
		LikeCount:    item.Get("statistics.likeCount").Int(),
		CommentCount: item.Get("statistics.commentCount").Int(),
	}
}

func (c *Client) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	endpoint, err := url.Parse(c.baseURL + path)
	if err != nil {
		return nil, fmt.Errorf("parse youtube url: %w", err)
	}
	params.Set("key", c.apiKey)
	endpoint.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		return nil, fmt.Errorf("execute request (latency=%v): %w", latency, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		if message := gjson.GetBytes(body, "error.message").String(); message != "" {
			return nil, fmt.Errorf("youtube api returned %d: %s", resp.StatusCode, message)
		}
		return nil, fmt.Errorf("youtube api returned %d (latency=%v)", resp.StatusCode, latency)
	}
	return body, nil
}
