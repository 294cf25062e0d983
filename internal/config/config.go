package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	DataDir   string `toml:"data_dir"`
	OutDir    string `toml:"out_dir"`
	SiteDir   string `toml:"site_dir"`
	LogDir    string `toml:"log_dir"`
	CachePath string `toml:"cache_path"`
}

// YouTube contains configuration for the YouTube Data API.
type YouTube struct {
	APIKey         string `toml:"api_key"`
	BaseURL        string `toml:"base_url"`
	RequestTimeout int    `toml:"request_timeout"`
	PageSize       int    `toml:"page_size"`
}

// Filter configures the rule chain applied to fetched videos.
type Filter struct {
	// Cutoff is the earliest eligible publish instant, RFC 3339.
	Cutoff            string            `toml:"cutoff"`
	MinDurationSec    int               `toml:"min_duration_sec"`
	MaxDurationSec    int               `toml:"max_duration_sec"`
	SignatureKeywords []string          `toml:"signature_keywords"`
	TopicPatterns     map[string]string `toml:"topic_patterns"`
	BannedPhrases     []string          `toml:"banned_phrases"`
}

// Rating configures the composite reach index and engagement smoothing.
type Rating struct {
	WeightTotalViews   float64 `toml:"weight_total_views"`
	WeightPeakViews    float64 `toml:"weight_peak_views"`
	WeightVideoCount   float64 `toml:"weight_video_count"`
	WeightTotalMinutes float64 `toml:"weight_total_minutes"`
	// SmoothingViews is the pseudo-count M, expressed in views, that anchors
	// the Bayesian like-rate estimate to the dataset prior.
	SmoothingViews       int64   `toml:"smoothing_views"`
	EngagementMultiplier bool    `toml:"engagement_multiplier"`
	MultiplierFloor      float64 `toml:"multiplier_floor"`
	MultiplierCeiling    float64 `toml:"multiplier_ceiling"`
}

// Sitemap configures static-site sitemap generation.
type Sitemap struct {
	BaseURL string   `toml:"base_url"`
	Exclude []string `toml:"exclude"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for standuphub.
//
// Sections by subsystem:
//   - Paths: input/output/site/log directories and the metadata cache file
//   - YouTube: Data API key and request settings
//   - Filter: rule-chain cutoffs, keywords, and topic/phrase blocklists
//   - Rating: reach-index weights and engagement smoothing
//   - Sitemap: base URL for sitemap.xml generation
//   - Logging: log format and level
type Config struct {
	Paths   Paths   `toml:"paths"`
	YouTube YouTube `toml:"youtube"`
	Filter  Filter  `toml:"filter"`
	Rating  Rating  `toml:"rating"`
	Sitemap Sitemap `toml:"sitemap"`
	Logging Logging `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/standuphub/config.toml")
}

// SampleConfig returns the embedded annotated sample configuration.
func SampleConfig() string {
	return sampleConfig
}

// CreateSample writes the embedded sample configuration to path.
func CreateSample(path string) error {
	return os.WriteFile(path, []byte(sampleConfig), 0o644)
}

// ExpandPath resolves a leading ~ to the user's home directory.
func ExpandPath(path string) (string, error) {
	return expandPath(path)
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("standuphub.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the output, site, and log directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.OutDir, c.Paths.SiteDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	if c.Paths.CachePath != "" {
		if err := os.MkdirAll(filepath.Dir(c.Paths.CachePath), 0o755); err != nil {
			return fmt.Errorf("create cache directory: %w", err)
		}
	}
	return nil
}

// PerformersPath returns the performer dictionary file location.
func (c *Config) PerformersPath() string {
	return filepath.Join(c.Paths.DataDir, "performers.txt")
}

// ExceptionsPath returns the excluded video list location.
func (c *Config) ExceptionsPath() string {
	return filepath.Join(c.Paths.DataDir, "exceptions.txt")
}

// ChannelsPath returns the channel roster location.
func (c *Config) ChannelsPath() string {
	return filepath.Join(c.Paths.DataDir, "channels.txt")
}

// ChannelOverridesPath returns the per-channel rule override list location.
func (c *Config) ChannelOverridesPath() string {
	return filepath.Join(c.Paths.DataDir, "channel_overrides.txt")
}

func (c *Config) normalize() error {
	var err error
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if c.Paths.OutDir, err = expandPath(c.Paths.OutDir); err != nil {
		return fmt.Errorf("paths.out_dir: %w", err)
	}
	if c.Paths.SiteDir, err = expandPath(c.Paths.SiteDir); err != nil {
		return fmt.Errorf("paths.site_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if c.Paths.CachePath != "" {
		if c.Paths.CachePath, err = expandPath(c.Paths.CachePath); err != nil {
			return fmt.Errorf("paths.cache_path: %w", err)
		}
	}

	if c.YouTube.APIKey == "" {
		if value, ok := os.LookupEnv("YT_API_KEY"); ok {
			c.YouTube.APIKey = value
		}
	}
	c.YouTube.BaseURL = strings.TrimRight(strings.TrimSpace(c.YouTube.BaseURL), "/")
	if c.YouTube.BaseURL == "" {
		c.YouTube.BaseURL = defaultYouTubeBaseURL
	}
	if c.YouTube.RequestTimeout <= 0 {
		c.YouTube.RequestTimeout = defaultRequestTimeoutSec
	}
	if c.YouTube.PageSize <= 0 || c.YouTube.PageSize > 50 {
		c.YouTube.PageSize = defaultPageSize
	}

	c.Sitemap.BaseURL = strings.TrimRight(strings.TrimSpace(c.Sitemap.BaseURL), "/")

	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	return nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}
