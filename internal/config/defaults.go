package config

const (
	defaultDataDir           = "~/.local/share/standuphub/data"
	defaultOutDir            = "~/.local/share/standuphub/out"
	defaultSiteDir           = "~/.local/share/standuphub/site"
	defaultLogDir            = "~/.local/share/standuphub/logs"
	defaultCachePath         = "~/.cache/standuphub/videos.db"
	defaultYouTubeBaseURL    = "https://www.googleapis.com/youtube/v3"
	defaultRequestTimeoutSec = 30
	defaultPageSize          = 50
	defaultCutoff            = "2022-02-24T00:00:00Z"
	defaultMinDurationSec    = 240
	defaultMaxDurationSec    = 7200
	defaultSmoothingViews    = 50_000
	defaultMultiplierFloor   = 0.85
	defaultMultiplierCeiling = 1.15
	defaultLogFormat         = "console"
	defaultLogLevel          = "info"
)

// Default returns a Config populated with repository defaults. The filter and
// rating defaults reproduce the published index: Ukrainian-scene signature
// keywords, topic blocklists, and the 0.45/0.25/0.20/0.10 weight split.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir:   defaultDataDir,
			OutDir:    defaultOutDir,
			SiteDir:   defaultSiteDir,
			LogDir:    defaultLogDir,
			CachePath: defaultCachePath,
		},
		YouTube: YouTube{
			BaseURL:        defaultYouTubeBaseURL,
			RequestTimeout: defaultRequestTimeoutSec,
			PageSize:       defaultPageSize,
		},
		Filter: Filter{
			Cutoff:            defaultCutoff,
			MinDurationSec:    defaultMinDurationSec,
			MaxDurationSec:    defaultMaxDurationSec,
			SignatureKeywords: []string{"стендап", "stand up", "standup"},
			TopicPatterns: map[string]string{
				"podcast": `(?i)(подкаст|підкаст|podcast)`,
				"improv":  `(?i)(імпровізаці\pL*|improv\w*)`,
				"rozgony": `(?i)(розгони\pL*|загони\pL*)`,
				"hvylyna": `(?i)(хвилина\pL*|уваги\pL*)`,
			},
			BannedPhrases: []string{
				"я знаю де ти живеш",
				"медичні історії",
				"крауд-ворк",
				"влог",
			},
		},
		Rating: Rating{
			WeightTotalViews:   0.45,
			WeightPeakViews:    0.25,
			WeightVideoCount:   0.20,
			WeightTotalMinutes: 0.10,
			SmoothingViews:     defaultSmoothingViews,
			MultiplierFloor:    defaultMultiplierFloor,
			MultiplierCeiling:  defaultMultiplierCeiling,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
