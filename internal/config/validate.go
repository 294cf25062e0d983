package config

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"time"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateFilter(); err != nil {
		return err
	}
	if err := c.validateRating(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if c.Paths.DataDir == "" {
		return errors.New("paths.data_dir must be set")
	}
	if c.Paths.OutDir == "" {
		return errors.New("paths.out_dir must be set")
	}
	return nil
}

func (c *Config) validateFilter() error {
	if _, err := time.Parse(time.RFC3339, c.Filter.Cutoff); err != nil {
		return fmt.Errorf("filter.cutoff must be RFC 3339: %w", err)
	}
	if c.Filter.MinDurationSec < 0 {
		return errors.New("filter.min_duration_sec must not be negative")
	}
	if c.Filter.MaxDurationSec <= c.Filter.MinDurationSec {
		return errors.New("filter.max_duration_sec must exceed filter.min_duration_sec")
	}
	if len(c.Filter.SignatureKeywords) == 0 {
		return errors.New("filter.signature_keywords must list at least one keyword")
	}
	for name, pattern := range c.Filter.TopicPatterns {
		if _, err := regexp.Compile(pattern); err != nil {
			return fmt.Errorf("filter.topic_patterns[%s]: %w", name, err)
		}
	}
	return nil
}

func (c *Config) validateRating() error {
	weights := []float64{
		c.Rating.WeightTotalViews,
		c.Rating.WeightPeakViews,
		c.Rating.WeightVideoCount,
		c.Rating.WeightTotalMinutes,
	}
	sum := 0.0
	for _, w := range weights {
		if w < 0 {
			return errors.New("rating weights must not be negative")
		}
		sum += w
	}
	if math.Abs(sum-1.0) > 1e-9 {
		return fmt.Errorf("rating weights must sum to 1.0, got %g", sum)
	}
	if c.Rating.SmoothingViews < 0 {
		return errors.New("rating.smoothing_views must not be negative")
	}
	if c.Rating.MultiplierFloor <= 0 || c.Rating.MultiplierCeiling < c.Rating.MultiplierFloor {
		return errors.New("rating multiplier clamp must satisfy 0 < floor <= ceiling")
	}
	return nil
}
