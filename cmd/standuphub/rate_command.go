package main

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"standuphub/internal/config"
	"standuphub/internal/fetch"
	"standuphub/internal/pipeline"
	"standuphub/internal/roster"
	"standuphub/internal/video"
)

func newRateCommand(ctx *commandContext) *cobra.Command {
	var inputPath string
	var jsonOutput bool
	var topN int

	cmd := &cobra.Command{
		Use:   "rate",
		Short: "Filter, attribute, and rank the fetched videos",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			return withRunLock(cfg, func() error {
				result, err := runRate(cfg, logger, inputPath)
				if err != nil {
					return err
				}
				if jsonOutput {
					return writeJSON(cmd, result.Summary)
				}
				printRateResult(cmd, result, topN)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&inputPath, "input", "i", "", "Raw metadata CSV (default <out_dir>/"+fetch.RawFile+")")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the run summary as JSON")
	cmd.Flags().IntVar(&topN, "top", 10, "Number of leaderboard rows to print")
	return cmd
}

func runRate(cfg *config.Config, logger *slog.Logger, inputPath string) (*pipeline.Result, error) {
	if inputPath == "" {
		inputPath = filepath.Join(cfg.Paths.OutDir, fetch.RawFile)
	}

	loaded, err := video.ReadCSV(inputPath)
	if err != nil {
		return nil, fmt.Errorf("load raw metadata: %w", err)
	}
	if loaded.Duplicates > 0 {
		logger.Warn("duplicate video ids in input; keeping first occurrences",
			slog.Int("duplicates", loaded.Duplicates))
	}

	dict, err := roster.LoadDictionary(cfg.PerformersPath())
	if err != nil {
		return nil, fmt.Errorf("load performers: %w", err)
	}
	exclusions, err := roster.LoadExclusions(cfg.ExceptionsPath())
	if err != nil {
		return nil, fmt.Errorf("load exceptions: %w", err)
	}
	overrides, err := roster.LoadChannelOverrides(cfg.ChannelOverridesPath())
	if err != nil {
		return nil, fmt.Errorf("load channel overrides: %w", err)
	}

	pipe, err := pipeline.New(cfg, dict, exclusions, overrides, logger)
	if err != nil {
		return nil, err
	}
	result := pipe.Run(loaded.Records)

	if err := pipeline.WriteOutputs(cfg.Paths.OutDir, result); err != nil {
		return nil, err
	}
	return &result, nil
}

func printRateResult(cmd *cobra.Command, result *pipeline.Result, topN int) {
	out := cmd.OutOrStdout()
	counts := result.Summary.Counts
	fmt.Fprintf(out, "Input %d, accepted %d, dropped %d, performers %d\n",
		counts.Input, counts.Accepted, counts.Dropped, result.Summary.Performers)

	if topN <= 0 || len(result.Rating) == 0 {
		return
	}
	if topN > len(result.Rating) {
		topN = len(result.Rating)
	}
	rows := make([][]string, 0, topN)
	for _, e := range result.Rating[:topN] {
		rows = append(rows, []string{
			strconv.Itoa(e.Rank),
			e.Performer,
			strconv.FormatFloat(e.Score, 'f', 4, 64),
			strconv.FormatInt(e.TotalViews, 10),
			strconv.Itoa(e.VideoCount),
			strconv.FormatFloat(e.LikeRate*100, 'f', 2, 64) + "%",
		})
	}
	fmt.Fprintln(out, renderTable(
		[]string{"Rank", "Performer", "Score", "Views", "Videos", "Like rate"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignRight, alignRight, alignRight, alignRight},
	))
}
