package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"standuphub/internal/config"
	"standuphub/internal/fetch"
	"standuphub/internal/fetchcache"
	"standuphub/internal/youtube"
)

func newFetchCommand(ctx *commandContext) *cobra.Command {
	var refresh bool

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Fetch video metadata for the configured channels",
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
				result, err := runFetch(cmd.Context(), cfg, logger, refresh)
				if err != nil {
					return err
				}
				printFetchResult(cmd, result)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&refresh, "refresh", false, "Bypass the metadata cache and refetch every video")
	return cmd
}

func runFetch(ctx context.Context, cfg *config.Config, logger *slog.Logger, refresh bool) (*fetch.Result, error) {
	client, err := youtube.New(cfg.YouTube.APIKey, cfg.YouTube.BaseURL, cfg.YouTube.RequestTimeout, cfg.YouTube.PageSize)
	if err != nil {
		return nil, err
	}
	cache, err := fetchcache.Open(cfg.Paths.CachePath)
	if err != nil {
		return nil, fmt.Errorf("open metadata cache: %w", err)
	}
	defer func() {
		_ = cache.Close()
	}()

	return fetch.New(cfg, client, cache, logger).Run(ctx, fetch.Options{Refresh: refresh})
}

func printFetchResult(cmd *cobra.Command, result *fetch.Result) {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, renderTable(
		[]string{"Channels", "Videos", "From cache", "From API"},
		[][]string{{
			fmt.Sprintf("%d", result.Channels),
			fmt.Sprintf("%d", result.Videos),
			fmt.Sprintf("%d", result.FromCache),
			fmt.Sprintf("%d", result.FromAPI),
		}},
		[]columnAlignment{alignRight, alignRight, alignRight, alignRight},
	))
	fmt.Fprintf(out, "Raw metadata written to %s\n", result.RawCSVPath)
}
