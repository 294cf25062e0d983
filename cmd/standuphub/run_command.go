package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"standuphub/internal/export"
	"standuphub/internal/sitemap"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	var refresh bool
	var skipFetch bool
	var withSitemap bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Fetch, rate, and export in one pass",
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
				inputPath := ""
				if !skipFetch {
					fetchResult, err := runFetch(cmd.Context(), cfg, logger, refresh)
					if err != nil {
						return err
					}
					printFetchResult(cmd, fetchResult)
					inputPath = fetchResult.RawCSVPath
				}

				rateResult, err := runRate(cfg, logger, inputPath)
				if err != nil {
					return err
				}
				printRateResult(cmd, rateResult, 10)

				if err := export.Run(cfg.Paths.OutDir, cfg.Paths.SiteDir, logger); err != nil {
					return err
				}
				if withSitemap {
					if err := sitemap.Generate(cfg.Paths.SiteDir, cfg.Sitemap.BaseURL, cfg.Sitemap.Exclude, logger); err != nil {
						return err
					}
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Run %s complete\n", rateResult.Summary.RunID)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&refresh, "refresh", false, "Bypass the metadata cache and refetch every video")
	cmd.Flags().BoolVar(&skipFetch, "skip-fetch", false, "Rate the existing raw CSV without fetching")
	cmd.Flags().BoolVar(&withSitemap, "sitemap", false, "Also regenerate sitemap.xml and robots.txt")
	return cmd
}
