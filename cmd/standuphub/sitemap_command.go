package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"standuphub/internal/sitemap"
)

func newSitemapCommand(ctx *commandContext) *cobra.Command {
	var baseURL string

	cmd := &cobra.Command{
		Use:   "sitemap",
		Short: "Generate sitemap.xml and robots.txt for the built site",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			base := baseURL
			if base == "" {
				base = cfg.Sitemap.BaseURL
			}
			if err := sitemap.Generate(cfg.Paths.SiteDir, base, cfg.Sitemap.Exclude, logger); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote sitemap.xml and robots.txt under %s\n", cfg.Paths.SiteDir)
			return nil
		},
	}

	cmd.Flags().StringVar(&baseURL, "base", "", "Site base URL (default from configuration)")
	return cmd
}
