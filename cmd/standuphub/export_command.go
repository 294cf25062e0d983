package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"standuphub/internal/export"
)

func newExportCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Convert pipeline outputs to JSON for the static site",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			if err := export.Run(cfg.Paths.OutDir, cfg.Paths.SiteDir, logger); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Site data written to %s\n", filepath.Join(cfg.Paths.SiteDir, "data"))
			return nil
		},
	}
}
