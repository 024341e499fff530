// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/tastemap-import/internal/document"
	"github.com/pdiddy/tastemap-import/internal/summary"
)

var statsCmd = &cobra.Command{
	Use:   "stats [document]",
	Short: "Print summary statistics for a converted document",
	Long: `Stats reads a document written by convert (JSON or YAML, chosen by
extension) and prints the same summary convert prints: totals, the rated
and watchlist counts, the average rating, and the most rated genres.
Without an argument it reads the configured output path.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(viper.GetViper())
		if err != nil {
			return err
		}
		path := cfg.OutputPath
		if len(args) == 1 {
			path = args[0]
		}

		movies, err := document.Read(path)
		if err != nil {
			return err
		}
		summary.Compute(movies, cfg.TopGenres).Print(cmd.OutOrStdout())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
