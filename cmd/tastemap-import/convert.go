// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/tastemap-import/internal/convert"
	"github.com/pdiddy/tastemap-import/pkg/types"
)

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Merge the ratings and watchlist exports into one document",
	Long: `Convert reads the ratings and watchlist exports, keeps the configured
columns with numeric columns typed, merges records by Const with ratings
taking precedence, drops title types outside the allow-list, and writes the
result. A missing input file prints a message and exits without error.`,
	Args: cobra.NoArgs,
	RunE: runConvert,
}

// convertFlags maps flag names to configuration keys.
var convertFlags = map[string]string{
	"ratings":    "ratings",
	"watchlist":  "watchlist",
	"output":     "output",
	"format":     "format",
	"delimiter":  "delimiter",
	"allow":      "allowed_types",
	"top-genres": "top_genres",
	"library":    "library.path",
}

func init() {
	d := types.DefaultConvertConfig()
	f := convertCmd.Flags()
	f.String("ratings", d.RatingsPath, "ratings export (CSV or .xlsx)")
	f.String("watchlist", d.WatchlistPath, "watchlist export (CSV or .xlsx)")
	f.String("output", d.OutputPath, "output document path")
	f.String("format", string(d.Format), "output format: json or yaml")
	f.String("delimiter", d.Delimiter, "cell delimiter for CSV inputs")
	f.StringSlice("allow", d.AllowedTypes, "accepted title types, case-insensitive (e.g. movie,tvMovie)")
	f.Int("top-genres", d.TopGenres, "number of genres listed in the summary")
	f.String("library", "", "also store the movies in this SQLite database")

	for flag, key := range convertFlags {
		if err := viper.BindPFlag(key, f.Lookup(flag)); err != nil {
			panic(fmt.Sprintf("binding flag %s: %v", flag, err))
		}
	}

	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return err
	}

	res, err := convert.Run(cmd.Context(), cfg, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	if res.Aborted {
		fmt.Fprintln(cmd.ErrOrStderr(), "\nConversion aborted: nothing was written.")
	}
	return nil
}
