// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/tastemap-import/internal/library"
	"github.com/pdiddy/tastemap-import/pkg/types"
)

var libraryCmd = &cobra.Command{
	Use:   "library [database]",
	Short: "Report on the SQLite library written by convert --library",
	Long: `Library opens the SQLite database populated by convert --library and
prints the number of stored movies, the average personal rating, and the
most rated genres, computed with SQL.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(viper.GetViper())
		if err != nil {
			return err
		}
		libCfg := cfg.Library
		if len(args) == 1 {
			libCfg = types.LibraryConfig{Path: args[0]}
		}
		if libCfg.Path == "" {
			return fmt.Errorf("no library database: pass a path or set library.path")
		}

		store, err := library.NewStore(libCfg, cfg.KeyField)
		if err != nil {
			return err
		}
		defer store.Close()

		ctx := cmd.Context()
		count, err := store.Count(ctx)
		if err != nil {
			return err
		}
		avg, rated, err := store.AverageRating(ctx)
		if err != nil {
			return err
		}
		genres, err := store.TopGenres(ctx, cfg.TopGenres)
		if err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "Library: %s\n", libCfg.Path)
		fmt.Fprintf(w, "   Movies: %d\n", count)
		if rated {
			fmt.Fprintf(w, "   Average rating: %.1f/10\n", avg)
		}
		if len(genres) > 0 {
			fmt.Fprintln(w, "   Top genres:")
			for _, g := range genres {
				fmt.Fprintf(w, "      %s: %d movies\n", g.Genre, g.Count)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(libraryCmd)
}
