// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert runs the import pipeline: it reads the ratings and
// watchlist exports, normalizes and merges them with ratings taking
// precedence, keeps the allowed title types, writes the document, and
// reports summary statistics.
package convert

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pdiddy/tastemap-import/internal/document"
	"github.com/pdiddy/tastemap-import/internal/filter"
	"github.com/pdiddy/tastemap-import/internal/library"
	"github.com/pdiddy/tastemap-import/internal/merge"
	"github.com/pdiddy/tastemap-import/internal/normalize"
	"github.com/pdiddy/tastemap-import/internal/summary"
	"github.com/pdiddy/tastemap-import/internal/table"
	"github.com/pdiddy/tastemap-import/pkg/types"
)

// Result holds the outcome of a conversion run.
type Result struct {
	// Aborted is set when an input file was missing. Nothing is written in
	// that case.
	Aborted bool
	// MissingPath names the input that was not found.
	MissingPath string

	RatingsRows   int
	WatchlistRows int
	Duplicates    int
	Unkeyed       int
	Filtered      int
	Written       int
	Stored        int

	Summary summary.Summary
}

// Run converts the exports named in cfg, printing progress and the summary
// to w. A missing input aborts the run without error: Result.Aborted is set
// and the diagnostic is printed to w.
func Run(ctx context.Context, cfg types.ConvertConfig, w io.Writer) (Result, error) {
	if err := cfg.Validate(); err != nil {
		return Result{}, err
	}

	var res Result
	opts := table.Options{Delimiter: cfg.DelimiterRune()}

	ratings, err := readInput(cfg.RatingsPath, "rated", opts, w)
	if err != nil {
		return abortOrFail(res, err)
	}
	res.RatingsRows = ratings.Len()

	watchlist, err := readInput(cfg.WatchlistPath, "watchlist", opts, w)
	if err != nil {
		return abortOrFail(res, err)
	}
	res.WatchlistRows = watchlist.Len()

	if err := ctx.Err(); err != nil {
		return res, err
	}

	n := normalize.New(cfg.Schema)
	warnMissing(w, cfg.RatingsPath, n.Missing(ratings.Header))
	warnMissing(w, cfg.WatchlistPath, n.Missing(watchlist.Header))

	fmt.Fprintln(w, "\nMerging ratings and watchlist...")
	merged := merge.Merge(cfg.KeyField, n.NormalizeAll(ratings.Rows), n.NormalizeAll(watchlist.Rows))
	res.Duplicates = merged.Duplicates
	res.Unkeyed = merged.Unkeyed
	fmt.Fprintf(w, "   %d unique titles (%d duplicates dropped)\n", len(merged.Movies), merged.Duplicates)
	if merged.Unkeyed > 0 {
		fmt.Fprintf(w, "   warning: dropped %d rows with no %s\n", merged.Unkeyed, cfg.KeyField)
	}

	fmt.Fprintf(w, "\nFiltering to %s only...\n", strings.Join(cfg.AllowedTypes, ", "))
	movies, removed := filter.ByCategory(merged.Movies, cfg.CategoryField, cfg.AllowedTypes)
	res.Filtered = removed
	fmt.Fprintf(w, "   %d movies (filtered out %d non-movies)\n", len(movies), removed)

	if err := ctx.Err(); err != nil {
		return res, err
	}

	fmt.Fprintf(w, "\nWriting to %s...\n", cfg.OutputPath)
	if err := document.Write(cfg.OutputPath, movies, cfg.Format); err != nil {
		return res, fmt.Errorf("writing document: %w", err)
	}
	res.Written = len(movies)

	if cfg.Library.Path != "" {
		stored, err := storeLibrary(ctx, cfg, movies)
		if err != nil {
			return res, err
		}
		res.Stored = stored
		fmt.Fprintf(w, "   stored %d movies in %s\n", stored, cfg.Library.Path)
	}

	res.Summary = summary.Compute(movies, cfg.TopGenres)

	fmt.Fprintln(w, "\nConversion complete!")
	fmt.Fprintln(w, strings.Repeat("=", 50))
	res.Summary.Print(w)

	fmt.Fprintf(w, "\nOutput file: %s\n", cfg.OutputPath)
	if info, err := os.Stat(cfg.OutputPath); err == nil {
		fmt.Fprintf(w, "   Size: %.1f KB\n", float64(info.Size())/1024)
	}
	return res, nil
}

// readInput loads one export and reports its row count.
func readInput(path, label string, opts table.Options, w io.Writer) (*table.Table, error) {
	fmt.Fprintf(w, "\nReading %s...\n", path)
	t, err := table.ReadFile(path, opts)
	if err != nil {
		if table.IsNotFound(err) {
			fmt.Fprintf(w, "   File not found: %s\n", path)
		}
		return nil, err
	}
	fmt.Fprintf(w, "   Found %d %s items\n", t.Len(), label)
	return t, nil
}

// abortOrFail turns a missing input into an aborted result and passes
// every other error through.
func abortOrFail(res Result, err error) (Result, error) {
	var nf *table.NotFoundError
	if errors.As(err, &nf) {
		res.Aborted = true
		res.MissingPath = nf.Path
		return res, nil
	}
	return res, err
}

func warnMissing(w io.Writer, path string, missing []string) {
	if len(missing) == 0 {
		return
	}
	fmt.Fprintf(w, "   note: %s has no column(s) %s; values will be null\n", path, strings.Join(missing, ", "))
}

func storeLibrary(ctx context.Context, cfg types.ConvertConfig, movies []types.Movie) (int, error) {
	store, err := library.NewStore(cfg.Library, cfg.KeyField)
	if err != nil {
		return 0, fmt.Errorf("opening library: %w", err)
	}
	defer store.Close()

	n, err := store.Replace(ctx, movies)
	if err != nil {
		return 0, fmt.Errorf("storing library: %w", err)
	}
	return n, nil
}
