// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package summary computes the statistics printed after a conversion run.
package summary

import (
	"fmt"
	"io"

	"github.com/pdiddy/tastemap-import/pkg/types"
)

// DefaultTopGenres is the genre ranking length used when none is configured.
const DefaultTopGenres = 5

// GenreCount is one entry of the genre ranking.
type GenreCount struct {
	Genre string `json:"genre" yaml:"genre"`
	Count int    `json:"count" yaml:"count"`
}

// Summary holds statistics over the final record set.
type Summary struct {
	Total   int `json:"total" yaml:"total"`
	Rated   int `json:"rated" yaml:"rated"`
	Unrated int `json:"unrated" yaml:"unrated"`

	// Average is the mean personal rating. It is meaningful only when
	// Rated > 0; see HasAverage.
	Average float64 `json:"average,omitempty" yaml:"average,omitempty"`

	// TopGenres ranks genres of rated records by frequency.
	TopGenres []GenreCount `json:"top_genres,omitempty" yaml:"top_genres,omitempty"`
}

// HasAverage reports whether Average was computed.
func (s Summary) HasAverage() bool { return s.Rated > 0 }

// Compute gathers statistics over movies. topN bounds the genre ranking;
// zero or less uses DefaultTopGenres.
func Compute(movies []types.Movie, topN int) Summary {
	if topN <= 0 {
		topN = DefaultTopGenres
	}

	s := Summary{Total: len(movies)}
	var sum int64
	counts := make(map[string]int)
	var order []string

	for _, m := range movies {
		rating, ok := m.YourRating()
		if !ok {
			continue
		}
		s.Rated++
		sum += rating
		for _, g := range m.Genres() {
			if _, seen := counts[g]; !seen {
				order = append(order, g)
			}
			counts[g]++
		}
	}
	s.Unrated = s.Total - s.Rated

	if s.Rated > 0 {
		s.Average = float64(sum) / float64(s.Rated)
	}
	s.TopGenres = rank(order, counts, topN)
	return s
}

// rank orders genres by descending count. Ties keep first-encountered
// order, so a stable insertion pass over order is enough.
func rank(order []string, counts map[string]int, n int) []GenreCount {
	ranked := make([]GenreCount, 0, len(order))
	for _, g := range order {
		gc := GenreCount{Genre: g, Count: counts[g]}
		i := len(ranked)
		for i > 0 && ranked[i-1].Count < gc.Count {
			i--
		}
		ranked = append(ranked, GenreCount{})
		copy(ranked[i+1:], ranked[i:])
		ranked[i] = gc
	}
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	if len(ranked) == 0 {
		return nil
	}
	return ranked
}

// Print writes the human-readable summary block to w. Average and genre
// lines are omitted when there is nothing to report.
func (s Summary) Print(w io.Writer) {
	fmt.Fprintln(w, "Summary:")
	fmt.Fprintf(w, "   Total movies: %d\n", s.Total)
	fmt.Fprintf(w, "   Rated movies: %d\n", s.Rated)
	fmt.Fprintf(w, "   Watchlist (unrated): %d\n", s.Unrated)

	if !s.HasAverage() {
		return
	}
	fmt.Fprintf(w, "   Average rating: %.1f/10\n", s.Average)

	if len(s.TopGenres) == 0 {
		return
	}
	fmt.Fprintf(w, "\n   Top genres you've rated:\n")
	for _, g := range s.TopGenres {
		fmt.Fprintf(w, "      %s: %d movies\n", g.Genre, g.Count)
	}
}
