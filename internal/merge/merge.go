// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package merge deduplicates movie records by key. Sources are given in
// precedence order and the first record seen for a key wins, so ratings
// passed before the watchlist always override it.
package merge

import (
	"strings"

	"github.com/pdiddy/tastemap-import/pkg/types"
)

// Result holds the merged records and what was dropped.
type Result struct {
	// Movies holds one record per key, in order of first appearance.
	Movies []types.Movie
	// Duplicates counts records dropped because their key was already taken.
	Duplicates int
	// Unkeyed counts records dropped because their key was absent or blank.
	Unkeyed int
}

// Total returns the number of input records considered.
func (r Result) Total() int {
	return len(r.Movies) + r.Duplicates + r.Unkeyed
}

// Merge combines sources keyed by the string field key. Records whose key
// is Null, not a string, or blank cannot be matched against anything and
// are excluded.
func Merge(key string, sources ...[]types.Movie) Result {
	seen := make(map[string]bool)
	var res Result
	for _, src := range sources {
		for _, m := range src {
			k := keyOf(m, key)
			if k == "" {
				res.Unkeyed++
				continue
			}
			if seen[k] {
				res.Duplicates++
				continue
			}
			seen[k] = true
			res.Movies = append(res.Movies, m)
		}
	}
	return res
}

func keyOf(m types.Movie, key string) string {
	v, ok := m.Get(key)
	if !ok {
		return ""
	}
	s, ok := v.Str()
	if !ok {
		return ""
	}
	return strings.TrimSpace(s)
}
