// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package filter keeps movie records whose category is on an allow-list.
package filter

import (
	"strings"

	"github.com/pdiddy/tastemap-import/pkg/types"
)

// ByCategory returns the records whose field matches one of allowed,
// ignoring case, and the number removed. Records without the field are
// removed. Order is preserved and the input is not modified.
func ByCategory(movies []types.Movie, field string, allowed []string) (kept []types.Movie, removed int) {
	kept = make([]types.Movie, 0, len(movies))
	for _, m := range movies {
		if Allowed(m, field, allowed) {
			kept = append(kept, m)
		} else {
			removed++
		}
	}
	return kept, removed
}

// Allowed reports whether m passes the category filter.
func Allowed(m types.Movie, field string, allowed []string) bool {
	v, _ := m.Get(field)
	cat, ok := v.Str()
	if !ok {
		return false
	}
	for _, a := range allowed {
		if strings.EqualFold(cat, a) {
			return true
		}
	}
	return false
}
