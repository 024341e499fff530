// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pdiddy/tastemap-import/pkg/types"
)

func withType(id string, titleType types.Value) types.Movie {
	m := types.NewMovie()
	m.Set(types.FieldConst, types.String(id))
	m.Set(types.FieldTitleType, titleType)
	return m
}

func TestByCategory(t *testing.T) {
	movies := []types.Movie{
		withType("tt1", types.String("movie")),
		withType("tt2", types.String("tvSeries")),
		withType("tt3", types.String("Movie")),
		withType("tt4", types.Null()),
		withType("tt5", types.String("tvMovie")),
		withType("tt6", types.String("MOVIE")),
	}

	tests := []struct {
		name        string
		allowed     []string
		wantConsts  []string
		wantRemoved int
	}{
		{
			name:        "movies only",
			allowed:     []string{"movie"},
			wantConsts:  []string{"tt1", "tt3", "tt6"},
			wantRemoved: 3,
		},
		{
			name:        "movies and tv movies",
			allowed:     []string{"movie", "tvmovie"},
			wantConsts:  []string{"tt1", "tt3", "tt5", "tt6"},
			wantRemoved: 2,
		},
		{
			name:        "nothing allowed",
			allowed:     nil,
			wantConsts:  []string{},
			wantRemoved: 6,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kept, removed := ByCategory(movies, types.FieldTitleType, tt.allowed)
			got := make([]string, 0, len(kept))
			for _, m := range kept {
				got = append(got, m.Const())
			}
			assert.Equal(t, tt.wantConsts, got)
			assert.Equal(t, tt.wantRemoved, removed)
		})
	}
}

func TestAllowedMissingField(t *testing.T) {
	m := types.NewMovie()
	m.Set(types.FieldConst, types.String("tt1"))
	assert.False(t, Allowed(m, types.FieldTitleType, []string{"movie"}))
}
