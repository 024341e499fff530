// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package merge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/tastemap-import/pkg/types"
)

func movie(id string, rating types.Value) types.Movie {
	m := types.NewMovie()
	if id == "" {
		m.Set(types.FieldConst, types.Null())
	} else {
		m.Set(types.FieldConst, types.String(id))
	}
	m.Set(types.FieldTitleType, types.String("movie"))
	m.Set(types.FieldYourRating, rating)
	return m
}

func consts(movies []types.Movie) []string {
	out := make([]string, len(movies))
	for i, m := range movies {
		out[i] = m.Const()
	}
	return out
}

func TestMergeRatingsTakePrecedence(t *testing.T) {
	ratings := []types.Movie{movie("tt0001", types.Int(9))}
	watchlist := []types.Movie{movie("tt0001", types.Int(3)), movie("tt0002", types.Null())}

	res := Merge(types.FieldConst, ratings, watchlist)

	require.Len(t, res.Movies, 2)
	assert.Equal(t, []string{"tt0001", "tt0002"}, consts(res.Movies))
	rating, ok := res.Movies[0].YourRating()
	assert.True(t, ok)
	assert.EqualValues(t, 9, rating)
	assert.Equal(t, 1, res.Duplicates)
	assert.Equal(t, 3, res.Total())
}

func TestMergeScenario(t *testing.T) {
	ratings := []types.Movie{movie("tt1", types.Int(8))}
	watchlist := []types.Movie{movie("tt1", types.Null()), movie("tt2", types.Null())}

	res := Merge(types.FieldConst, ratings, watchlist)

	require.Len(t, res.Movies, 2)
	r1, ok := res.Movies[0].YourRating()
	assert.True(t, ok)
	assert.EqualValues(t, 8, r1)
	assert.False(t, res.Movies[1].Rated())
}

func TestMergeIdempotent(t *testing.T) {
	seq := []types.Movie{
		movie("tt3", types.Int(7)),
		movie("tt1", types.Null()),
		movie("tt3", types.Int(2)),
		movie("tt2", types.Int(5)),
	}

	once := Merge(types.FieldConst, seq)
	twice := Merge(types.FieldConst, seq, seq)

	require.Equal(t, len(once.Movies), len(twice.Movies))
	for i := range once.Movies {
		assert.True(t, once.Movies[i].Equal(twice.Movies[i]), "record %d differs", i)
	}
	again := Merge(types.FieldConst, once.Movies)
	assert.Equal(t, consts(once.Movies), consts(again.Movies))
	assert.Zero(t, again.Duplicates)
}

func TestMergeDropsUnkeyedRecords(t *testing.T) {
	blank := movie("   ", types.Int(6))
	noField := types.NewMovie()
	noField.Set(types.FieldTitle, types.String("Orphan"))

	res := Merge(types.FieldConst,
		[]types.Movie{movie("", types.Int(6)), blank},
		[]types.Movie{noField, movie("tt9", types.Null())},
	)

	assert.Equal(t, []string{"tt9"}, consts(res.Movies))
	assert.Equal(t, 3, res.Unkeyed)
	assert.Zero(t, res.Duplicates)
}

func TestMergeEmpty(t *testing.T) {
	res := Merge(types.FieldConst)
	assert.Empty(t, res.Movies)
	assert.Zero(t, res.Total())
}
