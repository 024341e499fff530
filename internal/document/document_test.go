// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package document

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/tastemap-import/pkg/types"
)

func sampleMovies() []types.Movie {
	a := types.NewMovie()
	a.Set(types.FieldConst, types.String("tt1"))
	a.Set(types.FieldTitle, types.String("Amélie & <Friends>"))
	a.Set(types.FieldIMDbRating, types.Float(8))
	a.Set(types.FieldYear, types.Int(2001))
	a.Set(types.FieldYourRating, types.Int(8))
	a.Set(types.FieldReleaseDate, types.String("2001-04-25"))

	b := types.NewMovie()
	b.Set(types.FieldConst, types.String("tt2"))
	b.Set(types.FieldTitle, types.String("1917"))
	b.Set(types.FieldIMDbRating, types.Float(8.2))
	b.Set(types.FieldYear, types.Null())
	b.Set(types.FieldYourRating, types.Null())
	b.Set(types.FieldReleaseDate, types.Null())

	return []types.Movie{a, b}
}

func TestEncodeJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, sampleMovies()[:1], types.FormatJSON))

	want := `[
  {
    "Const": "tt1",
    "Title": "Amélie & <Friends>",
    "IMDb Rating": 8.0,
    "Year": 2001,
    "Your Rating": 8,
    "Release Date": "2001-04-25"
  }
]
`
	assert.Equal(t, want, buf.String())
}

func TestEncodeEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, nil, types.FormatJSON))
	assert.Equal(t, "[]\n", buf.String())
}

func TestEncodeUnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	assert.ErrorContains(t, Encode(&buf, nil, "xml"), "unsupported")
}

func TestRoundTrip(t *testing.T) {
	for _, format := range []types.OutputFormat{types.FormatJSON, types.FormatYAML} {
		t.Run(string(format), func(t *testing.T) {
			movies := sampleMovies()
			path := filepath.Join(t.TempDir(), "ratings."+string(format))

			require.NoError(t, Write(path, movies, format))
			back, err := Read(path)
			require.NoError(t, err)

			require.Len(t, back, len(movies))
			for i := range movies {
				assert.True(t, movies[i].Equal(back[i]),
					"record %d: got fields %v", i, back[i].Fields())
			}

			v, ok := back[1].Get(types.FieldYourRating)
			assert.True(t, ok, "null values must be written, not omitted")
			assert.True(t, v.IsNull())

			title, _ := back[1].Get(types.FieldTitle)
			s, isStr := title.Str()
			assert.True(t, isStr, "numeric-looking titles stay strings")
			assert.Equal(t, "1917", s)
		})
	}
}

func TestYAMLLayout(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, sampleMovies()[1:], types.FormatYAML))

	out := buf.String()
	assert.Contains(t, out, "- Const: tt2\n")
	assert.Contains(t, out, `Title: "1917"`)
	assert.Contains(t, out, "Your Rating: null\n")
	assert.Contains(t, out, "IMDb Rating: 8.2\n")
}

func TestWriteReplacesAtomically(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ratings.json")
	require.NoError(t, os.WriteFile(path, []byte("old"), 0o644))

	require.NoError(t, Write(path, sampleMovies(), types.FormatJSON))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "temporary files must not be left behind")
	assert.Equal(t, "ratings.json", entries[0].Name())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"Amélie & <Friends>"`)
}

func TestWriteCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "nested", "ratings.json")
	require.NoError(t, Write(path, nil, types.FormatJSON))
	_, err := os.Stat(path)
	assert.NoError(t, err)
}

func TestReadErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := Read(filepath.Join(dir, "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`[{"Const": [1]}]`), 0o644))
	_, err = Read(bad)
	assert.Error(t, err)

	badYAML := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(badYAML, []byte("Const: tt1\n"), 0o644))
	_, err = Read(badYAML)
	assert.ErrorContains(t, err, "sequence")
}

func TestFormatFor(t *testing.T) {
	assert.Equal(t, types.FormatYAML, FormatFor("out/ratings.YML"))
	assert.Equal(t, types.FormatYAML, FormatFor("ratings.yaml"))
	assert.Equal(t, types.FormatJSON, FormatFor("ratings.json"))
	assert.Equal(t, types.FormatJSON, FormatFor("ratings"))
}
