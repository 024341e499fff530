// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package table

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/pdiddy/tastemap-import/pkg/types"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRead(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		delimiter  rune
		wantHeader []string
		wantRows   []types.Row
	}{
		{
			name:       "header and rows in order",
			input:      "Const,Title,Your Rating\ntt1,Heat,8\ntt2,Alien,\n",
			wantHeader: []string{"Const", "Title", "Your Rating"},
			wantRows: []types.Row{
				{"Const": "tt1", "Title": "Heat", "Your Rating": "8"},
				{"Const": "tt2", "Title": "Alien", "Your Rating": ""},
			},
		},
		{
			name:       "quoted genres keep their commas",
			input:      "Const,Genres\ntt1,\"Crime, Drama\"\n",
			wantHeader: []string{"Const", "Genres"},
			wantRows:   []types.Row{{"Const": "tt1", "Genres": "Crime, Drama"}},
		},
		{
			name:       "byte order mark is stripped",
			input:      "\ufeff\"Const\",Title\ntt1,Heat\n",
			wantHeader: []string{"Const", "Title"},
			wantRows:   []types.Row{{"Const": "tt1", "Title": "Heat"}},
		},
		{
			name:       "short rows are padded",
			input:      "Const,Title,Year\ntt1,Heat\n",
			wantHeader: []string{"Const", "Title", "Year"},
			wantRows:   []types.Row{{"Const": "tt1", "Title": "Heat", "Year": ""}},
		},
		{
			name:       "tab delimiter",
			input:      "Const\tTitle\ntt1\tLéon\n",
			delimiter:  '\t',
			wantHeader: []string{"Const", "Title"},
			wantRows:   []types.Row{{"Const": "tt1", "Title": "Léon"}},
		},
		{
			name:       "header only",
			input:      "Const,Title\n",
			wantHeader: []string{"Const", "Title"},
			wantRows:   []types.Row{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Read(strings.NewReader(tt.input), Options{Delimiter: tt.delimiter})
			require.NoError(t, err)
			assert.Equal(t, tt.wantHeader, got.Header)
			assert.Equal(t, tt.wantRows, got.Rows)
		})
	}
}

func TestReadEmptyInput(t *testing.T) {
	_, err := Read(strings.NewReader(""), Options{})
	assert.ErrorContains(t, err, "missing header row")
}

func TestReadInvalidUTF8(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr string
	}{
		{name: "data cell", input: "Const,Title\ntt1,Heat\ntt2,\xff\xfebad\n", wantErr: `record 2, column "Title": invalid UTF-8`},
		{name: "header cell", input: "Const,\xffTitle\ntt1,Heat\n", wantErr: "header column 2: invalid UTF-8"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(strings.NewReader(tt.input), Options{})
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestReadFileNotFound(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ratings.csv")

	_, err := ReadFile(path, Options{})
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
	assert.Contains(t, err.Error(), path)
}

func TestReadFileCSV(t *testing.T) {
	path := writeFile(t, t.TempDir(), "watchlist.csv", "Position,Const,Title\n1,tt1,Heat\n2,tt2,Alien\n")

	got, err := ReadFile(path, Options{})
	require.NoError(t, err)
	assert.Equal(t, 2, got.Len())
	assert.Equal(t, []string{"Position", "Const", "Title"}, got.Header)
	assert.Equal(t, "tt2", got.Rows[1]["Const"])
}

func TestReadFileWorkbook(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	rows := [][]any{
		{"Const", "Title", "Your Rating"},
		{"tt1", "Heat", 8},
		{"tt2", "Amélie"},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	path := filepath.Join(t.TempDir(), "ratings.xlsx")
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	got, err := ReadFile(path, Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Const", "Title", "Your Rating"}, got.Header)
	require.Len(t, got.Rows, 2)
	assert.Equal(t, types.Row{"Const": "tt1", "Title": "Heat", "Your Rating": "8"}, got.Rows[0])
	assert.Equal(t, types.Row{"Const": "tt2", "Title": "Amélie", "Your Rating": ""}, got.Rows[1])
}
