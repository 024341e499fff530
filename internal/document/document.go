// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package document writes and reads the merged movie document. The
// document is an ordered list of records whose keys follow the configured
// field order; absent values are written as null.
package document

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pdiddy/tastemap-import/pkg/types"
)

// FormatFor picks the format implied by a file extension, falling back to
// JSON. Write and Read agree on it, so a validated configuration always
// produces a document Read can parse.
func FormatFor(path string) types.OutputFormat {
	return types.FormatForPath(path)
}

// Encode writes movies to w in the given format.
func Encode(w io.Writer, movies []types.Movie, format types.OutputFormat) error {
	if movies == nil {
		movies = []types.Movie{}
	}
	switch format {
	case types.FormatJSON, "":
		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		if err := enc.Encode(movies); err != nil {
			return fmt.Errorf("encoding JSON: %w", err)
		}
		return nil
	case types.FormatYAML:
		return encodeYAML(w, movies)
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
}

// Decode parses a document previously produced by Encode.
func Decode(r io.Reader, format types.OutputFormat) ([]types.Movie, error) {
	switch format {
	case types.FormatJSON, "":
		var movies []types.Movie
		if err := json.NewDecoder(r).Decode(&movies); err != nil {
			return nil, fmt.Errorf("decoding JSON: %w", err)
		}
		return movies, nil
	case types.FormatYAML:
		return decodeYAML(r)
	default:
		return nil, fmt.Errorf("unsupported document format %q", format)
	}
}

// Write encodes movies and replaces path in one step: the document is
// written to a temporary file beside path and renamed over it, so readers
// never observe a partial document.
func Write(path string, movies []types.Movie, format types.OutputFormat) error {
	var buf bytes.Buffer
	if err := Encode(&buf, movies, format); err != nil {
		return err
	}
	return writeAtomic(path, buf.Bytes())
}

// Read loads the document at path, choosing the format from its extension.
func Read(path string) ([]types.Movie, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening document: %w", err)
	}
	defer f.Close()

	movies, err := Decode(f, FormatFor(path))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return movies, nil
}

func writeAtomic(path string, data []byte) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing %s: %w", tmpName, err)
	}
	if err = tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("syncing %s: %w", tmpName, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", tmpName, err)
	}
	if err = os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("setting permissions on %s: %w", tmpName, err)
	}
	if err = os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	return nil
}
