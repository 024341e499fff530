// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the shared data structures of the import pipeline:
// raw input rows, normalized movie records and their field values, and the
// configuration passed into a conversion run.
package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Column names used by IMDb ratings and watchlist exports.
const (
	FieldConst         = "Const"
	FieldTitle         = "Title"
	FieldOriginalTitle = "Original Title"
	FieldTitleType     = "Title Type"
	FieldIMDbRating    = "IMDb Rating"
	FieldRuntime       = "Runtime (mins)"
	FieldYear          = "Year"
	FieldGenres        = "Genres"
	FieldNumVotes      = "Num Votes"
	FieldReleaseDate   = "Release Date"
	FieldDirectors     = "Directors"
	FieldYourRating    = "Your Rating"
	FieldDateRated     = "Date Rated"
	FieldURL           = "URL"
	FieldPosition      = "Position"
)

// GenreSeparator splits the Genres field into individual genres.
const GenreSeparator = ", "

// Row is one raw input row: cell text keyed by column header.
type Row map[string]string

// Movie is a normalized record. Field order is preserved so that the
// serialized document lists keys in the configured retained-field order.
type Movie struct {
	fields []string
	values map[string]Value
}

// NewMovie returns an empty record.
func NewMovie() Movie {
	return Movie{values: make(map[string]Value)}
}

// Set assigns a value, appending the field if it is new.
func (m *Movie) Set(field string, v Value) {
	if m.values == nil {
		m.values = make(map[string]Value)
	}
	if _, ok := m.values[field]; !ok {
		m.fields = append(m.fields, field)
	}
	m.values[field] = v
}

// Get returns the value of field and whether the field is present.
// A present field may still hold Null.
func (m Movie) Get(field string) (Value, bool) {
	v, ok := m.values[field]
	return v, ok
}

// Fields returns the field names in order.
func (m Movie) Fields() []string {
	out := make([]string, len(m.fields))
	copy(out, m.fields)
	return out
}

// Len returns the number of fields.
func (m Movie) Len() int { return len(m.fields) }

// Text returns the display text of field, or "" when absent.
func (m Movie) Text(field string) string {
	return m.values[field].Text()
}

// Const returns the identifier, or "" when absent.
func (m Movie) Const() string {
	s, _ := m.values[FieldConst].Str()
	return s
}

// TitleType returns the Title Type category, or "" when absent.
func (m Movie) TitleType() string {
	s, _ := m.values[FieldTitleType].Str()
	return s
}

// YourRating returns the personal rating and whether the record is rated.
func (m Movie) YourRating() (int64, bool) {
	return m.values[FieldYourRating].Int()
}

// Rated reports whether the record carries a personal rating.
func (m Movie) Rated() bool {
	_, ok := m.YourRating()
	return ok
}

// Genres splits the Genres field. It returns nil when absent.
func (m Movie) Genres() []string {
	s, ok := m.values[FieldGenres].Str()
	if !ok || s == "" {
		return nil
	}
	return strings.Split(s, GenreSeparator)
}

// Equal reports whether both records hold the same fields, in the same
// order, with the same values.
func (m Movie) Equal(o Movie) bool {
	if len(m.fields) != len(o.fields) {
		return false
	}
	for i, f := range m.fields {
		if o.fields[i] != f || m.values[f] != o.values[f] {
			return false
		}
	}
	return true
}

// MarshalJSON writes the record as a JSON object in field order.
func (m Movie) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range m.fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := String(f).MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := m.values[f].MarshalJSON()
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", f, err)
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a JSON object, keeping its key order.
func (m *Movie) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("movie record must be a JSON object")
	}

	out := NewMovie()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("unexpected key token %v", tok)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("field %q: %w", key, err)
		}
		var v Value
		if err := v.UnmarshalJSON(raw); err != nil {
			return fmt.Errorf("field %q: %w", key, err)
		}
		out.Set(key, v)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*m = out
	return nil
}
