// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"
)

// OutputFormat selects the document encoding.
type OutputFormat string

const (
	FormatJSON OutputFormat = "json"
	FormatYAML OutputFormat = "yaml"
)

// FormatForPath picks the format implied by a file extension, falling back
// to JSON.
func FormatForPath(path string) OutputFormat {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Schema names the fields kept in each record and how they are coerced.
type Schema struct {
	// Retained lists the output fields in output order. Input columns not
	// listed here are dropped.
	Retained []string `json:"retained" yaml:"retained" mapstructure:"retained" validate:"required,min=1,dive,required"`

	// Integer lists fields parsed as whole numbers.
	Integer []string `json:"integer" yaml:"integer" mapstructure:"integer" validate:"dive,required"`

	// Decimal lists fields parsed as floating point numbers.
	Decimal []string `json:"decimal" yaml:"decimal" mapstructure:"decimal" validate:"dive,required"`
}

// IsInteger reports whether field is coerced to an integer.
func (s Schema) IsInteger(field string) bool { return slices.Contains(s.Integer, field) }

// IsDecimal reports whether field is coerced to a decimal.
func (s Schema) IsDecimal(field string) bool { return slices.Contains(s.Decimal, field) }

// LibraryConfig holds settings for the optional SQLite export.
type LibraryConfig struct {
	// Path is the SQLite database file. Empty disables the export.
	Path string `json:"path" yaml:"path" mapstructure:"path"`
}

// ConvertConfig holds everything a conversion run needs. It replaces
// hardcoded paths and column lists so both IMDb export layouts can be
// handled by configuration alone.
type ConvertConfig struct {
	// RatingsPath is the ratings export. Its records win on duplicate keys.
	RatingsPath string `json:"ratings" yaml:"ratings" mapstructure:"ratings" validate:"required"`

	// WatchlistPath is the watchlist export.
	WatchlistPath string `json:"watchlist" yaml:"watchlist" mapstructure:"watchlist" validate:"required"`

	// OutputPath is where the merged document is written.
	OutputPath string `json:"output" yaml:"output" mapstructure:"output" validate:"required"`

	// Format selects json or yaml output (default json).
	Format OutputFormat `json:"format" yaml:"format" mapstructure:"format" validate:"oneof=json yaml"`

	// Delimiter separates cells in delimited inputs (default ",").
	Delimiter string `json:"delimiter" yaml:"delimiter" mapstructure:"delimiter" validate:"len=1"`

	// KeyField is the merge key (default "Const").
	KeyField string `json:"key_field" yaml:"key_field" mapstructure:"key_field" validate:"required"`

	// CategoryField is the field matched against AllowedTypes (default "Title Type").
	CategoryField string `json:"category_field" yaml:"category_field" mapstructure:"category_field" validate:"required"`

	// AllowedTypes lists the accepted categories, compared case-insensitively.
	AllowedTypes []string `json:"allowed_types" yaml:"allowed_types" mapstructure:"allowed_types" validate:"required,min=1,dive,required"`

	// TopGenres caps the genre ranking in the summary (default 5).
	TopGenres int `json:"top_genres" yaml:"top_genres" mapstructure:"top_genres" validate:"gte=0"`

	Schema  Schema        `json:"fields" yaml:"fields" mapstructure:"fields"`
	Library LibraryConfig `json:"library" yaml:"library" mapstructure:"library"`
}

// DefaultConvertConfig returns the settings for a standard IMDb export pair.
func DefaultConvertConfig() ConvertConfig {
	return ConvertConfig{
		RatingsPath:   "ratings.csv",
		WatchlistPath: "watchlist.csv",
		OutputPath:    "ratings.json",
		Format:        FormatJSON,
		Delimiter:     ",",
		KeyField:      FieldConst,
		CategoryField: FieldTitleType,
		AllowedTypes:  []string{"movie"},
		TopGenres:     5,
		Schema: Schema{
			Retained: []string{
				FieldConst, FieldTitle, FieldOriginalTitle, FieldTitleType,
				FieldIMDbRating, FieldRuntime, FieldYear, FieldGenres,
				FieldNumVotes, FieldReleaseDate, FieldDirectors,
				FieldYourRating, FieldDateRated,
			},
			Integer: []string{FieldYourRating, FieldRuntime, FieldYear, FieldNumVotes, FieldPosition},
			Decimal: []string{FieldIMDbRating},
		},
	}
}

var validate = validator.New()

// Validate checks the configuration before a run.
func (c ConvertConfig) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if !slices.Contains(c.Schema.Retained, c.KeyField) {
		return fmt.Errorf("invalid configuration: key field %q is not a retained field", c.KeyField)
	}
	if !slices.Contains(c.Schema.Retained, c.CategoryField) {
		return fmt.Errorf("invalid configuration: category field %q is not a retained field", c.CategoryField)
	}
	if c.Schema.IsInteger(c.KeyField) || c.Schema.IsDecimal(c.KeyField) {
		return fmt.Errorf("invalid configuration: key field %q must not be numeric", c.KeyField)
	}
	if want := FormatForPath(c.OutputPath); c.Format != want {
		return fmt.Errorf("invalid configuration: output %q is read back as %s but format is %s", c.OutputPath, want, c.Format)
	}
	for _, f := range c.Schema.Integer {
		if c.Schema.IsDecimal(f) {
			return fmt.Errorf("invalid configuration: field %q is both integer and decimal", f)
		}
	}
	return nil
}

// DelimiterRune returns the cell separator, defaulting to a comma.
func (c ConvertConfig) DelimiterRune() rune {
	for _, r := range c.Delimiter {
		return r
	}
	return ','
}
