// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package normalize turns raw export rows into typed movie records.
// Coercion never fails: empty or malformed cells become Null.
package normalize

import (
	"math"
	"strconv"
	"strings"

	"github.com/pdiddy/tastemap-import/pkg/types"
)

// Normalizer projects rows onto a Schema.
type Normalizer struct {
	schema types.Schema
}

// New returns a Normalizer for schema.
func New(schema types.Schema) *Normalizer {
	return &Normalizer{schema: schema}
}

// Normalize returns a record holding exactly the retained fields, in
// retained order. Fields missing from row are Null.
func (n *Normalizer) Normalize(row types.Row) types.Movie {
	m := types.NewMovie()
	for _, field := range n.schema.Retained {
		m.Set(field, n.coerce(field, row[field]))
	}
	return m
}

// NormalizeAll applies Normalize to every row, keeping order.
func (n *Normalizer) NormalizeAll(rows []types.Row) []types.Movie {
	out := make([]types.Movie, len(rows))
	for i, r := range rows {
		out[i] = n.Normalize(r)
	}
	return out
}

// Missing returns the retained fields that header lacks, in retained order.
func (n *Normalizer) Missing(header []string) []string {
	have := make(map[string]bool, len(header))
	for _, h := range header {
		have[h] = true
	}
	var missing []string
	for _, f := range n.schema.Retained {
		if !have[f] {
			missing = append(missing, f)
		}
	}
	return missing
}

func (n *Normalizer) coerce(field, raw string) types.Value {
	switch {
	case n.schema.IsInteger(field):
		return ParseInt(raw)
	case n.schema.IsDecimal(field):
		return ParseFloat(raw)
	default:
		if raw == "" {
			return types.Null()
		}
		return types.String(raw)
	}
}

// ParseInt reads a whole number. Values such as "8.0" that are written as
// decimals with no fractional part are accepted; anything else that does
// not parse is Null.
func ParseInt(raw string) types.Value {
	s := strings.TrimSpace(raw)
	if s == "" {
		return types.Null()
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return types.Int(n)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return types.Null()
	}
	if f < math.MinInt64 || f >= math.MaxInt64 {
		return types.Null()
	}
	return types.Int(int64(f))
}

// ParseFloat reads a decimal number; empty, malformed, NaN and infinite
// values are Null.
func ParseFloat(raw string) types.Value {
	s := strings.TrimSpace(raw)
	if s == "" {
		return types.Null()
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return types.Null()
	}
	return types.Float(f)
}
