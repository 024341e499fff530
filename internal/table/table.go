// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package table reads IMDb exports into ordered rows keyed by column header.
// Delimited text files are read with encoding/csv; .xlsx workbooks are read
// from their first sheet.
package table

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"

	"github.com/pdiddy/tastemap-import/pkg/types"
)

// bom is the UTF-8 byte order mark some spreadsheet tools prepend to CSV.
const bom = "\ufeff"

// NotFoundError reports that an input file does not exist.
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("file not found: %s", e.Path)
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var e *NotFoundError
	return errors.As(err, &e)
}

// Table is a parsed export: the header and the data rows in file order.
type Table struct {
	Header []string
	Rows   []types.Row
}

// Len returns the number of data rows.
func (t *Table) Len() int { return len(t.Rows) }

// Options controls how delimited files are parsed.
type Options struct {
	// Delimiter separates cells; zero means ','.
	Delimiter rune
}

// ReadFile reads the export at path. Files ending in .xlsx are read as
// workbooks, everything else as delimited text. A missing file yields a
// *NotFoundError.
func ReadFile(path string, opts Options) (*Table, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &NotFoundError{Path: path}
		}
		return nil, fmt.Errorf("checking %s: %w", path, err)
	}

	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return readWorkbook(path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	t, err := Read(f, opts)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return t, nil
}

// Read parses delimited text with a header row.
func Read(r io.Reader, opts Options) (*Table, error) {
	br := bufio.NewReader(r)
	if b, err := br.Peek(len(bom)); err == nil && string(b) == bom {
		_, _ = br.Discard(len(bom))
	}

	cr := csv.NewReader(br)
	if opts.Delimiter != 0 {
		cr.Comma = opts.Delimiter
	}
	// Rows may be shorter or longer than the header; fromRecords pads them.
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parsing delimited data: %w", err)
	}
	return fromRecords(records)
}

func readWorkbook(path string) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening workbook %s: %w", path, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook %s has no sheets", path)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("reading sheet %q of %s: %w", sheets[0], path, err)
	}
	return fromRecords(rows)
}

// fromRecords turns raw records into a Table. The first record is the
// header; blank lines inside the data are skipped.
func fromRecords(records [][]string) (*Table, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("missing header row")
	}

	header := make([]string, len(records[0]))
	for i, h := range records[0] {
		if !utf8.ValidString(h) {
			return nil, fmt.Errorf("header column %d: invalid UTF-8", i+1)
		}
		header[i] = strings.TrimSpace(h)
	}

	t := &Table{Header: header, Rows: make([]types.Row, 0, len(records)-1)}
	for n, rec := range records[1:] {
		if isBlank(rec) {
			continue
		}
		// Documents are written as UTF-8.
		for i, c := range rec {
			if !utf8.ValidString(c) {
				col := fmt.Sprintf("%d", i+1)
				if i < len(header) && header[i] != "" {
					col = fmt.Sprintf("%q", header[i])
				}
				return nil, fmt.Errorf("record %d, column %s: invalid UTF-8", n+1, col)
			}
		}
		row := make(types.Row, len(header))
		for i, h := range header {
			if h == "" {
				continue
			}
			if i < len(rec) {
				row[h] = rec[i]
			} else {
				row[h] = ""
			}
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

func isBlank(rec []string) bool {
	for _, c := range rec {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
