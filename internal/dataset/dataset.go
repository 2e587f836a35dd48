// Package dataset loads uploaded ticket files into an in-memory table.
package dataset

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported file format")
	ErrEmpty             = errors.New("dataset has no columns")
)

// Format is the tabular encoding of an uploaded file.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// missingValues are cell contents treated as absent, matching the usual
// spreadsheet and dataframe conventions.
var missingValues = map[string]struct{}{
	"": {}, "#N/A": {}, "#N/A N/A": {}, "#NA": {}, "-1.#IND": {}, "-1.#QNAN": {},
	"-NaN": {}, "-nan": {}, "1.#IND": {}, "1.#QNAN": {}, "<NA>": {}, "N/A": {},
	"NA": {}, "NULL": {}, "NaN": {}, "None": {}, "n/a": {}, "nan": {}, "null": {},
}

// IsMissing reports whether a raw cell value represents a missing value.
func IsMissing(v string) bool {
	_, ok := missingValues[v]
	return ok
}

// Frame is a table of string cells with named columns. Every row has exactly
// len(Columns) cells.
type Frame struct {
	Columns []string
	Rows    [][]string
}

func (f *Frame) Len() int {
	if f == nil {
		return 0
	}
	return len(f.Rows)
}

// Column returns the values of the named column, top to bottom.
func (f *Frame) Column(name string) ([]string, bool) {
	if f == nil {
		return nil, false
	}
	idx := -1
	for i, c := range f.Columns {
		if c == name {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, false
	}
	out := make([]string, len(f.Rows))
	for i, row := range f.Rows {
		out[i] = row[idx]
	}
	return out, true
}

// DetectFormat picks the format from the file extension.
func DetectFormat(fileName string) (Format, error) {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".csv":
		return FormatCSV, nil
	case ".xlsx":
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("%w: %q (expected .csv or .xlsx)", ErrUnsupportedFormat, fileName)
	}
}

// Parse decodes data according to the extension of fileName.
func Parse(fileName string, data []byte) (*Frame, error) {
	format, err := DetectFormat(fileName)
	if err != nil {
		return nil, err
	}
	switch format {
	case FormatXLSX:
		return ParseXLSX(data)
	default:
		return ParseCSV(data)
	}
}

func ParseCSV(data []byte) (*Frame, error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))

	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("csv read: %w", err)
	}
	return newFrame(records)
}

// ParseXLSX reads the first worksheet of a workbook.
func ParseXLSX(data []byte) (*Frame, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("xlsx open: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmpty
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("xlsx read sheet %q: %w", sheets[0], err)
	}
	return newFrame(rows)
}

func newFrame(records [][]string) (*Frame, error) {
	if len(records) == 0 || len(records[0]) == 0 {
		return nil, ErrEmpty
	}

	columns := uniqueColumns(records[0])
	rows := make([][]string, 0, len(records)-1)
	for i, rec := range records[1:] {
		if len(rec) > len(columns) {
			return nil, fmt.Errorf("row %d has %d fields, header has %d", i+2, len(rec), len(columns))
		}
		row := make([]string, len(columns))
		copy(row, rec)
		rows = append(rows, row)
	}
	return &Frame{Columns: columns, Rows: rows}, nil
}

// uniqueColumns renames repeated headers to "name.1", "name.2", ...
func uniqueColumns(header []string) []string {
	seen := make(map[string]int, len(header))
	out := make([]string, len(header))
	for i, h := range header {
		name := h
		if name == "" {
			name = fmt.Sprintf("Unnamed: %d", i)
		}
		if n, ok := seen[name]; ok {
			seen[name] = n + 1
			name = fmt.Sprintf("%s.%d", name, n+1)
		} else {
			seen[name] = 0
		}
		out[i] = name
	}
	return out
}
