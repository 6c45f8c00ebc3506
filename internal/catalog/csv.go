package catalog

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrBadHeader marks a CSV input whose header lacks a required column.
var ErrBadHeader = errors.New("csv header missing required column")

// ErrNoRows marks a CSV input with a header but no data.
var ErrNoRows = errors.New("csv has no data rows")

// Table is a parsed CSV with its columns located by header name.
type Table struct {
	columns map[string]int
	Rows    [][]string
}

// ReadTable parses data and locates the required columns, matched
// case-insensitively after trimming. A table needs a header and at least one
// data row.
func ReadTable(data []byte, required ...string) (*Table, error) {
	r := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, []byte("\ufeff"))))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	if len(records) < 2 {
		return nil, ErrNoRows
	}
	t := &Table{columns: make(map[string]int, len(records[0]))}
	for i, h := range records[0] {
		h = strings.ToLower(strings.TrimSpace(h))
		if _, dup := t.columns[h]; !dup {
			t.columns[h] = i
		}
	}
	var missing []string
	for _, name := range required {
		if _, ok := t.columns[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrBadHeader, strings.Join(missing, ", "))
	}
	t.Rows = records[1:]
	return t, nil
}

// Get returns the trimmed value of column in row, or "" when absent.
func (t *Table) Get(row []string, column string) string {
	i, ok := t.columns[column]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// WriteCSV renders rows with "\n" line endings, quoting fields that contain
// a quote, comma or newline.
func WriteCSV(w io.Writer, rows [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}

// EncodeCSV is WriteCSV into a byte slice.
func EncodeCSV(rows [][]string) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, rows); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
