// Package csvutil provides header-validated CSV table reading and report
// writing for ModelCheck.
package csvutil

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// HeaderError is returned when an input file's header row is absent or is
// missing required columns. It is fatal: the file cannot be processed at all.
type HeaderError struct {
	Path    string
	Missing []string
}

func (e *HeaderError) Error() string {
	return fmt.Sprintf("%s: missing required columns: %s", e.Path, strings.Join(e.Missing, ", "))
}

// MalformedRowError describes a single unusable data row. Rows with this
// error are skipped and counted, never fatal to the load.
type MalformedRowError struct {
	Path   string
	Line   int
	Reason string
}

func (e MalformedRowError) Error() string {
	return fmt.Sprintf("%s:%d: %s", e.Path, e.Line, e.Reason)
}

// Row is one data row together with its line number in the source file.
type Row struct {
	Line   int
	fields []string
}

// Table is a fully loaded delimited file with a validated header. Column
// access goes through the header-to-index lookup built at read time, so row
// field order never leaks into callers.
type Table struct {
	Path      string
	Header    []string
	Rows      []Row
	Malformed []MalformedRowError

	columns map[string]int
}

// ReadTable loads a CSV file into memory and verifies that every required
// column appears in the header row. Rows that fail CSV parsing (broken
// quoting) are recorded in Malformed and skipped; a missing file or missing
// required column is a fatal error.
func ReadTable(path string, required ...string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	// Row width is validated per field via the header lookup instead.
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		if err == io.EOF {
			return nil, &HeaderError{Path: path, Missing: required}
		}
		return nil, fmt.Errorf("failed to read header of %s: %w", path, err)
	}

	t := &Table{
		Path:    path,
		Header:  header,
		columns: make(map[string]int, len(header)),
	}
	for i, name := range header {
		t.columns[strings.TrimSpace(name)] = i
	}

	var missing []string
	for _, name := range required {
		if _, ok := t.columns[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, &HeaderError{Path: path, Missing: missing}
	}

	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				t.Malformed = append(t.Malformed, MalformedRowError{
					Path:   path,
					Line:   pe.Line,
					Reason: pe.Err.Error(),
				})
				continue
			}
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		line, _ := r.FieldPos(0)
		t.Rows = append(t.Rows, Row{Line: line, fields: rec})
	}

	return t, nil
}

// Field returns the named column's value for a row. The second return is
// false when the column does not exist or the row is too short to carry it.
func (t *Table) Field(row Row, column string) (string, bool) {
	idx, ok := t.columns[column]
	if !ok || idx >= len(row.fields) {
		return "", false
	}
	return row.fields[idx], true
}

// HasColumn reports whether the header declares the named column.
func (t *Table) HasColumn(column string) bool {
	_, ok := t.columns[column]
	return ok
}
