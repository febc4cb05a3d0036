package inventory

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dbsmedya/modelcheck/internal/csvutil"
	"github.com/dbsmedya/modelcheck/internal/logger"
)

// Inventory CSV column names. size_mb, size_gb and safetensor_file are
// derived by the producer and ignored on load.
const (
	ColFilename       = "filename"
	ColDirectory      = "directory"
	ColFileDate       = "file_date"
	ColSizeBytes      = "size_bytes"
	ColSizeMB         = "size_mb"
	ColSizeGB         = "size_gb"
	ColSafetensorFile = "safetensor_file"
)

// RequiredColumns lists the columns an inventory file must declare.
var RequiredColumns = []string{ColFilename, ColDirectory, ColFileDate, ColSizeBytes}

// LoadResult carries the loaded records plus load statistics.
type LoadResult struct {
	Records     []ModelRecord
	RowsRead    int
	SkippedRows int
}

// TotalSizeBytes sums the sizes of all loaded records.
func (r *LoadResult) TotalSizeBytes() int64 {
	var total int64
	for _, rec := range r.Records {
		total += rec.SizeBytes
	}
	return total
}

// Loader reads inventory CSV files into ModelRecord sequences.
type Loader struct {
	logger *logger.Logger
}

// NewLoader creates an inventory loader.
func NewLoader(log *logger.Logger) *Loader {
	if log == nil {
		log = logger.NewDefault()
	}
	return &Loader{logger: log}
}

// Load reads the inventory file at path. Malformed rows are logged, skipped
// and counted; an unreadable file or a missing required column is fatal.
func (l *Loader) Load(path string) (*LoadResult, error) {
	table, err := csvutil.ReadTable(path, RequiredColumns...)
	if err != nil {
		return nil, err
	}

	log := l.logger.WithFile(path)
	result := &LoadResult{}

	for _, m := range table.Malformed {
		log.Warnw("Skipping unparsable row", "line", m.Line, "reason", m.Reason)
	}
	result.RowsRead += len(table.Malformed)
	result.SkippedRows += len(table.Malformed)

	for _, row := range table.Rows {
		result.RowsRead++
		rec, err := parseRow(table, row)
		if err != nil {
			log.Warnw("Skipping malformed row", "line", row.Line, "reason", err.Error())
			result.SkippedRows++
			continue
		}
		result.Records = append(result.Records, rec)
	}

	log.Infow("Loaded inventory",
		"records", len(result.Records),
		"skipped", result.SkippedRows,
	)
	return result, nil
}

func parseRow(t *csvutil.Table, row csvutil.Row) (ModelRecord, error) {
	filename, ok := t.Field(row, ColFilename)
	if !ok || strings.TrimSpace(filename) == "" {
		return ModelRecord{}, malformed(t, row, "missing filename")
	}
	dir, ok := t.Field(row, ColDirectory)
	if !ok {
		return ModelRecord{}, malformed(t, row, "missing directory")
	}
	date, ok := t.Field(row, ColFileDate)
	if !ok {
		return ModelRecord{}, malformed(t, row, "missing file_date")
	}
	sizeRaw, ok := t.Field(row, ColSizeBytes)
	if !ok {
		return ModelRecord{}, malformed(t, row, "missing size_bytes")
	}

	size, err := strconv.ParseInt(strings.TrimSpace(sizeRaw), 10, 64)
	if err != nil {
		return ModelRecord{}, malformed(t, row, fmt.Sprintf("size_bytes %q is not numeric", sizeRaw))
	}
	if size < 0 {
		return ModelRecord{}, malformed(t, row, fmt.Sprintf("size_bytes %d is negative", size))
	}

	return ModelRecord{
		Filename:  filename,
		Directory: dir,
		FileDate:  date,
		SizeBytes: size,
	}, nil
}

func malformed(t *csvutil.Table, row csvutil.Row, reason string) error {
	return csvutil.MalformedRowError{Path: t.Path, Line: row.Line, Reason: reason}
}
