package reference

import (
	"strings"

	"github.com/elliotchance/orderedmap/v2"

	"github.com/dbsmedya/modelcheck/internal/csvutil"
	"github.com/dbsmedya/modelcheck/internal/logger"
)

// Reference CSV column names.
const (
	ColReferencedFile    = "referenced_file"
	ColWorkflowFile      = "workflow_file"
	ColWorkflowDirectory = "workflow_directory"
	ColNodeName          = "node_name"
)

// RequiredColumns lists the columns a references file must declare.
var RequiredColumns = []string{ColReferencedFile, ColWorkflowFile, ColWorkflowDirectory, ColNodeName}

// LoadResult carries the aggregated records plus load statistics.
type LoadResult struct {
	Records     []ReferenceRecord // first-seen filename order
	RowsRead    int
	SkippedRows int
}

// TotalOccurrences sums raw occurrence rows across all records.
func (r *LoadResult) TotalOccurrences() int {
	total := 0
	for _, rec := range r.Records {
		total += rec.ReferenceCount()
	}
	return total
}

// Loader reads reference CSV files into aggregated ReferenceRecord
// sequences.
type Loader struct {
	logger *logger.Logger
}

// NewLoader creates a reference loader.
func NewLoader(log *logger.Logger) *Loader {
	if log == nil {
		log = logger.NewDefault()
	}
	return &Loader{logger: log}
}

// Load reads the references file at path, merging rows that share a
// filename into one record. Two rows with the same filename but different
// workflow or node both land in that record's occurrence list. Malformed
// rows are logged, skipped and counted.
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

	records := orderedmap.NewOrderedMap[string, *ReferenceRecord]()

	for _, row := range table.Rows {
		result.RowsRead++

		occ, filename, err := parseRow(table, row)
		if err != nil {
			log.Warnw("Skipping malformed row", "line", row.Line, "reason", err.Error())
			result.SkippedRows++
			continue
		}

		rec, exists := records.Get(filename)
		if !exists {
			rec = &ReferenceRecord{Filename: filename}
			records.Set(filename, rec)
		}
		rec.Occurrences = append(rec.Occurrences, occ)
	}

	for el := records.Front(); el != nil; el = el.Next() {
		result.Records = append(result.Records, *el.Value)
	}

	log.Infow("Loaded references",
		"files", len(result.Records),
		"rows", result.RowsRead,
		"skipped", result.SkippedRows,
	)
	return result, nil
}

func parseRow(t *csvutil.Table, row csvutil.Row) (Occurrence, string, error) {
	filename, ok := t.Field(row, ColReferencedFile)
	if !ok || strings.TrimSpace(filename) == "" {
		return Occurrence{}, "", csvutil.MalformedRowError{Path: t.Path, Line: row.Line, Reason: "missing referenced_file"}
	}
	workflow, ok := t.Field(row, ColWorkflowFile)
	if !ok {
		return Occurrence{}, "", csvutil.MalformedRowError{Path: t.Path, Line: row.Line, Reason: "missing workflow_file"}
	}
	workflowDir, ok := t.Field(row, ColWorkflowDirectory)
	if !ok {
		return Occurrence{}, "", csvutil.MalformedRowError{Path: t.Path, Line: row.Line, Reason: "missing workflow_directory"}
	}
	node, ok := t.Field(row, ColNodeName)
	if !ok {
		return Occurrence{}, "", csvutil.MalformedRowError{Path: t.Path, Line: row.Line, Reason: "missing node_name"}
	}

	return Occurrence{
		Workflow:    workflow,
		WorkflowDir: workflowDir,
		Node:        node,
	}, filename, nil
}
