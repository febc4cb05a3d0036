// Package report renders and writes ModelCheck output reports.
//
// Every report writes independently: one failing file never blocks the
// others, and callers decide the exit code from the collected outcomes.
package report

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dbsmedya/modelcheck/internal/csvutil"
	"github.com/dbsmedya/modelcheck/internal/dupes"
	"github.com/dbsmedya/modelcheck/internal/inventory"
	"github.com/dbsmedya/modelcheck/internal/logger"
	"github.com/dbsmedya/modelcheck/internal/matcher"
	"github.com/dbsmedya/modelcheck/internal/reference"
)

// Report file names written into the output directory.
const (
	MissingModelsFile   = "missing_models.csv"
	UnusedModelsFile    = "unused_models.csv"
	UsedModelsFile      = "used_models.csv"
	ExactDuplicatesFile = "exact_duplicates.csv"
	NameDuplicatesFile  = "name_duplicates.csv"
	SizeDuplicatesFile  = "size_duplicates.csv"
	SummaryFile         = "summary.txt"
)

var (
	missingHeader   = []string{"referenced_file", "workflow_file", "workflow_directory", "node_name"}
	unusedHeader    = []string{"filename", "directory", "file_date", "size_gb"}
	usedHeader      = []string{"filename", "directory", "size_gb", "reference_count", "workflows"}
	duplicateHeader = []string{"duplicate_group", "instances", "filename", "directory", "file_date", "size_gb"}
)

// Outcome records the result of writing one report file.
type Outcome struct {
	Name string
	Path string
	Rows int
	Err  error
}

// Writer writes report files into a single output directory.
type Writer struct {
	outputDir string
	logger    *logger.Logger
}

// NewWriter creates a report writer for the given output directory.
func NewWriter(outputDir string, log *logger.Logger) *Writer {
	if log == nil {
		log = logger.NewDefault()
	}
	return &Writer{outputDir: outputDir, logger: log}
}

// OutputDir returns the directory reports are written into.
func (w *Writer) OutputDir() string {
	return w.outputDir
}

// EnsureOutputDir creates the output directory if needed.
func (w *Writer) EnsureOutputDir() error {
	return os.MkdirAll(w.outputDir, 0755)
}

// MissingModels writes one row per reference occurrence whose file was
// not found in the inventory.
func (w *Writer) MissingModels(missing []reference.ReferenceRecord) Outcome {
	var rows [][]string
	for _, rec := range missing {
		for _, occ := range rec.Occurrences {
			rows = append(rows, []string{rec.Filename, occ.Workflow, occ.WorkflowDir, occ.Node})
		}
	}
	return w.write(MissingModelsFile, missingHeader, rows)
}

// UnusedModels writes inventory records no workflow references.
func (w *Writer) UnusedModels(unused []inventory.ModelRecord) Outcome {
	rows := make([][]string, 0, len(unused))
	for _, m := range unused {
		rows = append(rows, []string{m.Filename, m.Directory, m.FileDate, inventory.FormatGB(m.SizeBytes)})
	}
	return w.write(UnusedModelsFile, unusedHeader, rows)
}

// UsedModels writes inventory records with their reference counts and
// the workflows that use them.
func (w *Writer) UsedModels(used []matcher.UsedModel) Outcome {
	rows := make([][]string, 0, len(used))
	for _, u := range used {
		rows = append(rows, []string{
			u.Model.Filename,
			u.Model.Directory,
			inventory.FormatGB(u.Model.SizeBytes),
			strconv.Itoa(u.ReferenceCount),
			strings.Join(u.Workflows, ", "),
		})
	}
	return w.write(UsedModelsFile, usedHeader, rows)
}

// ExactDuplicates writes groups sharing both name and size.
func (w *Writer) ExactDuplicates(groups []dupes.Group) Outcome {
	return w.write(ExactDuplicatesFile, duplicateHeader, duplicateRows(groups))
}

// NameDuplicates writes groups sharing a name across differing sizes.
func (w *Writer) NameDuplicates(groups []dupes.Group) Outcome {
	return w.write(NameDuplicatesFile, duplicateHeader, duplicateRows(groups))
}

// SizeDuplicates writes groups sharing a size across differing names.
func (w *Writer) SizeDuplicates(groups []dupes.Group) Outcome {
	return w.write(SizeDuplicatesFile, duplicateHeader, duplicateRows(groups))
}

// Summary writes the rendered run summary.
func (w *Writer) Summary(s *Summary) Outcome {
	path := filepath.Join(w.outputDir, SummaryFile)
	outcome := Outcome{Name: SummaryFile, Path: path, Rows: 1}
	if err := os.WriteFile(path, []byte(s.Render()), 0644); err != nil {
		outcome.Err = err
		w.logger.Errorw("Failed to write report", "file", path, "error", err)
		return outcome
	}
	w.logger.Infow("Wrote report", "file", path)
	return outcome
}

func duplicateRows(groups []dupes.Group) [][]string {
	var rows [][]string
	for _, g := range groups {
		for _, m := range g.Members {
			rows = append(rows, []string{
				strconv.Itoa(g.ID),
				strconv.Itoa(g.Instances),
				m.Filename,
				m.Directory,
				m.FileDate,
				inventory.FormatGB(m.SizeBytes),
			})
		}
	}
	return rows
}

func (w *Writer) write(name string, header []string, rows [][]string) Outcome {
	path := filepath.Join(w.outputDir, name)
	outcome := Outcome{Name: name, Path: path, Rows: len(rows)}
	if err := csvutil.WriteFile(path, header, rows); err != nil {
		outcome.Err = err
		w.logger.Errorw("Failed to write report", "file", path, "error", err)
		return outcome
	}
	w.logger.Infow("Wrote report", "file", path, "rows", len(rows))
	return outcome
}
