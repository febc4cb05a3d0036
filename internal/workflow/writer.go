package workflow

import (
	"github.com/dbsmedya/modelcheck/internal/csvutil"
)

var csvHeader = []string{"referenced_file", "workflow_file", "workflow_directory", "node_name"}

// WriteCSV writes extracted reference rows in the references CSV format
// the checker consumes.
func WriteCSV(path string, rows []Row) error {
	records := make([][]string, 0, len(rows))
	for _, r := range rows {
		records = append(records, []string{r.ReferencedFile, r.Workflow, r.WorkflowDir, r.Node})
	}
	return csvutil.WriteFile(path, csvHeader, records)
}
