package inventory

import (
	"strconv"

	"github.com/dbsmedya/modelcheck/internal/csvutil"
)

// csvHeader lists the columns emitted by WriteCSV, in order. safetensor_file
// mirrors filename for compatibility with consumers of the original listing
// format.
var csvHeader = []string{
	ColFilename,
	ColDirectory,
	ColFileDate,
	ColSizeBytes,
	ColSizeMB,
	ColSizeGB,
	ColSafetensorFile,
}

// WriteCSV writes records in the full seven-column inventory format.
func WriteCSV(path string, records []ModelRecord) error {
	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		rows = append(rows, []string{
			rec.Filename,
			rec.Directory,
			rec.FileDate,
			strconv.FormatInt(rec.SizeBytes, 10),
			FormatMB(rec.SizeBytes),
			FormatGB(rec.SizeBytes),
			rec.Filename,
		})
	}
	return csvutil.WriteFile(path, csvHeader, rows)
}
