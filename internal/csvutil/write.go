package csvutil

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
)

// WriteFile renders a header row plus data rows as CSV and writes the result
// to path in one complete write, so a report file is never left half-written.
func WriteFile(path string, header []string, rows [][]string) error {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(header); err != nil {
		return fmt.Errorf("failed to encode header: %w", err)
	}
	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to encode rows: %w", err)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
