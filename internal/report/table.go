package report

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// Table renders rows as aligned plain-text columns. Widths are measured
// with runewidth so filenames containing wide runes keep the columns
// straight.
type Table struct {
	headers []string
	rows    [][]string
}

// NewTable creates a table with the given column headers.
func NewTable(headers ...string) *Table {
	return &Table{headers: headers}
}

// AddRow appends one row. Cells beyond the header count are ignored at
// render time.
func (t *Table) AddRow(cells ...string) {
	t.rows = append(t.rows, cells)
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// Render produces the aligned table, ending with a newline.
func (t *Table) Render() string {
	widths := make([]int, len(t.headers))
	for i, h := range t.headers {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, row := range t.rows {
		for i, cell := range row {
			if i >= len(widths) {
				break
			}
			if w := runewidth.StringWidth(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}

	var b strings.Builder
	writeRow := func(cells []string) {
		n := len(cells)
		if n > len(widths) {
			n = len(widths)
		}
		for i := 0; i < n; i++ {
			if i > 0 {
				b.WriteString("  ")
			}
			b.WriteString(cells[i])
			if i < n-1 {
				if pad := widths[i] - runewidth.StringWidth(cells[i]); pad > 0 {
					b.WriteString(strings.Repeat(" ", pad))
				}
			}
		}
		b.WriteByte('\n')
	}

	writeRow(t.headers)
	separators := make([]string, len(widths))
	for i, w := range widths {
		separators[i] = strings.Repeat("-", w)
	}
	writeRow(separators)
	for _, row := range t.rows {
		writeRow(row)
	}
	return b.String()
}
