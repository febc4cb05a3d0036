package report

import (
	"fmt"
	"io"
	"os"

	"github.com/gookit/color"
)

// Console prints operator-facing status lines. Report files stay
// machine-readable; anything colored or decorated goes here.
type Console struct {
	out io.Writer
}

// NewConsole creates a console writer. A nil out defaults to stdout.
func NewConsole(out io.Writer) *Console {
	if out == nil {
		out = os.Stdout
	}
	return &Console{out: out}
}

// Section prints a banner like "=== Reports ===".
func (c *Console) Section(title string) {
	fmt.Fprintf(c.out, "\n%s\n", color.Bold.Sprintf("=== %s ===", title))
}

// Successf prints a checkmarked line.
func (c *Console) Successf(format string, args ...interface{}) {
	fmt.Fprintf(c.out, "%s %s\n", color.Green.Sprint("✅"), fmt.Sprintf(format, args...))
}

// Failuref prints a crossmarked line.
func (c *Console) Failuref(format string, args ...interface{}) {
	fmt.Fprintf(c.out, "%s %s\n", color.Red.Sprint("❌"), fmt.Sprintf(format, args...))
}

// Infof prints an informational line.
func (c *Console) Infof(format string, args ...interface{}) {
	fmt.Fprintf(c.out, "%s %s\n", color.Cyan.Sprint("ℹ️"), fmt.Sprintf(format, args...))
}

// Warnf prints a warning line.
func (c *Console) Warnf(format string, args ...interface{}) {
	fmt.Fprintf(c.out, "%s %s\n", color.Yellow.Sprint("⚠️"), fmt.Sprintf(format, args...))
}

// Printf prints without decoration.
func (c *Console) Printf(format string, args ...interface{}) {
	fmt.Fprintf(c.out, format, args...)
}

// Outcome prints one report write result.
func (c *Console) Outcome(o Outcome) {
	if o.Err != nil {
		c.Failuref("%s: %v", o.Name, o.Err)
		return
	}
	c.Successf("%s (%d rows)", o.Name, o.Rows)
}
