package report

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dbsmedya/modelcheck/internal/dupes"
	"github.com/dbsmedya/modelcheck/internal/inventory"
	"github.com/dbsmedya/modelcheck/internal/matcher"
	"github.com/dbsmedya/modelcheck/internal/reference"
)

// Summary aggregates one run's statistics for summary.txt.
type Summary struct {
	GeneratedAt time.Time
	RunID       string
	Fuzzy       bool

	Models           int
	TotalSizeBytes   int64
	InventorySkipped int

	ReferencedFiles  int
	TotalOccurrences int
	ReferenceSkipped int

	Used            int
	Unused          int
	Missing         int
	UnusedSizeBytes int64

	ExactGroups int
	NameGroups  int
	SizeGroups  int
	WastedBytes int64
	TopWasted   []dupes.Group

	Suggestions []matcher.Suggestion
}

// BuildSummary assembles the run summary from the pipeline results.
func BuildSummary(runID string, inv *inventory.LoadResult, refs *reference.LoadResult, match *matcher.Result, dup *dupes.Result, topGroups int, suggestions []matcher.Suggestion) *Summary {
	s := &Summary{
		GeneratedAt: time.Now(),
		RunID:       runID,
	}

	if inv != nil {
		s.Models = len(inv.Records)
		s.TotalSizeBytes = inv.TotalSizeBytes()
		s.InventorySkipped = inv.SkippedRows
	}
	if refs != nil {
		s.ReferencedFiles = len(refs.Records)
		s.TotalOccurrences = refs.TotalOccurrences()
		s.ReferenceSkipped = refs.SkippedRows
	}
	if match != nil {
		s.Fuzzy = match.Fuzzy
		s.Used = len(match.Used)
		s.Unused = len(match.Unused)
		s.Missing = len(match.Missing)
		for _, m := range match.Unused {
			s.UnusedSizeBytes += m.SizeBytes
		}
	}
	if dup != nil {
		s.ExactGroups = len(dup.Exact)
		s.NameGroups = len(dup.ByName)
		s.SizeGroups = len(dup.BySize)
		s.WastedBytes = dup.TotalWastedBytes
		s.TopWasted = dup.TopWasted(topGroups)
	}
	s.Suggestions = suggestions

	return s
}

// Render produces the summary.txt contents.
func (s *Summary) Render() string {
	var b strings.Builder

	fmt.Fprintf(&b, "=== ModelCheck Summary ===\n")
	fmt.Fprintf(&b, "Generated: %s\n", s.GeneratedAt.Format("2006-01-02 15:04:05"))
	if s.RunID != "" {
		fmt.Fprintf(&b, "Run ID: %s\n", s.RunID)
	}
	mode := "exact"
	if s.Fuzzy {
		mode = "fuzzy"
	}
	fmt.Fprintf(&b, "Matching mode: %s\n", mode)

	fmt.Fprintf(&b, "\nInventory:\n")
	fmt.Fprintf(&b, "  Models: %d\n", s.Models)
	fmt.Fprintf(&b, "  Total size: %s GB\n", inventory.FormatGB(s.TotalSizeBytes))
	fmt.Fprintf(&b, "  Skipped rows: %d\n", s.InventorySkipped)

	fmt.Fprintf(&b, "\nReferences:\n")
	fmt.Fprintf(&b, "  Referenced files: %d\n", s.ReferencedFiles)
	fmt.Fprintf(&b, "  Total occurrences: %d\n", s.TotalOccurrences)
	fmt.Fprintf(&b, "  Skipped rows: %d\n", s.ReferenceSkipped)

	fmt.Fprintf(&b, "\nMatching:\n")
	fmt.Fprintf(&b, "  Used models: %d\n", s.Used)
	fmt.Fprintf(&b, "  Unused models: %d\n", s.Unused)
	fmt.Fprintf(&b, "  Missing references: %d\n", s.Missing)
	fmt.Fprintf(&b, "  Unused size: %s GB\n", inventory.FormatGB(s.UnusedSizeBytes))
	if s.Missing == 0 {
		fmt.Fprintf(&b, "  No missing models: every referenced model is present\n")
	}

	fmt.Fprintf(&b, "\nDuplicates:\n")
	fmt.Fprintf(&b, "  Exact groups: %d\n", s.ExactGroups)
	fmt.Fprintf(&b, "  Name groups (differing sizes): %d\n", s.NameGroups)
	fmt.Fprintf(&b, "  Size groups (differing names): %d\n", s.SizeGroups)
	fmt.Fprintf(&b, "  Wasted space: %s GB\n", inventory.FormatGB(s.WastedBytes))
	if s.ExactGroups == 0 && s.NameGroups == 0 && s.SizeGroups == 0 {
		fmt.Fprintf(&b, "  No duplicate models found\n")
	}

	if len(s.TopWasted) > 0 {
		fmt.Fprintf(&b, "\nTop duplicate groups by wasted space:\n")
		b.WriteString(TopWastedTable(s.TopWasted))
	}

	if len(s.Suggestions) > 0 {
		fmt.Fprintf(&b, "\nMissing models with close inventory names:\n")
		for _, sug := range s.Suggestions {
			fmt.Fprintf(&b, "  %s\n", sug.Reference.Filename)
			for _, c := range sug.Candidates {
				fmt.Fprintf(&b, "    - %s\n", c)
			}
		}
	}

	return b.String()
}

// TopWastedTable renders duplicate groups as an aligned table, one row
// per group.
func TopWastedTable(groups []dupes.Group) string {
	table := NewTable("Group", "Instances", "Filename", "Size", "Wasted")
	for _, g := range groups {
		size := int64(0)
		name := ""
		if len(g.Members) > 0 {
			size = g.Members[0].SizeBytes
			name = g.Members[0].Filename
		}
		table.AddRow(
			strconv.Itoa(g.ID),
			strconv.Itoa(g.Instances),
			name,
			inventory.FormatGB(size)+" GB",
			inventory.FormatGB(g.WastedBytes)+" GB",
		)
	}
	return table.Render()
}
