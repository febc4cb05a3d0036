// Package reference loads workflow model references for ModelCheck.
package reference

import (
	"github.com/elliotchance/orderedmap/v2"
)

// Occurrence is one raw reference row: a workflow file naming the model and
// the node inside it that used the name.
type Occurrence struct {
	Workflow    string
	WorkflowDir string
	Node        string
}

// ReferenceRecord aggregates every occurrence of one distinct referenced
// filename. Aggregation keys on the byte-exact filename; fuzzy equivalence
// is the matcher's business. Records are read-only after loading.
type ReferenceRecord struct {
	Filename    string
	Occurrences []Occurrence
}

// ReferenceCount is the number of raw reference rows behind this record.
func (r ReferenceRecord) ReferenceCount() int {
	return len(r.Occurrences)
}

// Workflows returns the distinct workflow identifiers in first-seen order.
func (r ReferenceRecord) Workflows() []string {
	seen := orderedmap.NewOrderedMap[string, struct{}]()
	for _, occ := range r.Occurrences {
		seen.Set(occ.Workflow, struct{}{})
	}
	return seen.Keys()
}
