package matcher

import (
	"path"

	"github.com/sahilm/fuzzy"

	"github.com/dbsmedya/modelcheck/internal/inventory"
	"github.com/dbsmedya/modelcheck/internal/reference"
)

// Suggestion pairs an unresolved reference with its closest inventory
// filenames.
type Suggestion struct {
	Reference  reference.ReferenceRecord
	Candidates []string // best first
}

type modelSource []inventory.ModelRecord

func (s modelSource) String(i int) string { return s[i].Filename }
func (s modelSource) Len() int            { return len(s) }

// Suggestions ranks inventory filenames against each missing reference
// and keeps up to limit candidates per reference. References with no
// plausible candidate are omitted.
func Suggestions(missing []reference.ReferenceRecord, models []inventory.ModelRecord, limit int) []Suggestion {
	if limit <= 0 || len(models) == 0 {
		return nil
	}

	source := modelSource(models)
	var suggestions []Suggestion
	for _, ref := range missing {
		pattern := path.Base(PathKey(ref.Filename))
		matches := fuzzy.FindFrom(pattern, source)
		if len(matches) == 0 {
			continue
		}

		n := limit
		if len(matches) < n {
			n = len(matches)
		}
		candidates := make([]string, 0, n)
		for _, m := range matches[:n] {
			candidates = append(candidates, models[m.Index].Filename)
		}
		suggestions = append(suggestions, Suggestion{Reference: ref, Candidates: candidates})
	}
	return suggestions
}
