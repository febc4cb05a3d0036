package matcher

import (
	"github.com/elliotchance/orderedmap/v2"

	"github.com/dbsmedya/modelcheck/internal/inventory"
	"github.com/dbsmedya/modelcheck/internal/logger"
	"github.com/dbsmedya/modelcheck/internal/reference"
)

// UsedModel pairs an inventory record with the references that resolved
// to it.
type UsedModel struct {
	Model          inventory.ModelRecord
	ReferenceCount int
	Workflows      []string // distinct, first-seen order
}

// Result partitions the inventory and references after matching. Every
// inventory record lands in exactly one of Used or Unused, and every
// reference record in exactly one of MatchedReferences or Missing.
type Result struct {
	Fuzzy             bool
	Used              []UsedModel
	Unused            []inventory.ModelRecord
	Missing           []reference.ReferenceRecord
	MatchedReferences int
}

// Matcher resolves references against an inventory using ordered key
// strategies.
type Matcher struct {
	strategies []Strategy
	fuzzy      bool
	logger     *logger.Logger
}

// NewMatcher creates a matcher. With fuzzy disabled only byte-exact
// filename equality counts as a match.
func NewMatcher(fuzzy bool, log *logger.Logger) *Matcher {
	if log == nil {
		log = logger.NewDefault()
	}
	return &Matcher{
		strategies: Strategies(fuzzy),
		fuzzy:      fuzzy,
		logger:     log,
	}
}

type usage struct {
	count     int
	workflows *orderedmap.OrderedMap[string, struct{}]
}

// Match resolves each reference against the inventory. Strategies apply
// in order and the first one that produces a hit wins; a single
// reference may resolve to several inventory records when their keys
// collide under that strategy.
func (m *Matcher) Match(models []inventory.ModelRecord, refs []reference.ReferenceRecord) *Result {
	log := m.logger.WithStage("matching")

	indexes := make([]map[string][]int, len(m.strategies))
	for si, strategy := range m.strategies {
		index := make(map[string][]int, len(models))
		for mi, model := range models {
			key := strategy.Key(model.Filename)
			index[key] = append(index[key], mi)
		}
		indexes[si] = index
	}

	result := &Result{Fuzzy: m.fuzzy}
	usages := make(map[int]*usage)

	for _, ref := range refs {
		matched := false
		for si, strategy := range m.strategies {
			hits := indexes[si][strategy.Key(ref.Filename)]
			if len(hits) == 0 {
				continue
			}
			for _, mi := range hits {
				u := usages[mi]
				if u == nil {
					u = &usage{workflows: orderedmap.NewOrderedMap[string, struct{}]()}
					usages[mi] = u
				}
				u.count += ref.ReferenceCount()
				for _, w := range ref.Workflows() {
					u.workflows.Set(w, struct{}{})
				}
			}
			log.Debugw("Resolved reference",
				"file", ref.Filename,
				"strategy", strategy.Name,
				"models", len(hits),
			)
			matched = true
			break
		}
		if matched {
			result.MatchedReferences++
		} else {
			result.Missing = append(result.Missing, ref)
		}
	}

	for mi, model := range models {
		u, used := usages[mi]
		if !used {
			result.Unused = append(result.Unused, model)
			continue
		}
		result.Used = append(result.Used, UsedModel{
			Model:          model,
			ReferenceCount: u.count,
			Workflows:      u.workflows.Keys(),
		})
	}

	log.Infow("Matching complete",
		"fuzzy", m.fuzzy,
		"used", len(result.Used),
		"unused", len(result.Unused),
		"missing", len(result.Missing),
	)
	return result
}
