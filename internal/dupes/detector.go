// Package dupes detects duplicate model files in a ModelCheck inventory.
//
// Three independent groupings run over the same records: exact duplicates
// share both name and size, name duplicates share a name across differing
// sizes, and size duplicates share a size across differing names.
package dupes

import (
	"sort"
	"strconv"
	"strings"

	"github.com/elliotchance/orderedmap/v2"

	"github.com/dbsmedya/modelcheck/internal/inventory"
	"github.com/dbsmedya/modelcheck/internal/logger"
)

// Group is a set of inventory records considered duplicates of each
// other under one grouping. WastedBytes is only set for exact groups,
// where all members share a size.
type Group struct {
	ID          int
	Instances   int
	Members     []inventory.ModelRecord
	WastedBytes int64
}

// Result holds the three groupings. A record may appear in more than
// one grouping; within a grouping it appears in at most one group.
type Result struct {
	Exact            []Group
	ByName           []Group
	BySize           []Group
	TotalWastedBytes int64
}

// TopWasted returns up to n exact groups ordered by wasted bytes,
// largest first. Ties keep their detection order.
func (r *Result) TopWasted(n int) []Group {
	if n <= 0 || len(r.Exact) == 0 {
		return nil
	}
	top := make([]Group, len(r.Exact))
	copy(top, r.Exact)
	sort.SliceStable(top, func(i, j int) bool {
		return top[i].WastedBytes > top[j].WastedBytes
	})
	if len(top) > n {
		top = top[:n]
	}
	return top
}

// Detector groups inventory records into duplicate sets.
type Detector struct {
	logger *logger.Logger
}

// NewDetector creates a duplicate detector.
func NewDetector(log *logger.Logger) *Detector {
	if log == nil {
		log = logger.NewDefault()
	}
	return &Detector{logger: log}
}

// Detect runs all three groupings over the inventory. Name comparison
// is case-insensitive throughout.
func (d *Detector) Detect(models []inventory.ModelRecord) *Result {
	log := d.logger.WithStage("duplicates")

	result := &Result{
		Exact:  d.exactGroups(models),
		ByName: d.nameGroups(models),
		BySize: d.sizeGroups(models),
	}
	for _, g := range result.Exact {
		result.TotalWastedBytes += g.WastedBytes
	}

	log.Infow("Duplicate detection complete",
		"models", len(models),
		"exact_groups", len(result.Exact),
		"name_groups", len(result.ByName),
		"size_groups", len(result.BySize),
		"wasted_gb", inventory.BytesToGB(result.TotalWastedBytes),
	)
	return result
}

// exactGroups keys on lowercased filename plus byte size. Every member
// of a group is interchangeable content-wise as far as the inventory
// can tell, so all but one copy count as wasted space.
func (d *Detector) exactGroups(models []inventory.ModelRecord) []Group {
	buckets := orderedmap.NewOrderedMap[string, []inventory.ModelRecord]()
	for _, m := range models {
		key := strings.ToLower(m.Filename) + "\x00" + strconv.FormatInt(m.SizeBytes, 10)
		members, _ := buckets.Get(key)
		buckets.Set(key, append(members, m))
	}

	var groups []Group
	for el := buckets.Front(); el != nil; el = el.Next() {
		members := el.Value
		if len(members) < 2 {
			continue
		}
		groups = append(groups, Group{
			ID:          len(groups) + 1,
			Instances:   len(members),
			Members:     members,
			WastedBytes: int64(len(members)-1) * members[0].SizeBytes,
		})
	}
	return groups
}

// nameGroups keys on lowercased filename alone and keeps only groups
// whose members disagree on size. Same-size copies already surface as
// exact duplicates.
func (d *Detector) nameGroups(models []inventory.ModelRecord) []Group {
	buckets := orderedmap.NewOrderedMap[string, []inventory.ModelRecord]()
	for _, m := range models {
		key := strings.ToLower(m.Filename)
		members, _ := buckets.Get(key)
		buckets.Set(key, append(members, m))
	}

	var groups []Group
	for el := buckets.Front(); el != nil; el = el.Next() {
		members := el.Value
		if len(members) < 2 {
			continue
		}
		sizes := make(map[int64]struct{}, len(members))
		for _, m := range members {
			sizes[m.SizeBytes] = struct{}{}
		}
		if len(sizes) < 2 {
			continue
		}
		groups = append(groups, Group{
			ID:        len(groups) + 1,
			Instances: len(members),
			Members:   members,
		})
	}
	return groups
}

// sizeGroups keys on byte size alone and keeps only groups whose
// members disagree on name. These are rename candidates rather than
// certain copies.
func (d *Detector) sizeGroups(models []inventory.ModelRecord) []Group {
	buckets := orderedmap.NewOrderedMap[int64, []inventory.ModelRecord]()
	for _, m := range models {
		members, _ := buckets.Get(m.SizeBytes)
		buckets.Set(m.SizeBytes, append(members, m))
	}

	var groups []Group
	for el := buckets.Front(); el != nil; el = el.Next() {
		members := el.Value
		if len(members) < 2 {
			continue
		}
		names := make(map[string]struct{}, len(members))
		for _, m := range members {
			names[strings.ToLower(m.Filename)] = struct{}{}
		}
		if len(names) < 2 {
			continue
		}
		groups = append(groups, Group{
			ID:        len(groups) + 1,
			Instances: len(members),
			Members:   members,
		})
	}
	return groups
}
