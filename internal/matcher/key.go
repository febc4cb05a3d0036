// Package matcher cross-references workflow model references against the
// model inventory for ModelCheck.
package matcher

import (
	"path"
	"strings"
)

// Strategy derives a comparison key from a model or reference filename.
// Two filenames match under a strategy when their keys are equal.
type Strategy struct {
	Name string
	Key  func(filename string) string
}

// ExactKey returns the filename unchanged.
func ExactKey(filename string) string {
	return filename
}

// PathKey lowercases the filename and unifies path separators, so
// "FLUX\dev.safetensors" and "flux/DEV.safetensors" compare equal.
func PathKey(filename string) string {
	return strings.ToLower(strings.ReplaceAll(filename, "\\", "/"))
}

// BaseKey reduces the filename to its lowercased base name, matching
// references that carry a different directory prefix than the inventory.
func BaseKey(filename string) string {
	return path.Base(PathKey(filename))
}

// Strategies returns the match strategies in resolution order. Exact
// matching always runs first; the fuzzy fallbacks only apply when
// enabled.
func Strategies(fuzzy bool) []Strategy {
	strategies := []Strategy{{Name: "exact", Key: ExactKey}}
	if fuzzy {
		strategies = append(strategies,
			Strategy{Name: "path", Key: PathKey},
			Strategy{Name: "basename", Key: BaseKey},
		)
	}
	return strategies
}
