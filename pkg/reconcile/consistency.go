package reconcile

import (
	"sort"

	"github.com/envaudit/envaudit/pkg/scan"
)

// CheckConsistency detects same-name/different-value drift across all
// observed assignments, documented or not. A name present in two or more
// files whose values are not all identical yields one Conflict listing
// every (file, value) pair for that name, sorted by file; the result is
// identical regardless of scan order.
func CheckConsistency(observed []scan.Assignment) []Conflict {
	byName := make(map[string][]FileValue)
	for _, a := range observed {
		byName[a.Name] = append(byName[a.Name], FileValue{File: a.File, Value: a.Value})
	}

	var conflicts []Conflict
	for name, pairs := range byName {
		if len(pairs) < 2 {
			continue
		}
		divergent := false
		for _, p := range pairs[1:] {
			if p.Value != pairs[0].Value {
				divergent = true
				break
			}
		}
		if !divergent {
			continue
		}
		sorted := append([]FileValue(nil), pairs...)
		sort.Slice(sorted, func(i, j int) bool { return sorted[i].File < sorted[j].File })
		conflicts = append(conflicts, Conflict{Name: name, Values: sorted})
	}

	sort.Slice(conflicts, func(i, j int) bool { return conflicts[i].Name < conflicts[j].Name })
	return conflicts
}
