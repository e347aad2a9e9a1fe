package reconcile

import (
	"sort"

	"github.com/envaudit/envaudit/pkg/scan"
	"github.com/envaudit/envaudit/pkg/spec"
)

// Index is the read-only join of the parsed specification and the scanned
// assignments. It must be built only after both producers have fully
// completed; nothing mutates it afterward.
type Index struct {
	specs     []spec.VariableSpec
	values    map[fileKey]string
	locations map[string][]string
}

type fileKey struct {
	file string
	name string
}

// NewIndex builds the cross-reference index from completed parser and
// scanner output. The inputs are copied; later stages never see partial or
// mutated data.
func NewIndex(specs []spec.VariableSpec, observed []scan.Assignment) *Index {
	ix := &Index{
		specs:     append([]spec.VariableSpec(nil), specs...),
		values:    make(map[fileKey]string, len(observed)),
		locations: make(map[string][]string),
	}
	for _, a := range observed {
		key := fileKey{file: a.File, name: a.Name}
		if _, seen := ix.values[key]; !seen {
			ix.locations[a.Name] = append(ix.locations[a.Name], a.File)
		}
		ix.values[key] = a.Value
	}
	for _, files := range ix.locations {
		sort.Strings(files)
	}
	return ix
}

// Value answers "what value does name carry in file", reporting whether the
// assignment exists at all.
func (ix *Index) Value(file, name string) (string, bool) {
	v, ok := ix.values[fileKey{file: file, name: name}]
	return v, ok
}

// FilesContaining answers "where does this variable live", sorted.
func (ix *Index) FilesContaining(name string) []string {
	return append([]string(nil), ix.locations[name]...)
}

// Specs returns the documented variables in document order.
func (ix *Index) Specs() []spec.VariableSpec {
	return append([]spec.VariableSpec(nil), ix.specs...)
}
