package reconcile

import "strings"

// Reconcile computes exactly one status for every documented variable:
//
//   - present and non-blank in the owning file -> FOUND
//   - present but blank after quote stripping -> EMPTY
//   - absent from the owning file, present elsewhere -> WRONG_FILE
//   - absent everywhere -> MISSING
//
// The computation reads the index and mutates nothing.
func Reconcile(ix *Index) []Finding {
	specs := ix.Specs()
	findings := make([]Finding, 0, len(specs))
	for _, vs := range specs {
		f := Finding{Spec: vs}

		if value, ok := ix.Value(vs.OwningFile, vs.Name); ok {
			if strings.TrimSpace(value) == "" {
				f.Status = StatusEmpty
			} else {
				f.Status = StatusFound
			}
		} else if elsewhere := otherLocations(ix, vs.Name, vs.OwningFile); len(elsewhere) > 0 {
			f.Status = StatusWrongFile
			f.FoundIn = elsewhere
		} else {
			f.Status = StatusMissing
		}

		findings = append(findings, f)
	}
	return findings
}

// ApplyConflicts attaches consistency-conflict detail to findings. A FOUND
// variable whose name diverges across files becomes INCONSISTENT; any other
// status is kept, so a WRONG_FILE result and a conflict for the same name
// surface as two independent signals.
func ApplyConflicts(findings []Finding, conflicts []Conflict) []Finding {
	byName := make(map[string]Conflict, len(conflicts))
	for _, c := range conflicts {
		byName[c.Name] = c
	}

	out := make([]Finding, len(findings))
	for i, f := range findings {
		if c, ok := byName[f.Spec.Name]; ok {
			f.Conflicting = c.Values
			if f.Status == StatusFound {
				f.Status = StatusInconsistent
			}
		}
		out[i] = f
	}
	return out
}

func otherLocations(ix *Index, name, owningFile string) []string {
	var out []string
	for _, file := range ix.FilesContaining(name) {
		if file != owningFile {
			out = append(out, file)
		}
	}
	return out
}
