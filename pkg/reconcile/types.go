package reconcile

import "github.com/envaudit/envaudit/pkg/spec"

// Status is the reconciliation outcome for one documented variable.
// Every spec entry receives exactly one status.
type Status string

const (
	// StatusFound: a non-blank value exists in the owning file.
	StatusFound Status = "FOUND"

	// StatusMissing: the variable is absent from every scanned file.
	StatusMissing Status = "MISSING"

	// StatusEmpty: the owning file defines the variable with a blank or
	// whitespace-only value.
	StatusEmpty Status = "EMPTY"

	// StatusWrongFile: the variable is absent from its owning file but
	// defined somewhere else.
	StatusWrongFile Status = "WRONG_FILE"

	// StatusInconsistent: the variable is present in its owning file but
	// carries divergent values across files.
	StatusInconsistent Status = "INCONSISTENT"
)

// Finding pairs a documented variable with its reconciliation outcome.
type Finding struct {
	// Spec is the documented variable.
	Spec spec.VariableSpec `json:"spec"`

	// Status is the reconciliation outcome.
	Status Status `json:"status"`

	// FoundIn lists where the variable was actually observed: the files
	// holding it when the owning file lacks it, sorted.
	FoundIn []string `json:"found_in,omitempty"`

	// Conflicting lists the divergent (file, value) pairs when the name is
	// inconsistent across files.
	Conflicting []FileValue `json:"conflicting,omitempty"`
}

// FileValue is one (file, value) pair in a consistency conflict.
type FileValue struct {
	File  string `json:"file"`
	Value string `json:"value"`
}

// Conflict records a name carrying divergent values across files. Every
// (file, value) pair for the name is listed, sorted by file, so the detail
// is symmetric regardless of scan order.
type Conflict struct {
	Name   string      `json:"name"`
	Values []FileValue `json:"values"`
}
