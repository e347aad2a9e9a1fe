package spec

import (
	"fmt"
	"strings"
)

// Format identifies the documented value format of a variable.
type Format string

const (
	FormatBase64  Format = "BASE64"
	FormatHex     Format = "HEX"
	FormatURL     Format = "URL"
	FormatHost    Format = "HOST"
	FormatPort    Format = "PORT"
	FormatPlain   Format = "PLAIN"
	FormatUnknown Format = "UNKNOWN"
)

// ParseFormat maps a format tag from the specification document to a Format.
// Unrecognized tags map to FormatUnknown; they are not an error and fall
// through classification to ActionManual.
func ParseFormat(s string) Format {
	switch Format(strings.ToUpper(strings.TrimSpace(s))) {
	case FormatBase64:
		return FormatBase64
	case FormatHex:
		return FormatHex
	case FormatURL:
		return FormatURL
	case FormatHost:
		return FormatHost
	case FormatPort:
		return FormatPort
	case FormatPlain:
		return FormatPlain
	default:
		return FormatUnknown
	}
}

// Action is the remediation a variable requires when it is missing or wrong.
type Action string

const (
	// ActionCreate means a fresh secure value must be generated for this
	// specific file.
	ActionCreate Action = "CREATE"

	// ActionSeed means the value is propagated from one canonical source
	// (the secrets file or the network topology), never freshly minted.
	ActionSeed Action = "SEED"

	// ActionManual means a human must supply the value.
	ActionManual Action = "MANUAL"
)

// Category is an optional explicit classification tag carried by a table
// row. When present it bypasses keyword-based action inference.
type Category string

const (
	CategoryNone     Category = ""
	CategorySecret   Category = "secret"
	CategoryTopology Category = "topology"
	CategoryIdentity Category = "identity"
	CategoryManual   Category = "manual"
)

// ParseCategory maps a category cell to a Category. Unrecognized values map
// to CategoryNone so the keyword classifier takes over.
func ParseCategory(s string) Category {
	switch Category(strings.ToLower(strings.TrimSpace(s))) {
	case CategorySecret:
		return CategorySecret
	case CategoryTopology:
		return CategoryTopology
	case CategoryIdentity:
		return CategoryIdentity
	case CategoryManual:
		return CategoryManual
	default:
		return CategoryNone
	}
}

// VariableSpec is one documented expected configuration entry.
type VariableSpec struct {
	// Name is the variable name as documented.
	Name string `json:"name" validate:"required"`

	// Format is the documented value format tag.
	Format Format `json:"format"`

	// OwningFile is the config domain the specification assigns the
	// variable to (e.g. ".env.foundation").
	OwningFile string `json:"owning_file" validate:"required"`

	// Description is the documented free-text description.
	Description string `json:"description,omitempty"`

	// Category is the explicit classification tag, when documented.
	Category Category `json:"category,omitempty"`

	// Action is the remediation assigned by the classifier.
	Action Action `json:"action" validate:"required,oneof=CREATE SEED MANUAL"`
}

// Warning records a recoverable problem encountered while parsing the
// specification document.
type Warning struct {
	// Line is the 1-indexed line number in the source document.
	Line int `json:"line"`

	// Message describes the problem.
	Message string `json:"message"`
}

func (w Warning) String() string {
	return fmt.Sprintf("spec line %d: %s", w.Line, w.Message)
}

// Document is the parsed specification document.
type Document struct {
	// Specs are the documented variables in document order, keyed by
	// (OwningFile, Name). A later row for the same pair within one domain
	// overwrites the earlier one; the same name under a second domain is
	// kept as an independent entry.
	Specs []VariableSpec `json:"specs"`

	// Warnings are the recoverable parse problems, in document order.
	Warnings []Warning `json:"warnings,omitempty"`

	// Duplicates lists names documented under more than one domain, sorted.
	Duplicates []string `json:"duplicates,omitempty"`

	// SourcePath is the document the specs were parsed from.
	SourcePath string `json:"source_path"`
}
