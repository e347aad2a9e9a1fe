// Package report renders the outcome of a validation run.
//
// One markdown document carries the summary counts, a section per category
// (empty categories render an explicit "None"), accumulated warnings, and a
// final alphabetical table of every documented variable. Ordering is
// deterministic given identical inputs; only the timestamp differs between
// runs. A short lipgloss-styled summary is printed to the terminal.
package report
