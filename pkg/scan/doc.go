// Package scan reads the generated .env files into observed assignments.
//
// Files matching the domain-prefix naming convention are read in parallel,
// each worker producing an isolated result that is merged only after every
// worker has finished, so no consumer ever sees a partial scan. Line
// handling follows shell-sourcing semantics: comments and blank lines are
// skipped, a line splits on its first '=', one layer of surrounding quotes
// is stripped, and the last assignment of a name within a file wins.
//
// Multi-line values (continuations, heredocs) are not supported; each
// physical line is an independent record.
package scan
