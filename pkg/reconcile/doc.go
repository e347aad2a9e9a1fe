// Package reconcile cross-references the documented variable specification
// against the assignments observed in the generated .env files.
//
// The Index is a read-only join built once, after both the parser and the
// scanner have completed. Reconcile assigns exactly one status to every
// documented variable; CheckConsistency independently detects names that
// carry divergent values across files, whether documented or not. The two
// signals are combined by ApplyConflicts without ever collapsing a
// wrong-file result into an inconsistency.
package reconcile
