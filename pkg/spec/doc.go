// Package spec parses the environment-variable specification document and
// classifies every documented variable by the remediation it requires.
//
// The document is markdown: each config domain is introduced by a heading
// containing a backticked file token (e.g. `.env.foundation`) followed by a
// table of rows
//
//	| `JWT_SECRET` | BASE64 | signing key for session tokens |
//
// with an optional fourth column carrying an explicit category tag (secret,
// topology, identity, manual) that bypasses keyword inference.
//
// Parsing never fails on malformed content: bad rows are dropped and
// surfaced as warnings so one run reports every problem. Only an unreadable
// document is an error.
package spec
