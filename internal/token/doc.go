// Package token defines the prose-bearing fragments the lexer finds in source
// files.
// Invariants:
//   - Fragment.Text is the exact source text under Fragment.Span, delimiters
//     included ("//", "/*", quotes).
//   - Fragments are reported in document order and never overlap.
//   - Code between fragments is not represented at all.
package token
