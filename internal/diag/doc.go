// Package diag holds findings and the fixes attached to them.
//
// A Diagnostic points at a primary span in file coordinates, may carry
// notes on other spans and any number of Fix values. Each fix is a list of
// FixEdit; OldText, when set, is what the fix engine expects to find under
// the span before it rewrites it.
//
// Producers report through a Reporter so they do not depend on storage.
// BagReporter collects into a Bag, which the driver keeps per file and
// later merges, sorts and deduplicates. Rendering lives in diagfmt,
// applying fixes in fix.
package diag
