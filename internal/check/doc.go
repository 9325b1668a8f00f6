// Package check runs prose rules over extracted text contents and reports
// their findings as diagnostics in file coordinates.
//
// Rules see only the visible text of a content. The Runner is responsible
// for discarding findings that touch unknown fragments and for translating
// content offsets back to the source file.
package check
