// Package textcontent models the analyzable text of a document fragment.
//
// # Purpose
//
// A Content is an immutable view over one or more spans of source files. It
// presents the characters a prose checker should see (comment bodies without
// `//` markers, string literals without quotes, Markdown without code) and
// keeps enough bookkeeping to translate every offset of that view back to an
// exact file offset.
//
// # Data model
//
// A Content owns a normalised sequence of Tokens:
//
//   - KindText – visible characters backed by a file span.
//   - KindGap – zero visible characters; the span records the source material
//     that was skipped so offset translation can lean before or after it.
//     Unknown gaps mark positions where analysis must assume opaque text
//     (code interleaved with prose, interpolations, escapes).
//   - KindSeparator – a single synthetic whitespace character inserted between
//     joined fragments; its span is the material it stands for.
//
// Normalisation drops empty text tokens and empty non-unknown gaps, merges
// text tokens whose spans are contiguous, and merges contiguous gaps (the
// merged gap is unknown if any part was).
//
// # Operations
//
// Every transformation (ExcludeRange, MarkUnknown, ExcludeRanges, Join,
// JoinWithWhitespace, TrimWhitespace) returns a new Content and leaves the
// receiver untouched, so values may be shared between goroutines freely.
// ExcludeRanges applies a sorted batch of exclusions in a single pass; its
// result is token-for-token identical to applying the same exclusions one at a
// time from the last to the first.
//
// # Errors
//
// Malformed input wraps ErrInvalidArgument, offsets outside [0, Len()] wrap
// ErrOutOfRange. No operation ever returns a partially transformed value.
package textcontent
