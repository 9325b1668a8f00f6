// Package extract turns source files into textcontent values ready for
// checking: comment bodies, documentation, string literals and prose files.
package extract

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"glean/internal/diag"
	"glean/internal/source"
	"glean/internal/textcontent"
	"glean/internal/trace"
)

// Options selects what gets extracted.
type Options struct {
	// Domains to produce; empty means all.
	Domains []textcontent.Domain
	// MinLiteralWords drops string literals with fewer words than this.
	MinLiteralWords int
	// Reporter receives lexer diagnostics; may be nil.
	Reporter diag.Reporter
}

// FileKind tells the extractor how to read a file.
type FileKind uint8

const (
	KindCode FileKind = iota
	KindMarkdown
	KindText
)

func (k FileKind) String() string {
	switch k {
	case KindMarkdown:
		return "markdown"
	case KindText:
		return "text"
	default:
		return "code"
	}
}

// KindOf classifies a path by extension.
func KindOf(path string) FileKind {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown", ".mdx":
		return KindMarkdown
	case ".txt", ".text", "":
		return KindText
	default:
		return KindCode
	}
}

type Extractor struct {
	fs   *source.FileSet
	opts Options
}

func New(fs *source.FileSet, opts Options) *Extractor {
	if opts.MinLiteralWords <= 0 {
		opts.MinLiteralWords = 2
	}
	return &Extractor{fs: fs, opts: opts}
}

func (e *Extractor) wants(d textcontent.Domain) bool {
	return len(e.opts.Domains) == 0 || slices.Contains(e.opts.Domains, d)
}

// Extract returns the analyzable contents of the file in document order.
// Contents with no visible text are dropped.
func (e *Extractor) Extract(ctx context.Context, id source.FileID) ([]*textcontent.Content, error) {
	file := e.fs.Get(id)
	if file == nil {
		return nil, fmt.Errorf("extract: unknown file %d", id)
	}
	kind := KindOf(file.Path)
	span, _ := trace.Start(ctx, trace.ScopeFile, "extract")
	span.WithExtra("path", file.Path).WithExtra("kind", kind.String())

	var (
		out []*textcontent.Content
		err error
	)
	switch kind {
	case KindMarkdown:
		if e.wants(textcontent.PlainText) {
			out, err = e.markdown(file)
		}
	case KindText:
		if e.wants(textcontent.PlainText) {
			out, err = e.plain(file)
		}
	default:
		out, err = e.code(file)
	}
	if err != nil {
		span.End("failed")
		return nil, fmt.Errorf("extract %s: %w", file.Path, err)
	}
	out, err = finish(out)
	span.WithExtra("contents", strconv.Itoa(len(out))).End("")
	return out, err
}

// finish trims every content and drops the empty ones.
func finish(contents []*textcontent.Content) ([]*textcontent.Content, error) {
	out := contents[:0]
	for _, c := range contents {
		if c == nil {
			continue
		}
		trimmed, err := c.TrimWhitespace()
		if err != nil {
			return nil, err
		}
		if trimmed.Len() == 0 {
			continue
		}
		out = append(out, trimmed)
	}
	return out, nil
}
