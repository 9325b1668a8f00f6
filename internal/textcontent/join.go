package textcontent

import (
	"unicode"
	"unicode/utf8"

	"glean/internal/source"
)

// Join concatenates contents in order. All operands must share the domain and
// the reader; tokens that become contiguous across a boundary are merged.
func Join(contents ...*Content) (*Content, error) {
	if len(contents) == 0 {
		return nil, invalidArgf("join of zero contents")
	}
	if err := checkJoinable(contents); err != nil {
		return nil, err
	}
	if len(contents) == 1 {
		return contents[0], nil
	}
	first := contents[0]
	b := newBuilder(totalTokens(contents))
	for _, c := range contents {
		b.pushAll(c.tokens)
	}
	return newContent(first.domain, first.reader, first.Origin(), b.out), nil
}

// JoinWithWhitespace concatenates contents and inserts a separator between
// two non-empty neighbours unless one side already has whitespace at the
// seam. It returns nil when the join is undefined: no operands, a nil operand,
// or operands with different domains or readers.
func JoinWithWhitespace(contents ...*Content) *Content {
	if len(contents) == 0 {
		return nil
	}
	if err := checkJoinable(contents); err != nil {
		return nil
	}
	first := contents[0]
	b := newBuilder(totalTokens(contents) + len(contents))
	var left *Content // последний непустой операнд
	for _, c := range contents {
		if left != nil && c.Len() > 0 && needsSeparator(left.String(), c.String()) {
			b.push(Token{Kind: KindSeparator, Span: separatorSpan(b.out[len(b.out)-1].Span, c.tokens[0].Span)})
		}
		b.pushAll(c.tokens)
		if c.Len() > 0 {
			left = c
		}
	}
	return newContent(first.domain, first.reader, first.Origin(), b.out)
}

func checkJoinable(contents []*Content) error {
	for i, c := range contents {
		if c == nil {
			return invalidArgf("join operand %d is nil", i)
		}
		if c.domain != contents[0].domain {
			return invalidArgf("join operand %d has domain %s, want %s", i, c.domain, contents[0].domain)
		}
		if c.reader != contents[0].reader {
			return invalidArgf("join operand %d reads from a different source", i)
		}
	}
	return nil
}

func totalTokens(contents []*Content) int {
	n := 0
	for _, c := range contents {
		n += len(c.tokens)
	}
	return n
}

func needsSeparator(left, right string) bool {
	last, _ := utf8.DecodeLastRuneInString(left)
	first, _ := utf8.DecodeRuneInString(right)
	return !unicode.IsSpace(last) && !unicode.IsSpace(first)
}

// separatorSpan covers the source material between the two sides of a seam.
func separatorSpan(left, right source.Span) source.Span {
	if left.File == right.File && left.End <= right.Start {
		return source.Span{File: left.File, Start: left.End, End: right.Start}
	}
	return left.ZeroideToEnd()
}
