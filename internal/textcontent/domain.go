package textcontent

import (
	"fmt"
	"strings"
)

// Domain tags what kind of document material a Content was extracted from.
type Domain uint8

const (
	PlainText Domain = iota
	Comments
	Documentation
	Literals
)

var domainNames = [...]string{
	PlainText:     "plain",
	Comments:      "comments",
	Documentation: "docs",
	Literals:      "literals",
}

func (d Domain) String() string {
	if int(d) < len(domainNames) {
		return domainNames[d]
	}
	return fmt.Sprintf("Domain(%d)", d)
}

// ParseDomain accepts the names produced by Domain.String.
func ParseDomain(s string) (Domain, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range domainNames {
		if name == s {
			return Domain(i), nil
		}
	}
	switch s {
	case "text", "plaintext":
		return PlainText, nil
	case "documentation", "doc":
		return Documentation, nil
	case "strings", "literal":
		return Literals, nil
	}
	return PlainText, invalidArgf("unknown domain %q", s)
}

// Domains lists every domain in declaration order.
func Domains() []Domain {
	return []Domain{PlainText, Comments, Documentation, Literals}
}
