// Package trace defines page references and loads them from trace files.
package trace

import (
	"fmt"
)

// AccessKind tells whether a reference reads or writes its page.
type AccessKind byte

// Access kinds, encoded as the character used in trace files.
const (
	Read  AccessKind = 'r'
	Write AccessKind = 'w'
)

// ParseAccessKind converts a one-character trace token into an AccessKind.
// Only the lower-case tokens r and w are accepted.
func ParseAccessKind(token string) (AccessKind, error) {
	switch token {
	case "r":
		return Read, nil
	case "w":
		return Write, nil
	default:
		return 0, fmt.Errorf("access kind must be r or w, got %q", token)
	}
}

func (k AccessKind) String() string {
	switch k {
	case Read:
		return "read"
	case Write:
		return "write"
	default:
		return fmt.Sprintf("AccessKind(%d)", byte(k))
	}
}

// A PageReference is a single access to a page. It cannot be changed once
// created.
type PageReference struct {
	page int
	kind AccessKind
}

// NewReference creates a reference to page with the given access kind.
func NewReference(page int, kind AccessKind) PageReference {
	return PageReference{page: page, kind: kind}
}

// Page returns the referenced page number.
func (r PageReference) Page() int {
	return r.page
}

// Kind returns the access kind.
func (r PageReference) Kind() AccessKind {
	return r.kind
}

// IsWrite returns true if the reference modifies the page.
func (r PageReference) IsWrite() bool {
	return r.kind == Write
}

func (r PageReference) String() string {
	return fmt.Sprintf("%d %c", r.page, byte(r.kind))
}

// A Sequence is an ordered list of references, in access order.
type Sequence []PageReference

// Reads builds a sequence of read references.
func Reads(pages ...int) Sequence {
	return build(Read, pages)
}

// Writes builds a sequence of write references.
func Writes(pages ...int) Sequence {
	return build(Write, pages)
}

func build(kind AccessKind, pages []int) Sequence {
	seq := make(Sequence, 0, len(pages))
	for _, p := range pages {
		seq = append(seq, NewReference(p, kind))
	}

	return seq
}

// Prefix returns the first n references. n is clamped to the sequence length.
func (s Sequence) Prefix(n int) Sequence {
	if n < 0 {
		n = 0
	}

	if n > len(s) {
		n = len(s)
	}

	return s[:n]
}

// DistinctPages returns the number of different pages referenced.
func (s Sequence) DistinctPages() int {
	seen := make(map[int]struct{}, len(s))
	for _, r := range s {
		seen[r.page] = struct{}{}
	}

	return len(seen)
}
