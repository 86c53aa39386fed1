// Package jsonpath renders and parses the restricted JSONPath dialect used to
// address values inside a document: a "$" root followed by ".key" and "[i]"
// child steps.
package jsonpath

import (
	"encoding/json"
	"strconv"
	"strings"
	"unicode"
)

// Root is the expression of the empty path.
const Root = "$"

// Segment is one step of a Path: either an object key or an array index.
// The zero value is the empty key.
type Segment struct {
	key     string
	index   int
	isIndex bool
}

// Key returns a Segment addressing the object member k.
func Key(k string) Segment { return Segment{key: k} }

// Index returns a Segment addressing array element i.
// Negative indexes are a programming error.
func Index(i int) Segment {
	if i < 0 {
		panic("jsonpath: negative index " + strconv.Itoa(i))
	}
	return Segment{index: i, isIndex: true}
}

func (s Segment) IsIndex() bool { return s.isIndex }

// Key returns the object key; empty for index segments.
func (s Segment) Key() string { return s.key }

// Index returns the array index; -1 for key segments.
func (s Segment) Index() int {
	if !s.isIndex {
		return -1
	}
	return s.index
}

// String renders the bare segment (key text or decimal index).
func (s Segment) String() string {
	if s.isIndex {
		return strconv.Itoa(s.index)
	}
	return s.key
}

// MarshalJSON encodes index segments as numbers and keys as strings, the
// shape a UI expects for a path array.
func (s Segment) MarshalJSON() ([]byte, error) {
	if s.isIndex {
		return []byte(strconv.Itoa(s.index)), nil
	}
	return json.Marshal(s.key)
}

// Path is the route from the document root to a value.
type Path []Segment

// Append returns a copy of p extended by seg. p itself is never modified, so
// sibling paths built from the same parent do not alias.
func (p Path) Append(seg Segment) Path {
	out := make(Path, len(p), len(p)+1)
	copy(out, p)
	return append(out, seg)
}

// Equal reports whether p and o address the same value.
func (p Path) Equal(o Path) bool {
	if len(p) != len(o) {
		return false
	}
	for i := range p {
		if p[i] != o[i] {
			return false
		}
	}
	return true
}

func (p Path) String() string { return Generate(p) }

// Generate renders p as a path expression: "$" followed by ".key" for every
// key segment and "[i]" for every index segment. The empty path yields "$".
//
// Keys are written verbatim, so a key containing '.', '[', a space, '$' or
// any other character outside an identifier yields an expression that does
// not evaluate back to the same value. Resolvable reports whether the
// generated expression is safe to evaluate.
func Generate(p Path) string {
	if len(p) == 0 {
		return Root
	}
	var b strings.Builder
	b.WriteString(Root)
	for _, seg := range p {
		if seg.isIndex {
			b.WriteByte('[')
			b.WriteString(strconv.Itoa(seg.index))
			b.WriteByte(']')
			continue
		}
		b.WriteByte('.')
		b.WriteString(seg.key)
	}
	return b.String()
}

// Resolvable reports whether Generate(p) evaluates back to the value at p:
// every key must be an identifier of letters, digits and '_' that does not
// start with a digit.
func (p Path) Resolvable() bool {
	for _, seg := range p {
		if !seg.isIndex && !isIdentifier(seg.key) {
			return false
		}
	}
	return true
}

func isIdentifier(key string) bool {
	if key == "" {
		return false
	}
	for i, r := range key {
		switch {
		case r == '_', unicode.IsLetter(r):
		case unicode.IsDigit(r) && i > 0:
		default:
			return false
		}
	}
	return true
}

// DescribeSeparator joins segments in Describe.
const DescribeSeparator = " → "

// Describe returns a human readable rendering of p for display, or "Root"
// for the empty path. It is not meant to be parsed back.
func Describe(p Path) string {
	if len(p) == 0 {
		return "Root"
	}
	parts := make([]string, len(p))
	for i, seg := range p {
		parts[i] = seg.String()
	}
	return strings.Join(parts, DescribeSeparator)
}
