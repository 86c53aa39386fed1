// Package tree turns a decoded document into an ordered forest of
// addressable nodes that a user can browse to pick a source value.
package tree

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"

	"github.com/agentic-research/fieldmap/internal/jsonpath"
)

var ErrNotFound = errors.New("node not found")

// Kind distinguishes the three shapes a node can take.
type Kind uint8

const (
	// KindScalar is a leaf holding a scalar value.
	KindScalar Kind = iota
	// KindEmptyContainer is a leaf standing for {} or [].
	KindEmptyContainer
	// KindBranch has at least one child.
	KindBranch
)

func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindEmptyContainer:
		return "empty"
	case KindBranch:
		return "branch"
	}
	return "unknown"
}

// ValueType classifies a scalar leaf value.
type ValueType string

const (
	TypeNull    ValueType = "null"
	TypeString  ValueType = "string"
	TypeNumber  ValueType = "number"
	TypeBoolean ValueType = "boolean"
	TypeArray   ValueType = "array"
	TypeObject  ValueType = "object"
	TypeUnknown ValueType = "unknown"
)

// Node is one position in a built tree.
// ID is always jsonpath.Generate(Path).
type Node struct {
	ID       string
	Label    string
	Path     jsonpath.Path
	Kind     Kind
	Children []*Node

	// Value and ValueType are only set for KindScalar.
	Value     any
	ValueType ValueType
}

// IsLeaf reports whether the node has no children.
func (n *Node) IsLeaf() bool { return len(n.Children) == 0 }

// IsLeaf reports whether n is a leaf. A nil node is not a leaf.
func IsLeaf(n *Node) bool {
	return n != nil && n.IsLeaf()
}

// Describe returns a display form of the node's path, "Root" when empty.
func Describe(n *Node) string {
	if n == nil {
		return jsonpath.Describe(nil)
	}
	return jsonpath.Describe(n.Path)
}

type nodeJSON struct {
	ID       string        `json:"id"`
	Label    string        `json:"label"`
	Path     jsonpath.Path `json:"path"`
	IsLeaf   bool          `json:"isLeaf"`
	Children []*Node       `json:"children"`
}

// MarshalJSON renders the node the way tree widgets consume it. value and
// valueType are only present on scalar leaves, so an empty container is
// told apart from a null scalar by the missing keys.
func (n *Node) MarshalJSON() ([]byte, error) {
	children := n.Children
	if children == nil {
		children = []*Node{}
	}
	path := n.Path
	if path == nil {
		path = jsonpath.Path{}
	}
	base, err := json.Marshal(nodeJSON{
		ID:       n.ID,
		Label:    n.Label,
		Path:     path,
		IsLeaf:   n.IsLeaf(),
		Children: children,
	})
	if err != nil || n.Kind != KindScalar {
		return base, err
	}

	value, err := marshalValue(n.Value)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	buf.Write(base[:len(base)-1])
	buf.WriteString(`,"value":`)
	buf.Write(value)
	buf.WriteString(`,"valueType":`)
	buf.WriteString(`"` + string(n.ValueType) + `"`)
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func marshalValue(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// String renders the forest rooted at n as an indented outline, mainly for
// debugging and CLI output.
func (n *Node) String() string {
	var b strings.Builder
	writeOutline(&b, n, 0)
	return b.String()
}

func writeOutline(b *strings.Builder, n *Node, depth int) {
	b.WriteString(strings.Repeat("  ", depth))
	b.WriteString(n.Label)
	switch n.Kind {
	case KindScalar:
		v, err := marshalValue(n.Value)
		if err != nil {
			v = []byte("?")
		}
		b.WriteString(" = ")
		b.Write(v)
		b.WriteString(" (" + string(n.ValueType) + ")")
	case KindEmptyContainer:
		b.WriteString(" (empty)")
	}
	b.WriteString("  " + n.ID + "\n")
	for _, c := range n.Children {
		writeOutline(b, c, depth+1)
	}
}
