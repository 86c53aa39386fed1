package tree

import "iter"

// Index resolves node ids of a built forest back to their nodes. A UI hands
// back only the id of the node a user clicked; Index turns it into the node.
// An Index is read-only once built and safe for concurrent use.
type Index struct {
	nodes map[string]*Node
	roots []*Node
}

// NewIndex indexes every node reachable from roots.
func NewIndex(roots []*Node) *Index {
	idx := &Index{nodes: make(map[string]*Node), roots: roots}
	for n := range walk(roots) {
		idx.nodes[n.ID] = n
	}
	return idx
}

// Get returns the node with the given id. "$" is not a node: the document
// root has no entry of its own.
func (x *Index) Get(id string) (*Node, error) {
	n, ok := x.nodes[id]
	if !ok {
		return nil, ErrNotFound
	}
	return n, nil
}

// Children lists the children of id, or the top-level nodes for "" and "$".
func (x *Index) Children(id string) ([]*Node, error) {
	if id == "" || id == "$" {
		return x.Roots(), nil
	}
	n, err := x.Get(id)
	if err != nil {
		return nil, err
	}
	return n.Children, nil
}

func (x *Index) Roots() []*Node { return x.roots }

func (x *Index) Len() int { return len(x.nodes) }

// Leaves returns every leaf in depth-first document order.
func (x *Index) Leaves() []*Node {
	var out []*Node
	for n := range x.Walk() {
		if n.IsLeaf() {
			out = append(out, n)
		}
	}
	return out
}

// Walk yields all nodes depth first, parents before children.
func (x *Index) Walk() iter.Seq[*Node] {
	return walk(x.Roots())
}

func walk(roots []*Node) iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		stack := make([]*Node, 0, len(roots))
		for i := len(roots) - 1; i >= 0; i-- {
			stack = append(stack, roots[i])
		}
		for len(stack) > 0 {
			n := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if !yield(n) {
				return
			}
			for i := len(n.Children) - 1; i >= 0; i-- {
				stack = append(stack, n.Children[i])
			}
		}
	}
}
