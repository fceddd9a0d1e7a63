package scene

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/matzehuels/edgebundle/pkg/layout"
)

// Node is a box in a [Scene]. It is immutable once the scene is built.
type Node struct {
	id       string
	label    string
	parent   *Node
	children []*Node
	succ     []*Node
	level    int
	center   r3.Vec
	scale    r3.Vec
	meta     map[string]any
}

func (n *Node) ID() string    { return n.id }
func (n *Node) Label() string { return n.label }
func (n *Node) Level() int    { return n.level }

// Parent returns nil for roots.
func (n *Node) Parent() layout.Node {
	if n.parent == nil {
		return nil
	}
	return n.parent
}

func (n *Node) Children() []layout.Node   { return asLayout(n.children) }
func (n *Node) Successors() []layout.Node { return asLayout(n.succ) }

func (n *Node) Center() r3.Vec { return n.center }
func (n *Node) Scale() r3.Vec  { return n.scale }
func (n *Node) Ground() r3.Vec { return r3.Add(n.center, r3.Vec{Y: -n.scale.Y / 2}) }
func (n *Node) Roof() r3.Vec   { return r3.Add(n.center, r3.Vec{Y: n.scale.Y / 2}) }

// Box returns the node's axis-aligned extent.
func (n *Node) Box() r3.Box {
	half := r3.Scale(0.5, n.scale)
	return r3.Box{Min: r3.Sub(n.center, half), Max: r3.Add(n.center, half)}
}

// Meta returns a metadata value from the scene file.
func (n *Node) Meta(key string) (any, bool) {
	v, ok := n.meta[key]
	return v, ok
}

// IsLeaf reports whether the node has no children.
func (n *Node) IsLeaf() bool { return len(n.children) == 0 }

func asLayout(ns []*Node) []layout.Node {
	out := make([]layout.Node, len(ns))
	for i, n := range ns {
		out[i] = n
	}
	return out
}

var _ layout.Node = (*Node)(nil)
