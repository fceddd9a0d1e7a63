package layout

import (
	"gonum.org/v1/gonum/spatial/r3"
)

// Node is a positioned element of the containment forest. Implementations
// must be comparable (pointer types are typical) and must return an untyped
// nil from Parent for roots.
type Node interface {
	// ID identifies the node in logs and serialized output.
	ID() string

	Parent() Node
	Children() []Node

	// Level is the number of parent hops to the root.
	Level() int

	// Ground, Center and Roof are the bottom, middle and top anchor points.
	Ground() r3.Vec
	Center() r3.Vec
	Roof() r3.Vec

	// Scale is the axis-aligned size of the node.
	Scale() r3.Vec

	// Successors are the targets of the node's outgoing edges.
	Successors() []Node
}

// Edge is a directed connection between two nodes. Source == Target is a self-loop.
type Edge struct {
	Source Node
	Target Node
}

// IsSelfLoop reports whether the edge starts and ends at the same node.
func (e Edge) IsSelfLoop() bool { return e.Source == e.Target }

// String returns "source->target".
func (e Edge) String() string { return e.Source.ID() + "->" + e.Target.ID() }

// EdgesOf enumerates the outgoing edges of nodes, in node order and then
// successor order.
func EdgesOf(nodes []Node) []Edge {
	var edges []Edge
	for _, n := range nodes {
		for _, s := range n.Successors() {
			edges = append(edges, Edge{Source: n, Target: s})
		}
	}
	return edges
}
