package graph

import (
	"gonum.org/v1/gonum/spatial/r3"
)

// =============================================================================
// Vec3 - Tagged Vector
// =============================================================================

// Vec3 is a 3D vector in world coordinates. Y is the vertical axis.
type Vec3 struct {
	X float64 `json:"x" yaml:"x" bson:"x"`
	Y float64 `json:"y" yaml:"y" bson:"y"`
	Z float64 `json:"z" yaml:"z" bson:"z"`
}

// R3 converts v to a gonum vector.
func (v Vec3) R3() r3.Vec { return r3.Vec{X: v.X, Y: v.Y, Z: v.Z} }

// FromR3 converts a gonum vector.
func FromR3(v r3.Vec) Vec3 { return Vec3{X: v.X, Y: v.Y, Z: v.Z} }

// =============================================================================
// Graph - Scene Serialization
// =============================================================================

// Graph is the serialization format for scenes: a containment forest of
// boxes plus the directed edges to route between them.
type Graph struct {
	Nodes []Node `json:"nodes" yaml:"nodes" bson:"nodes" validate:"dive"`
	Edges []Edge `json:"edges,omitempty" yaml:"edges,omitempty" bson:"edges,omitempty" validate:"dive"`
}

// Node is one box in the scene.
type Node struct {
	ID       string         `json:"id" yaml:"id" bson:"id" validate:"required,max=256"`
	Parent   string         `json:"parent,omitempty" yaml:"parent,omitempty" bson:"parent,omitempty" validate:"omitempty,nefield=ID"`
	Label    string         `json:"label,omitempty" yaml:"label,omitempty" bson:"label,omitempty"`
	Position Vec3           `json:"position" yaml:"position" bson:"position"` // Center of the box
	Scale    Vec3           `json:"scale" yaml:"scale" bson:"scale"`          // Extent along each axis
	Meta     map[string]any `json:"meta,omitempty" yaml:"meta,omitempty" bson:"meta,omitempty"`
}

// DisplayLabel returns the label if set, otherwise the ID.
func (n *Node) DisplayLabel() string {
	if n.Label != "" {
		return n.Label
	}
	return n.ID
}

// IsRoot reports whether the node has no parent.
func (n *Node) IsRoot() bool { return n.Parent == "" }

// Edge is a directed edge between two scene nodes.
type Edge struct {
	From string `json:"from" yaml:"from" bson:"from" validate:"required"`
	To   string `json:"to" yaml:"to" bson:"to" validate:"required"`
}

// Stats summarizes the graph shape.
func (g Graph) Stats() (nodes, roots, edges int) {
	for i := range g.Nodes {
		if g.Nodes[i].IsRoot() {
			roots++
		}
	}
	return len(g.Nodes), roots, len(g.Edges)
}
