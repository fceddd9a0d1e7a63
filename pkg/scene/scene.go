// Package scene turns a serialized [graph.Graph] into a validated set of
// layout nodes.
//
// A [Scene] owns its nodes: every [Node] implements layout.Node, with
// Ground and Roof half a scale-height below and above the center. Levels
// come from the parent chain and successors from the graph's edges, so the
// nodes satisfy the hierarchy invariants the layout strategies rely on.
package scene

import (
	"fmt"
	"math"

	"github.com/go-playground/validator/v10"
	"gonum.org/v1/gonum/spatial/r3"

	errs "github.com/matzehuels/edgebundle/pkg/errors"
	"github.com/matzehuels/edgebundle/pkg/graph"
	"github.com/matzehuels/edgebundle/pkg/hierarchy"
	"github.com/matzehuels/edgebundle/pkg/layout"
)

// validate is a singleton validator instance
var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Scene is a validated containment forest with the edges to route.
type Scene struct {
	nodes []*Node
	byID  map[string]*Node
	edges []layout.Edge
	roots int
	depth int
}

// Build validates g and constructs its nodes.
//
// Errors carry INVALID_SCENE for malformed nodes (bad IDs, non-finite
// coordinates, negative scales, duplicates, cycles) and UNKNOWN_NODE for
// parents or edge endpoints that name no node.
func Build(g graph.Graph) (*Scene, error) {
	if err := validate.Struct(g); err != nil {
		return nil, formatValidationError(err)
	}

	s := &Scene{
		nodes: make([]*Node, len(g.Nodes)),
		byID:  make(map[string]*Node, len(g.Nodes)),
	}
	for i := range g.Nodes {
		gn := &g.Nodes[i]
		if err := checkNode(gn); err != nil {
			return nil, err
		}
		if _, dup := s.byID[gn.ID]; dup {
			return nil, errs.New(errs.ErrCodeInvalidScene, "duplicate node id %q", gn.ID)
		}
		n := &Node{
			id:     gn.ID,
			label:  gn.DisplayLabel(),
			center: gn.Position.R3(),
			scale:  gn.Scale.R3(),
			meta:   gn.Meta,
		}
		s.nodes[i] = n
		s.byID[n.id] = n
	}

	for i := range g.Nodes {
		if g.Nodes[i].Parent == "" {
			s.roots++
			continue
		}
		p, ok := s.byID[g.Nodes[i].Parent]
		if !ok {
			return nil, errs.New(errs.ErrCodeUnknownNode, "node %q: unknown parent %q", g.Nodes[i].ID, g.Nodes[i].Parent)
		}
		n := s.nodes[i]
		n.parent = p
		p.children = append(p.children, n)
	}

	if err := s.assignLevels(); err != nil {
		return nil, err
	}

	s.edges = make([]layout.Edge, len(g.Edges))
	for i, e := range g.Edges {
		from, ok := s.byID[e.From]
		if !ok {
			return nil, errs.New(errs.ErrCodeUnknownNode, "edge %d: unknown source %q", i, e.From)
		}
		to, ok := s.byID[e.To]
		if !ok {
			return nil, errs.New(errs.ErrCodeUnknownNode, "edge %d: unknown target %q", i, e.To)
		}
		from.succ = append(from.succ, to)
		s.edges[i] = layout.Edge{Source: from, Target: to}
	}

	if err := hierarchy.Validate(s.Nodes()); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidScene, err, "inconsistent hierarchy")
	}
	return s, nil
}

// assignLevels walks every parent chain once. A chain that revisits a node
// on the current walk is a cycle.
func (s *Scene) assignLevels() error {
	const (
		unvisited = iota
		walking
		done
	)
	state := make(map[*Node]int, len(s.nodes))

	var visit func(n *Node) error
	visit = func(n *Node) error {
		switch state[n] {
		case done:
			return nil
		case walking:
			return errs.New(errs.ErrCodeInvalidScene, "parent cycle through %q", n.id)
		}
		state[n] = walking
		if n.parent != nil {
			if err := visit(n.parent); err != nil {
				return err
			}
			n.level = n.parent.level + 1
		}
		s.depth = max(s.depth, n.level)
		state[n] = done
		return nil
	}

	for _, n := range s.nodes {
		if err := visit(n); err != nil {
			return err
		}
	}
	return nil
}

func checkNode(n *graph.Node) error {
	if err := errs.ValidateNodeID(n.ID); err != nil {
		return err
	}
	for _, v := range [...]float64{n.Position.X, n.Position.Y, n.Position.Z, n.Scale.X, n.Scale.Y, n.Scale.Z} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return errs.New(errs.ErrCodeInvalidScene, "node %q: coordinates must be finite", n.ID)
		}
	}
	if n.Scale.X < 0 || n.Scale.Y < 0 || n.Scale.Z < 0 {
		return errs.New(errs.ErrCodeInvalidScene, "node %q: scale must be non-negative", n.ID)
	}
	return nil
}

// formatValidationError reports the first failed struct tag.
func formatValidationError(err error) error {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok || len(verrs) == 0 {
		return errs.Wrap(errs.ErrCodeInvalidScene, err, "invalid scene")
	}
	e := verrs[0]
	var msg string
	switch e.Tag() {
	case "required":
		msg = "field is required"
	case "max":
		msg = fmt.Sprintf("must not exceed %s characters", e.Param())
	case "nefield":
		msg = "node cannot be its own parent"
	default:
		msg = fmt.Sprintf("validation failed (%s)", e.Tag())
	}
	return errs.New(errs.ErrCodeInvalidScene, "%s: %s", e.Namespace(), msg)
}

// Len returns the number of nodes.
func (s *Scene) Len() int { return len(s.nodes) }

// Nodes returns the nodes in graph order.
func (s *Scene) Nodes() []layout.Node {
	out := make([]layout.Node, len(s.nodes))
	for i, n := range s.nodes {
		out[i] = n
	}
	return out
}

// Node looks a node up by ID.
func (s *Scene) Node(id string) (*Node, bool) {
	n, ok := s.byID[id]
	return n, ok
}

// Edges returns the edges in graph order.
func (s *Scene) Edges() []layout.Edge {
	return append([]layout.Edge(nil), s.edges...)
}

// Roots returns the number of trees in the forest.
func (s *Scene) Roots() int { return s.roots }

// MaxDepth returns the deepest level in the scene, or 0 when empty.
func (s *Scene) MaxDepth() int { return s.depth }

// InnerEndpoints returns the edges with an endpoint that has children.
// The routing is defined for them but tends to read poorly.
func (s *Scene) InnerEndpoints() []layout.Edge {
	var out []layout.Edge
	for _, e := range s.edges {
		if len(e.Source.Children()) > 0 || len(e.Target.Children()) > 0 {
			out = append(out, e)
		}
	}
	return out
}

// Bounds returns the axis-aligned box around every node's footprint.
func (s *Scene) Bounds() r3.Box {
	if len(s.nodes) == 0 {
		return r3.Box{}
	}
	b := s.nodes[0].Box()
	for _, n := range s.nodes[1:] {
		nb := n.Box()
		b.Min = r3.Vec{X: min(b.Min.X, nb.Min.X), Y: min(b.Min.Y, nb.Min.Y), Z: min(b.Min.Z, nb.Min.Z)}
		b.Max = r3.Vec{X: max(b.Max.X, nb.Max.X), Y: max(b.Max.Y, nb.Max.Y), Z: max(b.Max.Z, nb.Max.Z)}
	}
	return b
}
