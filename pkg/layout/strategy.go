package layout

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/edgebundle/pkg/controlpoints"
)

// ErrUnknownStrategy is returned by [ByName] for unrecognized names.
var ErrUnknownStrategy = errors.New("unknown layout strategy")

// Strategy turns edges into control polygons.
type Strategy interface {
	// Name returns the strategy's registered name.
	Name() string

	// Route computes one Route per edge, in edge order. nodes must contain
	// every edge endpoint together with all of its ancestors.
	Route(ctx context.Context, nodes []Node, edges []Edge) ([]Route, error)
}

// Shape is the classification an edge was routed with.
type Shape int

// Edge shapes.
const (
	ShapeSelfLoop Shape = iota
	ShapeBetweenTrees
	ShapeDirect
	ShapeHierarchical
	ShapeStraight
)

var shapeNames = [...]string{
	ShapeSelfLoop:     "self-loop",
	ShapeBetweenTrees: "between-trees",
	ShapeDirect:       "direct",
	ShapeHierarchical: "hierarchical",
	ShapeStraight:     "straight",
}

// Shapes lists every shape in declaration order.
func Shapes() []Shape {
	return []Shape{ShapeSelfLoop, ShapeBetweenTrees, ShapeDirect, ShapeHierarchical, ShapeStraight}
}

func (s Shape) String() string {
	if s < 0 || int(s) >= len(shapeNames) {
		return fmt.Sprintf("Shape(%d)", int(s))
	}
	return shapeNames[s]
}

// ParseShape is the inverse of Shape.String.
func ParseShape(name string) (Shape, error) {
	for i, n := range shapeNames {
		if n == name {
			return Shape(i), nil
		}
	}
	return 0, fmt.Errorf("unknown shape %q", name)
}

// Route is the routing result for one edge.
type Route struct {
	Edge  Edge
	Shape Shape

	// LCA is the lowest common ancestor of the endpoints. It is nil for
	// edges between trees and for strategies that ignore the hierarchy.
	LCA Node

	Points controlpoints.Points
}

// ByName returns the strategy registered under name.
func ByName(name string, opts Options) (Strategy, error) {
	switch name {
	case StrategyBundled, "":
		return NewBundled(opts), nil
	case StrategyDirect:
		return NewDirect(opts), nil
	}
	return nil, fmt.Errorf("%w: %q (must be one of: %s, %s)", ErrUnknownStrategy, name, StrategyBundled, StrategyDirect)
}

// routeEach applies fn to every edge and stores the results by edge index,
// so the output order never depends on scheduling.
func routeEach(ctx context.Context, workers int, edges []Edge, fn func(Edge) Route) ([]Route, error) {
	routes := make([]Route, len(edges))

	if workers < 2 {
		for i, e := range edges {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			routes[i] = fn(e)
		}
		return routes, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, e := range edges {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			routes[i] = fn(e)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return routes, nil
}
