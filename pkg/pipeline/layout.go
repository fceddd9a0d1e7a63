package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	errs "github.com/matzehuels/edgebundle/pkg/errors"
	"github.com/matzehuels/edgebundle/pkg/graph"
	"github.com/matzehuels/edgebundle/pkg/layout"
	"github.com/matzehuels/edgebundle/pkg/observability"
	"github.com/matzehuels/edgebundle/pkg/scene"
)

// ComputeLayout routes every edge of s and exports the result. It does not
// touch the cache; opts must already be validated.
func ComputeLayout(ctx context.Context, s *scene.Scene, opts Options) (graph.Layout, error) {
	lopts := opts.LayoutOptions()
	strategy, err := layout.ByName(opts.Strategy, lopts)
	if err != nil {
		return graph.Layout{}, errs.Wrap(errs.ErrCodeInvalidStrategy, err, "select strategy")
	}

	if opts.Logger != nil {
		for _, e := range s.InnerEndpoints() {
			opts.Logger.Debug("edge endpoint has children", "edge", e.String())
		}
	}

	hooks := observability.Layout()
	edges := s.Edges()
	hooks.OnLayoutStart(ctx, strategy.Name(), s.Len(), len(edges))
	start := time.Now()
	routes, err := strategy.Route(ctx, s.Nodes(), edges)
	hooks.OnLayoutComplete(ctx, strategy.Name(), time.Since(start), err)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return graph.Layout{}, errs.Wrap(errs.ErrCodeTimeout, err, "route edges")
		}
		return graph.Layout{}, fmt.Errorf("route edges: %w", err)
	}

	l := Export(s, routes, strategy.Name(), elevationFor(s, lopts))
	for shape, idx := range l.ByShape() {
		hooks.OnRouted(ctx, strategy.Name(), shape, len(idx))
	}
	return l, nil
}

// Export converts routes into a layout document with a fresh ID.
func Export(s *scene.Scene, routes []layout.Route, strategy string, elev layout.Elevation) graph.Layout {
	l := graph.Layout{
		ID:               uuid.NewString(),
		CreatedAt:        time.Now().UTC(),
		Strategy:         strategy,
		EdgesAboveBlocks: elev.Dir > 0,
		LevelUnit:        elev.Unit,
		MinElevation:     elev.Min,
		MaxDepth:         s.MaxDepth(),
		Routes:           make([]graph.Route, len(routes)),
		Stats: graph.Stats{
			Nodes:  s.Len(),
			Roots:  s.Roots(),
			Edges:  len(routes),
			Shapes: make(map[string]int),
		},
	}
	for i, r := range routes {
		out := graph.Route{
			From:   r.Edge.Source.ID(),
			To:     r.Edge.Target.ID(),
			Shape:  r.Shape.String(),
			Points: make([]graph.Vec3, len(r.Points)),
		}
		if r.LCA != nil {
			out.LCA = r.LCA.ID()
		}
		for j, p := range r.Points {
			out.Points[j] = graph.FromR3(p)
		}
		l.Routes[i] = out
		l.Stats.Shapes[out.Shape]++
	}
	return l
}

// elevationFor reproduces the elevation law a strategy used, for the
// layout document.
func elevationFor(s *scene.Scene, opts layout.Options) layout.Elevation {
	if opts.DeriveElevation {
		return layout.DeriveElevation(s.Nodes(), s.MaxDepth(), opts.Direction(), opts.LevelUnit)
	}
	return layout.NewElevation(opts, s.MaxDepth())
}
