package layout

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/matzehuels/edgebundle/pkg/controlpoints"
	"github.com/matzehuels/edgebundle/pkg/hierarchy"
)

// Bundled routes edges along the containment hierarchy.
type Bundled struct {
	opts Options
}

// NewBundled creates a bundled strategy.
func NewBundled(opts Options) *Bundled {
	return &Bundled{opts: opts}
}

// Name returns "bundled".
func (b *Bundled) Name() string { return StrategyBundled }

// Route builds the ancestry snapshot for nodes and routes every edge.
//
// Route panics with a hierarchy error if nodes do not form a valid forest
// or an edge endpoint is missing from nodes.
func (b *Bundled) Route(ctx context.Context, nodes []Node, edges []Edge) ([]Route, error) {
	if err := b.opts.Validate(); err != nil {
		return nil, err
	}
	start := time.Now()

	p := b.Plan(nodes)
	p.logger.Debug("built ancestry",
		"nodes", len(nodes),
		"roots", len(p.forest.Roots()),
		"max_depth", p.forest.MaxDepth(),
		"min_elevation", p.elevation.Min,
		"level_unit", p.elevation.Unit)

	routes, err := routeEach(ctx, b.opts.Workers, edges, p.Route)
	if err != nil {
		return nil, err
	}
	p.logger.Debug("routed edges", "strategy", b.Name(), "edges", len(routes), "duration", time.Since(start))
	return routes, nil
}

// Plan is a bundled routing pass bound to one forest snapshot. It is
// read-only after creation and safe for concurrent use.
type Plan struct {
	opts      Options
	logger    *log.Logger
	forest    *hierarchy.Forest[Node]
	elevation Elevation
}

// Plan snapshots nodes and fixes the elevation law for a pass.
func (b *Bundled) Plan(nodes []Node) *Plan {
	f := hierarchy.New(nodes)
	return &Plan{
		opts:      b.opts,
		logger:    b.opts.logger(),
		forest:    f,
		elevation: elevationFor(b.opts, nodes, f.MaxDepth()),
	}
}

// Elevation returns the law used by the plan.
func (p *Plan) Elevation() Elevation { return p.elevation }

// Route classifies a single edge and builds its control points.
func (p *Plan) Route(e Edge) Route {
	s, t := e.Source, e.Target
	dir := p.opts.Direction()

	if s == t {
		return Route{
			Edge:   e,
			Shape:  ShapeSelfLoop,
			LCA:    s,
			Points: controlpoints.SelfLoop(p.opts.Anchor(s), s.Scale(), dir, p.elevation.Unit),
		}
	}

	from, to := p.opts.Anchor(s), p.opts.Anchor(t)

	lca, ok := p.forest.LCA(s, t)
	if !ok {
		p.logger.Warn("no common ancestor, routing above all levels",
			"source", s.ID(), "target", t.ID())
		return Route{
			Edge:   e,
			Shape:  ShapeBetweenTrees,
			Points: controlpoints.ThroughMidpoint(from, to, p.elevation.Height(-1)),
		}
	}

	up := p.forest.AncestorPath(s, lca)
	down := p.forest.AncestorPath(t, lca)
	if lca == s || lca == t || (len(up) == 2 && len(down) == 2) {
		return Route{
			Edge:   e,
			Shape:  ShapeDirect,
			LCA:    lca,
			Points: controlpoints.Direct(from, to, p.elevation.Height(p.elevation.MaxDepth)),
		}
	}

	// Interior nodes: source's ancestors up to and including the LCA, then
	// the target's ancestors below the LCA, top-down.
	interior := make([]r3.Vec, 0, len(up)+len(down)-3)
	for _, n := range up[1:] {
		interior = append(interior, p.lift(n))
	}
	for i := len(down) - 2; i >= 1; i-- {
		interior = append(interior, p.lift(down[i]))
	}

	return Route{
		Edge:   e,
		Shape:  ShapeHierarchical,
		LCA:    lca,
		Points: controlpoints.Path(from, interior, to),
	}
}

func (p *Plan) lift(n Node) r3.Vec {
	return controlpoints.Raise(n.Center(), p.elevation.Height(p.forest.Level(n)))
}

var _ Strategy = (*Bundled)(nil)
