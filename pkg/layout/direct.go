package layout

import (
	"context"

	"github.com/matzehuels/edgebundle/pkg/controlpoints"
)

// Direct draws every edge as one straight arc between its anchors,
// ignoring the hierarchy. Self-edges still get a loop.
type Direct struct {
	opts Options
}

// NewDirect creates a direct strategy.
func NewDirect(opts Options) *Direct {
	return &Direct{opts: opts}
}

// Name returns "direct".
func (d *Direct) Name() string { return StrategyDirect }

// Route routes every edge. nodes is only used for logging.
func (d *Direct) Route(ctx context.Context, nodes []Node, edges []Edge) ([]Route, error) {
	if err := d.opts.Validate(); err != nil {
		return nil, err
	}
	routes, err := routeEach(ctx, d.opts.Workers, edges, d.route)
	if err != nil {
		return nil, err
	}
	d.opts.logger().Debug("routed edges", "strategy", d.Name(), "nodes", len(nodes), "edges", len(routes))
	return routes, nil
}

func (d *Direct) route(e Edge) Route {
	if e.IsSelfLoop() {
		return Route{
			Edge:   e,
			Shape:  ShapeSelfLoop,
			LCA:    e.Source,
			Points: controlpoints.SelfLoop(d.opts.Anchor(e.Source), e.Source.Scale(), d.opts.Direction(), d.opts.LevelUnit),
		}
	}
	return Route{
		Edge:   e,
		Shape:  ShapeStraight,
		Points: controlpoints.Straight(d.opts.Anchor(e.Source), d.opts.Anchor(e.Target)),
	}
}

var _ Strategy = (*Direct)(nil)
