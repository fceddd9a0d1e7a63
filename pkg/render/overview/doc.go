// Package overview renders a scene and its routed edges as a Graphviz
// diagram for inspection.
//
// # Overview
//
// The diagram is a flattened, schematic view: every node with children
// becomes a cluster, leaves become boxes, and each routed edge becomes an
// arrow coloured by the shape it was routed with. Geometry is not
// preserved; Graphviz positions everything. The overview answers "which
// edges were bundled through which ancestors", not "what does the 3D
// layout look like".
//
// # Usage
//
//	dot := overview.ToDOT(s, l, overview.Options{ShowLCA: true})
//	svg, err := overview.RenderSVG(ctx, dot)
//
// # Colours
//
//	self-loop      grey
//	between-trees  red
//	direct         blue
//	hierarchical   green
//	straight       black
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering, so no Graphviz installation is needed.
package overview
