// Package render groups the renderers of routed layouts.
//
// # Overview
//
// Routing produces control points; renderers turn a scene and its layout
// document into something a person can look at. The [overview] subpackage
// draws the containment hierarchy as nested Graphviz clusters with every
// routed edge coloured by its shape.
//
//	dot := overview.ToDOT(s, l, overview.Options{ShowLCA: true})
//	svg, err := overview.RenderSVG(ctx, dot)
//
// Renders are cached by [pipeline.Runner] under the ID of the layout they
// draw.
//
// [overview]: github.com/matzehuels/edgebundle/pkg/render/overview
// [pipeline.Runner]: github.com/matzehuels/edgebundle/pkg/pipeline
package render
