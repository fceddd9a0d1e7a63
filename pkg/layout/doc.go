// Package layout routes edges between nested 3D nodes.
//
// Callers supply final node positions through the [Node] interface and an
// edge list (usually from [EdgesOf]). A [Strategy] turns every edge into a
// [Route]: the edge, the [Shape] it was classified as, and the control
// polygon for a cubic B-spline. Evaluating the spline is left to the caller.
//
// # Strategies
//
//   - [Bundled]: routes edges along the containment hierarchy. Each edge
//     climbs from its source to the lowest common ancestor of both
//     endpoints and descends to its target, with one control point per
//     node on the way. Shallower nodes lift their control point higher, so
//     edges that share ancestors share the upper part of their curves.
//   - [Direct]: ignores the hierarchy and draws one straight arc per edge.
//
// # Shapes
//
// The bundled strategy classifies each edge, in order:
//
//	ShapeSelfLoop      source == target: a diagonal loop over the node
//	ShapeBetweenTrees  endpoints in different trees: arc through the midpoint, Height(-1) past the outer anchor
//	ShapeDirect        parent/child or siblings: arc raised by Height(maxDepth)
//	ShapeHierarchical  everything else: one point per node on the tree path
//
// # Elevation
//
// Heights follow a single law (see [Elevation.Height]):
//
//	Height(level) = Min + dir × (maxDepth − level) × Unit
//
// so Height(maxDepth) == Min and every step towards the roots adds one Unit.
// With [Options].DeriveElevation the values are taken from the node
// geometry: Min is 1.5× the tallest node and Unit at least a fifth of it.
//
// # Concurrency
//
// A routing pass builds its ancestry snapshot once and shares it read-only.
// With Options.Workers > 1 edges are routed in parallel; the output order
// always matches the input edge order. Nodes must not change while a pass
// is running.
package layout
