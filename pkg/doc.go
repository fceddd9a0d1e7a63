// Package pkg provides the libraries behind edgebundle, a router for edges
// drawn over hierarchical 3D layouts.
//
// # Overview
//
// A scene is a forest of boxes: blocks nested inside blocks, each with a
// center and a scale, plus directed edges between them. Edgebundle computes
// the control points of every edge so that a renderer can draw it as a
// spline. Bundled routing lifts an edge from its source up through the
// hierarchy to the lowest common ancestor of its endpoints and back down,
// so edges that share ancestors share a path.
//
// # Architecture
//
// The typical data flow:
//
//	Scene document (JSON/YAML)
//	         ↓
//	    [graph] package (decode nodes and edges)
//	         ↓
//	    [scene] package (validate, link parents, assign levels)
//	         ↓
//	    [layout] package (route each edge with a strategy)
//	         ↓
//	    Layout document / [render/overview] diagram
//
// # Main Packages
//
// ## Routing
//
// [hierarchy] - A generic forest with levels, lowest common ancestors and
// ancestor paths.
//
// [controlpoints] - Control point sequences and the builders for self-loops,
// straight lines and lifted paths.
//
// [layout] - The bundled and direct strategies, the elevation law that maps
// hierarchy levels to heights, and concurrent routing of a whole scene.
//
// ## Documents
//
// [graph] - Serialization types for scenes and layouts (JSON and YAML).
//
// [scene] - The validated, linked form of a scene that strategies route on.
//
// ## Orchestration
//
// [pipeline] - Load, route, cache and render, shared by the CLI and the
// HTTP server. Configuration comes from a TOML file.
//
// [cache] - Layout and render caching with file, Redis and MongoDB backends.
//
// [server] - The HTTP API.
//
// ## Observability
//
// [observability] - Hooks fired by routing, caching and HTTP handling.
//
// [metrics] - Prometheus implementations of those hooks.
//
// [errors] - Coded errors and input validation.
//
// # Quick Start
//
//	g, _ := graph.ReadGraphFile("city.json")
//	runner := pipeline.NewRunner(nil, nil, nil)
//	l, _, err := runner.Layout(ctx, g, pipeline.DefaultOptions())
//	if err != nil {
//	    return err
//	}
//	for _, r := range l.Routes {
//	    fmt.Println(r.From, "->", r.To, r.Shape, len(r.Points))
//	}
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...                    # All tests
//	go test ./pkg/layout/...             # Specific package
//	go test -run Example                 # Examples only
//	go test -tags integration ./pkg/...  # Include backend integration tests
//
// [hierarchy]: https://pkg.go.dev/github.com/matzehuels/edgebundle/pkg/hierarchy
// [controlpoints]: https://pkg.go.dev/github.com/matzehuels/edgebundle/pkg/controlpoints
// [layout]: https://pkg.go.dev/github.com/matzehuels/edgebundle/pkg/layout
// [graph]: https://pkg.go.dev/github.com/matzehuels/edgebundle/pkg/graph
// [scene]: https://pkg.go.dev/github.com/matzehuels/edgebundle/pkg/scene
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/edgebundle/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/edgebundle/pkg/cache
// [server]: https://pkg.go.dev/github.com/matzehuels/edgebundle/pkg/server
// [observability]: https://pkg.go.dev/github.com/matzehuels/edgebundle/pkg/observability
// [metrics]: https://pkg.go.dev/github.com/matzehuels/edgebundle/pkg/metrics
// [errors]: https://pkg.go.dev/github.com/matzehuels/edgebundle/pkg/errors
// [render/overview]: https://pkg.go.dev/github.com/matzehuels/edgebundle/pkg/render/overview
package pkg
