// Package graph provides the serialization types for scenes and computed
// edge layouts.
//
// This package defines the wire format used for scene files, HTTP request
// and response bodies, and cache entries. It carries no geometry logic:
// pkg/scene turns a [Graph] into layout nodes, and pkg/pipeline turns
// routes back into a [Layout].
//
// # Core Types
//
//   - [Graph]: nodes with a parent link, a center position and a scale,
//     plus the directed edges between them
//   - [Layout]: the routed control points for every edge together with the
//     parameters they were computed with
//   - [Vec3]: a tagged 3D vector shared by both
//
// # Scene Files
//
// Scenes are JSON or YAML, chosen by file extension:
//
//	{
//	  "nodes": [
//	    {"id": "R", "position": {"x": 0, "y": 0.5, "z": 0}, "scale": {"x": 10, "y": 1, "z": 10}},
//	    {"id": "A", "parent": "R", "position": {"x": -2, "y": 1.5, "z": 0}, "scale": {"x": 1, "y": 1, "z": 1}}
//	  ],
//	  "edges": [{"from": "A", "to": "R"}]
//	}
//
// Common operations:
//
//	g, _ := graph.ReadGraphFile("city.yaml")
//	data, _ := graph.MarshalLayout(l, graph.FormatJSON)
//	l, _ := graph.ReadLayoutFile("city.routes.json")
//
// # Concurrency
//
// All functions are safe for concurrent use. The types are plain values
// and not synchronized.
package graph
