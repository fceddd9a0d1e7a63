package graph

import (
	"time"
)

// =============================================================================
// Layout - Routed Edges
// =============================================================================

// Layout is the serialization format for a computed edge layout.
//
// Routes are in edge order: the order of [Graph.Edges] for scene files, or
// node order then successor order when edges come from node adjacency.
// Every route's Points has at least four entries; consumers treat the
// sequence as a B-spline control polygon.
type Layout struct {
	ID        string    `json:"id" yaml:"id" bson:"_id"`
	SceneHash string    `json:"scene_hash,omitempty" yaml:"scene_hash,omitempty" bson:"scene_hash,omitempty"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at" bson:"created_at"`

	// Parameters the routes were computed with
	Strategy         string  `json:"strategy" yaml:"strategy" bson:"strategy"`
	EdgesAboveBlocks bool    `json:"edges_above_blocks" yaml:"edges_above_blocks" bson:"edges_above_blocks"`
	LevelUnit        float64 `json:"level_unit" yaml:"level_unit" bson:"level_unit"`
	MinElevation     float64 `json:"min_elevation" yaml:"min_elevation" bson:"min_elevation"`
	MaxDepth         int     `json:"max_depth" yaml:"max_depth" bson:"max_depth"`

	Routes []Route `json:"routes" yaml:"routes" bson:"routes"`
	Stats  Stats   `json:"stats" yaml:"stats" bson:"stats"`
}

// Route is the control polygon for one edge.
type Route struct {
	From   string `json:"from" yaml:"from" bson:"from"`
	To     string `json:"to" yaml:"to" bson:"to"`
	Shape  string `json:"shape" yaml:"shape" bson:"shape"`
	LCA    string `json:"lca,omitempty" yaml:"lca,omitempty" bson:"lca,omitempty"`
	Points []Vec3 `json:"points" yaml:"points" bson:"points"`
}

// Stats summarizes a layout.
type Stats struct {
	Nodes  int            `json:"nodes" yaml:"nodes" bson:"nodes"`
	Roots  int            `json:"roots" yaml:"roots" bson:"roots"`
	Edges  int            `json:"edges" yaml:"edges" bson:"edges"`
	Shapes map[string]int `json:"shapes,omitempty" yaml:"shapes,omitempty" bson:"shapes,omitempty"`
}

// Find returns the first route from one node to another.
func (l *Layout) Find(from, to string) (Route, bool) {
	for _, r := range l.Routes {
		if r.From == from && r.To == to {
			return r, true
		}
	}
	return Route{}, false
}

// ByShape groups route indices by shape name, preserving route order.
func (l *Layout) ByShape() map[string][]int {
	out := make(map[string][]int)
	for i, r := range l.Routes {
		out[r.Shape] = append(out[r.Shape], i)
	}
	return out
}
