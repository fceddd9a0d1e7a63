package layout

import (
	"github.com/matzehuels/edgebundle/pkg/controlpoints"
)

// Elevation is the per-pass vertical placement law.
type Elevation struct {
	Min      float64                 // signed lift at the deepest level
	Unit     float64                 // added per level towards the roots
	MaxDepth int                     // deepest level in the forest
	Dir      controlpoints.Direction // Up above the nodes, Down below them
}

// Height returns the lift for control points of nodes at level. Level -1
// is one step above the roots and is used for edges between trees.
//
// For Dir == Up, Height is strictly decreasing in level and
// Height(MaxDepth) == Min.
func (e Elevation) Height(level int) float64 {
	return e.Min + float64(e.Dir)*float64(e.MaxDepth-level)*e.Unit
}

// NewElevation builds the law for a pass from explicit options. The
// configured MinElevation is a distance and is applied in the edge direction.
func NewElevation(opts Options, maxDepth int) Elevation {
	return Elevation{
		Min:      float64(opts.Direction()) * opts.MinElevation,
		Unit:     opts.LevelUnit,
		MaxDepth: maxDepth,
		Dir:      opts.Direction(),
	}
}

// DeriveElevation builds the law from node geometry: Min is 1.5× the
// tallest node (so curves clear every block) in direction dir, and Unit is
// a fifth of the tallest node but never less than minUnit.
func DeriveElevation(nodes []Node, maxDepth int, dir controlpoints.Direction, minUnit float64) Elevation {
	var tallest float64
	for _, n := range nodes {
		tallest = max(tallest, n.Scale().Y)
	}
	return Elevation{
		Min:      float64(dir) * 1.5 * tallest,
		Unit:     max(minUnit, tallest/5),
		MaxDepth: maxDepth,
		Dir:      dir,
	}
}

func elevationFor(opts Options, nodes []Node, maxDepth int) Elevation {
	if opts.DeriveElevation {
		return DeriveElevation(nodes, maxDepth, opts.Direction(), opts.LevelUnit)
	}
	return NewElevation(opts, maxDepth)
}
