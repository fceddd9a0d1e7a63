package layout

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/charmbracelet/log"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/matzehuels/edgebundle/pkg/controlpoints"
)

// Strategy names.
const (
	StrategyBundled = "bundled"
	StrategyDirect  = "direct"
)

// Defaults shared by the CLI, the server and the pipeline.
const (
	DefaultLevelUnit = 1.0
	DefaultWorkers   = 1
)

// ErrInvalidOptions is returned by routing calls whose options fail validation.
var ErrInvalidOptions = errors.New("invalid layout options")

// Options configures a routing pass.
type Options struct {
	// EdgesAboveBlocks anchors edges on node roofs and lifts them upward.
	// When false, edges hang below the nodes from their ground anchors.
	EdgesAboveBlocks bool

	// LevelUnit is the vertical distance per hierarchy level. With
	// DeriveElevation it is the lower bound of the derived unit.
	LevelUnit float64

	// MinElevation is the distance edges keep from their anchors at the
	// deepest level, away from the blocks. Ignored with DeriveElevation.
	MinElevation float64

	// DeriveElevation computes MinElevation and LevelUnit from node heights.
	DeriveElevation bool

	// Workers bounds the number of goroutines routing edges. Values below 2
	// route sequentially.
	Workers int

	// Logger receives diagnostics. Nil discards them.
	Logger *log.Logger
}

// DefaultOptions returns edges above blocks with elevation derived from the scene.
func DefaultOptions() Options {
	return Options{
		EdgesAboveBlocks: true,
		LevelUnit:        DefaultLevelUnit,
		DeriveElevation:  true,
		Workers:          DefaultWorkers,
	}
}

// Validate checks that the options describe a usable elevation law.
func (o Options) Validate() error {
	if !(o.LevelUnit > 0) || math.IsInf(o.LevelUnit, 0) {
		return fmt.Errorf("%w: level unit must be positive and finite, got %v", ErrInvalidOptions, o.LevelUnit)
	}
	if math.IsNaN(o.MinElevation) || math.IsInf(o.MinElevation, 0) {
		return fmt.Errorf("%w: min elevation must be finite, got %v", ErrInvalidOptions, o.MinElevation)
	}
	if o.Workers < 0 {
		return fmt.Errorf("%w: workers must not be negative, got %d", ErrInvalidOptions, o.Workers)
	}
	return nil
}

// Direction returns the side of the nodes edges are drawn on.
func (o Options) Direction() controlpoints.Direction {
	if o.EdgesAboveBlocks {
		return controlpoints.Up
	}
	return controlpoints.Down
}

// Anchor returns the anchor point edges attach to on n.
func (o Options) Anchor(n Node) r3.Vec {
	if o.EdgesAboveBlocks {
		return n.Roof()
	}
	return n.Ground()
}

func (o Options) logger() *log.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return log.NewWithOptions(io.Discard, log.Options{})
}
