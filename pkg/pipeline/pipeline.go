// Package pipeline provides the load → layout → render pipeline shared by
// the edgebundle CLI and HTTP server.
//
// Centralizing the stages here keeps caching, validation and hooks
// identical across entry points.
//
// # Stages
//
//  1. Load: read a scene file and build a validated [scene.Scene]
//  2. Layout: route every edge with the selected strategy
//  3. Render: draw the routed scene as a Graphviz overview (SVG or DOT)
//
// Each stage can be run on its own. The [Runner] adds caching on top.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	g, err := pipeline.LoadGraph("city.yaml")
//	l, hit, err := runner.Layout(ctx, g, pipeline.DefaultOptions())
//	svg, _, err := runner.Render(ctx, g, l, pipeline.RenderOptions{Format: pipeline.FormatSVG})
package pipeline

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/go-playground/validator/v10"

	"github.com/matzehuels/edgebundle/pkg/cache"
	errs "github.com/matzehuels/edgebundle/pkg/errors"
	"github.com/matzehuels/edgebundle/pkg/layout"
)

// Output formats for [Runner.Render].
const (
	FormatSVG = "svg"
	FormatDOT = "dot"
)

// ValidFormats is the set of supported render formats.
var ValidFormats = map[string]bool{
	FormatSVG: true,
	FormatDOT: true,
}

var validate = validator.New()

// =============================================================================
// Options - Layout Configuration
// =============================================================================

// Options configures a layout run. It is the [layout] table of the config
// file and the query string of the HTTP API.
type Options struct {
	Strategy         string  `json:"strategy,omitempty" toml:"strategy" validate:"omitempty,oneof=bundled direct"`
	EdgesAboveBlocks bool    `json:"edges_above_blocks" toml:"edges_above_blocks"`
	LevelUnit        float64 `json:"level_unit,omitempty" toml:"level_unit" validate:"gte=0"`
	MinElevation     float64 `json:"min_elevation,omitempty" toml:"min_elevation"`
	DeriveElevation  bool    `json:"derive_elevation" toml:"derive_elevation"`
	Workers          int     `json:"workers,omitempty" toml:"workers" validate:"gte=0,lte=256"`

	// Refresh skips the cache lookup but still stores the result.
	Refresh bool `json:"refresh,omitempty" toml:"-"`

	Logger *log.Logger `json:"-" toml:"-" validate:"-"`
}

// DefaultOptions routes bundled edges above the blocks with elevation
// derived from the scene.
func DefaultOptions() Options {
	d := layout.DefaultOptions()
	return Options{
		Strategy:         layout.StrategyBundled,
		EdgesAboveBlocks: d.EdgesAboveBlocks,
		LevelUnit:        d.LevelUnit,
		DeriveElevation:  d.DeriveElevation,
		Workers:          d.Workers,
	}
}

// SetDefaults fills zero values. It is idempotent.
func (o *Options) SetDefaults() {
	if o.Strategy == "" {
		o.Strategy = layout.StrategyBundled
	}
	if o.LevelUnit == 0 {
		o.LevelUnit = layout.DefaultLevelUnit
	}
	if o.Workers == 0 {
		o.Workers = layout.DefaultWorkers
	}
}

// Validate checks the options after defaults are applied.
func (o Options) Validate() error {
	if err := validate.Struct(o); err != nil {
		if fe, ok := firstFieldError(err); ok && fe.Field() == "Strategy" {
			return errs.New(errs.ErrCodeInvalidStrategy, "unknown strategy %q (must be one of: %s, %s)",
				o.Strategy, layout.StrategyBundled, layout.StrategyDirect)
		}
		return errs.Wrap(errs.ErrCodeInvalidConfig, err, "invalid layout options")
	}
	if err := o.LayoutOptions().Validate(); err != nil {
		return errs.Wrap(errs.ErrCodeInvalidConfig, err, "invalid layout options")
	}
	return nil
}

// LayoutOptions converts to the options of the routing core.
func (o Options) LayoutOptions() layout.Options {
	return layout.Options{
		EdgesAboveBlocks: o.EdgesAboveBlocks,
		LevelUnit:        o.LevelUnit,
		MinElevation:     o.MinElevation,
		DeriveElevation:  o.DeriveElevation,
		Workers:          o.Workers,
		Logger:           o.Logger,
	}
}

// LayoutKeyOpts returns the cache key options for a layout.
func (o Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		Strategy:         o.Strategy,
		EdgesAboveBlocks: o.EdgesAboveBlocks,
		LevelUnit:        o.LevelUnit,
		MinElevation:     o.MinElevation,
		DeriveElevation:  o.DeriveElevation,
	}
}

// =============================================================================
// RenderOptions - Overview Configuration
// =============================================================================

// RenderOptions configures an overview rendering.
type RenderOptions struct {
	Format   string `json:"format"`
	ShowLCA  bool   `json:"show_lca,omitempty"`
	Detailed bool   `json:"detailed,omitempty"`
}

// Validate applies the default format and checks it.
func (o *RenderOptions) Validate() error {
	if o.Format == "" {
		o.Format = FormatSVG
	}
	if !ValidFormats[o.Format] {
		return errs.New(errs.ErrCodeInvalidFormat, "invalid format: %q (must be one of: svg, dot)", o.Format)
	}
	return nil
}

// ArtifactKeyOpts returns the cache key options for a rendering.
func (o RenderOptions) ArtifactKeyOpts() cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format: o.Format,
		Engine: fmt.Sprintf("overview:lca=%t,detailed=%t", o.ShowLCA, o.Detailed),
	}
}

func firstFieldError(err error) (validator.FieldError, bool) {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok || len(verrs) == 0 {
		return nil, false
	}
	return verrs[0], true
}
