package pipeline

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/edgebundle/pkg/cache"
	errs "github.com/matzehuels/edgebundle/pkg/errors"
	"github.com/matzehuels/edgebundle/pkg/graph"
	"github.com/matzehuels/edgebundle/pkg/observability"
	"github.com/matzehuels/edgebundle/pkg/scene"
)

// Cache key types reported to the cache hooks.
const (
	keyTypeLayout   = "layout"
	keyTypeArtifact = "artifact"
)

// Runner runs the pipeline with caching. Both the CLI and the server use
// it so cache keys and hooks stay identical.
//
// The Runner holds no results. Multiple goroutines can share one Runner
// with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner. A nil cache disables caching, a nil keyer
// means [cache.DefaultKeyer] and a nil logger discards output.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Layout routes the edges of g, reading and filling the cache. The second
// result reports a cache hit.
func (r *Runner) Layout(ctx context.Context, g graph.Graph, opts Options) (graph.Layout, bool, error) {
	opts.SetDefaults()
	if err := opts.Validate(); err != nil {
		return graph.Layout{}, false, err
	}
	r.applyLogger(&opts)

	sceneHash, err := cache.HashJSON(g)
	if err != nil {
		return graph.Layout{}, false, errs.Wrap(errs.ErrCodeInvalidScene, err, "hash scene")
	}
	key := r.Keyer.LayoutKey(sceneHash, opts.LayoutKeyOpts())

	if !opts.Refresh {
		if data, ok := r.get(ctx, keyTypeLayout, key); ok {
			l, err := graph.UnmarshalLayout(data, graph.FormatJSON)
			if err == nil {
				r.Logger.Debug("layout cache hit", "key", key)
				return l, true, nil
			}
			// Undecodable entries are recomputed and overwritten.
			r.Logger.Warn("discarding cached layout", "key", key, "err", err)
		}
	}

	s, err := scene.Build(g)
	if err != nil {
		return graph.Layout{}, false, err
	}

	start := time.Now()
	l, err := ComputeLayout(ctx, s, opts)
	if err != nil {
		return graph.Layout{}, false, err
	}
	l.SceneHash = sceneHash
	r.Logger.Info("routed edges",
		"strategy", l.Strategy,
		"nodes", l.Stats.Nodes,
		"edges", l.Stats.Edges,
		"duration", time.Since(start))

	if data, err := graph.MarshalLayout(l, graph.FormatJSON); err == nil {
		r.set(ctx, keyTypeLayout, key, data, cache.TTLLayout)
	}
	return l, false, nil
}

// Render draws a layout computed for g. Renderings are cached per layout
// ID and render options.
func (r *Runner) Render(ctx context.Context, g graph.Graph, l graph.Layout, opts RenderOptions) ([]byte, bool, error) {
	if err := opts.Validate(); err != nil {
		return nil, false, err
	}

	key := r.Keyer.ArtifactKey(l.ID, opts.ArtifactKeyOpts())
	if l.ID != "" {
		if data, ok := r.get(ctx, keyTypeArtifact, key); ok {
			return data, true, nil
		}
	}

	s, err := scene.Build(g)
	if err != nil {
		return nil, false, err
	}

	hooks := observability.Layout()
	hooks.OnRenderStart(ctx, opts.Format)
	start := time.Now()
	data, err := RenderOverview(ctx, s, l, opts)
	hooks.OnRenderComplete(ctx, opts.Format, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	if l.ID != "" {
		r.set(ctx, keyTypeArtifact, key, data, cache.TTLArtifact)
	}
	return data, false, nil
}

// Close releases the cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// get reads the cache. Backend errors count as misses.
func (r *Runner) get(ctx context.Context, keyType, key string) ([]byte, bool) {
	hooks := observability.Cache()
	data, hit, err := r.Cache.Get(ctx, key)
	switch {
	case err != nil:
		hooks.OnCacheError(ctx, keyType, err)
		r.Logger.Warn("cache read failed", "key", key, "err", err)
		return nil, false
	case !hit:
		hooks.OnCacheMiss(ctx, keyType)
		return nil, false
	}
	hooks.OnCacheHit(ctx, keyType)
	return data, true
}

// set writes the cache. Failures are logged, not returned.
func (r *Runner) set(ctx context.Context, keyType, key string, data []byte, ttl time.Duration) {
	hooks := observability.Cache()
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		hooks.OnCacheError(ctx, keyType, err)
		r.Logger.Warn("cache write failed", "key", key, "err", err)
		return
	}
	hooks.OnCacheSet(ctx, keyType, len(data))
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
