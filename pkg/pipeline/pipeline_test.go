package pipeline

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/edgebundle/pkg/cache"
	errs "github.com/matzehuels/edgebundle/pkg/errors"
	"github.com/matzehuels/edgebundle/pkg/graph"
	"github.com/matzehuels/edgebundle/pkg/observability"
)

func box(id, parent string, x, y, h float64) graph.Node {
	return graph.Node{
		ID:       id,
		Parent:   parent,
		Position: graph.Vec3{X: x, Y: y},
		Scale:    graph.Vec3{X: 1, Y: h, Z: 1},
	}
}

func city() graph.Graph {
	return graph.Graph{
		Nodes: []graph.Node{
			box("R", "", 0, 0.5, 1),
			box("A", "R", -2, 1.5, 1),
			box("B", "R", 2, 1.5, 1),
			box("L1", "A", -2, 2.5, 1),
			box("L2", "B", 2, 3, 2),
			box("S", "", 10, 0.5, 1),
		},
		Edges: []graph.Edge{
			{From: "L1", To: "L2"},
			{From: "A", To: "S"},
			{From: "L1", To: "L1"},
		},
	}
}

func TestOptionsValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Options)
		code   errs.Code
	}{
		{"defaults", func(*Options) {}, ""},
		{"direct", func(o *Options) { o.Strategy = "direct" }, ""},
		{"unknown strategy", func(o *Options) { o.Strategy = "spline" }, errs.ErrCodeInvalidStrategy},
		{"negative unit", func(o *Options) { o.LevelUnit = -1 }, errs.ErrCodeInvalidConfig},
		{"too many workers", func(o *Options) { o.Workers = 1000 }, errs.ErrCodeInvalidConfig},
		{"NaN elevation", func(o *Options) { o.MinElevation = math.NaN() }, errs.ErrCodeInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultOptions()
			tt.modify(&opts)
			opts.SetDefaults()
			err := opts.Validate()
			if tt.code == "" {
				if err != nil {
					t.Fatalf("Validate() error = %v", err)
				}
				return
			}
			if !errs.Is(err, tt.code) {
				t.Errorf("Validate() error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestSetDefaults(t *testing.T) {
	var opts Options
	opts.SetDefaults()
	if opts.Strategy != "bundled" {
		t.Errorf("Strategy = %q, want bundled", opts.Strategy)
	}
	if opts.LevelUnit != 1 || opts.Workers != 1 {
		t.Errorf("LevelUnit = %v, Workers = %d", opts.LevelUnit, opts.Workers)
	}

	// Idempotent
	opts.Workers = 4
	opts.SetDefaults()
	if opts.Workers != 4 {
		t.Error("SetDefaults() overwrote a set value")
	}
}

func TestRenderOptionsValidate(t *testing.T) {
	var opts RenderOptions
	if err := opts.Validate(); err != nil || opts.Format != FormatSVG {
		t.Errorf("empty format: err = %v, format = %q", err, opts.Format)
	}

	opts = RenderOptions{Format: "png"}
	if err := opts.Validate(); !errs.Is(err, errs.ErrCodeInvalidFormat) {
		t.Errorf("png: err = %v, want INVALID_FORMAT", err)
	}

	a := RenderOptions{Format: FormatSVG}.ArtifactKeyOpts()
	b := RenderOptions{Format: FormatSVG, ShowLCA: true}.ArtifactKeyOpts()
	if a == b {
		t.Error("ShowLCA should change the artifact key")
	}
}

type shapeCounter struct {
	observability.NoopLayoutHooks
	routed map[string]int
}

func (s *shapeCounter) OnRouted(_ context.Context, _, shape string, n int) {
	s.routed[shape] += n
}

func TestRunnerLayout(t *testing.T) {
	defer observability.Reset()
	hooks := &shapeCounter{routed: make(map[string]int)}
	observability.SetLayoutHooks(hooks)

	r := NewRunner(nil, nil, nil)
	l, hit, err := r.Layout(context.Background(), city(), DefaultOptions())
	if err != nil {
		t.Fatalf("Layout() error: %v", err)
	}
	if hit {
		t.Error("NullCache should never hit")
	}

	if l.ID == "" || l.SceneHash == "" || l.CreatedAt.IsZero() {
		t.Errorf("document identity not set: %+v", l)
	}
	if l.Strategy != "bundled" || !l.EdgesAboveBlocks || l.MaxDepth != 2 {
		t.Errorf("parameters = %s above=%v depth=%d", l.Strategy, l.EdgesAboveBlocks, l.MaxDepth)
	}
	// Derived from the tallest node (height 2).
	if l.MinElevation != 3 || l.LevelUnit != 1 {
		t.Errorf("elevation = min %v unit %v, want 3 and 1", l.MinElevation, l.LevelUnit)
	}

	wantShapes := []string{"hierarchical", "between-trees", "self-loop"}
	if len(l.Routes) != len(wantShapes) {
		t.Fatalf("got %d routes, want %d", len(l.Routes), len(wantShapes))
	}
	for i, want := range wantShapes {
		if l.Routes[i].Shape != want {
			t.Errorf("route %d shape = %q, want %q", i, l.Routes[i].Shape, want)
		}
	}
	if l.Routes[0].LCA != "R" || l.Routes[1].LCA != "" {
		t.Errorf("LCAs = %q, %q", l.Routes[0].LCA, l.Routes[1].LCA)
	}

	if l.Stats.Nodes != 6 || l.Stats.Roots != 2 || l.Stats.Edges != 3 {
		t.Errorf("stats = %+v", l.Stats)
	}
	for _, shape := range wantShapes {
		if l.Stats.Shapes[shape] != 1 || hooks.routed[shape] != 1 {
			t.Errorf("%s: stats %d, hook %d", shape, l.Stats.Shapes[shape], hooks.routed[shape])
		}
	}
}

func TestRunnerLayoutDirect(t *testing.T) {
	opts := DefaultOptions()
	opts.Strategy = "direct"

	l, _, err := NewRunner(nil, nil, nil).Layout(context.Background(), city(), opts)
	if err != nil {
		t.Fatalf("Layout() error: %v", err)
	}
	got := []string{l.Routes[0].Shape, l.Routes[1].Shape, l.Routes[2].Shape}
	want := []string{"straight", "straight", "self-loop"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("shapes = %v, want %v", got, want)
			break
		}
	}
}

func TestRunnerLayoutCache(t *testing.T) {
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := NewRunner(c, nil, nil)
	ctx := context.Background()

	first, hit, err := r.Layout(ctx, city(), DefaultOptions())
	if err != nil || hit {
		t.Fatalf("first Layout() hit = %v, err = %v", hit, err)
	}

	second, hit, err := r.Layout(ctx, city(), DefaultOptions())
	if err != nil || !hit {
		t.Fatalf("second Layout() hit = %v, err = %v", hit, err)
	}
	if second.ID != first.ID || len(second.Routes) != len(first.Routes) {
		t.Error("cached layout differs from the stored one")
	}

	opts := DefaultOptions()
	opts.EdgesAboveBlocks = false
	if _, hit, _ := r.Layout(ctx, city(), opts); hit {
		t.Error("different options should not share a cache entry")
	}

	opts = DefaultOptions()
	opts.Refresh = true
	refreshed, hit, err := r.Layout(ctx, city(), opts)
	if err != nil || hit {
		t.Fatalf("refresh Layout() hit = %v, err = %v", hit, err)
	}
	if refreshed.ID == first.ID {
		t.Error("refresh should recompute the layout")
	}
}

func TestRunnerLayoutErrors(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	ctx := context.Background()

	g := city()
	g.Nodes[1].Parent = "nowhere"
	if _, _, err := r.Layout(ctx, g, DefaultOptions()); !errs.Is(err, errs.ErrCodeUnknownNode) {
		t.Errorf("unknown parent: err = %v", err)
	}

	opts := DefaultOptions()
	opts.Strategy = "spline"
	if _, _, err := r.Layout(ctx, city(), opts); !errs.Is(err, errs.ErrCodeInvalidStrategy) {
		t.Errorf("unknown strategy: err = %v", err)
	}

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	if _, _, err := r.Layout(cancelled, city(), DefaultOptions()); err == nil {
		t.Error("cancelled context should fail")
	}
}

func TestRunnerRender(t *testing.T) {
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := NewRunner(c, nil, nil)
	ctx := context.Background()

	l, _, err := r.Layout(ctx, city(), DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}

	dot, hit, err := r.Render(ctx, city(), l, RenderOptions{Format: FormatDOT, ShowLCA: true})
	if err != nil || hit {
		t.Fatalf("Render() hit = %v, err = %v", hit, err)
	}
	if !strings.Contains(string(dot), `"L1" -> "L2"`) || !strings.Contains(string(dot), "via R") {
		t.Errorf("unexpected DOT:\n%s", dot)
	}

	again, hit, err := r.Render(ctx, city(), l, RenderOptions{Format: FormatDOT, ShowLCA: true})
	if err != nil || !hit || string(again) != string(dot) {
		t.Errorf("second Render() hit = %v, err = %v", hit, err)
	}

	if _, _, err := r.Render(ctx, city(), l, RenderOptions{Format: "pdf"}); !errs.Is(err, errs.ErrCodeInvalidFormat) {
		t.Errorf("pdf: err = %v", err)
	}
}

func TestLoadScene(t *testing.T) {
	path := filepath.Join(t.TempDir(), "city.json")
	if err := graph.WriteGraphFile(city(), path); err != nil {
		t.Fatal(err)
	}

	g, s, err := LoadScene(context.Background(), path)
	if err != nil {
		t.Fatalf("LoadScene() error: %v", err)
	}
	if len(g.Edges) != 3 || s.Len() != 6 {
		t.Errorf("loaded %d edges, %d nodes", len(g.Edges), s.Len())
	}

	if _, _, err := LoadScene(context.Background(), filepath.Join(t.TempDir(), "missing.json")); !errs.Is(err, errs.ErrCodeFileNotFound) {
		t.Errorf("missing file: err = %v", err)
	}
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
		return path
	}

	t.Run("defaults", func(t *testing.T) {
		cfg, err := LoadConfig("")
		if err != nil {
			t.Fatal(err)
		}
		if cfg.Server.Addr != DefaultAddr || cfg.Cache.Backend != cache.BackendFile || !cfg.Layout.EdgesAboveBlocks {
			t.Errorf("defaults = %+v", cfg)
		}
	})

	t.Run("overrides", func(t *testing.T) {
		path := write("ok.toml", `
[layout]
strategy = "direct"
edges_above_blocks = false
workers = 4

[cache]
backend = "redis"
redis_addr = "localhost:6379"

[server]
addr = "127.0.0.1:9000"
timeout = "5s"
`)
		cfg, err := LoadConfig(path)
		if err != nil {
			t.Fatalf("LoadConfig() error: %v", err)
		}
		if cfg.Layout.Strategy != "direct" || cfg.Layout.EdgesAboveBlocks || cfg.Layout.Workers != 4 {
			t.Errorf("layout = %+v", cfg.Layout)
		}
		// Unset keys keep their defaults.
		if !cfg.Layout.DeriveElevation || cfg.Layout.LevelUnit != 1 {
			t.Errorf("layout defaults lost: %+v", cfg.Layout)
		}
		if cfg.Cache.RedisAddr != "localhost:6379" {
			t.Errorf("cache = %+v", cfg.Cache)
		}
		if d, _ := cfg.Server.RequestTimeout(); d != 5*time.Second {
			t.Errorf("timeout = %v", d)
		}
	})

	t.Run("errors", func(t *testing.T) {
		tests := []struct {
			name    string
			content string
			code    errs.Code
		}{
			{"unknown key", "[layout]\nspline = true\n", errs.ErrCodeInvalidConfig},
			{"bad strategy", "[layout]\nstrategy = \"spline\"\n", errs.ErrCodeInvalidStrategy},
			{"bad timeout", "[server]\ntimeout = \"soon\"\n", errs.ErrCodeInvalidConfig},
			{"syntax", "[layout\n", errs.ErrCodeInvalidConfig},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := LoadConfig(write(strings.ReplaceAll(tt.name, " ", "_")+".toml", tt.content))
				if !errs.Is(err, tt.code) {
					t.Errorf("LoadConfig() error = %v, want code %s", err, tt.code)
				}
			})
		}

		if _, err := LoadConfig(filepath.Join(dir, "absent.toml")); !errs.Is(err, errs.ErrCodeFileNotFound) {
			t.Errorf("missing file: err = %v", err)
		}
	})
}
