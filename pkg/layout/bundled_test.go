package layout

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/matzehuels/edgebundle/pkg/controlpoints"
	"github.com/matzehuels/edgebundle/pkg/hierarchy"
)

const tol = 1e-9

func routeOne(t *testing.T, opts Options, w *world, e Edge) Route {
	t.Helper()
	routes, err := NewBundled(opts).Route(context.Background(), w.nodes, []Edge{e})
	if err != nil {
		t.Fatalf("Route() error: %v", err)
	}
	if len(routes) != 1 {
		t.Fatalf("Route() returned %d routes, want 1", len(routes))
	}
	return routes[0]
}

func TestBundledCousinsFollowTheTree(t *testing.T) {
	w := twoBranches()
	r := routeOne(t, explicitOptions(0, 1), w, w.edge("L1", "L2"))

	if r.Shape != ShapeHierarchical {
		t.Fatalf("Shape = %v, want %v", r.Shape, ShapeHierarchical)
	}
	if r.LCA != w.byID["R"] {
		t.Errorf("LCA = %v, want R", r.LCA.ID())
	}

	want := controlpoints.Points{
		w.byID["L1"].Roof(),
		raise(w.byID["A"].Center(), 1),
		raise(w.byID["R"].Center(), 2),
		raise(w.byID["B"].Center(), 1),
		w.byID["L2"].Roof(),
	}
	if !r.Points.ApproxEqual(want, tol) {
		t.Errorf("Points = %v, want %v", r.Points, want)
	}
}

func TestBundledImmediateChildrenOfRoot(t *testing.T) {
	w := newWorld()
	w.add("root", "", 0, 0.5, 0, 1)
	w.add("A", "root", -1, 1.5, 0, 1)
	w.add("B", "root", 1, 1.5, 0, 1)

	opts := explicitOptions(0.25, 1)
	r := routeOne(t, opts, w, w.edge("A", "B"))

	if r.Shape != ShapeDirect {
		t.Fatalf("Shape = %v, want %v", r.Shape, ShapeDirect)
	}
	if r.LCA != w.byID["root"] {
		t.Errorf("LCA = %v, want root", r.LCA.ID())
	}
	// Height(maxDepth) == MinElevation.
	want := controlpoints.Direct(w.byID["A"].Roof(), w.byID["B"].Roof(), 0.25)
	if !r.Points.ApproxEqual(want, tol) {
		t.Errorf("Points = %v, want %v", r.Points, want)
	}
}

func TestBundledSiblingShortcutAtAnyDepth(t *testing.T) {
	w := newWorld()
	w.add("R", "", 0, 0, 0, 1)
	w.add("X", "R", 0, 1, 0, 1)
	w.add("Y", "X", 0, 2, 0, 1)
	w.add("P", "Y", -1, 3, 0, 1)
	w.add("Q", "Y", 1, 3, 0, 1)
	w.add("Z", "R", 5, 1, 0, 1)
	w.add("Z1", "Z", 5, 2, 0, 1)
	w.add("Z2", "Z1", 5, 3, 0, 1)
	w.add("Z3", "Z2", 5, 4, 0, 1)

	opts := explicitOptions(0.5, 2)
	r := routeOne(t, opts, w, w.edge("P", "Q"))

	if r.Shape != ShapeDirect {
		t.Fatalf("Shape = %v, want %v", r.Shape, ShapeDirect)
	}
	want := controlpoints.Direct(w.byID["P"].Roof(), w.byID["Q"].Roof(), 0.5)
	if !r.Points.ApproxEqual(want, tol) {
		t.Errorf("Points = %v, want %v", r.Points, want)
	}
}

func TestBundledAncestorEdges(t *testing.T) {
	w := twoBranches()
	opts := explicitOptions(0.5, 1)

	tests := []struct {
		name     string
		from, to string
		lca      string
	}{
		{"to parent", "L1", "A", "A"},
		{"to root", "L2", "R", "R"},
		{"from root", "R", "L1", "R"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := routeOne(t, opts, w, w.edge(tt.from, tt.to))
			if r.Shape != ShapeDirect {
				t.Fatalf("Shape = %v, want %v", r.Shape, ShapeDirect)
			}
			if r.LCA != w.byID[tt.lca] {
				t.Errorf("LCA = %v, want %s", r.LCA.ID(), tt.lca)
			}
			want := controlpoints.Direct(w.byID[tt.from].Roof(), w.byID[tt.to].Roof(), 0.5)
			if !r.Points.ApproxEqual(want, tol) {
				t.Errorf("Points = %v, want %v", r.Points, want)
			}
		})
	}
}

func TestBundledSelfLoop(t *testing.T) {
	for _, above := range []bool{true, false} {
		w := twoBranches()
		opts := explicitOptions(0, 1)
		opts.EdgesAboveBlocks = above
		leaf := w.byID["L1"]

		r := routeOne(t, opts, w, w.edge("L1", "L1"))
		if r.Shape != ShapeSelfLoop {
			t.Fatalf("Shape = %v, want %v", r.Shape, ShapeSelfLoop)
		}
		if r.Points.Len() != 4 {
			t.Fatalf("self-loop has %d points, want 4", r.Points.Len())
		}
		if r.Points[1] != r.Points[2] {
			t.Errorf("middle points differ: %v, %v", r.Points[1], r.Points[2])
		}
		if above && !(r.Points[1].Y > leaf.Roof().Y) {
			t.Errorf("loop peak %v not above roof %v", r.Points[1].Y, leaf.Roof().Y)
		}
		if !above && !(r.Points[1].Y < leaf.Ground().Y) {
			t.Errorf("loop peak %v not below ground %v", r.Points[1].Y, leaf.Ground().Y)
		}
	}
}

func TestBundledBetweenTrees(t *testing.T) {
	w := twoBranches()
	w.add("S", "", 10, 0.5, 0, 1)
	w.add("C", "S", 10, 1.5, 0, 1)

	var buf bytes.Buffer
	opts := explicitOptions(0, 1)
	opts.Logger = log.New(&buf)

	r := routeOne(t, opts, w, w.edge("L1", "C"))
	if r.Shape != ShapeBetweenTrees {
		t.Fatalf("Shape = %v, want %v", r.Shape, ShapeBetweenTrees)
	}
	if r.LCA != nil {
		t.Errorf("LCA = %v, want nil", r.LCA.ID())
	}

	// maxDepth 2: Height(-1) = 0 + (2 - -1) * 1 = 3, lifted from L1's roof (y=3).
	mid := r3.Vec{X: 4, Y: 6, Z: 0}
	want := controlpoints.Points{w.byID["L1"].Roof(), mid, mid, w.byID["C"].Roof()}
	if !r.Points.ApproxEqual(want, tol) {
		t.Errorf("Points = %v, want %v", r.Points, want)
	}

	out := buf.String()
	if !strings.Contains(out, "no common ancestor") || !strings.Contains(out, "source=L1") || !strings.Contains(out, "target=C") {
		t.Errorf("expected a warning naming both endpoints, got %q", out)
	}
}

// offsetForest is R(A(L1), B(L2)) plus a second tree S(S1), all moved up by dy.
func offsetForest(dy float64) *world {
	w := newWorld()
	w.add("R", "", 0, 0.5+dy, 0, 1)
	w.add("A", "R", -2, 1.5+dy, 0, 1)
	w.add("B", "R", 2, 1.5+dy, 0, 1)
	w.add("L1", "A", -2, 2.5+dy, 0, 1)
	w.add("L2", "B", 2, 2.5+dy, 0, 1)
	w.add("S", "", 10, 0.5+dy, 0, 1)
	w.add("S1", "S", 10, 1.5+dy, 0, 1)
	return w
}

func TestBundledBetweenTreesClearsEveryRoute(t *testing.T) {
	for _, above := range []bool{true, false} {
		for _, dy := range []float64{0, 10, -25} {
			t.Run(fmt.Sprintf("above=%v,dy=%v", above, dy), func(t *testing.T) {
				w := offsetForest(dy)
				opts := DefaultOptions()
				opts.EdgesAboveBlocks = above
				edges := []Edge{w.edge("L1", "L2"), w.edge("A", "B"), w.edge("L1", "A"), w.edge("L1", "S1")}

				routes, err := NewBundled(opts).Route(context.Background(), w.nodes, edges)
				if err != nil {
					t.Fatalf("Route() error: %v", err)
				}
				between := routes[3]
				if between.Shape != ShapeBetweenTrees {
					t.Fatalf("Shape = %v, want %v", between.Shape, ShapeBetweenTrees)
				}

				outer := func(r Route) float64 {
					if above {
						return r.Points.Bounds().Max.Y
					}
					return -r.Points.Bounds().Min.Y
				}
				for _, r := range routes[:3] {
					if !(outer(between) > outer(r)) {
						t.Errorf("between-trees extent %v does not clear %v route %v->%v (%v)",
							outer(between), r.Shape, r.Edge.Source.ID(), r.Edge.Target.ID(), outer(r))
					}
				}
				for _, n := range []string{"L1", "S1"} {
					if a := opts.Anchor(w.byID[n]); (above && between.Points[1].Y <= a.Y) || (!above && between.Points[1].Y >= a.Y) {
						t.Errorf("middle %v lies on the block side of %s's anchor %v", between.Points[1].Y, n, a.Y)
					}
				}
			})
		}
	}
}

func TestBundledBetweenTreesFollowsScene(t *testing.T) {
	w0 := offsetForest(0)
	base := routeOne(t, DefaultOptions(), w0, w0.edge("L1", "S1"))
	w := offsetForest(10)
	moved := routeOne(t, DefaultOptions(), w, w.edge("L1", "S1"))

	for i := range base.Points {
		if d := moved.Points[i].Y - base.Points[i].Y; math.Abs(d-10) > tol {
			t.Errorf("point %d moved by %v, want 10", i, d)
		}
	}
}

func TestBundledPathLength(t *testing.T) {
	w := newWorld()
	w.add("R", "", 0, 0, 0, 1)
	w.add("A", "R", -4, 1, 0, 1)
	w.add("A1", "A", -5, 2, 0, 1)
	w.add("A11", "A1", -5, 3, 0, 1)
	w.add("A2", "A", -3, 2, 0, 1)
	w.add("B", "R", 4, 1, 0, 1)
	w.add("B1", "B", 4, 2, 0, 1)
	w.add("B11", "B1", 4, 3, 0, 1)

	tests := []struct {
		from, to string
		hops     int
	}{
		{"A11", "A2", 2 + 1},
		{"A11", "B11", 3 + 3},
		{"A2", "B1", 2 + 2},
		{"A1", "B", 2 + 1},
	}

	opts := explicitOptions(0, 1)
	for _, tt := range tests {
		t.Run(tt.from+"->"+tt.to, func(t *testing.T) {
			r := routeOne(t, opts, w, w.edge(tt.from, tt.to))
			if r.Shape != ShapeHierarchical {
				t.Fatalf("Shape = %v, want %v", r.Shape, ShapeHierarchical)
			}
			if r.Points.Len() != tt.hops+1 {
				t.Errorf("got %d points, want %d", r.Points.Len(), tt.hops+1)
			}
			if r.Points.Start() != w.byID[tt.from].Roof() || r.Points.End() != w.byID[tt.to].Roof() {
				t.Errorf("endpoints = %v, %v, want roofs", r.Points.Start(), r.Points.End())
			}
		})
	}
}

func TestBundledSharedAncestorsAreHighest(t *testing.T) {
	w := newWorld()
	w.add("R", "", 0, 0, 0, 1)
	w.add("A", "R", 0, 0, 0, 1)
	w.add("A1", "A", 0, 0, 0, 1)
	w.add("B", "R", 0, 0, 0, 1)
	w.add("B1", "B", 0, 0, 0, 1)

	r := routeOne(t, explicitOptions(0, 1), w, w.edge("A1", "B1"))
	// Centers are all at y=0, so the lifts are the heights: A=1, R=2, B=1.
	ys := []float64{r.Points[1].Y, r.Points[2].Y, r.Points[3].Y}
	if !(ys[1] > ys[0] && ys[1] > ys[2]) {
		t.Errorf("LCA control point should be the highest: %v", ys)
	}
}

func TestBundledBelowBlocks(t *testing.T) {
	w := twoBranches()
	opts := explicitOptions(0, 1)
	opts.EdgesAboveBlocks = false

	r := routeOne(t, opts, w, w.edge("L1", "L2"))
	want := controlpoints.Points{
		w.byID["L1"].Ground(),
		raise(w.byID["A"].Center(), -1),
		raise(w.byID["R"].Center(), -2),
		raise(w.byID["B"].Center(), -1),
		w.byID["L2"].Ground(),
	}
	if !r.Points.ApproxEqual(want, tol) {
		t.Errorf("Points = %v, want %v", r.Points, want)
	}
}

func TestBundledBelowBlocksWithMinElevation(t *testing.T) {
	w := twoBranches()
	opts := explicitOptions(0.5, 1)
	opts.EdgesAboveBlocks = false

	// Height(level) = -0.5 - (2 - level).
	r := routeOne(t, opts, w, w.edge("L1", "L2"))
	want := controlpoints.Points{
		w.byID["L1"].Ground(),
		raise(w.byID["A"].Center(), -1.5),
		raise(w.byID["R"].Center(), -2.5),
		raise(w.byID["B"].Center(), -1.5),
		w.byID["L2"].Ground(),
	}
	if !r.Points.ApproxEqual(want, tol) {
		t.Errorf("Points = %v, want %v", r.Points, want)
	}

	sib := routeOne(t, opts, w, w.edge("A", "B"))
	if sib.Shape != ShapeDirect {
		t.Fatalf("Shape = %v, want %v", sib.Shape, ShapeDirect)
	}
	ground := w.byID["A"].Ground().Y
	if got, want := sib.Points[1].Y, ground-0.5; math.Abs(got-want) > tol {
		t.Errorf("sibling middle y = %v, want %v below ground %v", got, want, ground)
	}
}

func TestBundledSelfLoopWithoutFootprint(t *testing.T) {
	for _, above := range []bool{true, false} {
		w := twoBranches()
		leaf := w.byID["L1"]
		leaf.scale.X, leaf.scale.Z = 0, 0
		opts := explicitOptions(0, 1)
		opts.EdgesAboveBlocks = above

		r := routeOne(t, opts, w, w.edge("L1", "L1"))
		if above && !(r.Points[1].Y > leaf.Roof().Y) {
			t.Errorf("loop peak %v not above roof %v", r.Points[1].Y, leaf.Roof().Y)
		}
		if !above && !(r.Points[1].Y < leaf.Ground().Y) {
			t.Errorf("loop peak %v not below ground %v", r.Points[1].Y, leaf.Ground().Y)
		}
	}
}

func TestBundledDerivedElevation(t *testing.T) {
	w := twoBranches()
	w.byID["R"].scale.Y = 10

	opts := Options{EdgesAboveBlocks: true, LevelUnit: 1, DeriveElevation: true}
	p := NewBundled(opts).Plan(w.nodes)
	e := p.Elevation()

	if e.Min != 15 {
		t.Errorf("Min = %v, want 15", e.Min)
	}
	if e.Unit != 2 {
		t.Errorf("Unit = %v, want 2", e.Unit)
	}
	if e.MaxDepth != 2 {
		t.Errorf("MaxDepth = %v, want 2", e.MaxDepth)
	}

	// Small scenes keep the configured unit as a floor.
	opts.LevelUnit = 3
	if got := NewBundled(opts).Plan(w.nodes).Elevation().Unit; got != 3 {
		t.Errorf("Unit = %v, want floor 3", got)
	}
}

func TestBundledAllEdges(t *testing.T) {
	w := twoBranches()
	w.add("S", "", 10, 0.5, 0, 1)
	w.link("L1", "L2")
	w.link("L1", "L1")
	w.link("L2", "B")
	w.link("L2", "S")
	w.link("A", "B")

	routes, err := NewBundled(explicitOptions(0, 1)).Route(context.Background(), w.nodes, EdgesOf(w.nodes))
	if err != nil {
		t.Fatalf("Route() error: %v", err)
	}

	// Edge order follows node order: A, L1, L2.
	want := []Shape{ShapeDirect, ShapeHierarchical, ShapeSelfLoop, ShapeDirect, ShapeBetweenTrees}
	if len(routes) != len(want) {
		t.Fatalf("got %d routes, want %d", len(routes), len(want))
	}
	for i, r := range routes {
		if r.Shape != want[i] {
			t.Errorf("routes[%d] (%v) shape = %v, want %v", i, r.Edge, r.Shape, want[i])
		}
	}
}

func TestBundledParallelMatchesSequential(t *testing.T) {
	w := newWorld()
	w.add("R", "", 0, 0, 0, 1)
	for i, branch := range []string{"A", "B", "C", "D"} {
		x := float64(i * 10)
		w.add(branch, "R", x, 1, 0, 1)
		for j, leaf := range []string{"1", "2", "3"} {
			w.add(branch+leaf, branch, x+float64(j), 2, 0, 1)
		}
	}
	w.add("T", "", 100, 0, 0, 2)
	for _, from := range w.nodes {
		for _, to := range w.nodes {
			w.link(from.ID(), to.ID())
		}
	}
	edges := EdgesOf(w.nodes)

	seq := explicitOptions(0.5, 1)
	par := seq
	par.Workers = 8

	a, err := NewBundled(seq).Route(context.Background(), w.nodes, edges)
	if err != nil {
		t.Fatalf("sequential Route() error: %v", err)
	}
	b, err := NewBundled(par).Route(context.Background(), w.nodes, edges)
	if err != nil {
		t.Fatalf("parallel Route() error: %v", err)
	}

	if len(a) != len(edges) || len(b) != len(edges) {
		t.Fatalf("got %d and %d routes, want %d", len(a), len(b), len(edges))
	}
	for i := range a {
		if a[i].Edge != edges[i] || b[i].Edge != edges[i] {
			t.Fatalf("route %d out of order", i)
		}
		if a[i].Shape != b[i].Shape || !a[i].Points.ApproxEqual(b[i].Points, 0) {
			t.Errorf("route %d differs: %v vs %v", i, a[i].Points, b[i].Points)
		}
	}
}

func TestBundledCancelled(t *testing.T) {
	w := twoBranches()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for _, workers := range []int{1, 4} {
		opts := explicitOptions(0, 1)
		opts.Workers = workers
		_, err := NewBundled(opts).Route(ctx, w.nodes, []Edge{w.edge("L1", "L2")})
		if !errors.Is(err, context.Canceled) {
			t.Errorf("workers=%d: err = %v, want context.Canceled", workers, err)
		}
	}
}

func TestBundledInvalidOptions(t *testing.T) {
	w := twoBranches()
	_, err := NewBundled(explicitOptions(0, 0)).Route(context.Background(), w.nodes, nil)
	if !errors.Is(err, ErrInvalidOptions) {
		t.Errorf("err = %v, want ErrInvalidOptions", err)
	}
}

func TestBundledUnknownEndpointPanics(t *testing.T) {
	w := twoBranches()
	stranger := &box{id: "X", scale: r3.Vec{X: 1, Y: 1, Z: 1}}

	defer func() {
		err, _ := recover().(error)
		if !errors.Is(err, hierarchy.ErrUnknownNode) {
			t.Errorf("panic = %v, want hierarchy.ErrUnknownNode", err)
		}
	}()
	_, _ = NewBundled(explicitOptions(0, 1)).Route(context.Background(), w.nodes,
		[]Edge{{Source: w.byID["L1"], Target: stranger}})
}
