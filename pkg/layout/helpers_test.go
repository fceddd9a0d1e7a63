package layout

import (
	"gonum.org/v1/gonum/spatial/r3"
)

// box is a minimal Node for tests.
type box struct {
	id       string
	parent   *box
	children []*box
	level    int
	center   r3.Vec
	scale    r3.Vec
	succ     []*box
}

func (b *box) ID() string { return b.id }

func (b *box) Parent() Node {
	if b.parent == nil {
		return nil
	}
	return b.parent
}

func (b *box) Children() []Node {
	out := make([]Node, len(b.children))
	for i, c := range b.children {
		out[i] = c
	}
	return out
}

func (b *box) Level() int     { return b.level }
func (b *box) Center() r3.Vec { return b.center }
func (b *box) Scale() r3.Vec  { return b.scale }
func (b *box) Ground() r3.Vec { return r3.Vec{X: b.center.X, Y: b.center.Y - b.scale.Y/2, Z: b.center.Z} }
func (b *box) Roof() r3.Vec   { return r3.Vec{X: b.center.X, Y: b.center.Y + b.scale.Y/2, Z: b.center.Z} }

func (b *box) Successors() []Node {
	out := make([]Node, len(b.succ))
	for i, s := range b.succ {
		out[i] = s
	}
	return out
}

// world collects boxes in insertion order.
type world struct {
	byID  map[string]*box
	nodes []Node
}

func newWorld() *world {
	return &world{byID: make(map[string]*box)}
}

// add places a box centered at (x, y, z) with unit footprint and height h.
// An empty parent makes it a root.
func (w *world) add(id, parent string, x, y, z, h float64) *box {
	b := &box{
		id:     id,
		center: r3.Vec{X: x, Y: y, Z: z},
		scale:  r3.Vec{X: 1, Y: h, Z: 1},
	}
	if parent != "" {
		p := w.byID[parent]
		b.parent = p
		b.level = p.level + 1
		p.children = append(p.children, b)
	}
	w.byID[id] = b
	w.nodes = append(w.nodes, b)
	return b
}

func (w *world) link(from, to string) {
	w.byID[from].succ = append(w.byID[from].succ, w.byID[to])
}

func (w *world) edge(from, to string) Edge {
	return Edge{Source: w.byID[from], Target: w.byID[to]}
}

// twoBranches is R(A(L1), B(L2)): the canonical two-branch tree.
func twoBranches() *world {
	w := newWorld()
	w.add("R", "", 0, 0.5, 0, 1)
	w.add("A", "R", -2, 1.5, 0, 1)
	w.add("B", "R", 2, 1.5, 0, 1)
	w.add("L1", "A", -2, 2.5, 0, 1)
	w.add("L2", "B", 2, 2.5, 0, 1)
	return w
}

func explicitOptions(minElevation, levelUnit float64) Options {
	return Options{
		EdgesAboveBlocks: true,
		LevelUnit:        levelUnit,
		MinElevation:     minElevation,
	}
}

func raise(v r3.Vec, dy float64) r3.Vec {
	v.Y += dy
	return v
}
