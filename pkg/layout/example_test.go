package layout_test

import (
	"context"
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/matzehuels/edgebundle/pkg/layout"
)

// block is a unit-footprint node with height 1.
type block struct {
	id       string
	parent   *block
	children []layout.Node
	level    int
	center   r3.Vec
	next     []layout.Node
}

func (b *block) ID() string { return b.id }
func (b *block) Parent() layout.Node {
	if b.parent == nil {
		return nil
	}
	return b.parent
}
func (b *block) Children() []layout.Node   { return b.children }
func (b *block) Level() int                { return b.level }
func (b *block) Center() r3.Vec            { return b.center }
func (b *block) Ground() r3.Vec            { return r3.Add(b.center, r3.Vec{Y: -0.5}) }
func (b *block) Roof() r3.Vec              { return r3.Add(b.center, r3.Vec{Y: 0.5}) }
func (b *block) Scale() r3.Vec             { return r3.Vec{X: 1, Y: 1, Z: 1} }
func (b *block) Successors() []layout.Node { return b.next }

func child(parent *block, id string, x float64) *block {
	c := &block{id: id, parent: parent, level: parent.level + 1, center: r3.Vec{X: x, Y: parent.center.Y + 1}}
	parent.children = append(parent.children, c)
	return c
}

func ExampleBundled() {
	root := &block{id: "R", center: r3.Vec{Y: 0.5}}
	a, b := child(root, "A", -2), child(root, "B", 2)
	l1, l2 := child(a, "L1", -2), child(b, "L2", 2)
	l1.next = []layout.Node{l2}

	nodes := []layout.Node{root, a, b, l1, l2}
	opts := layout.Options{EdgesAboveBlocks: true, LevelUnit: 1}

	routes, err := layout.NewBundled(opts).Route(context.Background(), nodes, layout.EdgesOf(nodes))
	if err != nil {
		panic(err)
	}
	for _, r := range routes {
		fmt.Println(r.Edge, r.Shape, r.LCA.ID())
		for _, p := range r.Points {
			fmt.Printf("  (%g, %g, %g)\n", p.X, p.Y, p.Z)
		}
	}
	// Output:
	// L1->L2 hierarchical R
	//   (-2, 3, 0)
	//   (-2, 2.5, 0)
	//   (0, 2.5, 0)
	//   (2, 2.5, 0)
	//   (2, 3, 0)
}
