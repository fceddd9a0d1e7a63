package hierarchy

import (
	"fmt"
	"slices"
)

// Node is the capability a forest member must provide. The zero value of N
// means "no parent" and marks a root.
type Node[N any] interface {
	comparable
	Parent() N
	Children() []N
	Level() int
}

// Forest is an immutable ancestry snapshot over a node collection.
type Forest[N Node[N]] struct {
	nodes    []N
	roots    []N
	parent   map[N]N
	level    map[N]int
	maxDepth int
}

// New builds the forest for nodes. Roots keep their input order.
//
// New panics with an error wrapping one of the package sentinels if nodes
// do not form a valid forest; use [Validate] to check untrusted input first.
func New[N Node[N]](nodes []N) *Forest[N] {
	f, err := build(nodes)
	if err != nil {
		panic(err)
	}
	return f
}

// Validate reports whether nodes form a valid forest: no duplicates, every
// parent inside the collection, no cycles, levels that match the parent
// chain, and children that agree with parents.
func Validate[N Node[N]](nodes []N) error {
	_, err := build(nodes)
	return err
}

func build[N Node[N]](nodes []N) (*Forest[N], error) {
	var zero N
	f := &Forest[N]{
		nodes:  slices.Clone(nodes),
		parent: make(map[N]N, len(nodes)),
	}

	for _, n := range nodes {
		if n == zero {
			return nil, fmt.Errorf("%w: zero value in collection", ErrUnknownNode)
		}
		if _, dup := f.parent[n]; dup {
			return nil, fmt.Errorf("%w: %v", ErrDuplicateNode, n)
		}
		f.parent[n] = n.Parent()
	}
	for _, n := range nodes {
		p := f.parent[n]
		if p == zero {
			f.roots = append(f.roots, n)
			continue
		}
		if _, ok := f.parent[p]; !ok {
			return nil, fmt.Errorf("%w: %v has parent %v", ErrDetachedParent, n, p)
		}
	}

	level, err := levels(nodes, f.parent)
	if err != nil {
		return nil, err
	}
	f.level = level

	for _, n := range nodes {
		if got, want := n.Level(), level[n]; got != want {
			return nil, fmt.Errorf("%w: %v reports level %d, parent chain gives %d", ErrLevelMismatch, n, got, want)
		}
		f.maxDepth = max(f.maxDepth, level[n])
	}

	if err := checkChildren(nodes, f.parent); err != nil {
		return nil, err
	}
	return f, nil
}

// levels counts parent hops to a root for every node, memoizing along each chain.
func levels[N comparable](nodes []N, parent map[N]N) (map[N]int, error) {
	var zero N
	level := make(map[N]int, len(nodes))
	onChain := make(map[N]bool)
	var chain []N

	for _, n := range nodes {
		chain = chain[:0]
		clear(onChain)

		base := -1
		for cur := n; ; {
			if l, ok := level[cur]; ok {
				base = l
				break
			}
			if onChain[cur] {
				return nil, fmt.Errorf("%w: through %v", ErrCycle, cur)
			}
			onChain[cur] = true
			chain = append(chain, cur)
			if cur = parent[cur]; cur == zero {
				break
			}
		}

		for i := len(chain) - 1; i >= 0; i-- {
			base++
			level[chain[i]] = base
		}
	}
	return level, nil
}

func checkChildren[N Node[N]](nodes []N, parent map[N]N) error {
	var zero N
	listed := make(map[N]int, len(nodes))
	claimed := make(map[N]int, len(nodes))

	for _, n := range nodes {
		if p := parent[n]; p != zero {
			claimed[p]++
		}
		for _, c := range n.Children() {
			if _, ok := parent[c]; !ok {
				return fmt.Errorf("%w: %v lists child %v outside the collection", ErrInconsistentChildren, n, c)
			}
			if parent[c] != n {
				return fmt.Errorf("%w: %v lists child %v whose parent is %v", ErrInconsistentChildren, n, c, parent[c])
			}
			listed[n]++
		}
	}
	for _, n := range nodes {
		if listed[n] != claimed[n] {
			return fmt.Errorf("%w: %v lists %d children, %d nodes name it as parent", ErrInconsistentChildren, n, listed[n], claimed[n])
		}
	}
	return nil
}

// Len returns the number of nodes in the forest.
func (f *Forest[N]) Len() int { return len(f.nodes) }

// Nodes returns the nodes in input order.
func (f *Forest[N]) Nodes() []N { return slices.Clone(f.nodes) }

// Roots returns the root of every tree, in input order.
func (f *Forest[N]) Roots() []N { return slices.Clone(f.roots) }

// Contains reports whether n is part of the forest.
func (f *Forest[N]) Contains(n N) bool {
	_, ok := f.level[n]
	return ok
}

// Level returns the number of parent hops from n to its root.
func (f *Forest[N]) Level(n N) int { return f.mustLevel(n) }

// Parent returns the parent recorded for n at construction time.
// The second result is false for roots.
func (f *Forest[N]) Parent(n N) (N, bool) {
	f.mustLevel(n)
	var zero N
	p := f.parent[n]
	return p, p != zero
}

// MaxDepth returns the greatest level in the forest, or 0 when it is empty.
func (f *Forest[N]) MaxDepth() int { return f.maxDepth }

// LCA returns the lowest common ancestor of a and b. The second result is
// false when a and b belong to different trees.
//
// The deeper node is first lifted to the level of the shallower one, then
// both chains are walked upward in lock-step until they meet.
func (f *Forest[N]) LCA(a, b N) (N, bool) {
	la, lb := f.mustLevel(a), f.mustLevel(b)
	for ; la > lb; la-- {
		a = f.parent[a]
	}
	for ; lb > la; lb-- {
		b = f.parent[b]
	}
	for a != b {
		if la == 0 {
			var zero N
			return zero, false
		}
		a, b = f.parent[a], f.parent[b]
		la--
	}
	return a, true
}

// AncestorPath returns the chain from node up to ancestor, both inclusive:
// path[0] == node and path[len(path)-1] == ancestor.
//
// It panics with [ErrNotAncestor] if ancestor is not on node's chain.
func (f *Forest[N]) AncestorPath(node, ancestor N) []N {
	ln, la := f.mustLevel(node), f.mustLevel(ancestor)
	if la > ln {
		panic(fmt.Errorf("%w: %v is deeper than %v", ErrNotAncestor, ancestor, node))
	}

	path := make([]N, 0, ln-la+1)
	for cur := node; ; cur = f.parent[cur] {
		path = append(path, cur)
		if cur == ancestor {
			return path
		}
		if len(path) == cap(path) {
			panic(fmt.Errorf("%w: %v is not above %v", ErrNotAncestor, ancestor, node))
		}
	}
}

func (f *Forest[N]) mustLevel(n N) int {
	l, ok := f.level[n]
	if !ok {
		panic(fmt.Errorf("%w: %v", ErrUnknownNode, n))
	}
	return l
}
