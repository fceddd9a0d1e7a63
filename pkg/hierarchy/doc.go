// Package hierarchy answers ancestry questions over a forest of nested nodes.
//
// A forest is zero or more disjoint rooted trees. Callers hand in the complete
// node collection once; [New] takes a read-only snapshot of the parent relation
// and the per-node levels, after which all queries are lock-free and safe for
// any number of concurrent readers.
//
// # Node Contract
//
// Any comparable type with Parent, Children and Level accessors can be used
// (see [Node]). The zero value of the type marks "no parent", so pointer and
// interface types work naturally:
//
//	type pkg struct {
//	    parent   *pkg
//	    children []*pkg
//	    level    int
//	}
//
//	func (p *pkg) Parent() *pkg     { return p.parent }
//	func (p *pkg) Children() []*pkg { return p.children }
//	func (p *pkg) Level() int       { return p.level }
//
// # Queries
//
//	f := hierarchy.New(nodes)
//	lca, ok := f.LCA(a, b)          // ok == false: a and b live in different trees
//	path := f.AncestorPath(a, lca)  // [a, parent(a), ..., lca]
//	depth := f.MaxDepth()
//
// # Invariant Violations
//
// A malformed forest (cycles, levels that disagree with the parent chain,
// parents outside the collection, children that do not point back) is a
// caller bug. [Validate] reports it as an error wrapping one of the package
// sentinels; [New] and the query methods panic with the same errors.
package hierarchy
