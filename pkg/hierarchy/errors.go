package hierarchy

import "errors"

// Sentinel errors for malformed forests and misuse of query results.
var (
	// ErrDuplicateNode is returned when the same node appears twice in the collection.
	ErrDuplicateNode = errors.New("duplicate node")

	// ErrDetachedParent is returned when a node's parent is not part of the collection.
	ErrDetachedParent = errors.New("parent not in collection")

	// ErrCycle is returned when following parents never reaches a root.
	ErrCycle = errors.New("cycle in parent relation")

	// ErrLevelMismatch is returned when a node's Level disagrees with its parent chain.
	ErrLevelMismatch = errors.New("level inconsistent with parent chain")

	// ErrInconsistentChildren is returned when Children and Parent disagree.
	ErrInconsistentChildren = errors.New("children inconsistent with parents")

	// ErrUnknownNode is raised when a query names a node outside the forest.
	ErrUnknownNode = errors.New("node not in forest")

	// ErrNotAncestor is raised when AncestorPath is given a node that is not
	// on the ancestor chain.
	ErrNotAncestor = errors.New("not an ancestor")
)
