package rbtree

import (
	"errors"
	"fmt"
)

// ErrParentLink is returned when a node's parent index does not match the
// node it was reached from.
var ErrParentLink = errors.New("parent link mismatch")

// ErrRelation is returned when a node is not exactly one child of its parent.
var ErrRelation = errors.New("node is not exactly one child of its parent")

// ErrOrder is returned when a child key does not sort on the correct side of
// its parent key.
var ErrOrder = errors.New("key ordering violated")

// ErrRootColor is returned when the root node is red.
var ErrRootColor = errors.New("root is not black")

// ErrRedRed is returned when a red node has a red parent.
var ErrRedRed = errors.New("red node has a red parent")

// ErrBlackDepth is returned when exit nodes disagree on black depth.
var ErrBlackDepth = errors.New("exit nodes differ in black depth")

// ErrCount is returned when the reachable node count does not match Len.
var ErrCount = errors.New("node count mismatch")

// unsetExitDepth marks that no exit node has been visited yet.
const unsetExitDepth = -1

// Verify walks the whole tree and checks every structural invariant: parent
// links, child relations, key ordering, root blackness, the no-red-red rule,
// and uniform black depth of exit nodes (nodes missing at least one child).
// Returns nil when the tree is a valid red-black search tree.
func (tree *Tree) Verify() error {
	exitDepth := unsetExitDepth

	visited, err := tree.verifyNode(tree.root, 0, 0, &exitDepth)
	if err != nil {
		return err
	}

	if visited != tree.Len() {
		return fmt.Errorf("%w: reached %d nodes, Len reports %d", ErrCount, visited, tree.Len())
	}

	return nil
}

// verifyNode checks the subtree rooted at nodeIdx, reached from parentIdx
// (0 for the root), with blackDepth black nodes above it. Returns the number
// of nodes in the subtree.
func (tree *Tree) verifyNode(nodeIdx, parentIdx uint32, blackDepth int, exitDepth *int) (int, error) {
	if nodeIdx == 0 {
		return 0, nil
	}

	alloc := tree.storage()
	nd := alloc[nodeIdx]

	if nd.parent != parentIdx {
		return 0, fmt.Errorf("node %q: %w", nd.key, ErrParentLink)
	}

	if parentIdx == 0 {
		if nd.color != black {
			return 0, fmt.Errorf("node %q: %w", nd.key, ErrRootColor)
		}
	} else {
		err := tree.verifyRelation(nodeIdx, parentIdx)
		if err != nil {
			return 0, err
		}
	}

	if nd.color == black {
		blackDepth++
	}

	if nd.left == 0 || nd.right == 0 {
		if *exitDepth == unsetExitDepth {
			*exitDepth = blackDepth
		} else if *exitDepth != blackDepth {
			return 0, fmt.Errorf("node %q: depth %d vs %d: %w", nd.key, blackDepth, *exitDepth, ErrBlackDepth)
		}
	}

	leftCount, err := tree.verifyNode(nd.left, nodeIdx, blackDepth, exitDepth)
	if err != nil {
		return 0, err
	}

	rightCount, err := tree.verifyNode(nd.right, nodeIdx, blackDepth, exitDepth)
	if err != nil {
		return 0, err
	}

	return leftCount + rightCount + 1, nil
}

// verifyRelation checks a non-root node against its parent: it must be
// exactly one of the parent's children, sort strictly on the matching side,
// and not form a red-red pair.
func (tree *Tree) verifyRelation(nodeIdx, parentIdx uint32) error {
	alloc := tree.storage()
	nd := alloc[nodeIdx]
	parent := alloc[parentIdx]

	switch nodeIdx {
	case parent.left:
		if parent.right == nodeIdx {
			return fmt.Errorf("node %q: %w", nd.key, ErrRelation)
		}

		if tree.cmp(nd.key, parent.key) >= 0 {
			return fmt.Errorf("left child %q >= parent %q: %w", nd.key, parent.key, ErrOrder)
		}
	case parent.right:
		if tree.cmp(nd.key, parent.key) <= 0 {
			return fmt.Errorf("right child %q <= parent %q: %w", nd.key, parent.key, ErrOrder)
		}
	default:
		return fmt.Errorf("node %q: %w", nd.key, ErrRelation)
	}

	if nd.color == red && parent.color == red {
		return fmt.Errorf("node %q under %q: %w", nd.key, parent.key, ErrRedRed)
	}

	return nil
}

// Stats summarizes the shape of a tree.
type Stats struct {
	// Nodes is the number of keys stored.
	Nodes int `yaml:"nodes"`

	// Height is the longest root-to-leaf path, in nodes. Zero for an empty
	// tree.
	Height int `yaml:"height"`

	// BlackHeight is the uniform black depth of exit nodes, root inclusive.
	BlackHeight int `yaml:"black_height"`
}

// Stats computes shape statistics in one traversal plus one root-to-exit
// descent.
func (tree *Tree) Stats() Stats {
	stats := Stats{Nodes: tree.Len()}
	stats.Height = tree.height(tree.root)

	alloc := tree.storage()
	for nodeIdx := tree.root; nodeIdx != 0; nodeIdx = alloc[nodeIdx].left {
		if alloc[nodeIdx].color == black {
			stats.BlackHeight++
		}
	}

	return stats
}

func (tree *Tree) height(nodeIdx uint32) int {
	if nodeIdx == 0 {
		return 0
	}

	alloc := tree.storage()

	return 1 + max(tree.height(alloc[nodeIdx].left), tree.height(alloc[nodeIdx].right))
}
