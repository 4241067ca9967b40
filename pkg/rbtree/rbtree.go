// Package rbtree provides an insert-only red-black tree over string keys,
// backed by an arena allocator that addresses nodes with stable uint32
// indices. Index 0 is reserved as the nil sentinel, so parent/left/right
// links are plain indices instead of pointers and rotations relink in O(1)
// without aliasing hazards.
package rbtree

import (
	"github.com/Sumatoshi-tech/rfdict/pkg/safeconv"
)

// growCapacityNumerator and growCapacityDenominator define the 3/2 growth factor for storage.
const (
	growCapacityNumerator   = 3
	growCapacityDenominator = 2
)

const (
	red   = false
	black = true
)

type node struct {
	key                 string
	value               int64
	parent, left, right uint32
	color               bool // Black or red.
}

// Allocator is the arena allocator for nodes in a Tree.
//
// There is no per-node free: the data model only grows, and the only way to
// release nodes is Reset, which drops the whole arena.
type Allocator struct {
	storage []node

	// HibernationThreshold is the minimum node count for Hibernate to act.
	HibernationThreshold int

	hibernatedData       [hibernatedBufferCount][]byte
	hibernatedCompressed [hibernatedBufferCount]bool
	hibernatedKeysLen    int
	hibernatedStorageLen int
}

// NewAllocator creates a new allocator for Tree nodes.
func NewAllocator() *Allocator {
	return &Allocator{storage: []node{}}
}

// Size returns the currently allocated size, including the reserved sentinel.
func (allocator *Allocator) Size() int {
	return len(allocator.storage)
}

// Used returns the number of nodes contained in the allocator.
func (allocator *Allocator) Used() int {
	if allocator.storage == nil {
		panic("rbtree: hibernated allocators cannot be used")
	}

	if len(allocator.storage) == 0 {
		return 0
	}

	return len(allocator.storage) - 1
}

// Reset releases every node. Trees built on this allocator must be discarded
// or erased by the caller.
func (allocator *Allocator) Reset() {
	if allocator.storage == nil {
		panic("rbtree: hibernated allocators cannot be used")
	}

	// Zero the entries so the key strings become collectable.
	for idx := range allocator.storage {
		allocator.storage[idx] = node{}
	}

	allocator.storage = allocator.storage[:0]
}

func (allocator *Allocator) malloc() uint32 {
	if allocator.storage == nil {
		panic("rbtree: hibernated allocators cannot be used")
	}

	nodeLen := len(allocator.storage)
	if nodeLen == 0 {
		// Zero is reserved.
		allocator.storage = append(allocator.storage, node{})
		nodeLen = 1
	}

	if uint64(nodeLen) >= uint64(safeconv.MaxUint32) {
		panic("rbtree: allocator reached the maximum node count for uint32 indices")
	}

	allocator.storage = append(allocator.storage, node{})

	return safeconv.MustIntToUint32(nodeLen)
}

// CompareFunc is a three-way total order over keys: negative, zero, or
// positive as a sorts before, equal to, or after b.
type CompareFunc func(a, b string) int

// Tree is an insert-only red-black search tree keyed by strings.
//
// The node layout and allocator scheme follow the integer-keyed tree this
// package grew out of; the rebalancing is the classic insert fixup split into
// a recoloring sweep and a single rotation step.
type Tree struct {
	allocator *Allocator
	cmp       CompareFunc
	root      uint32
	count     int32
}

// NewTree creates an empty tree on the given allocator with the given key
// ordering.
func NewTree(allocator *Allocator, cmp CompareFunc) *Tree {
	if allocator == nil {
		panic("rbtree: nil allocator")
	}

	if cmp == nil {
		panic("rbtree: nil compare function")
	}

	return &Tree{allocator: allocator, cmp: cmp}
}

func (tree *Tree) storage() []node {
	return tree.allocator.storage
}

// Allocator returns the bound nodes allocator.
func (tree *Tree) Allocator() *Allocator {
	return tree.allocator
}

// Len returns the number of elements in the tree.
func (tree *Tree) Len() int {
	return int(tree.count)
}

// Get returns the value stored under key. The second result is false when the
// key is absent.
func (tree *Tree) Get(key string) (int64, bool) {
	nodeIdx := tree.find(key)
	if nodeIdx == 0 {
		return 0, false
	}

	return tree.storage()[nodeIdx].value, true
}

// Erase removes all the nodes from the tree and resets the allocator.
func (tree *Tree) Erase() {
	tree.allocator.Reset()
	tree.root = 0
	tree.count = 0
}

// find descends from the root by three-way comparison and returns the index
// of the matching node, or 0 when the key is absent.
func (tree *Tree) find(key string) uint32 {
	alloc := tree.storage()
	nodeIdx := tree.root

	for nodeIdx != 0 {
		comp := tree.cmp(key, alloc[nodeIdx].key)

		switch {
		case comp == 0:
			return nodeIdx
		case comp < 0:
			nodeIdx = alloc[nodeIdx].left
		default:
			nodeIdx = alloc[nodeIdx].right
		}
	}

	return 0
}

// Insert adds a key/value node. If an equal key is already present the tree
// is left untouched and Insert returns false.
func (tree *Tree) Insert(key string, value int64) bool {
	nodeIdx := tree.doInsert(key, value)
	if nodeIdx == 0 {
		return false
	}

	tree.rebalance(nodeIdx)

	return true
}

// Try inserting key into the tree. Returns 0 if an equal key is already
// present, otherwise the index of the new leaf (red, or black for a fresh
// root).
func (tree *Tree) doInsert(key string, value int64) uint32 {
	if tree.root == 0 {
		nodeIdx := tree.allocator.malloc()
		newNode := &tree.storage()[nodeIdx]
		newNode.key = key
		newNode.value = value
		newNode.color = black
		tree.root = nodeIdx
		tree.count++

		return nodeIdx
	}

	parent := tree.root
	storageSlice := tree.storage()

	for {
		parentNode := storageSlice[parent]
		comp := tree.cmp(key, parentNode.key)

		switch {
		case comp == 0:
			return 0
		case comp < 0:
			if parentNode.left == 0 {
				nodeIdx := tree.allocator.malloc()
				storageSlice = tree.storage()
				newNode := &storageSlice[nodeIdx]
				newNode.key = key
				newNode.value = value
				newNode.parent = parent
				newNode.color = red
				storageSlice[parent].left = nodeIdx
				tree.count++

				return nodeIdx
			}

			parent = parentNode.left
		default:
			if parentNode.right == 0 {
				nodeIdx := tree.allocator.malloc()
				storageSlice = tree.storage()
				newNode := &storageSlice[nodeIdx]
				newNode.key = key
				newNode.value = value
				newNode.parent = parent
				newNode.color = red
				storageSlice[parent].right = nodeIdx
				tree.count++

				return nodeIdx
			}

			parent = parentNode.right
		}
	}
}

// rebalance restores the red-black invariants after attaching a red leaf.
//
// Two passes, at most one of which restructures the tree:
//
//  1. While the (black) grandparent has two red children, push blackness down
//     from it: both children turn black, the grandparent turns red unless it
//     is the root, and the violation moves two levels up.
//  2. If a red-red pair remains, the grandparent now has a black or missing
//     child on one side; one of four shapes applies and is resolved with one
//     or two rotations plus a recoloring. Nothing propagates further up.
//
//nolint:gocognit // RB-tree insertion rebalancing is inherently complex.
func (tree *Tree) rebalance(nodeIdx uint32) {
	alloc := tree.storage()

	if isRed(nodeIdx, alloc) && isRed(alloc[nodeIdx].parent, alloc) {
		grandparent := alloc[alloc[nodeIdx].parent].parent
		doAssert(grandparent != 0)

		for isRed(alloc[grandparent].left, alloc) && isRed(alloc[grandparent].right, alloc) {
			alloc[alloc[grandparent].left].color = black
			alloc[alloc[grandparent].right].color = black

			if alloc[grandparent].parent == 0 {
				alloc[grandparent].color = black
			} else {
				alloc[grandparent].color = red
			}

			nodeIdx = grandparent

			if isRed(nodeIdx, alloc) && isRed(alloc[nodeIdx].parent, alloc) {
				grandparent = alloc[alloc[nodeIdx].parent].parent
				doAssert(grandparent != 0)
			} else {
				break
			}
		}
	}

	if !isRed(nodeIdx, alloc) || !isRed(alloc[nodeIdx].parent, alloc) {
		return
	}

	grandparent := alloc[alloc[nodeIdx].parent].parent
	doAssert(grandparent != 0)

	if !isBlack(alloc[grandparent].left, alloc) && !isBlack(alloc[grandparent].right, alloc) {
		return
	}

	parent := alloc[nodeIdx].parent

	switch {
	case nodeIdx == alloc[parent].right && parent == alloc[grandparent].left:
		// Zig-zag: node right of parent, parent left of grandparent.
		alloc[nodeIdx].color = black
		alloc[grandparent].color = red
		tree.rotateLeft(parent)
		tree.rotateRight(grandparent)
	case nodeIdx == alloc[parent].left && parent == alloc[grandparent].right:
		// Mirror zig-zag.
		alloc[nodeIdx].color = black
		alloc[grandparent].color = red
		tree.rotateRight(parent)
		tree.rotateLeft(grandparent)
	case nodeIdx == alloc[parent].left && parent == alloc[grandparent].left:
		// Zig-zig: node and parent both left children.
		alloc[parent].color = black
		alloc[grandparent].color = red
		tree.rotateRight(grandparent)
	case nodeIdx == alloc[parent].right && parent == alloc[grandparent].right:
		// Mirror zig-zig.
		alloc[parent].color = black
		alloc[grandparent].color = red
		tree.rotateLeft(grandparent)
	default:
		doAssert(false)
	}
}

// rotateDirection performs a tree rotation in the specified direction.
// IsLeft=true performs left rotation, isLeft=false performs right rotation.
//
// Left rotation:
//
//	  X              Y
//	A   Y    =>    X   C
//	  B C        A B
//
// Right rotation:
//
//	    Y            X
//	  X   C  =>    A   Y
//	A B              B C
//
// The pivot must have a child in the rotation's opposite direction;
// violating that is a programming fault and panics.
//
//nolint:dupword // ASCII art diagrams contain intentional repeated letters.
func (tree *Tree) rotateDirection(pivot uint32, isLeft bool) {
	alloc := tree.storage()

	doAssert(pivot != 0)

	// Get the child in the opposite direction of rotation.
	var child uint32
	if isLeft {
		child = alloc[pivot].right
	} else {
		child = alloc[pivot].left
	}

	doAssert(child != 0)

	// Move the inner subtree.
	var innerSubtree uint32
	if isLeft {
		innerSubtree = alloc[child].left
		alloc[pivot].right = innerSubtree
	} else {
		innerSubtree = alloc[child].right
		alloc[pivot].left = innerSubtree
	}

	if innerSubtree != 0 {
		alloc[innerSubtree].parent = pivot
	}

	// Update parent links.
	alloc[child].parent = alloc[pivot].parent

	if alloc[pivot].parent == 0 {
		tree.root = child
	} else {
		if isLeftChild(pivot, alloc) {
			alloc[alloc[pivot].parent].left = child
		} else {
			alloc[alloc[pivot].parent].right = child
		}
	}

	// Complete the rotation.
	if isLeft {
		alloc[child].left = pivot
	} else {
		alloc[child].right = pivot
	}

	alloc[pivot].parent = child
}

func (tree *Tree) rotateLeft(nodeIdx uint32) {
	tree.rotateDirection(nodeIdx, true)
}

func (tree *Tree) rotateRight(nodeIdx uint32) {
	tree.rotateDirection(nodeIdx, false)
}

// Internal node attribute accessors.

func getColor(nodeIdx uint32, allocator []node) bool {
	if nodeIdx == 0 {
		return black
	}

	return allocator[nodeIdx].color
}

// isRed reports whether the node exists and is red.
func isRed(nodeIdx uint32, allocator []node) bool {
	return nodeIdx != 0 && !allocator[nodeIdx].color
}

// isBlack reports whether the node is black or does not exist.
func isBlack(nodeIdx uint32, allocator []node) bool {
	return getColor(nodeIdx, allocator)
}

func isLeftChild(nodeIdx uint32, allocator []node) bool {
	return nodeIdx == allocator[allocator[nodeIdx].parent].left
}

func doAssert(condition bool) {
	if !condition {
		panic("rbtree internal assertion failed")
	}
}
