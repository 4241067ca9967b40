package rbtree //nolint:testpackage // tests corrupt unexported node state on purpose

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testBuildTree(t *testing.T, keys ...string) *Tree {
	t.Helper()

	tree := testNewTree()
	for idx, key := range keys {
		require.True(t, tree.Insert(key, int64(idx)))
	}

	require.NoError(t, tree.Verify())

	return tree
}

func TestVerifyDetectsRedRoot(t *testing.T) {
	t.Parallel()

	tree := testBuildTree(t, "m")
	tree.storage()[tree.root].color = red

	assert.ErrorIs(t, tree.Verify(), ErrRootColor)
}

func TestVerifyDetectsRedRed(t *testing.T) {
	t.Parallel()

	tree := testBuildTree(t, "m", "f", "s", "a")

	// "a" is a red leaf under "f"; painting "f" red creates a red-red pair.
	alloc := tree.storage()
	leaf := tree.find("a")
	require.NotZero(t, leaf)
	alloc[alloc[leaf].parent].color = red

	assert.ErrorIs(t, tree.Verify(), ErrRedRed)
}

func TestVerifyDetectsOrderViolation(t *testing.T) {
	t.Parallel()

	tree := testBuildTree(t, "m", "f", "s")

	// Swap two keys without touching the links.
	alloc := tree.storage()
	left := alloc[tree.root].left
	alloc[left].key, alloc[tree.root].key = alloc[tree.root].key, alloc[left].key

	assert.ErrorIs(t, tree.Verify(), ErrOrder)
}

func TestVerifyDetectsParentLinkMismatch(t *testing.T) {
	t.Parallel()

	tree := testBuildTree(t, "m", "f", "s")

	alloc := tree.storage()
	left := alloc[tree.root].left
	alloc[left].parent = left

	assert.ErrorIs(t, tree.Verify(), ErrParentLink)
}

func TestVerifyDetectsBlackDepthImbalance(t *testing.T) {
	t.Parallel()

	tree := testBuildTree(t, "m", "f", "s", "a", "z")

	// Painting a red leaf black deepens one exit path.
	alloc := tree.storage()
	leaf := tree.find("a")
	require.NotZero(t, leaf)
	require.Equal(t, red, alloc[leaf].color)
	alloc[leaf].color = black

	assert.ErrorIs(t, tree.Verify(), ErrBlackDepth)
}

func TestVerifyDetectsCountMismatch(t *testing.T) {
	t.Parallel()

	tree := testBuildTree(t, "m", "f", "s")
	tree.count = 5

	assert.ErrorIs(t, tree.Verify(), ErrCount)
}

func TestStats(t *testing.T) {
	t.Parallel()

	t.Run("empty", func(t *testing.T) {
		t.Parallel()

		tree := testNewTree()
		assert.Equal(t, Stats{}, tree.Stats())
	})

	t.Run("single_node", func(t *testing.T) {
		t.Parallel()

		tree := testBuildTree(t, "m")
		assert.Equal(t, Stats{Nodes: 1, Height: 1, BlackHeight: 1}, tree.Stats())
	})

	t.Run("balanced_triangle", func(t *testing.T) {
		t.Parallel()

		tree := testBuildTree(t, "m", "f", "s")
		assert.Equal(t, Stats{Nodes: 3, Height: 2, BlackHeight: 1}, tree.Stats())
	})

	t.Run("height_stays_logarithmic", func(t *testing.T) {
		t.Parallel()

		tree := testNewTree()

		const keyCount = 1024

		for idx := range keyCount {
			require.True(t, tree.Insert("k"+strconv.Itoa(idx), int64(idx)))
		}

		stats := tree.Stats()
		assert.Equal(t, keyCount, stats.Nodes)

		// 2*log2(n+1) bound for red-black trees: log2(1025) ~ 10.
		assert.LessOrEqual(t, stats.Height, 20)
		assert.GreaterOrEqual(t, stats.Height, 10)
	})
}
