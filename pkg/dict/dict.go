// Package dict implements an ordered string-keyed dictionary mapping byte
// strings to int64 values, backed by a red-black tree.
//
// A dictionary is created case-sensitive or case-insensitive for its whole
// lifetime. Keys can optionally be translated from the build's native text
// encoding to US-ASCII at insertion time; lookups never translate, so callers
// must pre-normalize query keys the same way stored keys were normalized.
// Keys are folded to uppercase at insertion when the dictionary is
// insensitive; the comparator folds query keys on the fly.
//
// Dictionaries are not safe for concurrent mutation. Read-only concurrent
// access is safe once all inserts have finished.
package dict

import (
	"fmt"

	"github.com/Sumatoshi-tech/rfdict/pkg/chartab"
	"github.com/Sumatoshi-tech/rfdict/pkg/rbtree"
)

// MaxKeyLen is the maximum key length in bytes. Inserting a longer key is a
// contract violation and panics.
const MaxKeyLen = 16384

// Dict is an ordered dictionary handle. The zero value is not usable; create
// instances with New.
type Dict struct {
	tree      *rbtree.Tree
	allocator *rbtree.Allocator
	sensitive bool
}

// New returns an empty dictionary. The sensitivity flag is fixed for the
// dictionary's lifetime: sensitive dictionaries compare keys byte for byte,
// insensitive ones fold ASCII letters to uppercase.
func New(sensitive bool) *Dict {
	allocator := rbtree.NewAllocator()

	return &Dict{
		tree: rbtree.NewTree(allocator, func(a, b string) int {
			return Compare(a, b, sensitive)
		}),
		allocator: allocator,
		sensitive: sensitive,
	}
}

// Insert stores key with the given value. When translate is set the key is
// first mapped from the native encoding to US-ASCII through chartab; a byte
// without a mapping panics. Insensitive dictionaries then fold the key to
// uppercase, so the stored key is canonical.
//
// Returns false, with the dictionary unmodified, when a comparator-equal key
// is already present.
func (d *Dict) Insert(key string, value int64, translate bool) bool {
	if len(key) > MaxKeyLen {
		panic(fmt.Sprintf("dict: key length %d exceeds MaxKeyLen %d", len(key), MaxKeyLen))
	}

	if translate {
		key = translateKey(key)
	}

	if !d.sensitive {
		key = FoldASCII(key)
	}

	return d.tree.Insert(key, value)
}

// Get returns the value stored under key, or defaultValue when the key is
// absent. No translation is applied; only the dictionary's comparator.
func (d *Dict) Get(key string, defaultValue int64) int64 {
	value, ok := d.tree.Get(key)
	if !ok {
		return defaultValue
	}

	return value
}

// Lookup returns the value stored under key and whether it was present.
func (d *Dict) Lookup(key string) (int64, bool) {
	return d.tree.Get(key)
}

// Free releases every node and detaches the dictionary from its arena.
// Calling Free on a nil dictionary is a no-op. The dictionary must not be
// used afterwards.
func (d *Dict) Free() {
	if d == nil {
		return
	}

	if d.tree != nil {
		d.tree.Erase()
	}

	d.tree = nil
	d.allocator = nil
}

// Len returns the number of keys stored.
func (d *Dict) Len() int {
	if d == nil || d.tree == nil {
		return 0
	}

	return d.tree.Len()
}

// Sensitive reports whether comparisons are case-sensitive.
func (d *Dict) Sensitive() bool {
	return d.sensitive
}

// Verify checks the red-black invariants of the underlying tree.
func (d *Dict) Verify() error {
	return d.tree.Verify()
}

// Stats returns shape statistics of the underlying tree.
func (d *Dict) Stats() rbtree.Stats {
	return d.tree.Stats()
}

// Allocator exposes the node arena, for hibernation control.
func (d *Dict) Allocator() *rbtree.Allocator {
	return d.allocator
}

// translateKey maps every byte of key to US-ASCII through the process-wide
// table.
func translateKey(key string) string {
	table := chartab.Default()

	translated := make([]byte, len(key))
	for idx := range len(key) {
		translated[idx] = table.ToASCII(key[idx])
	}

	return string(translated)
}
