package rbtree

import (
	"sync"

	"github.com/Sumatoshi-tech/rfdict/pkg/safeconv"
)

// Hibernation deinterleaves node fields into per-field arrays and compresses
// each one independently. Keys are packed into a single blob addressed by a
// delta-encoded offset array. The arena stays in memory in compressed form;
// nothing is written to disk.

// hibernatedBufferCount is the number of field buffers a hibernated allocator
// holds: parent, left, right, color, value low/high halves, key offsets, and
// the key blob itself.
const hibernatedBufferCount = 8

const (
	bufParent = iota
	bufLeft
	bufRight
	bufColor
	bufValueLo
	bufValueHi
	bufKeyOffsets
	bufKeyBlob
)

// valueHalfShift splits an int64 value into two uint32 buffer entries.
const valueHalfShift = 32

// Hibernate compresses the allocated memory.
// It is a no-op while the arena holds fewer nodes than HibernationThreshold.
func (allocator *Allocator) Hibernate() {
	if allocator.hibernatedStorageLen > 0 {
		panic("rbtree: cannot hibernate an already hibernated Allocator")
	}

	if len(allocator.storage) < allocator.HibernationThreshold {
		return
	}

	allocator.hibernatedStorageLen = len(allocator.storage)
	if allocator.hibernatedStorageLen == 0 {
		allocator.storage = nil

		return
	}

	buffers := [hibernatedBufferCount - 1][]uint32{}
	for idx := range buffers {
		buffers[idx] = make([]uint32, len(allocator.storage))
	}

	blobLen := 0
	for _, nd := range allocator.storage {
		blobLen += len(nd.key)
	}

	keyBlob := make([]byte, 0, blobLen)

	// We deinterleave to achieve a better compression ratio.
	for idx, nd := range allocator.storage {
		buffers[bufParent][idx] = nd.parent
		buffers[bufLeft][idx] = nd.left
		buffers[bufRight][idx] = nd.right
		buffers[bufValueLo][idx] = uint32(nd.value)
		buffers[bufValueHi][idx] = uint32(uint64(nd.value) >> valueHalfShift)
		buffers[bufKeyOffsets][idx] = safeconv.MustIntToUint32(len(keyBlob))

		if nd.color {
			buffers[bufColor][idx] = 1
		}

		keyBlob = append(keyBlob, nd.key...)
	}

	DeltaEncodeUInt32Slice(buffers[bufKeyOffsets])

	allocator.storage = nil
	allocator.hibernatedKeysLen = len(keyBlob)

	wg := &sync.WaitGroup{}
	wg.Add(len(buffers) + 1)

	for idx, buffer := range buffers {
		go func(bufIdx int, buf []uint32) {
			allocator.hibernatedData[bufIdx], allocator.hibernatedCompressed[bufIdx] = CompressBytes(PackUInt32Slice(buf))
			buffers[bufIdx] = nil

			wg.Done()
		}(idx, buffer)
	}

	go func() {
		allocator.hibernatedData[bufKeyBlob], allocator.hibernatedCompressed[bufKeyBlob] = CompressBytes(keyBlob)

		wg.Done()
	}()

	wg.Wait()
}

// Boot performs the opposite of Hibernate() - decompresses and restores the allocated memory.
func (allocator *Allocator) Boot() {
	if allocator.storage == nil && allocator.hibernatedStorageLen == 0 {
		allocator.storage = []node{}

		return
	}

	if allocator.hibernatedStorageLen == 0 {
		// Not hibernated.
		return
	}

	buffers := [hibernatedBufferCount - 1][]uint32{}

	wg := &sync.WaitGroup{}
	wg.Add(len(buffers) + 1)

	for idx := range buffers {
		go func(bufIdx int) {
			packed := make([]byte, allocator.hibernatedStorageLen*uint32ByteSize)
			DecompressBytes(allocator.hibernatedData[bufIdx], packed, allocator.hibernatedCompressed[bufIdx])

			buffers[bufIdx] = make([]uint32, allocator.hibernatedStorageLen)
			UnpackUInt32Slice(packed, buffers[bufIdx])
			allocator.hibernatedData[bufIdx] = nil

			wg.Done()
		}(idx)
	}

	keyBlob := make([]byte, allocator.hibernatedKeysLen)

	go func() {
		DecompressBytes(allocator.hibernatedData[bufKeyBlob], keyBlob, allocator.hibernatedCompressed[bufKeyBlob])
		allocator.hibernatedData[bufKeyBlob] = nil

		wg.Done()
	}()

	wg.Wait()

	DeltaDecodeUInt32Slice(buffers[bufKeyOffsets])

	// One backing string for all keys; nodes hold substrings of it.
	blob := string(keyBlob)

	capSize := (allocator.hibernatedStorageLen * growCapacityNumerator) / growCapacityDenominator
	allocator.storage = make([]node, allocator.hibernatedStorageLen, capSize)

	for idx := range allocator.storage {
		nd := &allocator.storage[idx]
		nd.parent = buffers[bufParent][idx]
		nd.left = buffers[bufLeft][idx]
		nd.right = buffers[bufRight][idx]
		nd.color = buffers[bufColor][idx] > 0
		nd.value = int64(uint64(buffers[bufValueLo][idx]) | uint64(buffers[bufValueHi][idx])<<valueHalfShift)

		start := int(buffers[bufKeyOffsets][idx])

		end := len(blob)
		if idx+1 < len(allocator.storage) {
			end = int(buffers[bufKeyOffsets][idx+1])
		}

		nd.key = blob[start:end]
	}

	allocator.hibernatedStorageLen = 0
	allocator.hibernatedKeysLen = 0
}

// Hibernated reports whether the arena is currently in compressed form.
func (allocator *Allocator) Hibernated() bool {
	return allocator.hibernatedStorageLen > 0
}

// HibernatedSize returns the total byte count a hibernated arena occupies.
func (allocator *Allocator) HibernatedSize() int {
	total := 0
	for _, data := range allocator.hibernatedData {
		total += len(data)
	}

	return total
}
