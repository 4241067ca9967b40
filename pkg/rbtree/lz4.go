package rbtree

import (
	"encoding/binary"

	"github.com/pierrec/lz4/v4"
)

// uint32ByteSize is the number of bytes in a uint32.
const uint32ByteSize = 4

// PackUInt32Slice serializes a slice of uint32-s to little-endian bytes.
func PackUInt32Slice(data []uint32) []byte {
	packed := make([]byte, len(data)*uint32ByteSize)
	for idx, v := range data {
		binary.LittleEndian.PutUint32(packed[idx*uint32ByteSize:], v)
	}

	return packed
}

// UnpackUInt32Slice reverses PackUInt32Slice. `result` must be preallocated.
func UnpackUInt32Slice(packed []byte, result []uint32) {
	for idx := range result {
		result[idx] = binary.LittleEndian.Uint32(packed[idx*uint32ByteSize:])
	}
}

// DeltaEncodeUInt32Slice replaces each element with the difference from its
// predecessor, in place. The first element is left unchanged. This transforms
// monotone sequences, such as key-blob offsets, into small repetitive values
// that compress better with LZ4.
func DeltaEncodeUInt32Slice(data []uint32) {
	for i := len(data) - 1; i > 0; i-- {
		data[i] -= data[i-1]
	}
}

// DeltaDecodeUInt32Slice performs a prefix-sum to restore original values from
// deltas produced by DeltaEncodeUInt32Slice. The operation is performed in place.
func DeltaDecodeUInt32Slice(data []uint32) {
	for i := 1; i < len(data); i++ {
		data[i] += data[i-1]
	}
}

// CompressBytes compresses a byte blob with an LZ4 block. The second result
// is false when the blob was stored raw because LZ4 could not shrink it
// (tiny or high-entropy inputs).
func CompressBytes(data []byte) ([]byte, bool) {
	if len(data) == 0 {
		return nil, false
	}

	compressed := make([]byte, lz4.CompressBlockBound(len(data)))

	written, err := lz4.CompressBlock(data, compressed, nil)
	if err != nil || written == 0 || written >= len(data) {
		raw := make([]byte, len(data))
		copy(raw, data)

		return raw, false
	}

	return compressed[:written], true
}

// DecompressBytes reverses CompressBytes. `result` must be preallocated to
// the original blob length; `compressed` reports how the blob was stored.
func DecompressBytes(data []byte, result []byte, compressed bool) {
	if !compressed {
		copy(result, data)

		return
	}

	_, err := lz4.UncompressBlock(data, result)
	if err != nil {
		return
	}
}
