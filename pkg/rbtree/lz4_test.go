package rbtree

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPackUnpackUInt32Slice(t *testing.T) {
	t.Parallel()

	data := []uint32{0, 1, 42, 1 << 20, 1<<32 - 1}
	packed := PackUInt32Slice(data)
	require.Len(t, packed, len(data)*uint32ByteSize)

	result := make([]uint32, len(data))
	UnpackUInt32Slice(packed, result)
	assert.Equal(t, data, result)
}

func TestDeltaEncodeDecodeRoundTrip(t *testing.T) {
	t.Parallel()

	data := []uint32{3, 7, 7, 20, 100, 10000}
	original := append([]uint32(nil), data...)

	DeltaEncodeUInt32Slice(data)
	assert.Equal(t, []uint32{3, 4, 0, 13, 80, 9900}, data)

	DeltaDecodeUInt32Slice(data)
	assert.Equal(t, original, data)
}

func TestCompressBytesRoundTripCompressible(t *testing.T) {
	t.Parallel()

	data := bytes.Repeat([]byte("banana"), 1000)

	compressed, wasCompressed := CompressBytes(data)
	require.True(t, wasCompressed)
	assert.Less(t, len(compressed), len(data))

	result := make([]byte, len(data))
	DecompressBytes(compressed, result, wasCompressed)
	assert.Equal(t, data, result)
}

func TestCompressBytesRoundTripIncompressible(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(7)) //nolint:gosec // deterministic test data
	data := make([]byte, 64)
	_, err := rng.Read(data)
	require.NoError(t, err)

	stored, wasCompressed := CompressBytes(data)
	assert.False(t, wasCompressed, "high-entropy input must fall back to raw storage")

	result := make([]byte, len(data))
	DecompressBytes(stored, result, wasCompressed)
	assert.Equal(t, data, result)
}

func TestCompressBytesEmpty(t *testing.T) {
	t.Parallel()

	stored, wasCompressed := CompressBytes(nil)
	assert.Nil(t, stored)
	assert.False(t, wasCompressed)

	DecompressBytes(stored, nil, wasCompressed)
}
