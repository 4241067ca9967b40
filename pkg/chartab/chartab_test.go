package chartab

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToASCIIHelloWorld(t *testing.T) {
	t.Parallel()

	want := []byte{0x48, 0x65, 0x6c, 0x6c, 0x6f, 0x2c, 0x20, 0x77, 0x6f, 0x72, 0x6c, 0x64, 0x21}
	input := "Hello, world!"

	require.Len(t, input, len(want))

	for idx := range len(input) {
		assert.Equal(t, want[idx], ToASCII(input[idx]), "byte %d of %q", idx, input)
	}
}

func TestToASCIIFullPrintableRange(t *testing.T) {
	t.Parallel()

	table := NewTable()

	// In the native encoding of a Go build every printable character maps to
	// itself.
	for code := byte(0x20); code <= 0x7e; code++ {
		assert.Equal(t, code, table.ToASCII(code))
	}
}

func TestToASCIIUnmappedPanics(t *testing.T) {
	t.Parallel()

	table := NewTable()

	for _, b := range []byte{0x00, 0x09, 0x0a, 0x0d, 0x1f, 0x7f, 0x80, 0xff} {
		assert.Panics(t, func() {
			table.ToASCII(b)
		}, "byte 0x%02x must have no mapping", b)
	}
}

func TestPrepareIdempotent(t *testing.T) {
	t.Parallel()

	Prepare()
	first := Default()

	Prepare()
	assert.Same(t, first, Default())
}

func TestNewTableIndependentOfDefault(t *testing.T) {
	t.Parallel()

	table := NewTable()
	assert.NotSame(t, table, Default())
	assert.Equal(t, Default().toASCII, table.toASCII)
}
