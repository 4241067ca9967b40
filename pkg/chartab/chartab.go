// Package chartab maps bytes of the build's native text encoding to US-ASCII.
//
// The mapping covers the 95 printable characters plus space (0x20-0x7E).
// Controls, line breaks, and extended bytes have no mapping; asking for one is
// a contract violation and panics. Dictionary keys translated through this
// table compare identically across platforms regardless of the source
// encoding.
package chartab

import "sync"

// tableSize is the number of possible byte values.
const tableSize = 256

// asciiLow and asciiHigh bound the mapped ASCII range (space to tilde).
const (
	asciiLow  = 0x20
	asciiHigh = 0x7e
)

// charRef lists the ASCII characters 0x20-0x7E in the native encoding, in
// ASCII order. Indexing it with (code - asciiLow) yields the native byte for
// that ASCII code.
const charRef = " !\"#$%&'()*+,-./" +
	"0123456789:;<=>?" +
	"@ABCDEFGHIJKLMNO" +
	"PQRSTUVWXYZ[\\]^_" +
	"`abcdefghijklmno" +
	"pqrstuvwxyz{|}~"

// Table is an immutable native-byte to US-ASCII lookup table.
// A zero entry means the byte has no ASCII mapping.
type Table struct {
	toASCII [tableSize]byte
}

// NewTable builds the mapping table. The result never changes after
// construction and is safe for concurrent readers.
func NewTable() *Table {
	table := &Table{}

	for code := asciiLow; code <= asciiHigh; code++ {
		native := charRef[code-asciiLow]

		// Zero is reserved for "no mapping"; a native encoding that used it
		// for a printable character could not represent string terminators.
		if native == 0 {
			panic("chartab: native encoding maps a printable character to zero")
		}

		if table.toASCII[native] != 0 {
			panic("chartab: native encoding maps two printable characters to one byte")
		}

		table.toASCII[native] = byte(code)
	}

	return table
}

// ToASCII returns the US-ASCII code for a native byte.
// Panics if the byte does not correspond to a printable ASCII character.
func (t *Table) ToASCII(b byte) byte {
	mapped := t.toASCII[b]
	if mapped == 0 {
		panic("chartab: byte has no US-ASCII mapping")
	}

	return mapped
}

var (
	defaultOnce  sync.Once
	defaultTable *Table
)

// Default returns the process-wide table, building it on first use.
// The build happens exactly once; concurrent first calls are safe.
func Default() *Table {
	defaultOnce.Do(func() {
		defaultTable = NewTable()
	})

	return defaultTable
}

// Prepare forces construction of the process-wide table. Idempotent.
// Callers that want deterministic startup cost can invoke it once during
// initialization; ToASCII triggers it implicitly otherwise.
func Prepare() {
	Default()
}

// ToASCII translates a byte through the process-wide table.
// Panics if the byte has no mapping.
func ToASCII(b byte) byte {
	return Default().ToASCII(b)
}
