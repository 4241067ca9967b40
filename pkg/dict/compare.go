package dict

import "strings"

// ASCII letter range bounds.
const (
	asciiUpperA = 0x41
	asciiLowerA = 0x61
	asciiLowerZ = 0x7a
)

// foldDelta is the distance between lowercase and uppercase ASCII letters.
const foldDelta = asciiLowerA - asciiUpperA

// foldByte maps lowercase ASCII letters to uppercase; other bytes pass
// through unchanged.
func foldByte(b byte) byte {
	if b >= asciiLowerA && b <= asciiLowerZ {
		return b - foldDelta
	}

	return b
}

// FoldASCII returns key with every lowercase ASCII letter mapped to
// uppercase. The input is returned unchanged (and unallocated) when it
// contains no lowercase letters.
func FoldASCII(key string) string {
	idx := 0
	for idx < len(key) && (key[idx] < asciiLowerA || key[idx] > asciiLowerZ) {
		idx++
	}

	if idx == len(key) {
		return key
	}

	folded := []byte(key)
	for ; idx < len(folded); idx++ {
		folded[idx] = foldByte(folded[idx])
	}

	return string(folded)
}

// Compare is a three-way string comparison: negative, zero, or positive as
// key1 sorts before, equal to, or after key2.
//
// Sensitive mode compares bytes exactly. Insensitive mode folds lowercase
// ASCII letters to uppercase on both operands, byte by byte, stopping at the
// first differing folded byte or at the end of either string; the fold is
// symmetric on both sides.
func Compare(key1, key2 string, sensitive bool) int {
	if sensitive {
		return strings.Compare(key1, key2)
	}

	limit := min(len(key1), len(key2))

	for idx := range limit {
		c1 := foldByte(key1[idx])
		c2 := foldByte(key2[idx])

		switch {
		case c1 < c2:
			return -1
		case c1 > c2:
			return 1
		}
	}

	switch {
	case len(key1) < len(key2):
		return -1
	case len(key1) > len(key2):
		return 1
	}

	return 0
}
