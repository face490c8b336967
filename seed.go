package classifier

import (
	"strconv"
	"unicode/utf16"
)

// HashSeed derives a non-negative 32-bit seed from s.
//
// Each UTF-16 code unit is folded into an int32 accumulator as acc*31 + unit with
// two's-complement wraparound, and the absolute value of the final accumulator is
// returned. The absolute value of math.MinInt32 does not fit in an int32, so the
// result is widened to uint32 (2147483648 in that case).
func HashSeed(s string) uint32 {
	var acc int32
	for _, unit := range utf16.Encode([]rune(s)) {
		acc = acc*31 + int32(unit)
	}
	return absSeed(acc)
}

// SeedInput builds the string a file is hashed from: its name followed by its size in decimal.
func SeedInput(fileName string, sizeBytes int64) string {
	return fileName + strconv.FormatInt(sizeBytes, 10)
}

func absSeed(v int32) uint32 {
	if v < 0 {
		return uint32(-int64(v))
	}
	return uint32(v)
}
