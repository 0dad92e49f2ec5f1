// Package morton interleaves the bits of two 32 bit tile coordinates into a
// Z-order (Morton) code: x on the even bits, y on the odd bits.
package morton

var (
	masks = [...]uint64{
		0b0101010101010101010101010101010101010101010101010101010101010101,
		0b0011001100110011001100110011001100110011001100110011001100110011,
		0b0000111100001111000011110000111100001111000011110000111100001111,
		0b0000000011111111000000001111111100000000111111110000000011111111,
		0b0000000000000000111111111111111100000000000000001111111111111111,
		0b0000000000000000000000000000000011111111111111111111111111111111,
	}
	shifts = [...]uint{0, 1, 2, 4, 8, 16}
)

// Interleave is the Z-order code of x and y.
func Interleave(x, y uint32) uint64 {
	return spread(uint64(x)) | spread(uint64(y))<<1
}

// Deinterleave splits a Z-order code back into x and y.
func Deinterleave(z uint64) (x, y uint32) {
	return uint32(compact(z)), uint32(compact(z >> 1))
}

func spread(v uint64) uint64 {
	for i := 4; i >= 0; i-- {
		v = (v | v<<shifts[i+1]) & masks[i]
	}
	return v
}

func compact(v uint64) uint64 {
	v &= masks[0]
	for i := 1; i <= 5; i++ {
		v = (v | v>>shifts[i]) & masks[i]
	}
	return v
}

// Digits gives the zoom base-4 digits of a code, most significant first.
// Each digit is x + 2y of one level, as in Bing quadkeys.
func Digits(z uint64, zoom int) []byte {
	digits := make([]byte, zoom)
	for level := 0; level < zoom; level++ {
		digits[level] = byte(z >> (2 * uint(zoom-1-level)) & 3)
	}
	return digits
}
