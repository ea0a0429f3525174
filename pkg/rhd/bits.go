package rhd

// DuplicateBits doubles every bit of val into a 16-bit word, bit i landing
// on both 2i and 2i+1. It is the MOSI encoding used in dual-rate mode.
func DuplicateBits(val byte) uint16 {
	var out uint16
	for i := 0; i < 8; i++ {
		bit := uint16(val>>i) & 1
		out |= (bit<<1 | bit) << (2 * i)
	}
	return out
}

// Deinterleave splits a dual-rate word into its two 8-bit streams.
// a takes the odd bit positions and b the even ones. For a word produced by
// DuplicateBits both streams equal the original byte; for a word clocked in
// from two MISO lines they recover each line separately.
func Deinterleave(data uint16) (a, b byte) {
	odd := data >> 1
	for i := 0; i < 8; i++ {
		a |= byte((odd >> i) & (1 << i))
		b |= byte((data >> i) & (1 << i))
	}
	return a, b
}
