// Package simdvec implements the byte-vector primitives the surface
// extractor builds on: paired low/high unpacking, reversed-order movemask
// extraction, a 128-bit mixed-ones-zeros test, and a 32-bit left shift.
//
// The extractor's algorithm (go-voxels's teacher repo has none of this --
// it is ported from the spec's description of SSE4.1/SSSE3/SSE2 and NEON
// intrinsics) is expressed against these primitives rather than against
// compiler intrinsics directly, so the same Go source produces identical
// output regardless of host architecture. There is exactly one
// implementation: it is the "portable scalar fallback" the spec requires to
// exist and to be bit-identical to any SIMD path, and since no SIMD path is
// shipped, identity is free. A future accelerated build would add
// arch-gated files implementing the same functions with real intrinsics
// behind the same signatures.
package simdvec

// Row32 holds 32 consecutive sdf or material samples along the z axis of a
// chunk, i.e. one "row" as described in spec.md §4.3 step 1.
type Row32 [32]byte

// InterleaveRows produces the 64-byte interleaved buffer described in
// spec.md §4.3.1: byte i of the result alternates between a[i] and b[i],
// i.e. even offsets carry a's bytes and odd offsets carry b's bytes. This
// is the Go-native equivalent of the paired low/high 8-bit unpack the
// source performs on two 16-byte vector halves -- done here in one pass
// over the full 32-byte row instead of two passes over 16-byte halves,
// since Go has no fixed-width vector registers to split across.
func InterleaveRows(a, b Row32) [64]byte {
	var out [64]byte
	for i := 0; i < 32; i++ {
		out[2*i] = a[i]
		out[2*i+1] = b[i]
	}
	return out
}

// MoveMaskReverse reverses the byte order of row and extracts the sign bit
// (MSB) of each of the 32 bytes into a single 32-bit mask, bit 0 being the
// mask bit for the now-first (originally last) byte. With row[z] holding
// sample z, bit 31-z carries z: z=0 sits in bit 31, which is the bit the
// z-sweep reads before shifting the mask left to advance z.
func MoveMaskReverse(row Row32) uint32 {
	var mask uint32
	for i := 0; i < 32; i++ {
		// Reversed index: bit 0 takes row[31], bit 31 takes row[0].
		b := row[31-i]
		if b&0x80 != 0 {
			mask |= 1 << uint(i)
		}
	}
	return mask
}

// TestMixedOnesZeros reports whether the four 32-bit masks, taken together
// as a 128-bit vector, contain both zero and one bits. A false result means
// all 128 bits are 0 (fully exterior column) or all are 1 (fully interior
// column); either way the 2x2x32 column crosses no isosurface and the
// z-sweep over it can be skipped (spec.md §4.3 step 3).
func TestMixedOnesZeros(m0, m1, m2, m3 uint32) bool {
	or := m0 | m1 | m2 | m3
	and := m0 & m1 & m2 & m3
	if or == 0 {
		return false
	}
	if and == 0xFFFFFFFF {
		return false
	}
	return true
}

// ShiftLeft1 advances all four sign masks by one bit in lockstep, the
// "advance to next z" step of the z-sweep (spec.md §4.3 step 4).
func ShiftLeft1(m0, m1, m2, m3 uint32) (uint32, uint32, uint32, uint32) {
	return m0 << 1, m1 << 1, m2 << 1, m3 << 1
}
