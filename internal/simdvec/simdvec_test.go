package simdvec

import "testing"

func TestInterleaveRows(t *testing.T) {
	var a, b Row32
	for i := range a {
		a[i] = byte(i)
		b[i] = byte(i + 100)
	}
	out := InterleaveRows(a, b)
	for i := 0; i < 32; i++ {
		if out[2*i] != a[i] {
			t.Errorf("out[%d] = %d, want a[%d] = %d", 2*i, out[2*i], i, a[i])
		}
		if out[2*i+1] != b[i] {
			t.Errorf("out[%d] = %d, want b[%d] = %d", 2*i+1, out[2*i+1], i, b[i])
		}
	}
}

func TestMoveMaskReverseAllNegative(t *testing.T) {
	var row Row32
	for i := range row {
		row[i] = 0x80 // negative sdf byte
	}
	mask := MoveMaskReverse(row)
	if mask != 0xFFFFFFFF {
		t.Errorf("mask = %#x, want 0xFFFFFFFF", mask)
	}
}

func TestMoveMaskReverseOrdering(t *testing.T) {
	var row Row32
	// Only the last byte (z=31) is negative.
	row[31] = 0x80
	mask := MoveMaskReverse(row)
	// After reversal row[31] lands in bit 0, so bit 0 should be set.
	if mask != 1 {
		t.Errorf("mask = %#x, want 1 (bit 0 set for z=31)", mask)
	}

	var row2 Row32
	row2[0] = 0x80
	mask2 := MoveMaskReverse(row2)
	if mask2 != (1 << 31) {
		t.Errorf("mask2 = %#x, want bit 31 set", mask2)
	}
}

func TestTestMixedOnesZeros(t *testing.T) {
	if TestMixedOnesZeros(0, 0, 0, 0) {
		t.Error("all-zero masks should not be mixed")
	}
	if TestMixedOnesZeros(0xFFFFFFFF, 0xFFFFFFFF, 0xFFFFFFFF, 0xFFFFFFFF) {
		t.Error("all-one masks should not be mixed")
	}
	if !TestMixedOnesZeros(1, 0, 0, 0) {
		t.Error("one set bit among four masks should be mixed")
	}
}

func TestShiftLeft1(t *testing.T) {
	m0, m1, m2, m3 := ShiftLeft1(1, 2, 3, 4)
	if m0 != 2 || m1 != 4 || m2 != 6 || m3 != 8 {
		t.Errorf("got (%d,%d,%d,%d), want (2,4,6,8)", m0, m1, m2, m3)
	}
}
