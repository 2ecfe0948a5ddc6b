package voxel

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEdgeTableUniformMasksHaveNoEdges(t *testing.T) {
	assert.EqualValues(t, 0, EdgeTable[0x00])
	assert.EqualValues(t, 0, EdgeTable[0xFF])
}

func TestEdgeTableSingleCornerFlipTouchesThreeEdges(t *testing.T) {
	for corner := 0; corner < 8; corner++ {
		mask := 1 << uint(corner)
		edges := EdgeTable[mask]
		count := 0
		for e := 0; e < 12; e++ {
			if edges&(1<<uint(e)) != 0 {
				count++
			}
		}
		assert.Equalf(t, 3, count, "corner %d: each cube vertex touches exactly 3 edges", corner)
	}
}

func TestEdgeTableSymmetric(t *testing.T) {
	// Complementary masks (solid/empty swapped) must cross the same edges.
	for mask := 0; mask < 256; mask++ {
		assert.Equal(t, EdgeTable[mask], EdgeTable[(^mask)&0xFF])
	}
}
