package voxel

// edgeEndpoints maps each of the 12 cube edges to the pair of corner
// indices it connects. Corner numbering follows the standard marching-cubes
// convention: corner i has local coordinates ((i&1), (i>>1)&1, (i>>2)&1).
// Edges 0-3 run along the bottom face (z=0) connecting corners that differ
// in x or y; 4-7 connect the bottom face to the top face (differ in z);
// 8-11 run along the top face (z=1).
var edgeEndpoints = [12][2]int{
	{0, 1}, {1, 3}, {3, 2}, {2, 0}, // bottom face (z=0): x/y edges
	{0, 4}, {1, 5}, {3, 7}, {2, 6}, // vertical edges (z=0 -> z=1)
	{4, 5}, {5, 7}, {7, 6}, {6, 4}, // top face (z=1): x/y edges
}

// cornerOffsets gives the local (x, y, z) offset of each of the 8 cube
// corners from the cell's minimum corner.
var cornerOffsets = [8][3]int{
	{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {1, 1, 0},
	{0, 0, 1}, {1, 0, 1}, {0, 1, 1}, {1, 1, 1},
}

// EdgeTable is the immutable 256-entry lookup from an 8-bit corner sign
// mask to a 12-bit edge-crossing mask, built once at package init time
// (spec.md §3.1 "Edge table").
var EdgeTable [256]uint16

func init() {
	for mask := 0; mask < 256; mask++ {
		var edges uint16
		for e := 0; e < 12; e++ {
			c0, c1 := edgeEndpoints[e][0], edgeEndpoints[e][1]
			s0 := (mask>>uint(c0))&1 == 1
			s1 := (mask>>uint(c1))&1 == 1
			if s0 != s1 {
				edges |= 1 << uint(e)
			}
		}
		EdgeTable[mask] = edges
	}
}
