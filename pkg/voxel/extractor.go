package voxel

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/leterax/voxelcore/internal/simdvec"
)

// cellsPerAxis gives the cell coordinate count; cells span local indices
// [0, cellsPerAxis), each needing its "+1" neighbor sample up to
// cellsPerAxis (never touching the chunk's far apron layer, ChunkSize-1,
// per spec.md §8 "apron flip must not produce triangles at the chunk
// face").
const cellsPerAxis = ChunkSize - 2

// axisEdgeBit maps axis 0,1,2 (x,y,z) to the edge-table bit of the
// canonical corner0-origin edge along that axis: edge 0 is corner0-corner1
// (x), edge 3 is corner2-corner0 (y), edge 4 is corner0-corner4 (z). A set
// bit signals the cell should stitch a quad along that axis (spec.md
// §4.3.3).
var axisEdgeBit = [3]uint{0, 3, 4}

// cellVertexIndex is the dense (cellsPerAxis^3 entries) lookup from a
// cell's local coordinates to the vertex index it emitted, or -1. The spec
// describes a checkerboard-parity addressing scheme for this buffer
// purely as a memory-reuse trick inside a fixed-size raw array; a Go slice
// indexed directly by (x, y, z) needs no such trick (see DESIGN.md).
type cellVertexIndex struct {
	data []int32
}

func newCellVertexIndex() *cellVertexIndex {
	data := make([]int32, cellsPerAxis*cellsPerAxis*cellsPerAxis)
	for i := range data {
		data[i] = -1
	}
	return &cellVertexIndex{data: data}
}

func (c *cellVertexIndex) idx(x, y, z int) int {
	return x + cellsPerAxis*(y+cellsPerAxis*z)
}

func (c *cellVertexIndex) get(x, y, z int) int32 {
	if x < 0 || y < 0 || z < 0 || x >= cellsPerAxis || y >= cellsPerAxis || z >= cellsPerAxis {
		return -1
	}
	return c.data[c.idx(x, y, z)]
}

func (c *cellVertexIndex) set(x, y, z int, v int32) {
	c.data[c.idx(x, y, z)] = v
}

// ExtractChunk runs the surface extractor over a chunk volume (spec.md
// §4.3): a Naive Surface Nets pass that emits one vertex per sign-change
// cell and stitches face quads between adjacent sign-change cells.
//
// recomputeNormalsLater tells the extractor that a later pass
// (RecomputeTriangleNormals, possibly after fairing) will overwrite the
// per-vertex normal, so the inline gradient computation can be skipped;
// when false, the extractor fills every vertex's normal with the gradient
// estimate from its cell's 8 corner sdf samples (spec.md §4.3.2).
// material selects the attribute encoding mode (spec.md §4.4).
//
// The only error ExtractChunk returns is a chunk-size mismatch: every
// other input combination, including an entirely positive or entirely
// negative field, produces a valid (possibly empty) mesh.
func ExtractChunk(v *Volume, recomputeNormalsLater bool, material MaterialMode) (*MeshBuffers, error) {
	if err := v.validate(); err != nil {
		return nil, err
	}

	mesh := NewMeshBuffers()
	cellIndex := newCellVertexIndex()

	for x := 0; x < cellsPerAxis; x++ {
		for y := 0; y < cellsPerAxis; y++ {
			rowX := loadSDFRow(v, x, y)
			rowX1 := loadSDFRow(v, x+1, y)
			rowXy1 := loadSDFRow(v, x, y+1)
			rowX1y1 := loadSDFRow(v, x+1, y+1)

			m0 := simdvec.MoveMaskReverse(rowX)
			m1 := simdvec.MoveMaskReverse(rowX1)
			m2 := simdvec.MoveMaskReverse(rowXy1)
			m3 := simdvec.MoveMaskReverse(rowX1y1)

			if !simdvec.TestMixedOnesZeros(m0, m1, m2, m3) {
				continue // entire 2x2x32 column has no sign change
			}

			row01 := simdvec.InterleaveRows(rowX, rowX1)
			row23 := simdvec.InterleaveRows(rowXy1, rowX1y1)

			matRowX := loadMaterialRow(v, x, y)
			matRowX1 := loadMaterialRow(v, x+1, y)
			matRowXy1 := loadMaterialRow(v, x, y+1)
			matRowX1y1 := loadMaterialRow(v, x+1, y+1)
			matRow01 := simdvec.InterleaveRows(matRowX, matRowX1)
			matRow23 := simdvec.InterleaveRows(matRowXy1, matRowX1y1)

			cornerMask := extractHighNibble(m0, m1, m2, m3) << 4

			for z := 0; z < cellsPerAxis; z++ {
				cornerMask >>= 4
				m0, m1, m2, m3 = simdvec.ShiftLeft1(m0, m1, m2, m3)
				cornerMask |= extractHighNibble(m0, m1, m2, m3) << 4

				if cornerMask == 0 || cornerMask == 0xFF {
					continue // uniform cell, no crossing
				}

				corners := [8]int8{
					int8(row01[2*z]), int8(row01[2*z+1]),
					int8(row23[2*z]), int8(row23[2*z+1]),
					int8(row01[2*z+2]), int8(row01[2*z+3]),
					int8(row23[2*z+2]), int8(row23[2*z+3]),
				}
				cornerMats := [8]Material{
					Material(matRow01[2*z]), Material(matRow01[2*z+1]),
					Material(matRow23[2*z]), Material(matRow23[2*z+1]),
					Material(matRow01[2*z+2]), Material(matRow01[2*z+3]),
					Material(matRow23[2*z+2]), Material(matRow23[2*z+3]),
				}

				edgeMask := EdgeTable[cornerMask]

				offset := vertexOffset(corners, edgeMask)
				pos := mgl32.Vec3{float32(x), float32(y), float32(z)}.Add(offset).Mul(v.VoxelSize)

				var normal mgl32.Vec3
				if !recomputeNormalsLater {
					normal = GradientNormal(corners, v.VoxelSize)
				}

				weights := EncodeMaterialWeights(cornerMats, offset, material)

				vIdx := mesh.addVertex(pos, normal, weights)
				cellIndex.set(x, y, z, int32(vIdx))

				stitchQuads(mesh, cellIndex, x, y, z, cornerMask, edgeMask)
			}
		}
	}

	return mesh, nil
}

// extractHighNibble packs the MSB (bit 31) of each of four sign masks into
// a 4-bit nibble, m0 -> bit0 .. m3 -> bit3. This is the z-sweep's sliding
// window read (spec.md §4.3 step 4): shifting the masks left by one brings
// the next z layer's sign bit into position 31.
func extractHighNibble(m0, m1, m2, m3 uint32) uint8 {
	var n uint8
	if m0&0x80000000 != 0 {
		n |= 1 << 0
	}
	if m1&0x80000000 != 0 {
		n |= 1 << 1
	}
	if m2&0x80000000 != 0 {
		n |= 1 << 2
	}
	if m3&0x80000000 != 0 {
		n |= 1 << 3
	}
	return n
}

func loadSDFRow(v *Volume, x, y int) simdvec.Row32 {
	var row simdvec.Row32
	for z := 0; z < ChunkSize; z++ {
		row[z] = byte(v.SDF[Index(x, y, z)])
	}
	return row
}

func loadMaterialRow(v *Volume, x, y int) simdvec.Row32 {
	var row simdvec.Row32
	for z := 0; z < ChunkSize; z++ {
		row[z] = v.Materials[Index(x, y, z)]
	}
	return row
}

// vertexOffset computes the mean of the isosurface's edge-crossing points
// within the unit cell, in unit-cube coordinates (spec.md §4.3.1).
func vertexOffset(corners [8]int8, edgeMask uint16) mgl32.Vec3 {
	var sum mgl32.Vec3
	var count float32
	for e := 0; e < 12; e++ {
		if edgeMask&(1<<uint(e)) == 0 {
			continue
		}
		c0, c1 := edgeEndpoints[e][0], edgeEndpoints[e][1]
		s0, s1 := float32(corners[c0]), float32(corners[c1])
		t := s0 / (s0 - s1)
		p0 := cornerOffsets[c0]
		p1 := cornerOffsets[c1]
		var crossing mgl32.Vec3
		for i := 0; i < 3; i++ {
			crossing[i] = float32(p0[i]) + t*float32(p1[i]-p0[i])
		}
		sum = sum.Add(crossing)
		count++
	}
	if count == 0 {
		return mgl32.Vec3{0.5, 0.5, 0.5}
	}
	return sum.Mul(1.0 / count)
}

// stitchQuads emits the quads completed by this cell's vertex along each
// principal axis whose canonical corner0-origin edge crosses the
// isosurface (spec.md §4.3.3).
func stitchQuads(mesh *MeshBuffers, cellIndex *cellVertexIndex, x, y, z int, cornerMask uint8, edgeMask uint16) {
	pos := [3]int{x, y, z}

	for i := 0; i < 3; i++ {
		if edgeMask&(1<<axisEdgeBit[i]) == 0 {
			continue
		}
		iu := (i + 1) % 3
		iv := (i + 2) % 3
		if pos[iu] == 0 || pos[iv] == 0 {
			continue // boundary cell, quad would be incomplete
		}

		du := [3]int{}
		dv := [3]int{}
		du[iu] = -1
		dv[iv] = -1

		v0 := cellIndex.get(pos[0], pos[1], pos[2])
		v1 := cellIndex.get(pos[0]+du[0], pos[1]+du[1], pos[2]+du[2])
		v2 := cellIndex.get(pos[0]+du[0]+dv[0], pos[1]+du[1]+dv[1], pos[2]+du[2]+dv[2])
		v3 := cellIndex.get(pos[0]+dv[0], pos[1]+dv[1], pos[2]+dv[2])
		if v0 < 0 || v1 < 0 || v2 < 0 || v3 < 0 {
			continue
		}

		if cornerMask&1 == 1 {
			mesh.Indices = append(mesh.Indices,
				uint32(v0), uint32(v1), uint32(v2),
				uint32(v0), uint32(v2), uint32(v3))
		} else {
			mesh.Indices = append(mesh.Indices,
				uint32(v0), uint32(v3), uint32(v2),
				uint32(v0), uint32(v2), uint32(v1))
		}
	}
}
