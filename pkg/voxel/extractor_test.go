package voxel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newPlanarVolume returns a volume with a flat isosurface at local z =
// splitZ-0.5: samples with z < splitZ are solid (-120), z >= splitZ are
// empty (+120), so every z edge crosses at its midpoint.
func newPlanarVolume(voxelSize float32, splitZ int) *Volume {
	v := NewVolume(voxelSize, 0)
	for x := 0; x < ChunkSize; x++ {
		for y := 0; y < ChunkSize; y++ {
			for z := 0; z < ChunkSize; z++ {
				if z < splitZ {
					v.SetVoxel(x, y, z, -120, Material(1))
				} else {
					v.SetVoxel(x, y, z, 120, Air)
				}
			}
		}
	}
	return v
}

func TestExtractChunkEmptyVolumeIsEmptyMesh(t *testing.T) {
	v := NewVolume(1, 127)
	mesh, err := ExtractChunk(v, false, CornerSum)
	require.NoError(t, err)
	assert.Equal(t, 0, mesh.VertexCount())
	assert.Equal(t, 0, mesh.TriangleCount())
	assert.True(t, mesh.Bounds.Min[0] > mesh.Bounds.Max[0])
}

func TestExtractChunkSolidVolumeIsEmptyMesh(t *testing.T) {
	v := NewVolume(1, -128)
	mesh, err := ExtractChunk(v, false, CornerSum)
	require.NoError(t, err)
	assert.Equal(t, 0, mesh.VertexCount())
	assert.Equal(t, 0, mesh.TriangleCount())
}

func TestExtractChunkRejectsSizeMismatch(t *testing.T) {
	v := &Volume{SDF: make([]int8, 4), Materials: make([]uint8, 4), VoxelSize: 1}
	mesh, err := ExtractChunk(v, false, CornerSum)
	require.Error(t, err)
	assert.Nil(t, mesh)
}

func TestExtractChunkPlanarSurfaceProducesFlatSheet(t *testing.T) {
	v := newPlanarVolume(1.0, 16)
	mesh, err := ExtractChunk(v, false, CornerSum)
	require.NoError(t, err)
	require.Greater(t, mesh.VertexCount(), 0)
	require.Greater(t, mesh.TriangleCount(), 0)
	require.Zero(t, len(mesh.Indices)%3)

	for _, p := range mesh.Positions {
		assert.InDelta(t, 16.0, p[2], 1.5)
	}
	for _, n := range mesh.Normals {
		// a planar +z-facing surface should have a normal dominated by z
		assert.Greater(t, n[2], float32(0.5))
	}
}

func TestExtractChunkApronFlipAtFarFaceDoesNotAffectMesh(t *testing.T) {
	base := newPlanarVolume(1.0, 16)
	baseMesh, err := ExtractChunk(base, false, CornerSum)
	require.NoError(t, err)

	flipped := newPlanarVolume(1.0, 16)
	// Flip the far apron layer (index ChunkSize-1) to the opposite sign.
	// The extractor never treats ChunkSize-1 as a cell's minimum corner
	// (cells span [0, cellsPerAxis)), so this must not change the mesh.
	for x := 0; x < ChunkSize; x++ {
		for y := 0; y < ChunkSize; y++ {
			flipped.SetVoxel(x, y, ChunkSize-1, -120, Material(1))
		}
	}
	flippedMesh, err := ExtractChunk(flipped, false, CornerSum)
	require.NoError(t, err)

	assert.Equal(t, baseMesh.VertexCount(), flippedMesh.VertexCount())
	assert.Equal(t, baseMesh.TriangleCount(), flippedMesh.TriangleCount())
}

func TestExtractChunkTwoMaterialInterfaceBlendsOnlyNearBoundary(t *testing.T) {
	v := NewVolume(1.0, -120)
	// Two solid material halves split at x=16, under an empty slab at
	// z >= 24, so the z=23.5 surface crosses the x=16 material seam.
	for x := 0; x < ChunkSize; x++ {
		for y := 0; y < ChunkSize; y++ {
			for z := 0; z < ChunkSize; z++ {
				mat := Material(1)
				if x >= 16 {
					mat = Material(2)
				}
				sdf := int8(-120)
				if z >= 24 {
					sdf = 120
					mat = Air
				}
				v.SetVoxel(x, y, z, sdf, mat)
			}
		}
	}
	mesh, err := ExtractChunk(v, false, CornerSum)
	require.NoError(t, err)
	require.Greater(t, mesh.VertexCount(), 0)

	sawBlend := false
	for i, w := range mesh.MaterialWeights {
		blended := w[0] > 0.01 && w[1] > 0.01
		if blended {
			sawBlend = true
		}
		// Only cell x=15 (vertex x=15.5) has corners on both sides of the seam.
		if x := mesh.Positions[i][0]; x < 15 || x > 16 {
			assert.Falsef(t, blended, "vertex at x=%v is away from the seam and should not blend", x)
		}
	}
	assert.True(t, sawBlend, "vertices straddling the material seam should blend both channels")
}

func TestExtractChunkRecomputeNormalsLaterSkipsGradient(t *testing.T) {
	v := newPlanarVolume(1.0, 16)
	mesh, err := ExtractChunk(v, true, CornerSum)
	require.NoError(t, err)
	require.Greater(t, mesh.VertexCount(), 0)
	for _, n := range mesh.Normals {
		assert.Equal(t, float32(0), n[0])
		assert.Equal(t, float32(0), n[1])
		assert.Equal(t, float32(0), n[2])
	}
}

func TestExtractChunkSphereIsClosedManifoldTriangleCount(t *testing.T) {
	v := NewVolume(1.0, 120)
	const cx, cy, cz, r = 16.0, 16.0, 16.0, 8.0
	for x := 0; x < ChunkSize; x++ {
		for y := 0; y < ChunkSize; y++ {
			for z := 0; z < ChunkSize; z++ {
				dx, dy, dz := float64(x)-cx, float64(y)-cy, float64(z)-cz
				dist := dx*dx + dy*dy + dz*dz
				d := dist - r*r
				sdf := int8(clampF(d*2, -127, 127))
				mat := Material(1)
				if sdf >= 0 {
					mat = Air
				}
				v.SetVoxel(x, y, z, sdf, mat)
			}
		}
	}
	mesh, err := ExtractChunk(v, false, CornerSum)
	require.NoError(t, err)
	assert.Greater(t, mesh.VertexCount(), 0)
	assert.Greater(t, mesh.TriangleCount(), 0)
	assert.Zero(t, len(mesh.Indices)%3)

	// Every edge of a closed manifold triangle mesh is shared by exactly
	// two triangles.
	edgeUse := make(map[[2]uint32]int)
	for k := 0; k+3 <= len(mesh.Indices); k += 3 {
		tri := mesh.Indices[k : k+3]
		for e := 0; e < 3; e++ {
			a, b := tri[e], tri[(e+1)%3]
			if a > b {
				a, b = b, a
			}
			edgeUse[[2]uint32{a, b}]++
		}
	}
	for edge, n := range edgeUse {
		assert.Equalf(t, 2, n, "edge %v is used by %d triangles", edge, n)
	}
}

func clampF(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
