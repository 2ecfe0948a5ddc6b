// Package fairing implements constrained Laplacian surface smoothing over
// extractor output (spec.md §4.5 "Surface fairing"). It runs after
// ExtractChunk and before (or instead of) RecomputeTriangleNormals, ping-
// ponging vertex positions across K iterations while attenuating movement
// across material boundaries and sharp features so smoothing doesn't blur
// deliberate edges.
package fairing

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/leterax/voxelcore/pkg/voxel"
)

// Options configures one fairing pass.
type Options struct {
	// Iterations is the number of Laplacian relaxation passes. Zero is a
	// valid no-op (fairing must be idempotent at Iterations=0).
	Iterations int
	// Lambda is the relaxation step size, typically in (0, 1].
	Lambda float32

	// PreserveMaterialBoundaries attenuates movement for vertices whose
	// dominant material channel differs from a neighbor's.
	PreserveMaterialBoundaries bool
	// MaterialBoundaryAttenuation scales Lambda at a material boundary.
	MaterialBoundaryAttenuation float32

	// PreserveSharpFeatures attenuates movement for vertices whose normal
	// diverges sharply (cosine below SharpFeatureCosThreshold) from a
	// neighbor's.
	PreserveSharpFeatures bool
	// SharpFeatureCosThreshold is the cosine-similarity cutoff below which
	// a vertex pair counts as a sharp feature (spec.md §4.5 default 0.7).
	SharpFeatureCosThreshold float32
	// SharpFeatureAttenuation scales Lambda at a sharp feature.
	SharpFeatureAttenuation float32

	// CellMargin bounds how far a vertex may drift from its originating
	// cell, as a fraction of voxel_size: the feasible box for a vertex
	// owned by cell c is [c*voxel_size + m, (c+1)*voxel_size - m] where
	// m = CellMargin*voxel_size (spec.md §4.5 Phase 2). Zero clamps to the
	// bare cell box, with no inset.
	CellMargin float32
}

// DefaultOptions returns the recommended fairing configuration.
func DefaultOptions() Options {
	return Options{
		Iterations:                  4,
		Lambda:                      0.5,
		PreserveMaterialBoundaries:  true,
		MaterialBoundaryAttenuation: 0.1,
		PreserveSharpFeatures:       true,
		SharpFeatureCosThreshold:    0.7,
		SharpFeatureAttenuation:     0.1,
		CellMargin:                  0.1,
	}
}

// cellCoord is a vertex's owning cell, recovered from its world-space
// position (spec.md §4.5 Phase 1: cell_coords[i] = floor(positions[i] /
// voxel_size)). ExtractChunk always writes an in-cell fractional offset in
// [0, 1), so floor-recovery is exact.
type cellCoord [3]int32

// adjacency is a CSR (compressed sparse row) face-neighbor graph: each
// vertex's neighbors are the vertices (if any) owning the 6 axis-adjacent
// cells, not every triangle-edge neighbor. This matters because a stitched
// quad's two triangles share a diagonal edge (extractor.go's stitchQuads
// always reuses v0/v2 across both triangles); including that edge would let
// smoothing blur across cell diagonals, which spec.md §4.5's Rationale
// explicitly rejects.
type adjacency struct {
	ranges    []int32 // len(ranges) == vertexCount+1
	neighbors []int32
	cellOf    []cellCoord
}

// buildAdjacency derives each vertex's owning cell from its position, fills
// a dense cell->vertex lookup, then probes the 6 face-neighbor cells per
// vertex (spec.md §4.5 Phase 1).
func buildAdjacency(m *voxel.MeshBuffers, voxelSize float32) adjacency {
	n := m.VertexCount()
	cellOf := make([]cellCoord, n)
	for i, p := range m.Positions {
		cellOf[i] = cellCoord{
			clampCell(int32(math.Floor(float64(p[0] / voxelSize)))),
			clampCell(int32(math.Floor(float64(p[1] / voxelSize)))),
			clampCell(int32(math.Floor(float64(p[2] / voxelSize)))),
		}
	}

	const dim = voxel.ChunkSize
	cellToVertex := make([]int32, dim*dim*dim)
	for i := range cellToVertex {
		cellToVertex[i] = -1
	}
	linear := func(c cellCoord) int32 {
		return (c[0]*dim+c[1])*dim + c[2]
	}
	for i, c := range cellOf {
		idx := linear(c)
		if cellToVertex[idx] == -1 {
			cellToVertex[idx] = int32(i)
		}
	}

	offsets := [6]cellCoord{
		{1, 0, 0}, {-1, 0, 0},
		{0, 1, 0}, {0, -1, 0},
		{0, 0, 1}, {0, 0, -1},
	}

	ranges := make([]int32, n+1)
	var neighbors []int32
	for v := 0; v < n; v++ {
		ranges[v] = int32(len(neighbors))
		c := cellOf[v]
		for _, off := range offsets {
			nc := cellCoord{c[0] + off[0], c[1] + off[1], c[2] + off[2]}
			if nc[0] < 0 || nc[0] >= dim || nc[1] < 0 || nc[1] >= dim || nc[2] < 0 || nc[2] >= dim {
				continue
			}
			if nb := cellToVertex[linear(nc)]; nb != -1 {
				neighbors = append(neighbors, nb)
			}
		}
	}
	ranges[n] = int32(len(neighbors))

	return adjacency{ranges: ranges, neighbors: neighbors, cellOf: cellOf}
}

func clampCell(c int32) int32 {
	if c < 0 {
		return 0
	}
	if c > voxel.ChunkSize-1 {
		return voxel.ChunkSize - 1
	}
	return c
}

func (a adjacency) neighborsOf(v int) []int32 {
	return a.neighbors[a.ranges[v]:a.ranges[v+1]]
}

// Apply runs opts.Iterations passes of constrained Laplacian smoothing over
// m's vertex positions in place, given the voxel_size the mesh was
// extracted at (spec.md §6 apply_fairing(mesh_buffers, voxel_size,
// iterations, step_size, cell_margin, feature_flags)). opts.Iterations == 0
// leaves m untouched.
func Apply(m *voxel.MeshBuffers, voxelSize float32, opts Options) {
	if opts.Iterations <= 0 || m.VertexCount() == 0 {
		return
	}

	graph := buildAdjacency(m, voxelSize)
	margin := opts.CellMargin * voxelSize

	cur := append([]mgl32.Vec3(nil), m.Positions...)
	next := make([]mgl32.Vec3, len(cur))

	for iter := 0; iter < opts.Iterations; iter++ {
		for v := range cur {
			neighbors := graph.neighborsOf(v)
			if len(neighbors) == 0 {
				next[v] = cur[v]
				continue
			}

			var avg mgl32.Vec3
			for _, nb := range neighbors {
				avg = avg.Add(cur[nb])
			}
			avg = avg.Mul(1.0 / float32(len(neighbors)))

			weight := opts.Lambda
			if opts.PreserveMaterialBoundaries && crossesMaterialBoundary(m, graph, v) {
				weight *= opts.MaterialBoundaryAttenuation
			}
			if opts.PreserveSharpFeatures && hasSharpFeature(m, graph, v, opts.SharpFeatureCosThreshold) {
				weight *= opts.SharpFeatureAttenuation
			}

			moved := cur[v].Add(avg.Sub(cur[v]).Mul(weight))
			next[v] = clampToCell(moved, graph.cellOf[v], voxelSize, margin)
		}
		cur, next = next, cur
	}

	copy(m.Positions, cur)
}

func crossesMaterialBoundary(m *voxel.MeshBuffers, graph adjacency, v int) bool {
	dom := voxel.DominantChannel(m.MaterialWeights[v])
	for _, nb := range graph.neighborsOf(v) {
		if voxel.DominantChannel(m.MaterialWeights[nb]) != dom {
			return true
		}
	}
	return false
}

func hasSharpFeature(m *voxel.MeshBuffers, graph adjacency, v int, cosThreshold float32) bool {
	n := m.Normals[v]
	if n.Len() < 1e-8 {
		return false
	}
	for _, nb := range graph.neighborsOf(v) {
		nn := m.Normals[nb]
		if nn.Len() < 1e-8 {
			continue
		}
		if n.Dot(nn) < cosThreshold {
			return true
		}
	}
	return false
}

// clampToCell clamps p into the feasible box of the cell c owns:
// [c*voxel_size + margin, (c+1)*voxel_size - margin] per axis (spec.md
// §4.5 Phase 2), not a box centered on p's pre-fairing position -- a vertex
// must stay within the cell that emitted it, regardless of how far
// Laplacian averaging would otherwise pull it.
func clampToCell(p mgl32.Vec3, c cellCoord, voxelSize, margin float32) mgl32.Vec3 {
	var out mgl32.Vec3
	for i := 0; i < 3; i++ {
		lo := float32(c[i])*voxelSize + margin
		hi := float32(c[i]+1)*voxelSize - margin
		v := p[i]
		if v < lo {
			v = lo
		}
		if v > hi {
			v = hi
		}
		out[i] = v
	}
	return out
}
