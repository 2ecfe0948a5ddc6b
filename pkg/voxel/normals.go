package voxel

import "github.com/go-gl/mathgl/mgl32"

// gradientScale tunes the central-difference gradient, summed over four
// axis-aligned corner pairs of signed 8-bit sdf samples. A single pair's
// difference can reach 255 in magnitude, but a typical sign change
// contributes about 127 per pair, so four pairs give about 4*127; dividing
// by that puts a typical gradient near unit range before normalization.
const gradientScale = 1.0 / (4.0 * 127.0)

// xPairs, yPairs, zPairs list the corner index pairs (low, high) that
// differ only along x, y, z respectively, using the corner numbering in
// cornerOffsets.
var (
	xPairs = [4][2]int{{0, 1}, {2, 3}, {4, 5}, {6, 7}}
	yPairs = [4][2]int{{0, 2}, {1, 3}, {4, 6}, {5, 7}}
	zPairs = [4][2]int{{0, 4}, {1, 5}, {2, 6}, {3, 7}}
)

// GradientNormal estimates the outward surface normal at a cell from its 8
// corner sdf samples via central differences along each axis (spec.md
// §4.3.2). Sdf increases from solid (negative) to empty (positive), so the
// raw gradient already points outward; no sign flip is needed.
func GradientNormal(corners [8]int8, voxelSize float32) mgl32.Vec3 {
	var g mgl32.Vec3
	for _, p := range xPairs {
		g[0] += float32(corners[p[1]]) - float32(corners[p[0]])
	}
	for _, p := range yPairs {
		g[1] += float32(corners[p[1]]) - float32(corners[p[0]])
	}
	for _, p := range zPairs {
		g[2] += float32(corners[p[1]]) - float32(corners[p[0]])
	}

	scale := float32(gradientScale)
	if voxelSize != 0 {
		scale /= voxelSize
	}
	g = g.Mul(scale)

	if l := g.Len(); l > 1e-12 {
		return g.Mul(1.0 / l)
	}
	return g
}

// normalAccumLengthThreshold is the minimum accumulated length below which
// RecomputeTriangleNormals leaves a vertex's normal untouched (spec.md §4.6,
// §8 invariant 6).
const normalAccumLengthThreshold = 1e-4

// RecomputeTriangleNormals replaces each vertex normal with the
// weight-accumulated average of its participating triangle face normals,
// processing indices in groups of six (the two triangles Surface Nets
// emits per stitched quad, spec.md §4.3.3). Call this after extraction
// and, if fairing is enabled, after fairing -- whichever buffer state
// should drive the final normals.
func RecomputeTriangleNormals(m *MeshBuffers) {
	accum := make([]mgl32.Vec3, len(m.Normals))

	for k := 0; k+6 <= len(m.Indices); k += 6 {
		tri1 := [3]uint32{m.Indices[k], m.Indices[k+1], m.Indices[k+2]}
		tri2 := [3]uint32{m.Indices[k+3], m.Indices[k+4], m.Indices[k+5]}

		n1 := faceNormal(m.Positions, tri1)
		n2 := faceNormal(m.Positions, tri2)

		shared := make(map[uint32]bool, 2)
		for _, a := range tri1 {
			for _, b := range tri2 {
				if a == b {
					shared[a] = true
				}
			}
		}

		for _, v := range tri1 {
			if shared[v] {
				accum[v] = accum[v].Add(n1).Add(n2)
			} else {
				accum[v] = accum[v].Add(n1)
			}
		}
		for _, v := range tri2 {
			if shared[v] {
				continue // already accumulated both contributions above
			}
			accum[v] = accum[v].Add(n2)
		}
	}

	for i := range m.Normals {
		if l := accum[i].Len(); l >= normalAccumLengthThreshold {
			m.Normals[i] = accum[i].Mul(1.0 / l)
		}
		// else: leave m.Normals[i] as whatever the extractor wrote.
	}
}

// faceNormal computes the cross-product face normal of a triangle, via the
// two edges sharing tri[0]. A degenerate (NaN-producing) triangle yields
// the zero vector rather than propagating NaN (spec.md §4.6, §7
// "Degenerate geometry").
func faceNormal(positions []mgl32.Vec3, tri [3]uint32) mgl32.Vec3 {
	p0, p1, p2 := positions[tri[0]], positions[tri[1]], positions[tri[2]]
	e1 := p1.Sub(p0)
	e2 := p2.Sub(p0)
	n := e1.Cross(e2)
	if isNaNVec3(n) {
		return mgl32.Vec3{}
	}
	return n
}

func isNaNVec3(v mgl32.Vec3) bool {
	for _, c := range v {
		if c != c { // NaN != NaN
			return true
		}
	}
	return false
}
