package voxel

import "github.com/go-gl/mathgl/mgl32"

// MeshBuffers is the extractor's output: parallel per-vertex attribute
// slices plus a triangle index list and bounding box (spec.md §3.1 "Mesh
// buffers"). Positions, Normals, and MaterialWeights always have equal
// length; Indices' length is always a multiple of 3.
type MeshBuffers struct {
	Positions       []mgl32.Vec3
	Normals         []mgl32.Vec3
	MaterialWeights []mgl32.Vec4 // RGBA8 weights packed as 0..1 floats
	Indices         []uint32
	Bounds          AABB
}

// NewMeshBuffers returns an empty buffer set with the canonical empty
// bounds.
func NewMeshBuffers() *MeshBuffers {
	return &MeshBuffers{Bounds: EmptyAABB()}
}

// VertexCount returns the number of emitted vertices.
func (m *MeshBuffers) VertexCount() int { return len(m.Positions) }

// TriangleCount returns the number of emitted triangles.
func (m *MeshBuffers) TriangleCount() int { return len(m.Indices) / 3 }

// addVertex appends a vertex and returns its index.
func (m *MeshBuffers) addVertex(pos, normal mgl32.Vec3, weights mgl32.Vec4) uint32 {
	idx := uint32(len(m.Positions))
	m.Positions = append(m.Positions, pos)
	m.Normals = append(m.Normals, normal)
	m.MaterialWeights = append(m.MaterialWeights, weights)
	m.Bounds.Extend(pos)
	return idx
}

// EncodeWeightsRGBA8 packs a 0..1 weight vector into four 8-bit channels,
// the wire/upload representation spec.md §4.4 describes ("Pack as
// (w0*255, w1*255, w2*255, w3*255) into RGBA 8-bit channels").
func EncodeWeightsRGBA8(w mgl32.Vec4) [4]uint8 {
	var out [4]uint8
	for i := 0; i < 4; i++ {
		v := w[i]*255.0 + 0.5
		if v < 0 {
			v = 0
		}
		if v > 255 {
			v = 255
		}
		out[i] = uint8(v)
	}
	return out
}
