// Package voxel implements the core voxel-to-mesh extraction engine: the
// chunk volume store, the Naive Surface Nets extractor, the per-vertex
// material encoder, and the normal pipeline. It has no knowledge of
// rendering, networking, or scene management -- those are the embedding
// host's job (spec.md §1).
package voxel

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// ChunkSize is the fixed edge length of a chunk volume in samples: 30
// interior cells plus a 1-voxel apron on each side. The extractor and the
// fairing aux buffers both hang off this constant; it is a documented
// non-negotiable assumption, not a tunable (spec.md §6 "Configuration").
const ChunkSize = 32

// SampleCount is the total number of samples in a chunk volume (32^3).
const SampleCount = ChunkSize * ChunkSize * ChunkSize

// Axis identifies one of the three chunk axes, used by ApronSlabIter and
// CopySharedOverlap to select a face.
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

// Sign identifies the low (0) or high (ChunkSize-1) face along an axis.
type Sign int

const (
	SignLow Sign = iota
	SignHigh
)

// Volume owns the paired (sdf, material) dense arrays for one chunk. The
// outermost layer on each axis (index 0 and ChunkSize-1) is the apron: a
// read-only copy of the neighbor chunk's boundary samples, synchronized by
// CopySharedOverlap before meshing. The interior [1..ChunkSize-2]^3 is
// authoritative and writer-owned.
type Volume struct {
	// SDF holds signed distance samples in -128..127; negative is solid,
	// positive is empty, zero is exactly on the surface.
	SDF []int8
	// Materials holds one label per sample, Air (0) reserved for empty.
	Materials []uint8
	// VoxelSize is the world-space distance between adjacent samples.
	VoxelSize float32
}

// NewVolume allocates a chunk volume filled with the given default sdf
// value (typically +127, fully exterior) and Air materials. voxelSize must
// be positive; the zero value is accepted but meaningless for meshing.
func NewVolume(voxelSize float32, defaultSDF int8) *Volume {
	v := &Volume{
		SDF:       make([]int8, SampleCount),
		Materials: make([]uint8, SampleCount),
		VoxelSize: voxelSize,
	}
	if defaultSDF != 0 {
		for i := range v.SDF {
			v.SDF[i] = defaultSDF
		}
	}
	return v
}

// Index converts sample coordinates to a flat offset: x + 32*(y + 32*z),
// so x varies fastest, then y, then z (this is what gives adjacent x and
// x+1 rows a fixed 1-sample stride, adjacent y rows a 32-sample stride, and
// consecutive z samples of one row a 1024-sample stride).
func Index(x, y, z int) int {
	return x + ChunkSize*(y+ChunkSize*z)
}

// InBounds reports whether x, y, z all lie within [0, ChunkSize).
func InBounds(x, y, z int) bool {
	return x >= 0 && x < ChunkSize && y >= 0 && y < ChunkSize && z >= 0 && z < ChunkSize
}

// SampleSDF returns the sdf value at (x, y, z), or +127 (fully exterior)
// when the coordinates fall outside the chunk -- callers that iterate
// strictly inside [0, ChunkSize) never hit this path.
func (v *Volume) SampleSDF(x, y, z int) int8 {
	if !InBounds(x, y, z) {
		return 127
	}
	return v.SDF[Index(x, y, z)]
}

// SampleMaterial returns the material label at (x, y, z), or Air when out
// of bounds.
func (v *Volume) SampleMaterial(x, y, z int) Material {
	if !InBounds(x, y, z) {
		return Air
	}
	return Material(v.Materials[Index(x, y, z)])
}

// SetVoxel writes both the sdf and material sample at (x, y, z),
// maintaining the Air/sign invariant (spec.md §3.1): a non-negative sdf
// forces the material to Air, matching the teacher's writer-side
// convention of never leaving a zero-material solid voxel.
func (v *Volume) SetVoxel(x, y, z int, sdf int8, material Material) {
	idx := Index(x, y, z)
	v.SDF[idx] = sdf
	if sdf >= 0 {
		material = Air
	}
	v.Materials[idx] = uint8(material)
}

// ErrChunkSizeMismatch is returned by ExtractChunk when a volume's arrays
// are not exactly SampleCount long -- the one fatal configuration error
// spec.md §7 names.
type ErrChunkSizeMismatch struct {
	GotSDF, GotMaterials int
}

func (e *ErrChunkSizeMismatch) Error() string {
	return fmt.Sprintf("voxel: chunk-size mismatch: want %d samples, got sdf=%d materials=%d",
		SampleCount, e.GotSDF, e.GotMaterials)
}

// validate checks the chunk-size precondition shared by the extractor and
// the overlap copier.
func (v *Volume) validate() error {
	if len(v.SDF) != SampleCount || len(v.Materials) != SampleCount {
		return &ErrChunkSizeMismatch{GotSDF: len(v.SDF), GotMaterials: len(v.Materials)}
	}
	return nil
}

// ApronSlabIter calls fn once for every sample on the chosen face of the
// chunk (a 32x32 slab), yielding local (x, y, z) triples. Used by grid
// adjacency code to copy the shared overlap between neighboring chunks
// before meshing (spec.md §4.1).
func ApronSlabIter(axis Axis, sign Sign, fn func(x, y, z int)) {
	fixed := 0
	if sign == SignHigh {
		fixed = ChunkSize - 1
	}
	switch axis {
	case AxisX:
		for y := 0; y < ChunkSize; y++ {
			for z := 0; z < ChunkSize; z++ {
				fn(fixed, y, z)
			}
		}
	case AxisY:
		for x := 0; x < ChunkSize; x++ {
			for z := 0; z < ChunkSize; z++ {
				fn(x, fixed, z)
			}
		}
	case AxisZ:
		for x := 0; x < ChunkSize; x++ {
			for y := 0; y < ChunkSize; y++ {
				fn(x, y, fixed)
			}
		}
	}
}

// CopySharedOverlap copies the boundary slab of src facing srcFace into the
// opposite apron slab of dst, maintaining the apron invariant described in
// spec.md §3.1 and required by spec.md §6 before either chunk is meshed.
// The caller supplies matching faces (e.g. srcFace=(AxisX,SignHigh) paired
// with dstFace=(AxisX,SignLow) for chunks adjacent along +X); this function
// only performs the copy, the grid system owns the adjacency topology.
func CopySharedOverlap(src *Volume, srcAxis Axis, srcSign Sign, dst *Volume, dstAxis Axis, dstSign Sign) error {
	if err := src.validate(); err != nil {
		return err
	}
	if err := dst.validate(); err != nil {
		return err
	}

	type coord struct{ x, y, z int }
	var srcCoords, dstCoords []coord
	ApronSlabIter(srcAxis, srcSign, func(x, y, z int) { srcCoords = append(srcCoords, coord{x, y, z}) })
	ApronSlabIter(dstAxis, dstSign, func(x, y, z int) { dstCoords = append(dstCoords, coord{x, y, z}) })
	if len(srcCoords) != len(dstCoords) {
		return fmt.Errorf("voxel: mismatched overlap slab sizes: src=%d dst=%d", len(srcCoords), len(dstCoords))
	}
	for i, sc := range srcCoords {
		dc := dstCoords[i]
		si := Index(sc.x, sc.y, sc.z)
		di := Index(dc.x, dc.y, dc.z)
		dst.SDF[di] = src.SDF[si]
		dst.Materials[di] = src.Materials[si]
	}
	return nil
}

// AABB is an axis-aligned bounding box. Empty returns the canonical empty
// box (+Inf, -Inf) spec.md §3.1 requires for a zero-vertex mesh.
type AABB struct {
	Min, Max mgl32.Vec3
}

// EmptyAABB returns the canonical empty bounding box.
func EmptyAABB() AABB {
	inf := float32(math.Inf(1))
	return AABB{
		Min: mgl32.Vec3{inf, inf, inf},
		Max: mgl32.Vec3{-inf, -inf, -inf},
	}
}

// Extend grows the box to include p.
func (b *AABB) Extend(p mgl32.Vec3) {
	for i := 0; i < 3; i++ {
		if p[i] < b.Min[i] {
			b.Min[i] = p[i]
		}
		if p[i] > b.Max[i] {
			b.Max[i] = p[i]
		}
	}
}
