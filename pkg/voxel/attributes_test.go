package voxel

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestEncodeMaterialWeightsAllAirIsZero(t *testing.T) {
	var corners [8]Material
	w := EncodeMaterialWeights(corners, mgl32.Vec3{0.5, 0.5, 0.5}, CornerSum)
	assert.Equal(t, mgl32.Vec4{}, w)
}

func TestEncodeMaterialWeightsCornerSumUniform(t *testing.T) {
	var corners [8]Material
	for i := range corners {
		corners[i] = Material(1)
	}
	w := EncodeMaterialWeights(corners, mgl32.Vec3{0.5, 0.5, 0.5}, CornerSum)
	assert.InDelta(t, 1.0, w[0], 1e-6)
	assert.InDelta(t, 0.0, w[1], 1e-6)
}

func TestEncodeMaterialWeightsCornerSumMixed(t *testing.T) {
	var corners [8]Material
	for i := 0; i < 4; i++ {
		corners[i] = Material(1)
	}
	for i := 4; i < 8; i++ {
		corners[i] = Material(2)
	}
	w := EncodeMaterialWeights(corners, mgl32.Vec3{0.5, 0.5, 0.5}, CornerSum)
	assert.InDelta(t, 0.5, w[0], 1e-6)
	assert.InDelta(t, 0.5, w[1], 1e-6)
}

func TestEncodeMaterialWeightsInverseDistanceFavorsNearCorner(t *testing.T) {
	var corners [8]Material
	corners[0] = Material(1) // at (0,0,0)
	corners[7] = Material(2) // at (1,1,1)
	near0 := EncodeMaterialWeights(corners, mgl32.Vec3{0.1, 0.1, 0.1}, InverseDistance)
	near7 := EncodeMaterialWeights(corners, mgl32.Vec3{0.9, 0.9, 0.9}, InverseDistance)
	assert.Greater(t, near0[0], near0[1])
	assert.Greater(t, near7[1], near7[0])
}

func TestDominantChannel(t *testing.T) {
	assert.Equal(t, 2, DominantChannel(mgl32.Vec4{0.1, 0.2, 0.5, 0.2}))
	assert.Equal(t, 0, DominantChannel(mgl32.Vec4{}))
}

func TestEncodeWeightsRGBA8Clamps(t *testing.T) {
	out := EncodeWeightsRGBA8(mgl32.Vec4{0, 0.5, 1, 2})
	assert.EqualValues(t, 0, out[0])
	assert.InDelta(t, 128, int(out[1]), 1)
	assert.EqualValues(t, 255, out[2])
	assert.EqualValues(t, 255, out[3])
}

func TestMaterialChannelWraps(t *testing.T) {
	assert.Equal(t, 0, Material(1).channel())
	assert.Equal(t, 3, Material(4).channel())
	assert.Equal(t, 0, Material(5).channel())
}
