package voxel

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// MaterialMode selects how the attribute encoder turns a cell's 8 corner
// material labels into a per-vertex weight vector (spec.md §4.4).
type MaterialMode int

const (
	// CornerSum counts corner occurrences per label channel, ignoring Air,
	// and normalizes by the number of non-air corners. This is the
	// recommended default.
	CornerSum MaterialMode = iota
	// InverseDistance weights each corner by 1/(d+epsilon), d being the
	// Euclidean distance from the corner to the vertex's fractional offset
	// within the cell.
	InverseDistance
)

// inverseDistanceEpsilon avoids division by zero when the vertex offset
// coincides exactly with a corner.
const inverseDistanceEpsilon = 0.001

// EncodeMaterialWeights computes the RGBA-ready weight vector for a cell
// whose 8 corners carry the given material labels, given the vertex's
// fractional offset within the unit cell (used only by InverseDistance).
// A cell with no non-air corners (shouldn't occur for a well-formed
// sign-change cell, spec.md §4.4) yields the zero vector.
func EncodeMaterialWeights(corners [8]Material, offset mgl32.Vec3, mode MaterialMode) mgl32.Vec4 {
	var weights [maxLabels]float64

	switch mode {
	case InverseDistance:
		var total float64
		for i, m := range corners {
			if m == Air {
				continue
			}
			co := cornerOffsets[i]
			dx := offset[0] - float32(co[0])
			dy := offset[1] - float32(co[1])
			dz := offset[2] - float32(co[2])
			d := math.Sqrt(float64(dx*dx + dy*dy + dz*dz))
			w := 1.0 / (d + inverseDistanceEpsilon)
			weights[m.channel()] += w
			total += w
		}
		if total == 0 {
			return mgl32.Vec4{}
		}
		for i := range weights {
			weights[i] /= total
		}

	default: // CornerSum
		nonAir := 0
		for _, m := range corners {
			if m == Air {
				continue
			}
			weights[m.channel()]++
			nonAir++
		}
		if nonAir == 0 {
			return mgl32.Vec4{}
		}
		for i := range weights {
			weights[i] /= float64(nonAir)
		}
	}

	return mgl32.Vec4{
		float32(weights[0]), float32(weights[1]), float32(weights[2]), float32(weights[3]),
	}
}

// DominantChannel returns the argmax channel of a weight vector -- the
// "dominant material" fairing.go needs to attenuate smoothing across
// material boundaries (spec.md §4.5).
func DominantChannel(w mgl32.Vec4) int {
	best := 0
	for i := 1; i < 4; i++ {
		if w[i] > w[best] {
			best = i
		}
	}
	return best
}
