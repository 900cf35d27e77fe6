package coord

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Three coordinate spaces, kept as distinct types so they can never be mixed
// without an explicit conversion:
//
//   - WorldCoordinates: metric, right-handed, Y-up, meters. Origin is the
//     workspace center on X/Z and the ground plane on Y.
//   - IncrementCoordinates: the canonical 1 cm integer lattice in the same
//     frame as world space. Every voxel position at every resolution is an
//     increment triple.
//   - grid(R) cells exist only inside the store for bucketing and never
//     appear in this package's API.

// WorldCoordinates is a metric world-space position.
type WorldCoordinates mgl32.Vec3

func World(x, y, z float32) WorldCoordinates {
	return WorldCoordinates{x, y, z}
}

func (w WorldCoordinates) Vec3() mgl32.Vec3 { return mgl32.Vec3(w) }
func (w WorldCoordinates) X() float32       { return w[0] }
func (w WorldCoordinates) Y() float32       { return w[1] }
func (w WorldCoordinates) Z() float32       { return w[2] }

// IsFinite reports whether all components are finite (no NaN or Inf).
func (w WorldCoordinates) IsFinite() bool {
	for i := 0; i < 3; i++ {
		f := float64(w[i])
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return false
		}
	}
	return true
}

// IncrementCoordinates is a position on the 1 cm lattice.
type IncrementCoordinates struct {
	X, Y, Z int32
}

func Increment(x, y, z int32) IncrementCoordinates {
	return IncrementCoordinates{X: x, Y: y, Z: z}
}

// ToWorld converts an increment position to meters. Exact for all
// representable inputs: i/100 round-trips through WorldToIncrement.
func (p IncrementCoordinates) ToWorld() WorldCoordinates {
	return World(float32(p.X)/100, float32(p.Y)/100, float32(p.Z)/100)
}

func (p IncrementCoordinates) Add(o IncrementCoordinates) IncrementCoordinates {
	return IncrementCoordinates{X: p.X + o.X, Y: p.Y + o.Y, Z: p.Z + o.Z}
}

// WorldToIncrement snaps a world position to the nearest centimeter,
// rounding half away from zero on each axis.
func WorldToIncrement(w WorldCoordinates) IncrementCoordinates {
	return IncrementCoordinates{
		X: roundCm(w[0]),
		Y: roundCm(w[1]),
		Z: roundCm(w[2]),
	}
}

func roundCm(v float32) int32 {
	cm := float64(v) * 100
	// Float32 inputs carry representation error (0.005 is stored slightly
	// below one half centimeter). Quantize before the half-away-from-zero
	// round so exact-half inputs land on the upper increment.
	cm = math.Round(cm*1e4) / 1e4
	return int32(math.Round(cm))
}
