package coord

import "github.com/go-gl/mathgl/mgl32"

// Workspace size constraints in meters, per axis.
const (
	MinWorkspaceSize     float32 = 2.0
	MaxWorkspaceSize     float32 = 8.0
	DefaultWorkspaceSize float32 = 5.0
)

func DefaultWorkspace() mgl32.Vec3 {
	return mgl32.Vec3{DefaultWorkspaceSize, DefaultWorkspaceSize, DefaultWorkspaceSize}
}

func IsValidWorkspaceSize(size mgl32.Vec3) bool {
	for i := 0; i < 3; i++ {
		if size[i] < MinWorkspaceSize || size[i] > MaxWorkspaceSize {
			return false
		}
	}
	return true
}

func ClampWorkspaceSize(size mgl32.Vec3) mgl32.Vec3 {
	out := size
	for i := 0; i < 3; i++ {
		if out[i] < MinWorkspaceSize {
			out[i] = MinWorkspaceSize
		}
		if out[i] > MaxWorkspaceSize {
			out[i] = MaxWorkspaceSize
		}
	}
	return out
}

// WorkspaceBounds returns the world-space box of a workspace of the given
// size. The box is centered on the origin in X and Z and sits on the ground
// plane: min = (-sx/2, 0, -sz/2), max = (+sx/2, sy, +sz/2).
func WorkspaceBounds(size mgl32.Vec3) (mgl32.Vec3, mgl32.Vec3) {
	min := mgl32.Vec3{-size.X() / 2, 0, -size.Z() / 2}
	max := mgl32.Vec3{size.X() / 2, size.Y(), size.Z() / 2}
	return min, max
}

// ContainsIncrement reports whether the increment position corresponds to a
// world point inside the workspace with a non-negative height.
func ContainsIncrement(size mgl32.Vec3, p IncrementCoordinates) bool {
	if p.Y < 0 {
		return false
	}
	w := p.ToWorld()
	min, max := WorkspaceBounds(size)
	for i := 0; i < 3; i++ {
		if w[i] < min[i] || w[i] > max[i] {
			return false
		}
	}
	return true
}
