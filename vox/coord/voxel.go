package coord

import "github.com/go-gl/mathgl/mgl32"

// Voxel is a placed or candidate voxel: an increment position plus a
// resolution. The position is the bottom-center of the cube, so a voxel
// occupies [x-s/2, x+s/2] x [y, y+s] x [z-s/2, z+s/2] where s is the edge
// length. All bounds and overlap math in the system derives from this
// convention.
type Voxel struct {
	Pos IncrementCoordinates
	Res Resolution
}

// VoxelBounds returns the world-space box occupied by a voxel at p.
func VoxelBounds(p IncrementCoordinates, r Resolution) (mgl32.Vec3, mgl32.Vec3) {
	s := r.EdgeMeters()
	half := s / 2
	c := p.ToWorld()
	min := mgl32.Vec3{c.X() - half, c.Y(), c.Z() - half}
	max := mgl32.Vec3{c.X() + half, c.Y() + s, c.Z() + half}
	return min, max
}

func (v Voxel) WorldBounds() (mgl32.Vec3, mgl32.Vec3) {
	return VoxelBounds(v.Pos, v.Res)
}

// TopHeight returns the world Y of the voxel's top face.
func (v Voxel) TopHeight() float32 {
	return v.Pos.ToWorld().Y() + v.Res.EdgeMeters()
}
