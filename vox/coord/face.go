package coord

import "github.com/go-gl/mathgl/mgl32"

// FaceDirection names one of the six axis-aligned faces of a voxel.
type FaceDirection uint8

const (
	FacePosX FaceDirection = iota
	FaceNegX
	FacePosY
	FaceNegY
	FacePosZ
	FaceNegZ
)

var faceNames = [6]string{"+X", "-X", "+Y", "-Y", "+Z", "-Z"}

func (f FaceDirection) Valid() bool { return f < 6 }

func (f FaceDirection) Name() string {
	if !f.Valid() {
		return "invalid"
	}
	return faceNames[f]
}

// Axis returns the index of the axis the face is perpendicular to.
func (f FaceDirection) Axis() int {
	return int(f) / 2
}

// Sign returns +1 for outward-positive faces and -1 for outward-negative.
func (f FaceDirection) Sign() int {
	if f%2 == 0 {
		return 1
	}
	return -1
}

// Normal returns the outward face normal.
func (f FaceDirection) Normal() mgl32.Vec3 {
	var n mgl32.Vec3
	n[f.Axis()] = float32(f.Sign())
	return n
}
