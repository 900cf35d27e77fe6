// Package place decides whether a candidate voxel may be placed. Validation
// is pure: it inspects the candidate, the workspace, and an overlap oracle,
// and never mutates anything.
package place

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/voxelforge/voxelforge/vox/coord"
)

// Outcome is the result of validating one candidate. The first failing
// check in alignment, ground, bounds, overlap order determines the outcome.
type Outcome uint8

const (
	Valid Outcome = iota
	InvalidInput
	MisalignedResolution
	BelowGround
	OutOfBounds
	Overlap
)

var outcomeNames = [...]string{
	"valid",
	"invalid input",
	"misaligned for resolution",
	"below ground plane",
	"out of workspace bounds",
	"overlaps existing voxel",
}

func (o Outcome) String() string {
	if int(o) >= len(outcomeNames) {
		return "unknown"
	}
	return outcomeNames[o]
}

// Mode selects the alignment rule.
//
// In FreeIncrement mode (the default) every increment triple is aligned: the
// 1 cm lattice is the placement grid regardless of resolution. StrictGrid
// additionally requires positions to be multiples of the voxel edge.
type Mode uint8

const (
	FreeIncrement Mode = iota
	StrictGrid
)

// OverlapChecker answers whether a candidate would intersect stored voxels.
type OverlapChecker interface {
	WouldOverlap(p coord.IncrementCoordinates, r coord.Resolution) bool
}

// Validate checks a candidate voxel against the grid invariants. Checks run
// in order and stop at the first failure, so an out-of-bounds candidate is
// never tested for overlap.
func Validate(p coord.IncrementCoordinates, r coord.Resolution, workspace mgl32.Vec3, mode Mode, overlaps OverlapChecker) Outcome {
	if !r.Valid() {
		return InvalidInput
	}
	if mode == StrictGrid && !alignedToGrid(p, r) {
		return MisalignedResolution
	}
	if p.Y < 0 {
		return BelowGround
	}
	if !boxInWorkspace(p, r, workspace) {
		return OutOfBounds
	}
	if overlaps != nil && overlaps.WouldOverlap(p, r) {
		return Overlap
	}
	return Valid
}

// alignedToGrid requires X and Z at multiples of the edge length, and Y
// either on the ground or at a multiple of the edge length.
func alignedToGrid(p coord.IncrementCoordinates, r coord.Resolution) bool {
	edge := r.EdgeCm()
	if p.X%edge != 0 || p.Z%edge != 0 {
		return false
	}
	return p.Y == 0 || p.Y%edge == 0
}

const boundsEpsilon = 1e-4

func boxInWorkspace(p coord.IncrementCoordinates, r coord.Resolution, workspace mgl32.Vec3) bool {
	vmin, vmax := coord.VoxelBounds(p, r)
	wmin, wmax := coord.WorkspaceBounds(workspace)
	for i := 0; i < 3; i++ {
		if vmin[i] < wmin[i]-boundsEpsilon || vmax[i] > wmax[i]+boundsEpsilon {
			return false
		}
	}
	return true
}
