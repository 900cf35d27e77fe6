// Package snap turns a ray hit point into the single increment position a
// new voxel would occupy, together with its validation outcome, so a live
// preview can render the candidate without mutating anything.
package snap

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/voxelforge/voxelforge/vox/coord"
	"github.com/voxelforge/voxelforge/vox/place"
)

// FaceContext names the voxel face the pointer picked. It is supplied by
// the external ray source alongside the hit point.
type FaceContext struct {
	Ref  coord.Voxel
	Face coord.FaceDirection
}

// Snapper computes placement positions for one workspace configuration.
type Snapper struct {
	Workspace mgl32.Vec3
	Mode      place.Mode
	Overlaps  place.OverlapChecker
}

func New(workspace mgl32.Vec3, mode place.Mode, overlaps place.OverlapChecker) *Snapper {
	return &Snapper{Workspace: workspace, Mode: mode, Overlaps: overlaps}
}

// Snap maps a world hit point to the increment position a new voxel of the
// given resolution would occupy.
//
// Without a face context the hit snaps to the nearest centimeter on every
// axis; the resolution never coarsens placement, so the shift override
// changes nothing and is accepted only for symmetry. With a face context
// the hit is projected onto the picked face, clamped so the new voxel stays
// flush with it, and snapped to centimeters in-plane. On a side face whose
// reference edge plus the new edge is an odd number of centimeters, the
// flush center on the face-normal axis falls on a half centimeter; it is
// rounded half away from zero like any other world position.
func (s *Snapper) Snap(hit coord.WorldCoordinates, res coord.Resolution, shift bool, face *FaceContext) (coord.IncrementCoordinates, place.Outcome) {
	if !hit.IsFinite() {
		return coord.IncrementCoordinates{}, place.InvalidInput
	}
	if !res.Valid() {
		return coord.IncrementCoordinates{}, place.InvalidInput
	}

	var p coord.IncrementCoordinates
	if face == nil {
		p = coord.WorldToIncrement(hit)
	} else {
		p = s.snapToFace(hit, res, *face)
	}
	return p, place.Validate(p, res, s.Workspace, s.Mode, s.Overlaps)
}

// snapToFace positions the new voxel against one face of an existing voxel.
// The in-plane axes follow the hit point, clamped so the new voxel's
// footprint stays inside the face rectangle; the face-normal axis is fixed
// by the plane itself.
func (s *Snapper) snapToFace(hit coord.WorldCoordinates, res coord.Resolution, face FaceContext) coord.IncrementCoordinates {
	rmin, rmax := face.Ref.WorldBounds()
	size := res.EdgeMeters()
	half := size / 2
	axis := face.Face.Axis()

	var w mgl32.Vec3
	for i := 0; i < 3; i++ {
		if i == axis {
			continue
		}
		if i == 1 {
			// Vertical in-plane axis of a side face: the value is the new
			// voxel's bottom, kept inside the face's vertical extent.
			w[1] = clampAxis(hit.Y()-half, rmin[1], rmax[1]-size)
		} else {
			w[i] = clampAxis(hit.Vec3()[i], rmin[i]+half, rmax[i]-half)
		}
	}

	switch {
	case axis == 1 && face.Face.Sign() > 0:
		w[1] = rmax[1]
	case axis == 1:
		w[1] = rmin[1] - size
	case face.Face.Sign() > 0:
		w[axis] = rmax[axis] + half
	default:
		w[axis] = rmin[axis] - half
	}

	return coord.WorldToIncrement(coord.WorldCoordinates(w))
}

// clampAxis keeps v within [lo, hi]; when the new voxel is larger than the
// face the range inverts and the midpoint centers it instead.
func clampAxis(v, lo, hi float32) float32 {
	if lo > hi {
		return (lo + hi) / 2
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
