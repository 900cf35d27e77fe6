// Package plane tracks the placement plane: the horizontal surface new
// voxels rest on, either the ground or the top face of the highest voxel
// under the cursor. A persistence timer keeps a detected plane alive while
// the user drags the preview just off its supporting voxels.
package plane

import "github.com/voxelforge/voxelforge/vox/coord"

const (
	// PersistenceTimeout is how long a non-ground plane survives after the
	// preview stops overlapping anything on it.
	PersistenceTimeout float32 = 0.5

	// MaxSearchHeight bounds the vertical column searched for voxels under
	// the cursor, in meters.
	MaxSearchHeight float32 = 20.0

	// transitionThreshold is the minimum height gain, in meters, before the
	// detector recommends moving to a newly detected plane.
	transitionThreshold float32 = 0.01
)

// Plane is a horizontal placement surface.
type Plane struct {
	Height   float32
	Ref      coord.Voxel
	IsGround bool
}

// GroundPlane returns the Y=0 plane.
func GroundPlane() Plane {
	return Plane{Height: 0, IsGround: true}
}

// Result is the outcome of one detection pass.
type Result struct {
	Found bool
	Plane Plane
}

// VoxelSource is the store query surface the detector needs.
type VoxelSource interface {
	TopmostInColumn(wx, wz float32, ceiling float32) (coord.Voxel, bool)
	WouldOverlap(p coord.IncrementCoordinates, r coord.Resolution) bool
}

// Detector owns the current placement plane and its persistence timer. It
// is advanced explicitly from the caller's frame loop; it never reads a
// clock.
type Detector struct {
	src        VoxelSource
	current    Plane
	hasCurrent bool
	timeout    float32
}

func NewDetector(src VoxelSource) *Detector {
	return &Detector{src: src}
}

// Detect finds the placement plane under the given world position: the top
// face of the highest voxel whose footprint contains the cursor's XZ, or
// the ground plane when the column is empty. Detect does not change the
// current plane; callers decide with ShouldTransition and SetCurrentPlane.
func (d *Detector) Detect(pos coord.WorldCoordinates, active coord.Resolution) Result {
	if v, ok := d.src.TopmostInColumn(pos.X(), pos.Z(), MaxSearchHeight); ok {
		return Result{Found: true, Plane: Plane{Height: v.TopHeight(), Ref: v}}
	}
	return Result{Found: true, Plane: GroundPlane()}
}

// CurrentPlane returns the active plane, if any.
func (d *Detector) CurrentPlane() (Plane, bool) {
	return d.current, d.hasCurrent
}

// SetCurrentPlane installs a plane and resets the persistence timer.
func (d *Detector) SetCurrentPlane(p Plane) {
	d.current = p
	d.hasCurrent = true
	d.timeout = 0
}

// ClearCurrentPlane drops the active plane; detection falls back to ground.
func (d *Detector) ClearCurrentPlane() {
	d.hasCurrent = false
	d.timeout = 0
}

// Reset restores the initial state.
func (d *Detector) Reset() {
	d.ClearCurrentPlane()
}

// UpdatePersistence advances the plane timer by dt seconds. While the
// preview voxel still overlaps something at the plane, the timer holds at
// zero; once clear, the plane expires after PersistenceTimeout.
func (d *Detector) UpdatePersistence(previewPos coord.IncrementCoordinates, previewRes coord.Resolution, dt float32) {
	if !d.hasCurrent || d.current.IsGround {
		return
	}
	if d.src.WouldOverlap(previewPos, previewRes) {
		d.timeout = 0
		return
	}
	d.timeout += dt
	if d.timeout > PersistenceTimeout {
		d.ClearCurrentPlane()
	}
}

// ShouldTransition reports whether the caller should adopt the newly
// detected plane: only when it sits more than a centimeter above the
// current one, or when there is no current plane.
func (d *Detector) ShouldTransition(res Result) bool {
	if !res.Found {
		return false
	}
	if !d.hasCurrent {
		return true
	}
	return res.Plane.Height-d.current.Height > transitionThreshold
}
