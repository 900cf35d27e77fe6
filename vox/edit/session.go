// Package edit is the single mutating surface of the editor. A Session
// pairs snapping and validation with command execution; everything else in
// the system either feeds it (ray hits, frame ticks) or observes it (store
// queries, change events).
package edit

import (
	"errors"
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/voxelforge/voxelforge/vox/coord"
	"github.com/voxelforge/voxelforge/vox/history"
	"github.com/voxelforge/voxelforge/vox/place"
	"github.com/voxelforge/voxelforge/vox/plane"
	"github.com/voxelforge/voxelforge/vox/project"
	"github.com/voxelforge/voxelforge/vox/snap"
	"github.com/voxelforge/voxelforge/vox/store"
)

var (
	ErrNotFound     = errors.New("no voxel at the given position")
	ErrMisaligned   = errors.New("position is not aligned to the resolution grid")
	ErrInvalidInput = errors.New("invalid input")
)

// Logger is the subset of the application logger the session uses.
type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Debugf(string, ...any) {}
func (nopLogger) Infof(string, ...any)  {}
func (nopLogger) Warnf(string, ...any)  {}
func (nopLogger) Errorf(string, ...any) {}

// Config configures a new editing session. Zero values select the default
// workspace, 1 cm active resolution, unbounded history, and free placement.
type Config struct {
	Workspace        mgl32.Vec3
	ActiveResolution coord.Resolution
	HistoryLimit     int
	Mode             place.Mode
	Log              Logger
}

// Session owns the voxel store for the lifetime of an editing session and
// is the only entity allowed to mutate it. It is single-threaded by
// contract; hosts with other concurrency models serialize calls externally.
type Session struct {
	store    *store.Store
	detector *plane.Detector
	snapper  *snap.Snapper
	history  *history.History
	log      Logger
}

func NewSession(cfg Config) (*Session, error) {
	if cfg.Workspace == (mgl32.Vec3{}) {
		cfg.Workspace = coord.DefaultWorkspace()
	}
	if cfg.Log == nil {
		cfg.Log = nopLogger{}
	}
	st, err := store.New(cfg.Workspace, cfg.ActiveResolution)
	if err != nil {
		return nil, err
	}
	return &Session{
		store:    st,
		detector: plane.NewDetector(st),
		snapper:  snap.New(cfg.Workspace, cfg.Mode, st),
		history:  history.New(st, cfg.HistoryLimit),
		log:      cfg.Log,
	}, nil
}

// Store exposes the read-only query surface for renderers and tools.
// Mutating the store directly bypasses validation and history and is
// disallowed by contract.
func (s *Session) Store() *store.Store { return s.store }

// Detector exposes the placement-plane state.
func (s *Session) Detector() *plane.Detector { return s.detector }

func (s *Session) ActiveResolution() coord.Resolution { return s.store.ActiveResolution() }

func (s *Session) SetActiveResolution(r coord.Resolution) error {
	return s.store.SetActiveResolution(r)
}

// Preview computes the snapped position and validation outcome for a ray
// hit without mutating anything; the preview layer renders the result in
// green or red from the outcome alone.
func (s *Session) Preview(hit coord.WorldCoordinates, r coord.Resolution, shift bool, face *snap.FaceContext) (coord.IncrementCoordinates, place.Outcome) {
	return s.snapper.Snap(hit, r, shift, face)
}

// PlaceAt snaps a ray hit and places a voxel there. The placed position is
// returned so callers can raise the placement plane onto it.
func (s *Session) PlaceAt(hit coord.WorldCoordinates, r coord.Resolution, shift bool, face *snap.FaceContext) (coord.IncrementCoordinates, error) {
	p, outcome := s.snapper.Snap(hit, r, shift, face)
	if err := outcomeErr(outcome); err != nil {
		s.log.Debugf("place at %v rejected: %s", hit.Vec3(), outcome)
		return p, err
	}
	if err := s.history.Execute(&history.PlaceOne{Pos: p, Res: r}); err != nil {
		return p, err
	}
	s.log.Debugf("placed %s at (%d, %d, %d)", r.Name(), p.X, p.Y, p.Z)
	return p, nil
}

// Place places a voxel at an exact increment position.
func (s *Session) Place(p coord.IncrementCoordinates, r coord.Resolution) error {
	outcome := place.Validate(p, r, s.store.WorkspaceSize(), s.snapper.Mode, s.store)
	if err := outcomeErr(outcome); err != nil {
		return err
	}
	if err := s.history.Execute(&history.PlaceOne{Pos: p, Res: r}); err != nil {
		return err
	}
	s.log.Debugf("placed %s at (%d, %d, %d)", r.Name(), p.X, p.Y, p.Z)
	return nil
}

// Remove deletes the voxel at an exact increment position.
func (s *Session) Remove(p coord.IncrementCoordinates, r coord.Resolution) error {
	if !s.store.Get(p, r) {
		return ErrNotFound
	}
	if err := s.history.Execute(&history.RemoveOne{Pos: p, Res: r}); err != nil {
		return err
	}
	s.log.Debugf("removed %s at (%d, %d, %d)", r.Name(), p.X, p.Y, p.Z)
	return nil
}

// RemoveAt deletes the voxel whose position rounds from the given world
// point, typically a raycast hit.
func (s *Session) RemoveAt(hit coord.WorldCoordinates, r coord.Resolution) error {
	if !hit.IsFinite() {
		return ErrInvalidInput
	}
	return s.Remove(coord.WorldToIncrement(hit), r)
}

// Fill sets every grid-aligned cell of resolution r inside the world box to
// the given value. Both endpoints must be at or above the ground plane.
func (s *Session) Fill(min, max mgl32.Vec3, r coord.Resolution, value bool) error {
	if !finiteVec(min) || !finiteVec(max) {
		return ErrInvalidInput
	}
	if min.Y() < 0 || max.Y() < 0 {
		return store.ErrBelowGround
	}
	if !r.Valid() {
		return store.ErrInvalidResolution
	}
	cmd := &history.FillRegion{Min: min, Max: max, Res: r, Value: value}
	if err := s.history.Execute(cmd); err != nil {
		return err
	}
	s.log.Debugf("%s", cmd.Label())
	return nil
}

func (s *Session) Undo() error {
	if err := s.history.Undo(); err != nil {
		return err
	}
	s.log.Debugf("undo")
	return nil
}

func (s *Session) Redo() error {
	if err := s.history.Redo(); err != nil {
		return err
	}
	s.log.Debugf("redo")
	return nil
}

func (s *Session) CanUndo() bool { return s.history.CanUndo() }
func (s *Session) CanRedo() bool { return s.history.CanRedo() }

// BeginGroup starts collecting edits into a single undo unit.
func (s *Session) BeginGroup(label string) { s.history.BeginGroup(label) }

// EndGroup closes the current edit group.
func (s *Session) EndGroup() { s.history.EndGroup() }

// ResizeWorkspace changes the workspace size; failure leaves every part of
// the session unchanged.
func (s *Session) ResizeWorkspace(size mgl32.Vec3) error {
	if !finiteVec(size) {
		return ErrInvalidInput
	}
	if err := s.store.ResizeWorkspace(size); err != nil {
		return err
	}
	s.snapper.Workspace = size
	s.log.Infof("workspace resized to %.2f x %.2f x %.2f m", size.X(), size.Y(), size.Z())
	return nil
}

// DetectPlane runs plane detection for the cursor position and adopts the
// result when it sits above the current plane.
func (s *Session) DetectPlane(hit coord.WorldCoordinates) plane.Result {
	res := s.detector.Detect(hit, s.store.ActiveResolution())
	if s.detector.ShouldTransition(res) {
		s.detector.SetCurrentPlane(res.Plane)
	}
	return res
}

// UpdatePersistence advances the placement-plane timer; called once per
// frame with the current preview.
func (s *Session) UpdatePersistence(previewPos coord.IncrementCoordinates, previewRes coord.Resolution, dt float32) {
	s.detector.UpdatePersistence(previewPos, previewRes, dt)
}

// Reset returns the session to an empty project, keeping the workspace
// size and active resolution.
func (s *Session) Reset() {
	s.store.Clear()
	s.history.Clear()
	s.detector.Reset()
	s.log.Infof("session reset")
}

// Snapshot captures the current project state for serialization.
func (s *Session) Snapshot() *project.Snapshot {
	return project.Capture(s.store)
}

// RestoreSnapshot replaces the project state; history is cleared since
// commands recorded against the old contents no longer apply.
func (s *Session) RestoreSnapshot(snap *project.Snapshot) error {
	if err := snap.Restore(s.store); err != nil {
		return err
	}
	s.snapper.Workspace = s.store.WorkspaceSize()
	s.history.Clear()
	s.detector.Reset()
	return nil
}

func outcomeErr(o place.Outcome) error {
	switch o {
	case place.Valid:
		return nil
	case place.InvalidInput:
		return ErrInvalidInput
	case place.MisalignedResolution:
		return ErrMisaligned
	case place.BelowGround:
		return store.ErrBelowGround
	case place.OutOfBounds:
		return store.ErrOutOfBounds
	case place.Overlap:
		return store.ErrOverlap
	}
	return ErrInvalidInput
}

func finiteVec(v mgl32.Vec3) bool {
	for i := 0; i < 3; i++ {
		f := float64(v[i])
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return false
		}
	}
	return true
}
