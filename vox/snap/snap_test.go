package snap

import (
	"math"
	"testing"

	"github.com/voxelforge/voxelforge/vox/coord"
	"github.com/voxelforge/voxelforge/vox/place"
	"github.com/voxelforge/voxelforge/vox/store"
)

func newSnapper(t *testing.T) (*Snapper, *store.Store) {
	t.Helper()
	st, err := store.New(coord.DefaultWorkspace(), coord.Res32cm)
	if err != nil {
		t.Fatal(err)
	}
	return New(coord.DefaultWorkspace(), place.FreeIncrement, st), st
}

func TestFreeSnapToCentimeters(t *testing.T) {
	s, _ := newSnapper(t)

	p, outcome := s.Snap(coord.World(0.126, 0.238, 0.359), coord.Res32cm, true, nil)
	if p != coord.Increment(13, 24, 36) {
		t.Fatalf("snapped to %v, want (13, 24, 36)", p)
	}
	if outcome != place.Valid {
		t.Fatalf("outcome = %s", outcome)
	}

	// Resolution never coarsens placement, and neither does the shift
	// override: all three agree.
	p2, _ := s.Snap(coord.World(0.126, 0.238, 0.359), coord.Res32cm, false, nil)
	p3, _ := s.Snap(coord.World(0.126, 0.238, 0.359), coord.Res1cm, false, nil)
	if p2 != p || p3 != p {
		t.Fatalf("shift/resolution changed the snap: %v %v %v", p, p2, p3)
	}
}

func TestSnapReportsValidation(t *testing.T) {
	s, st := newSnapper(t)
	if _, err := st.Set(coord.Increment(0, 0, 0), coord.Res32cm, true); err != nil {
		t.Fatal(err)
	}

	if _, outcome := s.Snap(coord.World(0.01, 0.01, 0.01), coord.Res32cm, false, nil); outcome != place.Overlap {
		t.Fatalf("outcome = %s, want overlap", outcome)
	}
	if _, outcome := s.Snap(coord.World(2.49, 0, 0), coord.Res32cm, false, nil); outcome != place.OutOfBounds {
		t.Fatalf("outcome = %s, want out of bounds", outcome)
	}
}

func TestSnapRejectsNaN(t *testing.T) {
	s, _ := newSnapper(t)
	nan := float32(math.NaN())
	if _, outcome := s.Snap(coord.World(nan, 0, 0), coord.Res32cm, false, nil); outcome != place.InvalidInput {
		t.Fatalf("outcome = %s, want invalid input", outcome)
	}
	if _, outcome := s.Snap(coord.World(0, 0, 0), coord.Resolution(11), false, nil); outcome != place.InvalidInput {
		t.Fatalf("bad resolution outcome = %s", outcome)
	}
}

func TestFaceSnapOnTop(t *testing.T) {
	s, st := newSnapper(t)
	if _, err := st.Set(coord.Increment(0, 0, 0), coord.Res32cm, true); err != nil {
		t.Fatal(err)
	}
	face := &FaceContext{
		Ref:  coord.Voxel{Pos: coord.Increment(0, 0, 0), Res: coord.Res32cm},
		Face: coord.FacePosY,
	}

	// An equal-size voxel has no slack on the face: it lands exactly on
	// top regardless of where the face was hit.
	p, outcome := s.Snap(coord.World(0.08, 0.32, 0.08), coord.Res32cm, false, face)
	if p != coord.Increment(0, 32, 0) {
		t.Fatalf("snapped to %v, want (0, 32, 0)", p)
	}
	if outcome != place.Valid {
		t.Fatalf("outcome = %s", outcome)
	}

	// A smaller voxel follows the hit point within the face.
	p, outcome = s.Snap(coord.World(0.05, 0.32, -0.03), coord.Res16cm, false, face)
	if p != coord.Increment(5, 32, -3) {
		t.Fatalf("16cm snapped to %v, want (5, 32, -3)", p)
	}
	if outcome != place.Valid {
		t.Fatalf("outcome = %s", outcome)
	}

	// Near the face edge the smaller voxel clamps flush instead of
	// hanging over.
	p, _ = s.Snap(coord.World(0.30, 0.32, 0.30), coord.Res16cm, false, face)
	if p != coord.Increment(8, 32, 8) {
		t.Fatalf("clamped snap = %v, want (8, 32, 8)", p)
	}
}

func TestFaceSnapOnSide(t *testing.T) {
	s, st := newSnapper(t)
	if _, err := st.Set(coord.Increment(0, 0, 0), coord.Res32cm, true); err != nil {
		t.Fatal(err)
	}
	face := &FaceContext{
		Ref:  coord.Voxel{Pos: coord.Increment(0, 0, 0), Res: coord.Res32cm},
		Face: coord.FacePosX,
	}

	p, outcome := s.Snap(coord.World(0.16, 0.10, 0.02), coord.Res32cm, false, face)
	if p != coord.Increment(32, 0, 0) {
		t.Fatalf("snapped to %v, want (32, 0, 0)", p)
	}
	if outcome != place.Valid {
		t.Fatalf("outcome = %s", outcome)
	}

	// The new voxel shares the face plane; placing it must not overlap.
	if _, err := st.Set(p, coord.Res32cm, true); err != nil {
		t.Fatalf("placing face-snapped voxel: %v", err)
	}
}

func TestFaceSnapLargerThanFaceCenters(t *testing.T) {
	s, st := newSnapper(t)
	if _, err := st.Set(coord.Increment(0, 0, 0), coord.Res32cm, true); err != nil {
		t.Fatal(err)
	}
	face := &FaceContext{
		Ref:  coord.Voxel{Pos: coord.Increment(0, 0, 0), Res: coord.Res32cm},
		Face: coord.FacePosY,
	}

	// A 64cm voxel cannot fit inside a 32cm face; it centers on it.
	p, outcome := s.Snap(coord.World(0.14, 0.32, -0.12), coord.Res64cm, false, face)
	if p != coord.Increment(0, 32, 0) {
		t.Fatalf("snapped to %v, want centered (0, 32, 0)", p)
	}
	if outcome != place.Valid {
		t.Fatalf("outcome = %s", outcome)
	}
}

func TestFaceSnapBottomFace(t *testing.T) {
	s, st := newSnapper(t)
	if _, err := st.Set(coord.Increment(0, 64, 0), coord.Res32cm, true); err != nil {
		t.Fatal(err)
	}
	face := &FaceContext{
		Ref:  coord.Voxel{Pos: coord.Increment(0, 64, 0), Res: coord.Res32cm},
		Face: coord.FaceNegY,
	}

	// Hanging below: the new voxel's top touches the reference bottom.
	p, outcome := s.Snap(coord.World(0.0, 0.64, 0.0), coord.Res32cm, false, face)
	if p != coord.Increment(0, 32, 0) {
		t.Fatalf("snapped to %v, want (0, 32, 0)", p)
	}
	if outcome != place.Valid {
		t.Fatalf("outcome = %s", outcome)
	}
}
