package history

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/voxelforge/voxelforge/vox/coord"
	"github.com/voxelforge/voxelforge/vox/store"
)

func newHistory(t *testing.T) (*History, *store.Store) {
	t.Helper()
	st, err := store.New(coord.DefaultWorkspace(), coord.Res32cm)
	if err != nil {
		t.Fatal(err)
	}
	return New(st, 0), st
}

func TestPlaceUndoRedoRoundTrip(t *testing.T) {
	h, st := newHistory(t)
	p := coord.Increment(0, 0, 0)

	if err := h.Execute(&PlaceOne{Pos: p, Res: coord.Res32cm}); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if st.Count() != 1 || !st.Get(p, coord.Res32cm) {
		t.Fatal("voxel missing after place")
	}

	if err := h.Undo(); err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if st.Count() != 0 {
		t.Fatal("store not empty after undo")
	}

	if err := h.Redo(); err != nil {
		t.Fatalf("Redo: %v", err)
	}
	if st.Count() != 1 || !st.Get(p, coord.Res32cm) {
		t.Fatal("voxel missing after redo")
	}
}

func TestEmptyStacks(t *testing.T) {
	h, _ := newHistory(t)
	if err := h.Undo(); !errors.Is(err, ErrNothingToUndo) {
		t.Fatalf("Undo on empty = %v", err)
	}
	if err := h.Redo(); !errors.Is(err, ErrNothingToRedo) {
		t.Fatalf("Redo on empty = %v", err)
	}
	if h.CanUndo() || h.CanRedo() {
		t.Fatal("empty history claims capability")
	}
}

func TestFailedExecuteNotRecorded(t *testing.T) {
	h, st := newHistory(t)
	if err := h.Execute(&PlaceOne{Pos: coord.Increment(0, 0, 0), Res: coord.Res32cm}); err != nil {
		t.Fatal(err)
	}
	err := h.Execute(&PlaceOne{Pos: coord.Increment(1, 0, 0), Res: coord.Res32cm})
	if !errors.Is(err, store.ErrOverlap) {
		t.Fatalf("overlapping place = %v", err)
	}

	// Only the successful command is on the stack.
	if err := h.Undo(); err != nil {
		t.Fatal(err)
	}
	if h.CanUndo() {
		t.Fatal("failed command was recorded")
	}
	if st.Count() != 0 {
		t.Fatal("store should be empty")
	}
}

func TestExecuteClearsRedo(t *testing.T) {
	h, _ := newHistory(t)
	h.Execute(&PlaceOne{Pos: coord.Increment(0, 0, 0), Res: coord.Res32cm})
	h.Undo()
	if !h.CanRedo() {
		t.Fatal("expected redo available")
	}
	h.Execute(&PlaceOne{Pos: coord.Increment(64, 0, 0), Res: coord.Res32cm})
	if h.CanRedo() {
		t.Fatal("new execute should discard redo")
	}
}

func TestRemoveUndo(t *testing.T) {
	h, st := newHistory(t)
	p := coord.Increment(0, 0, 0)
	h.Execute(&PlaceOne{Pos: p, Res: coord.Res32cm})
	if err := h.Execute(&RemoveOne{Pos: p, Res: coord.Res32cm}); err != nil {
		t.Fatal(err)
	}
	if st.Count() != 0 {
		t.Fatal("remove did not apply")
	}
	if err := h.Undo(); err != nil {
		t.Fatal(err)
	}
	if !st.Get(p, coord.Res32cm) {
		t.Fatal("undo of remove did not restore the voxel")
	}
}

func TestRemoveMissingFails(t *testing.T) {
	h, _ := newHistory(t)
	err := h.Execute(&RemoveOne{Pos: coord.Increment(0, 0, 0), Res: coord.Res32cm})
	if !errors.Is(err, ErrNoEffect) {
		t.Fatalf("remove of empty cell = %v", err)
	}
}

func TestHistoryLimitEvictsOldest(t *testing.T) {
	st, err := store.New(coord.DefaultWorkspace(), coord.Res32cm)
	if err != nil {
		t.Fatal(err)
	}
	h := New(st, 2)

	for i := int32(0); i < 3; i++ {
		if err := h.Execute(&PlaceOne{Pos: coord.Increment(i*64, 0, 0), Res: coord.Res32cm}); err != nil {
			t.Fatal(err)
		}
	}

	if err := h.Undo(); err != nil {
		t.Fatal(err)
	}
	if err := h.Undo(); err != nil {
		t.Fatal(err)
	}
	if err := h.Undo(); !errors.Is(err, ErrNothingToUndo) {
		t.Fatalf("third undo = %v, want eviction of the oldest command", err)
	}
	if st.Count() != 1 {
		t.Fatalf("count = %d, the evicted edit should survive", st.Count())
	}
}

func TestGroupCoalesces(t *testing.T) {
	h, st := newHistory(t)

	h.BeginGroup("build a wall")
	h.Execute(&PlaceOne{Pos: coord.Increment(0, 0, 0), Res: coord.Res32cm})
	h.Execute(&PlaceOne{Pos: coord.Increment(32, 0, 0), Res: coord.Res32cm})
	h.Execute(&PlaceOne{Pos: coord.Increment(64, 0, 0), Res: coord.Res32cm})
	h.EndGroup()

	if st.Count() != 3 {
		t.Fatalf("count = %d", st.Count())
	}
	if err := h.Undo(); err != nil {
		t.Fatal(err)
	}
	if st.Count() != 0 {
		t.Fatalf("count after group undo = %d, want 0", st.Count())
	}
	if err := h.Redo(); err != nil {
		t.Fatal(err)
	}
	if st.Count() != 3 {
		t.Fatalf("count after group redo = %d", st.Count())
	}
}

func TestNestedGroupsCoalesce(t *testing.T) {
	h, st := newHistory(t)

	h.BeginGroup("outer")
	h.Execute(&PlaceOne{Pos: coord.Increment(0, 0, 0), Res: coord.Res32cm})
	h.BeginGroup("inner")
	h.Execute(&PlaceOne{Pos: coord.Increment(32, 0, 0), Res: coord.Res32cm})
	h.EndGroup()
	h.Execute(&PlaceOne{Pos: coord.Increment(64, 0, 0), Res: coord.Res32cm})
	h.EndGroup()

	if err := h.Undo(); err != nil {
		t.Fatal(err)
	}
	if st.Count() != 0 {
		t.Fatalf("count = %d, nested groups should undo as one unit", st.Count())
	}
}

func TestBatchRollsBackOnFailure(t *testing.T) {
	h, st := newHistory(t)

	batch := &Batch{Name: "doomed", Cmds: []Command{
		&PlaceOne{Pos: coord.Increment(0, 0, 0), Res: coord.Res32cm},
		&PlaceOne{Pos: coord.Increment(8, 8, 8), Res: coord.Res16cm}, // overlaps the first
	}}
	err := h.Execute(batch)
	if !errors.Is(err, ErrCommandFailed) {
		t.Fatalf("batch err = %v, want ErrCommandFailed", err)
	}
	if st.Count() != 0 {
		t.Fatalf("count = %d, failed batch must roll back", st.Count())
	}
	if h.CanUndo() {
		t.Fatal("failed batch was recorded")
	}
}

func TestFillRegion(t *testing.T) {
	h, st := newHistory(t)

	fill := &FillRegion{
		Min:   mgl32.Vec3{-0.5, 0, -0.5},
		Max:   mgl32.Vec3{0.5, 0.2, 0.5},
		Res:   coord.Res16cm,
		Value: true,
	}
	if err := h.Execute(fill); err != nil {
		t.Fatalf("fill: %v", err)
	}

	// 16cm cells fully inside the box: five centers per horizontal axis,
	// one vertical layer (a second layer would poke out of y=0.2).
	if got := st.CountAt(coord.Res16cm); got != 25 {
		t.Fatalf("filled %d cells, want 25", got)
	}
	for _, p := range []coord.IncrementCoordinates{
		coord.Increment(-32, 0, -32),
		coord.Increment(0, 0, 0),
		coord.Increment(32, 0, 32),
	} {
		if !st.Get(p, coord.Res16cm) {
			t.Errorf("expected filled cell at %v", p)
		}
	}
	if st.Get(coord.Increment(48, 0, 0), coord.Res16cm) {
		t.Error("cell outside the region was filled")
	}

	if err := h.Undo(); err != nil {
		t.Fatal(err)
	}
	if st.Count() != 0 {
		t.Fatalf("count after undo = %d", st.Count())
	}
	if err := h.Redo(); err != nil {
		t.Fatal(err)
	}
	if st.CountAt(coord.Res16cm) != 25 {
		t.Fatal("redo did not restore the fill")
	}
}

func TestFillSkipsOccupiedAndRestoresExactly(t *testing.T) {
	h, st := newHistory(t)
	if _, err := st.Set(coord.Increment(0, 0, 0), coord.Res16cm, true); err != nil {
		t.Fatal(err)
	}

	fill := &FillRegion{
		Min:   mgl32.Vec3{-0.5, 0, -0.5},
		Max:   mgl32.Vec3{0.5, 0.2, 0.5},
		Res:   coord.Res16cm,
		Value: true,
	}
	if err := h.Execute(fill); err != nil {
		t.Fatal(err)
	}
	if st.CountAt(coord.Res16cm) != 25 {
		t.Fatalf("count = %d", st.CountAt(coord.Res16cm))
	}

	// Undo removes only the 24 cells the fill changed; the pre-existing
	// voxel stays.
	if err := h.Undo(); err != nil {
		t.Fatal(err)
	}
	if st.CountAt(coord.Res16cm) != 1 || !st.Get(coord.Increment(0, 0, 0), coord.Res16cm) {
		t.Fatal("undo disturbed the pre-existing voxel")
	}
}

func TestFillWithNothingToDo(t *testing.T) {
	h, _ := newHistory(t)

	// The box is shorter than one 16cm cell, so no cell fits inside.
	fill := &FillRegion{
		Min:   mgl32.Vec3{-0.5, 0, -0.5},
		Max:   mgl32.Vec3{0.5, 0.1, 0.5},
		Res:   coord.Res16cm,
		Value: true,
	}
	if err := h.Execute(fill); !errors.Is(err, ErrNoEffect) {
		t.Fatalf("empty fill = %v, want ErrNoEffect", err)
	}
	if h.CanUndo() {
		t.Fatal("no-effect fill was recorded")
	}
}

func TestFillErase(t *testing.T) {
	h, st := newHistory(t)
	fill := &FillRegion{
		Min: mgl32.Vec3{-0.5, 0, -0.5}, Max: mgl32.Vec3{0.5, 0.2, 0.5},
		Res: coord.Res16cm, Value: true,
	}
	if err := h.Execute(fill); err != nil {
		t.Fatal(err)
	}

	erase := &FillRegion{
		Min: mgl32.Vec3{-0.1, 0, -0.1}, Max: mgl32.Vec3{0.1, 0.2, 0.1},
		Res: coord.Res16cm, Value: false,
	}
	if err := h.Execute(erase); err != nil {
		t.Fatal(err)
	}
	if st.Get(coord.Increment(0, 0, 0), coord.Res16cm) {
		t.Fatal("erase left the center cell")
	}
	if st.CountAt(coord.Res16cm) != 24 {
		t.Fatalf("count = %d, want 24", st.CountAt(coord.Res16cm))
	}

	if err := h.Undo(); err != nil {
		t.Fatal(err)
	}
	if st.CountAt(coord.Res16cm) != 25 {
		t.Fatal("undo of erase did not restore the cell")
	}
}

func TestUndoRedoFullSequence(t *testing.T) {
	h, st := newHistory(t)

	cmds := []Command{
		&PlaceOne{Pos: coord.Increment(0, 0, 0), Res: coord.Res32cm},
		&PlaceOne{Pos: coord.Increment(0, 32, 0), Res: coord.Res32cm},
		&FillRegion{Min: mgl32.Vec3{1, 0, 1}, Max: mgl32.Vec3{1.7, 0.2, 1.7}, Res: coord.Res16cm, Value: true},
		&RemoveOne{Pos: coord.Increment(0, 32, 0), Res: coord.Res32cm},
	}
	for _, c := range cmds {
		if err := h.Execute(c); err != nil {
			t.Fatalf("execute %q: %v", c.Label(), err)
		}
	}
	want := st.Count()

	for h.CanUndo() {
		if err := h.Undo(); err != nil {
			t.Fatal(err)
		}
	}
	if st.Count() != 0 {
		t.Fatalf("count after full undo = %d", st.Count())
	}

	for h.CanRedo() {
		if err := h.Redo(); err != nil {
			t.Fatal(err)
		}
	}
	if st.Count() != want {
		t.Fatalf("count after full redo = %d, want %d", st.Count(), want)
	}
	if !st.Get(coord.Increment(0, 0, 0), coord.Res32cm) {
		t.Fatal("redo lost the base voxel")
	}
	if st.Get(coord.Increment(0, 32, 0), coord.Res32cm) {
		t.Fatal("redo resurrected a removed voxel")
	}
}

func TestClear(t *testing.T) {
	h, _ := newHistory(t)
	h.Execute(&PlaceOne{Pos: coord.Increment(0, 0, 0), Res: coord.Res32cm})
	h.Undo()
	h.Clear()
	if h.CanUndo() || h.CanRedo() {
		t.Fatal("Clear left stack entries")
	}
}
