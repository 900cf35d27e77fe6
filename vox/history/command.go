// Package history records executed edits as reversible commands and owns
// the undo and redo stacks. Commands are a closed set; each variant carries
// everything needed to apply and to reverse itself without consulting
// external state.
package history

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/voxelforge/voxelforge/vox/coord"
	"github.com/voxelforge/voxelforge/vox/store"
)

var (
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrNothingToRedo = errors.New("nothing to redo")
	ErrNoEffect      = errors.New("command changed nothing")
	ErrCommandFailed = errors.New("batch sub-command failed")
)

// Command is one reversible edit. The set of implementations is closed to
// this package; Revert must restore the exact prior state of every cell the
// command touched.
type Command interface {
	Apply(st *store.Store) error
	Revert(st *store.Store) error
	Label() string

	sealedCommand()
}

// PlaceOne inserts a single voxel.
type PlaceOne struct {
	Pos coord.IncrementCoordinates
	Res coord.Resolution
}

func (c *PlaceOne) sealedCommand() {}

func (c *PlaceOne) Label() string {
	return fmt.Sprintf("place %s at (%d, %d, %d)", c.Res.Name(), c.Pos.X, c.Pos.Y, c.Pos.Z)
}

func (c *PlaceOne) Apply(st *store.Store) error {
	inserted, err := st.Set(c.Pos, c.Res, true)
	if err != nil {
		return err
	}
	if !inserted {
		return ErrNoEffect
	}
	return nil
}

func (c *PlaceOne) Revert(st *store.Store) error {
	removed, err := st.Set(c.Pos, c.Res, false)
	if err != nil {
		return err
	}
	if !removed {
		return fmt.Errorf("revert of %q found the cell already empty", c.Label())
	}
	return nil
}

// RemoveOne deletes a single voxel.
type RemoveOne struct {
	Pos coord.IncrementCoordinates
	Res coord.Resolution
}

func (c *RemoveOne) sealedCommand() {}

func (c *RemoveOne) Label() string {
	return fmt.Sprintf("remove %s at (%d, %d, %d)", c.Res.Name(), c.Pos.X, c.Pos.Y, c.Pos.Z)
}

func (c *RemoveOne) Apply(st *store.Store) error {
	removed, err := st.Set(c.Pos, c.Res, false)
	if err != nil {
		return err
	}
	if !removed {
		return ErrNoEffect
	}
	return nil
}

func (c *RemoveOne) Revert(st *store.Store) error {
	inserted, err := st.Set(c.Pos, c.Res, true)
	if err != nil {
		return fmt.Errorf("revert of %q: %w", c.Label(), err)
	}
	if !inserted {
		return fmt.Errorf("revert of %q found the cell already occupied", c.Label())
	}
	return nil
}

// FillRegion sets every grid-aligned cell whose voxel box lies inside a
// world-space region to one value. Cells that would violate the grid
// invariants are skipped and recorded as skipped; the fill succeeds if at
// least one cell changed.
type FillRegion struct {
	Min   mgl32.Vec3
	Max   mgl32.Vec3
	Res   coord.Resolution
	Value bool

	// Recorded on Apply so Revert restores exact prior occupancy.
	cells []fillCell
}

type fillCell struct {
	pos     coord.IncrementCoordinates
	prior   bool
	changed bool
}

func (c *FillRegion) sealedCommand() {}

func (c *FillRegion) Label() string {
	verb := "fill"
	if !c.Value {
		verb = "erase"
	}
	return fmt.Sprintf("%s region at %s", verb, c.Res.Name())
}

func (c *FillRegion) Apply(st *store.Store) error {
	c.cells = c.cells[:0]
	changed := 0
	for _, p := range c.enumerate() {
		prior := st.Get(p, c.Res)
		if prior == c.Value {
			c.cells = append(c.cells, fillCell{pos: p, prior: prior})
			continue
		}
		ok, err := st.Set(p, c.Res, c.Value)
		if err != nil || !ok {
			c.cells = append(c.cells, fillCell{pos: p, prior: prior})
			continue
		}
		c.cells = append(c.cells, fillCell{pos: p, prior: prior, changed: true})
		changed++
	}
	if changed == 0 {
		c.cells = nil
		return ErrNoEffect
	}
	return nil
}

func (c *FillRegion) Revert(st *store.Store) error {
	for i := len(c.cells) - 1; i >= 0; i-- {
		cell := c.cells[i]
		if !cell.changed {
			continue
		}
		if _, err := st.Set(cell.pos, c.Res, cell.prior); err != nil {
			return fmt.Errorf("revert of %q at (%d, %d, %d): %w",
				c.Label(), cell.pos.X, cell.pos.Y, cell.pos.Z, err)
		}
	}
	return nil
}

const fillEpsilon = 1e-4

// enumerate lists the grid(R)-aligned bottom-center positions whose voxel
// boxes lie entirely inside the region, in deterministic order.
func (c *FillRegion) enumerate() []coord.IncrementCoordinates {
	lo := mgl32.Vec3{
		minf(c.Min.X(), c.Max.X()),
		minf(c.Min.Y(), c.Max.Y()),
		minf(c.Min.Z(), c.Max.Z()),
	}
	hi := mgl32.Vec3{
		maxf(c.Min.X(), c.Max.X()),
		maxf(c.Min.Y(), c.Max.Y()),
		maxf(c.Min.Z(), c.Max.Z()),
	}

	edge := float64(c.Res.EdgeCm())
	half := edge / 2

	// Index ranges along each axis, in multiples of the edge length. X and
	// Z constrain the centered footprint, Y the bottom face.
	x0, x1 := axisRange(float64(lo.X())*100+half, float64(hi.X())*100-half, edge)
	y0, y1 := axisRange(float64(lo.Y())*100, float64(hi.Y())*100-edge, edge)
	z0, z1 := axisRange(float64(lo.Z())*100+half, float64(hi.Z())*100-half, edge)

	var out []coord.IncrementCoordinates
	for ky := y0; ky <= y1; ky++ {
		for kx := x0; kx <= x1; kx++ {
			for kz := z0; kz <= z1; kz++ {
				out = append(out, coord.Increment(
					int32(kx)*c.Res.EdgeCm(),
					int32(ky)*c.Res.EdgeCm(),
					int32(kz)*c.Res.EdgeCm(),
				))
			}
		}
	}
	return out
}

func axisRange(lowCm, highCm, edgeCm float64) (int64, int64) {
	lo := int64(math.Ceil((lowCm - fillEpsilon) / edgeCm))
	hi := int64(math.Floor((highCm + fillEpsilon) / edgeCm))
	return lo, hi
}

func minf(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func maxf(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}

// Batch applies a sequence of commands as one undo unit. Sub-commands run
// in order and are reverted in reverse; if one fails to apply, the already
// applied ones are rolled back and the batch reports failure.
type Batch struct {
	Name string
	Cmds []Command
}

func (c *Batch) sealedCommand() {}

func (c *Batch) Label() string {
	if c.Name != "" {
		return c.Name
	}
	return fmt.Sprintf("batch of %d edits", len(c.Cmds))
}

func (c *Batch) Apply(st *store.Store) error {
	if len(c.Cmds) == 0 {
		return ErrNoEffect
	}
	for i, sub := range c.Cmds {
		if err := sub.Apply(st); err != nil {
			for j := i - 1; j >= 0; j-- {
				if rerr := c.Cmds[j].Revert(st); rerr != nil {
					panic(fmt.Sprintf("history: batch rollback left the store torn: %v", rerr))
				}
			}
			return fmt.Errorf("%w: %q: %v", ErrCommandFailed, sub.Label(), err)
		}
	}
	return nil
}

func (c *Batch) Revert(st *store.Store) error {
	for i := len(c.Cmds) - 1; i >= 0; i-- {
		if err := c.Cmds[i].Revert(st); err != nil {
			return err
		}
	}
	return nil
}
