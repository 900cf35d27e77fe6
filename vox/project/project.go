// Package project captures store contents in the on-disk project layout:
// workspace size, active resolution, then a count and packed list of
// increment triples per non-empty resolution, all little-endian. The core
// only produces and consumes snapshots; compression and file handling
// belong to the host.
package project

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"sort"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/voxelforge/voxelforge/vox/coord"
	"github.com/voxelforge/voxelforge/vox/store"
)

// Compressor is the external compression collaborator. Snapshots written
// through WriteCompressed round-trip through ReadCompressed with the same
// implementation.
type Compressor interface {
	Compress(data []byte) ([]byte, error)
	Decompress(data []byte) ([]byte, error)
}

// ResolutionBlock is the stored voxel list for one resolution.
type ResolutionBlock struct {
	Res       coord.Resolution
	Positions []coord.IncrementCoordinates
}

// Snapshot is a complete serializable copy of a store's state.
type Snapshot struct {
	Workspace [3]float32
	Active    coord.Resolution
	Blocks    []ResolutionBlock
}

// Capture copies the store's current state. Block positions are sorted so
// equal stores produce identical bytes.
func Capture(st *store.Store) *Snapshot {
	size := st.WorkspaceSize()
	snap := &Snapshot{
		Workspace: [3]float32{size.X(), size.Y(), size.Z()},
		Active:    st.ActiveResolution(),
	}
	for _, r := range coord.Resolutions() {
		if st.CountAt(r) == 0 {
			continue
		}
		block := ResolutionBlock{Res: r, Positions: make([]coord.IncrementCoordinates, 0, st.CountAt(r))}
		st.IterAt(r, func(p coord.IncrementCoordinates) bool {
			block.Positions = append(block.Positions, p)
			return true
		})
		sort.Slice(block.Positions, func(i, j int) bool {
			a, b := block.Positions[i], block.Positions[j]
			if a.Y != b.Y {
				return a.Y < b.Y
			}
			if a.X != b.X {
				return a.X < b.X
			}
			return a.Z < b.Z
		})
		snap.Blocks = append(snap.Blocks, block)
	}
	return snap
}

// Restore replaces the store's contents with the snapshot. The store is
// cleared first; a voxel that no longer satisfies the invariants aborts
// the restore with the offending position.
func (s *Snapshot) Restore(st *store.Store) error {
	st.Clear()
	if err := st.ResizeWorkspace(vec3(s.Workspace)); err != nil {
		return err
	}
	if err := st.SetActiveResolution(s.Active); err != nil {
		return err
	}
	for _, block := range s.Blocks {
		for _, p := range block.Positions {
			if _, err := st.Set(p, block.Res, true); err != nil {
				return fmt.Errorf("restore %s voxel at (%d, %d, %d): %w",
					block.Res.Name(), p.X, p.Y, p.Z, err)
			}
		}
	}
	return nil
}

var order = binary.LittleEndian

// WriteTo serializes the snapshot.
func (s *Snapshot) WriteTo(w io.Writer) error {
	if err := binary.Write(w, order, s.Workspace); err != nil {
		return err
	}
	if err := binary.Write(w, order, uint8(s.Active)); err != nil {
		return err
	}
	if err := binary.Write(w, order, uint8(len(s.Blocks))); err != nil {
		return err
	}
	for _, block := range s.Blocks {
		if err := binary.Write(w, order, uint8(block.Res)); err != nil {
			return err
		}
		if err := binary.Write(w, order, uint32(len(block.Positions))); err != nil {
			return err
		}
		for _, p := range block.Positions {
			if err := binary.Write(w, order, [3]int32{p.X, p.Y, p.Z}); err != nil {
				return err
			}
		}
	}
	return nil
}

// ReadFrom parses a snapshot written by WriteTo.
func ReadFrom(r io.Reader) (*Snapshot, error) {
	snap := &Snapshot{}
	if err := binary.Read(r, order, &snap.Workspace); err != nil {
		return nil, err
	}
	var active uint8
	if err := binary.Read(r, order, &active); err != nil {
		return nil, err
	}
	snap.Active = coord.Resolution(active)
	if !snap.Active.Valid() {
		return nil, fmt.Errorf("snapshot has invalid active resolution %d", active)
	}
	var blocks uint8
	if err := binary.Read(r, order, &blocks); err != nil {
		return nil, err
	}
	for i := 0; i < int(blocks); i++ {
		var res uint8
		if err := binary.Read(r, order, &res); err != nil {
			return nil, err
		}
		block := ResolutionBlock{Res: coord.Resolution(res)}
		if !block.Res.Valid() {
			return nil, fmt.Errorf("snapshot block %d has invalid resolution %d", i, res)
		}
		var count uint32
		if err := binary.Read(r, order, &count); err != nil {
			return nil, err
		}
		block.Positions = make([]coord.IncrementCoordinates, count)
		for j := range block.Positions {
			var triple [3]int32
			if err := binary.Read(r, order, &triple); err != nil {
				return nil, err
			}
			block.Positions[j] = coord.Increment(triple[0], triple[1], triple[2])
		}
		snap.Blocks = append(snap.Blocks, block)
	}
	return snap, nil
}

// WriteCompressed serializes through the external compressor.
func WriteCompressed(w io.Writer, snap *Snapshot, c Compressor) error {
	var buf bytes.Buffer
	if err := snap.WriteTo(&buf); err != nil {
		return err
	}
	packed, err := c.Compress(buf.Bytes())
	if err != nil {
		return err
	}
	if err := binary.Write(w, order, uint32(len(packed))); err != nil {
		return err
	}
	_, err = w.Write(packed)
	return err
}

// ReadCompressed parses a snapshot written by WriteCompressed.
func ReadCompressed(r io.Reader, c Compressor) (*Snapshot, error) {
	var n uint32
	if err := binary.Read(r, order, &n); err != nil {
		return nil, err
	}
	packed := make([]byte, n)
	if _, err := io.ReadFull(r, packed); err != nil {
		return nil, err
	}
	raw, err := c.Decompress(packed)
	if err != nil {
		return nil, err
	}
	return ReadFrom(bytes.NewReader(raw))
}

func vec3(v [3]float32) mgl32.Vec3 {
	return mgl32.Vec3{v[0], v[1], v[2]}
}
