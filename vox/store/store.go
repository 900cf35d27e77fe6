// Package store holds the authoritative set of occupied voxel positions
// across all resolutions and answers the geometric queries the rest of the
// editor is built on: containment, overlap, and column searches.
//
// Storage is sparse. Each resolution keeps a set of occupied increment
// positions keyed by a packed 64-bit encoding, plus an XZ column index at
// that resolution's grid spacing so overlap and column queries touch only
// the few voxels near the candidate instead of the whole set.
package store

import (
	"errors"
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/voxelforge/voxelforge/vox/coord"
)

var (
	ErrBelowGround       = errors.New("voxel extends below the ground plane")
	ErrOutOfBounds       = errors.New("voxel extends outside the workspace")
	ErrOverlap           = errors.New("voxel overlaps an existing voxel")
	ErrInvalidResolution = errors.New("invalid resolution")
	ErrWorkspaceRejected = errors.New("workspace size rejected")
)

// boundsEpsilon absorbs float32 representation error in workspace extents.
const boundsEpsilon = 1e-4

// resGrid is the per-resolution storage: the occupied set plus the XZ
// column buckets used for geometric queries. Bucket cells are the grid(R)
// lattice of this resolution; they never leak out of this package.
type resGrid struct {
	voxels  map[uint64]struct{}
	columns map[uint64][]uint64
}

func newResGrid() resGrid {
	return resGrid{
		voxels:  make(map[uint64]struct{}),
		columns: make(map[uint64][]uint64),
	}
}

// Store is the authoritative multi-resolution voxel set. It is owned by a
// single editing session and is not internally synchronized; hosts that
// need concurrent access must serialize calls externally.
type Store struct {
	size   mgl32.Vec3
	active coord.Resolution
	grids  [coord.ResolutionCount]resGrid
	count  int

	observers map[subID]func(Event)
	order     []subID
}

// New creates an empty store with the given workspace size. The size must
// be within the workspace constraints.
func New(size mgl32.Vec3, active coord.Resolution) (*Store, error) {
	if !coord.IsValidWorkspaceSize(size) {
		return nil, ErrWorkspaceRejected
	}
	if !active.Valid() {
		return nil, ErrInvalidResolution
	}
	s := &Store{
		size:      size,
		active:    active,
		observers: make(map[subID]func(Event)),
	}
	for i := range s.grids {
		s.grids[i] = newResGrid()
	}
	return s, nil
}

// NewDefault creates an empty store with the default 5 m workspace and a
// 1 cm active resolution.
func NewDefault() *Store {
	s, err := New(coord.DefaultWorkspace(), coord.Res1cm)
	if err != nil {
		panic(err)
	}
	return s
}

func (s *Store) WorkspaceSize() mgl32.Vec3 { return s.size }

func (s *Store) ActiveResolution() coord.Resolution { return s.active }

func (s *Store) SetActiveResolution(r coord.Resolution) error {
	if !r.Valid() {
		return ErrInvalidResolution
	}
	s.active = r
	return nil
}

// Get reports whether a voxel exists at exactly (p, r).
func (s *Store) Get(p coord.IncrementCoordinates, r coord.Resolution) bool {
	if !r.Valid() {
		return false
	}
	_, ok := s.grids[r].voxels[packPos(p)]
	return ok
}

// Count returns the total number of stored voxels.
func (s *Store) Count() int { return s.count }

// CountAt returns the number of stored voxels at one resolution.
func (s *Store) CountAt(r coord.Resolution) int {
	if !r.Valid() {
		return 0
	}
	return len(s.grids[r].voxels)
}

// IterAt calls fn for every voxel position stored at resolution r, in no
// particular order, until fn returns false. The store must not be mutated
// during iteration.
func (s *Store) IterAt(r coord.Resolution, fn func(p coord.IncrementCoordinates) bool) {
	if !r.Valid() {
		return
	}
	for key := range s.grids[r].voxels {
		if !fn(unpackPos(key)) {
			return
		}
	}
}

// Set inserts or removes the voxel at (p, r) and reports whether the cell
// changed. Insertion fails if the voxel would sit below ground, leave the
// workspace, or overlap an existing voxel. Removal never fails.
func (s *Store) Set(p coord.IncrementCoordinates, r coord.Resolution, present bool) (bool, error) {
	if !r.Valid() {
		return false, ErrInvalidResolution
	}
	key := packPos(p)
	_, exists := s.grids[r].voxels[key]

	if !present {
		if !exists {
			return false, nil
		}
		s.remove(p, r, key)
		s.emit(Event{Res: r, Pos: p, Was: true, Now: false})
		return true, nil
	}

	if exists {
		return false, nil
	}
	if p.Y < 0 {
		return false, ErrBelowGround
	}
	if !s.boxInWorkspace(p, r) {
		return false, ErrOutOfBounds
	}
	if s.WouldOverlap(p, r) {
		return false, ErrOverlap
	}
	s.insert(p, r, key)
	s.emit(Event{Res: r, Pos: p, Was: false, Now: true})
	return true, nil
}

// WouldOverlap reports whether a voxel placed at (p, r) would intersect any
// stored voxel with positive volume. Shared faces do not count.
func (s *Store) WouldOverlap(p coord.IncrementCoordinates, r coord.Resolution) bool {
	if !r.Valid() {
		return false
	}
	b := boxOf(p, r)
	for _, r2 := range coord.Resolutions() {
		g := &s.grids[r2]
		if len(g.voxels) == 0 {
			continue
		}
		cell := int64(2 * r2.EdgeCm())
		cx0, cx1 := floorDiv(b.minX, cell), floorDiv(b.maxX-1, cell)
		cz0, cz1 := floorDiv(b.minZ, cell), floorDiv(b.maxZ-1, cell)
		seen := make(map[uint64]struct{})
		for cx := cx0; cx <= cx1; cx++ {
			for cz := cz0; cz <= cz1; cz++ {
				for _, key := range g.columns[packCell(cx, cz)] {
					if _, dup := seen[key]; dup {
						continue
					}
					seen[key] = struct{}{}
					if boxOf(unpackPos(key), r2).intersects(b) {
						return true
					}
				}
			}
		}
	}
	return false
}

// TopmostInColumn finds the stored voxel whose XZ footprint contains the
// given world point and whose top face is highest, searching from the
// ground up to ceiling meters. Ties prefer larger voxels.
func (s *Store) TopmostInColumn(wx, wz float32, ceiling float32) (coord.Voxel, bool) {
	var best coord.Voxel
	bestTop := float32(-1)
	found := false

	// Largest edge first so equal top faces resolve to the bigger voxel.
	for i := coord.ResolutionCount - 1; i >= 0; i-- {
		r := coord.Resolution(i)
		g := &s.grids[r]
		if len(g.voxels) == 0 {
			continue
		}
		half := r.EdgeMeters() / 2
		cell := int64(2 * r.EdgeCm())
		// The point in half-centimeter units, widened by one unit so a
		// footprint ending exactly on a cell boundary is still scanned.
		hx := int64(math.Round(float64(wx) * 200))
		hz := int64(math.Round(float64(wz) * 200))
		seen := make(map[uint64]struct{})
		for cx := floorDiv(hx-1, cell); cx <= floorDiv(hx+1, cell); cx++ {
			for cz := floorDiv(hz-1, cell); cz <= floorDiv(hz+1, cell); cz++ {
				for _, key := range g.columns[packCell(cx, cz)] {
					if _, dup := seen[key]; dup {
						continue
					}
					seen[key] = struct{}{}
					p := unpackPos(key)
					w := p.ToWorld()
					if abs32(w.X()-wx) > half+boundsEpsilon || abs32(w.Z()-wz) > half+boundsEpsilon {
						continue
					}
					if w.Y() > ceiling {
						continue
					}
					v := coord.Voxel{Pos: p, Res: r}
					if top := v.TopHeight(); top > bestTop+boundsEpsilon {
						bestTop = top
						best = v
						found = true
					}
				}
			}
		}
	}
	return best, found
}

// ResizeWorkspace changes the workspace size. The new size is rejected if
// it is outside the allowed range or if any stored voxel would no longer
// fit; on rejection the store is unchanged.
func (s *Store) ResizeWorkspace(size mgl32.Vec3) error {
	if !coord.IsValidWorkspaceSize(size) {
		return ErrWorkspaceRejected
	}
	old := s.size
	s.size = size
	for _, r := range coord.Resolutions() {
		for key := range s.grids[r].voxels {
			if !s.boxInWorkspace(unpackPos(key), r) {
				s.size = old
				return ErrWorkspaceRejected
			}
		}
	}
	return nil
}

// Clear removes every voxel, emitting a change event per removed cell.
func (s *Store) Clear() {
	for _, r := range coord.Resolutions() {
		s.ClearAt(r)
	}
}

// ClearAt removes every voxel at one resolution.
func (s *Store) ClearAt(r coord.Resolution) {
	if !r.Valid() {
		return
	}
	removed := make([]coord.IncrementCoordinates, 0, len(s.grids[r].voxels))
	for key := range s.grids[r].voxels {
		removed = append(removed, unpackPos(key))
	}
	for _, p := range removed {
		s.remove(p, r, packPos(p))
		s.emit(Event{Res: r, Pos: p, Was: true, Now: false})
	}
}

func (s *Store) insert(p coord.IncrementCoordinates, r coord.Resolution, key uint64) {
	g := &s.grids[r]
	g.voxels[key] = struct{}{}
	s.count++
	for _, cell := range footprintCells(p, r) {
		g.columns[cell] = append(g.columns[cell], key)
	}
}

func (s *Store) remove(p coord.IncrementCoordinates, r coord.Resolution, key uint64) {
	g := &s.grids[r]
	delete(g.voxels, key)
	s.count--
	for _, cell := range footprintCells(p, r) {
		list := g.columns[cell]
		for i, k := range list {
			if k == key {
				list[i] = list[len(list)-1]
				list = list[:len(list)-1]
				break
			}
		}
		if len(list) == 0 {
			delete(g.columns, cell)
		} else {
			g.columns[cell] = list
		}
	}
}

func (s *Store) boxInWorkspace(p coord.IncrementCoordinates, r coord.Resolution) bool {
	vmin, vmax := coord.VoxelBounds(p, r)
	wmin, wmax := coord.WorkspaceBounds(s.size)
	for i := 0; i < 3; i++ {
		if vmin[i] < wmin[i]-boundsEpsilon || vmax[i] > wmax[i]+boundsEpsilon {
			return false
		}
	}
	return true
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
