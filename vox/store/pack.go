package store

import "github.com/voxelforge/voxelforge/vox/coord"

// Increment positions pack into 64 bits as three signed 21-bit components,
// enough for +/-10 km at 1 cm spacing; the workspace needs +/-4 m.
const (
	packBits = 21
	packMask = (1 << packBits) - 1
	packBias = 1 << (packBits - 1)
)

func packPos(p coord.IncrementCoordinates) uint64 {
	x := uint64(uint32(p.X+packBias)) & packMask
	y := uint64(uint32(p.Y+packBias)) & packMask
	z := uint64(uint32(p.Z+packBias)) & packMask
	return x | y<<packBits | z<<(2*packBits)
}

func unpackPos(key uint64) coord.IncrementCoordinates {
	return coord.IncrementCoordinates{
		X: int32(key&packMask) - packBias,
		Y: int32((key>>packBits)&packMask) - packBias,
		Z: int32((key>>(2*packBits))&packMask) - packBias,
	}
}

func packCell(cx, cz int64) uint64 {
	return uint64(uint32(int32(cx)))<<32 | uint64(uint32(int32(cz)))
}

// box is a voxel's occupied volume in half-centimeter integer units, which
// keeps every boundary exact: a voxel of edge s cm at bottom-center p spans
// [2p-s, 2p+s] on X/Z and [2p, 2p+2s] on Y.
type box struct {
	minX, maxX int64
	minY, maxY int64
	minZ, maxZ int64
}

func boxOf(p coord.IncrementCoordinates, r coord.Resolution) box {
	s := int64(r.EdgeCm())
	return box{
		minX: 2*int64(p.X) - s, maxX: 2*int64(p.X) + s,
		minY: 2 * int64(p.Y), maxY: 2*int64(p.Y) + 2*s,
		minZ: 2*int64(p.Z) - s, maxZ: 2*int64(p.Z) + s,
	}
}

// intersects reports positive-volume intersection. Strict comparisons make
// shared faces legal by construction.
func (b box) intersects(o box) bool {
	return b.minX < o.maxX && o.minX < b.maxX &&
		b.minY < o.maxY && o.minY < b.maxY &&
		b.minZ < o.maxZ && o.minZ < b.maxZ
}

// footprintCells returns the XZ bucket cells at r's grid spacing that the
// voxel's footprint intersects with positive area. At most four cells.
func footprintCells(p coord.IncrementCoordinates, r coord.Resolution) []uint64 {
	b := boxOf(p, r)
	cell := int64(2 * r.EdgeCm())
	cells := make([]uint64, 0, 4)
	for cx := floorDiv(b.minX, cell); cx <= floorDiv(b.maxX-1, cell); cx++ {
		for cz := floorDiv(b.minZ, cell); cz <= floorDiv(b.maxZ-1, cell); cz++ {
			cells = append(cells, packCell(cx, cz))
		}
	}
	return cells
}

// floorDiv divides rounding toward negative infinity.
func floorDiv(a, b int64) int64 {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}
