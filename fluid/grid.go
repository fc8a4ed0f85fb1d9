package fluid

import (
	"cmp"
	"slices"

	"gonum.org/v1/gonum/spatial/r3"
)

// noParticles marks a start-index slot with no entries.
const noParticles = ^uint32(0)

// Per-axis hash constants. These must stay fixed across rebuilds so a
// cell always lands in the same slot for a given particle count.
const (
	hashK1 = 15823
	hashK2 = 9737333
	hashK3 = 440817757
)

// gridEntry maps one particle to the hashed key of its cell. Entries
// are ordered by Key alone; ties are interchangeable.
type gridEntry struct {
	particle int32
	key      uint32
}

// SpatialHash indexes particles into a uniform grid so that all
// candidates near a query point can be enumerated in near-constant
// time. The key table is sized to the particle count rather than the
// number of distinct cells: two distinct cells may share a slot, which
// makes query results a superset of the true cell contents. Callers
// filter candidates by actual distance.
//
// Both backing arrays are allocated once and rebuilt in place every
// step, so steady-state stepping performs no allocation.
type SpatialHash struct {
	cellSize     float64
	entries      []gridEntry
	startIndices []uint32
}

// NewSpatialHash allocates an index for n particles.
func NewSpatialHash(n int) *SpatialHash {
	return &SpatialHash{
		entries:      make([]gridEntry, n),
		startIndices: make([]uint32, n),
	}
}

// Rebuild re-indexes all points with the given cell size. len(points)
// must equal the particle count the index was allocated for. Queries
// against the new index use this cell size until the next rebuild.
func (h *SpatialHash) Rebuild(points []r3.Vec, cellSize float64) {
	h.cellSize = cellSize
	n := uint32(len(h.entries))

	for i := range points {
		cx, cy, cz := cellCoord(points[i], cellSize)
		h.entries[i] = gridEntry{particle: int32(i), key: hashCell(cx, cy, cz) % n}
		h.startIndices[i] = noParticles
	}

	slices.SortFunc(h.entries, func(a, b gridEntry) int {
		return cmp.Compare(a.key, b.key)
	})

	for i := range h.entries {
		k := h.entries[i].key
		if i == 0 || h.entries[i-1].key != k {
			h.startIndices[k] = uint32(i)
		}
	}
}

// QueryInto appends to dst the indices of every particle whose cell is
// one of the 27 cells in the 3x3x3 block around p's cell, and returns
// the extended slice. Reuse dst across calls to avoid allocations.
//
// The result is a superset of the particles within one cell size of p:
// it is not filtered by distance, and hash collisions between distinct
// cells can contribute extra (or duplicate) candidates. Callers must
// apply their own squared-distance check.
func (h *SpatialHash) QueryInto(dst []int32, p r3.Vec) []int32 {
	cx, cy, cz := cellCoord(p, h.cellSize)
	n := uint32(len(h.entries))

	for dz := int32(-1); dz <= 1; dz++ {
		for dy := int32(-1); dy <= 1; dy++ {
			for dx := int32(-1); dx <= 1; dx++ {
				key := hashCell(cx+dx, cy+dy, cz+dz) % n
				start := h.startIndices[key]
				if start == noParticles {
					continue
				}
				for i := start; i < n && h.entries[i].key == key; i++ {
					dst = append(dst, h.entries[i].particle)
				}
			}
		}
	}
	return dst
}

// cellCoord maps a point to integer cell coordinates. Go's float-to-int
// conversion truncates toward zero, which is the bucketing the solver
// was tuned against; mathematical floor would shift boundaries for
// negative coordinates.
func cellCoord(p r3.Vec, cellSize float64) (x, y, z int32) {
	return int32(p.X / cellSize), int32(p.Y / cellSize), int32(p.Z / cellSize)
}

// hashCell combines cell coordinates with wrapping uint32 arithmetic.
func hashCell(x, y, z int32) uint32 {
	return uint32(x)*hashK1 + uint32(y)*hashK2 + uint32(z)*hashK3
}
