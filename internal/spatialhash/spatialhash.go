package spatialhash

import "sync/atomic"

// ItemId is a 32-bit, non-zero, monotonically increasing identity
// assigned at insert time. Ids are never reused within a grid's
// lifetime, even across Clear.
type ItemId uint32

// Item is the capability contract an inserted payload must satisfy.
// Center/Size describe the item's world-space AABB (Size is the full
// extent, not the half-extent). SpatialHashingIndex/SetSpatialHashingIndex
// back the id into the caller's own record so Remove/MoveItem never need
// a reverse lookup by value. T is expected to be a pointer type so that
// SetSpatialHashingIndex's mutation is visible to the caller.
type Item interface {
	Center() Float3
	Size() Float3
	SpatialHashingIndex() ItemId
	SetSpatialHashingIndex(ItemId)
}

// SpatialHash is a uniform-grid spatial index over items of type T. The
// zero value is not usable; construct with New.
type SpatialHash[T Item] struct {
	worldBounds AABB
	cellSize    Float3
	cellCount   Int3

	idCounter atomic.Uint32

	buckets    *bucketTable
	idToBounds *valueTable[AABB]
	idToItem   *valueTable[T]

	// scratch sets for MoveItem, owned by the grid and reused across
	// calls rather than allocated per move.
	moveScratchOld map[Int3]struct{}
	moveScratchNew map[Int3]struct{}

	// ray-cast scratch state; writing to these is why RayCast is
	// exclusive-mode only (spec §5).
	rayOrigin Float3
	rayDir    Float3
	hasHit    bool
	hitID     ItemId
}

// New constructs an empty grid over worldBounds with the given cellSize
// and pre-sized for initialSize items. It fails with a *ConfigError when
// initialSize < 1 or cellSize is not strictly positive componentwise.
func New[T Item](worldBounds AABB, cellSize Float3, initialSize int) (*SpatialHash[T], error) {
	if initialSize < 1 {
		return nil, &ConfigError{Reason: "initialSize must be >= 1"}
	}
	if cellSize.X <= 0 || cellSize.Y <= 0 || cellSize.Z <= 0 {
		return nil, &ConfigError{Reason: "cellSize must be strictly positive on every axis"}
	}

	cellCount := worldBounds.CellCount(cellSize)

	avgCellsPerItem := 8
	h := &SpatialHash[T]{
		worldBounds:    worldBounds,
		cellSize:       cellSize,
		cellCount:      cellCount,
		buckets:        newBucketTable(initialSize*2, avgCellsPerItem),
		idToBounds:     newValueTable[AABB](initialSize),
		idToItem:       newValueTable[T](initialSize),
		moveScratchOld: make(map[Int3]struct{}),
		moveScratchNew: make(map[Int3]struct{}),
	}
	return h, nil
}

func clampedBounds(item Item, world AABB) AABB {
	b := AABB{Center: item.Center(), Extents: item.Size().Scale(0.5)}
	b.Clamp(world)
	return b
}

// cellRange returns the half-open cell interval [start, end) a clamped
// AABB overlaps: start = floor((min-Wmin)/C), end = ceil((max-Wmin)/C).
func (h *SpatialHash[T]) cellRange(b AABB) (start, end Int3) {
	wmin := h.worldBounds.Min()
	start = scaleFloorCell(b.Min(), wmin, h.cellSize)
	end = scaleCeilCell(b.Max(), wmin, h.cellSize)
	return start, end
}

func scaleFloorCell(p, worldMin Float3, cell Float3) Int3 {
	d := p.Sub(worldMin)
	return Float3{d.X / cell.X, d.Y / cell.Y, d.Z / cell.Z}.FloorToInt3()
}

func scaleCeilCell(p, worldMin Float3, cell Float3) Int3 {
	d := p.Sub(worldMin)
	return Float3{d.X / cell.X, d.Y / cell.Y, d.Z / cell.Z}.CeilToInt3()
}

func forEachCell(start, end Int3, f func(Int3)) {
	for x := start.X; x < end.X; x++ {
		for y := start.Y; y < end.Y; y++ {
			for z := start.Z; z < end.Z; z++ {
				f(Int3{x, y, z})
			}
		}
	}
}

func (h *SpatialHash[T]) insertCells(id ItemId, b AABB) {
	start, end := h.cellRange(b)
	forEachCell(start, end, func(c Int3) {
		h.buckets.appendGrowing(c, id)
	})
}

func (h *SpatialHash[T]) removeCells(id ItemId, b AABB) {
	start, end := h.cellRange(b)
	forEachCell(start, end, func(c Int3) {
		if !h.buckets.remove(c, id) && Debug {
			panic(ErrInvariantViolation)
		}
	})
}

// Add clamps item's bounds to the world, assigns a fresh id (written
// back into item), records it in every table, and inserts it into every
// cell its bounds overlap.
func (h *SpatialHash[T]) Add(item T) ItemId {
	id := ItemId(h.idCounter.Add(1))
	item.SetSpatialHashingIndex(id)

	bounds := clampedBounds(item, h.worldBounds)
	h.idToBounds.upsertGrowing(id, bounds)
	h.idToItem.upsertGrowing(id, item)
	h.insertCells(id, bounds)
	return id
}

// AddFast is Add using the id already stored in item, overwriting any
// existing reverse-table entries. It exists solely as the second half
// of a remove_fast/add_fast move pairing.
func (h *SpatialHash[T]) AddFast(item T) {
	id := item.SpatialHashingIndex()
	bounds := clampedBounds(item, h.worldBounds)
	h.idToBounds.upsertGrowing(id, bounds)
	h.idToItem.upsertGrowing(id, item)
	h.insertCells(id, bounds)
}

// Remove deletes id from both reverse tables and from every cell bucket
// its cached bounds touch. It fails with ErrUnknownID if id is absent.
func (h *SpatialHash[T]) Remove(id ItemId) error {
	bounds, ok := h.idToBounds.get(id)
	if !ok {
		return ErrUnknownID
	}
	h.idToBounds.delete(id)
	h.idToItem.delete(id)
	h.removeCells(id, bounds)
	return nil
}

// RemoveFast removes id only from the bucket table, leaving the reverse
// tables intact so a paired AddFast can still read the cached bounds.
func (h *SpatialHash[T]) RemoveFast(id ItemId) error {
	bounds, ok := h.idToBounds.get(id)
	if !ok {
		return ErrUnknownID
	}
	h.removeCells(id, bounds)
	return nil
}

// MoveItem recomputes item's AABB, diffs it against the cached bounds
// for item's id, and visits only the symmetric difference of the old and
// new cell ranges: cells the item leaves are vacated, cells it enters
// are populated, and cells in both ranges are left untouched.
//
// This follows the older, documented-correct variant of the algorithm
// (see DESIGN.md Open Questions): iterate the old range removing
// anything not present in the new range, then iterate the new range
// adding anything not present in the old range.
func (h *SpatialHash[T]) MoveItem(item T) error {
	id := item.SpatialHashingIndex()
	oldBounds, ok := h.idToBounds.get(id)
	if !ok {
		return ErrUnknownID
	}
	newBounds := clampedBounds(item, h.worldBounds)

	oldStart, oldEnd := h.cellRange(oldBounds)
	newStart, newEnd := h.cellRange(newBounds)

	for k := range h.moveScratchNew {
		delete(h.moveScratchNew, k)
	}
	forEachCell(newStart, newEnd, func(c Int3) { h.moveScratchNew[c] = struct{}{} })

	forEachCell(oldStart, oldEnd, func(c Int3) {
		if _, stillPresent := h.moveScratchNew[c]; !stillPresent {
			if !h.buckets.remove(c, id) && Debug {
				panic(ErrInvariantViolation)
			}
		}
	})

	for k := range h.moveScratchOld {
		delete(h.moveScratchOld, k)
	}
	forEachCell(oldStart, oldEnd, func(c Int3) { h.moveScratchOld[c] = struct{}{} })

	forEachCell(newStart, newEnd, func(c Int3) {
		if _, wasPresent := h.moveScratchOld[c]; !wasPresent {
			h.buckets.appendGrowing(c, id)
		}
	})

	h.idToBounds.upsertGrowing(id, newBounds)
	h.idToItem.upsertGrowing(id, item)
	return nil
}

// Clear empties all three tables. The id counter is not reset, so ids
// assigned after Clear never collide with ids assigned before it.
func (h *SpatialHash[T]) Clear() {
	h.buckets.clear()
	h.idToBounds.clear()
	h.idToItem.clear()
}

// PrepareFreePlace grows table capacities, in powers of two, so that
// each can accept n more entries without reallocating. Callers must
// invoke this before handing out a ConcurrentWriter for parallel
// insertion, since shared-write mode can never resize.
func (h *SpatialHash[T]) PrepareFreePlace(n int) {
	needed := int(h.idCounter.Load()) + n
	h.idToBounds.grow(needed)
	h.idToItem.grow(needed)

	avgCellsPerItem := 8
	h.buckets.prepareSlotCapacity(n * avgCellsPerItem / len(h.buckets.slots))
}

// Get returns the item stored for id, if it is currently live.
func (h *SpatialHash[T]) Get(id ItemId) (T, bool) {
	return h.idToItem.get(id)
}

// ItemCount returns the number of live items.
func (h *SpatialHash[T]) ItemCount() int {
	count := 0
	for _, present := range h.idToItem.present {
		if present {
			count++
		}
	}
	return count
}

// BucketItemCount returns the total number of (cell, id) entries across
// every bucket — the sum, over live items, of the cells their clamped
// bounds overlap.
func (h *SpatialHash[T]) BucketItemCount() int {
	return int(h.buckets.occupied.Load())
}

// CellSize returns the grid's fixed per-axis cell size.
func (h *SpatialHash[T]) CellSize() Float3 { return h.cellSize }

// WorldBounds returns the grid's fixed world bounds.
func (h *SpatialHash[T]) WorldBounds() AABB { return h.worldBounds }

// CellCount returns ceil(size(WorldBounds)/CellSize) componentwise.
func (h *SpatialHash[T]) CellCount() Int3 { return h.cellCount }

// ToConcurrent derives a cloneable shared-writer handle over h's tables
// and id counter. The handle is valid only while h is alive and only
// until the next PrepareFreePlace/resize, after which callers must
// re-derive it.
func (h *SpatialHash[T]) ToConcurrent() *ConcurrentWriter[T] {
	return &ConcurrentWriter[T]{
		worldBounds: h.worldBounds,
		buckets:     h.buckets,
		idToBounds:  h.idToBounds,
		idToItem:    h.idToItem,
		idCounter:   &h.idCounter,
		cellRange:   h.cellRange,
	}
}
