package spatialhash

// gridVisitor adapts a SpatialHash to VoxelRayVisitor so RayCast can
// reuse WalkVoxelRay without exposing cell-math on the public API.
type gridVisitor[T Item] struct {
	h *SpatialHash[T]
}

func (v gridVisitor[T]) CellOf(p Float3) Int3 {
	return scaleFloorCell(p, v.h.worldBounds.Min(), v.h.cellSize)
}

func (v gridVisitor[T]) PointOf(cell Int3, centered bool) Float3 {
	wmin := v.h.worldBounds.Min()
	corner := wmin.Add(Float3{
		X: float64(cell.X) * v.h.cellSize.X,
		Y: float64(cell.Y) * v.h.cellSize.Y,
		Z: float64(cell.Z) * v.h.cellSize.Z,
	})
	if !centered {
		return corner
	}
	return corner.Add(v.h.cellSize.Scale(0.5))
}

func (v gridVisitor[T]) CellSize() Float3 { return v.h.cellSize }

// QueryCell returns the ids, each once, of every item whose clamped bounds
// overlap the given grid cell. Ids that share the cell's bucket slot only
// through a hash collision are skipped; no AABB re-filtering is applied.
func (h *SpatialHash[T]) QueryCell(cell Int3) []ItemId {
	slot := h.buckets.slotFor(cell)
	n := slot.len()
	out := make([]ItemId, 0, n)
	seen := make(map[ItemId]struct{}, n)
	for i := 0; i < n; i++ {
		id := slot.ids[i]
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		bounds, ok := h.idToBounds.get(id)
		if !ok {
			continue
		}
		start, end := h.cellRange(bounds)
		if cell.X < start.X || cell.X >= end.X || cell.Y < start.Y || cell.Y >= end.Y || cell.Z < start.Z || cell.Z >= end.Z {
			continue
		}
		out = append(out, id)
	}
	return out
}

// QueryCellsAABB returns, without deduplication or AABB re-filtering,
// every (possibly repeated) id found across every cell query's AABB
// overlaps. Callers that need exact results should use QueryAABB.
func (h *SpatialHash[T]) QueryCellsAABB(query AABB) []ItemId {
	start, end := h.cellRange(query)
	var out []ItemId
	forEachCell(start, end, func(c Int3) {
		out = append(out, h.QueryCell(c)...)
	})
	return out
}

// cellCenter returns the world-space centre of cell.
func (h *SpatialHash[T]) cellCenter(cell Int3) Float3 {
	return gridVisitor[T]{h: h}.PointOf(cell, true)
}

// obbHitsCell is the three-ray cell test: from the cell's centre, three
// short rays are cast, one per axis, spanning exactly that axis's cell
// side from the cell's low face to its high face. The cell survives if
// query is hit by any of the three. This is a documented approximation,
// not a conservative OBB-vs-cell overlap test in every edge case (very
// thin boxes, acute rotations) — it is the heuristic the test suite is
// built against, not a stand-in for an exact test.
func (h *SpatialHash[T]) obbHitsCell(query OBB, cell Int3) bool {
	center := h.cellCenter(cell)

	if _, ok := query.ClipRayOBB(center.Sub(Float3{X: h.cellSize.X / 2}), Float3{X: 1}, h.cellSize.X); ok {
		return true
	}
	if _, ok := query.ClipRayOBB(center.Sub(Float3{Y: h.cellSize.Y / 2}), Float3{Y: 1}, h.cellSize.Y); ok {
		return true
	}
	if _, ok := query.ClipRayOBB(center.Sub(Float3{Z: h.cellSize.Z / 2}), Float3{Z: 1}, h.cellSize.Z); ok {
		return true
	}
	return false
}

// paddedForCellTest widens query by one cell of pruning slack (split
// evenly between both sides of every axis) before the three-ray cell
// test runs, so the heuristic doesn't under-prune cells the true
// rotated box only barely reaches.
func (h *SpatialHash[T]) paddedForCellTest(query OBB) OBB {
	padded := query
	padded.Extents = query.Extents.Add(h.cellSize.Scale(0.5))
	return padded
}

// QueryCellsOBB returns, without deduplication or AABB re-filtering,
// every (possibly repeated) id found across the candidate cells spec's
// OBB broad phase selects: the world-aligned enclosure of query
// (TransformBounds) gives the outer cell range; each candidate cell within that
// range is then kept only if obbHitsCell survives against query padded
// by one cell of slack.
func (h *SpatialHash[T]) QueryCellsOBB(query OBB) []ItemId {
	enclosure := query.TransformBounds()
	enclosure.Clamp(h.worldBounds)
	start, end := h.cellRange(enclosure)
	padded := h.paddedForCellTest(query)

	var out []ItemId
	forEachCell(start, end, func(c Int3) {
		if h.obbHitsCell(padded, c) {
			out = append(out, h.QueryCell(c)...)
		}
	})
	return out
}

// QueryAABB returns the deduplicated ids of every item whose cached
// bounds actually intersect query, re-filtering every candidate pulled
// from the broad-phase cell scan against its true AABB.
func (h *SpatialHash[T]) QueryAABB(query AABB) []ItemId {
	seen := make(map[ItemId]struct{})
	var out []ItemId
	start, end := h.cellRange(query)
	forEachCell(start, end, func(c Int3) {
		slot := h.buckets.slotFor(c)
		n := slot.len()
		for i := 0; i < n; i++ {
			id := slot.ids[i]
			if _, dup := seen[id]; dup {
				continue
			}
			bounds, ok := h.idToBounds.get(id)
			if !ok {
				continue
			}
			if bounds.Intersects(query) {
				seen[id] = struct{}{}
				out = append(out, id)
			}
		}
	})
	return out
}

// QueryOBB returns the deduplicated ids of every item the OBB broad
// phase selects: candidate cells come from obbHitsCell (query's
// TransformBounds enclosure for the cell range, query padded by one cell
// of slack for the per-cell ray test); surviving cells' bucket contents
// are unioned and then re-filtered against the same plain AABB
// intersection post-filter QueryAABB uses, checked against query's
// enclosure rather than the true rotated box. This mirrors QueryAABB's
// two-stage filter exactly, substituting the OBB's TransformBounds AABB
// enclosure for the literal query AABB at both stages.
func (h *SpatialHash[T]) QueryOBB(query OBB) []ItemId {
	enclosure := query.TransformBounds()
	enclosure.Clamp(h.worldBounds)
	start, end := h.cellRange(enclosure)
	padded := h.paddedForCellTest(query)

	seen := make(map[ItemId]struct{})
	var out []ItemId
	forEachCell(start, end, func(c Int3) {
		if !h.obbHitsCell(padded, c) {
			return
		}
		slot := h.buckets.slotFor(c)
		n := slot.len()
		for i := 0; i < n; i++ {
			id := slot.ids[i]
			if _, dup := seen[id]; dup {
				continue
			}
			bounds, ok := h.idToBounds.get(id)
			if !ok {
				continue
			}
			if bounds.Intersects(enclosure) {
				seen[id] = struct{}{}
				out = append(out, id)
			}
		}
	})
	return out
}

// RayCast walks the grid along origin+t*dir for t in [0, length] using
// the Amanatides-Woo DDA, testing each visited cell's candidates against
// the true ray/AABB clip, and returns the first item whose bounds the
// ray actually enters plus the world-space entry point. RayCast mutates
// scratch fields on h and is therefore an exclusive-mode-only operation.
func (h *SpatialHash[T]) RayCast(origin, dir Float3, length float64) (id ItemId, hit Float3, ok bool) {
	h.rayOrigin, h.rayDir, h.hasHit, h.hitID = origin, dir, false, 0
	var hitPoint Float3

	visitor := gridVisitor[T]{h: h}
	WalkVoxelRay(visitor, origin, dir, length, func(cell Int3) bool {
		slot := h.buckets.slotFor(cell)
		n := slot.len()
		for i := 0; i < n; i++ {
			candidate := slot.ids[i]
			bounds, present := h.idToBounds.get(candidate)
			if !present {
				continue
			}
			if entry, clipped := bounds.ClipRay(origin, dir, length); clipped {
				h.hasHit = true
				h.hitID = candidate
				hitPoint = entry
				return true
			}
		}
		return false
	})

	return h.hitID, hitPoint, h.hasHit
}
