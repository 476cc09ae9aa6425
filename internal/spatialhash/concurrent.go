package spatialhash

import "sync/atomic"

// ConcurrentWriter is the shared-write-mode handle derived from a
// SpatialHash via ToConcurrent. Multiple goroutines may call TryAdd on
// copies of the same ConcurrentWriter concurrently: the reverse tables
// are safe because each call claims a distinct id from the shared atomic
// counter, and the bucket table is safe because bucketSlot.tryAppend
// claims its slot with a CAS. No method on ConcurrentWriter ever grows a
// table — callers must call PrepareFreePlace on the owning SpatialHash,
// in exclusive mode, before handing out writers for a shared-write pass.
type ConcurrentWriter[T Item] struct {
	worldBounds AABB
	buckets     *bucketTable
	idToBounds  *valueTable[AABB]
	idToItem    *valueTable[T]
	idCounter   *atomic.Uint32
	cellRange   func(AABB) (Int3, Int3)
}

// TryAdd assigns item a fresh id, writes it back into item, and attempts
// to record it in every table. If any table lacks room — a reverse-table
// slot past capacity, or a bucket slot already full — TryAdd stops at the
// first failure and returns ErrCapacityExhausted; the item's id has
// already been consumed and is not retried automatically, matching the
// exclusive-mode fallback path described in the package's concurrency
// rules. Partial cell insertion on a capacity failure is left as-is: the
// caller is expected to finish the current shared-write pass, re-prepare
// capacity, and retry the whole batch under the grown writer rather than
// patch up a half-inserted item.
func (w *ConcurrentWriter[T]) TryAdd(item T) (ItemId, error) {
	id := ItemId(w.idCounter.Add(1))
	item.SetSpatialHashingIndex(id)

	bounds := clampedBounds(item, w.worldBounds)
	if !w.idToBounds.tryUpsert(id, bounds) {
		return 0, ErrCapacityExhausted
	}
	if !w.idToItem.tryUpsert(id, item) {
		return 0, ErrCapacityExhausted
	}

	start, end := w.cellRange(bounds)
	var failed bool
	forEachCell(start, end, func(c Int3) {
		if failed {
			return
		}
		if !w.buckets.tryAppend(c, id) {
			failed = true
		}
	})
	if failed {
		return id, ErrCapacityExhausted
	}
	return id, nil
}

// AddFast is TryAdd using the id already stored in item rather than
// drawing a fresh one, for workloads that pre-assign ids before the
// shared-write pass begins (e.g. replaying a deterministic id sequence).
func (w *ConcurrentWriter[T]) AddFast(item T) error {
	id := item.SpatialHashingIndex()
	bounds := clampedBounds(item, w.worldBounds)
	if !w.idToBounds.tryUpsert(id, bounds) {
		return ErrCapacityExhausted
	}
	if !w.idToItem.tryUpsert(id, item) {
		return ErrCapacityExhausted
	}

	start, end := w.cellRange(bounds)
	var failed bool
	forEachCell(start, end, func(c Int3) {
		if failed {
			return
		}
		if !w.buckets.tryAppend(c, id) {
			failed = true
		}
	})
	if failed {
		return ErrCapacityExhausted
	}
	return nil
}
