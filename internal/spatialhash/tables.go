package spatialhash

import (
	"runtime"
	"sync/atomic"
)

// nextPowerOfTwo rounds n up to the next power of two (minimum 1).
// Grounded on the same bit-twiddling idiom used across the pack's
// spatial-grid implementations for bucket-count sizing.
func nextPowerOfTwo(n int) int {
	if n <= 0 {
		return 1
	}
	n--
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n++
	return n
}

// valueTable is a dense, id-indexed reverse table (id_to_bounds or
// id_to_item). Because ItemId is assigned from a single monotonically
// increasing counter, every live id maps to a unique, never-reused slot
// index — so concurrent writers holding distinct ids never touch the
// same slot, and no per-entry locking is needed. Growing the backing
// slices (done only from exclusive mode) is the one operation that is
// not safe to run concurrently with writers; shared-write mode never
// resizes.
type valueTable[V any] struct {
	data    []V
	present []bool
}

func newValueTable[V any](capacity int) *valueTable[V] {
	cap := nextPowerOfTwo(capacity)
	return &valueTable[V]{
		data:    make([]V, cap),
		present: make([]bool, cap),
	}
}

func (t *valueTable[V]) capacity() int { return len(t.data) }

// tryUpsert writes v at id's slot if the table currently has room for
// it. It never grows the table itself — callers in shared-write mode
// must have reserved room ahead of time via PrepareFreePlace.
func (t *valueTable[V]) tryUpsert(id ItemId, v V) bool {
	idx := int(id) - 1
	if idx < 0 || idx >= len(t.data) {
		return false
	}
	t.data[idx] = v
	t.present[idx] = true
	return true
}

// upsertGrowing is tryUpsert with automatic capacity growth, exclusive
// mode only — mirrors bucketTable.appendGrowing so Add/AddFast/MoveItem
// never fail on capacity outside the concurrent writer (spec §4.D.5
// scopes CapacityExhausted to ConcurrentWriter.TryAdd alone).
func (t *valueTable[V]) upsertGrowing(id ItemId, v V) {
	if int(id)-1 >= len(t.data) {
		t.grow(int(id))
	}
	t.tryUpsert(id, v)
}

// get returns the value stored for id, if any.
func (t *valueTable[V]) get(id ItemId) (V, bool) {
	idx := int(id) - 1
	var zero V
	if idx < 0 || idx >= len(t.present) || !t.present[idx] {
		return zero, false
	}
	return t.data[idx], true
}

// delete clears id's slot. Only called from exclusive mode.
func (t *valueTable[V]) delete(id ItemId) {
	idx := int(id) - 1
	if idx < 0 || idx >= len(t.present) {
		return
	}
	var zero V
	t.data[idx] = zero
	t.present[idx] = false
}

// clear empties every slot without shrinking the backing arrays.
func (t *valueTable[V]) clear() {
	var zero V
	for i := range t.data {
		t.data[i] = zero
		t.present[i] = false
	}
}

// grow reallocates the backing slices to newCapacity (rounded up to a
// power of two), preserving existing contents. Exclusive mode only.
func (t *valueTable[V]) grow(newCapacity int) {
	newCapacity = nextPowerOfTwo(newCapacity)
	if newCapacity <= len(t.data) {
		return
	}
	data := make([]V, newCapacity)
	copy(data, t.data)
	present := make([]bool, newCapacity)
	copy(present, t.present)
	t.data = data
	t.present = present
}

// bucketSlot is a fixed-capacity append-only run of ids sharing one
// cell-hash key, plus an atomic fill cursor. Appending claims a slot via
// compare-and-swap, so concurrent producers targeting the very same
// bucket (a cell-hash collision) never overwrite each other's entry —
// the same pattern the pack's lock-free ring buffer uses to let multiple
// producers claim distinct slots without a mutex.
type bucketSlot struct {
	ids   []ItemId
	count atomic.Uint32
}

func newBucketSlot(capacity int) *bucketSlot {
	return &bucketSlot{ids: make([]ItemId, capacity)}
}

// tryAppend claims the next free slot and stores id there. It returns
// false, without retrying, once the slot is full.
func (s *bucketSlot) tryAppend(id ItemId) bool {
	for {
		cur := s.count.Load()
		if cur >= uint32(len(s.ids)) {
			return false
		}
		if s.count.CompareAndSwap(cur, cur+1) {
			s.ids[cur] = id
			return true
		}
		runtime.Gosched()
	}
}

// len returns the number of ids currently stored (exclusive-mode reads
// only need a plain load; shared-write never calls this).
func (s *bucketSlot) len() int { return int(s.count.Load()) }

// removeFirst removes the first occurrence of id via swap-with-last.
// Exclusive mode only (concurrent writers never remove).
func (s *bucketSlot) removeFirst(id ItemId) bool {
	n := int(s.count.Load())
	for i := 0; i < n; i++ {
		if s.ids[i] == id {
			last := n - 1
			s.ids[i] = s.ids[last]
			s.count.Store(uint32(last))
			return true
		}
	}
	return false
}

func (s *bucketSlot) contains(id ItemId) bool {
	n := int(s.count.Load())
	for i := 0; i < n; i++ {
		if s.ids[i] == id {
			return true
		}
	}
	return false
}

func (s *bucketSlot) clear() { s.count.Store(0) }

// bucketTable is the forward multimap from cell-hash to the ids whose
// clamped bounds overlap that cell. It is sized to a power-of-two number
// of hash slots fixed at construction (growing slot COUNT would require
// rehashing every entry, which is too expensive for the hot path); what
// PrepareFreePlace grows is each slot's append capacity.
type bucketTable struct {
	slots    []*bucketSlot
	slotCap  int
	mask     uint32
	occupied atomic.Int64 // live id-entries across all slots, for bucket_item_count
}

func newBucketTable(numSlots, slotCapacity int) *bucketTable {
	numSlots = nextPowerOfTwo(numSlots)
	slotCapacity = nextPowerOfTwo(slotCapacity)
	t := &bucketTable{
		slots:   make([]*bucketSlot, numSlots),
		slotCap: slotCapacity,
		mask:    uint32(numSlots - 1),
	}
	for i := range t.slots {
		t.slots[i] = newBucketSlot(slotCapacity)
	}
	return t
}

func (t *bucketTable) slotFor(cell Int3) *bucketSlot {
	return t.slots[cell.Hash()&t.mask]
}

// tryAppend adds id to the bucket for cell. Used by both exclusive mode
// (which grows on failure) and shared-write mode (which reports
// CapacityExhausted on failure instead).
func (t *bucketTable) tryAppend(cell Int3, id ItemId) bool {
	if t.slotFor(cell).tryAppend(id) {
		t.occupied.Add(1)
		return true
	}
	return false
}

// appendGrowing is tryAppend with automatic slot-capacity growth,
// exclusive mode only.
func (t *bucketTable) appendGrowing(cell Int3, id ItemId) {
	slot := t.slotFor(cell)
	for !slot.tryAppend(id) {
		t.growSlot(slot)
	}
	t.occupied.Add(1)
}

func (t *bucketTable) growSlot(slot *bucketSlot) {
	newCap := nextPowerOfTwo(len(slot.ids) + 1)
	grown := make([]ItemId, newCap)
	n := copy(grown, slot.ids[:slot.len()])
	slot.ids = grown
	slot.count.Store(uint32(n))
}

func (t *bucketTable) remove(cell Int3, id ItemId) bool {
	if t.slotFor(cell).removeFirst(id) {
		t.occupied.Add(-1)
		return true
	}
	return false
}

func (t *bucketTable) contains(cell Int3, id ItemId) bool {
	return t.slotFor(cell).contains(id)
}

func (t *bucketTable) clear() {
	for _, s := range t.slots {
		s.clear()
	}
	t.occupied.Store(0)
}

// prepareSlotCapacity grows every slot's capacity so it can accept at
// least minPerSlot more entries, rounding up to a power of two.
func (t *bucketTable) prepareSlotCapacity(minPerSlot int) {
	target := nextPowerOfTwo(t.slotCap + minPerSlot)
	if target <= t.slotCap {
		return
	}
	for _, s := range t.slots {
		want := target
		if need := nextPowerOfTwo(s.len() + minPerSlot); need > want {
			want = need
		}
		if len(s.ids) < want {
			grown := make([]ItemId, want)
			n := copy(grown, s.ids[:s.len()])
			s.ids = grown
			s.count.Store(uint32(n))
		}
	}
	t.slotCap = target
}
