package spatialhash

import (
	"sync"
	"testing"
)

func TestConcurrentWriterTryAdd(t *testing.T) {
	h := newTestGrid(t)
	w := h.ToConcurrent()

	body := &testBody{center: Float3{2.5, 2.5, 2.5}, size: Float3{0.5, 0.5, 0.5}}
	id, err := w.TryAdd(body)
	if err != nil {
		t.Fatalf("TryAdd: %v", err)
	}
	if body.SpatialHashingIndex() != id {
		t.Error("TryAdd did not write the id back into the item")
	}
	if ids := h.QueryCell(Int3{52, 52, 52}); len(ids) != 1 || ids[0] != id {
		t.Errorf("QueryCell: got %v, want [%v]", ids, id)
	}
}

func TestConcurrentWriterParallelTryAdd(t *testing.T) {
	h := newTestGrid(t)
	const n = 200
	h.PrepareFreePlace(n)
	w := h.ToConcurrent()

	bodies := make([]*testBody, n)
	for i := range bodies {
		bodies[i] = &testBody{
			center: Float3{float64(i % 40), float64((i / 40) % 40), 0},
			size:   Float3{0.5, 0.5, 0.5},
		}
	}

	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := w.TryAdd(bodies[i])
			errs[i] = err
		}(i)
	}
	wg.Wait()

	seen := make(map[ItemId]bool)
	for i, err := range errs {
		if err != nil {
			t.Fatalf("TryAdd[%d]: %v", i, err)
		}
		id := bodies[i].SpatialHashingIndex()
		if seen[id] {
			t.Fatalf("duplicate id %v assigned to two bodies", id)
		}
		seen[id] = true
	}

	if got := h.ItemCount(); got != n {
		t.Errorf("ItemCount: got %d, want %d", got, n)
	}

	wantBuckets := 0
	for _, b := range bodies {
		start, end := h.cellRange(clampedBounds(b, h.worldBounds))
		wantBuckets += int(end.X-start.X) * int(end.Y-start.Y) * int(end.Z-start.Z)
	}
	if got := h.BucketItemCount(); got != wantBuckets {
		t.Errorf("BucketItemCount: got %d, want %d (occupied must be race-free under concurrent TryAdd)", got, wantBuckets)
	}
}

func TestConcurrentWriterCapacityExhausted(t *testing.T) {
	world := NewAABBFromCenterSize(Float3{0, 0, 0}, Float3{10, 10, 10})
	h, err := New[*testBody](world, Float3{1, 1, 1}, 1)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	w := h.ToConcurrent()

	var lastErr error
	for i := 0; i < 64; i++ {
		body := &testBody{center: Float3{0.5, 0.5, 0.5}, size: Float3{0.2, 0.2, 0.2}}
		if _, err := w.TryAdd(body); err != nil {
			lastErr = err
			break
		}
	}
	if lastErr != ErrCapacityExhausted {
		t.Errorf("expected ErrCapacityExhausted once tables fill up, got %v", lastErr)
	}
}
