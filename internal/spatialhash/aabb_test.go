package spatialhash

import "testing"

func TestAABBMinMaxSize(t *testing.T) {
	b := NewAABBFromCenterSize(Float3{0, 0, 0}, Float3{4, 2, 6})
	if got := b.Min(); got != (Float3{-2, -1, -3}) {
		t.Errorf("Min: got %+v", got)
	}
	if got := b.Max(); got != (Float3{2, 1, 3}) {
		t.Errorf("Max: got %+v", got)
	}
	if got := b.Size(); got != (Float3{4, 2, 6}) {
		t.Errorf("Size: got %+v", got)
	}
}

func TestAABBIntersects(t *testing.T) {
	tests := []struct {
		name string
		a, b AABB
		want bool
	}{
		{"overlapping", NewAABBFromCenterSize(Float3{0, 0, 0}, Float3{2, 2, 2}), NewAABBFromCenterSize(Float3{1, 1, 1}, Float3{2, 2, 2}), true},
		{"touching faces", NewAABBFromCenterSize(Float3{0, 0, 0}, Float3{2, 2, 2}), NewAABBFromCenterSize(Float3{2, 0, 0}, Float3{2, 2, 2}), true},
		{"disjoint", NewAABBFromCenterSize(Float3{0, 0, 0}, Float3{2, 2, 2}), NewAABBFromCenterSize(Float3{10, 10, 10}, Float3{2, 2, 2}), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Intersects(tt.b); got != tt.want {
				t.Errorf("Intersects: got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAABBEncapsulate(t *testing.T) {
	b := NewAABBFromCenterSize(Float3{0, 0, 0}, Float3{2, 2, 2})
	b.EncapsulatePoint(Float3{5, 0, 0})

	if got := b.Max().X; got != 5 {
		t.Errorf("Max.X after EncapsulatePoint: got %v, want 5", got)
	}
	if got := b.Min().X; got != -1 {
		t.Errorf("Min.X after EncapsulatePoint: got %v, want -1", got)
	}
}

func TestAABBClamp(t *testing.T) {
	world := NewAABBFromCenterSize(Float3{0, 0, 0}, Float3{10, 10, 10})
	b := NewAABBFromCenterSize(Float3{8, 0, 0}, Float3{4, 4, 4})
	b.Clamp(world)

	if got := b.Max().X; got != 5 {
		t.Errorf("Max.X after Clamp: got %v, want 5", got)
	}
}

func TestAABBClipRayHit(t *testing.T) {
	b := NewAABBFromCenterSize(Float3{0, 0, 0}, Float3{2, 2, 2})
	entry, ok := b.ClipRay(Float3{-5, 0, 0}, Float3{1, 0, 0}, 10)
	if !ok {
		t.Fatal("expected hit")
	}
	if entry.X != -1 {
		t.Errorf("entry.X: got %v, want -1", entry.X)
	}
}

func TestAABBClipRayMiss(t *testing.T) {
	b := NewAABBFromCenterSize(Float3{0, 0, 0}, Float3{2, 2, 2})
	_, ok := b.ClipRay(Float3{-5, 5, 0}, Float3{1, 0, 0}, 10)
	if ok {
		t.Fatal("expected miss")
	}
}

func TestAABBClipRayTooShort(t *testing.T) {
	b := NewAABBFromCenterSize(Float3{0, 0, 0}, Float3{2, 2, 2})
	_, ok := b.ClipRay(Float3{-5, 0, 0}, Float3{1, 0, 0}, 2)
	if ok {
		t.Fatal("expected miss: ray ends before reaching the box")
	}
}

func TestOBBClipRayOBB(t *testing.T) {
	// A box rotated 90 degrees about Z: local X axis now points along world Y.
	rot := Mat3{{0, -1, 0}, {1, 0, 0}, {0, 0, 1}}
	o := OBB{Center: Float3{0, 0, 0}, Extents: Float3{1, 3, 1}, Rotation: rot}

	// World-space ray travelling along +Y should see the box's short (local X,
	// extent 1) axis, so it enters near y=-1 rather than y=-3.
	entry, ok := o.ClipRayOBB(Float3{0, -5, 0}, Float3{0, 1, 0}, 10)
	if !ok {
		t.Fatal("expected hit")
	}
	if diff := entry.Y - (-1); diff < -1e-9 || diff > 1e-9 {
		t.Errorf("entry.Y: got %v, want -1", entry.Y)
	}
}

func TestOBBTransformBoundsAxisAligned(t *testing.T) {
	o := OBB{Center: Float3{1, 2, 3}, Extents: Float3{1, 2, 3}, Rotation: Identity3()}
	b := o.TransformBounds()
	if got := b.Size(); got != (Float3{2, 4, 6}) {
		t.Errorf("Size: got %+v, want {2 4 6}", got)
	}
}

func TestOBBTransformBoundsRotated(t *testing.T) {
	// 90-degree rotation about Z swaps X and Y extents in the enclosure.
	rot := Mat3{{0, -1, 0}, {1, 0, 0}, {0, 0, 1}}
	o := OBB{Center: Float3{0, 0, 0}, Extents: Float3{1, 3, 1}, Rotation: rot}
	b := o.TransformBounds()

	want := Float3{6, 2, 2}
	if got := b.Size(); got != want {
		t.Errorf("Size: got %+v, want %+v", got, want)
	}
}
