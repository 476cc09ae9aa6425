package spatialhash

import "testing"

func benchGrid(b *testing.B, n int) (*SpatialHash[*testBody], []*testBody) {
	b.Helper()
	world := NewAABBFromCenterSize(Float3{0, 0, 0}, Float3{1000, 1000, 1000})
	h, err := New[*testBody](world, Float3{1, 1, 1}, n)
	if err != nil {
		b.Fatalf("New: %v", err)
	}
	bodies := make([]*testBody, n)
	for i := range bodies {
		bodies[i] = &testBody{
			center: Float3{float64(i % 200), float64((i / 200) % 200), float64(i / 40000)},
			size:   Float3{1, 1, 1},
		}
	}
	return h, bodies
}

func BenchmarkAdd(b *testing.B) {
	h, bodies := benchGrid(b, b.N+1)
	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		h.Add(bodies[i])
	}
}

func BenchmarkQueryAABB(b *testing.B) {
	h, bodies := benchGrid(b, 10000)
	for _, body := range bodies {
		h.Add(body)
	}
	query := NewAABBFromCenterSize(Float3{100, 100, 0}, Float3{20, 20, 20})

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		h.QueryAABB(query)
	}
}

func BenchmarkRayCast(b *testing.B) {
	h, bodies := benchGrid(b, 10000)
	for _, body := range bodies {
		h.Add(body)
	}

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		h.RayCast(Float3{0, 0, 0}, Float3{1, 1, 0}, 200)
	}
}

func BenchmarkMoveItem(b *testing.B) {
	h, bodies := benchGrid(b, 1000)
	for _, body := range bodies {
		h.Add(body)
	}

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		body := bodies[i%len(bodies)]
		body.center = body.center.Add(Float3{1, 0, 0})
		h.MoveItem(body)
	}
}
