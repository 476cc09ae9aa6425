package spatialhash

import (
	"math"
	"testing"
)

// gridLikeVisitor is a minimal VoxelRayVisitor standing in for a real
// grid, with unit cells and world origin at {0,0,0}.
type gridLikeVisitor struct{}

func (gridLikeVisitor) CellOf(p Float3) Int3 {
	return p.FloorToInt3()
}

func (gridLikeVisitor) PointOf(cell Int3, centered bool) Float3 {
	corner := Float3{float64(cell.X), float64(cell.Y), float64(cell.Z)}
	if centered {
		return corner.Add(Float3{0.5, 0.5, 0.5})
	}
	return corner
}

func (gridLikeVisitor) CellSize() Float3 { return Float3{1, 1, 1} }

func TestWalkVoxelRayAxisAligned(t *testing.T) {
	var visited []Int3
	WalkVoxelRay(gridLikeVisitor{}, Float3{0.5, 0.5, 0.5}, Float3{1, 0, 0}, 5, func(c Int3) bool {
		visited = append(visited, c)
		return false
	})

	want := []Int3{{0, 0, 0}, {1, 0, 0}, {2, 0, 0}, {3, 0, 0}, {4, 0, 0}, {5, 0, 0}}
	if len(visited) != len(want) {
		t.Fatalf("visited %d cells, want %d: %+v", len(visited), len(want), visited)
	}
	for i, c := range want {
		if visited[i] != c {
			t.Errorf("cell %d: got %+v, want %+v", i, visited[i], c)
		}
	}
}

func TestWalkVoxelRayStopsOnHit(t *testing.T) {
	var visited []Int3
	WalkVoxelRay(gridLikeVisitor{}, Float3{0.5, 0.5, 0.5}, Float3{1, 0, 0}, 5, func(c Int3) bool {
		visited = append(visited, c)
		return c.X == 2
	})

	if len(visited) != 3 {
		t.Fatalf("expected the walk to stop after 3 cells, got %d: %+v", len(visited), visited)
	}
}

func TestWalkVoxelRayDiagonal(t *testing.T) {
	var visited []Int3
	dir := Float3{1, 1, 1}
	WalkVoxelRay(gridLikeVisitor{}, Float3{0.5, 0.5, 0.5}, dir, 3, func(c Int3) bool {
		visited = append(visited, c)
		return false
	})

	if len(visited) == 0 {
		t.Fatal("expected at least one visited cell")
	}
	if visited[0] != (Int3{0, 0, 0}) {
		t.Errorf("first cell: got %+v, want {0 0 0}", visited[0])
	}
}

func TestWalkVoxelRayNaNDirection(t *testing.T) {
	nan := Float3{math.NaN(), 0, 0}
	called := false
	WalkVoxelRay(gridLikeVisitor{}, Float3{0, 0, 0}, nan, 5, func(c Int3) bool {
		called = true
		return false
	})
	if called {
		t.Error("expected NaN direction to short-circuit the walk")
	}
}
