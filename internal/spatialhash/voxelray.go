package spatialhash

import "math"

// VoxelRayVisitor is implemented by whatever owns the grid being walked.
// CellOf maps a world point to the cell containing it; PointOf maps a
// cell back to a world point — either its corner (centered=false) or its
// centre (centered=true); CellSize returns the grid's per-axis cell size.
type VoxelRayVisitor interface {
	CellOf(p Float3) Int3
	PointOf(cell Int3, centered bool) Float3
	CellSize() Float3
}

// VoxelRayOnCell is called once per cell the ray crosses, in order. It
// returns true to stop the walk immediately (a hit), false to continue.
type VoxelRayOnCell func(cell Int3) (stop bool)

// WalkVoxelRay performs an amortised-O(1)-per-cell 3-D DDA walk
// (Amanatides & Woo, 1987, "A Fast Voxel Traversal Algorithm for Ray
// Tracing") over the cells a ray of the given direction and length
// crosses, starting from the cell containing origin. onCell is invoked
// for each cell visited, in crossing order, until it signals a hit or
// until voxel_distance = 1 + manhattan_distance(start, end) cells have
// been visited, whichever comes first. Ties between axes are broken
// x < y < z.
//
// A NaN direction component short-circuits the walk as "hit nothing".
func WalkVoxelRay(v VoxelRayVisitor, origin, dir Float3, length float64, onCell VoxelRayOnCell) {
	if isNaN3(dir) {
		return
	}

	startCell := v.CellOf(origin)
	endCell := v.CellOf(origin.Add(dir.Scale(length)))
	maxSteps := 1 + startCell.ManhattanDistance(endCell)

	step := Int3{X: stepSign(dir.X), Y: stepSign(dir.Y), Z: stepSign(dir.Z)}
	cellSize := v.CellSize()

	nextBoundaryCell := startCell
	if step.X > 0 {
		nextBoundaryCell.X++
	}
	if step.Y > 0 {
		nextBoundaryCell.Y++
	}
	if step.Z > 0 {
		nextBoundaryCell.Z++
	}
	boundary := v.PointOf(nextBoundaryCell, false)

	tMax := Float3{
		X: axisT(boundary.X, origin.X, dir.X),
		Y: axisT(boundary.Y, origin.Y, dir.Y),
		Z: axisT(boundary.Z, origin.Z, dir.Z),
	}
	tDelta := Float3{
		X: axisTDelta(step.X, cellSize.X, dir.X),
		Y: axisTDelta(step.Y, cellSize.Y, dir.Y),
		Z: axisTDelta(step.Z, cellSize.Z, dir.Z),
	}

	cell := startCell
	for i := 0; i < maxSteps; i++ {
		if onCell(cell) {
			return
		}

		switch smallestAxis(tMax) {
		case 0:
			cell.X += step.X
			tMax.X += tDelta.X
		case 1:
			cell.Y += step.Y
			tMax.Y += tDelta.Y
		default:
			cell.Z += step.Z
			tMax.Z += tDelta.Z
		}
	}
}

// stepSign maps a direction component to a grid step: zero direction
// maps to +1 rather than 0. Such an axis gets tMax = +Inf from axisT, so
// the walk never advances along it while another axis has a finite tMax.
func stepSign(d float64) int32 {
	if d < 0 {
		return -1
	}
	return 1
}

// axisT computes the ray parameter at which it crosses `boundary` along
// one axis, treating a near-zero direction component as "never" (+Inf).
func axisT(boundary, originAxis, dirAxis float64) float64 {
	if math.Abs(dirAxis) < rayEpsilon {
		return math.Inf(1)
	}
	return (boundary - originAxis) / dirAxis
}

func axisTDelta(step int32, cellSize, dirAxis float64) float64 {
	if math.Abs(dirAxis) < rayEpsilon {
		return math.Inf(1)
	}
	return float64(step) * cellSize / dirAxis
}

// smallestAxis picks the axis with the smallest tMax, breaking ties x<y<z.
func smallestAxis(t Float3) int {
	axis := 0
	best := t.X
	if t.Y < best {
		axis, best = 1, t.Y
	}
	if t.Z < best {
		axis = 2
	}
	return axis
}

func isNaN3(v Float3) bool {
	return math.IsNaN(v.X) || math.IsNaN(v.Y) || math.IsNaN(v.Z)
}
