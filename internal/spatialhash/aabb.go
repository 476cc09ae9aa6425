package spatialhash

import "math"

// AABB is an axis-aligned bounding box stored as centre + half-extents.
type AABB struct {
	Center  Float3
	Extents Float3 // half-size; Size = 2*Extents
}

// NewAABBFromMinMax builds an AABB covering the corners min and max.
func NewAABBFromMinMax(min, max Float3) AABB {
	var b AABB
	b.SetMinMax(min, max)
	return b
}

// NewAABBFromCenterSize builds an AABB from a centre and full size.
func NewAABBFromCenterSize(center, size Float3) AABB {
	return AABB{Center: center, Extents: size.Scale(0.5)}
}

// SetMinMax recomputes Center/Extents from two opposite corners.
func (b *AABB) SetMinMax(min, max Float3) {
	b.Extents = max.Sub(min).Scale(0.5)
	b.Center = min.Add(b.Extents)
}

// Min returns the box's minimum corner.
func (b AABB) Min() Float3 { return b.Center.Sub(b.Extents) }

// Max returns the box's maximum corner.
func (b AABB) Max() Float3 { return b.Center.Add(b.Extents) }

// Size returns the full (non-half) extents.
func (b AABB) Size() Float3 { return b.Extents.Scale(2) }

// Intersects reports whether b and other overlap, inclusive of touching faces.
func (b AABB) Intersects(other AABB) bool {
	amin, amax := b.Min(), b.Max()
	bmin, bmax := other.Min(), other.Max()
	return amin.X <= bmax.X && bmin.X <= amax.X &&
		amin.Y <= bmax.Y && bmin.Y <= amax.Y &&
		amin.Z <= bmax.Z && bmin.Z <= amax.Z
}

// EncapsulatePoint grows b to cover p, if necessary.
func (b *AABB) EncapsulatePoint(p Float3) {
	min := b.Min().Min(p)
	max := b.Max().Max(p)
	b.SetMinMax(min, max)
}

// Encapsulate grows b to cover other, if necessary.
func (b *AABB) Encapsulate(other AABB) {
	min := b.Min().Min(other.Min())
	max := b.Max().Max(other.Max())
	b.SetMinMax(min, max)
}

// Clamp constrains b's min/max to lie within world, componentwise.
func (b *AABB) Clamp(world AABB) {
	wmin, wmax := world.Min(), world.Max()
	min := b.Min().Max(wmin).Min(wmax)
	max := b.Max().Max(wmin).Min(wmax)
	b.SetMinMax(min, max)
}

// Expand grows the extents by f on every axis.
func (b *AABB) Expand(f float64) {
	b.Extents = b.Extents.Add(Float3{f, f, f})
}

// ExpandVec grows the extents by v componentwise.
func (b *AABB) ExpandVec(v Float3) {
	b.Extents = b.Extents.Add(v)
}

// CellCount returns ceil(Size/cell) componentwise — the number of cells
// of the given size needed to span the box along each axis. It ignores
// the box's offset to any grid, so a box not aligned to one can touch
// one more cell per axis than this count.
func (b AABB) CellCount(cell Float3) Int3 {
	size := b.Size()
	return Float3{size.X / cell.X, size.Y / cell.Y, size.Z / cell.Z}.CeilToInt3()
}

const rayEpsilon = 1e-5

// ClipRay runs the classic 3-slab AABB/ray intersection test against the
// segment origin -> origin+dir*length. On a hit it returns the entry point
// and true; on a miss, the zero value and false.
//
// Degenerate axes (the segment's extent along the axis is below
// rayEpsilon) skip the slab division to avoid dividing by zero: the
// segment must then lie between that axis's slabs, or the whole test misses.
func (b AABB) ClipRay(origin, dir Float3, length float64) (Float3, bool) {
	min, max := b.Min(), b.Max()
	end := origin.Add(dir.Scale(length))

	tlow, thigh := 0.0, 1.0

	axes := [3]struct{ o, e, lo, hi float64 }{
		{origin.X, end.X, min.X, max.X},
		{origin.Y, end.Y, min.Y, max.Y},
		{origin.Z, end.Z, min.Z, max.Z},
	}

	for _, a := range axes {
		d := a.e - a.o
		if math.Abs(d) < rayEpsilon {
			if a.o < a.lo || a.o > a.hi {
				return Float3{}, false
			}
			continue
		}
		t1 := (a.lo - a.o) / d
		t2 := (a.hi - a.o) / d
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tlow = math.Max(tlow, t1)
		thigh = math.Min(thigh, t2)
		if tlow > thigh {
			return Float3{}, false
		}
	}

	entry := origin.Add(end.Sub(origin).Scale(tlow))
	return entry, true
}

// Mat3 is a 3x3 rotation matrix, row-major.
type Mat3 [3]Float3

// Identity3 is the identity rotation.
func Identity3() Mat3 {
	return Mat3{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
}

// MulVec rotates v by m.
func (m Mat3) MulVec(v Float3) Float3 {
	return Float3{m[0].Dot(v), m[1].Dot(v), m[2].Dot(v)}
}

// Transpose returns m's transpose. For an orthonormal rotation matrix
// this is also its inverse.
func (m Mat3) Transpose() Mat3 {
	return Mat3{
		{m[0].X, m[1].X, m[2].X},
		{m[0].Y, m[1].Y, m[2].Y},
		{m[0].Z, m[1].Z, m[2].Z},
	}
}

// OBB is an oriented bounding box: an AABB (in its own local frame) plus
// a rotation taking local space to world space.
type OBB struct {
	Center   Float3
	Extents  Float3
	Rotation Mat3
}

// LocalAABB returns the box's extents as an axis-aligned box centred at
// the origin, in the box's local frame.
func (o OBB) LocalAABB() AABB {
	return AABB{Center: Float3{}, Extents: o.Extents}
}

// ClipRayOBB transforms origin/dir into the box's local frame by applying
// the inverse rotation around the box centre, delegates to the AABB slab
// clip, and rotates a hit entry point back into world space.
func (o OBB) ClipRayOBB(origin, dir Float3, length float64) (Float3, bool) {
	inv := o.Rotation.Transpose()
	localOrigin := inv.MulVec(origin.Sub(o.Center))
	localDir := inv.MulVec(dir)

	local := o.LocalAABB()
	hit, ok := local.ClipRay(localOrigin, localDir, length)
	if !ok {
		return Float3{}, false
	}
	return o.Rotation.MulVec(hit).Add(o.Center), true
}

// TransformBounds returns a world-aligned AABB for the oriented box o.
// The enclosure's size is |R*size| componentwise (the box's full size
// rotated, absolute value taken after rotation); the centre is preserved.
// For rotations that map each axis onto an axis (multiples of 90 degrees)
// this is exactly the rotated box's AABB. For other rotations the
// components of R*size can partly cancel, so the result can be narrower
// than the rotated box along some axes and does not always cover it.
func (o OBB) TransformBounds() AABB {
	size := o.Extents.Scale(2)
	rotated := o.Rotation.MulVec(size).Abs()
	return AABB{Center: o.Center, Extents: rotated.Scale(0.5)}
}
