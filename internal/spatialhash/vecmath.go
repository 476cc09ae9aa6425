// Package spatialhash implements a uniform-grid spatial index for
// axis-aligned bounded items in 3-D space: AABB/OBB overlap queries,
// first-hit ray casts, and concurrent insertion.
package spatialhash

import "math"

// Float3 is a 3-component float64 vector. Equality is bit-identity on
// components; callers must not feed NaN into any Float3 field.
type Float3 struct {
	X, Y, Z float64
}

func (a Float3) Add(b Float3) Float3 { return Float3{a.X + b.X, a.Y + b.Y, a.Z + b.Z} }
func (a Float3) Sub(b Float3) Float3 { return Float3{a.X - b.X, a.Y - b.Y, a.Z - b.Z} }
func (a Float3) Scale(s float64) Float3 {
	return Float3{a.X * s, a.Y * s, a.Z * s}
}

func (a Float3) Dot(b Float3) float64 {
	return a.X*b.X + a.Y*b.Y + a.Z*b.Z
}

func (a Float3) Abs() Float3 {
	return Float3{math.Abs(a.X), math.Abs(a.Y), math.Abs(a.Z)}
}

// Min returns the componentwise minimum of a and b.
func (a Float3) Min(b Float3) Float3 {
	return Float3{math.Min(a.X, b.X), math.Min(a.Y, b.Y), math.Min(a.Z, b.Z)}
}

// Max returns the componentwise maximum of a and b.
func (a Float3) Max(b Float3) Float3 {
	return Float3{math.Max(a.X, b.X), math.Max(a.Y, b.Y), math.Max(a.Z, b.Z)}
}

func (a Float3) Equal(b Float3) bool {
	return a.X == b.X && a.Y == b.Y && a.Z == b.Z
}

// Sum returns X+Y+Z.
func (a Float3) Sum() float64 { return a.X + a.Y + a.Z }

// Product returns X*Y*Z.
func (a Float3) Product() float64 { return a.X * a.Y * a.Z }

// FloorToInt3 floors every component and returns the integer cell coordinate.
func (a Float3) FloorToInt3() Int3 {
	return Int3{
		X: int32(math.Floor(a.X)),
		Y: int32(math.Floor(a.Y)),
		Z: int32(math.Floor(a.Z)),
	}
}

// CeilToInt3 ceils every component and returns the integer cell coordinate.
func (a Float3) CeilToInt3() Int3 {
	return Int3{
		X: int32(math.Ceil(a.X)),
		Y: int32(math.Ceil(a.Y)),
		Z: int32(math.Ceil(a.Z)),
	}
}

// Int3 is a 3-component 32-bit integer vector, used for cell coordinates.
type Int3 struct {
	X, Y, Z int32
}

func (a Int3) Add(b Int3) Int3 { return Int3{a.X + b.X, a.Y + b.Y, a.Z + b.Z} }
func (a Int3) Sub(b Int3) Int3 { return Int3{a.X - b.X, a.Y - b.Y, a.Z - b.Z} }

func (a Int3) Min(b Int3) Int3 {
	return Int3{min32(a.X, b.X), min32(a.Y, b.Y), min32(a.Z, b.Z)}
}

func (a Int3) Max(b Int3) Int3 {
	return Int3{max32(a.X, b.X), max32(a.Y, b.Y), max32(a.Z, b.Z)}
}

func (a Int3) Equal(b Int3) bool {
	return a.X == b.X && a.Y == b.Y && a.Z == b.Z
}

// ManhattanDistance returns |dx|+|dy|+|dz| between a and b.
func (a Int3) ManhattanDistance(b Int3) int {
	return absInt(int(a.X)-int(b.X)) + absInt(int(a.Y)-int(b.Y)) + absInt(int(a.Z)-int(b.Z))
}

// ToFloat3 converts the integer components to float64 verbatim.
func (a Int3) ToFloat3() Float3 {
	return Float3{float64(a.X), float64(a.Y), float64(a.Z)}
}

// Hash mixes the three components into a well-distributed 32-bit value.
// Hash collisions across different cells are expected and handled by
// query-time AABB re-filtering; this is not required to be collision-free.
func (a Int3) Hash() uint32 {
	return hash3(uint32(a.X), uint32(a.Y), uint32(a.Z))
}

// hash3 is a 32-bit mixing function for three integer lanes, in the style
// of Chipmunk2D's spatial-hash hashFunc (large odd multipliers, xor-fold).
func hash3(x, y, z uint32) uint32 {
	h := x * 0x8da6b343
	h ^= y * 0xd8163841
	h ^= z * 0xcb1ab31f
	h ^= h >> 15
	h *= 0x2545f491
	h ^= h >> 13
	return h
}

func min32(a, b int32) int32 {
	if a < b {
		return a
	}
	return b
}

func max32(a, b int32) int32 {
	if a > b {
		return a
	}
	return b
}

func absInt(a int) int {
	if a < 0 {
		return -a
	}
	return a
}
