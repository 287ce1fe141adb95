// Package geom provides the vector and quantization primitives shared by
// the mesh generation pipeline. Vector types are the same ones sdfx uses so
// that meshes can be handed to the CSG backend without conversion.
package geom

import (
	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Vec3 is a point or direction in 3-space.
type Vec3 = v3.Vec

// Vec2 is a point or direction in the plane, used for cut-face templates.
type Vec2 = v2.Vec

// positionScale controls the quantization grid used by PositionKey: each
// coordinate is multiplied by it and truncated toward zero, so points in the
// same grid cell hash equal. Two points closer than 1/positionScale can
// still land in neighboring cells and hash differently.
const positionScale = 1e4

// PositionKey is a fixed-precision quantization of a Vec3, used so that
// coincident floating-point vertices produced by independent build steps
// compare equal as map keys.
type PositionKey [3]int64

// NewPositionKey quantizes v onto the position grid.
func NewPositionKey(v Vec3) PositionKey {
	return PositionKey{
		int64(v.X * positionScale),
		int64(v.Y * positionScale),
		int64(v.Z * positionScale),
	}
}

// PositionKeyPair is an unordered pair of position keys, used to record the
// diagonal of a quad face. Two pairs with the same endpoints in either order
// compare equal.
type PositionKeyPair struct {
	A, B PositionKey
}

// NewPositionKeyPair builds a pair with a canonical (sorted) ordering so
// that (a, b) and (b, a) produce the same value.
func NewPositionKeyPair(a, b PositionKey) PositionKeyPair {
	if less(b, a) {
		a, b = b, a
	}
	return PositionKeyPair{A: a, B: b}
}

func less(a, b PositionKey) bool {
	for i := 0; i < 3; i++ {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}

// Add returns a+b.
func Add(a, b Vec3) Vec3 { return a.Add(b) }

// Sub returns a-b.
func Sub(a, b Vec3) Vec3 { return a.Sub(b) }

// Scale returns v scaled by s.
func Scale(v Vec3, s float64) Vec3 { return v.MulScalar(s) }

// Lerp linearly interpolates between a and b at parameter t in [0,1].
func Lerp(a, b Vec3, t float64) Vec3 {
	return Add(Scale(a, 1-t), Scale(b, t))
}

// Lerp2 is Lerp for 2D points, used when chamfering cut-face templates.
func Lerp2(a, b Vec2, t float64) Vec2 {
	return Vec2{X: a.X*(1-t) + b.X*t, Y: a.Y*(1-t) + b.Y*t}
}
