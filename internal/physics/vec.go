package physics

import (
	"fmt"
	"math"
)

type Vec2 struct {
	X float64
	Y float64
}

func (v Vec2) Length() float64 {
	return math.Hypot(v.X, v.Y)
}

type Vec3 struct {
	X float64
	Y float64
	Z float64
}

func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{X: v.X + o.X, Y: v.Y + o.Y, Z: v.Z + o.Z}
}

func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{X: v.X - o.X, Y: v.Y - o.Y, Z: v.Z - o.Z}
}

func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{X: v.X * s, Y: v.Y * s, Z: v.Z * s}
}

func (v Vec3) Dot(o Vec3) float64 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

func (v Vec3) Length() float64 {
	return math.Sqrt(v.Dot(v))
}

// Normalized returns the unit vector, or zero when v is shorter than NormalizeEpsilon.
func (v Vec3) Normalized() Vec3 {
	l := v.Length()
	if l < NormalizeEpsilon {
		return Vec3{}
	}
	return v.Scale(1 / l)
}

// Flatten drops the vertical component.
func (v Vec3) Flatten() Vec3 {
	return Vec3{X: v.X, Z: v.Z}
}

func (v Vec3) String() string {
	return fmt.Sprintf("(%.3f, %.3f, %.3f)", v.X, v.Y, v.Z)
}

// Lerp blends a toward b with t clamped to [0, 1].
func Lerp(a, b Vec3, t float64) Vec3 {
	t = Clamp01(t)
	return Vec3{
		X: a.X + (b.X-a.X)*t,
		Y: a.Y + (b.Y-a.Y)*t,
		Z: a.Z + (b.Z-a.Z)*t,
	}
}

// AngleDegrees returns the unsigned angle between a and b.
func AngleDegrees(a, b Vec3) float64 {
	denom := a.Length() * b.Length()
	if denom < Tolerance {
		return 0
	}
	cos := a.Dot(b) / denom
	if cos > 1 {
		cos = 1
	} else if cos < -1 {
		cos = -1
	}
	return math.Acos(cos) * 180 / math.Pi
}

func Clamp01(t float64) float64 {
	if t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}

func NearlyEqual(a, b float64) bool {
	return math.Abs(a-b) <= Tolerance
}

type AABB struct {
	Min Vec3
	Max Vec3
}

func (b AABB) ContainsXZ(x, z float64) bool {
	return x >= b.Min.X && x <= b.Max.X && z >= b.Min.Z && z <= b.Max.Z
}

// OverlapsY reports whether the open interval (minY, maxY) intersects the box height.
func (b AABB) OverlapsY(minY, maxY float64) bool {
	return minY < b.Max.Y && maxY > b.Min.Y
}
