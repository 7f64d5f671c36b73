package world

import (
	"math"

	"github.com/Versifine/locomotion/internal/physics"
)

// Raycast returns the nearest hit along dir within maxDist. Colliders that
// contain the origin are not reported.
func (s *Scene) Raycast(origin, dir physics.Vec3, maxDist float64, mask physics.LayerMask, ignoreTriggers bool) (physics.Hit, bool) {
	d := dir.Normalized()
	if s == nil || d == (physics.Vec3{}) || maxDist <= 0 {
		return physics.Hit{}, false
	}

	var best physics.Hit
	found := false
	for _, o := range s.objects {
		if !mask.Includes(o.Layer) {
			continue
		}
		if ignoreTriggers && o.Trigger {
			continue
		}

		var (
			dist   float64
			normal physics.Vec3
			ok     bool
		)
		switch o.Shape {
		case ShapeRamp:
			dist, normal, ok = rayRamp(origin, d, o)
		default:
			dist, normal, ok = rayBox(origin, d, o.Min, o.Max)
		}
		if !ok || dist > maxDist {
			continue
		}
		if found && dist >= best.Distance {
			continue
		}
		best = physics.Hit{
			Point:    origin.Add(d.Scale(dist)),
			Normal:   normal,
			Distance: dist,
			Object:   o.handle,
		}
		found = true
	}
	return best, found
}

func rayBox(origin, d, minB, maxB physics.Vec3) (float64, physics.Vec3, bool) {
	o := [3]float64{origin.X, origin.Y, origin.Z}
	dir := [3]float64{d.X, d.Y, d.Z}
	lo := [3]float64{minB.X, minB.Y, minB.Z}
	hi := [3]float64{maxB.X, maxB.Y, maxB.Z}

	tNear := math.Inf(-1)
	tFar := math.Inf(1)
	var normal physics.Vec3

	for axis := 0; axis < 3; axis++ {
		if math.Abs(dir[axis]) < physics.Tolerance {
			if o[axis] < lo[axis] || o[axis] > hi[axis] {
				return 0, physics.Vec3{}, false
			}
			continue
		}
		t1 := (lo[axis] - o[axis]) / dir[axis]
		t2 := (hi[axis] - o[axis]) / dir[axis]
		n := -1.0
		if t1 > t2 {
			t1, t2 = t2, t1
			n = 1.0
		}
		if t1 > tNear {
			tNear = t1
			normal = axisVector(axis, n)
		}
		if t2 < tFar {
			tFar = t2
		}
		if tNear > tFar {
			return 0, physics.Vec3{}, false
		}
	}

	// origins resting on a face count as outside
	if tNear < -physics.Tolerance {
		return 0, physics.Vec3{}, false
	}
	return math.Max(tNear, 0), normal, true
}

func axisVector(axis int, sign float64) physics.Vec3 {
	switch axis {
	case 0:
		return physics.Vec3{X: sign}
	case 1:
		return physics.Vec3{Y: sign}
	default:
		return physics.Vec3{Z: sign}
	}
}

// rayRamp intersects the ramp's top surface only, approached from above.
func rayRamp(origin, d physics.Vec3, o *Object) (float64, physics.Vec3, bool) {
	rise, _ := o.Rise.direction()
	slope, lowEdge := rampSlope(o, rise)

	// surface: y = Min.Y + slope * dot(p - lowEdge, rise)
	raw := physics.Up.Sub(rise.Scale(slope))
	denom := d.Dot(raw)
	if denom > -physics.Tolerance {
		return 0, physics.Vec3{}, false
	}
	u0 := origin.Sub(lowEdge).Dot(rise)
	t := (o.Min.Y + slope*u0 - origin.Y) / denom
	if t < 0 {
		return 0, physics.Vec3{}, false
	}
	p := origin.Add(d.Scale(t))
	if !o.Bounds().ContainsXZ(p.X, p.Z) {
		return 0, physics.Vec3{}, false
	}
	return t, raw.Normalized(), true
}

func rampSlope(o *Object, rise physics.Vec3) (float64, physics.Vec3) {
	run := o.Max.X - o.Min.X
	lowEdge := o.Min
	if rise.Z != 0 {
		run = o.Max.Z - o.Min.Z
	}
	if rise.X < 0 {
		lowEdge.X = o.Max.X
	}
	if rise.Z < 0 {
		lowEdge.Z = o.Max.Z
	}
	return (o.Max.Y - o.Min.Y) / run, lowEdge
}

// SurfaceHeight returns the ramp or box top height at (x, z).
func (o *Object) SurfaceHeight(x, z float64) (float64, bool) {
	if !o.Bounds().ContainsXZ(x, z) {
		return 0, false
	}
	if o.Shape != ShapeRamp {
		return o.Max.Y, true
	}
	rise, _ := o.Rise.direction()
	slope, lowEdge := rampSlope(o, rise)
	return o.Min.Y + slope*physics.Vec3{X: x, Z: z}.Sub(lowEdge).Flatten().Dot(rise), true
}
