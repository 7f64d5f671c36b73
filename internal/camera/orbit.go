package camera

import (
	"math"

	"github.com/Versifine/locomotion/internal/physics"
)

const maxPitch = 80.0

// Orbit is a third-person camera orientation. Yaw 0 looks along +Z and
// positive yaw turns toward +X; positive pitch looks down.
type Orbit struct {
	Yaw   float64
	Pitch float64
}

func (o *Orbit) Rotate(dYaw, dPitch float64) {
	o.Yaw = NormalizeAngle(o.Yaw + dYaw)
	o.Pitch = math.Max(-maxPitch, math.Min(maxPitch, o.Pitch+dPitch))
}

func (o *Orbit) Forward() physics.Vec3 {
	yaw := o.Yaw * math.Pi / 180
	pitch := o.Pitch * math.Pi / 180
	return physics.Vec3{
		X: math.Sin(yaw) * math.Cos(pitch),
		Y: -math.Sin(pitch),
		Z: math.Cos(yaw) * math.Cos(pitch),
	}
}

func (o *Orbit) Right() physics.Vec3 {
	yaw := o.Yaw * math.Pi / 180
	return physics.Vec3{X: math.Cos(yaw), Z: -math.Sin(yaw)}
}

// NormalizeAngle maps degrees into (-180, 180].
func NormalizeAngle(v float64) float64 {
	v = math.Mod(v, 360)
	if v <= -180 {
		v += 360
	} else if v > 180 {
		v -= 360
	}
	return v
}

// YawOf returns the heading of a direction in degrees, using the same convention as Orbit.
func YawOf(dir physics.Vec3) float64 {
	return math.Atan2(dir.X, dir.Z) * 180 / math.Pi
}
