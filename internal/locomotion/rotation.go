package locomotion

import (
	"math"

	"github.com/Versifine/locomotion/internal/camera"
	"github.com/Versifine/locomotion/internal/physics"
)

// lerpAngle blends current toward target along the shortest arc with t clamped to [0, 1].
func lerpAngle(current, target, t float64) float64 {
	delta := camera.NormalizeAngle(target - current)
	return camera.NormalizeAngle(current + delta*physics.Clamp01(t))
}

func headingVector(yaw float64) physics.Vec3 {
	rad := yaw * math.Pi / 180
	return physics.Vec3{X: math.Sin(rad), Z: math.Cos(rad)}
}
