package locomotion

import "github.com/Versifine/locomotion/internal/physics"

// SlopeCorrector pushes the character down surfaces steeper than the slope limit.
type SlopeCorrector struct {
	query    PhysicsQuery
	mask     physics.LayerMask
	settings SlopeSettings
}

// NewSlopeCorrector probes every layer except the character's own.
func NewSlopeCorrector(query PhysicsQuery, player physics.LayerMask, settings SlopeSettings) SlopeCorrector {
	return SlopeCorrector{
		query:    query,
		mask:     physics.AllLayers &^ player,
		settings: settings,
	}
}

// Correction returns the horizontal displacement for this tick, or false when
// hanging, when nothing is under the character, or when the surface is standable.
func (c SlopeCorrector) Correction(st State, dt float64) (physics.Vec3, bool) {
	if st.Hanging {
		return physics.Vec3{}, false
	}
	hit, ok := c.query.Raycast(st.Position, physics.Down, c.settings.ProbeDistance, c.mask, true)
	if !ok {
		return physics.Vec3{}, false
	}
	if physics.AngleDegrees(physics.Up, hit.Normal) <= c.settings.LimitDegrees {
		return physics.Vec3{}, false
	}
	n := hit.Normal
	yInverse := 1 - n.Y
	push := physics.Vec3{X: yInverse * n.X, Z: yInverse * n.Z}
	return push.Scale(c.settings.PushStrength * dt), true
}
