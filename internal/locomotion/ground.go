package locomotion

import "github.com/Versifine/locomotion/internal/physics"

// GroundSensor answers whether the character rests on standable ground.
type GroundSensor struct {
	query PhysicsQuery
	mask  physics.LayerMask
}

func NewGroundSensor(query PhysicsQuery, terrain physics.LayerMask) GroundSensor {
	return GroundSensor{query: query, mask: terrain}
}

// IsGrounded casts straight down from pos. It has no side effects.
func (g GroundSensor) IsGrounded(pos physics.Vec3, probeDistance float64) bool {
	_, ok := g.query.Raycast(pos, physics.Down, probeDistance, g.mask, true)
	return ok
}
