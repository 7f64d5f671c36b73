package locomotion

import "github.com/Versifine/locomotion/internal/physics"

// State is the mutable locomotion state owned by a single Controller.
type State struct {
	Position         physics.Vec3
	VerticalVelocity float64
	// Speed is the smoothed horizontal speed.
	Speed         float64
	GroundedTimer float64
	Sprinting     bool
	Crouching     bool
	Hanging       bool
}
