package locomotion

import (
	"github.com/Versifine/locomotion/internal/input"
	"github.com/Versifine/locomotion/internal/physics"
)

type PhysicsQuery interface {
	Raycast(origin, dir physics.Vec3, maxDist float64, mask physics.LayerMask, ignoreTriggers bool) (physics.Hit, bool)
}

// Mover applies a displacement with collision resolution and returns the new position.
type Mover interface {
	Move(pos, displacement physics.Vec3) physics.Vec3
}

type AnimationDriver interface {
	SetHorizontalSpeed(x, z float64)
	TriggerJump()
	SetCrouching(crouching bool)
	TriggerClimb(kind ClimbKind)
	ExitCrouch()
}

type InputSource interface {
	MoveAxis() physics.Vec2
	Subscribe(action input.Action, handler input.Handler) (unsubscribe func())
}

type CameraProvider interface {
	Forward() physics.Vec3
	Right() physics.Vec3
}

// Climbable is implemented by raycast hit objects that allow ledge climbing.
type Climbable interface {
	Climbable() bool
}

type Interactable interface {
	Interact()
}

type freeMover struct{}

func (freeMover) Move(pos, displacement physics.Vec3) physics.Vec3 {
	return pos.Add(displacement)
}
