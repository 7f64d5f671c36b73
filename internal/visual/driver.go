package visual

import (
	"log/slog"

	"github.com/Versifine/locomotion/internal/locomotion"
)

type Clip string

const (
	ClipLocomotion     Clip = "locomotion"
	ClipGroundToJump   Clip = "ground_to_jump"
	ClipGroundToCrouch Clip = "ground_to_crouch"
	ClipClimbWaist     Clip = "climb_waist"
	ClipClimbKnee      Clip = "climb_knee"
)

const crossFade = 0.2

// Transition is a clip change chosen by Update. CrossFade is zero for an
// immediate play.
type Transition struct {
	Clip      Clip
	CrossFade float64
}

type Snapshot struct {
	Clip        Clip
	SpeedX      float64
	SpeedZ      float64
	Crouching   bool
	CrouchExits int
}

// Driver holds the animation parameters the controller writes and picks one
// clip per frame. One-shot latches for climbs and jumps are consumed by the
// frame that plays them.
type Driver struct {
	speedX, speedZ float64

	jumping   bool
	crouching bool
	climbing  bool
	climbKind locomotion.ClimbKind

	crouchExits int
	current     Clip
}

func NewDriver() *Driver {
	return &Driver{current: ClipLocomotion}
}

func (d *Driver) SetHorizontalSpeed(x, z float64) {
	d.speedX, d.speedZ = x, z
}

func (d *Driver) TriggerJump() {
	d.jumping = true
}

func (d *Driver) SetCrouching(crouching bool) {
	d.crouching = crouching
}

func (d *Driver) TriggerClimb(kind locomotion.ClimbKind) {
	d.climbing = true
	d.climbKind = kind
}

func (d *Driver) ExitCrouch() {
	d.crouchExits++
}

// Update selects this frame's clip. It reports false when the clip is unchanged.
func (d *Driver) Update() (Transition, bool) {
	var next Transition
	switch {
	case d.climbing:
		next = Transition{Clip: ClipClimbKnee, CrossFade: crossFade}
		if d.climbKind == locomotion.ClimbWaist {
			next.Clip = ClipClimbWaist
		}
		d.climbing = false
	case d.jumping:
		next = Transition{Clip: ClipGroundToJump, CrossFade: crossFade}
		d.jumping = false
	case d.crouching:
		next = Transition{Clip: ClipGroundToCrouch}
	default:
		next = Transition{Clip: ClipLocomotion}
	}

	if next.Clip == d.current && next.CrossFade == 0 {
		return Transition{}, false
	}
	slog.Debug("Animation clip", "from", d.current, "to", next.Clip, "cross_fade", next.CrossFade)
	d.current = next.Clip
	return next, true
}

func (d *Driver) Clip() Clip {
	return d.current
}

func (d *Driver) Snapshot() Snapshot {
	return Snapshot{
		Clip:        d.current,
		SpeedX:      d.speedX,
		SpeedZ:      d.speedZ,
		Crouching:   d.crouching,
		CrouchExits: d.crouchExits,
	}
}
