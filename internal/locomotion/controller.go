package locomotion

import (
	"errors"
	"log/slog"

	"github.com/Versifine/locomotion/internal/camera"
	"github.com/Versifine/locomotion/internal/input"
	"github.com/Versifine/locomotion/internal/physics"
)

// Deps are the collaborators of a Controller. Mover defaults to Physics when
// it implements Mover, and to unresolved movement otherwise.
type Deps struct {
	Physics   PhysicsQuery
	Mover     Mover
	Animation AnimationDriver
	Input     InputSource
	Camera    CameraProvider
}

type actionEvent struct {
	action input.Action
	edge   input.Edge
}

// Controller runs one character's locomotion, one Tick per frame. It is not
// safe for concurrent use; input callbacks only queue edges for the next Tick.
type Controller struct {
	settings Settings

	physics   PhysicsQuery
	mover     Mover
	animation AnimationDriver
	input     InputSource
	camera    CameraProvider

	ground   GroundSensor
	slope    SlopeCorrector
	vertical *VerticalMotion
	speed    *SpeedModifiers
	ledge    LedgeDetector
	climb    *ClimbSequencer

	state   State
	yaw     float64
	pending []actionEvent
	unsubs  []func()
	// cancelled suppresses ledge detection for the tick a climb was abandoned.
	cancelled bool
}

func New(settings Settings, deps Deps, start physics.Vec3) (*Controller, error) {
	var errs []error
	if deps.Animation == nil {
		errs = append(errs, ErrMissingAnimation)
	}
	if deps.Input == nil {
		errs = append(errs, ErrMissingInput)
	}
	if deps.Physics == nil {
		errs = append(errs, ErrMissingPhysics)
	}
	if deps.Camera == nil {
		errs = append(errs, ErrMissingCamera)
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	mover := deps.Mover
	if mover == nil {
		if m, ok := deps.Physics.(Mover); ok {
			mover = m
		} else {
			mover = freeMover{}
		}
	}

	c := &Controller{
		settings:  settings,
		physics:   deps.Physics,
		mover:     mover,
		animation: deps.Animation,
		input:     deps.Input,
		camera:    deps.Camera,
		ground:    NewGroundSensor(deps.Physics, settings.Layers.Terrain),
		slope:     NewSlopeCorrector(deps.Physics, settings.Layers.Player, settings.Slope),
		vertical:  NewVerticalMotion(settings.Gravity),
		speed:     NewSpeedModifiers(settings.Speed),
		ledge:     NewLedgeDetector(deps.Physics, settings.Layers.Terrain, settings.Ledge),
		state:     State{Position: start},
	}
	if fwd := deps.Camera.Forward().Flatten(); fwd.Normalized() != (physics.Vec3{}) {
		c.yaw = camera.YawOf(fwd)
	}
	return c, nil
}

// Activate subscribes the input handlers. Every successful Activate must be
// paired with Deactivate.
func (c *Controller) Activate() error {
	if c.unsubs != nil {
		return ErrAlreadyActive
	}
	actions := []input.Action{input.ActionJump, input.ActionSprint, input.ActionCrouch, input.ActionInteract}
	c.unsubs = make([]func(), 0, len(actions))
	for _, action := range actions {
		action := action
		c.unsubs = append(c.unsubs, c.input.Subscribe(action, func(edge input.Edge) {
			c.pending = append(c.pending, actionEvent{action: action, edge: edge})
		}))
	}
	return nil
}

// Deactivate releases every subscription taken by Activate and drops queued
// input. It is safe to call when not active.
func (c *Controller) Deactivate() {
	for _, unsub := range c.unsubs {
		unsub()
	}
	c.unsubs = nil
	c.pending = c.pending[:0]
}

func (c *Controller) Active() bool {
	return c.unsubs != nil
}

func (c *Controller) Settings() Settings {
	return c.settings
}

func (c *Controller) State() State {
	return c.state
}

func (c *Controller) Hanging() bool {
	return c.state.Hanging
}

// Yaw is the character heading in degrees.
func (c *Controller) Yaw() float64 {
	return c.yaw
}

func (c *Controller) Gravity() float64 {
	return c.vertical.Gravity()
}

// Climb returns the active sequencer, or nil when not hanging.
func (c *Controller) Climb() *ClimbSequencer {
	return c.climb
}

// Restore replaces the locomotion state, e.g. after a reconfiguration. An
// in-progress climb cannot be carried over, so Hanging is cleared.
func (c *Controller) Restore(st State) {
	st.Hanging = false
	if st.Sprinting && st.Crouching {
		st.Crouching = false
	}
	c.state = st
	c.climb = nil
}

// Grounded runs the ground probe for the current position.
func (c *Controller) Grounded() bool {
	return c.ground.IsGrounded(c.state.Position, c.settings.Jump.GroundCheckDistance)
}

func (c *Controller) Tick(dt float64) {
	if dt <= 0 {
		return
	}
	c.cancelled = false
	c.drainInput()

	c.vertical.Update(&c.state, c.Grounded(), dt)

	if push, ok := c.slope.Correction(c.state, dt); ok {
		c.state.Position = c.mover.Move(c.state.Position, push)
	}

	if c.state.Hanging {
		c.state.VerticalVelocity = 0
	} else {
		c.locomote(dt)
	}

	if !c.cancelled {
		if req, ok := c.ledge.Detect(c.state, c.camera.Forward()); ok {
			c.beginClimb(req)
			return
		}
	}

	if c.climb != nil {
		c.advanceClimb(dt)
	}
}

func (c *Controller) locomote(dt float64) {
	axis := c.input.MoveAxis()
	forward := c.camera.Forward().Flatten().Normalized()
	right := c.camera.Right().Normalized()

	dir := physics.Vec3{X: axis.X, Z: axis.Y}.Normalized()
	move := right.Scale(dir.X).Add(forward.Scale(dir.Z))
	move.Y = 0

	target := move.Length() * c.speed.TargetSpeed(c.state)
	speed := c.speed.Smooth(&c.state, target, dt)
	move = move.Scale(speed)

	c.animation.SetHorizontalSpeed(move.Dot(right), move.Dot(forward))

	displacement := move.Add(physics.Vec3{Y: c.state.VerticalVelocity}).Scale(dt)
	c.state.Position = c.mover.Move(c.state.Position, displacement)

	if forward != (physics.Vec3{}) {
		c.yaw = lerpAngle(c.yaw, camera.YawOf(forward), c.settings.RotationSpeed*dt)
	}
}

func (c *Controller) beginClimb(req ClimbRequest) {
	seq, err := NewClimbSequencer(req, c.settings.Climb.Blend)
	if err != nil {
		// settings were validated; an unknown blend cannot reach here
		slog.Error("Climb sequencer rejected request", "error", err)
		return
	}
	c.climb = seq
	c.state.Hanging = true
	c.state.VerticalVelocity = 0
	c.state.Position = seq.Position()
	slog.Debug("Climb started", "kind", req.Kind, "start", req.Start, "ledge", req.Forward)
}

func (c *Controller) advanceClimb(dt float64) {
	c.state.Position = c.climb.Advance(dt)
	if !c.climb.Done() {
		return
	}
	kind := c.climb.Kind()
	c.climb = nil
	c.state.Hanging = false
	c.animation.TriggerClimb(kind)
	slog.Debug("Climb finished", "kind", kind, "position", c.state.Position)
}

func (c *Controller) cancelClimb() {
	if c.climb != nil {
		slog.Debug("Climb cancelled", "kind", c.climb.Kind(), "phase", c.climb.Phase())
	}
	c.climb = nil
	c.state.Hanging = false
	c.cancelled = true
}

func (c *Controller) drainInput() {
	if len(c.pending) == 0 {
		return
	}
	events := c.pending
	c.pending = nil
	for _, ev := range events {
		c.handle(ev)
	}
}

func (c *Controller) handle(ev actionEvent) {
	switch ev.action {
	case input.ActionJump:
		if ev.edge == input.Pressed {
			c.jump()
		} else {
			c.vertical.ReleaseJump()
		}
	case input.ActionSprint:
		if ev.edge == input.Pressed {
			if !c.speed.StartSprint(&c.state) {
				slog.Debug("Sprint ignored while crouching")
			}
		} else {
			c.speed.StopSprint(&c.state)
		}
	case input.ActionCrouch:
		if ev.edge == input.Pressed {
			if c.speed.StartCrouch(&c.state, c.Grounded()) {
				c.animation.SetCrouching(true)
			} else {
				slog.Debug("Crouch ignored", "sprinting", c.state.Sprinting)
			}
		} else if c.speed.StopCrouch(&c.state) {
			c.animation.SetCrouching(false)
			c.animation.ExitCrouch()
		}
	case input.ActionInteract:
		if ev.edge == input.Pressed {
			c.interact()
		} else {
			slog.Debug("Interaction released")
		}
	}
}

func (c *Controller) jump() {
	if c.state.Hanging {
		c.cancelClimb()
	}
	if c.vertical.ApplyJumpImpulse(&c.state, c.Grounded(), c.settings.Jump.Height) {
		c.animation.TriggerJump()
	}
}

func (c *Controller) interact() {
	origin := c.state.Position.Add(physics.Vec3{Y: c.settings.Interact.Height})
	hit, ok := c.physics.Raycast(origin, headingVector(c.yaw), c.settings.Interact.Distance, c.settings.Layers.Interactable, false)
	if !ok {
		slog.Debug("No interactable in range")
		return
	}
	target, ok := hit.Object.(Interactable)
	if !ok {
		slog.Debug("Hit object is not interactable")
		return
	}
	target.Interact()
}
