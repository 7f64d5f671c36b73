package locomotion

import "math"

// SpeedModifiers resolves the target horizontal speed from the mutually
// exclusive sprint and crouch modifiers and smooths the applied speed.
type SpeedModifiers struct {
	profile        SpeedProfile
	smoothVelocity float64
}

func NewSpeedModifiers(profile SpeedProfile) *SpeedModifiers {
	return &SpeedModifiers{profile: profile}
}

func (m *SpeedModifiers) Profile() SpeedProfile {
	return m.profile
}

// StartSprint is ignored while crouching.
func (m *SpeedModifiers) StartSprint(st *State) bool {
	if st.Crouching {
		return false
	}
	st.Sprinting = true
	return true
}

func (m *SpeedModifiers) StopSprint(st *State) bool {
	if st.Crouching {
		return false
	}
	st.Sprinting = false
	return true
}

// StartCrouch is ignored while sprinting or airborne.
func (m *SpeedModifiers) StartCrouch(st *State, grounded bool) bool {
	if st.Sprinting || !grounded {
		return false
	}
	st.Crouching = true
	return true
}

func (m *SpeedModifiers) StopCrouch(st *State) bool {
	if st.Sprinting {
		return false
	}
	st.Crouching = false
	return true
}

func (m *SpeedModifiers) TargetSpeed(st State) float64 {
	switch {
	case st.Sprinting:
		return m.profile.Base * m.profile.SprintMultiplier
	case st.Crouching:
		return m.profile.Base * m.profile.CrouchMultiplier
	}
	return m.profile.Base
}

// Smooth moves st.Speed toward target with a critically damped spring.
func (m *SpeedModifiers) Smooth(st *State, target, dt float64) float64 {
	st.Speed = smoothDamp(st.Speed, target, &m.smoothVelocity, m.profile.SmoothTime, dt)
	return st.Speed
}

// smoothDamp is the engine's critically damped spring approximation; it never
// overshoots target.
func smoothDamp(current, target float64, velocity *float64, smoothTime, dt float64) float64 {
	if dt <= 0 {
		return current
	}
	smoothTime = math.Max(smoothDampMinTime, smoothTime)
	omega := 2 / smoothTime
	x := omega * dt
	exp := 1 / (1 + x + 0.48*x*x + 0.235*x*x*x)

	change := current - target
	temp := (*velocity + omega*change) * dt
	*velocity = (*velocity - omega*temp) * exp
	output := target + (change+temp)*exp

	if (target-current > 0) == (output > target) {
		output = target
		*velocity = 0
	}
	return output
}
