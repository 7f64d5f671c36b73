package locomotion

// VerticalMotion integrates vertical velocity under gravity.
type VerticalMotion struct {
	base       float64
	multiplier float64
	current    float64
	// fastFall latches the steep gravity after an early jump release.
	fastFall bool
}

func NewVerticalMotion(g GravitySettings) *VerticalMotion {
	return &VerticalMotion{
		base:       g.Acceleration,
		multiplier: g.Multiplier,
		current:    g.Acceleration,
	}
}

// Gravity returns the acceleration currently in effect.
func (m *VerticalMotion) Gravity() float64 {
	return m.current
}

func (m *VerticalMotion) Update(st *State, grounded bool, dt float64) {
	if grounded && st.VerticalVelocity < groundedResetThreshold {
		st.VerticalVelocity = groundedResetVelocity
		st.GroundedTimer += dt
		m.fastFall = false
		m.refresh(st)
		return
	}

	st.GroundedTimer = 0
	m.refresh(st)
	st.VerticalVelocity += m.current * dt
}

func (m *VerticalMotion) refresh(st *State) {
	if st.GroundedTimer >= heavyGravityDelay || m.fastFall {
		m.current = m.base * m.multiplier
		return
	}
	m.current = m.base
}

// ApplyJumpImpulse reports whether the jump was permitted.
func (m *VerticalMotion) ApplyJumpImpulse(st *State, grounded bool, height float64) bool {
	if !grounded || st.Crouching {
		return false
	}
	st.VerticalVelocity = height / jumpRiseTime
	st.GroundedTimer = 0
	m.fastFall = false
	m.refresh(st)
	return true
}

// ReleaseJump switches to the steep gravity immediately.
func (m *VerticalMotion) ReleaseJump() {
	m.fastFall = true
	m.current = m.base * m.multiplier
}
