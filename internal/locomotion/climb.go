package locomotion

import (
	"fmt"
	"math"

	"github.com/Versifine/locomotion/internal/physics"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

type ClimbPhase int

const (
	PhaseRising ClimbPhase = iota
	PhaseAdvancing
	PhaseDone
)

func (p ClimbPhase) String() string {
	switch p {
	case PhaseRising:
		return "rising"
	case PhaseAdvancing:
		return "advancing"
	case PhaseDone:
		return "done"
	}
	return fmt.Sprintf("phase(%d)", int(p))
}

// BlendMode selects how a climb phase turns elapsed time into a blend factor.
//
// BlendElapsed uses the raw phase-elapsed seconds, clamped to 1, and during
// Advancing blends from the position of the previous tick. Phases shorter than
// a second therefore never reach their target through the blend alone, and
// phases longer than a second saturate early. The other modes normalise the
// factor to the phase duration with a gween easing and blend from the
// position at phase start.
type BlendMode string

const (
	BlendElapsed   BlendMode = "elapsed"
	BlendLinear    BlendMode = "linear"
	BlendInOutQuad BlendMode = "in-out-quad"
	BlendOutCubic  BlendMode = "out-cubic"
)

func (b BlendMode) easing() (ease.TweenFunc, error) {
	switch b {
	case BlendElapsed, "":
		return nil, nil
	case BlendLinear:
		return ease.Linear, nil
	case BlendInOutQuad:
		return ease.InOutQuad, nil
	case BlendOutCubic:
		return ease.OutCubic, nil
	}
	return nil, fmt.Errorf("unknown blend mode %q", string(b))
}

type ClimbTimings struct {
	Rising    float64
	Advancing float64
}

func (t ClimbTimings) Total() float64 {
	return t.Rising + t.Advancing
}

func TimingsFor(kind ClimbKind) ClimbTimings {
	if kind == ClimbWaist {
		return ClimbTimings{Rising: waistRisingDuration, Advancing: waistAdvancingDuration}
	}
	return ClimbTimings{Rising: kneeRisingDuration, Advancing: kneeAdvancingDuration}
}

// ClimbSequencer moves the character up to the lift point and then forward
// onto the ledge. It is advanced once per tick until Done.
type ClimbSequencer struct {
	request  ClimbRequest
	timings  ClimbTimings
	easing   ease.TweenFunc
	phase    ClimbPhase
	elapsed  float64
	position physics.Vec3
	// from is the position at the start of the current phase.
	from physics.Vec3
	// target is the current phase destination; Advancing keeps the height reached while Rising.
	target physics.Vec3
	tween  *gween.Tween
}

func NewClimbSequencer(req ClimbRequest, blend BlendMode) (*ClimbSequencer, error) {
	easing, err := blend.easing()
	if err != nil {
		return nil, err
	}
	s := &ClimbSequencer{
		request:  req,
		timings:  TimingsFor(req.Kind),
		easing:   easing,
		phase:    PhaseRising,
		position: req.Start,
		from:     req.Start,
		target:   req.Lift,
	}
	s.resetTween(s.timings.Rising)
	return s, nil
}

func (s *ClimbSequencer) Phase() ClimbPhase {
	return s.phase
}

func (s *ClimbSequencer) Kind() ClimbKind {
	return s.request.Kind
}

func (s *ClimbSequencer) Position() physics.Vec3 {
	return s.position
}

// Elapsed returns the time spent in the current phase.
func (s *ClimbSequencer) Elapsed() float64 {
	return s.elapsed
}

func (s *ClimbSequencer) Done() bool {
	return s.phase == PhaseDone
}

// Advance moves the sequence forward by dt and returns the new position. Time
// left over when a phase completes is carried into the next phase.
func (s *ClimbSequencer) Advance(dt float64) physics.Vec3 {
	if dt <= 0 {
		return s.position
	}
	remaining := dt
	for s.phase != PhaseDone {
		duration := s.duration()
		step := math.Max(0, math.Min(remaining, duration-s.elapsed))
		s.elapsed += step
		remaining -= step
		s.blend(step)

		if s.elapsed+phaseEpsilon < duration {
			break
		}
		s.completePhase()
		if remaining <= phaseEpsilon {
			break
		}
	}
	return s.position
}

func (s *ClimbSequencer) duration() float64 {
	if s.phase == PhaseRising {
		return s.timings.Rising
	}
	return s.timings.Advancing
}

func (s *ClimbSequencer) blend(step float64) {
	if s.easing != nil {
		v, _ := s.tween.Update(float32(step))
		s.position = physics.Lerp(s.from, s.target, float64(v))
		return
	}
	switch s.phase {
	case PhaseRising:
		s.position = physics.Lerp(s.request.Start, s.target, s.elapsed)
	case PhaseAdvancing:
		s.position = physics.Lerp(s.position, s.target, s.elapsed)
	}
}

func (s *ClimbSequencer) completePhase() {
	if s.easing != nil {
		s.position = s.target
	}
	switch s.phase {
	case PhaseRising:
		s.phase = PhaseAdvancing
		s.elapsed = 0
		s.from = s.position
		s.target = s.request.Forward
		s.target.Y = s.position.Y
		s.resetTween(s.timings.Advancing)
	case PhaseAdvancing:
		s.phase = PhaseDone
		s.tween = nil
	}
}

func (s *ClimbSequencer) resetTween(duration float64) {
	if s.easing == nil {
		return
	}
	s.tween = gween.New(0, 1, float32(duration), s.easing)
}
