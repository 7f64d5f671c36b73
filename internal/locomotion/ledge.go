package locomotion

import (
	"fmt"

	"github.com/Versifine/locomotion/internal/physics"
)

type ClimbKind int

const (
	ClimbKnee ClimbKind = iota
	ClimbWaist
)

func (k ClimbKind) String() string {
	switch k {
	case ClimbKnee:
		return "knee"
	case ClimbWaist:
		return "waist"
	}
	return fmt.Sprintf("climb(%d)", int(k))
}

// ClimbRequest is produced by the LedgeDetector and consumed once by a ClimbSequencer.
type ClimbRequest struct {
	Start   physics.Vec3
	Lift    physics.Vec3
	Forward physics.Vec3
	Kind    ClimbKind
}

// Classify compares knee and contact heights. Both boundaries are inclusive.
func Classify(kneeY, contactY, kneeHeightOffset float64) (ClimbKind, bool) {
	if kneeY >= contactY {
		return ClimbKnee, true
	}
	if kneeY+2*kneeHeightOffset >= contactY {
		return ClimbWaist, true
	}
	return 0, false
}

// LedgeDetector probes a short vertical segment ahead of and above the character.
type LedgeDetector struct {
	query    PhysicsQuery
	mask     physics.LayerMask
	settings LedgeSettings
}

func NewLedgeDetector(query PhysicsQuery, terrain physics.LayerMask, settings LedgeSettings) LedgeDetector {
	return LedgeDetector{query: query, mask: terrain, settings: settings}
}

// Probe returns the probe segment for a character at pos facing cameraForward.
func (d LedgeDetector) Probe(pos, cameraForward physics.Vec3) (start, end physics.Vec3) {
	forward := cameraForward.Flatten().Normalized()
	start = pos.Add(physics.Up.Scale(d.settings.StartOffset)).Add(forward)
	end = start.Sub(physics.Up.Scale(d.settings.EndOffset))
	return start, end
}

func (d LedgeDetector) Detect(st State, cameraForward physics.Vec3) (ClimbRequest, bool) {
	if st.Hanging {
		return ClimbRequest{}, false
	}

	start, end := d.Probe(st.Position, cameraForward)
	segment := end.Sub(start)
	hit, ok := d.query.Raycast(start, segment, segment.Length(), d.mask, true)
	if !ok {
		return ClimbRequest{}, false
	}
	climbable, ok := hit.Object.(Climbable)
	if !ok || !climbable.Climbable() {
		return ClimbRequest{}, false
	}

	contact := hit.Point.Add(physics.Vec3{Y: -d.settings.ContactOffset})
	knee := st.Position.Add(physics.Vec3{Y: d.settings.KneeHeightOffset})
	kind, ok := Classify(knee.Y, contact.Y, d.settings.KneeHeightOffset)
	if !ok {
		return ClimbRequest{}, false
	}

	return ClimbRequest{
		Start:   st.Position,
		Lift:    st.Position.Add(physics.Vec3{Y: d.settings.PullUpOffset}),
		Forward: hit.Point,
		Kind:    kind,
	}, true
}
