package locomotion

import (
	"math"
	"testing"

	"github.com/Versifine/locomotion/internal/physics"
)

func approxEqual(t *testing.T, got, want, tol float64, field string) {
	t.Helper()
	if math.Abs(got-want) > tol {
		t.Fatalf("%s = %.8f, want %.8f (tol=%.8f)", field, got, want, tol)
	}
}

type queryFunc func(origin, dir physics.Vec3, maxDist float64, mask physics.LayerMask, ignoreTriggers bool) (physics.Hit, bool)

func (f queryFunc) Raycast(origin, dir physics.Vec3, maxDist float64, mask physics.LayerMask, ignoreTriggers bool) (physics.Hit, bool) {
	return f(origin, dir, maxDist, mask, ignoreTriggers)
}

type surface struct {
	climbable bool
}

func (s surface) Climbable() bool { return s.climbable }

type lever struct {
	pulls int
}

func (l *lever) Interact() { l.pulls++ }

// flatWorld 是 y=0 的无限地面，可选地在 +Z 方向放一个可交互物体。
type flatWorld struct {
	normal physics.Vec3
	ahead  any
	casts  int
}

func newFlatWorld() *flatWorld {
	return &flatWorld{normal: physics.Up}
}

func (w *flatWorld) Raycast(origin, dir physics.Vec3, maxDist float64, mask physics.LayerMask, ignoreTriggers bool) (physics.Hit, bool) {
	w.casts++
	if dir.Y < 0 && mask.Includes(physics.LayerTerrain) {
		if origin.Y < 0 || origin.Y-maxDist > 0 {
			return physics.Hit{}, false
		}
		return physics.Hit{
			Point:    physics.Vec3{X: origin.X, Z: origin.Z},
			Normal:   w.normal,
			Distance: origin.Y,
			Object:   surface{},
		}, true
	}
	if w.ahead != nil && dir.Z > 0 && mask.Includes(physics.LayerInteractable) {
		return physics.Hit{Point: origin.Add(physics.Vec3{Z: 1}), Normal: physics.Vec3{Z: -1}, Distance: 1, Object: w.ahead}, true
	}
	return physics.Hit{}, false
}

func (w *flatWorld) Move(pos, displacement physics.Vec3) physics.Vec3 {
	p := pos.Add(displacement)
	if pos.Y >= 0 && p.Y < 0 {
		p.Y = 0
	}
	return p
}

type recorder struct {
	speedX, speedZ float64
	jumps          int
	crouching      bool
	crouchExits    int
	climbs         []ClimbKind
}

func (r *recorder) SetHorizontalSpeed(x, z float64) { r.speedX, r.speedZ = x, z }
func (r *recorder) TriggerJump()                    { r.jumps++ }
func (r *recorder) SetCrouching(crouching bool)     { r.crouching = crouching }
func (r *recorder) TriggerClimb(kind ClimbKind)     { r.climbs = append(r.climbs, kind) }
func (r *recorder) ExitCrouch()                     { r.crouchExits++ }

type fixedCamera struct {
	forward physics.Vec3
}

func (c *fixedCamera) Forward() physics.Vec3 { return c.forward }

func (c *fixedCamera) Right() physics.Vec3 {
	return physics.Vec3{X: c.forward.Z, Z: -c.forward.X}.Normalized()
}
