package world

import (
	"math"

	"github.com/Versifine/locomotion/internal/physics"
)

const (
	CharacterRadius = 0.3
	CharacterHeight = 1.8
	StepHeight      = 0.3
)

// solidMask is everything the character can stand on or bump into.
const solidMask = physics.AllLayers &^ (physics.LayerMask(1) << physics.LayerPlayer)

// Move resolves a character displacement against the scene one axis at a time:
// X, then Z, then Y. Boxes block horizontally above step height; floors, ramps
// and ceilings clamp vertically.
func (s *Scene) Move(pos, displacement physics.Vec3) physics.Vec3 {
	if s == nil {
		return pos.Add(displacement)
	}
	p := s.depenetrate(pos)
	p.X = s.resolveAxisX(p, displacement.X)
	p.Z = s.resolveAxisZ(p, displacement.Z)
	p.Y = s.resolveAxisY(p, displacement.Y)
	return p
}

func (s *Scene) solidBoxes(yield func(o *Object) bool) {
	for _, o := range s.objects {
		if o.Trigger || o.Shape != ShapeBox || !solidMask.Includes(o.Layer) {
			continue
		}
		if !yield(o) {
			return
		}
	}
}

// depenetrate lifts a character whose feet ended up inside a box onto its top.
func (s *Scene) depenetrate(p physics.Vec3) physics.Vec3 {
	s.solidBoxes(func(o *Object) bool {
		inside := p.X > o.Min.X && p.X < o.Max.X && p.Z > o.Min.Z && p.Z < o.Max.Z
		if inside && p.Y >= o.Min.Y && p.Y < o.Max.Y {
			p.Y = o.Max.Y
		}
		return true
	})
	return p
}

func blocksBody(o *Object, feetY float64) bool {
	return o.Bounds().OverlapsY(feetY+StepHeight, feetY+CharacterHeight)
}

func (s *Scene) resolveAxisX(p physics.Vec3, delta float64) float64 {
	if math.Abs(delta) <= physics.Tolerance {
		return p.X + delta
	}
	target := p.X + delta
	s.solidBoxes(func(o *Object) bool {
		if !blocksBody(o, p.Y) || p.Z <= o.Min.Z-CharacterRadius || p.Z >= o.Max.Z+CharacterRadius {
			return true
		}
		if delta > 0 {
			limit := o.Min.X - CharacterRadius
			if limit >= p.X-physics.Tolerance && limit < target {
				target = math.Max(p.X, limit)
			}
		} else {
			limit := o.Max.X + CharacterRadius
			if limit <= p.X+physics.Tolerance && limit > target {
				target = math.Min(p.X, limit)
			}
		}
		return true
	})
	return target
}

func (s *Scene) resolveAxisZ(p physics.Vec3, delta float64) float64 {
	if math.Abs(delta) <= physics.Tolerance {
		return p.Z + delta
	}
	target := p.Z + delta
	s.solidBoxes(func(o *Object) bool {
		if !blocksBody(o, p.Y) || p.X <= o.Min.X-CharacterRadius || p.X >= o.Max.X+CharacterRadius {
			return true
		}
		if delta > 0 {
			limit := o.Min.Z - CharacterRadius
			if limit >= p.Z-physics.Tolerance && limit < target {
				target = math.Max(p.Z, limit)
			}
		} else {
			limit := o.Max.Z + CharacterRadius
			if limit <= p.Z+physics.Tolerance && limit > target {
				target = math.Min(p.Z, limit)
			}
		}
		return true
	})
	return target
}

func (s *Scene) resolveAxisY(p physics.Vec3, delta float64) float64 {
	if delta > 0 {
		head := physics.Vec3{X: p.X, Y: p.Y + CharacterHeight, Z: p.Z}
		if hit, ok := s.Raycast(head, physics.Up, delta, solidMask, true); ok {
			return hit.Point.Y - CharacterHeight
		}
		return p.Y + delta
	}

	// Cast from step height so ramps and low steps lift the character.
	origin := physics.Vec3{X: p.X, Y: p.Y + StepHeight, Z: p.Z}
	if hit, ok := s.Raycast(origin, physics.Down, StepHeight-delta, solidMask, true); ok {
		return hit.Point.Y
	}
	return p.Y + delta
}
