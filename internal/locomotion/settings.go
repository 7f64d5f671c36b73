package locomotion

import (
	"fmt"

	"github.com/Versifine/locomotion/internal/physics"
)

// SpeedProfile is immutable for the lifetime of a Controller.
type SpeedProfile struct {
	Base             float64 `yaml:"base"`
	SprintMultiplier float64 `yaml:"sprint_multiplier"`
	CrouchMultiplier float64 `yaml:"crouch_multiplier"`
	SmoothTime       float64 `yaml:"smooth_time"`
}

type JumpSettings struct {
	Height              float64 `yaml:"height"`
	GroundCheckDistance float64 `yaml:"ground_check_distance"`
}

type GravitySettings struct {
	Acceleration float64 `yaml:"acceleration"`
	Multiplier   float64 `yaml:"multiplier"`
}

type SlopeSettings struct {
	LimitDegrees  float64 `yaml:"limit_degrees"`
	ProbeDistance float64 `yaml:"probe_distance"`
	PushStrength  float64 `yaml:"push_strength"`
}

type LedgeSettings struct {
	StartOffset      float64 `yaml:"start_offset"`
	EndOffset        float64 `yaml:"end_offset"`
	KneeHeightOffset float64 `yaml:"knee_height_offset"`
	ContactOffset    float64 `yaml:"contact_offset"`
	PullUpOffset     float64 `yaml:"pull_up_offset"`
}

type ClimbSettings struct {
	Blend BlendMode `yaml:"blend"`
}

type InteractSettings struct {
	Height   float64 `yaml:"height"`
	Distance float64 `yaml:"distance"`
}

type LayerSettings struct {
	Terrain      physics.LayerMask `yaml:"terrain"`
	Player       physics.LayerMask `yaml:"player"`
	Interactable physics.LayerMask `yaml:"interactable"`
}

type Settings struct {
	Speed         SpeedProfile     `yaml:"speed"`
	RotationSpeed float64          `yaml:"rotation_speed"`
	Jump          JumpSettings     `yaml:"jump"`
	Gravity       GravitySettings  `yaml:"gravity"`
	Slope         SlopeSettings    `yaml:"slope"`
	Ledge         LedgeSettings    `yaml:"ledge"`
	Climb         ClimbSettings    `yaml:"climb"`
	Interact      InteractSettings `yaml:"interact"`
	Layers        LayerSettings    `yaml:"layers"`
}

func DefaultSettings() Settings {
	return Settings{
		Speed: SpeedProfile{
			Base:             2,
			SprintMultiplier: 3,
			CrouchMultiplier: 0.5,
			SmoothTime:       0.1,
		},
		RotationSpeed: 10,
		Jump: JumpSettings{
			Height:              0.6,
			GroundCheckDistance: 0.5,
		},
		Gravity: GravitySettings{
			Acceleration: -9.81,
			Multiplier:   2,
		},
		Slope: SlopeSettings{
			LimitDegrees:  45,
			ProbeDistance: 2,
			PushStrength:  5,
		},
		Ledge: LedgeSettings{
			StartOffset:      1.5,
			EndOffset:        0.97,
			KneeHeightOffset: 0.8,
			ContactOffset:    0.4,
			PullUpOffset:     0.4,
		},
		Climb: ClimbSettings{Blend: BlendElapsed},
		Interact: InteractSettings{
			Height:   2,
			Distance: 5,
		},
		Layers: LayerSettings{
			Terrain:      physics.LayerTerrain.Mask(),
			Player:       physics.LayerPlayer.Mask(),
			Interactable: physics.LayerInteractable.Mask(),
		},
	}
}

func (s Settings) Validate() error {
	positive := []struct {
		name  string
		value float64
	}{
		{"speed.base", s.Speed.Base},
		{"speed.sprint_multiplier", s.Speed.SprintMultiplier},
		{"speed.crouch_multiplier", s.Speed.CrouchMultiplier},
		{"speed.smooth_time", s.Speed.SmoothTime},
		{"rotation_speed", s.RotationSpeed},
		{"jump.ground_check_distance", s.Jump.GroundCheckDistance},
		{"gravity.multiplier", s.Gravity.Multiplier},
		{"slope.probe_distance", s.Slope.ProbeDistance},
		{"ledge.end_offset", s.Ledge.EndOffset},
		{"interact.distance", s.Interact.Distance},
	}
	for _, p := range positive {
		if p.value <= 0 {
			return fmt.Errorf("locomotion.%s must be positive, got %v", p.name, p.value)
		}
	}
	if s.Jump.Height < 0 {
		return fmt.Errorf("locomotion.jump.height must not be negative, got %v", s.Jump.Height)
	}
	if s.Gravity.Acceleration >= 0 {
		return fmt.Errorf("locomotion.gravity.acceleration must be negative, got %v", s.Gravity.Acceleration)
	}
	if s.Slope.LimitDegrees < 0 || s.Slope.LimitDegrees > 90 {
		return fmt.Errorf("locomotion.slope.limit_degrees must be within [0, 90], got %v", s.Slope.LimitDegrees)
	}
	if s.Ledge.StartOffset < 0 || s.Ledge.KneeHeightOffset < 0 || s.Ledge.ContactOffset < 0 || s.Ledge.PullUpOffset < 0 {
		return fmt.Errorf("locomotion.ledge offsets must not be negative")
	}
	if _, err := s.Climb.Blend.easing(); err != nil {
		return fmt.Errorf("locomotion.climb.blend: %w", err)
	}
	if s.Layers.Terrain == 0 {
		return fmt.Errorf("locomotion.layers.terrain must select at least one layer")
	}
	return nil
}
