package world

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/Versifine/locomotion/internal/physics"
	"gopkg.in/yaml.v3"
)

type Shape string

const (
	ShapeBox  Shape = "box"
	ShapeRamp Shape = "ramp"
)

// Rise names the horizontal direction in which a ramp surface climbs.
type Rise string

const (
	RisePosX Rise = "+x"
	RiseNegX Rise = "-x"
	RisePosZ Rise = "+z"
	RiseNegZ Rise = "-z"
)

func (r Rise) direction() (physics.Vec3, bool) {
	switch r {
	case RisePosX:
		return physics.Vec3{X: 1}, true
	case RiseNegX:
		return physics.Vec3{X: -1}, true
	case RisePosZ:
		return physics.Vec3{Z: 1}, true
	case RiseNegZ:
		return physics.Vec3{Z: -1}, true
	}
	return physics.Vec3{}, false
}

// Object is a static collider. Boxes fill Min..Max; ramps are wedges whose top
// surface climbs from Min.Y at the low edge to Max.Y at the high edge.
type Object struct {
	Name        string        `yaml:"name"`
	Shape       Shape         `yaml:"shape"`
	Min         physics.Vec3  `yaml:"min"`
	Max         physics.Vec3  `yaml:"max"`
	Rise        Rise          `yaml:"rise"`
	Layer       physics.Layer `yaml:"layer"`
	Trigger     bool          `yaml:"trigger"`
	CanClimb    bool          `yaml:"climbable"`
	Interaction string        `yaml:"interaction"`

	handle       any
	interactions int
}

// Climbable reports whether ledge climbing may start on this object.
func (o *Object) Climbable() bool {
	return o != nil && o.CanClimb
}

func (o *Object) Interactions() int {
	return o.interactions
}

func (o *Object) Bounds() physics.AABB {
	return physics.AABB{Min: o.Min, Max: o.Max}
}

func (o *Object) validate() error {
	if o.Min.X >= o.Max.X || o.Min.Z >= o.Max.Z || o.Min.Y > o.Max.Y {
		return fmt.Errorf("object %q: min %v must be below max %v", o.Name, o.Min, o.Max)
	}
	switch o.Shape {
	case ShapeBox:
		if o.Min.Y == o.Max.Y {
			return fmt.Errorf("object %q: box has zero height", o.Name)
		}
	case ShapeRamp:
		if _, ok := o.Rise.direction(); !ok {
			return fmt.Errorf("object %q: unknown ramp rise %q", o.Name, o.Rise)
		}
	default:
		return fmt.Errorf("object %q: unknown shape %q", o.Name, o.Shape)
	}
	return nil
}

// interactive is the raycast handle of objects that carry an interaction.
type interactive struct {
	*Object
}

func (i interactive) Interact() {
	i.interactions++
	slog.Info("Interacted", "object", i.Name, "message", i.Interaction)
}

type Scene struct {
	Spawn   physics.Vec3
	objects []*Object
}

func NewScene(objects ...*Object) (*Scene, error) {
	s := &Scene{}
	for _, o := range objects {
		if err := s.Add(o); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *Scene) Add(o *Object) error {
	if o == nil {
		return errors.New("object is nil")
	}
	if o.Shape == "" {
		o.Shape = ShapeBox
	}
	if err := o.validate(); err != nil {
		return err
	}
	if o.Interaction != "" {
		o.handle = interactive{Object: o}
	} else {
		o.handle = o
	}
	s.objects = append(s.objects, o)
	return nil
}

func (s *Scene) Objects() []*Object {
	out := make([]*Object, len(s.objects))
	copy(out, s.objects)
	return out
}

func (s *Scene) Find(name string) (*Object, bool) {
	for _, o := range s.objects {
		if o.Name == name {
			return o, true
		}
	}
	return nil, false
}

type sceneFile struct {
	Spawn   physics.Vec3 `yaml:"spawn"`
	Objects []*Object    `yaml:"objects"`
}

func LoadScene(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseScene(data)
}

func ParseScene(data []byte) (*Scene, error) {
	var file sceneFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse scene: %w", err)
	}
	s, err := NewScene(file.Objects...)
	if err != nil {
		return nil, fmt.Errorf("build scene: %w", err)
	}
	s.Spawn = file.Spawn
	return s, nil
}
