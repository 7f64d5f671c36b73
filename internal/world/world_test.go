package world

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/Versifine/locomotion/internal/physics"
)

func approxEqual(t *testing.T, got, want, tol float64, field string) {
	t.Helper()
	if math.Abs(got-want) > tol {
		t.Fatalf("%s = %.8f, want %.8f (tol=%.8f)", field, got, want, tol)
	}
}

func floor(name string) *Object {
	return &Object{
		Name:  name,
		Shape: ShapeBox,
		Min:   physics.Vec3{X: -10, Y: -1, Z: -10},
		Max:   physics.Vec3{X: 10, Y: 0, Z: 10},
		Layer: physics.LayerTerrain,
	}
}

func mustScene(t *testing.T, objects ...*Object) *Scene {
	t.Helper()
	s, err := NewScene(objects...)
	if err != nil {
		t.Fatalf("NewScene: %v", err)
	}
	return s
}

func TestRaycastDownHitsFloorTop(t *testing.T) {
	s := mustScene(t, floor("floor"))

	hit, ok := s.Raycast(physics.Vec3{Y: 0.4}, physics.Down, 0.5, physics.LayerTerrain.Mask(), true)
	if !ok {
		t.Fatal("expected hit")
	}
	approxEqual(t, hit.Point.Y, 0, 1e-12, "point.y")
	approxEqual(t, hit.Distance, 0.4, 1e-12, "distance")
	if hit.Normal != physics.Up {
		t.Fatalf("normal = %v, want up", hit.Normal)
	}
	if obj, ok := hit.Object.(*Object); !ok || obj.Name != "floor" {
		t.Fatalf("object = %#v, want floor", hit.Object)
	}
}

func TestRaycastRespectsDistanceMaskAndTriggers(t *testing.T) {
	trigger := &Object{
		Name:    "zone",
		Min:     physics.Vec3{X: -1, Y: 0, Z: -1},
		Max:     physics.Vec3{X: 1, Y: 0.2, Z: 1},
		Layer:   physics.LayerTerrain,
		Trigger: true,
	}
	s := mustScene(t, floor("floor"), trigger)
	origin := physics.Vec3{Y: 1}

	if _, ok := s.Raycast(origin, physics.Down, 0.5, physics.LayerTerrain.Mask(), true); ok {
		t.Fatal("hit beyond max distance")
	}
	if _, ok := s.Raycast(origin, physics.Down, 2, physics.LayerPlayer.Mask(), true); ok {
		t.Fatal("hit on excluded layer")
	}

	hit, ok := s.Raycast(origin, physics.Down, 2, physics.AllLayers, false)
	if !ok || hit.Object.(*Object).Name != "zone" {
		t.Fatalf("with triggers: hit=%v ok=%v, want zone", hit, ok)
	}
	hit, ok = s.Raycast(origin, physics.Down, 2, physics.AllLayers, true)
	if !ok || hit.Object.(*Object).Name != "floor" {
		t.Fatalf("ignoring triggers: hit=%v ok=%v, want floor", hit, ok)
	}
}

func TestRaycastFromInsideColliderMisses(t *testing.T) {
	s := mustScene(t, floor("floor"))
	if _, ok := s.Raycast(physics.Vec3{Y: -0.5}, physics.Down, 5, physics.AllLayers, true); ok {
		t.Fatal("ray starting inside the floor should not report it")
	}
}

func TestRaycastRampNormal(t *testing.T) {
	// 45 degree ramp climbing toward +x
	ramp := &Object{
		Name:  "ramp",
		Shape: ShapeRamp,
		Min:   physics.Vec3{X: 0, Y: 0, Z: -2},
		Max:   physics.Vec3{X: 2, Y: 2, Z: 2},
		Rise:  RisePosX,
		Layer: physics.LayerTerrain,
	}
	s := mustScene(t, ramp)

	hit, ok := s.Raycast(physics.Vec3{X: 1, Y: 3}, physics.Down, 5, physics.AllLayers, true)
	if !ok {
		t.Fatal("expected ramp hit")
	}
	approxEqual(t, hit.Point.Y, 1, 1e-9, "point.y")
	approxEqual(t, physics.AngleDegrees(physics.Up, hit.Normal), 45, 1e-9, "slope angle")
	if hit.Normal.X >= 0 {
		t.Fatalf("normal.x = %v, want negative (facing down-slope)", hit.Normal.X)
	}

	h, ok := ramp.SurfaceHeight(1.5, 0)
	if !ok {
		t.Fatal("SurfaceHeight outside footprint")
	}
	approxEqual(t, h, 1.5, 1e-9, "surface height")
}

func TestRaycastIsIdempotent(t *testing.T) {
	s := mustScene(t, floor("floor"))
	origin := physics.Vec3{X: 1, Y: 0.3, Z: 2}
	first, ok1 := s.Raycast(origin, physics.Down, 2, physics.AllLayers, true)
	second, ok2 := s.Raycast(origin, physics.Down, 2, physics.AllLayers, true)
	if ok1 != ok2 || first != second {
		t.Fatalf("repeated raycast differs: %v/%v vs %v/%v", first, ok1, second, ok2)
	}
}

func TestMoveClampsToFloor(t *testing.T) {
	s := mustScene(t, floor("floor"))
	got := s.Move(physics.Vec3{Y: 0.1}, physics.Vec3{X: 0.5, Y: -1})
	approxEqual(t, got.X, 0.5, 1e-12, "x")
	approxEqual(t, got.Y, 0, 1e-12, "y")
}

func TestMoveBlockedByWallButStepsOntoLowBox(t *testing.T) {
	wall := &Object{Name: "wall", Min: physics.Vec3{X: 1, Y: 0, Z: -1}, Max: physics.Vec3{X: 2, Y: 2, Z: 1}, Layer: physics.LayerTerrain}
	step := &Object{Name: "step", Min: physics.Vec3{X: -2, Y: 0, Z: -1}, Max: physics.Vec3{X: -1, Y: 0.2, Z: 1}, Layer: physics.LayerTerrain}
	s := mustScene(t, floor("floor"), wall, step)

	got := s.Move(physics.Vec3{}, physics.Vec3{X: 2})
	approxEqual(t, got.X, 1-CharacterRadius, 1e-9, "x against wall")

	got = s.Move(physics.Vec3{X: -0.9}, physics.Vec3{X: -0.5, Y: -0.01})
	approxEqual(t, got.X, -1.4, 1e-9, "x onto step")
	approxEqual(t, got.Y, 0.2, 1e-9, "y onto step")
}

func TestMoveCeilingStopsRise(t *testing.T) {
	ceiling := &Object{Name: "ceiling", Min: physics.Vec3{X: -1, Y: 2, Z: -1}, Max: physics.Vec3{X: 1, Y: 3, Z: 1}, Layer: physics.LayerTerrain}
	s := mustScene(t, floor("floor"), ceiling)
	got := s.Move(physics.Vec3{}, physics.Vec3{Y: 1})
	approxEqual(t, got.Y, 2-CharacterHeight, 1e-9, "y under ceiling")
}

func TestMoveLiftsOutOfBox(t *testing.T) {
	ledge := &Object{Name: "ledge", Min: physics.Vec3{X: 1, Y: 0, Z: -1}, Max: physics.Vec3{X: 3, Y: 1, Z: 1}, Layer: physics.LayerTerrain}
	s := mustScene(t, floor("floor"), ledge)
	got := s.Move(physics.Vec3{X: 2, Y: 0.1}, physics.Vec3{Y: -0.05})
	approxEqual(t, got.Y, 1, 1e-9, "y on top of ledge")
}

func TestInteractiveHandle(t *testing.T) {
	lever := &Object{Name: "lever", Min: physics.Vec3{X: -0.5, Y: 1.5, Z: 2}, Max: physics.Vec3{X: 0.5, Y: 2.5, Z: 3}, Layer: physics.LayerInteractable, Interaction: "click"}
	s := mustScene(t, lever)

	hit, ok := s.Raycast(physics.Vec3{Y: 2}, physics.Forward, 5, physics.LayerInteractable.Mask(), false)
	if !ok {
		t.Fatal("expected lever hit")
	}
	target, ok := hit.Object.(interface{ Interact() })
	if !ok {
		t.Fatalf("hit object %T is not interactable", hit.Object)
	}
	target.Interact()
	if lever.Interactions() != 1 {
		t.Fatalf("interactions = %d, want 1", lever.Interactions())
	}
}

func TestLoadScene(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr bool
		objects int
	}{
		{
			name: "valid scene",
			content: `spawn: {x: 0, y: 0, z: 0}
objects:
  - name: floor
    min: {x: -5, y: -1, z: -5}
    max: {x: 5, y: 0, z: 5}
    layer: terrain
  - name: crate
    shape: box
    min: {x: 1, y: 0, z: 1}
    max: {x: 2, y: 1, z: 2}
    layer: terrain
    climbable: true
  - name: hill
    shape: ramp
    rise: "-z"
    min: {x: -3, y: 0, z: -4}
    max: {x: -1, y: 1, z: -2}
    layer: terrain
`,
			objects: 3,
		},
		{
			name: "unknown layer",
			content: `objects:
  - name: floor
    min: {x: -5, y: -1, z: -5}
    max: {x: 5, y: 0, z: 5}
    layer: lava
`,
			wantErr: true,
		},
		{
			name: "inverted bounds",
			content: `objects:
  - name: bad
    min: {x: 5, y: 0, z: 5}
    max: {x: -5, y: 1, z: -5}
`,
			wantErr: true,
		},
		{
			name: "ramp without rise",
			content: `objects:
  - name: bad
    shape: ramp
    min: {x: 0, y: 0, z: 0}
    max: {x: 1, y: 1, z: 1}
`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "scene.yaml")
			if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
				t.Fatalf("WriteFile: %v", err)
			}
			s, err := LoadScene(path)
			if (err != nil) != tt.wantErr {
				t.Fatalf("LoadScene err = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if got := len(s.Objects()); got != tt.objects {
				t.Fatalf("objects = %d, want %d", got, tt.objects)
			}
			crate, ok := s.Find("crate")
			if !ok || !crate.Climbable() {
				t.Fatal("crate should be climbable")
			}
		})
	}
}

func TestLoadSceneMissingFile(t *testing.T) {
	_, err := LoadScene(filepath.Join(t.TempDir(), "missing.yaml"))
	if !os.IsNotExist(err) {
		t.Fatalf("err = %v, want not-exist", err)
	}
}

func TestShippedSceneLoads(t *testing.T) {
	s, err := LoadScene(filepath.Join("..", "..", "configs", "scene.yaml"))
	if err != nil {
		t.Fatalf("LoadScene: %v", err)
	}
	lever, ok := s.Find("lever")
	if !ok || lever.Interaction == "" {
		t.Fatalf("lever missing or without interaction: %+v", lever)
	}
	if _, ok := s.Raycast(physics.Vec3{Y: 1}, physics.Down, 2, physics.LayerTerrain.Mask(), true); !ok {
		t.Fatal("spawn should stand on the floor")
	}
}
