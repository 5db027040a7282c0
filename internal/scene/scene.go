package scene

import (
	"errors"
	"fmt"

	"sphere-trail/internal/physics"
	"sphere-trail/internal/vmath"
)

// Well-known body names inside a scene world.
const (
	PlayerName = "player"
	GroundName = "ground"
	TailPrefix = "playerTail"
)

// ErrAlreadyInitialized is returned when Init runs a second time on the same scene.
var ErrAlreadyInitialized = errors.New("scene already initialized")

// Params are the per-scene look settings. MaterialColor is an emissive RGB triple; components
// outside 0..1 are clamped by the renderer.
type Params struct {
	MaterialColor  [3]float32 `yaml:"material_color"`
	LightIntensity float32    `yaml:"light_intensity"`
}

// DefaultParams is the look of the default scene.
func DefaultParams() Params {
	return Params{MaterialColor: [3]float32{0, 2, 1}, LightIntensity: 1}
}

// Camera is a perspective camera looking at Target.
type Camera struct {
	Position vmath.Vec3
	Target   vmath.Vec3
	Up       vmath.Vec3
	Fovy     float32
}

// Light is a hemispheric light: Direction points at the sky.
type Light struct {
	Direction vmath.Vec3
	Intensity float32
}

// Settings is what an Initializer produces: the camera, the light and the bodies of the scene.
type Settings struct {
	Camera   Camera
	Light    Light
	Material [3]float32
	World    *physics.World
}

// Initializer fills in a scene's settings. It runs once per scene.
type Initializer func(s *Scene) (Settings, error)

// Scene is a named, lazily initialized world plus the camera and light used to draw it.
// Only the active scene is drawn and receives input.
type Scene struct {
	Name        string
	Params      Params
	GridVisible bool
	Settings    Settings

	didInit bool
	active  bool
}

// New returns an uninitialized scene.
func New(name string, params Params) *Scene {
	return &Scene{Name: name, Params: params, GridVisible: true}
}

// Init runs init exactly once. A second call returns ErrAlreadyInitialized and keeps the first settings.
func (s *Scene) Init(init Initializer) error {
	if s.didInit {
		return fmt.Errorf("scene %q: %w", s.Name, ErrAlreadyInitialized)
	}
	settings, err := init(s)
	if err != nil {
		return fmt.Errorf("scene %q: init: %w", s.Name, err)
	}
	if settings.World == nil {
		settings.World = physics.NewWorld()
	}
	s.Settings = settings
	s.didInit = true
	return nil
}

// Initialized reports whether Init has succeeded.
func (s *Scene) Initialized() bool {
	return s.didInit
}

// World returns the scene's bodies. Nil before Init.
func (s *Scene) World() *physics.World {
	return s.Settings.World
}

// Open marks the scene as the one being drawn and updated.
func (s *Scene) Open() {
	s.active = true
}

// Close detaches the scene from drawing and updates. Its world is kept so it can be reopened.
func (s *Scene) Close() {
	s.active = false
}

// Active reports whether the scene is open.
func (s *Scene) Active() bool {
	return s.active
}

// Build is the standard initializer: camera at (0,5,-10) looking at the origin, a light from
// above, a 10×6 ground and a unit player sphere standing on it at (0,1,0).
func Build(s *Scene) (Settings, error) {
	w := physics.NewWorld()
	w.AddBody(physics.NewBody(GroundName, physics.ShapePlane, vmath.Zero, vmath.New(10, 1, 6)))
	w.AddBody(physics.NewBody(PlayerName, physics.ShapeSphere, vmath.New(0, 1, 0), vmath.New(1, 1, 1)))
	return Settings{
		Camera: Camera{
			Position: vmath.New(0, 5, -10),
			Target:   vmath.Zero,
			Up:       vmath.Up,
			Fovy:     45,
		},
		Light:    Light{Direction: vmath.Up, Intensity: s.Params.LightIntensity},
		Material: s.Params.MaterialColor,
		World:    w,
	}, nil
}

// NewTail returns n sphere bodies lined up behind head along +X, one unit apart,
// named playerTail0, playerTail1, and so on.
func NewTail(head *physics.Body, n int) []*physics.Body {
	tail := make([]*physics.Body, n)
	x := head.Position.X
	for i := range tail {
		x++
		tail[i] = physics.NewBody(
			fmt.Sprintf("%s%d", TailPrefix, i),
			physics.ShapeSphere,
			vmath.New(x, head.Position.Y, head.Position.Z),
			head.Scale,
		)
	}
	return tail
}
