package engineconfig

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"sphere-trail/internal/scene"
	"sphere-trail/internal/vmath"
)

// EngineConfigPath is the default config file, relative to the process working directory.
const EngineConfigPath = "config/engine.yaml"

// Storage backends.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
)

// EnginePrefs holds the demo's settings: debug overlays, player movement, scenes, and where sessions are saved.
// Persisted across runs.
type EnginePrefs struct {
	ShowFPS      bool `yaml:"show_fps"`
	ShowMemAlloc bool `yaml:"show_memalloc"`
	GridVisible  bool `yaml:"grid_visible"`

	Player PlayerPrefs `yaml:"player"`

	// StartScene is opened first; ToggleScene is the one the toggle key alternates with.
	StartScene  string     `yaml:"start_scene"`
	ToggleScene string     `yaml:"toggle_scene"`
	Scenes      []SceneDef `yaml:"scenes"`

	Storage StoragePrefs `yaml:"storage"`
}

// PlayerPrefs tune the movement controller.
type PlayerPrefs struct {
	Step        float32 `yaml:"step"`
	TickMs      int     `yaml:"tick_ms"`
	TrailLength int     `yaml:"trail_length"`
	// Direction is the initial facing: forward, backward, left or right.
	Direction string `yaml:"direction"`
}

// SceneDef names a scene and its look.
type SceneDef struct {
	Name   string       `yaml:"name"`
	Params scene.Params `yaml:",inline"`
}

// StoragePrefs select the session store.
type StoragePrefs struct {
	Backend       string `yaml:"backend"`
	Dir           string `yaml:"dir,omitempty"`
	RedisAddr     string `yaml:"redis_addr,omitempty"`
	RedisPassword string `yaml:"redis_password,omitempty"`
	RedisDB       int    `yaml:"redis_db,omitempty"`
}

// Default returns the stock demo: two scenes, one-unit steps every 500 ms, a two-sphere tail.
func Default() EnginePrefs {
	return EnginePrefs{
		GridVisible: true,
		Player: PlayerPrefs{
			Step:        1,
			TickMs:      500,
			TrailLength: 2,
			Direction:   "left",
		},
		StartScene:  "default",
		ToggleScene: "darkerScene",
		Scenes: []SceneDef{
			{Name: "default", Params: scene.DefaultParams()},
			{Name: "darkerScene", Params: scene.Params{MaterialColor: [3]float32{6, -5, 10}, LightIntensity: 0.35}},
		},
		Storage: StoragePrefs{Backend: BackendFile, Dir: "saves"},
	}
}

// TickPeriod returns the configured tick as a duration.
func (p PlayerPrefs) TickPeriod() time.Duration {
	return time.Duration(p.TickMs) * time.Millisecond
}

// InitialDirection parses Direction. Unknown names fall back to Left.
func (p PlayerPrefs) InitialDirection() vmath.Vec3 {
	switch strings.ToLower(p.Direction) {
	case "forward":
		return vmath.Forward
	case "backward":
		return vmath.Backward
	case "right":
		return vmath.Right
	default:
		return vmath.Left
	}
}

// Validate reports settings the game cannot start with.
func (p EnginePrefs) Validate() error {
	if p.Player.Step <= 0 {
		return fmt.Errorf("player.step must be positive, got %v", p.Player.Step)
	}
	if p.Player.TickMs <= 0 {
		return fmt.Errorf("player.tick_ms must be positive, got %d", p.Player.TickMs)
	}
	if p.Player.TrailLength < 0 {
		return fmt.Errorf("player.trail_length must not be negative, got %d", p.Player.TrailLength)
	}
	seen := make(map[string]bool, len(p.Scenes))
	for _, s := range p.Scenes {
		if s.Name == "" {
			return errors.New("scene without a name")
		}
		if seen[s.Name] {
			return fmt.Errorf("scene %q defined twice", s.Name)
		}
		seen[s.Name] = true
	}
	if !seen[p.StartScene] {
		return fmt.Errorf("start_scene %q is not defined", p.StartScene)
	}
	switch p.Storage.Backend {
	case BackendFile, BackendRedis:
	default:
		return fmt.Errorf("unknown storage backend %q", p.Storage.Backend)
	}
	return nil
}

// Load reads preferences from path. A missing file yields Default() and no error; fields absent
// from the file keep their default values. An unreadable or invalid file yields Default() and the error.
func Load(path string) (EnginePrefs, error) {
	p := Default()
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return p, nil
	}
	if err != nil {
		return Default(), err
	}
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Default(), fmt.Errorf("parse %s: %w", path, err)
	}
	if err := p.Validate(); err != nil {
		return Default(), fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// Save writes preferences to path, creating the parent directory if needed.
func Save(path string, p EnginePrefs) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	data, err := yaml.Marshal(p)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
