// Package render draws a scene's world with raylib.
package render

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"sphere-trail/internal/scene"
	"sphere-trail/internal/vmath"
)

const (
	gridExtent     = 10
	gridMajorStep  = 5
	gridMinorAlpha = 50
	gridMajorAlpha = 120
	axisLineAlpha  = 220
)

// Renderer draws the active scene. Create it before the window opens; GPU resources are made on first Draw.
type Renderer struct {
	prims  *primitives
	camera rl.Camera3D
	// FreeCamera orbits the camera around its target. Turning it off snaps back to the scene camera.
	FreeCamera bool
	lastScene  *scene.Scene
	orbiting   bool
}

// New returns a renderer with no GPU resources yet.
func New() *Renderer {
	return &Renderer{prims: newPrimitives()}
}

func toRL(v vmath.Vec3) rl.Vector3 {
	return rl.NewVector3(v.X, v.Y, v.Z)
}

// Camera returns the raylib camera currently in use.
func (r *Renderer) Camera() rl.Camera3D {
	return r.camera
}

// Update refreshes the camera from s. The scene's own camera is taken when s changes;
// afterwards the user may move it when FreeCamera is set.
func (r *Renderer) Update(s *scene.Scene) {
	if s != r.lastScene || (!r.FreeCamera && r.orbiting) {
		c := s.Settings.Camera
		r.camera = rl.Camera3D{
			Position:   toRL(c.Position),
			Target:     toRL(c.Target),
			Up:         toRL(c.Up),
			Fovy:       c.Fovy,
			Projection: rl.CameraPerspective,
		}
		r.lastScene = s
	}
	r.orbiting = r.FreeCamera
	if r.FreeCamera {
		rl.UpdateCamera(&r.camera, rl.CameraOrbital)
	}
}

// Draw renders s: optional grid, then every body in world order.
func (r *Renderer) Draw(s *scene.Scene) {
	if s.World() == nil {
		return
	}
	light := s.Settings.Light
	sh := shading{
		viewPos:   [3]float32{r.camera.Position.X, r.camera.Position.Y, r.camera.Position.Z},
		lightDir:  light.Direction.Array(),
		intensity: light.Intensity,
		emissive:  clampColor(s.Settings.Material),
	}
	rl.BeginMode3D(r.camera)
	if s.GridVisible {
		drawGrid()
	}
	for _, b := range s.World().Bodies {
		r.prims.draw(b, sh)
	}
	rl.EndMode3D()
}

// Unload frees GPU resources. Call before the window closes.
func (r *Renderer) Unload() {
	r.prims.unload()
}

// clampColor maps an emissive triple to 0..1 per channel.
func clampColor(c [3]float32) [3]float32 {
	for i := range c {
		c[i] = min(max(c[i], 0), 1)
	}
	return c
}

// drawGrid draws a grid on the XZ plane with major/minor lines and the X/Z axes.
func drawGrid() {
	minor := rl.NewColor(128, 128, 128, gridMinorAlpha)
	major := rl.NewColor(160, 160, 160, gridMajorAlpha)
	axisX := rl.NewColor(220, 80, 80, axisLineAlpha)
	axisZ := rl.NewColor(80, 80, 220, axisLineAlpha)

	var start, end rl.Vector3
	for i := -gridExtent; i <= gridExtent; i++ {
		c := major
		if i%gridMajorStep != 0 {
			c = minor
		}
		start.X, start.Y, start.Z = float32(i), 0.01, float32(-gridExtent)
		end.X, end.Y, end.Z = float32(i), 0.01, float32(gridExtent)
		rl.DrawLine3D(start, end, c)
		start.X, start.Y, start.Z = float32(-gridExtent), 0.01, float32(i)
		end.X, end.Y, end.Z = float32(gridExtent), 0.01, float32(i)
		rl.DrawLine3D(start, end, c)
	}
	rl.DrawLine3D(rl.NewVector3(-gridExtent, 0.02, 0), rl.NewVector3(gridExtent, 0.02, 0), axisX)
	rl.DrawLine3D(rl.NewVector3(0, 0.02, -gridExtent), rl.NewVector3(0, 0.02, gridExtent), axisZ)
}
