package render

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"sphere-trail/internal/physics"
)

// Mesh resolution for generated primitives.
const (
	sphereRings  = 16
	sphereSlices = 16
	planeRes     = 2
)

var (
	bodyColor   = rl.NewColor(128, 128, 128, 255)
	groundColor = rl.NewColor(90, 90, 96, 255)
)

type cached struct {
	mesh rl.Mesh
	mtl  rl.Material
}

// primitives maps shape names to mesh+material. Meshes are created on first draw so that
// GPU resources are allocated after the window/OpenGL context exists.
type primitives struct {
	cache  map[string]cached
	shader rl.Shader
}

func newPrimitives() *primitives {
	return &primitives{cache: make(map[string]cached)}
}

func (p *primitives) ensureShader() rl.Shader {
	if p.shader.ID == 0 {
		p.shader = loadLitShader()
	}
	return p.shader
}

func (p *primitives) ensure(shape string) (cached, bool) {
	if c, ok := p.cache[shape]; ok {
		return c, true
	}
	var mesh rl.Mesh
	color := bodyColor
	switch shape {
	case physics.ShapeSphere:
		// Radius 0.5 so a unit scale is a diameter-1 sphere.
		mesh = rl.GenMeshSphere(0.5, sphereRings, sphereSlices)
	case physics.ShapePlane:
		mesh = rl.GenMeshPlane(1, 1, planeRes, planeRes)
		color = groundColor
	case physics.ShapeCube:
		mesh = rl.GenMeshCube(1, 1, 1)
	default:
		return cached{}, false
	}
	mtl := rl.LoadMaterialDefault()
	if albedo := mtl.GetMap(rl.MapAlbedo); albedo != nil {
		albedo.Color = color
	}
	if shader := p.ensureShader(); rl.IsShaderValid(shader) {
		mtl.Shader = shader
	}
	c := cached{mesh: mesh, mtl: mtl}
	p.cache[shape] = c
	return c, true
}

// draw renders one body. Must be called between BeginMode3D and EndMode3D.
// Unknown shapes are skipped.
func (p *primitives) draw(b *physics.Body, sh shading) {
	c, ok := p.ensure(b.Shape)
	if !ok {
		return
	}
	if b.Shape == physics.ShapePlane {
		// The ground is not tinted by the scene material.
		sh.emissive = [3]float32{}
	}
	sh.apply(c.mtl.Shader)
	scale := rl.MatrixScale(b.Scale.X, b.Scale.Y, b.Scale.Z)
	rot := rl.MatrixRotateY(b.Yaw)
	trans := rl.MatrixTranslate(b.Position.X, b.Position.Y, b.Position.Z)
	transform := rl.MatrixMultiply(rl.MatrixMultiply(scale, rot), trans)
	rl.DrawMesh(c.mesh, c.mtl, transform)
}

func (p *primitives) unload() {
	for _, c := range p.cache {
		rl.UnloadMesh(&c.mesh)
	}
	if rl.IsShaderValid(p.shader) {
		rl.UnloadShader(p.shader)
	}
	p.cache = make(map[string]cached)
	p.shader = rl.Shader{}
}
