package physics

import "sphere-trail/internal/vmath"

// Shape names understood by the renderers.
const (
	ShapeSphere = "sphere"
	ShapePlane  = "plane"
	ShapeCube   = "cube"
)

// Body is a named renderable entity with position, yaw orientation, and scale.
// Scale is the full size on each axis (a sphere of diameter 1 has Scale (1,1,1)).
type Body struct {
	Name     string
	Shape    string
	Position vmath.Vec3
	Yaw      float32
	Scale    vmath.Vec3
}

// NewBody returns a body with the given name, shape, position and scale. Yaw is zero (facing Forward).
// A zero scale component is treated as 1.
func NewBody(name, shape string, position, scale vmath.Vec3) *Body {
	if scale.X == 0 {
		scale.X = 1
	}
	if scale.Y == 0 {
		scale.Y = 1
	}
	if scale.Z == 0 {
		scale.Z = 1
	}
	return &Body{
		Name:     name,
		Shape:    shape,
		Position: position,
		Scale:    scale,
	}
}

// SetDirection turns the body so its local forward axis points along dir (projected on XZ).
// A zero direction leaves the orientation unchanged.
func (b *Body) SetDirection(dir vmath.Vec3) {
	if dir.X == 0 && dir.Z == 0 {
		return
	}
	b.Yaw = dir.Yaw()
}

// Facing returns the world-space direction of the body's local forward axis.
func (b *Body) Facing() vmath.Vec3 {
	return vmath.Forward.RotateY(b.Yaw)
}

// Translate moves the body by distance along axis, where axis is expressed in the body's local frame.
// Translate(vmath.Forward, 1) moves one unit in whatever direction the body currently faces.
func (b *Body) Translate(axis vmath.Vec3, distance float32) {
	world := axis.Normalize().RotateY(b.Yaw)
	b.Position = b.Position.Add(world.Scale(distance))
}
