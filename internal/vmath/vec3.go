package vmath

import "github.com/chewxy/math32"

// Vec3 is a 3-component position or direction in engine space (left-handed, Y up).
type Vec3 struct {
	X float32 `json:"x" yaml:"x"`
	Y float32 `json:"y" yaml:"y"`
	Z float32 `json:"z" yaml:"z"`
}

// Engine-frame unit directions. Forward is +Z, Left is -X.
var (
	Zero     = Vec3{}
	Up       = Vec3{0, 1, 0}
	Forward  = Vec3{0, 0, 1}
	Backward = Vec3{0, 0, -1}
	Left     = Vec3{-1, 0, 0}
	Right    = Vec3{1, 0, 0}
)

// New returns a vector with the given components.
func New(x, y, z float32) Vec3 {
	return Vec3{X: x, Y: y, Z: z}
}

// FromArray converts the [3]float32 form used by config files and raylib helpers.
func FromArray(a [3]float32) Vec3 {
	return Vec3{a[0], a[1], a[2]}
}

// Array returns v as [x, y, z].
func (v Vec3) Array() [3]float32 {
	return [3]float32{v.X, v.Y, v.Z}
}

func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

func (v Vec3) Scale(s float32) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

// Length returns the Euclidean length of v.
func (v Vec3) Length() float32 {
	return math32.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// Normalize returns v scaled to unit length. The zero vector is returned unchanged.
func (v Vec3) Normalize() Vec3 {
	l := v.Length()
	if l == 0 {
		return v
	}
	return v.Scale(1 / l)
}

// ApproxEqual reports whether every component of v and o differs by at most eps.
func (v Vec3) ApproxEqual(o Vec3, eps float32) bool {
	return math32.Abs(v.X-o.X) <= eps && math32.Abs(v.Y-o.Y) <= eps && math32.Abs(v.Z-o.Z) <= eps
}

// Yaw returns the rotation about Y (radians) that turns Forward onto the XZ projection of v.
func (v Vec3) Yaw() float32 {
	return math32.Atan2(v.X, v.Z)
}

// RotateY rotates v about the Y axis by yaw radians, using the same convention as Yaw:
// Forward.RotateY(d.Yaw()) points along d.
func (v Vec3) RotateY(yaw float32) Vec3 {
	s, c := math32.Sincos(yaw)
	return Vec3{
		X: v.X*c + v.Z*s,
		Y: v.Y,
		Z: -v.X*s + v.Z*c,
	}
}
