package vmath

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const eps = 1e-5

func TestYawRotatesForwardOntoDirection(t *testing.T) {
	for _, d := range []Vec3{Forward, Backward, Left, Right, New(1, 0, 1).Normalize()} {
		got := Forward.RotateY(d.Yaw())
		assert.Truef(t, got.ApproxEqual(d, eps), "forward rotated by yaw(%v) = %v", d, got)
	}
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, Zero, Zero.Normalize())
	assert.InDelta(t, 1, New(3, 4, 0).Normalize().Length(), eps)
}

func TestArrayRoundTrip(t *testing.T) {
	v := New(1, 2, 3)
	assert.Equal(t, v, FromArray(v.Array()))
	assert.Equal(t, New(2, 4, 6), v.Add(v))
	assert.Equal(t, Zero, v.Sub(v))
}
