package physics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sphere-trail/internal/vmath"
)

func TestTranslateFollowsFacing(t *testing.T) {
	b := NewBody("player", ShapeSphere, vmath.New(0, 1, 0), vmath.Vec3{})
	assert.Equal(t, vmath.New(1, 1, 1), b.Scale)

	b.SetDirection(vmath.Left)
	b.Translate(vmath.Forward, 1)
	assert.True(t, b.Position.ApproxEqual(vmath.New(-1, 1, 0), 1e-5), "got %v", b.Position)

	b.SetDirection(vmath.Backward)
	b.Translate(vmath.Forward, 0.5)
	assert.True(t, b.Position.ApproxEqual(vmath.New(-1, 1, -0.5), 1e-5), "got %v", b.Position)
}

func TestSetDirectionIgnoresZero(t *testing.T) {
	b := NewBody("player", ShapeSphere, vmath.Zero, vmath.Vec3{})
	b.SetDirection(vmath.Right)
	yaw := b.Yaw
	b.SetDirection(vmath.Up)
	assert.Equal(t, yaw, b.Yaw)
	assert.True(t, b.Facing().ApproxEqual(vmath.Right, 1e-5))
}

func TestWorldFindAndReparent(t *testing.T) {
	src, dst := NewWorld(), NewWorld()
	a := NewBody("a", ShapeSphere, vmath.Zero, vmath.Vec3{})
	c := NewBody("c", ShapeSphere, vmath.Zero, vmath.Vec3{})
	src.AddBody(a)
	src.AddBody(c)

	assert.Same(t, a, src.Find("a"))
	assert.Nil(t, src.Find("missing"))

	require.NoError(t, Reparent(src, dst, a))
	assert.False(t, src.Contains(a))
	assert.Same(t, a, dst.Find("a"))

	// Already in dst: no-op.
	require.NoError(t, Reparent(src, dst, a))

	stray := NewBody("stray", ShapeSphere, vmath.Zero, vmath.Vec3{})
	assert.Error(t, Reparent(src, dst, c, stray))
	assert.True(t, src.Contains(c), "failed reparent moves nothing")
}
