package player

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sphere-trail/internal/physics"
	"sphere-trail/internal/schedule"
	"sphere-trail/internal/vmath"
)

const eps = 1e-5

func newBody(name string, x float32) *physics.Body {
	return physics.NewBody(name, physics.ShapeSphere, vmath.New(x, 1, 0), vmath.Vec3{})
}

func newTail() *Trail {
	return NewTrail(newBody("playerTail0", 1), newBody("playerTail1", 2))
}

func TestDirectionForKey(t *testing.T) {
	cases := map[int32]vmath.Vec3{
		KeyW: vmath.Forward,
		KeyA: vmath.Left,
		KeyS: vmath.Backward,
		KeyD: vmath.Right,
	}
	for code, want := range cases {
		got, ok := DirectionForKey(code)
		assert.True(t, ok)
		assert.Equal(t, want, got)
	}
	for _, code := range []int32{0, 48, 32, 119, 256} {
		_, ok := DirectionForKey(code)
		assert.False(t, ok, "code %d", code)
	}
	assert.Equal(t, KeyW, KeyForRune('w'))
	assert.Equal(t, KeyD, KeyForRune('D'))
}

func TestHandleKeyLeavesDirectionOnUnknownKey(t *testing.T) {
	s := schedule.New()
	c, err := New(newBody("player", 0), State{}, nil, s, DefaultOptions())
	require.NoError(t, err)
	defer c.Cancel()

	assert.Equal(t, vmath.Left, c.Direction())
	c.HandleKey(KeyW)
	assert.Equal(t, vmath.Forward, c.Direction())
	c.HandleKey(48)
	assert.Equal(t, vmath.Forward, c.Direction())
	c.HandleKey(KeyD)
	assert.Equal(t, vmath.Right, c.Direction())
}

func TestTickTranslatesAlongDirection(t *testing.T) {
	s := schedule.New()
	body := newBody("player", 0)
	c, err := New(body, State{}, nil, s, DefaultOptions())
	require.NoError(t, err)
	defer c.Cancel()

	for _, key := range []int32{KeyA, KeyW, KeyS, KeyD} {
		dir, _ := DirectionForKey(key)
		c.HandleKey(key)
		p := c.CurrentPosition()

		s.Advance(DefaultTickPeriod)

		want := p.Add(dir.Scale(DefaultStep))
		assert.True(t, c.CurrentPosition().ApproxEqual(want, eps), "key %d: got %v want %v", key, c.CurrentPosition(), want)
		st := c.ExportState()
		assert.True(t, st.HasLast)
		assert.Equal(t, p, st.LastPosition)
	}
}

func TestTickRespectsStepAndPeriod(t *testing.T) {
	s := schedule.New()
	opts := DefaultOptions()
	opts.Step = 0.5
	opts.TickPeriod = 100 * time.Millisecond
	c, err := New(newBody("player", 0), State{}, nil, s, opts)
	require.NoError(t, err)
	defer c.Cancel()

	s.Advance(99 * time.Millisecond)
	assert.Equal(t, vmath.New(0, 1, 0), c.CurrentPosition())
	s.Advance(time.Millisecond)
	assert.True(t, c.CurrentPosition().ApproxEqual(vmath.New(-0.5, 1, 0), eps))
}

func TestTrailFollowsOneStepBehind(t *testing.T) {
	s := schedule.New()
	trail := newTail()
	c, err := New(newBody("player", 0), State{}, trail, s, DefaultOptions())
	require.NoError(t, err)
	defer c.Cancel()

	keys := []int32{KeyA, KeyW, KeyD, KeyS}
	for i, key := range keys {
		c.HandleKey(key)
		p0 := c.CurrentPosition()
		q := trail.Positions()

		s.Advance(DefaultTickPeriod)

		after := trail.Positions()
		assert.Equal(t, p0, after[0], "tick %d: segment 0", i)
		assert.Equal(t, q[0], after[1], "tick %d: segment 1", i)
		assert.NotEqual(t, after[0], after[1], "tick %d: segments collapsed", i)
	}
}

func TestTrailLengthIsValidated(t *testing.T) {
	s := schedule.New()
	opts := DefaultOptions()
	opts.TrailLength = 2

	_, err := New(newBody("player", 0), State{}, NewTrail(newBody("t0", 1)), s, opts)
	assert.ErrorIs(t, err, ErrTrailLength)

	_, err = New(newBody("player", 0), State{}, NewTrail(newBody("t0", 1), nil), s, DefaultOptions())
	assert.ErrorIs(t, err, ErrTrailLength)

	_, err = New(nil, State{}, nil, s, DefaultOptions())
	assert.ErrorIs(t, err, ErrNilBody)
	assert.Equal(t, 0, s.Len(), "failed construction must not leave a running tick")
}

func TestExportStateIsACopy(t *testing.T) {
	s := schedule.New()
	old, err := New(newBody("player", 0), State{}, newTail(), s, DefaultOptions())
	require.NoError(t, err)

	s.Advance(DefaultTickPeriod)
	exported := old.ExportState()
	assert.Equal(t, old.CurrentPosition(), exported.LatestPosition)
	snapshot := exported

	// Mutating the old controller after export does not reach the exported copy.
	old.HandleKey(KeyW)
	s.Advance(DefaultTickPeriod)
	assert.Equal(t, snapshot, exported)

	trail := old.Trail()
	old.Cancel()

	other := physics.NewBody("player", physics.ShapeSphere, vmath.New(5, 1, 5), vmath.Vec3{})
	next, err := New(other, exported, trail, s, DefaultOptions())
	require.NoError(t, err)
	defer next.Cancel()

	// Position comes from the new body, state fields are carried unchanged.
	assert.Equal(t, vmath.New(5, 1, 5), next.CurrentPosition())
	carried := next.ExportState()
	assert.Equal(t, snapshot.LastPosition, carried.LastPosition)
	assert.Equal(t, snapshot.Direction, carried.Direction)
	assert.Equal(t, snapshot.Steps, carried.Steps)
	assert.Same(t, trail, next.Trail())
}

func TestExportStateDeepCopiesExtra(t *testing.T) {
	s := schedule.New()
	old, err := New(newBody("player", 0), State{}, newTail(), s, DefaultOptions())
	require.NoError(t, err)
	old.SetExtra("color", "red")
	old.SetExtra("lives", 3)

	exported := old.ExportState()
	require.Equal(t, map[string]any{"color": "red", "lives": 3}, exported.Extra)

	// Writes to the old controller's map after export do not reach the exported copy.
	old.SetExtra("color", "blue")
	old.SetExtra("shield", true)
	assert.Equal(t, map[string]any{"color": "red", "lives": 3}, exported.Extra)

	trail := old.Trail()
	old.Cancel()
	next, err := New(newBody("player", 4), exported, trail, s, DefaultOptions())
	require.NoError(t, err)
	defer next.Cancel()

	v, ok := next.Extra("color")
	assert.True(t, ok)
	assert.Equal(t, "red", v)
	_, ok = next.Extra("shield")
	assert.False(t, ok)

	// The successor's writes do not leak back into the state it was built from.
	next.SetExtra("lives", 2)
	assert.Equal(t, 3, exported.Extra["lives"])
}

func TestCancelIsIdempotentAndStopsTicks(t *testing.T) {
	s := schedule.New()
	trail := newTail()
	c, err := New(newBody("player", 0), State{}, trail, s, DefaultOptions())
	require.NoError(t, err)

	s.Advance(DefaultTickPeriod)
	pos, tail := c.CurrentPosition(), trail.Positions()

	c.Cancel()
	assert.NotPanics(t, c.Cancel)
	assert.True(t, c.Canceled())

	s.Advance(10 * DefaultTickPeriod)
	c.HandleKey(KeyW)
	assert.Equal(t, pos, c.CurrentPosition())
	assert.Equal(t, tail, trail.Positions())
	assert.Equal(t, vmath.Left, c.Direction())
	assert.Equal(t, 0, s.Len())
}

func TestTrailHasSingleOwner(t *testing.T) {
	s := schedule.New()
	trail := newTail()
	first, err := New(newBody("player", 0), State{}, trail, s, DefaultOptions())
	require.NoError(t, err)
	assert.True(t, trail.Owned())

	_, err = New(newBody("player", 0), State{}, trail, s, DefaultOptions())
	assert.ErrorIs(t, err, ErrTrailOwned)
	assert.Equal(t, 1, s.Len())

	first.Cancel()
	assert.False(t, trail.Owned())

	second, err := New(newBody("player", 0), State{}, trail, s, DefaultOptions())
	require.NoError(t, err)
	second.Cancel()
}

func TestSetTickPeriod(t *testing.T) {
	s := schedule.New()
	c, err := New(newBody("player", 0), State{}, nil, s, DefaultOptions())
	require.NoError(t, err)
	defer c.Cancel()

	var ticks int
	c.opts.OnTick = func(*Controller) { ticks++ }
	c.SetTickPeriod(100 * time.Millisecond)
	assert.Equal(t, 100*time.Millisecond, c.TickPeriod())
	s.Advance(300 * time.Millisecond)
	assert.Equal(t, 3, ticks)
	assert.Equal(t, 1, s.Len())
}
