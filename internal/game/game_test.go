package game

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sphere-trail/internal/engineconfig"
	"sphere-trail/internal/player"
	"sphere-trail/internal/scene"
	"sphere-trail/internal/schedule"
	"sphere-trail/internal/storage"
	"sphere-trail/internal/vmath"
)

type recorder struct{ msgs []string }

func (r *recorder) Notify(msg string) { r.msgs = append(r.msgs, msg) }

func newGame(t *testing.T) (*Game, *schedule.Scheduler, *recorder) {
	t.Helper()
	prefs := engineconfig.Default()
	reg, err := BuildScenes(prefs.Scenes)
	require.NoError(t, err)
	sched := schedule.New()
	opts := OptionsFromPrefs(prefs)
	note := &recorder{}
	opts.Notifier = note
	opts.Store = storage.NewFileStore(t.TempDir())
	g, err := New(reg, sched, opts)
	require.NoError(t, err)
	t.Cleanup(g.Close)
	return g, sched, note
}

func TestNewStartsOnDefaultScene(t *testing.T) {
	g, sched, _ := newGame(t)
	assert.Equal(t, "default", g.Current().Name)
	assert.True(t, g.Current().Active())
	assert.Equal(t, 2, g.Player().Trail().Len())
	assert.NotNil(t, g.Current().World().Find("playerTail1"))

	sched.Advance(player.DefaultTickPeriod)
	assert.True(t, g.Player().CurrentPosition().ApproxEqual(vmath.New(-1, 1, 0), 1e-5))
}

func TestKeysReachController(t *testing.T) {
	g, _, _ := newGame(t)
	g.HandleKey(player.KeyW)
	assert.Equal(t, vmath.Forward, g.Player().Direction())
	g.HandleKey(32)
	assert.Equal(t, vmath.Forward, g.Player().Direction())
}

func TestSwitchSceneHandsOffStateAndTrail(t *testing.T) {
	g, sched, note := newGame(t)
	g.HandleKey(player.KeyW)
	sched.Advance(2 * player.DefaultTickPeriod)

	old := g.Player()
	before := old.ExportState()
	trail := old.Trail()
	from := g.Current()

	g.HandleKey(KeyToggle)
	require.Empty(t, note.msgs)

	assert.Equal(t, "darkerScene", g.Current().Name)
	assert.True(t, g.Current().Active())
	assert.False(t, from.Active())
	assert.True(t, old.Canceled())
	assert.NotSame(t, old, g.Player())
	assert.Same(t, trail, g.Player().Trail())

	// Trail bodies moved with the player into the new world.
	for _, seg := range trail.Segments() {
		assert.True(t, g.Current().World().Contains(seg))
		assert.False(t, from.World().Contains(seg))
	}

	// Position comes from the new scene's body, state is carried.
	assert.Equal(t, vmath.New(0, 1, 0), g.Player().CurrentPosition())
	after := g.Player().ExportState()
	assert.Equal(t, before.LastPosition, after.LastPosition)
	assert.Equal(t, before.Steps, after.Steps)
	assert.Equal(t, vmath.Forward, g.Player().Direction())

	// Only one controller ticks.
	assert.Equal(t, 1, sched.Len())
	oldPos := old.CurrentPosition()
	sched.Advance(player.DefaultTickPeriod)
	assert.Equal(t, oldPos, old.CurrentPosition())
	assert.True(t, g.Player().CurrentPosition().ApproxEqual(vmath.New(0, 1, 1), 1e-5))

	g.HandleKey(KeyToggle)
	assert.Equal(t, "default", g.Current().Name)
}

func TestSwitchToMissingSceneChangesNothing(t *testing.T) {
	g, sched, note := newGame(t)
	ctrl := g.Player()
	sched.Advance(player.DefaultTickPeriod)
	pos, tail := ctrl.CurrentPosition(), ctrl.Trail().Positions()

	err := g.SwitchScene("nowhere")
	assert.ErrorIs(t, err, ErrSceneNotFound)
	require.Len(t, note.msgs, 1)
	assert.Contains(t, note.msgs[0], `"nowhere" is not present`)

	assert.Same(t, ctrl, g.Player())
	assert.False(t, ctrl.Canceled())
	assert.Equal(t, "default", g.Current().Name)
	assert.True(t, g.Current().Active())
	assert.Equal(t, pos, ctrl.CurrentPosition())
	assert.Equal(t, tail, ctrl.Trail().Positions())

	// Cadence unaffected.
	sched.Advance(player.DefaultTickPeriod)
	assert.True(t, ctrl.CurrentPosition().ApproxEqual(pos.Add(vmath.Left), 1e-5))
}

func TestSwitchToSceneWithoutPlayerIsAborted(t *testing.T) {
	g, _, note := newGame(t)
	empty := scene.New("empty", scene.DefaultParams())
	require.NoError(t, empty.Init(func(*scene.Scene) (scene.Settings, error) { return scene.Settings{}, nil }))
	require.NoError(t, g.Scenes().Register(empty))

	ctrl := g.Player()
	err := g.SwitchScene("empty")
	assert.ErrorIs(t, err, ErrEntityNotFound)
	assert.Len(t, note.msgs, 1)
	assert.Same(t, ctrl, g.Player())
	assert.False(t, ctrl.Canceled())
	assert.True(t, g.Current().Active())
}

func TestFailedHandoffRestoresController(t *testing.T) {
	g, sched, note := newGame(t)
	ctrl := g.Player()
	// A tail body that is no longer in the current world makes the reparent step fail
	// after the outgoing controller was canceled.
	seg := ctrl.Trail().Segment(1)
	require.True(t, g.Current().World().RemoveBody(seg))

	err := g.SwitchScene("darkerScene")
	require.Error(t, err)
	assert.Len(t, note.msgs, 1)

	assert.Equal(t, "default", g.Current().Name)
	assert.True(t, g.Current().Active())
	assert.True(t, ctrl.Canceled())
	assert.False(t, g.Player().Canceled())
	assert.Same(t, ctrl.Body(), g.Player().Body())
	assert.Same(t, ctrl.Trail(), g.Player().Trail())
	assert.Equal(t, 1, sched.Len())
}

func TestSwitchToCurrentSceneIsNoop(t *testing.T) {
	g, _, _ := newGame(t)
	ctrl := g.Player()
	require.NoError(t, g.SwitchScene("default"))
	assert.Same(t, ctrl, g.Player())
}

func TestSaveAndLoadSession(t *testing.T) {
	g, sched, _ := newGame(t)
	ctx := context.Background()

	found, err := g.Load(ctx)
	require.NoError(t, err)
	assert.False(t, found)

	g.HandleKey(player.KeyS)
	sched.Advance(3 * player.DefaultTickPeriod)
	require.NoError(t, g.Toggle())
	sched.Advance(player.DefaultTickPeriod)
	saved := g.Snapshot()
	require.NoError(t, g.Save(ctx))

	require.NoError(t, g.Toggle())
	g.HandleKey(player.KeyD)
	sched.Advance(4 * player.DefaultTickPeriod)

	found, err = g.Load(ctx)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "darkerScene", g.Current().Name)
	assert.Equal(t, saved.State.LatestPosition, g.Player().CurrentPosition())
	assert.Equal(t, saved.Trail, g.Player().Trail().Positions())
	assert.Equal(t, saved.State.Direction, g.Player().Direction())
	assert.Equal(t, 1, sched.Len())
}

func TestSaveWithoutStore(t *testing.T) {
	prefs := engineconfig.Default()
	reg, err := BuildScenes(prefs.Scenes)
	require.NoError(t, err)
	g, err := New(reg, schedule.New(), OptionsFromPrefs(prefs))
	require.NoError(t, err)
	defer g.Close()

	assert.ErrorIs(t, g.Save(context.Background()), ErrNoStore)
	_, err = g.Load(context.Background())
	assert.ErrorIs(t, err, ErrNoStore)
}

func TestResizeEvent(t *testing.T) {
	g, _, _ := newGame(t)
	var w, h int
	g.OnResize(func(width, height int) { w, h = width, height })
	g.Resize(800, 600)
	assert.Equal(t, 800, w)
	assert.Equal(t, 600, h)
}

func TestCloseStopsEverything(t *testing.T) {
	g, sched, _ := newGame(t)
	g.Close()
	assert.True(t, g.Player().Canceled())
	assert.Equal(t, 0, sched.Len())
	assert.Equal(t, 0, g.Events().Count(EventKeyDown))
	g.Close()
}

func TestNewFailureLeavesStartWorldUntouched(t *testing.T) {
	prefs := engineconfig.Default()
	reg, err := BuildScenes(prefs.Scenes)
	require.NoError(t, err)
	opts := OptionsFromPrefs(prefs)
	// The controller wants a longer trail than the game builds, so construction fails.
	opts.Player.TrailLength = opts.TrailLength + 1

	sched := schedule.New()
	_, err = New(reg, sched, opts)
	require.ErrorIs(t, err, player.ErrTrailLength)

	start, err := reg.Get(prefs.StartScene)
	require.NoError(t, err)
	assert.Nil(t, start.World().Find(scene.TailPrefix+"0"))
	assert.Len(t, start.World().Bodies, 2)
	assert.Equal(t, 0, sched.Len())
}

func TestExtraStateTravelsThroughSwitchAndSave(t *testing.T) {
	g, _, _ := newGame(t)
	ctx := context.Background()
	g.Player().SetExtra("hat", "red")

	require.NoError(t, g.Toggle())
	v, ok := g.Player().Extra("hat")
	require.True(t, ok)
	assert.Equal(t, "red", v)

	require.NoError(t, g.Save(ctx))
	g.Player().SetExtra("hat", "blue")
	found, err := g.Load(ctx)
	require.NoError(t, err)
	require.True(t, found)
	v, _ = g.Player().Extra("hat")
	assert.Equal(t, "red", v)
}

func TestLoadWarnsOnTrailLengthMismatch(t *testing.T) {
	prefs := engineconfig.Default()
	reg, err := BuildScenes(prefs.Scenes)
	require.NoError(t, err)
	var logs bytes.Buffer
	opts := OptionsFromPrefs(prefs)
	opts.Logger = zerolog.New(&logs)
	store := storage.NewFileStore(t.TempDir())
	opts.Store = store
	g, err := New(reg, schedule.New(), opts)
	require.NoError(t, err)
	t.Cleanup(g.Close)

	ctx := context.Background()
	sess := g.Snapshot()
	sess.Trail = sess.Trail[:1]
	require.NoError(t, store.Set(ctx, SessionKey, sess))
	live := g.Player().Trail().Positions()

	found, err := g.Load(ctx)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, live, g.Player().Trail().Positions())
	assert.Contains(t, logs.String(), "saved trail length differs")
	assert.Contains(t, logs.String(), `"saved":1`)
}
