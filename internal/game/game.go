// Package game owns the scenes, the movement controller, and the scene-switch handoff between them.
package game

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"sphere-trail/internal/engineconfig"
	"sphere-trail/internal/physics"
	"sphere-trail/internal/player"
	"sphere-trail/internal/scene"
	"sphere-trail/internal/schedule"
	"sphere-trail/internal/storage"
	"sphere-trail/internal/vmath"
)

// KeyToggle ('0') alternates between the start scene and the toggle scene.
const KeyToggle int32 = 48

// SessionKey is the storage key for saved sessions.
const SessionKey = "session"

var (
	// ErrSceneNotFound is returned when switching to a name the registry does not know.
	ErrSceneNotFound = errors.New("scene not found")
	// ErrEntityNotFound is returned when the target scene has no player body.
	ErrEntityNotFound = errors.New("player entity not found in scene")
	// ErrNoStore is returned by Save and Load when the game has no store.
	ErrNoStore = errors.New("no session store configured")
)

// Notifier shows a message to the user, e.g. a failed scene switch.
type Notifier interface {
	Notify(msg string)
}

// NotifierFunc adapts a func to Notifier.
type NotifierFunc func(msg string)

func (f NotifierFunc) Notify(msg string) { f(msg) }

// Options configure a Game.
type Options struct {
	StartScene  string
	ToggleScene string
	TrailLength int
	Player      player.Options
	Logger      zerolog.Logger
	Notifier    Notifier
	Store       storage.Store
}

// OptionsFromPrefs maps engine preferences onto game options.
func OptionsFromPrefs(p engineconfig.EnginePrefs) Options {
	po := player.DefaultOptions()
	po.Step = p.Player.Step
	po.TickPeriod = p.Player.TickPeriod()
	po.TrailLength = p.Player.TrailLength
	po.Direction = p.Player.InitialDirection()
	return Options{
		StartScene:  p.StartScene,
		ToggleScene: p.ToggleScene,
		TrailLength: p.Player.TrailLength,
		Player:      po,
		Logger:      zerolog.Nop(),
	}
}

// Session is what Save persists: the active scene, the player state and the tail layout.
type Session struct {
	Scene string       `json:"scene"`
	State player.State `json:"state"`
	Trail []vmath.Vec3 `json:"trail"`
}

// Game is the running demo. It is single-threaded: every method, and every scheduler Advance,
// must happen on the same goroutine.
type Game struct {
	scenes  *scene.Registry
	sched   *schedule.Scheduler
	opts    Options
	log     zerolog.Logger
	events  *Dispatcher
	current *scene.Scene
	player  *player.Controller

	unregister func()
	onResize   func(w, h int)
}

// BuildScenes creates, initializes and registers one scene per definition using scene.Build.
func BuildScenes(defs []engineconfig.SceneDef) (*scene.Registry, error) {
	reg := scene.NewRegistry()
	for _, d := range defs {
		s := scene.New(d.Name, d.Params)
		if err := s.Init(scene.Build); err != nil {
			return nil, err
		}
		if err := reg.Register(s); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

// New opens the start scene, builds the tail behind its player, and starts the controller.
func New(scenes *scene.Registry, sched *schedule.Scheduler, opts Options) (*Game, error) {
	start, err := scenes.Get(opts.StartScene)
	if err != nil {
		return nil, fmt.Errorf("start scene: %w", err)
	}
	body := start.World().Find(scene.PlayerName)
	if body == nil {
		return nil, fmt.Errorf("start scene %q: %w", start.Name, ErrEntityNotFound)
	}
	if opts.Notifier == nil {
		opts.Notifier = NotifierFunc(func(string) {})
	}

	tail := scene.NewTail(body, opts.TrailLength)
	opts.Player.Logger = opts.Logger
	ctrl, err := player.New(body, player.State{}, player.NewTrail(tail...), sched, opts.Player)
	if err != nil {
		return nil, err
	}
	for _, b := range tail {
		start.World().AddBody(b)
	}

	g := &Game{
		scenes:  scenes,
		sched:   sched,
		opts:    opts,
		log:     opts.Logger,
		events:  NewDispatcher(),
		current: start,
		player:  ctrl,
	}
	start.Open()
	g.unregister = g.events.Register(
		Binding{Event: EventKeyDown, Handlers: []Handler{g.onToggleKey, g.onMoveKey}},
		Binding{Event: EventResize, Handlers: []Handler{g.onResizeEvent}},
	)
	g.log.Info().Str("scene", start.Name).Int("trail", len(tail)).Msg("game started")
	return g, nil
}

func (g *Game) onToggleKey(ev Event) {
	if ev.Key == KeyToggle {
		_ = g.Toggle()
	}
}

func (g *Game) onMoveKey(ev Event) {
	g.player.HandleKey(ev.Key)
}

func (g *Game) onResizeEvent(ev Event) {
	if g.onResize != nil {
		g.onResize(ev.Width, ev.Height)
	}
}

// OnResize sets the callback run for resize events.
func (g *Game) OnResize(fn func(w, h int)) {
	g.onResize = fn
}

// HandleKey dispatches a key press.
func (g *Game) HandleKey(code int32) {
	g.events.Dispatch(Event{Name: EventKeyDown, Key: code})
}

// Resize dispatches a window resize.
func (g *Game) Resize(w, h int) {
	g.events.Dispatch(Event{Name: EventResize, Width: w, Height: h})
}

// Events returns the dispatcher so frontends can bind extra handlers.
func (g *Game) Events() *Dispatcher {
	return g.events
}

// Current returns the active scene.
func (g *Game) Current() *scene.Scene {
	return g.current
}

// Player returns the active controller.
func (g *Game) Player() *player.Controller {
	return g.player
}

// Scenes returns the scene registry.
func (g *Game) Scenes() *scene.Registry {
	return g.scenes
}

// Scheduler returns the scheduler driving the controller.
func (g *Game) Scheduler() *schedule.Scheduler {
	return g.sched
}

func (g *Game) fail(err error) error {
	g.log.Warn().Err(err).Str("scene", g.current.Name).Msg("scene switch aborted")
	g.opts.Notifier.Notify(err.Error())
	return err
}

// SwitchScene hands the player over to the scene registered under name. On any failure the
// user is notified, the error is returned and the current scene keeps running unchanged.
// Switching to the current scene is a no-op.
func (g *Game) SwitchScene(name string) error {
	target, err := g.scenes.Get(name)
	if err != nil {
		return g.fail(fmt.Errorf("%w: %q is not present", ErrSceneNotFound, name))
	}
	if target == g.current {
		return nil
	}
	body := target.World().Find(scene.PlayerName)
	if body == nil {
		return g.fail(fmt.Errorf("scene %q: %w", name, ErrEntityNotFound))
	}

	from := g.current
	old := g.player
	from.Close()
	state := old.ExportState()
	trail := old.Trail()
	old.Cancel()

	if err := physics.Reparent(from.World(), target.World(), trail.Segments()...); err != nil {
		return g.restore(from, old, state, trail, err)
	}
	next, err := player.New(body, state, trail, g.sched, g.opts.Player)
	if err != nil {
		_ = physics.Reparent(target.World(), from.World(), trail.Segments()...)
		return g.restore(from, old, state, trail, err)
	}

	g.player = next
	g.current = target
	target.Open()
	g.log.Info().Str("from", from.Name).Str("to", target.Name).Uint64("steps", state.Steps).Msg("scene switched")
	return nil
}

// restore rebuilds a controller on the outgoing scene after a failed handoff.
func (g *Game) restore(from *scene.Scene, old *player.Controller, state player.State, trail *player.Trail, cause error) error {
	ctrl, err := player.New(old.Body(), state, trail, g.sched, g.opts.Player)
	if err != nil {
		g.log.Error().Err(err).Msg("could not restore controller after failed switch")
		return g.fail(errors.Join(cause, err))
	}
	g.player = ctrl
	from.Open()
	return g.fail(cause)
}

// SetTickPeriod changes the cadence of the current controller and of every controller built after it.
func (g *Game) SetTickPeriod(d time.Duration) {
	if d <= 0 {
		return
	}
	g.opts.Player.TickPeriod = d
	g.player.SetTickPeriod(d)
}

// Toggle switches between the start scene and the toggle scene.
func (g *Game) Toggle() error {
	target := g.opts.ToggleScene
	if g.current.Name == g.opts.ToggleScene {
		target = g.opts.StartScene
	}
	return g.SwitchScene(target)
}

// Snapshot returns the current session.
func (g *Game) Snapshot() Session {
	return Session{
		Scene: g.current.Name,
		State: g.player.ExportState(),
		Trail: g.player.Trail().Positions(),
	}
}

// Save writes the current session to the store.
func (g *Game) Save(ctx context.Context) error {
	if g.opts.Store == nil {
		return ErrNoStore
	}
	sess := g.Snapshot()
	if err := g.opts.Store.Set(ctx, SessionKey, sess); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	g.log.Info().Str("scene", sess.Scene).Msg("session saved")
	return nil
}

// Load restores a saved session: it switches to the saved scene, then puts the player and its
// tail back where they were and resumes with the saved state. found is false when nothing was saved.
func (g *Game) Load(ctx context.Context) (found bool, err error) {
	if g.opts.Store == nil {
		return false, ErrNoStore
	}
	var sess Session
	found, err = g.opts.Store.Get(ctx, SessionKey, &sess)
	if err != nil || !found {
		return found, err
	}
	if err := g.SwitchScene(sess.Scene); err != nil {
		return true, err
	}

	old := g.player
	old.Cancel()
	body := old.Body()
	body.Position = sess.State.LatestPosition
	body.SetDirection(sess.State.Direction)
	trail := old.Trail()
	if len(sess.Trail) == trail.Len() {
		for i, p := range sess.Trail {
			trail.Segment(i).Position = p
		}
	} else {
		g.log.Warn().Int("saved", len(sess.Trail)).Int("live", trail.Len()).
			Msg("saved trail length differs from the configured one, keeping live tail positions")
	}
	ctrl, err := player.New(body, sess.State, trail, g.sched, g.opts.Player)
	if err != nil {
		return true, g.restore(g.current, old, old.ExportState(), trail, err)
	}
	g.player = ctrl
	g.log.Info().Str("scene", sess.Scene).Msg("session loaded")
	return true, nil
}

// Close stops the controller and removes the game's event handlers. Safe to call more than once.
func (g *Game) Close() {
	g.player.Cancel()
	if g.unregister != nil {
		g.unregister()
		g.unregister = nil
	}
	g.current.Close()
}
