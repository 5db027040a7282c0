package player

import (
	"errors"
	"fmt"
	"maps"
	"time"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
	"github.com/rs/zerolog"

	"sphere-trail/internal/physics"
	"sphere-trail/internal/schedule"
	"sphere-trail/internal/vmath"
)

const (
	DefaultStep       = float32(1)
	DefaultTickPeriod = 500 * time.Millisecond
)

// ErrNilBody is returned by New when no body is given to control.
var ErrNilBody = errors.New("controller needs a body")

// Scheduler starts a periodic callback. *schedule.Scheduler implements it.
type Scheduler interface {
	Every(period time.Duration, fn func()) *schedule.Handle
}

// Options tune a controller. The zero value is not useful; start from DefaultOptions.
type Options struct {
	Step       float32
	TickPeriod time.Duration
	// TrailLength is the exact number of segments the trail must have; -1 accepts any length.
	TrailLength int
	// Direction is used when the incoming State has no direction yet.
	Direction vmath.Vec3
	Logger    zerolog.Logger
	// OnTick, if set, runs after every tick with the controller that moved.
	OnTick func(*Controller)
}

// DefaultOptions returns a one-unit step every 500 ms, moving Left, accepting any trail length.
func DefaultOptions() Options {
	return Options{
		Step:        DefaultStep,
		TickPeriod:  DefaultTickPeriod,
		TrailLength: -1,
		Direction:   vmath.Left,
		Logger:      zerolog.Nop(),
	}
}

// Controller moves one body along its facing on a fixed cadence and drags its trail behind it.
// All methods must be called from the goroutine that advances the scheduler.
type Controller struct {
	ID uuid.UUID

	body     *physics.Body
	trail    *Trail
	state    State
	opts     Options
	sched    Scheduler
	ticker   *schedule.Handle
	canceled bool
	log      zerolog.Logger
}

// New binds a controller to body, state and trail and starts its tick immediately.
// A nil trail is treated as an empty one. The trail is validated against opts.TrailLength
// and must not be held by another live controller.
func New(body *physics.Body, state State, trail *Trail, sched Scheduler, opts Options) (*Controller, error) {
	if body == nil {
		return nil, ErrNilBody
	}
	if trail == nil {
		trail = NewTrail()
	}
	if err := trail.validate(opts.TrailLength); err != nil {
		return nil, fmt.Errorf("new controller: %w (have %d, want %d)", err, trail.Len(), opts.TrailLength)
	}
	if opts.Step == 0 {
		opts.Step = DefaultStep
	}
	if opts.TickPeriod <= 0 {
		opts.TickPeriod = DefaultTickPeriod
	}
	state, err := cloneState(state)
	if err != nil {
		return nil, fmt.Errorf("new controller: copy state: %w", err)
	}
	if state.Direction == (vmath.Vec3{}) {
		state.Direction = opts.Direction
	}
	if state.Direction == (vmath.Vec3{}) {
		state.Direction = vmath.Left
	}

	c := &Controller{
		ID:    uuid.New(),
		body:  body,
		trail: trail,
		state: state,
		opts:  opts,
		sched: sched,
	}
	if err := trail.acquire(c); err != nil {
		return nil, fmt.Errorf("new controller: %w", err)
	}
	c.log = opts.Logger.With().Str("controller", c.ID.String()).Str("body", body.Name).Logger()
	c.ticker = sched.Every(opts.TickPeriod, c.tick)
	c.log.Debug().Dur("period", opts.TickPeriod).Int("trail", trail.Len()).Msg("controller started")
	return c, nil
}

func (c *Controller) tick() {
	if c.canceled {
		return
	}
	p1 := c.body.Position
	c.state.LastPosition = p1
	c.state.HasLast = true

	c.body.SetDirection(c.state.Direction)
	c.body.Translate(vmath.Forward, c.opts.Step)
	c.trail.shift(p1)

	c.state.LatestPosition = c.body.Position
	c.state.Steps++
	if c.opts.OnTick != nil {
		c.opts.OnTick(c)
	}
}

// HandleKey updates the facing from a key code. Unmapped keys and canceled controllers are ignored.
func (c *Controller) HandleKey(code int32) {
	if c.canceled {
		return
	}
	if dir, ok := DirectionForKey(code); ok {
		c.state.Direction = dir
	}
}

// Direction returns the facing the next tick will use.
func (c *Controller) Direction() vmath.Vec3 {
	return c.state.Direction
}

// Body returns the controlled body.
func (c *Controller) Body() *physics.Body {
	return c.body
}

// CurrentPosition returns the live position of the controlled body.
func (c *Controller) CurrentPosition() vmath.Vec3 {
	return c.body.Position
}

// ExportState returns a copy of the player state with LatestPosition set to the live position.
// Later ticks of this controller do not affect the returned value.
func (c *Controller) ExportState() State {
	out, err := cloneState(c.state)
	if err != nil {
		c.log.Error().Err(err).Msg("deep copy of player state failed, cloning top level")
		out = c.state
		out.Extra = maps.Clone(c.state.Extra)
	}
	out.LatestPosition = c.CurrentPosition()
	return out
}

func cloneState(s State) (State, error) {
	var out State
	if err := copier.CopyWithOption(&out, &s, copier.Option{DeepCopy: true}); err != nil {
		return State{}, err
	}
	if len(s.Extra) == 0 {
		out.Extra = nil
	}
	return out, nil
}

// SetExtra stores a free-form value in the player state. It is carried to the next controller.
func (c *Controller) SetExtra(key string, value any) {
	if c.state.Extra == nil {
		c.state.Extra = make(map[string]any)
	}
	c.state.Extra[key] = value
}

// Extra returns a free-form value set with SetExtra or carried in from an earlier state.
func (c *Controller) Extra(key string) (any, bool) {
	v, ok := c.state.Extra[key]
	return v, ok
}

// Trail returns the live trail. It is shared, not copied, so a successor controller can take it over.
func (c *Controller) Trail() *Trail {
	return c.trail
}

// SetTickPeriod restarts the cadence with a new period. Ignored after Cancel.
func (c *Controller) SetTickPeriod(d time.Duration) {
	if c.canceled || d <= 0 || d == c.opts.TickPeriod {
		return
	}
	c.ticker.Cancel()
	c.opts.TickPeriod = d
	c.ticker = c.sched.Every(d, c.tick)
	c.log.Debug().Dur("period", d).Msg("tick period changed")
}

// TickPeriod returns the current cadence.
func (c *Controller) TickPeriod() time.Duration {
	return c.opts.TickPeriod
}

// Cancel stops the tick permanently and releases the trail. Safe to call more than once.
func (c *Controller) Cancel() {
	if c.canceled {
		return
	}
	c.canceled = true
	c.ticker.Cancel()
	c.trail.release(c)
	c.log.Debug().Uint64("steps", c.state.Steps).Msg("controller canceled")
}

// Canceled reports whether Cancel has been called.
func (c *Controller) Canceled() bool {
	return c.canceled
}
