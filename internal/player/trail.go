package player

import (
	"errors"

	"sphere-trail/internal/physics"
	"sphere-trail/internal/vmath"
)

var (
	// ErrTrailOwned is returned when a controller is built on a trail another live controller holds.
	ErrTrailOwned = errors.New("trail is owned by another controller")
	// ErrTrailLength is returned when a trail does not match the configured length or has a nil segment.
	ErrTrailLength = errors.New("trail does not match configured length")
)

// Trail is the fixed-length chain of bodies that follow the player one step behind.
// It is owned by at most one live controller; ownership moves on scene switch so the
// same bodies follow the player into the next scene.
type Trail struct {
	segments []*physics.Body
	owner    *Controller
}

// NewTrail returns a trail over segments, nearest to the player first.
func NewTrail(segments ...*physics.Body) *Trail {
	return &Trail{segments: append([]*physics.Body(nil), segments...)}
}

// Len returns the number of segments.
func (t *Trail) Len() int {
	if t == nil {
		return 0
	}
	return len(t.segments)
}

// Segment returns segment i. Panics if i is out of range.
func (t *Trail) Segment(i int) *physics.Body {
	return t.segments[i]
}

// Segments returns the segment bodies. The slice is a copy; the bodies are shared.
func (t *Trail) Segments() []*physics.Body {
	if t == nil {
		return nil
	}
	return append([]*physics.Body(nil), t.segments...)
}

// Positions returns a snapshot of segment positions.
func (t *Trail) Positions() []vmath.Vec3 {
	out := make([]vmath.Vec3, t.Len())
	for i := range out {
		out[i] = t.segments[i].Position
	}
	return out
}

// Owned reports whether a live controller currently holds the trail.
func (t *Trail) Owned() bool {
	return t != nil && t.owner != nil
}

func (t *Trail) validate(want int) error {
	for _, s := range t.segments {
		if s == nil {
			return ErrTrailLength
		}
	}
	if want >= 0 && len(t.segments) != want {
		return ErrTrailLength
	}
	return nil
}

func (t *Trail) acquire(c *Controller) error {
	if t.owner != nil && t.owner != c {
		return ErrTrailOwned
	}
	t.owner = c
	return nil
}

func (t *Trail) release(c *Controller) {
	if t.owner == c {
		t.owner = nil
	}
}

// shift moves every segment one slot along the chain: segment 0 takes head, segment i
// takes what segment i-1 held before this call.
func (t *Trail) shift(head vmath.Vec3) {
	prev := head
	for _, s := range t.segments {
		held := s.Position
		s.Position = prev
		prev = held
	}
}
