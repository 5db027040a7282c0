package physics

import "fmt"

// World holds the bodies that make up one scene. Order is preserved so renderers draw
// bodies in insertion order; names are expected to be unique within a world.
type World struct {
	Bodies []*Body
}

// NewWorld returns an empty world.
func NewWorld() *World {
	return &World{}
}

// AddBody appends b to the world.
func (w *World) AddBody(b *Body) {
	w.Bodies = append(w.Bodies, b)
}

// Find returns the first body with the given name, or nil.
func (w *World) Find(name string) *Body {
	for _, b := range w.Bodies {
		if b.Name == name {
			return b
		}
	}
	return nil
}

// Contains reports whether b (by identity) belongs to the world.
func (w *World) Contains(b *Body) bool {
	for _, o := range w.Bodies {
		if o == b {
			return true
		}
	}
	return false
}

// RemoveBody detaches b (by identity) from the world. Returns false if b was not present.
func (w *World) RemoveBody(b *Body) bool {
	for i, o := range w.Bodies {
		if o == b {
			w.Bodies = append(w.Bodies[:i], w.Bodies[i+1:]...)
			return true
		}
	}
	return false
}

// Reparent moves bodies from src into dst, keeping their identity and position.
// Bodies already in dst are left where they are. If any body is in neither world nothing is moved
// and an error is returned.
func Reparent(src, dst *World, bodies ...*Body) error {
	for _, b := range bodies {
		if !dst.Contains(b) && !src.Contains(b) {
			return fmt.Errorf("reparent: body %q is not in the source world", b.Name)
		}
	}
	for _, b := range bodies {
		if src.RemoveBody(b) {
			dst.AddBody(b)
		}
	}
	return nil
}
