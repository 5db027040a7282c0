package scene

import (
	"errors"
	"fmt"
	"sort"
)

var (
	// ErrNotFound is returned when a scene name is not registered.
	ErrNotFound = errors.New("scene not found")
	// ErrDuplicate is returned when registering a name twice.
	ErrDuplicate = errors.New("scene already registered")
)

// Registry owns the scenes of a game by name. It is passed explicitly to whoever switches scenes.
type Registry struct {
	scenes map[string]*Scene
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{scenes: make(map[string]*Scene)}
}

// Register adds s under s.Name.
func (r *Registry) Register(s *Scene) error {
	if _, ok := r.scenes[s.Name]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicate, s.Name)
	}
	r.scenes[s.Name] = s
	return nil
}

// Get returns the scene registered under name.
func (r *Registry) Get(name string) (*Scene, error) {
	s, ok := r.scenes[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return s, nil
}

// Names returns registered names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.scenes))
	for n := range r.scenes {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
