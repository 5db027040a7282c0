package game

// Event names dispatched by the game.
const (
	EventKeyDown = "keydown"
	EventResize  = "resize"
)

// Event is an input or window event delivered to registered handlers.
type Event struct {
	Name string
	// Key is the virtual key code for keydown events.
	Key int32
	// Width and Height are set for resize events.
	Width, Height int
}

// Handler reacts to one event.
type Handler func(Event)

// Binding pairs an event name with the handlers to run for it, in order.
type Binding struct {
	Event    string
	Handlers []Handler
}

// Dispatcher routes events to registered handlers.
type Dispatcher struct {
	next     int
	handlers map[string][]registered
}

type registered struct {
	id int
	h  Handler
}

// NewDispatcher returns a dispatcher with no handlers.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{handlers: make(map[string][]registered)}
}

// Register adds every handler in bindings and returns a func that removes exactly those handlers.
// The returned func is safe to call more than once.
func (d *Dispatcher) Register(bindings ...Binding) (unregister func()) {
	type key struct {
		event string
		id    int
	}
	var added []key
	for _, b := range bindings {
		for _, h := range b.Handlers {
			d.next++
			d.handlers[b.Event] = append(d.handlers[b.Event], registered{id: d.next, h: h})
			added = append(added, key{b.Event, d.next})
		}
	}
	return func() {
		for _, k := range added {
			list := d.handlers[k.event]
			for i, r := range list {
				if r.id == k.id {
					d.handlers[k.event] = append(list[:i:i], list[i+1:]...)
					break
				}
			}
		}
		added = nil
	}
}

// Dispatch runs the handlers registered for ev.Name in registration order.
func (d *Dispatcher) Dispatch(ev Event) {
	list := append([]registered(nil), d.handlers[ev.Name]...)
	for _, r := range list {
		r.h(ev)
	}
}

// Count returns how many handlers are registered for event.
func (d *Dispatcher) Count(event string) int {
	return len(d.handlers[event])
}
