package component

import "sync"

// Event is a named payload emitted by component code. The pipeline only
// transports events; renderers and application code give them meaning.
type Event struct {
	Name    string
	Source  ID
	Payload any
}

// EventHandler consumes events delivered through an Emitter.
type EventHandler func(Event)

// Emitter is a minimal synchronous pub/sub hub shared by the components of
// one tree. Handlers run on the emitting goroutine, after the emitter's
// lock is released.
type Emitter struct {
	mu       sync.RWMutex
	handlers map[string][]EventHandler
}

// NewEmitter creates an empty emitter.
func NewEmitter() *Emitter {
	return &Emitter{handlers: make(map[string][]EventHandler)}
}

// On registers a handler for the named event.
func (e *Emitter) On(name string, h EventHandler) {
	if h == nil {
		return
	}
	e.mu.Lock()
	e.handlers[name] = append(e.handlers[name], h)
	e.mu.Unlock()
}

// Emit delivers the event to every handler registered for its name, in
// registration order.
func (e *Emitter) Emit(ev Event) {
	e.mu.RLock()
	hs := make([]EventHandler, len(e.handlers[ev.Name]))
	copy(hs, e.handlers[ev.Name])
	e.mu.RUnlock()

	for _, h := range hs {
		h(ev)
	}
}
