package component

import "sync"

// Instance pairs a Component with its id and current props. The tree and
// the lifecycle manager address components through Instances, keeping the
// structural layer free of concrete component types.
//
// An instance's component is exclusively owned: acquire serializes all
// lifecycle calls, so concurrent Mount/Update on the same id never race
// inside component code. Once closed, every further acquisition fails with
// LockError.
type Instance struct {
	id ID

	mu        sync.Mutex
	component Component
	props     Props
	closed    bool
}

// NewInstance wraps a component and its initial props under a fresh id from
// the package-wide generator.
func NewInstance(c Component, props Props) *Instance {
	return NewInstanceWith(defaultGenerator, c, props)
}

// NewInstanceWith is NewInstance with an injected id generator.
func NewInstanceWith(gen *IDGenerator, c Component, props Props) *Instance {
	return &Instance{
		id:        gen.Next(),
		component: c,
		props:     props,
	}
}

// ID returns the instance's id.
func (i *Instance) ID() ID { return i.id }

// Component returns the underlying component. Lifecycle calls must go
// through the Manager; this accessor is for application code that needs
// the concrete type back.
func (i *Instance) Component() Component {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.component
}

// Props returns a clone of the current props, or nil if none are set.
func (i *Instance) Props() Props {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.props == nil {
		return nil
	}
	return i.props.Clone()
}

// acquire takes exclusive ownership of the component for one lifecycle
// call. The returned release func must be called exactly once.
func (i *Instance) acquire(op string) (Component, func(), error) {
	i.mu.Lock()
	if i.closed {
		i.mu.Unlock()
		return nil, nil, &LockError{Reason: "instance closed during " + op}
	}
	return i.component, i.mu.Unlock, nil
}

// Close marks the instance unusable. Subsequent lifecycle calls fail with
// LockError. Close is idempotent.
func (i *Instance) Close() {
	i.mu.Lock()
	i.closed = true
	i.mu.Unlock()
}

// Closed reports whether the instance has been closed.
func (i *Instance) Closed() bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.closed
}
