package reactive

import (
	"sync"
	"sync/atomic"
)

// Computed is a memoized derived value that automatically tracks its
// dependencies. It computes eagerly once at creation; afterwards the cached
// value is returned until a dependency fires, in which case the next Get
// recomputes before returning.
//
// Computed values can themselves be subscribed to, behaving like signals.
// This allows building chains of derived values.
type Computed[T any] struct {
	base signalBase

	// compute is the function that produces the value.
	compute func() T

	// value is the cached computed value.
	value   T
	valueMu sync.RWMutex

	// valid indicates whether the cached value is current.
	valid atomic.Bool

	// sources are the signals/computeds this value depends on.
	sources   []*signalBase
	sourcesMu sync.Mutex

	// equal is the equality function for determining value changes.
	equal func(T, T) bool

	// computing guards against re-entrant recomputation.
	computing atomic.Bool
}

// CreateComputed creates a computed value owned by the given scope and runs
// the computation once to establish its initial dependencies.
func CreateComputed[T any](scope *Scope, compute func() T) *Computed[T] {
	if scope != nil && scope.Disposed() {
		scope.recordErr(ErrScopeDisposed)
	}
	c := &Computed[T]{
		base: signalBase{
			id:    nextID(),
			scope: scope,
		},
		compute: compute,
	}
	c.recompute()
	return c
}

// Get returns the computed value, recomputing first if a dependency fired.
// Creates a dependency on this computed for the current listener.
func (c *Computed[T]) Get() T {
	c.base.track()

	if !c.valid.Load() {
		c.recompute()
	}

	c.valueMu.RLock()
	value := c.value
	c.valueMu.RUnlock()
	return value
}

// Peek returns the value without subscribing.
// Still recomputes if the cached value is stale.
func (c *Computed[T]) Peek() T {
	if !c.valid.Load() {
		c.recompute()
	}
	c.valueMu.RLock()
	value := c.value
	c.valueMu.RUnlock()
	return value
}

// MarkDirty invalidates the cached value and propagates to subscribers.
// Implements the Listener interface.
func (c *Computed[T]) MarkDirty() {
	// CAS keeps repeated invalidations from re-notifying.
	if c.valid.CompareAndSwap(true, false) {
		c.base.notifySubscribers()
	}
}

// ID returns the unique identifier for this computed value.
// Implements the Listener interface.
func (c *Computed[T]) ID() uint64 {
	return c.base.id
}

// addSource records a dependency so it can be dropped before the next run.
func (c *Computed[T]) addSource(source *signalBase) {
	c.sourcesMu.Lock()
	defer c.sourcesMu.Unlock()

	for _, s := range c.sources {
		if s == source {
			return
		}
	}
	c.sources = append(c.sources, source)
}

// WithEquals configures the computed with a custom equality function.
func (c *Computed[T]) WithEquals(fn func(T, T) bool) *Computed[T] {
	c.equal = fn
	return c
}

// recompute runs the computation and updates the cached value.
func (c *Computed[T]) recompute() {
	// A computation that reads itself (directly or through an effect chain)
	// would recurse forever; cut it and surface the failure on the scope.
	if c.computing.Swap(true) {
		if c.base.scope != nil {
			c.base.scope.recordErr(ErrCircularDependency)
		}
		return
	}
	defer c.computing.Store(false)

	// Drop stale subscriptions before tracking the new run.
	c.sourcesMu.Lock()
	for _, source := range c.sources {
		source.unsubscribe(c)
	}
	c.sources = c.sources[:0]
	c.sourcesMu.Unlock()

	var newValue T
	if c.base.scope != nil {
		prev := c.base.scope.enterEval(c)
		newValue = c.compute()
		c.base.scope.exitEval(prev)
	} else {
		newValue = c.compute()
	}

	c.valueMu.Lock()
	c.value = newValue
	c.valueMu.Unlock()

	c.valid.Store(true)
}

// Ensure Computed implements sourceTracker.
var _ sourceTracker = (*Computed[int])(nil)
