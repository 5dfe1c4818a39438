package reactive

import (
	"sync"
	"sync/atomic"
)

// Effect represents a reactive side effect that re-runs when its
// dependencies change. Effects run immediately when created and re-run
// synchronously whenever any signal or computed they read during their
// latest execution changes. They may return a Cleanup that is called before
// the effect re-runs and when it is disposed.
type Effect struct {
	id uint64

	// fn is the effect function to run.
	fn func() Cleanup

	// cleanup is the cleanup function from the last run.
	cleanup Cleanup

	// sources are the signals/computeds this effect depends on.
	sources   []*signalBase
	sourcesMu sync.Mutex

	// scope owns this effect.
	scope *Scope

	// running guards against the effect re-triggering itself.
	running atomic.Bool

	// disposed indicates the effect has been disposed.
	disposed atomic.Bool
}

// CreateEffect creates an effect owned by this scope and runs it once to
// establish its initial dependencies.
func (s *Scope) CreateEffect(fn func() Cleanup) *Effect {
	e := &Effect{
		id:    nextID(),
		fn:    fn,
		scope: s,
	}

	if s != nil {
		if s.Disposed() {
			s.recordErr(ErrScopeDisposed)
			e.disposed.Store(true)
			return e
		}
		s.registerEffect(e)
	}

	e.run()
	return e
}

// MarkDirty re-runs the effect. A notification that arrives while the effect
// is already running means the effect wrote to one of its own dependencies;
// the re-run is skipped and ErrCircularDependency is recorded on the scope.
// Implements the Listener interface.
func (e *Effect) MarkDirty() {
	if e.disposed.Load() {
		return
	}

	if e.running.Load() {
		if e.scope != nil {
			e.scope.recordErr(ErrCircularDependency)
		}
		return
	}

	e.run()
}

// ID returns the unique identifier for this effect.
// Implements the Listener interface.
func (e *Effect) ID() uint64 {
	return e.id
}

// run executes the effect function, re-subscribing to exactly the signals
// read during this run.
func (e *Effect) run() {
	if e.disposed.Load() {
		return
	}
	if e.running.Swap(true) {
		if e.scope != nil {
			e.scope.recordErr(ErrCircularDependency)
		}
		return
	}
	defer e.running.Store(false)

	// Run cleanup from the previous run.
	if e.cleanup != nil {
		e.cleanup()
		e.cleanup = nil
	}

	// Unsubscribe from old sources; stale dependencies are dropped so the
	// dependency set always mirrors the latest run.
	e.sourcesMu.Lock()
	for _, source := range e.sources {
		source.unsubscribe(e)
	}
	e.sources = e.sources[:0]
	e.sourcesMu.Unlock()

	if e.scope != nil {
		prev := e.scope.enterEval(e)
		e.cleanup = e.fn()
		e.scope.exitEval(prev)
	} else {
		e.cleanup = e.fn()
	}
}

// addSource records a dependency read during the current run.
func (e *Effect) addSource(source *signalBase) {
	e.sourcesMu.Lock()
	defer e.sourcesMu.Unlock()

	for _, s := range e.sources {
		if s == source {
			return
		}
	}
	e.sources = append(e.sources, source)
}

// Dispose runs the effect's cleanup and unsubscribes it from all sources.
func (e *Effect) Dispose() {
	if e.disposed.Swap(true) {
		return
	}

	if e.cleanup != nil {
		e.cleanup()
		e.cleanup = nil
	}

	e.sourcesMu.Lock()
	for _, source := range e.sources {
		source.unsubscribe(e)
	}
	e.sources = nil
	e.sourcesMu.Unlock()
}

// Disposed reports whether the effect has been disposed.
func (e *Effect) Disposed() bool {
	return e.disposed.Load()
}

var _ sourceTracker = (*Effect)(nil)
