package reactive

import (
	"sync"

	"github.com/petermattis/goid"
)

// defaultMaxDepth bounds how deep a synchronous notification cascade may go
// before it is treated as a circular dependency.
const defaultMaxDepth = 256

// Scope owns a set of reactive primitives and the tracking state used to
// wire them together. There is a single currently-running evaluation slot
// per scope: one effect or computed evaluation tracks dependencies at a
// time, and nested evaluations save and restore the slot.
//
// Signal writes may arrive from any goroutine. Reads performed on a
// goroutine other than the one holding the evaluation slot never register
// as dependents, which keeps a concurrent Peek-style read from corrupting
// an in-flight evaluation.
type Scope struct {
	mu sync.Mutex

	// current is the listener tracking dependencies right now, nil when no
	// evaluation is active.
	current Listener

	// evalGID is the goroutine running the current evaluation.
	evalGID int64

	// depth counts nested synchronous notification cascades.
	depth    int
	maxDepth int

	// batchDepth tracks nested Batch calls. When > 0, signal writes queue
	// notifications instead of firing immediately.
	batchDepth int
	pending    []Listener

	// err holds the first propagation failure observed in this scope.
	err error

	effects  []*Effect
	disposed bool
}

// ScopeOption configures a Scope.
type ScopeOption func(*Scope)

// WithMaxDepth sets the notification cascade depth limit.
func WithMaxDepth(n int) ScopeOption {
	return func(s *Scope) {
		if n > 0 {
			s.maxDepth = n
		}
	}
}

// NewScope creates an empty reactive scope.
func NewScope(opts ...ScopeOption) *Scope {
	s := &Scope{maxDepth: defaultMaxDepth}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Err returns the first propagation error recorded in this scope, typically
// ErrCircularDependency. It is sticky until TakeErr clears it.
func (s *Scope) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// TakeErr returns the recorded error and clears it.
func (s *Scope) TakeErr() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	err := s.err
	s.err = nil
	return err
}

// Dispose runs every effect's cleanup and detaches it from its sources.
// Primitives created afterwards are inert.
func (s *Scope) Dispose() {
	s.mu.Lock()
	if s.disposed {
		s.mu.Unlock()
		return
	}
	s.disposed = true
	effects := s.effects
	s.effects = nil
	s.mu.Unlock()

	for _, e := range effects {
		e.Dispose()
	}
}

// Disposed reports whether the scope has been disposed.
func (s *Scope) Disposed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.disposed
}

func (s *Scope) recordErr(err error) {
	s.mu.Lock()
	if s.err == nil {
		s.err = err
	}
	s.mu.Unlock()
}

func (s *Scope) registerEffect(e *Effect) {
	s.mu.Lock()
	if !s.disposed {
		s.effects = append(s.effects, e)
	}
	s.mu.Unlock()
}

// currentListener returns the listener tracking dependencies, or nil when no
// evaluation is active or the caller is not the evaluating goroutine.
func (s *Scope) currentListener() Listener {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil || s.evalGID != goid.Get() {
		return nil
	}
	return s.current
}

// enterEval installs l into the evaluation slot and returns the previous
// occupant so nested evaluations can restore it.
func (s *Scope) enterEval(l Listener) Listener {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev := s.current
	s.current = l
	s.evalGID = goid.Get()
	return prev
}

// exitEval restores the evaluation slot.
func (s *Scope) exitEval(prev Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = prev
	if prev == nil {
		s.evalGID = 0
	}
}

// pushDepth guards one level of synchronous notification. It fails once the
// cascade exceeds the depth limit, which only happens when the graph feeds
// back into itself.
func (s *Scope) pushDepth() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.depth >= s.maxDepth {
		if s.err == nil {
			s.err = ErrCircularDependency
		}
		return ErrCircularDependency
	}
	s.depth++
	return nil
}

func (s *Scope) popDepth() {
	s.mu.Lock()
	s.depth--
	s.mu.Unlock()
}

func (s *Scope) inBatch() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.batchDepth > 0
}

func (s *Scope) queuePending(l Listener) {
	s.mu.Lock()
	s.pending = append(s.pending, l)
	s.mu.Unlock()
}

// Untracked runs fn without tracking signal reads as dependencies.
// For single reads, Signal.Peek is clearer in intent.
func (s *Scope) Untracked(fn func()) {
	prev := s.enterEval(nil)
	defer s.exitEval(prev)
	fn()
}
