package reactive

import (
	"reflect"
	"sync"
)

// signalBase provides type-erased subscriber management.
// It is embedded in Signal[T] and Computed[T] to share subscription logic.
type signalBase struct {
	id    uint64
	scope *Scope

	// subs are the listeners subscribed to this signal.
	subs []Listener

	// subMu protects the subs slice.
	subMu sync.RWMutex
}

// subscribe adds a listener to this signal's subscribers.
// Deduplicates by listener ID to prevent double-subscription.
func (s *signalBase) subscribe(l Listener) {
	if l == nil {
		return
	}

	s.subMu.Lock()
	defer s.subMu.Unlock()

	lid := l.ID()
	for _, existing := range s.subs {
		if existing.ID() == lid {
			return
		}
	}

	s.subs = append(s.subs, l)
}

// unsubscribe removes a listener from this signal's subscribers.
func (s *signalBase) unsubscribe(l Listener) {
	if l == nil {
		return
	}

	s.subMu.Lock()
	defer s.subMu.Unlock()

	lid := l.ID()
	for i, existing := range s.subs {
		if existing.ID() == lid {
			// Remove by swapping with last element (order doesn't matter)
			s.subs[i] = s.subs[len(s.subs)-1]
			s.subs = s.subs[:len(s.subs)-1]
			return
		}
	}
}

// notifySubscribers notifies all subscribers that this signal changed.
// Uses copy-before-notify so no lock is held during notification. Outside a
// batch, notification is synchronous and depth-first: every subscriber has
// fully reacted by the time this returns. The scope's depth guard cuts
// cascades that feed back into themselves.
func (s *signalBase) notifySubscribers() {
	s.subMu.RLock()
	subs := make([]Listener, len(s.subs))
	copy(subs, s.subs)
	s.subMu.RUnlock()

	if s.scope != nil && s.scope.inBatch() {
		for _, sub := range subs {
			s.scope.queuePending(sub)
		}
		return
	}

	if s.scope != nil {
		if err := s.scope.pushDepth(); err != nil {
			return
		}
		defer s.scope.popDepth()
	}

	for _, sub := range subs {
		sub.MarkDirty()
	}
}

// track subscribes the scope's current listener, if any, to this signal.
func (s *signalBase) track() {
	if s.scope == nil {
		return
	}
	if listener := s.scope.currentListener(); listener != nil {
		s.subscribe(listener)
		if tracker, ok := listener.(sourceTracker); ok {
			tracker.addSource(s)
		}
	}
}

// Signal is a reactive value container.
// Reading a Signal's value during an active effect or computed evaluation
// automatically subscribes that evaluation to value changes.
type Signal[T any] struct {
	base signalBase

	// value is the current signal value.
	value T

	// mu protects the value.
	mu sync.RWMutex

	// equal is the equality function used to determine if the value changed.
	// If nil, uses default equality checking.
	equal func(T, T) bool
}

// CreateSignal creates a new signal owned by the given scope.
func CreateSignal[T any](scope *Scope, initial T) *Signal[T] {
	if scope != nil && scope.Disposed() {
		scope.recordErr(ErrScopeDisposed)
	}
	return &Signal[T]{
		base: signalBase{
			id:    nextID(),
			scope: scope,
		},
		value: initial,
	}
}

// Get returns the current value and subscribes the current listener.
func (s *Signal[T]) Get() T {
	// Read value with lock, track after releasing it to prevent deadlock.
	s.mu.RLock()
	value := s.value
	s.mu.RUnlock()

	s.base.track()

	return value
}

// Peek returns the current value without subscribing.
func (s *Signal[T]) Peek() T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.value
}

// Set updates the signal's value and notifies subscribers if it changed
// under the signal's equality function. By the time Set returns, every
// effect that read this signal has re-run.
func (s *Signal[T]) Set(value T) {
	s.mu.Lock()
	changed := !s.equals(s.value, value)
	if changed {
		s.value = value
	}
	s.mu.Unlock()

	if changed {
		s.base.notifySubscribers()
	}
}

// Update atomically reads and updates the signal's value.
// The function receives the current value and returns the new value.
func (s *Signal[T]) Update(fn func(T) T) {
	s.mu.Lock()
	oldValue := s.value
	newValue := fn(oldValue)
	changed := !s.equals(oldValue, newValue)
	if changed {
		s.value = newValue
	}
	s.mu.Unlock()

	if changed {
		s.base.notifySubscribers()
	}
}

// WithEquals returns the signal configured with a custom equality function.
// Useful for types where reflect.DeepEqual is too expensive or has the
// wrong semantics.
func (s *Signal[T]) WithEquals(fn func(T, T) bool) *Signal[T] {
	s.equal = fn
	return s
}

// ID returns the unique identifier for this signal.
func (s *Signal[T]) ID() uint64 {
	return s.base.id
}

func (s *Signal[T]) equals(a, b T) bool {
	if s.equal != nil {
		return s.equal(a, b)
	}
	return defaultEquals(a, b)
}

// defaultEquals provides type-appropriate equality checking.
// Uses == for common comparable types and reflect.DeepEqual for others.
func defaultEquals[T any](a, b T) bool {
	switch av := any(a).(type) {
	case int:
		return av == any(b).(int)
	case int8:
		return av == any(b).(int8)
	case int16:
		return av == any(b).(int16)
	case int32:
		return av == any(b).(int32)
	case int64:
		return av == any(b).(int64)
	case uint:
		return av == any(b).(uint)
	case uint8:
		return av == any(b).(uint8)
	case uint16:
		return av == any(b).(uint16)
	case uint32:
		return av == any(b).(uint32)
	case uint64:
		return av == any(b).(uint64)
	case float32:
		return av == any(b).(float32)
	case float64:
		return av == any(b).(float64)
	case string:
		return av == any(b).(string)
	case bool:
		return av == any(b).(bool)
	default:
		// Fall back to reflect.DeepEqual for slices, maps, structs, etc.
		return reflect.DeepEqual(a, b)
	}
}
