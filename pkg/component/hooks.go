package component

import "sync"

// LifecycleCallback is a phase-scoped callback registered on a Context. It
// receives the component being transitioned.
type LifecycleCallback func(c Component)

// LifecycleHooks holds context-level callback lists keyed by phase. They
// run during the Mounting, BeforeUpdate and Unmounting phases, before the
// corresponding per-component hook methods, and complement rather than
// replace the optional hook interfaces.
type LifecycleHooks struct {
	mu    sync.Mutex
	hooks map[Phase][]LifecycleCallback
}

// NewLifecycleHooks creates an empty hook registry.
func NewLifecycleHooks() *LifecycleHooks {
	return &LifecycleHooks{hooks: make(map[Phase][]LifecycleCallback)}
}

// OnMount registers a callback run during the Mounting phase.
func (h *LifecycleHooks) OnMount(cb LifecycleCallback) { h.add(PhaseMounting, cb) }

// OnBeforeUpdate registers a callback run during the BeforeUpdate phase.
func (h *LifecycleHooks) OnBeforeUpdate(cb LifecycleCallback) { h.add(PhaseBeforeUpdate, cb) }

// OnUnmount registers a callback run during the Unmounting phase.
func (h *LifecycleHooks) OnUnmount(cb LifecycleCallback) { h.add(PhaseUnmounting, cb) }

func (h *LifecycleHooks) add(p Phase, cb LifecycleCallback) {
	if cb == nil {
		return
	}
	h.mu.Lock()
	h.hooks[p] = append(h.hooks[p], cb)
	h.mu.Unlock()
}

// run invokes the callbacks registered for the phase, in registration
// order, with no hook lock held.
func (h *LifecycleHooks) run(p Phase, c Component) {
	h.mu.Lock()
	cbs := make([]LifecycleCallback, len(h.hooks[p]))
	copy(cbs, h.hooks[p])
	h.mu.Unlock()

	for _, cb := range cbs {
		cb(c)
	}
}
