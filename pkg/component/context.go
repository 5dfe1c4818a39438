package component

import (
	"sync/atomic"

	"github.com/strandui/strand/pkg/reactive"
	"github.com/strandui/strand/pkg/scheduler"
)

// Context is the per-instance handle passed to component code. It exposes
// the tree's reactive scope, the shared event emitter, the lifecycle hook
// registry, and the update-request entry points feeding the scheduler.
type Context struct {
	componentID ID
	scope       *reactive.Scope
	sched       *scheduler.Scheduler
	emitter     *Emitter
	hooks       *LifecycleHooks

	phase atomic.Int64
}

// NewContext builds a context for one component instance. Any of scope,
// sched or emitter may be nil when the corresponding facility is unused;
// the related methods then degrade to no-ops.
func NewContext(id ID, scope *reactive.Scope, sched *scheduler.Scheduler, emitter *Emitter) *Context {
	return &Context{
		componentID: id,
		scope:       scope,
		sched:       sched,
		emitter:     emitter,
		hooks:       NewLifecycleHooks(),
	}
}

// ComponentID returns the id of the instance this context belongs to.
func (c *Context) ComponentID() ID { return c.componentID }

// Scope returns the reactive scope shared by the tree.
func (c *Context) Scope() *reactive.Scope { return c.scope }

// Hooks returns the context's lifecycle hook registry.
func (c *Context) Hooks() *LifecycleHooks { return c.hooks }

// Phase returns the lifecycle phase last recorded by the manager.
func (c *Context) Phase() Phase { return Phase(c.phase.Load()) }

func (c *Context) setPhase(p Phase) { c.phase.Store(int64(p)) }

// RequestUpdate schedules a normal-priority update for this component.
func (c *Context) RequestUpdate() {
	if c.sched != nil {
		c.sched.Schedule(uint64(c.componentID), scheduler.PriorityNormal)
	}
}

// RequestCriticalUpdate schedules a critical-priority update for this
// component, placing it at the front of the queue.
func (c *Context) RequestCriticalUpdate() {
	if c.sched != nil {
		c.sched.Schedule(uint64(c.componentID), scheduler.PriorityCritical)
	}
}

// Emit publishes an event on the tree's emitter, stamped with this
// component's id.
func (c *Context) Emit(name string, payload any) {
	if c.emitter != nil {
		c.emitter.Emit(Event{Name: name, Source: c.componentID, Payload: payload})
	}
}

// On subscribes to the named event on the tree's emitter.
func (c *Context) On(name string, h EventHandler) {
	if c.emitter != nil {
		c.emitter.On(name, h)
	}
}
