package component

import (
	"log/slog"
	"sync"
	"time"

	"github.com/strandui/strand/pkg/state"
)

// Manager drives one instance through its lifecycle phases. All phase
// checks happen under the manager's mutex; the component's own methods and
// hooks run under the instance's exclusive-ownership lock only, so a hook
// may call back into the tree or the scheduler freely. Lifecycle calls
// serialize on the instance lock, and the phase is re-checked once the lock
// is held, so at most one of a set of racing calls performs the transition.
//
// An operation attempted in a phase where it is not legal fails with
// TransitionError and leaves the phase untouched.
type Manager struct {
	mu          sync.Mutex
	phase       Phase
	initialized bool
	lastUpdated time.Time

	inst    *Instance
	ctx     *Context
	tracker *state.Tracker
	logger  *slog.Logger

	// onPhase, when set, is called after every phase change. The tree uses
	// it to fan out to observers. Called with no manager lock held.
	onPhase func(id ID, phase Phase)
}

// NewManager creates a lifecycle manager for the instance in phase Created.
// A nil logger falls back to slog.Default().
func NewManager(inst *Instance, ctx *Context, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		phase:   PhaseCreated,
		inst:    inst,
		ctx:     ctx,
		tracker: state.NewTrackerDefault(uint64(inst.ID())),
		logger:  logger,
	}
}

// CurrentPhase returns the instance's lifecycle phase.
func (m *Manager) CurrentPhase() Phase {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.phase
}

// Context returns the component's context.
func (m *Manager) Context() *Context { return m.ctx }

// Instance returns the managed instance.
func (m *Manager) Instance() *Instance { return m.inst }

// Tracker returns the manager's state tracker.
func (m *Manager) Tracker() *state.Tracker { return m.tracker }

// LastUpdated returns the time of the last completed update pass.
func (m *Manager) LastUpdated() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastUpdated
}

// require fails with TransitionError unless the current phase is want.
func (m *Manager) require(op string, want Phase) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.phase != want {
		return &TransitionError{Phase: m.phase, Op: op}
	}
	return nil
}

// acquireIn takes the instance lock for op and verifies the phase is want
// both before and after the lock is taken. Concurrent lifecycle calls on one
// instance serialize on that lock; a caller that blocked while another call
// moved the phase fails with TransitionError instead of repeating the
// completed work.
func (m *Manager) acquireIn(op string, want Phase) (Component, func(), error) {
	if err := m.require(op, want); err != nil {
		return nil, nil, err
	}
	comp, release, err := m.inst.acquire(op)
	if err != nil {
		return nil, nil, err
	}
	if err := m.require(op, want); err != nil {
		release()
		return nil, nil, err
	}
	return comp, release, nil
}

// transition records the new phase and notifies the context and the
// tree's observers. The manager lock is not held across the callback.
func (m *Manager) transition(p Phase) {
	m.mu.Lock()
	m.phase = p
	m.mu.Unlock()
	m.ctx.setPhase(p)
	if m.onPhase != nil {
		m.onPhase(m.inst.id, p)
	}
}

// Initialize runs the component's one-time setup. Legal only in Created;
// a repeated call after successful initialization is a no-op.
func (m *Manager) Initialize() error {
	comp, release, err := m.acquireIn("initialize", PhaseCreated)
	if err != nil {
		return err
	}
	m.mu.Lock()
	done := m.initialized
	m.mu.Unlock()
	if done {
		release()
		return nil
	}

	var initErr error
	if init, ok := comp.(Initializer); ok {
		initErr = init.Initialize()
	}
	if initErr == nil {
		m.mu.Lock()
		m.initialized = true
		m.mu.Unlock()
	}
	release()
	return initErr
}

// Mount moves the instance Created -> Mounting -> Mounted. On any failure
// during the mounting phase the instance rolls back to Created; there is no
// partially-mounted resting state. A BeforeMount failure aborts with the
// phase still Created.
func (m *Manager) Mount() error {
	comp, release, err := m.acquireIn("mount", PhaseCreated)
	if err != nil {
		return err
	}
	defer release()

	if bm, ok := comp.(BeforeMounter); ok {
		if err := bm.BeforeMount(); err != nil {
			return &MountError{ID: m.inst.id, Err: err}
		}
	}

	m.transition(PhaseMounting)
	m.ctx.hooks.run(PhaseMounting, comp)

	var mountErr error
	if mh, ok := comp.(MountHook); ok {
		mountErr = mh.OnMount(&MountContext{ComponentID: m.inst.id})
	}
	if mountErr == nil {
		mountErr = comp.Mount()
	}
	if mountErr != nil {
		m.transition(PhaseCreated)
		return &MountError{ID: m.inst.id, Err: mountErr}
	}

	m.transition(PhaseMounted)

	if am, ok := comp.(AfterMounter); ok {
		if err := am.AfterMount(); err != nil {
			m.logger.Warn("after-mount hook failed",
				"component_id", uint64(m.inst.id),
				"error", err)
		}
	}
	return nil
}

// Update applies new props. Legal only in Mounted; the instance passes
// through BeforeUpdate and returns to Mounted whether or not the component
// accepted the props, so a failed update leaves the component usable.
func (m *Manager) Update(props Props) error {
	comp, release, err := m.acquireIn("update", PhaseMounted)
	if err != nil {
		return err
	}

	m.transition(PhaseBeforeUpdate)
	m.ctx.hooks.run(PhaseBeforeUpdate, comp)

	var updateErr error
	if bu, ok := comp.(BeforeUpdater); ok {
		updateErr = bu.BeforeUpdate(props.Clone())
	}
	if updateErr == nil {
		updateErr = comp.Update(props.Clone())
	}
	if updateErr == nil {
		// The instance lock is held via acquire, so the stored props can
		// be swapped directly.
		m.inst.props = props
		if au, ok := comp.(AfterUpdater); ok {
			updateErr = au.AfterUpdate()
		}
	}
	release()

	m.transition(PhaseMounted)
	if updateErr != nil {
		return &UpdateError{ID: m.inst.id, Err: updateErr}
	}

	m.mu.Lock()
	m.lastUpdated = time.Now()
	m.mu.Unlock()
	return nil
}

// Unmount moves the instance Mounted -> BeforeUnmount -> Unmounting ->
// Unmounted with reason Removed. Unmounted is terminal.
func (m *Manager) Unmount() error {
	return m.UnmountWithReason(UnmountRemoved)
}

// UnmountWithReason is Unmount carrying an explicit reason to the unmount
// hooks. A BeforeUnmount failure leaves the phase at BeforeUnmount; an
// Unmount failure leaves it at Unmounting.
func (m *Manager) UnmountWithReason(reason UnmountReason) error {
	comp, release, err := m.acquireIn("unmount", PhaseMounted)
	if err != nil {
		return err
	}
	defer release()

	m.transition(PhaseBeforeUnmount)
	if bu, ok := comp.(BeforeUnmounter); ok {
		if err := bu.BeforeUnmount(); err != nil {
			return &UnmountError{ID: m.inst.id, Err: err}
		}
	}

	m.transition(PhaseUnmounting)
	m.ctx.hooks.run(PhaseUnmounting, comp)

	var unmountErr error
	if uh, ok := comp.(UnmountHook); ok {
		unmountErr = uh.OnUnmount(&UnmountContext{ComponentID: m.inst.id, Reason: reason})
	}
	if unmountErr == nil {
		unmountErr = comp.Unmount()
	}
	if unmountErr != nil {
		return &UnmountError{ID: m.inst.id, Err: unmountErr}
	}

	m.transition(PhaseUnmounted)

	if au, ok := comp.(AfterUnmounter); ok {
		if err := au.AfterUnmount(); err != nil {
			m.logger.Warn("after-unmount hook failed",
				"component_id", uint64(m.inst.id),
				"error", err)
		}
	}
	return nil
}

// Render produces the component's output. Legal only in Mounted; the phase
// does not change.
func (m *Manager) Render() ([]Node, error) {
	comp, release, err := m.acquireIn("render", PhaseMounted)
	if err != nil {
		return nil, err
	}
	nodes, renderErr := comp.Render()
	release()

	if renderErr != nil {
		return nil, &RenderError{ID: m.inst.id, Err: renderErr}
	}
	return nodes, nil
}

// HandleUpdates extracts the component's coarse state, feeds the change
// tracker, and when the tracker flushes a batch runs the update hooks and
// schedules a re-render. Legal only in Mounted.
func (m *Manager) HandleUpdates() error {
	if err := m.require("handle updates", PhaseMounted); err != nil {
		return err
	}

	fields, err := m.extractState()
	if err != nil {
		return err
	}

	changes := m.tracker.UpdateState(fields)
	if changes == nil || changes.IsEmpty() {
		return nil
	}

	comp, release, err := m.acquireIn("handle updates", PhaseMounted)
	if err != nil {
		return err
	}

	m.transition(PhaseBeforeUpdate)
	m.ctx.hooks.run(PhaseBeforeUpdate, comp)

	var hookErr error
	if uh, ok := comp.(UpdateHook); ok {
		hookErr = uh.OnUpdate(changes)
	}
	release()

	if hookErr != nil {
		m.transition(PhaseMounted)
		return &UpdateError{ID: m.inst.id, Err: hookErr}
	}

	m.transition(PhaseUpdating)
	m.ctx.RequestUpdate()
	m.transition(PhaseMounted)

	m.mu.Lock()
	m.lastUpdated = time.Now()
	m.mu.Unlock()
	return nil
}

// extractState builds the tracked state map for the component. Components
// implementing StateProvider contribute their own fields; everything else
// is tracked by props type and phase only.
func (m *Manager) extractState() (map[string]state.Value, error) {
	comp, release, err := m.inst.acquire("state extraction")
	if err != nil {
		return nil, err
	}

	fields := make(map[string]state.Value)
	if sp, ok := comp.(StateProvider); ok {
		for name, v := range sp.StateFields() {
			fields[name] = v
		}
	}
	propsName := "none"
	if m.inst.props != nil {
		propsName = m.inst.props.TypeName()
	}
	release()

	fields["__props_type"] = state.String(propsName)
	fields["__phase"] = state.String(m.CurrentPhase().String())
	return fields, nil
}
