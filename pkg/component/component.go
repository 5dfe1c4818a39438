package component

import "github.com/strandui/strand/pkg/state"

// Component is the typed contract application authors implement. The
// required methods cover the mandatory lifecycle; finer-grained behavior is
// added by implementing the optional hook interfaces below, which the
// Manager discovers by interface assertion and which default to no-ops.
type Component interface {
	// Mount is called when the component enters the tree.
	Mount() error
	// Update is called with the component's next props.
	Update(props Props) error
	// Unmount is called when the component leaves the tree.
	Unmount() error
	// Render produces the component's current output. It must not mutate
	// component state.
	Render() ([]Node, error)
}

// Initializer runs implementation-specific setup once, after construction
// and before the first mount.
type Initializer interface {
	Initialize() error
}

// BeforeMounter runs before the mounting phase begins. A returned error
// aborts the mount with the phase still Created.
type BeforeMounter interface {
	BeforeMount() error
}

// AfterMounter runs after a successful mount. A returned error is logged;
// the component stays mounted.
type AfterMounter interface {
	AfterMount() error
}

// MountHook receives the mount context during the mounting phase.
type MountHook interface {
	OnMount(ctx *MountContext) error
}

// BeforeUpdater runs before new props are applied.
type BeforeUpdater interface {
	BeforeUpdate(props Props) error
}

// AfterUpdater runs after new props have been applied.
type AfterUpdater interface {
	AfterUpdate() error
}

// UpdateHook receives the flushed state change batch during an update pass
// driven by HandleUpdates.
type UpdateHook interface {
	OnUpdate(changes *state.Changes) error
}

// BeforeUnmounter runs before the unmounting phase begins.
type BeforeUnmounter interface {
	BeforeUnmount() error
}

// AfterUnmounter runs after a successful unmount. A returned error is
// logged; the component stays unmounted.
type AfterUnmounter interface {
	AfterUnmount() error
}

// UnmountHook receives the unmount context during the unmounting phase.
type UnmountHook interface {
	OnUnmount(ctx *UnmountContext) error
}

// StateProvider exposes a component's coarse state for change tracking.
// Components that do not implement it are tracked by props type and phase
// only.
type StateProvider interface {
	StateFields() map[string]state.Value
}

// MountContext carries mount-time information to MountHook implementations.
type MountContext struct {
	// ComponentID is the id the instance was mounted under.
	ComponentID ID
}

// UnmountReason says why a component is being unmounted.
type UnmountReason int

const (
	// UnmountRemoved: the component was removed explicitly.
	UnmountRemoved UnmountReason = iota
	// UnmountReplaced: the component is being replaced by another.
	UnmountReplaced
	// UnmountParentUnmounted: an ancestor was unmounted.
	UnmountParentUnmounted
	// UnmountAppShutdown: the whole tree is shutting down.
	UnmountAppShutdown
)

// String returns the reason name.
func (r UnmountReason) String() string {
	switch r {
	case UnmountRemoved:
		return "removed"
	case UnmountReplaced:
		return "replaced"
	case UnmountParentUnmounted:
		return "parent_unmounted"
	case UnmountAppShutdown:
		return "app_shutdown"
	default:
		return "unknown"
	}
}

// UnmountContext carries unmount-time information to UnmountHook
// implementations.
type UnmountContext struct {
	ComponentID ID
	Reason      UnmountReason
}
