package component

// Phase is one discrete stage of a component's lifecycle. A Manager moves an
// instance through phases in a fixed order; illegal moves fail with
// TransitionError and never mutate the current phase.
type Phase int

const (
	// PhaseCreated is the initial phase after construction, before mount.
	PhaseCreated Phase = iota
	// PhaseMounting covers the mount hooks up to a successful Mount.
	PhaseMounting
	// PhaseMounted is the steady operational phase.
	PhaseMounted
	// PhaseBeforeUpdate covers the pre-update hooks of an update pass.
	PhaseBeforeUpdate
	// PhaseUpdating covers the application of a flushed change batch.
	PhaseUpdating
	// PhaseBeforeUnmount covers the pre-unmount hooks.
	PhaseBeforeUnmount
	// PhaseUnmounting covers the unmount hooks up to a successful Unmount.
	PhaseUnmounting
	// PhaseUnmounted is terminal. No transitions leave it.
	PhaseUnmounted
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case PhaseCreated:
		return "created"
	case PhaseMounting:
		return "mounting"
	case PhaseMounted:
		return "mounted"
	case PhaseBeforeUpdate:
		return "before_update"
	case PhaseUpdating:
		return "updating"
	case PhaseBeforeUnmount:
		return "before_unmount"
	case PhaseUnmounting:
		return "unmounting"
	case PhaseUnmounted:
		return "unmounted"
	default:
		return "unknown"
	}
}
