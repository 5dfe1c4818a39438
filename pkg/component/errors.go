package component

import (
	"errors"
	"fmt"
	"reflect"
)

// Sentinel errors for errors.Is checks. The structured types below wrap
// these where a caller needs the detail.
var (
	// ErrNotFound indicates an id absent from the tree.
	ErrNotFound = errors.New("component not found")
	// ErrAlreadyExists indicates an id already present in the tree.
	ErrAlreadyExists = errors.New("component already exists")
	// ErrInvalidRelationship indicates a parent/child edge that would
	// violate the single-parent invariant.
	ErrInvalidRelationship = errors.New("invalid component relationship")
	// ErrInvalidTransition indicates a lifecycle operation illegal in the
	// instance's current phase.
	ErrInvalidTransition = errors.New("invalid lifecycle transition")
	// ErrPropsMismatch indicates props of an unexpected concrete type.
	ErrPropsMismatch = errors.New("props type mismatch")
	// ErrDowncast indicates a failed dynamic props downcast.
	ErrDowncast = errors.New("props downcast failed")
	// ErrLock indicates the instance could not be acquired, typically
	// because it was removed from the tree.
	ErrLock = errors.New("component lock unavailable")
	// ErrTypeNotFound indicates a component type name with no registered
	// factory.
	ErrTypeNotFound = errors.New("component type not registered")
)

// TransitionError reports a lifecycle operation attempted in a phase where
// it is not legal. The phase is the instance's phase at the time of the
// call, which the failed call did not change.
type TransitionError struct {
	Phase Phase
	Op    string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot %s component in phase %s", e.Op, e.Phase)
}

func (e *TransitionError) Unwrap() error { return ErrInvalidTransition }

// NotFoundError reports an id absent from the tree.
type NotFoundError struct {
	ID ID
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("component %d not found", e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// AlreadyExistsError reports an id already registered in the tree.
type AlreadyExistsError struct {
	ID ID
}

func (e *AlreadyExistsError) Error() string {
	return fmt.Sprintf("component %d already exists", e.ID)
}

func (e *AlreadyExistsError) Unwrap() error { return ErrAlreadyExists }

// RelationshipError reports an AddChild call that would give a child a
// second parent.
type RelationshipError struct {
	Parent ID
	Child  ID
	Reason string
}

func (e *RelationshipError) Error() string {
	return fmt.Sprintf("cannot make %d a child of %d: %s", e.Child, e.Parent, e.Reason)
}

func (e *RelationshipError) Unwrap() error { return ErrInvalidRelationship }

// PropsMismatchError reports props whose concrete type does not match what
// the component expects.
type PropsMismatchError struct {
	Expected reflect.Type
	Got      reflect.Type
}

func (e *PropsMismatchError) Error() string {
	return fmt.Sprintf("props mismatch: expected %v, got %v", e.Expected, e.Got)
}

func (e *PropsMismatchError) Unwrap() []error { return []error{ErrPropsMismatch, ErrDowncast} }

// LockError reports a failure to acquire exclusive access to an instance.
type LockError struct {
	Reason string
}

func (e *LockError) Error() string {
	return fmt.Sprintf("component lock unavailable: %s", e.Reason)
}

func (e *LockError) Unwrap() error { return ErrLock }

// TypeNotFoundError reports a component type name with no factory in the
// registry.
type TypeNotFoundError struct {
	Name string
}

func (e *TypeNotFoundError) Error() string {
	return fmt.Sprintf("component type %q not registered", e.Name)
}

func (e *TypeNotFoundError) Unwrap() error { return ErrTypeNotFound }

// Operation wrappers. These preserve the underlying component error for
// errors.Is/As while tagging which lifecycle operation failed.

// MountError wraps a failure during mount.
type MountError struct {
	ID  ID
	Err error
}

func (e *MountError) Error() string {
	return fmt.Sprintf("mount component %d: %v", e.ID, e.Err)
}

func (e *MountError) Unwrap() error { return e.Err }

// UpdateError wraps a failure during update.
type UpdateError struct {
	ID  ID
	Err error
}

func (e *UpdateError) Error() string {
	return fmt.Sprintf("update component %d: %v", e.ID, e.Err)
}

func (e *UpdateError) Unwrap() error { return e.Err }

// UnmountError wraps a failure during unmount.
type UnmountError struct {
	ID  ID
	Err error
}

func (e *UnmountError) Error() string {
	return fmt.Sprintf("unmount component %d: %v", e.ID, e.Err)
}

func (e *UnmountError) Unwrap() error { return e.Err }

// RenderError wraps a failure during render.
type RenderError struct {
	ID  ID
	Err error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render component %d: %v", e.ID, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }
