// Package component implements the component model of the update pipeline:
// typed component contracts, per-instance lifecycle management, and the
// component tree.
//
// # Core Types
//
//   - Component: the typed interface application authors implement, with
//     optional hook interfaces (BeforeMounter, AfterUpdater, ...) discovered
//     by interface assertion.
//   - Instance: an erased, id-addressed holder pairing a Component with its
//     current Props. The tree and scheduler hold Instances, never concrete
//     component types.
//   - Manager: the per-instance lifecycle state machine
//     (Created, Mounting, Mounted, ..., Unmounted).
//   - Tree: the arena of instances plus the parent/child graph, with
//     tree-wide mount, unmount and batch-update operations.
//
// # Locking Model
//
// Each shared structure is guarded by its own mutex for the duration of a
// single operation. Locks are never held across calls into user component
// code: hooks and lifecycle methods run after the structural lock is
// released, so a hook may schedule further updates without deadlocking.
package component
