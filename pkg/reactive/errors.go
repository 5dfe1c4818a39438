package reactive

import "errors"

// ErrCircularDependency is recorded on a Scope when signal propagation
// re-enters a listener that is already running, or when a propagation
// cascade exceeds the scope's depth limit. The offending re-run is skipped
// instead of looping; callers observe the failure through Scope.Err.
var ErrCircularDependency = errors.New("reactive: circular dependency detected")

// ErrScopeDisposed is returned when creating a primitive on a disposed scope.
var ErrScopeDisposed = errors.New("reactive: scope disposed")
