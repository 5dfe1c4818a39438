// Package reactive provides the fine-grained reactive graph for the Strand
// framework.
//
// Dependencies are tracked automatically at runtime: reading a signal during
// an effect or computed evaluation subscribes that evaluation to the signal's
// changes. All primitives belong to a Scope, which owns the currently-running
// evaluation slot and disposes every effect created within it.
//
// # Core Types
//
// Signal[T] is a reactive value container:
//
//	count := CreateSignal(scope, 0)
//	value := count.Get()  // Read (subscribes current listener)
//	count.Set(5)          // Write (notifies subscribers)
//	count.Update(func(n int) int { return n + 1 })
//
// Computed[T] is a memoized derived value. It computes eagerly once at
// creation and recomputes lazily on the next Get after a dependency changed:
//
//	doubled := CreateComputed(scope, func() int { return count.Get() * 2 })
//
// Effect runs side effects when dependencies change:
//
//	scope.CreateEffect(func() Cleanup {
//	    fmt.Println("Count is:", count.Get())
//	    return func() { /* cleanup */ }
//	})
//
// # Notification Model
//
// Notification is synchronous and depth-first: a Set fully re-runs every
// subscribed effect before it returns. Batch defers notification until the
// outermost batch completes, deduplicated by listener identity. Unbounded
// re-entrant propagation (an effect transitively re-triggering itself) is
// cut and reported as ErrCircularDependency via Scope.Err rather than
// looping.
package reactive
