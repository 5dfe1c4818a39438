package reactive

// Listener is anything that can be notified when a dependency changes.
// It is implemented by effects and computed values.
type Listener interface {
	// MarkDirty notifies the listener that one of its dependencies changed.
	// For computed values, this invalidates the cached value.
	// For effects, this re-runs the effect synchronously.
	MarkDirty()

	// ID returns a unique identifier for this listener.
	// Used for deduplication during batch processing.
	ID() uint64
}

// Cleanup is a function returned by effects to clean up resources.
// It is called before the effect re-runs and when the effect is disposed.
type Cleanup func()

// sourceTracker is implemented by listeners that record which signals they
// read, so stale subscriptions can be dropped before the next run.
type sourceTracker interface {
	Listener
	addSource(source *signalBase)
}
