// Package scheduler batches component update requests into deterministic,
// priority-ordered drains.
//
// Requests arrive from arbitrary goroutines via Schedule and are
// deduplicated per component: a component that is already pending is not
// enqueued again, and its priority is not upgraded. ProcessUpdates pops the
// queue front-to-back in priority order (Critical > High > Normal = Low,
// FIFO within equal priority) and isolates per-item failures so one broken
// component cannot starve the rest of a drain.
package scheduler
