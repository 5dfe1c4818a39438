package state

import (
	"sync"
	"time"
)

// Config controls change detection and batching for a Tracker.
type Config struct {
	// MaxBatchTime is the longest a change may sit queued before the batch
	// is flushed.
	MaxBatchTime time.Duration

	// MaxBatchSize flushes the batch once it holds this many changes.
	MaxBatchSize int

	// SnapshotThrottle discards snapshots taken within this interval of the
	// previous one, bounding diff work under rapid mutation.
	SnapshotThrottle time.Duration
}

// DefaultConfig returns the standard tracking configuration, tuned to a
// 60fps update loop.
func DefaultConfig() Config {
	return Config{
		MaxBatchTime:     16 * time.Millisecond,
		MaxBatchSize:     50,
		SnapshotThrottle: time.Millisecond,
	}
}

// Tracker detects and batches state changes for one component.
//
// Each UpdateState call captures a snapshot, diffs it against the current
// one, and queues the resulting changes. The queued batch is returned once
// the flush policy triggers; until then UpdateState returns nil. Dirty-field
// flags are independent of flushing: they are set when a field changes and
// cleared only by MarkFieldClean.
type Tracker struct {
	mu sync.Mutex

	// componentID identifies the component being tracked.
	componentID uint64

	previous *Snapshot
	current  *Snapshot

	batch       []Change
	dirtyFields map[string]bool

	config Config
}

// NewTracker creates a tracker for the given component.
func NewTracker(componentID uint64, config Config) *Tracker {
	return &Tracker{
		componentID: componentID,
		dirtyFields: make(map[string]bool),
		config:      config,
	}
}

// NewTrackerDefault creates a tracker with DefaultConfig.
func NewTrackerDefault(componentID uint64) *Tracker {
	return NewTracker(componentID, DefaultConfig())
}

// ComponentID returns the id of the tracked component.
func (t *Tracker) ComponentID() uint64 {
	return t.componentID
}

// UpdateState captures fields into a new snapshot, diffs it against the
// current one, and queues the changes. The first-ever state counts as all
// fields added. Returns the flushed batch when the flush policy triggers,
// nil otherwise. A snapshot arriving within SnapshotThrottle of the current
// one is discarded and returns nil.
func (t *Tracker) UpdateState(fields map[string]Value) *Changes {
	snapshot := NewSnapshot(fields)

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.current != nil &&
		snapshot.Timestamp.Sub(t.current.Timestamp) < t.config.SnapshotThrottle {
		return nil
	}

	var changes []Change
	if t.current != nil {
		changes = t.current.Diff(snapshot)
	} else {
		// First state: every field is an addition.
		for _, name := range snapshot.FieldNames() {
			v, _ := snapshot.Field(name)
			changes = append(changes, Change{
				FieldName: name,
				NewValue:  v,
				Timestamp: snapshot.Timestamp,
				Priority:  PriorityNormal,
			})
		}
	}

	t.previous = t.current
	t.current = snapshot

	for _, c := range changes {
		t.dirtyFields[c.FieldName] = true
		t.batch = append(t.batch, c)
	}

	if t.shouldFlushLocked() {
		return t.flushLocked()
	}
	return nil
}

// FlushBatch force-flushes the queued changes regardless of policy.
// Dirty flags are untouched; they are cleared only via MarkFieldClean.
func (t *Tracker) FlushBatch() *Changes {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.flushLocked()
}

func (t *Tracker) flushLocked() *Changes {
	changes := t.batch
	t.batch = nil
	return &Changes{
		Changes:        changes,
		BatchTimestamp: time.Now(),
	}
}

// shouldFlushLocked applies the flush policy in order: batch size, oldest
// change age, then critical priority.
func (t *Tracker) shouldFlushLocked() bool {
	if len(t.batch) == 0 {
		return false
	}

	if len(t.batch) >= t.config.MaxBatchSize {
		return true
	}

	if time.Since(t.batch[0].Timestamp) >= t.config.MaxBatchTime {
		return true
	}

	for _, c := range t.batch {
		if c.Priority == PriorityCritical {
			return true
		}
	}
	return false
}

// QueueChange adds an externally-built change to the batch, marking its
// field dirty. Used for changes that do not originate from a snapshot diff,
// such as critical flush requests.
func (t *Tracker) QueueChange(c Change) *Changes {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.dirtyFields[c.FieldName] = true
	t.batch = append(t.batch, c)

	if t.shouldFlushLocked() {
		return t.flushLocked()
	}
	return nil
}

// IsFieldDirty reports whether a field changed since it was last marked
// clean. Independent of batch flushes.
func (t *Tracker) IsFieldDirty(name string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.dirtyFields[name]
}

// MarkFieldClean clears a field's dirty flag.
func (t *Tracker) MarkFieldClean(name string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.dirtyFields[name] = false
}

// DirtyFields returns the names of all currently dirty fields.
func (t *Tracker) DirtyFields() []string {
	t.mu.Lock()
	defer t.mu.Unlock()

	var out []string
	for name, dirty := range t.dirtyFields {
		if dirty {
			out = append(out, name)
		}
	}
	return out
}

// HasDirtyFields reports whether any field is dirty.
func (t *Tracker) HasDirtyFields() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	for _, dirty := range t.dirtyFields {
		if dirty {
			return true
		}
	}
	return false
}

// CurrentSnapshot returns the latest snapshot, nil before the first update.
func (t *Tracker) CurrentSnapshot() *Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.current
}

// PreviousSnapshot returns the snapshot before the current one.
func (t *Tracker) PreviousSnapshot() *Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.previous
}

// PendingChanges returns the number of queued, unflushed changes.
func (t *Tracker) PendingChanges() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.batch)
}

// Clear drops all tracking data: snapshots, queued changes, dirty flags.
func (t *Tracker) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.previous = nil
	t.current = nil
	t.batch = nil
	t.dirtyFields = make(map[string]bool)
}
