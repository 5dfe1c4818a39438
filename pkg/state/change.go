package state

import (
	"sort"
	"time"
)

// Priority ranks a state change for batching decisions.
type Priority int

const (
	PriorityLow Priority = iota
	PriorityNormal
	PriorityHigh
	PriorityCritical
)

// String returns the priority name.
func (p Priority) String() string {
	switch p {
	case PriorityLow:
		return "low"
	case PriorityNormal:
		return "normal"
	case PriorityHigh:
		return "high"
	case PriorityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// Change records one field's transition between two snapshots.
type Change struct {
	// FieldName is the field that changed.
	FieldName string

	// OldValue is the previous value, nil when the field is new.
	OldValue Value

	// NewValue is the value after the change. Removed fields get Null.
	NewValue Value

	// Timestamp is when the change was detected.
	Timestamp time.Time

	// Priority ranks this change for batching.
	Priority Priority
}

// Changes is an ordered batch of changes flushed together.
type Changes struct {
	// Changes are the individual field changes, in detection order.
	Changes []Change

	// BatchTimestamp is when the batch was flushed.
	BatchTimestamp time.Time

	// Immediate forces synchronous processing of this batch.
	Immediate bool
}

// NewChanges builds a batch from the given changes.
func NewChanges(changes []Change, immediate bool) *Changes {
	return &Changes{
		Changes:        changes,
		BatchTimestamp: time.Now(),
		Immediate:      immediate,
	}
}

// IsEmpty reports whether the batch holds no changes.
func (c *Changes) IsEmpty() bool {
	return len(c.Changes) == 0
}

// Len returns the number of changes in the batch.
func (c *Changes) Len() int {
	return len(c.Changes)
}

// ForField returns the changes affecting one field, in order.
func (c *Changes) ForField(name string) []Change {
	var out []Change
	for _, ch := range c.Changes {
		if ch.FieldName == name {
			out = append(out, ch)
		}
	}
	return out
}

// HasCritical reports whether any change carries critical priority.
func (c *Changes) HasCritical() bool {
	for _, ch := range c.Changes {
		if ch.Priority == PriorityCritical {
			return true
		}
	}
	return false
}

// SortByPriority orders changes highest priority first, stably.
func (c *Changes) SortByPriority() {
	sort.SliceStable(c.Changes, func(i, j int) bool {
		return c.Changes[i].Priority > c.Changes[j].Priority
	})
}
