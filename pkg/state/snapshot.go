package state

import (
	"hash/fnv"
	"sort"
	"time"
)

// Snapshot is an immutable capture of a component's field values at one
// instant. Fields are copied on construction and never mutated; diffing two
// snapshots is pure.
type Snapshot struct {
	// Timestamp is when this snapshot was taken.
	Timestamp time.Time

	// Hash is a structural hash of the fields for quick comparison.
	Hash uint64

	fields map[string]Value
}

// NewSnapshot captures the given field map. The map is copied.
func NewSnapshot(fields map[string]Value) *Snapshot {
	cp := make(map[string]Value, len(fields))
	for k, v := range fields {
		cp[k] = v
	}
	return &Snapshot{
		Timestamp: time.Now(),
		Hash:      hashFields(cp),
		fields:    cp,
	}
}

// hashFields computes a structural hash over sorted field names, so map
// insertion order never affects the result.
func hashFields(fields map[string]Value) uint64 {
	h := fnv.New64a()

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		h.Write([]byte(k))
		fields[k].writeHash(h)
	}
	return h.Sum64()
}

// Field returns the value of a field and whether it is present.
func (s *Snapshot) Field(name string) (Value, bool) {
	v, ok := s.fields[name]
	return v, ok
}

// FieldNames returns the sorted field names.
func (s *Snapshot) FieldNames() []string {
	names := make([]string, 0, len(s.fields))
	for k := range s.fields {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of fields.
func (s *Snapshot) Len() int {
	return len(s.fields)
}

// Diff compares this snapshot against a newer one and returns the changes
// that turn s into next. Fields present in next with a different (or no)
// prior value become modifications; fields absent from next become removals
// with a Null new value. Neither snapshot is mutated.
func (s *Snapshot) Diff(next *Snapshot) []Change {
	var changes []Change
	now := time.Now()

	for name, newValue := range next.fields {
		oldValue, had := s.fields[name]
		if !had || !oldValue.Equal(newValue) {
			c := Change{
				FieldName: name,
				NewValue:  newValue,
				Timestamp: now,
				Priority:  PriorityNormal,
			}
			if had {
				c.OldValue = oldValue
			}
			changes = append(changes, c)
		}
	}

	for name, oldValue := range s.fields {
		if _, still := next.fields[name]; !still {
			changes = append(changes, Change{
				FieldName: name,
				OldValue:  oldValue,
				NewValue:  Null(),
				Timestamp: now,
				Priority:  PriorityNormal,
			})
		}
	}

	return changes
}
