package component

import "sync/atomic"

// ID uniquely identifies a component instance across all structures. IDs are
// monotonic and never reused within a process.
type ID uint64

// IDGenerator hands out process-unique component ids. The zero value is not
// usable; construct with NewIDGenerator. Generators are safe for concurrent
// use and are injectable so tests can start from a known counter.
type IDGenerator struct {
	counter atomic.Uint64
}

// NewIDGenerator creates a generator whose first id is 1.
func NewIDGenerator() *IDGenerator {
	return &IDGenerator{}
}

// Next returns the next unused id.
func (g *IDGenerator) Next() ID {
	return ID(g.counter.Add(1))
}

var defaultGenerator = NewIDGenerator()
