// Package state provides coarse, name-keyed state change detection for
// components.
//
// Unlike the fine-grained signals in package reactive, this package works on
// whole field maps: a component's fields are captured into immutable,
// hashed Snapshots, two snapshots are diffed structurally into Changes, and
// a Tracker accumulates changes into time- and size-bounded batches with
// per-field dirty bookkeeping.
package state
