package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Priority ranks a scheduled update.
type Priority int

const (
	// PriorityLow updates are processed after everything else.
	PriorityLow Priority = iota
	// PriorityNormal updates are processed in arrival order.
	PriorityNormal
	// PriorityHigh updates are processed before normal updates.
	PriorityHigh
	// PriorityCritical updates jump to the front of the queue.
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

// Update is one queued entry: a component id and the priority it was
// scheduled at.
type Update struct {
	ComponentID uint64
	Priority    Priority
}

// Observer receives scheduler lifecycle events. Implementations must be
// safe for concurrent use.
type Observer interface {
	// UpdateScheduled fires when a new entry is enqueued. Deduplicated
	// re-schedules do not fire.
	UpdateScheduled(id uint64, priority Priority)

	// DrainStarted fires at the start of ProcessUpdates. The returned
	// context is threaded through the drain, letting implementations attach
	// spans or deadlines.
	DrainStarted(ctx context.Context) context.Context

	// UpdateProcessed fires after each invocation of the drain callback.
	UpdateProcessed(id uint64, err error)

	// DrainCompleted fires when the drain finishes.
	DrainCompleted(ctx context.Context, processed int, took time.Duration)
}

// Scheduler is a deduplicating, priority-ordered update queue.
//
// The queue and pending set are guarded by one mutex, so Clear is atomic
// with respect to concurrent Schedule calls, and the drain callback is
// always invoked with no lock held.
type Scheduler struct {
	mu       sync.Mutex
	queue    []Update
	pending  map[uint64]struct{}
	draining bool

	logger    *slog.Logger
	observers []Observer
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithLogger sets the logger used to report per-item drain failures.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Scheduler) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithObserver registers an observer. May be given multiple times.
func WithObserver(obs Observer) Option {
	return func(s *Scheduler) {
		if obs != nil {
			s.observers = append(s.observers, obs)
		}
	}
}

// New creates an empty scheduler.
func New(opts ...Option) *Scheduler {
	s := &Scheduler{
		pending: make(map[uint64]struct{}),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Schedule enqueues an update for the component at the given priority.
// If the component is already pending this is a no-op: the entry keeps its
// original priority and queue position. Critical entries go to the queue
// front; High entries go after the last existing entry of priority High or
// above; Normal and Low entries go to the back. Order is FIFO within equal
// priority.
func (s *Scheduler) Schedule(id uint64, priority Priority) {
	s.mu.Lock()

	if _, exists := s.pending[id]; exists {
		s.mu.Unlock()
		return
	}
	s.pending[id] = struct{}{}

	update := Update{ComponentID: id, Priority: priority}
	switch priority {
	case PriorityCritical:
		s.queue = append([]Update{update}, s.queue...)
	case PriorityHigh:
		// Insert before the first entry below High.
		pos := len(s.queue)
		for i, u := range s.queue {
			if u.Priority < PriorityHigh {
				pos = i
				break
			}
		}
		s.queue = append(s.queue, Update{})
		copy(s.queue[pos+1:], s.queue[pos:])
		s.queue[pos] = update
	default:
		s.queue = append(s.queue, update)
	}

	s.mu.Unlock()

	for _, obs := range s.observers {
		obs.UpdateScheduled(id, priority)
	}
}

// ProcessUpdates drains the queue front to back, calling fn for each entry.
// An entry is removed from the pending set before fn runs, so fn may
// re-schedule the same component for a later drain without being dropped as
// a duplicate. A failure returned by fn is logged and does not abort the
// drain. Returns the number of entries processed.
func (s *Scheduler) ProcessUpdates(ctx context.Context, fn func(id uint64) error) int {
	s.mu.Lock()
	s.draining = true
	s.mu.Unlock()

	for _, obs := range s.observers {
		ctx = obs.DrainStarted(ctx)
	}
	start := time.Now()

	count := 0
	for {
		s.mu.Lock()
		if len(s.queue) == 0 {
			s.mu.Unlock()
			break
		}
		update := s.queue[0]
		s.queue = s.queue[1:]
		delete(s.pending, update.ComponentID)
		s.mu.Unlock()

		err := fn(update.ComponentID)
		if err != nil {
			// Partial-failure isolation: report and keep draining.
			s.logger.Error("component update failed",
				"component_id", update.ComponentID,
				"priority", update.Priority.String(),
				"error", err)
		}
		for _, obs := range s.observers {
			obs.UpdateProcessed(update.ComponentID, err)
		}
		count++
	}

	s.mu.Lock()
	s.draining = false
	s.mu.Unlock()

	took := time.Since(start)
	for _, obs := range s.observers {
		obs.DrainCompleted(ctx, count, took)
	}
	return count
}

// HasPending reports whether any update is queued.
func (s *Scheduler) HasPending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending) > 0
}

// PendingCount returns the number of queued updates.
func (s *Scheduler) PendingCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// IsDraining reports whether a drain pass is in progress.
func (s *Scheduler) IsDraining() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draining
}

// Clear atomically discards the queue and the pending set. Entries already
// handed to a drain callback are unaffected.
func (s *Scheduler) Clear() {
	s.mu.Lock()
	s.queue = nil
	s.pending = make(map[uint64]struct{})
	s.mu.Unlock()
}
