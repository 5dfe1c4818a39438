package reactive

// Batch groups multiple signal updates into a single notification phase.
// All signal updates within fn are collected, deduplicated by listener
// identity, and the affected listeners are notified once when the outermost
// batch completes.
//
//	scope.Batch(func() {
//	    firstName.Set("Ada")
//	    lastName.Set("Lovelace")
//	})
//	// Dependents re-run once with both changes
func (s *Scope) Batch(fn func()) {
	s.mu.Lock()
	s.batchDepth++
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.batchDepth--
		done := s.batchDepth == 0
		var pending []Listener
		if done {
			pending = s.pending
			s.pending = nil
		}
		s.mu.Unlock()

		if done {
			s.processPending(pending)
		}
	}()

	fn()
}

// processPending deduplicates and notifies all queued listeners.
func (s *Scope) processPending(pending []Listener) {
	if len(pending) == 0 {
		return
	}

	seen := make(map[uint64]bool, len(pending))
	unique := make([]Listener, 0, len(pending))
	for _, l := range pending {
		id := l.ID()
		if !seen[id] {
			seen[id] = true
			unique = append(unique, l)
		}
	}

	if err := s.pushDepth(); err != nil {
		return
	}
	defer s.popDepth()

	for _, l := range unique {
		l.MarkDirty()
	}
}
