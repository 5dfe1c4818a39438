package state

import (
	"testing"
	"time"
)

// testConfig disables throttling so rapid test updates are all observed.
func testConfig() Config {
	cfg := DefaultConfig()
	cfg.SnapshotThrottle = 0
	return cfg
}

func TestTrackerBatchSizeFlush(t *testing.T) {
	cfg := testConfig()
	cfg.MaxBatchSize = 2
	tracker := NewTracker(1, cfg)

	first := tracker.UpdateState(map[string]Value{"count": Int(1)})
	if first != nil {
		t.Fatalf("expected no flush after first change, got %d changes", first.Len())
	}

	second := tracker.UpdateState(map[string]Value{"count": Int(2)})
	if second == nil {
		t.Fatal("expected flush after second change")
	}
	if second.Len() != 2 {
		t.Errorf("expected 2 changes in batch, got %d", second.Len())
	}
}

func TestTrackerFirstStateAllFieldsAdded(t *testing.T) {
	cfg := testConfig()
	cfg.MaxBatchSize = 1
	tracker := NewTracker(1, cfg)

	batch := tracker.UpdateState(map[string]Value{"count": Int(42)})
	if batch == nil {
		t.Fatal("expected flush")
	}
	if batch.Len() != 1 {
		t.Fatalf("expected 1 change, got %d", batch.Len())
	}
	if batch.Changes[0].OldValue != nil {
		t.Errorf("first-ever state must have no old value, got %v", batch.Changes[0].OldValue)
	}
	if !batch.Changes[0].NewValue.Equal(Int(42)) {
		t.Errorf("expected Int(42), got %v", batch.Changes[0].NewValue)
	}
}

func TestTrackerSnapshotThrottle(t *testing.T) {
	cfg := testConfig()
	cfg.MaxBatchSize = 1
	cfg.SnapshotThrottle = time.Hour
	tracker := NewTracker(1, cfg)

	if batch := tracker.UpdateState(map[string]Value{"a": Int(1)}); batch == nil {
		t.Fatal("first update must not be throttled")
	}

	// Within the throttle window the snapshot is discarded.
	if batch := tracker.UpdateState(map[string]Value{"a": Int(2)}); batch != nil {
		t.Errorf("throttled update must return nil, got %d changes", batch.Len())
	}
	if cur := tracker.CurrentSnapshot(); cur == nil {
		t.Fatal("expected current snapshot")
	} else if v, _ := cur.Field("a"); !v.Equal(Int(1)) {
		t.Errorf("throttled snapshot must be discarded, current holds %v", v)
	}
}

func TestTrackerMaxBatchTimeFlush(t *testing.T) {
	cfg := testConfig()
	cfg.MaxBatchSize = 100
	cfg.MaxBatchTime = 10 * time.Millisecond
	tracker := NewTracker(1, cfg)

	if batch := tracker.UpdateState(map[string]Value{"a": Int(1)}); batch != nil {
		t.Fatal("first change should queue, not flush")
	}

	time.Sleep(15 * time.Millisecond)

	batch := tracker.UpdateState(map[string]Value{"a": Int(2)})
	if batch == nil {
		t.Fatal("expected time-based flush")
	}
	if batch.Len() != 2 {
		t.Errorf("expected 2 changes, got %d", batch.Len())
	}
}

func TestTrackerCriticalChangeFlushes(t *testing.T) {
	cfg := testConfig()
	cfg.MaxBatchSize = 100
	cfg.MaxBatchTime = time.Hour
	tracker := NewTracker(1, cfg)

	if batch := tracker.UpdateState(map[string]Value{"a": Int(1)}); batch != nil {
		t.Fatal("normal change should queue, not flush")
	}

	batch := tracker.QueueChange(Change{
		FieldName: "a",
		NewValue:  Int(2),
		Timestamp: time.Now(),
		Priority:  PriorityCritical,
	})
	if batch == nil {
		t.Fatal("critical change must force a flush")
	}
	if !batch.HasCritical() {
		t.Error("flushed batch must report critical changes")
	}
}

func TestTrackerDirtyFieldsSurviveFlush(t *testing.T) {
	cfg := testConfig()
	cfg.MaxBatchSize = 1
	tracker := NewTracker(1, cfg)

	batch := tracker.UpdateState(map[string]Value{"count": Int(1)})
	if batch == nil {
		t.Fatal("expected flush")
	}

	// Flushing must not clear dirty flags.
	if !tracker.IsFieldDirty("count") {
		t.Error("field must stay dirty across flush")
	}

	tracker.MarkFieldClean("count")
	if tracker.IsFieldDirty("count") {
		t.Error("MarkFieldClean must clear the flag")
	}
	if tracker.HasDirtyFields() {
		t.Error("no fields should be dirty")
	}
}

func TestTrackerDirtyFieldList(t *testing.T) {
	cfg := testConfig()
	cfg.MaxBatchSize = 100
	tracker := NewTracker(1, cfg)

	tracker.UpdateState(map[string]Value{"a": Int(1), "b": Int(2)})
	tracker.MarkFieldClean("a")

	dirty := tracker.DirtyFields()
	if len(dirty) != 1 || dirty[0] != "b" {
		t.Errorf("expected dirty fields [b], got %v", dirty)
	}
}

func TestTrackerForceFlushAndClear(t *testing.T) {
	cfg := testConfig()
	cfg.MaxBatchSize = 100
	tracker := NewTracker(7, cfg)

	tracker.UpdateState(map[string]Value{"a": Int(1)})
	if tracker.PendingChanges() != 1 {
		t.Fatalf("expected 1 pending change, got %d", tracker.PendingChanges())
	}

	batch := tracker.FlushBatch()
	if batch.Len() != 1 {
		t.Errorf("expected forced flush of 1 change, got %d", batch.Len())
	}
	if tracker.PendingChanges() != 0 {
		t.Errorf("expected empty queue after flush, got %d", tracker.PendingChanges())
	}

	tracker.Clear()
	if tracker.CurrentSnapshot() != nil || tracker.HasDirtyFields() {
		t.Error("Clear must drop snapshots and dirty flags")
	}
	if tracker.ComponentID() != 7 {
		t.Errorf("expected component id 7, got %d", tracker.ComponentID())
	}
}

func TestChangesHelpers(t *testing.T) {
	batch := NewChanges([]Change{
		{FieldName: "a", Priority: PriorityLow},
		{FieldName: "b", Priority: PriorityCritical},
		{FieldName: "a", Priority: PriorityNormal},
	}, false)

	if batch.IsEmpty() || batch.Len() != 3 {
		t.Fatalf("unexpected batch shape: len=%d", batch.Len())
	}
	if got := batch.ForField("a"); len(got) != 2 {
		t.Errorf("expected 2 changes for field a, got %d", len(got))
	}
	if !batch.HasCritical() {
		t.Error("expected critical change")
	}

	batch.SortByPriority()
	if batch.Changes[0].Priority != PriorityCritical {
		t.Errorf("expected critical first after sort, got %v", batch.Changes[0].Priority)
	}
}
