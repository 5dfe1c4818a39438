package reactive

import (
	"sync/atomic"
	"testing"
)

func TestComputedEagerInitialCompute(t *testing.T) {
	scope := NewScope()
	var runs atomic.Int64

	count := CreateSignal(scope, 3)
	doubled := CreateComputed(scope, func() int {
		runs.Add(1)
		return count.Get() * 2
	})

	if runs.Load() != 1 {
		t.Errorf("computed must run once at creation, ran %d times", runs.Load())
	}
	if doubled.Get() != 6 {
		t.Errorf("expected 6, got %d", doubled.Get())
	}
	if runs.Load() != 1 {
		t.Errorf("Get on valid computed must not recompute, ran %d times", runs.Load())
	}
}

func TestComputedRecomputesAfterDependencyChange(t *testing.T) {
	scope := NewScope()
	var runs atomic.Int64

	count := CreateSignal(scope, 1)
	doubled := CreateComputed(scope, func() int {
		runs.Add(1)
		return count.Get() * 2
	})

	count.Set(5)
	if runs.Load() != 1 {
		t.Errorf("invalidation alone must not recompute, ran %d times", runs.Load())
	}

	if doubled.Get() != 10 {
		t.Errorf("expected 10, got %d", doubled.Get())
	}
	if runs.Load() != 2 {
		t.Errorf("expected 2 runs, got %d", runs.Load())
	}

	// Multiple invalidations before a read collapse into one recompute.
	count.Set(6)
	count.Set(7)
	if doubled.Get() != 14 {
		t.Errorf("expected 14, got %d", doubled.Get())
	}
	if runs.Load() != 3 {
		t.Errorf("expected 3 runs, got %d", runs.Load())
	}
}

func TestComputedChain(t *testing.T) {
	scope := NewScope()
	count := CreateSignal(scope, 2)
	doubled := CreateComputed(scope, func() int { return count.Get() * 2 })
	quadrupled := CreateComputed(scope, func() int { return doubled.Get() * 2 })

	if quadrupled.Get() != 8 {
		t.Errorf("expected 8, got %d", quadrupled.Get())
	}

	count.Set(3)
	if quadrupled.Get() != 12 {
		t.Errorf("expected 12 after dependency change, got %d", quadrupled.Get())
	}
}

func TestComputedNotifiesEffect(t *testing.T) {
	scope := NewScope()
	count := CreateSignal(scope, 1)
	doubled := CreateComputed(scope, func() int { return count.Get() * 2 })

	var observed []int
	scope.CreateEffect(func() Cleanup {
		observed = append(observed, doubled.Get())
		return nil
	})

	count.Set(4)

	if len(observed) != 2 || observed[0] != 2 || observed[1] != 8 {
		t.Errorf("expected observations [2 8], got %v", observed)
	}
}

func TestComputedPeekDoesNotSubscribe(t *testing.T) {
	scope := NewScope()
	count := CreateSignal(scope, 1)
	doubled := CreateComputed(scope, func() int { return count.Get() * 2 })
	listener := newTestListener()

	withListener(scope, listener, func() {
		if v := doubled.Peek(); v != 2 {
			t.Errorf("expected 2, got %d", v)
		}
	})

	count.Set(9)
	if listener.getDirtyCount() != 0 {
		t.Errorf("Peek must not subscribe, got %d notifications", listener.getDirtyCount())
	}
}

func TestComputedDynamicDependencies(t *testing.T) {
	scope := NewScope()
	useFirst := CreateSignal(scope, true)
	first := CreateSignal(scope, "a")
	second := CreateSignal(scope, "b")

	var runs atomic.Int64
	pick := CreateComputed(scope, func() string {
		runs.Add(1)
		if useFirst.Get() {
			return first.Get()
		}
		return second.Get()
	})

	if pick.Get() != "a" {
		t.Fatalf("expected a, got %s", pick.Get())
	}

	useFirst.Set(false)
	if pick.Get() != "b" {
		t.Fatalf("expected b, got %s", pick.Get())
	}
	runsAfterSwitch := runs.Load()

	// first is no longer a dependency; changing it must not invalidate.
	first.Set("zzz")
	_ = pick.Get()
	if runs.Load() != runsAfterSwitch {
		t.Errorf("stale dependency triggered recompute (%d runs, expected %d)", runs.Load(), runsAfterSwitch)
	}
}
