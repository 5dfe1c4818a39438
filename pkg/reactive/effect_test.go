package reactive

import (
	"testing"
)

func TestEffectRunsImmediately(t *testing.T) {
	scope := NewScope()
	runs := 0
	scope.CreateEffect(func() Cleanup {
		runs++
		return nil
	})

	if runs != 1 {
		t.Errorf("effect must run once at creation, ran %d times", runs)
	}
}

func TestEffectRerunsSynchronouslyOnChange(t *testing.T) {
	scope := NewScope()
	count := CreateSignal(scope, 0)

	var observed []int
	scope.CreateEffect(func() Cleanup {
		observed = append(observed, count.Get())
		return nil
	})

	count.Set(1)
	count.Set(2)

	// No deferred queue: by the time Set returns the effect has re-run.
	if len(observed) != 3 || observed[0] != 0 || observed[1] != 1 || observed[2] != 2 {
		t.Errorf("expected observations [0 1 2], got %v", observed)
	}
}

func TestEffectCleanupBeforeRerun(t *testing.T) {
	scope := NewScope()
	count := CreateSignal(scope, 0)

	var events []string
	scope.CreateEffect(func() Cleanup {
		_ = count.Get()
		events = append(events, "run")
		return func() {
			events = append(events, "cleanup")
		}
	})

	count.Set(1)

	want := []string{"run", "cleanup", "run"}
	if len(events) != len(want) {
		t.Fatalf("expected %v, got %v", want, events)
	}
	for i := range want {
		if events[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, events)
		}
	}
}

func TestEffectDispose(t *testing.T) {
	scope := NewScope()
	count := CreateSignal(scope, 0)

	runs := 0
	cleanups := 0
	e := scope.CreateEffect(func() Cleanup {
		_ = count.Get()
		runs++
		return func() { cleanups++ }
	})

	e.Dispose()
	if cleanups != 1 {
		t.Errorf("Dispose must run cleanup, got %d", cleanups)
	}

	count.Set(1)
	if runs != 1 {
		t.Errorf("disposed effect must not re-run, ran %d times", runs)
	}

	// Dispose is idempotent.
	e.Dispose()
	if cleanups != 1 {
		t.Errorf("second Dispose must be a no-op, got %d cleanups", cleanups)
	}
}

func TestEffectDynamicDependencies(t *testing.T) {
	scope := NewScope()
	useFirst := CreateSignal(scope, true)
	first := CreateSignal(scope, "a")
	second := CreateSignal(scope, "b")

	runs := 0
	scope.CreateEffect(func() Cleanup {
		runs++
		if useFirst.Get() {
			_ = first.Get()
		} else {
			_ = second.Get()
		}
		return nil
	})

	if runs != 1 {
		t.Fatalf("expected 1 run, got %d", runs)
	}

	useFirst.Set(false)
	if runs != 2 {
		t.Fatalf("expected 2 runs, got %d", runs)
	}

	// first was dropped from the dependency set on the second run.
	first.Set("changed")
	if runs != 2 {
		t.Errorf("stale dependency re-ran effect, got %d runs", runs)
	}

	second.Set("changed")
	if runs != 3 {
		t.Errorf("live dependency must re-run effect, got %d runs", runs)
	}
}

func TestEffectWritingUnrelatedSignal(t *testing.T) {
	scope := NewScope()
	source := CreateSignal(scope, 1)
	derived := CreateSignal(scope, 0)

	scope.CreateEffect(func() Cleanup {
		derived.Set(source.Get() * 10)
		return nil
	})

	var observed []int
	scope.CreateEffect(func() Cleanup {
		observed = append(observed, derived.Get())
		return nil
	})

	source.Set(2)

	// Depth-first: the inner write had fully propagated before Set returned.
	if derived.Peek() != 20 {
		t.Errorf("expected derived 20, got %d", derived.Peek())
	}
	if len(observed) != 2 || observed[1] != 20 {
		t.Errorf("expected observations [10 20], got %v", observed)
	}
	if err := scope.Err(); err != nil {
		t.Errorf("unexpected scope error: %v", err)
	}
}

func TestScopeDisposeStopsEffects(t *testing.T) {
	scope := NewScope()
	count := CreateSignal(scope, 0)

	runs := 0
	scope.CreateEffect(func() Cleanup {
		_ = count.Get()
		runs++
		return nil
	})

	scope.Dispose()
	count.Set(1)

	if runs != 1 {
		t.Errorf("effects must not re-run after scope dispose, got %d runs", runs)
	}

	e := scope.CreateEffect(func() Cleanup {
		runs++
		return nil
	})
	if !e.Disposed() {
		t.Error("effect created on disposed scope must be inert")
	}
}
