package reactive

import (
	"errors"
	"testing"
)

func TestCircularEffectIsCutAndReported(t *testing.T) {
	scope := NewScope()
	count := CreateSignal(scope, 0)

	// The effect reads count and writes it back: each run would trigger
	// another run forever. The re-entrant notification must be cut.
	runs := 0
	scope.CreateEffect(func() Cleanup {
		runs++
		count.Set(count.Get() + 1)
		return nil
	})

	if !errors.Is(scope.Err(), ErrCircularDependency) {
		t.Fatalf("expected ErrCircularDependency, got %v", scope.Err())
	}
	if runs != 1 {
		t.Errorf("self-triggering effect must run once, ran %d times", runs)
	}
}

func TestCircularThroughComputedIsCutAndReported(t *testing.T) {
	scope := NewScope()
	source := CreateSignal(scope, 0)
	derived := CreateComputed(scope, func() int { return source.Get() + 1 })

	scope.CreateEffect(func() Cleanup {
		v := derived.Get()
		source.Set(v)
		return nil
	})

	if !errors.Is(scope.Err(), ErrCircularDependency) {
		t.Fatalf("expected ErrCircularDependency, got %v", scope.Err())
	}
}

func TestTakeErrClears(t *testing.T) {
	scope := NewScope()
	scope.recordErr(ErrCircularDependency)

	if err := scope.TakeErr(); !errors.Is(err, ErrCircularDependency) {
		t.Fatalf("expected ErrCircularDependency, got %v", err)
	}
	if err := scope.Err(); err != nil {
		t.Errorf("expected cleared error, got %v", err)
	}
}

func TestUntracked(t *testing.T) {
	scope := NewScope()
	tracked := CreateSignal(scope, 0)
	ignored := CreateSignal(scope, 0)

	runs := 0
	scope.CreateEffect(func() Cleanup {
		runs++
		_ = tracked.Get()
		scope.Untracked(func() {
			_ = ignored.Get()
		})
		return nil
	})

	ignored.Set(5)
	if runs != 1 {
		t.Errorf("untracked read must not subscribe, got %d runs", runs)
	}

	tracked.Set(5)
	if runs != 2 {
		t.Errorf("tracked read must subscribe, got %d runs", runs)
	}
}

func TestDepthLimit(t *testing.T) {
	scope := NewScope(WithMaxDepth(8))

	// A chain of signals where each effect writes the next one. Deeper than
	// the limit, the cascade is cut and reported instead of continuing.
	sigs := make([]*Signal[int], 16)
	for i := range sigs {
		sigs[i] = CreateSignal(scope, 0)
	}
	for i := 0; i < len(sigs)-1; i++ {
		next := sigs[i+1]
		cur := sigs[i]
		scope.CreateEffect(func() Cleanup {
			next.Set(cur.Get())
			return nil
		})
	}

	sigs[0].Set(1)
	if !errors.Is(scope.Err(), ErrCircularDependency) {
		t.Fatalf("expected depth limit to report ErrCircularDependency, got %v", scope.Err())
	}
}
