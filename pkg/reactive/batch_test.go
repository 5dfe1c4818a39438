package reactive

import "testing"

func TestBatchCoalescesNotifications(t *testing.T) {
	scope := NewScope()
	first := CreateSignal(scope, "")
	last := CreateSignal(scope, "")

	runs := 0
	scope.CreateEffect(func() Cleanup {
		runs++
		_ = first.Get()
		_ = last.Get()
		return nil
	})

	scope.Batch(func() {
		first.Set("Ada")
		last.Set("Lovelace")
	})

	// One initial run plus exactly one batched re-run.
	if runs != 2 {
		t.Errorf("expected 2 runs, got %d", runs)
	}
	if first.Peek() != "Ada" || last.Peek() != "Lovelace" {
		t.Errorf("batch must still apply writes, got %q %q", first.Peek(), last.Peek())
	}
}

func TestNestedBatchNotifiesOnce(t *testing.T) {
	scope := NewScope()
	a := CreateSignal(scope, 0)
	b := CreateSignal(scope, 0)

	runs := 0
	scope.CreateEffect(func() Cleanup {
		runs++
		_ = a.Get()
		_ = b.Get()
		return nil
	})

	scope.Batch(func() {
		a.Set(1)
		scope.Batch(func() {
			b.Set(1)
		})
		// Inner batch completion must not fire early.
		if runs != 1 {
			t.Errorf("inner batch fired notifications early, got %d runs", runs)
		}
	})

	if runs != 2 {
		t.Errorf("expected 2 runs after outer batch, got %d", runs)
	}
}

func TestBatchWithoutChangesDoesNotNotify(t *testing.T) {
	scope := NewScope()
	a := CreateSignal(scope, 1)

	runs := 0
	scope.CreateEffect(func() Cleanup {
		runs++
		_ = a.Get()
		return nil
	})

	scope.Batch(func() {
		a.Set(1) // unchanged
	})

	if runs != 1 {
		t.Errorf("unchanged write inside batch must not notify, got %d runs", runs)
	}
}
