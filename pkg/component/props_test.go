package component

import (
	"errors"
	"testing"
)

type otherProps struct{ N int }

func (p otherProps) TypeName() string { return "other_props" }
func (p otherProps) Clone() Props     { return p }

func TestPropsAsDowncast(t *testing.T) {
	var p Props = testProps{Label: "hello"}

	got, err := PropsAs[testProps](p)
	if err != nil {
		t.Fatalf("downcast failed: %v", err)
	}
	if got.Label != "hello" {
		t.Errorf("expected %q, got %q", "hello", got.Label)
	}
}

func TestPropsAsMismatch(t *testing.T) {
	var p Props = testProps{Label: "hello"}

	_, err := PropsAs[otherProps](p)
	if err == nil {
		t.Fatal("expected downcast to fail")
	}
	if !errors.Is(err, ErrDowncast) {
		t.Errorf("expected ErrDowncast, got %v", err)
	}
	if !errors.Is(err, ErrPropsMismatch) {
		t.Errorf("expected ErrPropsMismatch, got %v", err)
	}
	var pe *PropsMismatchError
	if !errors.As(err, &pe) {
		t.Fatalf("expected PropsMismatchError, got %T", err)
	}
}

func TestPropsAsNil(t *testing.T) {
	if _, err := PropsAs[testProps](nil); !errors.Is(err, ErrPropsMismatch) {
		t.Errorf("expected ErrPropsMismatch for nil props, got %v", err)
	}
}

func TestEmitterDeliversInOrder(t *testing.T) {
	e := NewEmitter()

	var got []int
	e.On("click", func(ev Event) { got = append(got, 1) })
	e.On("click", func(ev Event) { got = append(got, 2) })
	e.On("hover", func(ev Event) { got = append(got, 3) })

	e.Emit(Event{Name: "click", Source: 42, Payload: "payload"})

	if len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Errorf("expected handlers [1 2] in order, got %v", got)
	}
}

func TestContextEmitStampsSource(t *testing.T) {
	emitter := NewEmitter()
	ctx := NewContext(ID(7), nil, nil, emitter)

	var seen Event
	emitter.On("selected", func(ev Event) { seen = ev })
	ctx.Emit("selected", "row-3")

	if seen.Source != ID(7) {
		t.Errorf("expected source 7, got %d", seen.Source)
	}
	if seen.Payload != "row-3" {
		t.Errorf("expected payload row-3, got %v", seen.Payload)
	}
}
