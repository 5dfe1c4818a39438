package main

import (
	"fmt"

	"github.com/strandui/strand/pkg/component"
	"github.com/strandui/strand/pkg/reactive"
	"github.com/strandui/strand/pkg/state"
)

// counterProps configures one demo counter.
type counterProps struct {
	Label string
	Step  int64
}

func (p counterProps) TypeName() string       { return "counter" }
func (p counterProps) Clone() component.Props { return p }

// counter is a demo component: a signal-backed counter that requests a
// re-render whenever its value changes.
type counter struct {
	ctx    *component.Context
	count  *reactive.Signal[int64]
	effect *reactive.Effect
	label  string
	step   int64
}

func newCounter(props component.Props, ctx *component.Context) (component.Component, error) {
	p, err := component.PropsAs[counterProps](props)
	if err != nil {
		return nil, err
	}
	c := &counter{
		ctx:   ctx,
		count: reactive.CreateSignal(ctx.Scope(), int64(0)),
		label: p.Label,
		step:  p.Step,
	}
	return c, nil
}

func (c *counter) Mount() error {
	// Every change of the counter signal schedules a re-render.
	c.effect = c.ctx.Scope().CreateEffect(func() reactive.Cleanup {
		c.count.Get()
		c.ctx.RequestUpdate()
		return nil
	})
	return nil
}

func (c *counter) Update(props component.Props) error {
	p, err := component.PropsAs[counterProps](props)
	if err != nil {
		return err
	}
	c.label = p.Label
	c.step = p.Step
	return nil
}

func (c *counter) Unmount() error {
	if c.effect != nil {
		c.effect.Dispose()
	}
	return nil
}

func (c *counter) Render() ([]component.Node, error) {
	return []component.Node{
		component.ElementNode("counter",
			component.TextNode(fmt.Sprintf("%s: %d", c.label, c.count.Peek()))),
	}, nil
}

func (c *counter) StateFields() map[string]state.Value {
	return map[string]state.Value{
		"count": state.Int(c.count.Peek()),
		"label": state.String(c.label),
	}
}

// Increment advances the counter, triggering the reactive update path.
func (c *counter) Increment() {
	c.count.Update(func(v int64) int64 { return v + c.step })
}

func demoRegistry() *component.Registry {
	reg := component.NewRegistry()
	reg.Register("counter", newCounter)
	return reg
}
