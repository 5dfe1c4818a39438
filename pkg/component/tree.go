package component

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/strandui/strand/pkg/reactive"
	"github.com/strandui/strand/pkg/scheduler"
)

// TreeObserver receives tree-level events. Implementations must be safe
// for concurrent use.
type TreeObserver interface {
	// OpStarted fires at the start of a tree-wide operation (tree.mount,
	// tree.unmount, tree.batch_update). The returned context is threaded
	// through the operation and the returned func is called once with the
	// operation's outcome.
	OpStarted(ctx context.Context, op string, id ID) (context.Context, func(error))

	// PhaseChanged fires after every lifecycle phase change of any
	// component in the tree.
	PhaseChanged(id ID, phase Phase)
}

// Tree owns the arena of component instances and lifecycle managers plus
// the parent/child graph. One mutex guards all structural maps; it is never
// held across calls into component code.
type Tree struct {
	mu         sync.RWMutex
	components map[ID]*Instance
	managers   map[ID]*Manager
	children   map[ID][]ID
	parents    map[ID]ID
	root       ID
	rootSet    bool

	scope     *reactive.Scope
	sched     *scheduler.Scheduler
	emitter   *Emitter
	gen       *IDGenerator
	logger    *slog.Logger
	observers []TreeObserver
}

// TreeOption configures a Tree.
type TreeOption func(*Tree)

// WithLogger sets the tree's logger, also handed to every manager it
// creates.
func WithLogger(logger *slog.Logger) TreeOption {
	return func(t *Tree) {
		if logger != nil {
			t.logger = logger
		}
	}
}

// WithScheduler sets the scheduler fed by component update requests.
func WithScheduler(s *scheduler.Scheduler) TreeOption {
	return func(t *Tree) {
		if s != nil {
			t.sched = s
		}
	}
}

// WithScope sets the reactive scope shared by the tree's components.
func WithScope(s *reactive.Scope) TreeOption {
	return func(t *Tree) {
		if s != nil {
			t.scope = s
		}
	}
}

// WithObserver registers a tree observer. May be given multiple times.
func WithObserver(obs TreeObserver) TreeOption {
	return func(t *Tree) {
		if obs != nil {
			t.observers = append(t.observers, obs)
		}
	}
}

// WithIDGenerator sets the generator used by CreateComponent.
func WithIDGenerator(gen *IDGenerator) TreeOption {
	return func(t *Tree) {
		if gen != nil {
			t.gen = gen
		}
	}
}

// NewTree creates an empty tree. Without options it uses slog.Default(), a
// fresh scheduler, a fresh reactive scope and the package id generator.
func NewTree(opts ...TreeOption) *Tree {
	t := &Tree{
		components: make(map[ID]*Instance),
		managers:   make(map[ID]*Manager),
		children:   make(map[ID][]ID),
		parents:    make(map[ID]ID),
		emitter:    NewEmitter(),
		gen:        defaultGenerator,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.sched == nil {
		t.sched = scheduler.New(scheduler.WithLogger(t.logger))
	}
	if t.scope == nil {
		t.scope = reactive.NewScope()
	}
	return t
}

// Scope returns the reactive scope shared by the tree's components.
func (t *Tree) Scope() *reactive.Scope { return t.scope }

// Scheduler returns the scheduler fed by the tree's components.
func (t *Tree) Scheduler() *scheduler.Scheduler { return t.sched }

// Emitter returns the tree-wide event emitter.
func (t *Tree) Emitter() *Emitter { return t.emitter }

// AddComponent registers an instance and creates its lifecycle manager.
// Fails with AlreadyExistsError if the id is already present.
func (t *Tree) AddComponent(inst *Instance) (ID, error) {
	ctx := NewContext(inst.ID(), t.scope, t.sched, t.emitter)
	return t.add(inst, ctx)
}

// CreateComponent builds a component of the named type through the
// registry, wiring its context before construction, and adds it to the
// tree.
func (t *Tree) CreateComponent(reg *Registry, name string, props Props) (ID, error) {
	id := t.gen.Next()
	ctx := NewContext(id, t.scope, t.sched, t.emitter)
	comp, err := reg.Create(name, props, ctx)
	if err != nil {
		return 0, err
	}
	inst := &Instance{id: id, component: comp, props: props}
	return t.add(inst, ctx)
}

func (t *Tree) add(inst *Instance, ctx *Context) (ID, error) {
	mgr := NewManager(inst, ctx, t.logger)
	mgr.onPhase = t.notifyPhase

	t.mu.Lock()
	defer t.mu.Unlock()
	if _, exists := t.components[inst.ID()]; exists {
		return 0, &AlreadyExistsError{ID: inst.ID()}
	}
	t.components[inst.ID()] = inst
	t.managers[inst.ID()] = mgr
	return inst.ID(), nil
}

func (t *Tree) notifyPhase(id ID, phase Phase) {
	for _, obs := range t.observers {
		obs.PhaseChanged(id, phase)
	}
}

// AddChild makes child a child of parent. A component has at most one
// parent; re-adding the same edge is a no-op, while a second parent fails
// with RelationshipError.
func (t *Tree) AddChild(parent, child ID) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.components[parent]; !ok {
		return &NotFoundError{ID: parent}
	}
	if _, ok := t.components[child]; !ok {
		return &NotFoundError{ID: child}
	}
	if parent == child {
		return &RelationshipError{Parent: parent, Child: child, Reason: "component cannot be its own parent"}
	}
	if p, ok := t.parents[child]; ok {
		if p == parent {
			return nil
		}
		return &RelationshipError{Parent: parent, Child: child,
			Reason: fmt.Sprintf("already a child of %d", p)}
	}
	t.children[parent] = append(t.children[parent], child)
	t.parents[child] = parent
	return nil
}

// RemoveChild detaches child from parent without removing it from the
// tree. Fails with RelationshipError if the edge does not exist.
func (t *Tree) RemoveChild(parent, child ID) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if p, ok := t.parents[child]; !ok || p != parent {
		return &RelationshipError{Parent: parent, Child: child, Reason: "no such edge"}
	}
	delete(t.parents, child)
	t.children[parent] = removeID(t.children[parent], child)
	return nil
}

// RemoveComponent removes the component and, recursively, its whole
// subtree. Children are erased before their parent, the component is
// detached from its own parent's child list, and removed instances are
// closed so in-flight lifecycle calls fail with LockError. Removing the
// root unsets it.
func (t *Tree) RemoveComponent(id ID) error {
	t.mu.Lock()
	if _, ok := t.components[id]; !ok {
		t.mu.Unlock()
		return &NotFoundError{ID: id}
	}

	subtree := t.subtreeLocked(id)
	parent, hasParent := t.parents[id]
	closing := make([]*Instance, 0, len(subtree))
	// Erase deepest-first so a parent is never gone while a child entry
	// still references it.
	for i := len(subtree) - 1; i >= 0; i-- {
		rid := subtree[i]
		closing = append(closing, t.components[rid])
		delete(t.components, rid)
		delete(t.managers, rid)
		delete(t.children, rid)
		delete(t.parents, rid)
		if t.rootSet && t.root == rid {
			t.rootSet = false
		}
	}
	if hasParent {
		t.children[parent] = removeID(t.children[parent], id)
	}
	t.mu.Unlock()

	for _, inst := range closing {
		inst.Close()
	}
	return nil
}

// subtreeLocked returns id followed by all its descendants in pre-order.
func (t *Tree) subtreeLocked(id ID) []ID {
	order := []ID{id}
	for i := 0; i < len(order); i++ {
		order = append(order, t.children[order[i]]...)
	}
	return order
}

// MountTree mounts the component and its descendants in pre-order, so a
// parent is always mounted before its children. The first mount failure
// aborts the pass and is returned; components already mounted stay
// mounted.
func (t *Tree) MountTree(ctx context.Context, id ID) error {
	mgrs, err := t.subtreeManagers(id)
	if err != nil {
		return err
	}

	ctx, done := t.opStarted(ctx, "tree.mount", id)
	for _, mgr := range mgrs {
		if err := mgr.Mount(); err != nil {
			done(err)
			return err
		}
	}
	done(nil)
	return nil
}

// UnmountTree unmounts the component and its descendants in post-order, so
// children are torn down while parent-provided context is still valid.
// Descendants carry reason ParentUnmounted; the requested component
// carries Removed.
func (t *Tree) UnmountTree(ctx context.Context, id ID) error {
	mgrs, err := t.subtreeManagers(id)
	if err != nil {
		return err
	}

	ctx, done := t.opStarted(ctx, "tree.unmount", id)
	for i := len(mgrs) - 1; i >= 0; i-- {
		reason := UnmountParentUnmounted
		if i == 0 {
			reason = UnmountRemoved
		}
		if err := mgrs[i].UnmountWithReason(reason); err != nil {
			done(err)
			return err
		}
	}
	done(nil)
	return nil
}

func (t *Tree) subtreeManagers(id ID) ([]*Manager, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if _, ok := t.components[id]; !ok {
		return nil, &NotFoundError{ID: id}
	}
	order := t.subtreeLocked(id)
	mgrs := make([]*Manager, len(order))
	for i, cid := range order {
		mgrs[i] = t.managers[cid]
	}
	return mgrs, nil
}

// BatchUpdateComponents runs an update pass over the given components. All
// ids are validated before any is processed; a missing id fails the whole
// call with NotFoundError. Processing itself is ordered ancestors-first and
// isolates per-item failures: a failing component is logged and the rest
// still run. Returns the number of components processed.
func (t *Tree) BatchUpdateComponents(ctx context.Context, ids []ID) (int, error) {
	t.mu.RLock()
	for _, id := range ids {
		if _, ok := t.components[id]; !ok {
			t.mu.RUnlock()
			return 0, &NotFoundError{ID: id}
		}
	}
	ordered := t.sortByDepthLocked(ids)
	mgrs := make([]*Manager, len(ordered))
	for i, id := range ordered {
		mgrs[i] = t.managers[id]
	}
	t.mu.RUnlock()

	ctx, done := t.opStarted(ctx, "tree.batch_update", 0)
	processed := 0
	for i, mgr := range mgrs {
		if err := mgr.HandleUpdates(); err != nil {
			t.logger.Error("batch update failed for component",
				"component_id", uint64(ordered[i]),
				"error", err)
		}
		processed++
	}
	done(nil)
	return processed, nil
}

// SortByDependencyOrder returns ids reordered so that for any
// ancestor/descendant pair both present, the ancestor comes first. Order
// among unrelated components is stable.
func (t *Tree) SortByDependencyOrder(ids []ID) []ID {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.sortByDepthLocked(ids)
}

func (t *Tree) sortByDepthLocked(ids []ID) []ID {
	out := make([]ID, len(ids))
	copy(out, ids)
	depth := func(id ID) int {
		d := 0
		for {
			p, ok := t.parents[id]
			if !ok || d > len(t.parents) {
				return d
			}
			id = p
			d++
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return depth(out[i]) < depth(out[j])
	})
	return out
}

// ProcessScheduledUpdates drains the scheduler, rendering each scheduled
// component. Render output is passed to sink; a nil sink discards it.
// Components removed between scheduling and draining are skipped. Returns
// the number of entries drained.
func (t *Tree) ProcessScheduledUpdates(ctx context.Context, sink func(ID, []Node)) int {
	return t.sched.ProcessUpdates(ctx, func(raw uint64) error {
		id := ID(raw)
		t.mu.RLock()
		mgr, ok := t.managers[id]
		t.mu.RUnlock()
		if !ok {
			return nil
		}
		nodes, err := mgr.Render()
		if err != nil {
			return err
		}
		if sink != nil {
			sink(id, nodes)
		}
		return nil
	})
}

// ComponentsToUpdate returns the ids whose state trackers hold dirty
// fields, in unspecified order.
func (t *Tree) ComponentsToUpdate() []ID {
	t.mu.RLock()
	defer t.mu.RUnlock()
	var ids []ID
	for id, mgr := range t.managers {
		if mgr.Tracker().HasDirtyFields() {
			ids = append(ids, id)
		}
	}
	return ids
}

// Manager returns the lifecycle manager for the component.
func (t *Tree) Manager(id ID) (*Manager, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	mgr, ok := t.managers[id]
	if !ok {
		return nil, &NotFoundError{ID: id}
	}
	return mgr, nil
}

// HasComponent reports whether the id is present.
func (t *Tree) HasComponent(id ID) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, ok := t.components[id]
	return ok
}

// Children returns a copy of the component's child list, in insertion
// order.
func (t *Tree) Children(id ID) ([]ID, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if _, ok := t.components[id]; !ok {
		return nil, &NotFoundError{ID: id}
	}
	kids := make([]ID, len(t.children[id]))
	copy(kids, t.children[id])
	return kids, nil
}

// Parent returns the component's parent, if it has one.
func (t *Tree) Parent(id ID) (ID, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	p, ok := t.parents[id]
	return p, ok
}

// AllComponents returns every id in the tree, in unspecified order.
func (t *Tree) AllComponents() []ID {
	t.mu.RLock()
	defer t.mu.RUnlock()
	ids := make([]ID, 0, len(t.components))
	for id := range t.components {
		ids = append(ids, id)
	}
	return ids
}

// Len returns the number of components in the tree.
func (t *Tree) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.components)
}

// SetRoot marks the component as the tree's root.
func (t *Tree) SetRoot(id ID) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.components[id]; !ok {
		return &NotFoundError{ID: id}
	}
	t.root = id
	t.rootSet = true
	return nil
}

// RootID returns the root id, if one is set.
func (t *Tree) RootID() (ID, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.root, t.rootSet
}

func (t *Tree) opStarted(ctx context.Context, op string, id ID) (context.Context, func(error)) {
	dones := make([]func(error), 0, len(t.observers))
	for _, obs := range t.observers {
		var done func(error)
		ctx, done = obs.OpStarted(ctx, op, id)
		if done != nil {
			dones = append(dones, done)
		}
	}
	return ctx, func(err error) {
		for _, done := range dones {
			done(err)
		}
	}
}

func removeID(ids []ID, id ID) []ID {
	for i, v := range ids {
		if v == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}
