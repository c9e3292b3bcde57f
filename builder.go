package inject

import (
	"fmt"
	"reflect"

	"github.com/kvanbree/inject/internal/oncecell"
)

// slotState tracks one registration through the build: Unbuilt until its
// entry builder runs, Building while its factory is on the stack, Built
// once the finalized entry is in place.
type slotState uint8

const (
	slotUnbuilt slotState = iota
	slotBuilding
	slotBuilt
)

type builderSlot struct {
	token   ServiceToken
	state   slotState
	builder entryBuilder
	entry   entry
}

// containerBuilder turns descriptors into a finished container. The
// container cell is allocated before anything builds, so weak handles to
// the future container can be distributed immediately; the builder then
// auto-registers the scope factory and the self-provider singleton and
// runs every slot eagerly.
//
// A builder is used by one goroutine for one build and is discarded when
// build returns.
type containerBuilder struct {
	cell   *oncecell.Cell[*container]
	parent ServiceProvider
	slots  map[reflect.Type]*builderSlot
	order  []*builderSlot
}

func newContainerBuilder(root, scoped []*ServiceDescriptor, parent ServiceProvider) *containerBuilder {
	cell := oncecell.New[*container]()
	self := newWeakProvider(cell)

	descriptors := make([]*ServiceDescriptor, 0, len(root)+2)
	descriptors = append(descriptors, root...)

	// Scoped descriptors never enter this container directly; they are
	// the prototypes each new scope is built from. The scope factory
	// spawns a fresh builder per resolve, parented to this container's
	// weak provider, so a scope sees its outer container but scopes
	// created inside a scope become siblings, not grandchildren.
	if len(scoped) > 0 {
		descriptors = append(descriptors, newDescriptor(Transient, func(*Injector) (ServiceScope, error) {
			child := newContainerBuilder(scoped, nil, self)
			return newServiceScope(child.build()), nil
		}))
	}

	// The container's own handle, resolvable like any other singleton.
	// It is weak so holding it does not keep the container alive, and it
	// is registered last so user registrations cannot shadow it.
	descriptors = append(descriptors, newDescriptor(Singleton, func(*Injector) (ServiceProvider, error) {
		return self, nil
	}))

	b := &containerBuilder{
		cell:   cell,
		parent: parent,
		slots:  make(map[reflect.Type]*builderSlot, len(descriptors)),
	}
	for _, d := range descriptors {
		rtype := d.token.Type()
		if slot, ok := b.slots[rtype]; ok {
			// Last registration wins.
			slot.builder = d.builder
			continue
		}
		slot := &builderSlot{token: d.token, builder: d.builder}
		b.slots[rtype] = slot
		b.order = append(b.order, slot)
	}
	return b
}

// build finalizes every slot, publishes the container into the shared
// cell, and returns the strong provider over it. Singleton (and, in a
// scope's builder, scoped) factories run here; slots already built as
// dependencies of an earlier slot are skipped.
func (b *containerBuilder) build() ServiceProvider {
	for _, slot := range b.order {
		if slot.state != slotUnbuilt {
			continue
		}
		b.buildSlot(slot, newInjector(b, slot.token, nil))
	}

	entries := make(map[reflect.Type]entry, len(b.slots))
	for rtype, slot := range b.slots {
		entries[rtype] = slot.entry
	}

	c := &container{entries: entries, parent: b.parent}
	if !b.cell.Set(c) {
		panic("inject: container cell populated twice")
	}
	return newStrongProvider(b.cell)
}

// buildSlot transitions a slot Unbuilt -> Building -> Built, running its
// entry builder with inj. Reentering a Building slot means the injector
// chain walk upstream failed to catch a cycle; that is an internal bug,
// not a user error, so it panics rather than returning an error.
func (b *containerBuilder) buildSlot(slot *builderSlot, inj *Injector) {
	switch slot.state {
	case slotBuilt:
		return
	case slotBuilding:
		panic(fmt.Sprintf("inject: service %s reentered while building", slot.token.Name()))
	}

	slot.state = slotBuilding
	slot.entry = slot.builder.buildEntry(inj)
	slot.builder = nil
	slot.state = slotBuilt
}

// resolveService implements backend for the in-flight build. A slot
// reached here before its eager turn builds lazily on the spot, so
// factories may depend on services registered after them.
func (b *containerBuilder) resolveService(tok ServiceToken, parent *Injector) (any, error) {
	slot, ok := b.slots[tok.Type()]
	if !ok {
		if b.parent.valid() {
			return b.parent.resolveAny(tok)
		}
		var chain []ServiceToken
		if parent != nil {
			chain = parent.chain()
		}
		return nil, ResolutionError{Service: tok, Chain: chain, Cause: ErrServiceNotFound}
	}

	inj := newInjector(b, tok, parent)
	b.buildSlot(slot, inj)
	return slot.entry.resolveEntry(inj)
}
