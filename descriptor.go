package inject

// entryBuilder turns one descriptor into its finalized entry. For
// singleton and scoped descriptors this is where the factory runs; the
// injector it receives is rooted at the descriptor's own token.
type entryBuilder interface {
	buildEntry(inj *Injector) entry
}

type transientEntryBuilder[T any] struct {
	factory Factory[T]
}

func (b *transientEntryBuilder[T]) buildEntry(*Injector) entry {
	return &transientEntry[T]{factory: b.factory}
}

type settledEntryBuilder[T any] struct {
	factory Factory[T]
}

func (b *settledEntryBuilder[T]) buildEntry(inj *Injector) entry {
	v, err := b.factory(inj)
	if err != nil {
		return &settledEntry[T]{err: wrapFactoryError(inj, err)}
	}
	return &settledEntry[T]{value: v}
}

// ServiceDescriptor is one pending registration: a service token, a
// lifetime, and the factory that will produce the service. Descriptors
// are immutable; the mutable build state lives in the container builder.
type ServiceDescriptor struct {
	token    ServiceToken
	lifetime Lifetime
	builder  entryBuilder
}

func newDescriptor[T any](lifetime Lifetime, factory Factory[T]) *ServiceDescriptor {
	d := &ServiceDescriptor{token: TokenFor[T](), lifetime: lifetime}
	if lifetime == Transient {
		d.builder = &transientEntryBuilder[T]{factory: factory}
	} else {
		d.builder = &settledEntryBuilder[T]{factory: factory}
	}
	return d
}

// Token returns the token of the registered service type.
func (d *ServiceDescriptor) Token() ServiceToken {
	return d.token
}

// Lifetime returns the registered lifetime.
func (d *ServiceDescriptor) Lifetime() Lifetime {
	return d.lifetime
}

func (d *ServiceDescriptor) String() string {
	return d.token.Name() + " (" + d.lifetime.String() + ")"
}
