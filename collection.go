package inject

import (
	"reflect"
	"slices"
)

// ServiceCollection accumulates service registrations before a provider
// is built. Registration is infallible and order-independent: resolution
// looks services up by type, not position, and when the same type is
// registered more than once the last registration wins at build time.
//
// ServiceCollection is NOT thread-safe. Configure it in a single
// goroutine, then call Build. Build consumes the collection; registering
// on, or rebuilding, a consumed collection is a programming error and
// panics.
//
// Example:
//
//	collection := inject.NewCollection()
//	inject.AddValue(collection, config)
//	inject.AddSingletonFactory(collection, NewLogger)
//	inject.AddScoped[*RequestState](collection)
//
//	provider := collection.Build()
//	logger, err := inject.Resolve[*Logger](provider)
type ServiceCollection struct {
	descriptors []*ServiceDescriptor
	built       bool
}

// NewCollection returns an empty service collection.
func NewCollection() *ServiceCollection {
	return &ServiceCollection{}
}

// AddValue registers an already-constructed value as a singleton.
func AddValue[T any](c *ServiceCollection, value T) {
	AddSingletonFactory(c, func(*Injector) (T, error) {
		return value, nil
	})
}

// AddSingleton registers T as a singleton constructed via its
// FromInjector method. The factory runs once, during Build.
func AddSingleton[T Injectable[T]](c *ServiceCollection) {
	AddSingletonFactory(c, fromInjectorFactory[T]())
}

// AddScoped registers T as a scoped service constructed via its
// FromInjector method. The factory runs once per scope, while the scope
// is built.
func AddScoped[T Injectable[T]](c *ServiceCollection) {
	AddScopedFactory(c, fromInjectorFactory[T]())
}

// AddTransient registers T as a transient service constructed via its
// FromInjector method. The factory runs on every resolve.
func AddTransient[T Injectable[T]](c *ServiceCollection) {
	AddTransientFactory(c, fromInjectorFactory[T]())
}

// AddSingletonFactory registers factory to produce the singleton T.
func AddSingletonFactory[T any](c *ServiceCollection, factory Factory[T]) {
	c.add(newDescriptor(Singleton, mustFactory(factory)))
}

// AddScopedFactory registers factory to produce T once per scope.
func AddScopedFactory[T any](c *ServiceCollection, factory Factory[T]) {
	c.add(newDescriptor(Scoped, mustFactory(factory)))
}

// AddTransientFactory registers factory to produce T on every resolve.
func AddTransientFactory[T any](c *ServiceCollection, factory Factory[T]) {
	c.add(newDescriptor(Transient, mustFactory(factory)))
}

// Contains reports whether the collection holds a registration for T.
func Contains[T any](c *ServiceCollection) bool {
	return c.ContainsType(reflect.TypeOf((*T)(nil)).Elem())
}

// ContainsType reports whether the collection holds a registration for
// the given type.
func (c *ServiceCollection) ContainsType(rtype reflect.Type) bool {
	for _, d := range c.descriptors {
		if d.token.Type() == rtype {
			return true
		}
	}
	return false
}

// Count returns the number of registrations, duplicates included.
func (c *ServiceCollection) Count() int {
	return len(c.descriptors)
}

// Descriptors returns a snapshot of the registered descriptors in
// registration order.
func (c *ServiceCollection) Descriptors() []*ServiceDescriptor {
	return slices.Clone(c.descriptors)
}

// Build consumes the collection and returns the root ServiceProvider.
// Singleton factories run here, each settling a memoized result. Build
// itself never fails: factory errors settle into their entries and
// surface on resolve.
func (c *ServiceCollection) Build() ServiceProvider {
	if c.built {
		panic("inject: service collection already built")
	}
	c.built = true

	var root, scoped []*ServiceDescriptor
	for _, d := range c.descriptors {
		if d.lifetime == Scoped {
			scoped = append(scoped, d)
		} else {
			root = append(root, d)
		}
	}
	return newContainerBuilder(root, scoped, ServiceProvider{}).build()
}

func (c *ServiceCollection) add(d *ServiceDescriptor) {
	if c.built {
		panic("inject: service collection already built")
	}
	c.descriptors = append(c.descriptors, d)
}

func fromInjectorFactory[T Injectable[T]]() Factory[T] {
	return func(inj *Injector) (T, error) {
		var ctor T
		return ctor.FromInjector(inj)
	}
}

func mustFactory[T any](factory Factory[T]) Factory[T] {
	if factory == nil {
		panic("inject: nil factory for service " + TokenFor[T]().Name())
	}
	return factory
}
