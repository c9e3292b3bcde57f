// Package inject provides a lifetime-scoped dependency injection
// container: services are registered by type with a factory and a
// lifetime, compiled once into an immutable container, and resolved with
// full type safety through generics. No reflection runs on the resolve
// path and no code generation is required.
//
// # Basic Usage
//
// Register services on a collection, build it once, then resolve:
//
//	collection := inject.NewCollection()
//	inject.AddValue(collection, cfg)
//	inject.AddSingletonFactory(collection, func(inj *inject.Injector) (*Logger, error) {
//	    cfg, err := inject.Resolve[Config](inj)
//	    if err != nil {
//	        return nil, err
//	    }
//	    return NewLogger(cfg.LogLevel), nil
//	})
//
//	provider := collection.Build()
//
//	logger, err := inject.Resolve[*Logger](provider)
//
// Build consumes the collection and never fails; a factory that errors
// settles that error into its entry, and the error is returned from
// every resolve of that service.
//
// # Lifetimes
//
// Three lifetimes control when factories run:
//
//   - Singleton: the factory runs once, during Build, and every resolve
//     returns the same settled result.
//   - Scoped: the factory runs once per scope, while the scope is built.
//     Scoped services are not resolvable from the root provider.
//   - Transient: the factory runs on every resolve.
//
// Singleton and scoped results are memoized whether the factory
// succeeded or failed; a failed factory is never re-run.
//
// # Factories and Injectables
//
// A service is produced either by an explicit Factory registered with
// AddSingletonFactory, AddScopedFactory, or AddTransientFactory, or by
// the type's own FromInjector method registered with AddSingleton,
// AddScoped, or AddTransient. Factories receive an Injector, resolve
// their dependencies through it, and return the constructed value or an
// error. The Injector is only valid for the duration of the factory
// call.
//
// # Scopes
//
// A scope is an independent child container for one unit of work, such
// as an HTTP request. Creating one is an ordinary resolve:
//
//	scope, err := inject.Resolve[inject.ServiceScope](provider)
//	state, err := inject.Resolve[*RequestState](scope)
//
// A scope resolves its own scoped instances first and delegates
// everything else to the container it was created from. Scopes need no
// teardown: a scope's container lives exactly as long as the scope
// value is held. The http, chi, echo, fiber, and gin submodules provide
// per-request scope middleware built on this.
//
// # The Container's Own Handle
//
// Every container registers its own ServiceProvider as a singleton, so
// a factory can ask for a handle to the container that is being built
// around it:
//
//	inject.AddSingletonFactory(collection, func(inj *inject.Injector) (*Worker, error) {
//	    sp, err := inject.Resolve[inject.ServiceProvider](inj)
//	    if err != nil {
//	        return nil, err
//	    }
//	    return &Worker{provider: sp}, nil
//	})
//
// The handle is weak and late-bound: storing it for later use is the
// intended pattern, while resolving through it before Build finishes
// reports ErrProviderUninitialized, and resolving through it after the
// last strong handle is gone reports ErrProviderDropped.
//
// # Modules
//
// Group related registrations into reusable modules:
//
//	var StorageModule = inject.NewModule(
//	    inject.AddSingleton[*Database],
//	    inject.AddScoped[*UserRepository],
//	)
//
//	collection.AddModules(StorageModule)
//
// # Error Handling
//
// Every failed resolve returns a ResolutionError carrying the failing
// service token, the dependency chain active at the failure site, and a
// cause: ErrServiceNotFound, ErrCyclicReference,
// ErrProviderUninitialized, ErrProviderDropped, or the error the factory
// returned. Cycles are detected before any recursive construction, so
// resolution never loops.
//
// # Thread Safety
//
// Registration is single-goroutine by contract. After Build, providers
// and scopes are immutable and safe for concurrent resolves from any
// number of goroutines without external locking.
package inject
