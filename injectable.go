package inject

// Factory constructs a service instance, resolving its dependencies
// through the supplied Injector. Returning an error fails the resolve;
// for singleton and scoped registrations the error settles into the
// container and is returned on every later resolve of the same service.
//
// An error that is already a ResolutionError (a failed dependency resolve
// passed back up) propagates unchanged; any other error is wrapped with
// the service's token and the active dependency chain.
type Factory[T any] func(*Injector) (T, error)

// FromInjector is implemented by types that construct themselves from an
// Injector. The method is called on the zero value of T (a nil pointer
// for pointer types), so it must behave as a constructor and not touch
// its receiver:
//
//	func (*UserService) FromInjector(inj *inject.Injector) (*UserService, error) {
//	    db, err := inject.Resolve[*Database](inj)
//	    if err != nil {
//	        return nil, err
//	    }
//	    return &UserService{db: db}, nil
//	}
type FromInjector[T any] interface {
	FromInjector(*Injector) (T, error)
}

// Injectable marks a FromInjector type as eligible for registration in a
// ServiceCollection via AddSingleton, AddScoped, and AddTransient.
type Injectable[T any] interface {
	FromInjector[T]
}
