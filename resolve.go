package inject

import "fmt"

// Resolver resolves service instances by type. It is implemented by
// ServiceProvider, ServiceScope, and *Injector, so the same Resolve call
// serves application code, request scopes, and factories resolving their
// dependencies mid-construction.
type Resolver interface {
	resolveAny(tok ServiceToken) (any, error)
}

// Resolve returns the service of type T from r.
//
// Failures are ResolutionError values carrying the failing service token
// and the dependency chain active at the failure site; classify them
// with errors.Is against the sentinel errors or with the Is* helpers.
func Resolve[T any](r Resolver) (T, error) {
	var zero T

	tok := TokenFor[T]()

	instance, err := r.resolveAny(tok)
	if err != nil {
		return zero, err
	}

	result, ok := instance.(T)
	if !ok {
		return zero, ResolutionError{
			Service: tok,
			Cause:   TypeMismatchError{Expected: tok.Type(), Actual: instance},
		}
	}
	return result, nil
}

// MustResolve resolves a service and panics on error.
func MustResolve[T any](r Resolver) T {
	result, err := Resolve[T](r)
	if err != nil {
		panic(fmt.Sprintf("inject: resolving %s: %v", TokenFor[T]().Name(), err))
	}
	return result
}
