package inject

import "errors"

// entry is the finalized, immutable, resolvable form a descriptor takes
// once built. The lifetime tag survives as the concrete entry type:
// transient entries keep their factory, singleton and scoped entries keep
// a settled result.
type entry interface {
	resolveEntry(inj *Injector) (any, error)
}

// transientEntry re-invokes its factory on every resolve.
type transientEntry[T any] struct {
	factory Factory[T]
}

func (e *transientEntry[T]) resolveEntry(inj *Injector) (any, error) {
	v, err := e.factory(inj)
	if err != nil {
		return nil, wrapFactoryError(inj, err)
	}
	return v, nil
}

// settledEntry holds the memoized result of a singleton or scoped
// factory, computed exactly once at build time. Failures settle the same
// way successes do: every resolve of a failed entry returns the identical
// error without re-running the factory.
type settledEntry[T any] struct {
	value T
	err   error
}

func (e *settledEntry[T]) resolveEntry(*Injector) (any, error) {
	if e.err != nil {
		return nil, e.err
	}
	return e.value, nil
}

// wrapFactoryError folds a factory failure into the unified error shape.
// An error that is already a ResolutionError is a dependency failure
// passing back up and keeps its original attribution; anything else is
// attributed to the service under construction with the active chain.
func wrapFactoryError(inj *Injector, err error) error {
	var rerr ResolutionError
	if errors.As(err, &rerr) {
		return err
	}
	return ResolutionError{Service: inj.token, Chain: inj.chain(), Cause: err}
}
