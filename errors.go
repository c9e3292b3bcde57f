package inject

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

// Sentinel errors. These are always returned wrapped in a ResolutionError
// that carries the failing service token and the dependency chain; match
// them with errors.Is or the predicate helpers below.
var (
	// ErrServiceNotFound indicates the requested type is registered
	// neither in the resolving container nor in any of its ancestors.
	ErrServiceNotFound = errors.New("service not found")

	// ErrCyclicReference indicates the requested type is already being
	// constructed somewhere up the active resolution chain.
	ErrCyclicReference = errors.New("cyclic service reference")

	// ErrProviderUninitialized indicates a resolve through a provider
	// whose container has not finished building. This is reachable when
	// a factory resolves its own provider handle and eagerly resolves
	// through it instead of storing it for later use.
	ErrProviderUninitialized = errors.New("service provider is not initialized")

	// ErrProviderDropped indicates a resolve through a weak provider
	// whose backing container has been released.
	ErrProviderDropped = errors.New("service provider has been dropped")

	// ErrScopeNotInContext indicates FromContext was called on a context
	// without an attached service scope.
	ErrScopeNotInContext = errors.New("no service scope in context")
)

var (
	_ error = ResolutionError{}
	_ error = TypeMismatchError{}
	_ error = LifetimeError{}
)

// ResolutionError is the error type returned by every failed resolve.
// Cause is one of the sentinel errors above, a TypeMismatchError, or the
// error a factory returned; Unwrap exposes it so errors.Is and errors.As
// reach both the sentinels and application errors.
type ResolutionError struct {
	// Service is the token of the service the failure is attributed to.
	Service ServiceToken

	// Chain is the dependency chain active at the failure site, ordered
	// root first. It is empty when the failure happened outside any
	// factory call.
	Chain []ServiceToken

	// Cause classifies the failure.
	Cause error
}

func (e ResolutionError) Error() string {
	name := e.Service.Name()
	chain := formatServiceChain(e.Chain)

	switch {
	case errors.Is(e.Cause, ErrServiceNotFound):
		return "service " + name + " not found" + chain
	case errors.Is(e.Cause, ErrCyclicReference):
		return "cyclic reference while resolving service " + name + chain
	case errors.Is(e.Cause, ErrProviderUninitialized),
		errors.Is(e.Cause, ErrProviderDropped):
		return "cannot resolve service " + name + ": " + e.Cause.Error()
	default:
		return "constructing service " + name + chain + ": " + e.Cause.Error()
	}
}

func (e ResolutionError) Unwrap() error {
	return e.Cause
}

// TypeMismatchError indicates a resolved instance did not have the
// requested type. It can only be produced by a corrupted registry and is
// reported as an error rather than a panic so callers keep a single
// failure path.
type TypeMismatchError struct {
	Expected reflect.Type
	Actual   any
}

func (e TypeMismatchError) Error() string {
	return fmt.Sprintf("type mismatch: expected %s, got %T", formatType(e.Expected), e.Actual)
}

// LifetimeError indicates an invalid lifetime value.
type LifetimeError struct {
	Value any
}

func (e LifetimeError) Error() string {
	return fmt.Sprintf("invalid service lifetime: %v", e.Value)
}

// IsNotFound reports whether err is a failed resolve of an unregistered
// service.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrServiceNotFound)
}

// IsCyclicReference reports whether err is a detected dependency cycle.
func IsCyclicReference(err error) bool {
	return errors.Is(err, ErrCyclicReference)
}

// IsProviderUninitialized reports whether err is a resolve through a
// not-yet-built provider.
func IsProviderUninitialized(err error) bool {
	return errors.Is(err, ErrProviderUninitialized)
}

// IsProviderDropped reports whether err is a resolve through a weak
// provider whose container is gone.
func IsProviderDropped(err error) bool {
	return errors.Is(err, ErrProviderDropped)
}

// IsTypeMismatch reports whether err is a resolved-type mismatch.
func IsTypeMismatch(err error) bool {
	var target TypeMismatchError
	return errors.As(err, &target)
}

// formatServiceChain renders a dependency chain as " (a -> b -> c)", or
// an empty string for an empty chain.
func formatServiceChain(chain []ServiceToken) string {
	if len(chain) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString(" (")
	for i, tok := range chain {
		if i > 0 {
			b.WriteString(" -> ")
		}
		b.WriteString(tok.Name())
	}
	b.WriteString(")")
	return b.String()
}
