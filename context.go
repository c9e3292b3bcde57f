package inject

import "context"

type scopeContextKey struct{}

// NewContext returns a copy of parent carrying scope. Request-handling
// middleware attaches the per-request scope this way; see the http, chi,
// echo, fiber, and gin submodules.
func NewContext(parent context.Context, scope ServiceScope) context.Context {
	return context.WithValue(parent, scopeContextKey{}, scope)
}

// FromContext returns the scope attached to ctx, or ErrScopeNotInContext
// if none is attached.
func FromContext(ctx context.Context) (ServiceScope, error) {
	scope, ok := ctx.Value(scopeContextKey{}).(ServiceScope)
	if !ok {
		return ServiceScope{}, ErrScopeNotInContext
	}
	return scope, nil
}

// MustFromContext returns the scope attached to ctx and panics if none
// is attached.
func MustFromContext(ctx context.Context) ServiceScope {
	scope, err := FromContext(ctx)
	if err != nil {
		panic("inject: " + err.Error())
	}
	return scope
}
