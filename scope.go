package inject

import "github.com/google/uuid"

// ServiceScope is one spawned scope: an independent child container
// holding fresh instances of every scoped registration, with resolution
// misses delegating to the container the scope was created from.
//
// "Create a scope" is an ordinary resolve:
//
//	scope, err := inject.Resolve[inject.ServiceScope](provider)
//	state, err := inject.Resolve[*RequestState](scope)
//
// Each resolve of ServiceScope yields a new scope whose scoped factories
// have already run and settled, the same way singletons settle at Build.
// Resolving ServiceScope inside a scope delegates to the parent and
// therefore yields a sibling scope, not a nested one.
//
// In web applications a scope is typically created per HTTP request; see
// the http, chi, echo, fiber, and gin submodules. A scope needs no
// teardown call: its container lives as long as the ServiceScope value
// (or a copy of its provider) is held.
type ServiceScope struct {
	id       string
	provider ServiceProvider
}

func newServiceScope(provider ServiceProvider) ServiceScope {
	return ServiceScope{id: uuid.NewString(), provider: provider}
}

// ID returns the unique ID of this scope instance.
func (s ServiceScope) ID() string {
	return s.id
}

// Provider returns the scope's own provider. The handle is strong: it
// keeps the scope's container alive for as long as it is held.
func (s ServiceScope) Provider() ServiceProvider {
	return s.provider
}

// resolveAny implements Resolver by delegating to the scope's provider.
func (s ServiceScope) resolveAny(tok ServiceToken) (any, error) {
	return s.provider.resolveAny(tok)
}
