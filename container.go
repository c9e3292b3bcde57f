package inject

import "reflect"

// container is the immutable resolution table behind a provider: one
// finalized entry per service type, plus the parent provider that misses
// delegate to. A container never changes after build; new state only
// ever appears by spawning a new scope, which is a new container.
type container struct {
	entries map[reflect.Type]entry
	parent  ServiceProvider
}

// resolveService implements backend for the steady state. Delegation to
// the parent restarts resolution through the parent provider with a
// fresh chain; a miss with no parent reports the chain accumulated by
// the requesting factory, which is empty for a direct top-level miss.
func (c *container) resolveService(tok ServiceToken, parent *Injector) (any, error) {
	e, ok := c.entries[tok.Type()]
	if !ok {
		if c.parent.valid() {
			return c.parent.resolveAny(tok)
		}
		var chain []ServiceToken
		if parent != nil {
			chain = parent.chain()
		}
		return nil, ResolutionError{Service: tok, Chain: chain, Cause: ErrServiceNotFound}
	}
	return e.resolveEntry(newInjector(c, tok, parent))
}
