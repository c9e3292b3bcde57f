package inject

import "reflect"

// backend is the store an Injector resolves against: the container
// builder while a build is in flight, the finished container afterwards.
type backend interface {
	resolveService(tok ServiceToken, parent *Injector) (any, error)
}

// Injector is the resolution context handed to a factory for the duration
// of one construction call. It links to the injector of the factory that
// caused this one to run, forming the active dependency chain, and checks
// that chain before every nested resolve so a cycle is reported as an
// error instead of recursing forever.
//
// An Injector is only valid during the synchronous factory call that
// received it. It must not be stored, returned, or passed to another
// goroutine; resolve the ServiceProvider service instead when a service
// needs to resolve lazily after construction.
type Injector struct {
	token   ServiceToken
	parent  *Injector
	backing backend
}

func newInjector(backing backend, token ServiceToken, parent *Injector) *Injector {
	return &Injector{token: token, parent: parent, backing: backing}
}

// Token returns the token of the service this injector is constructing.
func (inj *Injector) Token() ServiceToken {
	return inj.token
}

// resolveAny implements Resolver. The chain walk runs before any
// delegation, so a genuine cycle never reaches the backing store.
func (inj *Injector) resolveAny(tok ServiceToken) (any, error) {
	if inj.inChain(tok.Type()) {
		return nil, ResolutionError{Service: tok, Chain: inj.chain(), Cause: ErrCyclicReference}
	}
	return inj.backing.resolveService(tok, inj)
}

// inChain reports whether rtype is already being constructed anywhere up
// the chain, the injector's own service included.
func (inj *Injector) inChain(rtype reflect.Type) bool {
	for cur := inj; cur != nil; cur = cur.parent {
		if cur.token.Type() == rtype {
			return true
		}
	}
	return false
}

// chain returns the active dependency chain, root first, ending at this
// injector's own service. Assembled only at failure sites.
func (inj *Injector) chain() []ServiceToken {
	n := 0
	for cur := inj; cur != nil; cur = cur.parent {
		n++
	}

	chain := make([]ServiceToken, n)
	for cur := inj; cur != nil; cur = cur.parent {
		n--
		chain[n] = cur.token
	}
	return chain
}
