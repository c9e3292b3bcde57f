package inject

import (
	"weak"

	"github.com/kvanbree/inject/internal/oncecell"
)

// ServiceProvider is the handle applications hold on a built container.
// It is a small copyable value; copies share the same container and may
// be resolved concurrently from any number of goroutines.
//
// A provider comes in two forms. The strong form, returned by Build and
// carried by every ServiceScope, keeps its container alive. The weak
// form is what a factory gets when it resolves ServiceProvider: a handle
// back to the container that is being built around it. The weak form
// does not keep the container alive, and it reports
// ErrProviderUninitialized when resolved through before its build has
// finished, or ErrProviderDropped once every strong handle is gone and
// the container has been collected.
//
// The zero ServiceProvider is a handle to nothing; resolving through it
// reports ErrProviderUninitialized.
type ServiceProvider struct {
	cell     *oncecell.Cell[*container]
	weakCell weak.Pointer[oncecell.Cell[*container]]
	isWeak   bool
}

func newStrongProvider(cell *oncecell.Cell[*container]) ServiceProvider {
	return ServiceProvider{cell: cell}
}

func newWeakProvider(cell *oncecell.Cell[*container]) ServiceProvider {
	return ServiceProvider{weakCell: weak.Make(cell), isWeak: true}
}

// IsWeak reports whether this handle leaves the container's lifetime to
// the strong handles held elsewhere.
func (sp ServiceProvider) IsWeak() bool {
	return sp.isWeak
}

// valid distinguishes a real handle from the zero value; containers use
// it to tell "no parent" from a parent provider.
func (sp ServiceProvider) valid() bool {
	return sp.isWeak || sp.cell != nil
}

// resolveAny implements Resolver.
func (sp ServiceProvider) resolveAny(tok ServiceToken) (any, error) {
	cell := sp.cell
	if sp.isWeak {
		if cell = sp.weakCell.Value(); cell == nil {
			return nil, ResolutionError{Service: tok, Cause: ErrProviderDropped}
		}
	}
	if cell == nil {
		return nil, ResolutionError{Service: tok, Cause: ErrProviderUninitialized}
	}

	c, ok := cell.Get()
	if !ok {
		return nil, ResolutionError{Service: tok, Cause: ErrProviderUninitialized}
	}
	return c.resolveService(tok, nil)
}
