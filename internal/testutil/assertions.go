package testutil

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kvanbree/inject"
)

// MustResolveService resolves T from r and fails the test on error.
func MustResolveService[T any](t *testing.T, r inject.Resolver) T {
	t.Helper()
	service, err := inject.Resolve[T](r)
	require.NoError(t, err, "failed to resolve service of type %T", *new(T))
	return service
}

// AssertServiceNotFound checks that resolving T from r fails with a
// not-found error.
func AssertServiceNotFound[T any](t *testing.T, r inject.Resolver) {
	t.Helper()
	_, err := inject.Resolve[T](r)
	require.Error(t, err)
	assert.True(t, inject.IsNotFound(err), "expected service not found error, got: %v", err)
}

// AssertResolutionCause checks that err is a ResolutionError whose cause
// matches sentinel, and returns it for further inspection.
func AssertResolutionCause(t *testing.T, err error, sentinel error) inject.ResolutionError {
	t.Helper()
	require.Error(t, err)

	var rerr inject.ResolutionError
	require.ErrorAs(t, err, &rerr, "expected a ResolutionError, got %T: %v", err, err)
	assert.ErrorIs(t, err, sentinel)
	return rerr
}

// ChainNames renders a resolution error's dependency chain as service
// names for comparison in tests. It returns nil for errors without a
// chain.
func ChainNames(err error) []string {
	var rerr inject.ResolutionError
	if !errors.As(err, &rerr) || len(rerr.Chain) == 0 {
		return nil
	}

	names := make([]string, len(rerr.Chain))
	for i, tok := range rerr.Chain {
		names[i] = tok.Name()
	}
	return names
}
