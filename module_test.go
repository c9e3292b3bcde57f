package inject_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kvanbree/inject"
	"github.com/kvanbree/inject/internal/testutil"
)

func TestNewModule(t *testing.T) {
	t.Run("creates module with services", func(t *testing.T) {
		t.Parallel()

		module := inject.NewModule(
			inject.AddSingleton[*testutil.TestDatabase],
			inject.AddScoped[*testutil.TestHandler],
		)

		collection := inject.NewCollection()
		collection.AddModules(module)

		assert.Equal(t, 2, collection.Count())
		assert.True(t, inject.Contains[*testutil.TestDatabase](collection))
		assert.True(t, inject.Contains[*testutil.TestHandler](collection))
	})

	t.Run("empty module", func(t *testing.T) {
		t.Parallel()

		module := inject.NewModule()

		collection := inject.NewCollection()
		collection.AddModules(module)

		assert.Equal(t, 0, collection.Count())
	})

	t.Run("skips nil entries", func(t *testing.T) {
		t.Parallel()

		module := inject.NewModule(
			inject.AddSingleton[*testutil.TestDatabase],
			nil,
			inject.AddTransient[*testutil.TestHandler],
		)

		collection := inject.NewCollection()
		collection.AddModules(module, nil)

		assert.Equal(t, 2, collection.Count())
	})

	t.Run("plain functions are modules", func(t *testing.T) {
		t.Parallel()

		module := inject.NewModule(func(c *inject.ServiceCollection) {
			inject.AddValue(c, 42)
			inject.AddValue(c, "hello")
		})

		collection := inject.NewCollection()
		collection.AddModules(module)

		assert.Equal(t, 2, collection.Count())
	})
}

func TestModule_Composition(t *testing.T) {
	t.Run("nested modules apply in order", func(t *testing.T) {
		t.Parallel()

		loggingModule := inject.NewModule(func(c *inject.ServiceCollection) {
			inject.AddSingletonFactory(c, func(*inject.Injector) (testutil.TestLogger, error) {
				return testutil.NewTestLogger(), nil
			})
		})

		dataModule := inject.NewModule(
			inject.AddSingleton[*testutil.TestDatabase],
		)

		appModule := inject.NewModule(
			loggingModule,
			dataModule,
			inject.AddSingleton[*testutil.TestHandler],
		)

		collection := inject.NewCollection()
		collection.AddModules(appModule)
		require.Equal(t, 3, collection.Count())

		descriptors := collection.Descriptors()
		assert.Equal(t, inject.TokenFor[testutil.TestLogger](), descriptors[0].Token())
		assert.Equal(t, inject.TokenFor[*testutil.TestDatabase](), descriptors[1].Token())
		assert.Equal(t, inject.TokenFor[*testutil.TestHandler](), descriptors[2].Token())
	})

	t.Run("modules resolve end to end", func(t *testing.T) {
		t.Parallel()

		appModule := inject.NewModule(
			func(c *inject.ServiceCollection) {
				inject.AddSingletonFactory(c, func(*inject.Injector) (testutil.TestLogger, error) {
					return testutil.NewTestLogger(), nil
				})
			},
			inject.AddSingleton[*testutil.TestDatabase],
			inject.AddSingleton[*testutil.TestHandler],
		)

		collection := inject.NewCollection()
		collection.AddModules(appModule)

		provider := collection.Build()

		handler := testutil.MustResolveService[*testutil.TestHandler](t, provider)
		db := testutil.MustResolveService[*testutil.TestDatabase](t, provider)
		assert.Same(t, db, handler.DB)
	})

	t.Run("later modules shadow earlier registrations", func(t *testing.T) {
		t.Parallel()

		defaults := inject.NewModule(func(c *inject.ServiceCollection) {
			inject.AddValue(c, "default")
		})
		overrides := inject.NewModule(func(c *inject.ServiceCollection) {
			inject.AddValue(c, "override")
		})

		collection := inject.NewCollection()
		collection.AddModules(defaults, overrides)

		s, err := inject.Resolve[string](collection.Build())
		require.NoError(t, err)
		assert.Equal(t, "override", s)
	})
}
