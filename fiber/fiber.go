// Package fiber integrates service scopes with the Fiber web framework.
//
// ScopeMiddleware opens a request scope and stores it in the Fiber
// locals; Handle resolves controllers from that scope:
//
//	app := fiber.New()
//	app.Use(injectfiber.ScopeMiddleware(provider))
//
//	app.Post("/login", injectfiber.Handle((*AuthController).Login))
//	app.Get("/users/:id", injectfiber.Handle((*UserController).GetByID))
package fiber

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/kvanbree/inject"
)

// scopeKey is the key used to store the scope in fiber.Ctx.Locals
const scopeKey = "inject_scope"

// Config holds the configuration for the scope middleware.
type Config struct {
	// ErrorHandler is called when the request scope cannot be opened or
	// a middleware fails. If nil, a default handler returns a 500 JSON
	// response.
	ErrorHandler func(*fiber.Ctx, error) error

	// Middlewares are functions that run after the scope opens. They
	// can initialize request context, set user data, etc.
	Middlewares []func(inject.ServiceScope, *fiber.Ctx) error
}

// Option configures the scope middleware.
type Option func(*Config)

// WithErrorHandler sets the error handler for scope failures.
func WithErrorHandler(h func(*fiber.Ctx, error) error) Option {
	return func(c *Config) {
		c.ErrorHandler = h
	}
}

// WithMiddleware adds a middleware function that runs after the scope
// opens. Multiple middlewares are executed in the order they are added.
func WithMiddleware(mw func(inject.ServiceScope, *fiber.Ctx) error) Option {
	return func(c *Config) {
		c.Middlewares = append(c.Middlewares, mw)
	}
}

func defaultConfig() *Config {
	return &Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			slog.Error("failed to open request scope", "error", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Internal Server Error",
			})
		},
		Middlewares: nil,
	}
}

// ScopeMiddleware creates a Fiber middleware that opens a service scope
// for each request. The scope is stored in fiber.Ctx.Locals and attached
// to the UserContext, so both FromContext in this package and
// inject.FromContext on the user context can retrieve it.
//
// The scope needs no teardown; it is garbage collected with the request.
//
// Example:
//
//	app := fiber.New()
//	app.Use(injectfiber.ScopeMiddleware(provider))
func ScopeMiddleware(provider inject.ServiceProvider, opts ...Option) fiber.Handler {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	return func(c *fiber.Ctx) error {
		scope, err := inject.Resolve[inject.ServiceScope](provider)
		if err != nil {
			return cfg.ErrorHandler(c, err)
		}

		// Store scope in context and locals
		c.SetUserContext(inject.NewContext(c.UserContext(), scope))
		c.Locals(scopeKey, scope)

		// Run middlewares
		for _, mw := range cfg.Middlewares {
			if err := mw(scope, c); err != nil {
				return cfg.ErrorHandler(c, err)
			}
		}

		return c.Next()
	}
}

// HandlerConfig holds configuration for the Handle wrapper.
type HandlerConfig struct {
	// PanicRecovery enables panic recovery in the handler.
	PanicRecovery bool

	// PanicHandler is called when a panic occurs (if PanicRecovery is true).
	PanicHandler func(*fiber.Ctx, any) error

	// ScopeErrorHandler is called when scope retrieval fails.
	ScopeErrorHandler func(*fiber.Ctx, error) error

	// ResolutionErrorHandler is called when service resolution fails.
	ResolutionErrorHandler func(*fiber.Ctx, error) error
}

// HandlerOption configures the Handle wrapper.
type HandlerOption func(*HandlerConfig)

// WithPanicRecovery enables or disables panic recovery in the handler.
func WithPanicRecovery(enabled bool) HandlerOption {
	return func(c *HandlerConfig) {
		c.PanicRecovery = enabled
	}
}

// WithPanicHandler sets the handler for panics.
func WithPanicHandler(h func(*fiber.Ctx, any) error) HandlerOption {
	return func(c *HandlerConfig) {
		c.PanicHandler = h
	}
}

// WithScopeErrorHandler sets the error handler for scope retrieval failures.
func WithScopeErrorHandler(h func(*fiber.Ctx, error) error) HandlerOption {
	return func(c *HandlerConfig) {
		c.ScopeErrorHandler = h
	}
}

// WithResolutionErrorHandler sets the error handler for service resolution failures.
func WithResolutionErrorHandler(h func(*fiber.Ctx, error) error) HandlerOption {
	return func(c *HandlerConfig) {
		c.ResolutionErrorHandler = h
	}
}

func defaultHandlerConfig() *HandlerConfig {
	return &HandlerConfig{
		PanicRecovery: false,
		PanicHandler: func(c *fiber.Ctx, v any) error {
			slog.Error("panic in handler", "panic", v)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Internal Server Error",
			})
		},
		ScopeErrorHandler: func(c *fiber.Ctx, err error) error {
			slog.Error("failed to get scope from context", "error", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Internal Server Error",
			})
		},
		ResolutionErrorHandler: func(c *fiber.Ctx, err error) error {
			slog.Error("failed to resolve controller", "error", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Internal Server Error",
			})
		},
	}
}

// Handle wraps a controller method for type-safe resolution from the
// request scope. The controller type T is resolved from the scope stored
// in fiber.Ctx.Locals.
//
// The method signature should be: func(T, *fiber.Ctx) error
//
// Example:
//
//	app.Get("/users/:id", injectfiber.Handle((*UserController).GetByID))
func Handle[T any](method func(T, *fiber.Ctx) error, opts ...HandlerOption) fiber.Handler {
	cfg := defaultHandlerConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	return func(c *fiber.Ctx) (err error) {
		if cfg.PanicRecovery {
			defer func() {
				if v := recover(); v != nil {
					err = cfg.PanicHandler(c, v)
				}
			}()
		}

		scope, ok := FromContext(c)
		if !ok {
			return cfg.ScopeErrorHandler(c, inject.ErrScopeNotInContext)
		}

		controller, resolveErr := inject.Resolve[T](scope)
		if resolveErr != nil {
			return cfg.ResolutionErrorHandler(c, resolveErr)
		}

		return method(controller, c)
	}
}

// FromContext retrieves the scope from fiber.Ctx.Locals. This is useful
// when you need to resolve services manually.
//
// Example:
//
//	scope, ok := injectfiber.FromContext(c)
//	if !ok {
//		return fiber.ErrInternalServerError
//	}
//	userService := inject.MustResolve[*UserService](scope)
func FromContext(c *fiber.Ctx) (inject.ServiceScope, bool) {
	scope, ok := c.Locals(scopeKey).(inject.ServiceScope)
	return scope, ok
}
