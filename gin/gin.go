// Package gin integrates service scopes with the Gin web framework.
//
// ScopeMiddleware opens a request scope and attaches it to the request
// context; Handle resolves controllers from that scope:
//
//	g := gin.New()
//	g.Use(injectgin.ScopeMiddleware(provider))
//
//	g.POST("/login", injectgin.Handle((*AuthController).Login))
//	g.GET("/users/:id", injectgin.Handle((*UserController).GetByID))
package gin

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kvanbree/inject"
)

// Config holds the configuration for the scope middleware.
type Config struct {
	// ErrorHandler is called when the request scope cannot be opened or
	// a middleware fails. If nil, a default handler returning 500
	// Internal Server Error is used.
	ErrorHandler func(*gin.Context, error)

	// Middlewares are functions that run after the scope opens. They
	// can initialize request context, set user claims, etc.
	Middlewares []func(inject.ServiceScope, *gin.Context) error
}

// Option configures the scope middleware.
type Option func(*Config)

// WithErrorHandler sets the error handler for scope failures.
func WithErrorHandler(h func(*gin.Context, error)) Option {
	return func(c *Config) {
		c.ErrorHandler = h
	}
}

// WithMiddleware adds a middleware function that runs after the scope
// opens. Multiple middlewares are executed in the order they are added.
//
// Example:
//
//	injectgin.ScopeMiddleware(provider,
//	    injectgin.WithMiddleware(func(scope inject.ServiceScope, c *gin.Context) error {
//	        reqCtx := inject.MustResolve[*request.Context](scope)
//	        reqCtx.SetGinContext(c)
//	        return nil
//	    }),
//	)
func WithMiddleware(mw func(inject.ServiceScope, *gin.Context) error) Option {
	return func(c *Config) {
		c.Middlewares = append(c.Middlewares, mw)
	}
}

func defaultConfig() *Config {
	return &Config{
		ErrorHandler: func(c *gin.Context, err error) {
			slog.Error("failed to open request scope", "error", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error": "Internal Server Error",
			})
		},
		Middlewares: nil,
	}
}

// ScopeMiddleware creates a gin.HandlerFunc that opens a service scope
// for each request. The scope is attached to the request context and can
// be retrieved using inject.FromContext.
//
// The scope needs no teardown; it is garbage collected with the request.
//
// Example:
//
//	g := gin.New()
//	g.Use(injectgin.ScopeMiddleware(provider))
func ScopeMiddleware(provider inject.ServiceProvider, opts ...Option) gin.HandlerFunc {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	return func(c *gin.Context) {
		scope, err := inject.Resolve[inject.ServiceScope](provider)
		if err != nil {
			cfg.ErrorHandler(c, err)
			return
		}

		// Attach scope to request context
		ctx := inject.NewContext(c.Request.Context(), scope)
		c.Request = c.Request.WithContext(ctx)

		// Run middlewares
		for _, mw := range cfg.Middlewares {
			if err := mw(scope, c); err != nil {
				cfg.ErrorHandler(c, err)
				return
			}
		}

		c.Next()
	}
}

// HandlerConfig holds configuration for the Handle wrapper.
type HandlerConfig struct {
	// PanicRecovery enables panic recovery in the handler.
	// If true, panics are caught and handled by PanicHandler.
	PanicRecovery bool

	// PanicHandler is called when a panic occurs (if PanicRecovery is true).
	// If nil, a default handler returning 500 Internal Server Error is used.
	PanicHandler func(*gin.Context, any)

	// ScopeErrorHandler is called when scope retrieval fails.
	// If nil, a default handler returning 500 Internal Server Error is used.
	ScopeErrorHandler func(*gin.Context, error)

	// ResolutionErrorHandler is called when service resolution fails.
	// If nil, a default handler returning 500 Internal Server Error is used.
	ResolutionErrorHandler func(*gin.Context, error)
}

// HandlerOption configures the Handle wrapper.
type HandlerOption func(*HandlerConfig)

// WithPanicRecovery enables or disables panic recovery in the handler.
func WithPanicRecovery(enabled bool) HandlerOption {
	return func(c *HandlerConfig) {
		c.PanicRecovery = enabled
	}
}

// WithPanicHandler sets the handler for panics (requires WithPanicRecovery(true)).
func WithPanicHandler(h func(*gin.Context, any)) HandlerOption {
	return func(c *HandlerConfig) {
		c.PanicHandler = h
	}
}

// WithScopeErrorHandler sets the error handler for scope retrieval failures.
func WithScopeErrorHandler(h func(*gin.Context, error)) HandlerOption {
	return func(c *HandlerConfig) {
		c.ScopeErrorHandler = h
	}
}

// WithResolutionErrorHandler sets the error handler for service resolution failures.
func WithResolutionErrorHandler(h func(*gin.Context, error)) HandlerOption {
	return func(c *HandlerConfig) {
		c.ResolutionErrorHandler = h
	}
}

func defaultHandlerConfig() *HandlerConfig {
	return &HandlerConfig{
		PanicRecovery: false,
		PanicHandler: func(c *gin.Context, r any) {
			slog.Error("panic in handler", "panic", r)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error": "Internal Server Error",
			})
		},
		ScopeErrorHandler: func(c *gin.Context, err error) {
			slog.Error("failed to get scope from context", "error", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error": "Internal Server Error",
			})
		},
		ResolutionErrorHandler: func(c *gin.Context, err error) {
			slog.Error("failed to resolve controller", "error", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error": "Internal Server Error",
			})
		},
	}
}

// Handle wraps a controller method for type-safe resolution from the
// request scope. The controller type T is resolved from the scope
// attached to the request context.
//
// The method signature should be: func(T, *gin.Context)
//
// Example:
//
//	g.GET("/users/:id", injectgin.Handle((*UserController).GetByID))
func Handle[T any](method func(T, *gin.Context), opts ...HandlerOption) gin.HandlerFunc {
	cfg := defaultHandlerConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	return func(c *gin.Context) {
		if cfg.PanicRecovery {
			defer func() {
				if r := recover(); r != nil {
					cfg.PanicHandler(c, r)
				}
			}()
		}

		scope, err := inject.FromContext(c.Request.Context())
		if err != nil {
			cfg.ScopeErrorHandler(c, err)
			return
		}

		controller, err := inject.Resolve[T](scope)
		if err != nil {
			cfg.ResolutionErrorHandler(c, err)
			return
		}

		method(controller, c)
	}
}
