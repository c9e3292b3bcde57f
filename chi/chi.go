// Package chi integrates service scopes with the Chi router.
//
// ScopeMiddleware opens a request scope and attaches it to the request
// context; Handle resolves controllers from that scope:
//
//	r := injectchi.NewRouter(provider)
//
//	r.Post("/login", injectchi.Handle((*AuthController).Login))
//	r.Get("/users/{id}", injectchi.Handle((*UserController).GetByID))
package chi

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kvanbree/inject"
)

// Config holds the configuration for the scope middleware.
type Config struct {
	// ErrorHandler is called when the request scope cannot be opened or
	// a middleware fails. If nil, a default handler logs the error and
	// returns 500 Internal Server Error.
	ErrorHandler func(http.ResponseWriter, *http.Request, error)

	// Middlewares are functions that run after the scope opens. They
	// can initialize request context, set user data, etc.
	Middlewares []func(inject.ServiceScope, *http.Request) error
}

// Option configures the scope middleware.
type Option func(*Config)

// WithErrorHandler sets the error handler for scope failures.
func WithErrorHandler(h func(http.ResponseWriter, *http.Request, error)) Option {
	return func(c *Config) {
		c.ErrorHandler = h
	}
}

// WithMiddleware adds a middleware function that runs after the scope
// opens. Multiple middlewares are executed in the order they are added.
func WithMiddleware(mw func(inject.ServiceScope, *http.Request) error) Option {
	return func(c *Config) {
		c.Middlewares = append(c.Middlewares, mw)
	}
}

func defaultConfig() *Config {
	return &Config{
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			slog.Error("failed to open request scope", "error", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		},
		Middlewares: nil,
	}
}

// NewRouter returns a Chi router with the scope middleware installed,
// ready for Handle-wrapped routes.
func NewRouter(provider inject.ServiceProvider, opts ...Option) chi.Router {
	r := chi.NewRouter()
	r.Use(ScopeMiddleware(provider, opts...))
	return r
}

// ScopeMiddleware creates a Chi middleware that opens a service scope
// for each request. The scope is attached to the request context and can
// be retrieved using inject.FromContext.
//
// The scope holds no resources beyond its services; it is garbage
// collected with the request.
//
// Example:
//
//	r := chi.NewRouter()
//	r.Use(injectchi.ScopeMiddleware(provider))
func ScopeMiddleware(provider inject.ServiceProvider, opts ...Option) func(http.Handler) http.Handler {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			scope, err := inject.Resolve[inject.ServiceScope](provider)
			if err != nil {
				cfg.ErrorHandler(w, r, err)
				return
			}

			// Attach scope to request context
			r = r.WithContext(inject.NewContext(r.Context(), scope))

			// Run middlewares
			for _, mw := range cfg.Middlewares {
				if err := mw(scope, r); err != nil {
					cfg.ErrorHandler(w, r, err)
					return
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

// HandlerConfig holds configuration for the Handle wrapper.
type HandlerConfig struct {
	// PanicRecovery enables panic recovery in the handler.
	PanicRecovery bool

	// PanicHandler is called when a panic occurs (if PanicRecovery is true).
	PanicHandler func(http.ResponseWriter, *http.Request, any)

	// ScopeErrorHandler is called when scope retrieval fails.
	ScopeErrorHandler func(http.ResponseWriter, *http.Request, error)

	// ResolutionErrorHandler is called when service resolution fails.
	ResolutionErrorHandler func(http.ResponseWriter, *http.Request, error)
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
func WithPanicHandler(h func(http.ResponseWriter, *http.Request, any)) HandlerOption {
	return func(c *HandlerConfig) {
		c.PanicHandler = h
	}
}

// WithScopeErrorHandler sets the error handler for scope retrieval failures.
func WithScopeErrorHandler(h func(http.ResponseWriter, *http.Request, error)) HandlerOption {
	return func(c *HandlerConfig) {
		c.ScopeErrorHandler = h
	}
}

// WithResolutionErrorHandler sets the error handler for service resolution failures.
func WithResolutionErrorHandler(h func(http.ResponseWriter, *http.Request, error)) HandlerOption {
	return func(c *HandlerConfig) {
		c.ResolutionErrorHandler = h
	}
}

func defaultHandlerConfig() *HandlerConfig {
	return &HandlerConfig{
		PanicRecovery: false,
		PanicHandler: func(w http.ResponseWriter, r *http.Request, v any) {
			slog.Error("panic in handler", "panic", v)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		},
		ScopeErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			slog.Error("failed to get scope from context", "error", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		},
		ResolutionErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			slog.Error("failed to resolve controller", "error", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		},
	}
}

// Handle wraps a controller method for type-safe resolution from the
// request scope. The controller type T is resolved from the scope
// attached to the request context.
//
// The method signature should be: func(T, http.ResponseWriter, *http.Request)
//
// Example:
//
//	r.Get("/users/{id}", injectchi.Handle((*UserController).GetByID))
func Handle[T any](method func(T, http.ResponseWriter, *http.Request), opts ...HandlerOption) http.HandlerFunc {
	cfg := defaultHandlerConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	return func(w http.ResponseWriter, r *http.Request) {
		if cfg.PanicRecovery {
			defer func() {
				if v := recover(); v != nil {
					cfg.PanicHandler(w, r, v)
				}
			}()
		}

		scope, err := inject.FromContext(r.Context())
		if err != nil {
			cfg.ScopeErrorHandler(w, r, err)
			return
		}

		controller, err := inject.Resolve[T](scope)
		if err != nil {
			cfg.ResolutionErrorHandler(w, r, err)
			return
		}

		method(controller, w, r)
	}
}
