// Package http integrates service scopes with net/http. ScopeMiddleware
// opens a scope per request and stores it in the request context; Handle
// adapts controller methods into handlers that resolve their receiver
// from that scope.
package http

import (
	"log/slog"
	"net/http"

	"github.com/kvanbree/inject"
)

// Middleware runs after the request scope opens and before the wrapped
// handler. Returning an error aborts the request through the configured
// error handler.
type Middleware func(scope inject.ServiceScope, r *http.Request) error

// Config controls ScopeMiddleware.
type Config struct {
	// ErrorHandler responds when the scope cannot be opened or a
	// Middleware fails. The default logs the error and writes a 500.
	ErrorHandler func(w http.ResponseWriter, r *http.Request, err error)

	// Middlewares run in registration order once the scope is open.
	Middlewares []Middleware
}

// Option configures ScopeMiddleware.
type Option func(*Config)

// WithErrorHandler replaces the default error response.
func WithErrorHandler(h func(w http.ResponseWriter, r *http.Request, err error)) Option {
	return func(c *Config) { c.ErrorHandler = h }
}

// WithMiddleware appends a scope middleware.
func WithMiddleware(m Middleware) Option {
	return func(c *Config) { c.Middlewares = append(c.Middlewares, m) }
}

func defaultConfig() *Config {
	return &Config{
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			slog.Error("opening request scope",
				"error", err,
				"method", r.Method,
				"path", r.URL.Path,
			)
			w.WriteHeader(http.StatusInternalServerError)
		},
	}
}

// ScopeMiddleware returns middleware that opens a service scope for
// each request and attaches it to the request context, where FromContext
// and Handle find it. The provider must carry at least one scoped
// registration; otherwise every request fails through the error handler.
//
// Scopes need no teardown: when the request ends and the last reference
// goes away, the scope's services go with it.
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

			for _, m := range cfg.Middlewares {
				if err := m(scope, r); err != nil {
					cfg.ErrorHandler(w, r, err)
					return
				}
			}

			next.ServeHTTP(w, r.WithContext(inject.NewContext(r.Context(), scope)))
		})
	}
}

// HandlerConfig controls Handle.
type HandlerConfig struct {
	// ScopeErrorHandler responds when no scope is present in the
	// request context. The default logs the error and writes a 500.
	ScopeErrorHandler func(w http.ResponseWriter, r *http.Request, err error)

	// ResolutionErrorHandler responds when the controller cannot be
	// resolved. The default logs the error and writes a 500.
	ResolutionErrorHandler func(w http.ResponseWriter, r *http.Request, err error)

	// PanicRecovery recovers panics from the controller method and
	// routes them to PanicHandler. Disabled by default.
	PanicRecovery bool

	// PanicHandler responds to a recovered panic. The default logs the
	// value and writes a 500.
	PanicHandler func(w http.ResponseWriter, r *http.Request, v any)
}

// HandlerOption configures Handle.
type HandlerOption func(*HandlerConfig)

// WithScopeErrorHandler replaces the missing-scope response.
func WithScopeErrorHandler(h func(w http.ResponseWriter, r *http.Request, err error)) HandlerOption {
	return func(c *HandlerConfig) { c.ScopeErrorHandler = h }
}

// WithResolutionErrorHandler replaces the failed-resolution response.
func WithResolutionErrorHandler(h func(w http.ResponseWriter, r *http.Request, err error)) HandlerOption {
	return func(c *HandlerConfig) { c.ResolutionErrorHandler = h }
}

// WithPanicRecovery toggles panic recovery around the controller method.
func WithPanicRecovery(enabled bool) HandlerOption {
	return func(c *HandlerConfig) { c.PanicRecovery = enabled }
}

// WithPanicHandler replaces the recovered-panic response.
func WithPanicHandler(h func(w http.ResponseWriter, r *http.Request, v any)) HandlerOption {
	return func(c *HandlerConfig) { c.PanicHandler = h }
}

func defaultHandlerConfig() *HandlerConfig {
	return &HandlerConfig{
		ScopeErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			slog.Error("no scope in request context",
				"error", err,
				"method", r.Method,
				"path", r.URL.Path,
			)
			w.WriteHeader(http.StatusInternalServerError)
		},
		ResolutionErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			slog.Error("resolving request controller",
				"error", err,
				"method", r.Method,
				"path", r.URL.Path,
			)
			w.WriteHeader(http.StatusInternalServerError)
		},
		PanicHandler: func(w http.ResponseWriter, r *http.Request, v any) {
			slog.Error("recovered panic in request handler",
				"value", v,
				"method", r.Method,
				"path", r.URL.Path,
			)
			w.WriteHeader(http.StatusInternalServerError)
		},
	}
}

// Handle adapts a controller method into an http.HandlerFunc. The
// controller resolves from the request scope on every call, so scoped
// controllers see their request's services:
//
//	mux.HandleFunc("/users", httpinject.Handle((*UserController).List))
//
// The request must have passed through ScopeMiddleware first.
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

		ctrl, err := inject.Resolve[T](scope)
		if err != nil {
			cfg.ResolutionErrorHandler(w, r, err)
			return
		}

		method(ctrl, w, r)
	}
}
