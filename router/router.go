// Package router provides the HTTP router used by the minissr listener.
// It wraps chi, bridges chi URL params to Go's Request.PathValue(), and
// can send every path and method to a single handler.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Router is the HTTP router for minissr applications.
type Router struct {
	mux chi.Router
}

// New creates a Router with the PathValue bridge middleware applied.
// Middlewares run before the bridge, in the order given.
func New(middlewares ...func(http.Handler) http.Handler) *Router {
	mux := chi.NewRouter()
	mux.Use(middlewares...)

	mux.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			if rctx := chi.RouteContext(req.Context()); rctx != nil {
				for i, key := range rctx.URLParams.Keys {
					req.SetPathValue(key, rctx.URLParams.Values[i])
				}
			}
			next.ServeHTTP(w, req)
		})
	})

	return &Router{mux: mux}
}

// Get registers a handler for GET requests at the given pattern.
func (r *Router) Get(pattern string, handler http.HandlerFunc) {
	r.mux.Get(pattern, handler)
}

// Handle registers an http.Handler at the given pattern.
func (r *Router) Handle(pattern string, handler http.Handler) {
	r.mux.Handle(pattern, handler)
}

// CatchAll sends every request, whatever its path or method, to handler.
func (r *Router) CatchAll(handler http.Handler) {
	r.mux.Handle("/*", handler)
	r.mux.NotFound(handler.ServeHTTP)
	r.mux.MethodNotAllowed(handler.ServeHTTP)
}

// ServeHTTP implements http.Handler.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}
