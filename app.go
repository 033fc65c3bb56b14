// Package minissr serves server-side rendered pages: every request runs a
// component to build an element tree, renders the tree to markup, and
// answers with the template document the markup was mounted into.
package minissr

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/rafbgarcia/minissr/element"
	"github.com/rafbgarcia/minissr/renderer"
	"github.com/rafbgarcia/minissr/router"
)

// Component builds the element tree for one request.
type Component func(ctx *Context) element.Node

// App answers every request, whatever its path or method, with the
// rendered page.
type App struct {
	view     Component
	renderer *renderer.Renderer
	log      *Logger
	metrics  *Metrics
	router   *router.Router
}

// AppOption configures an App.
type AppOption func(*App)

// WithLogger sets the logger. The default is NewLogger.
func WithLogger(l *Logger) AppOption {
	return func(a *App) { a.log = l }
}

// WithMetrics records request and render metrics into m.
func WithMetrics(m *Metrics) AppOption {
	return func(a *App) { a.metrics = m }
}

// NewApp creates an App rendering view with r. A nil r uses the built-in
// template.
func NewApp(view Component, r *renderer.Renderer, opts ...AppOption) *App {
	if r == nil {
		r = renderer.New(nil)
	}
	a := &App{
		view:     view,
		renderer: r,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.log == nil {
		a.log = NewLogger()
	}
	if a.metrics == nil {
		a.metrics = NewMetrics()
	}

	a.router = router.New(
		middleware.RequestID,
		RequestLogger(a.log),
		a.metrics.Middleware(),
		middleware.Recoverer,
	)
	a.router.CatchAll(http.HandlerFunc(a.servePage))
	return a
}

// Metrics returns the collectors the App records into.
func (a *App) Metrics() *Metrics {
	return a.metrics
}

// ServeHTTP implements http.Handler.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.router.ServeHTTP(w, r)
}

func (a *App) servePage(w http.ResponseWriter, r *http.Request) {
	ctx := NewContext(r, a.log)

	var root element.Node
	if a.view != nil {
		root = a.view(ctx)
	}

	start := time.Now()
	page, err := a.renderer.Render(r.Context(), root)
	a.metrics.RenderDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		var tplErr *renderer.TemplateError
		if errors.As(err, &tplErr) {
			a.metrics.TemplateErrors.Inc()
			ctx.Log.Error("template retrieval failed", "error", err)
		} else {
			a.metrics.RenderErrors.Inc()
			ctx.Log.Error("render failed", "error", err)
		}
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := io.WriteString(w, page); err != nil {
		ctx.Log.Warn("write response", "error", err)
	}
}
