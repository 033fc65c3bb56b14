package minissr

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the collectors an App records into, on a registry owned by
// the App.
type Metrics struct {
	registry *prometheus.Registry

	Requests       *prometheus.CounterVec
	RenderDuration prometheus.Histogram
	TemplateErrors prometheus.Counter
	RenderErrors   prometheus.Counter
}

// NewMetrics creates and registers the minissr collectors along with the
// Go runtime and process collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		Requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "minissr_requests_total",
				Help: "Total number of page requests by status code",
			},
			[]string{"code"},
		),
		RenderDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "minissr_render_duration_seconds",
			Help:    "Time spent rendering a page, template load included",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
		}),
		TemplateErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "minissr_template_errors_total",
			Help: "Total number of failed template loads",
		}),
		RenderErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "minissr_render_errors_total",
			Help: "Total number of element trees that failed to render",
		}),
	}
	m.registry.MustRegister(
		m.Requests,
		m.RenderDuration,
		m.TemplateErrors,
		m.RenderErrors,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Middleware counts every response by the status it was sent with,
// including the 500 written when a panic is recovered further down the
// chain.
func (m *Metrics) Middleware() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			defer func() {
				m.Requests.WithLabelValues(strconv.Itoa(statusOf(ww))).Inc()
			}()
			next.ServeHTTP(ww, r)
		})
	}
}
