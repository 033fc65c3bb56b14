package minissr

import (
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
)

// Context is the request-scoped context passed to components.
// It provides access to the request and a logger tagged with the request id.
type Context struct {
	Log       *Logger
	Request   *http.Request
	RequestID string
}

// NewContext creates a new Context for the given HTTP request. A nil log
// falls back to NewLogger.
func NewContext(r *http.Request, log *Logger) *Context {
	if log == nil {
		log = NewLogger()
	}
	id := middleware.GetReqID(r.Context())
	if id != "" {
		log = log.With("request_id", id)
	}
	return &Context{
		Log:       log,
		Request:   r,
		RequestID: id,
	}
}
