// package server contains the loopback HTTP pieces of the authorization flow
package server

import (
	"net/http"
)

// Handler ties an [http.Handler] to the route patterns it serves, so the
// auth flow can register it without repeating the paths.
type Handler interface {
	http.Handler
	Routes() []string // Routes returns the path patterns this handler serves
}

// BasicRouter registers [Handler] implementations on an [http.ServeMux].
//
// The loopback flow serves one handler on a short-lived server, so there
// is no middleware stack or per-method dispatch.
type BasicRouter struct {
	mux *http.ServeMux
}

// NewBasicRouter creates a new [BasicRouter] instance.
func NewBasicRouter() *BasicRouter {
	return &BasicRouter{mux: http.NewServeMux()}
}

// Handler registers a handler under every route it reports.
func (r *BasicRouter) Handler(handler Handler) {
	for _, route := range handler.Routes() {
		r.mux.Handle(route, handler)
	}
}

// ServeHTTP implements [http.Handler] for the entire router.
func (r *BasicRouter) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}
