package server

import "net/http"

// Route binds an HTTP method and a [http.ServeMux] path pattern to a handler.
type Route struct {
	Method  string
	Path    string
	Handler http.Handler
}

// Pattern returns the method-qualified mux pattern, e.g. "GET /print/{id}". An empty method matches any.
func (rt Route) Pattern() string {
	if rt.Method == "" {
		return rt.Path
	}
	return rt.Method + " " + rt.Path
}

// BasicRouter dispatches preview requests through method patterns on an [http.ServeMux]. A request whose path
// matches but whose method does not gets a 405 with an Allow header from the mux.
type BasicRouter struct {
	mux         *http.ServeMux
	middlewares []Middleware
}

// NewBasicRouter creates an empty [BasicRouter].
func NewBasicRouter() *BasicRouter {
	return &BasicRouter{mux: http.NewServeMux()}
}

// Use appends middleware. The first added runs outermost. Routes registered earlier are not rewrapped.
func (r *BasicRouter) Use(middleware ...Middleware) {
	r.middlewares = append(r.middlewares, middleware...)
}

// Handle registers rt wrapped in the current middleware stack.
func (r *BasicRouter) Handle(rt Route) {
	r.mux.Handle(rt.Pattern(), r.apply(rt.Handler))
}

// Mount registers every route h exposes.
func (r *BasicRouter) Mount(h Handler) {
	for _, rt := range h.Routes() {
		r.Handle(rt)
	}
}

// ServeHTTP implements [http.Handler].
func (r *BasicRouter) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

func (r *BasicRouter) apply(h http.Handler) http.Handler {
	for i := len(r.middlewares) - 1; i >= 0; i-- {
		h = r.middlewares[i](h)
	}
	return h
}
