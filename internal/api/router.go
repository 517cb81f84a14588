package api

import (
	"database/sql"
	"net/http"
	"slices"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"github.com/erazemk/retailapi/internal/db"
)

// Options configures the API router.
type Options struct {
	// TokenSecret enables bearer-token protection of mutating routes when set.
	TokenSecret string
}

// connHandlerFunc handles a request on a connection acquired for it. A
// returned error is written by the router; the handler must not have written
// a response in that case.
type connHandlerFunc func(w http.ResponseWriter, r *http.Request, conn *sql.Conn) error

type router struct {
	gateway *db.Gateway
}

// NewRouter creates the API router with all endpoints registered.
func NewRouter(gateway *db.Gateway, opts Options) http.Handler {
	mux := http.NewServeMux()
	rt := &router{gateway: gateway}

	v := newValidator()
	itemsHandler := &ItemsHandler{Validate: v}
	ordersHandler := &OrdersHandler{Validate: v}

	write := func(h http.Handler) http.Handler { return h }
	if opts.TokenSecret != "" {
		write = RequireToken(opts.TokenSecret)
	}

	allowed := map[string][]string{}
	var paths []string
	handle := func(method, path string, h http.Handler) {
		if _, ok := allowed[path]; !ok {
			paths = append(paths, path)
		}
		allowed[path] = append(allowed[path], method)
		mux.Handle(method+" "+path, h)
	}

	// Items.
	handle(http.MethodGet, "/items", rt.route(itemsHandler.List))
	handle(http.MethodPost, "/items", write(rt.route(itemsHandler.Create)))
	handle(http.MethodGet, "/items/{id}", rt.route(itemsHandler.Get))
	handle(http.MethodPut, "/items/{id}", write(rt.route(itemsHandler.Update)))
	handle(http.MethodDelete, "/items/{id}", write(rt.route(itemsHandler.Delete)))

	// Orders.
	handle(http.MethodGet, "/orders", rt.route(ordersHandler.List))
	handle(http.MethodPost, "/orders", write(rt.route(ordersHandler.Create)))
	handle(http.MethodGet, "/orders/{id}", rt.route(ordersHandler.Get))
	handle(http.MethodPut, "/orders/{id}/status", write(rt.route(ordersHandler.UpdateStatus)))

	// API description.
	handle(http.MethodGet, "/openapi.yaml", http.HandlerFunc(serveOpenAPIYAML))
	handle(http.MethodGet, "/openapi.json", http.HandlerFunc(serveOpenAPIJSON))
	handle(http.MethodGet, "/docs", http.HandlerFunc(serveDocs))

	// Method-less patterns catch what the routes above do not, so every
	// response stays JSON.
	for _, path := range paths {
		mux.Handle(path, methodNotAllowed(allowed[path]))
	}
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		jsonError(w, http.StatusNotFound, "not found")
	})

	return mux
}

// methodNotAllowed answers a known path requested with an unsupported method.
func methodNotAllowed(methods []string) http.Handler {
	allow := slices.Clone(methods)
	if slices.Contains(allow, http.MethodGet) {
		allow = append(allow, http.MethodHead)
	}
	header := strings.Join(allow, ", ")
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Allow", header)
		jsonError(w, http.StatusMethodNotAllowed, "method not allowed")
	})
}

// route acquires a connection for the request, runs h on it inside a span
// and writes any returned error.
func (rt *router) route(h connHandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r, span := startSpan(r)
		if claims := GetClaims(r.Context()); claims != nil {
			span.SetAttributes(attribute.String("enduser.id", claims.Subject))
		}

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		err := rt.gateway.Acquire(r.Context(), func(conn *sql.Conn) error {
			return h(rec, r, conn)
		})
		if err != nil {
			writeError(rec, r, err)
		}
		endSpan(span, rec.status, err)
	})
}
