// package server contains middleware & handlers for the playlist storage service
package server

import (
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/moodmix/internal/models"
)

// Middleware wraps an http.Handler and returns a new http.Handler with additional behavior.
type Middleware func(http.Handler) http.Handler

// Handler defines the interface for HTTP request handlers in the storage service.
// Implementations handle a resource and every route it is reachable under.
type Handler interface {
	http.Handler      // ServeHTTP handles the HTTP request and writes the response
	Routes() []string // Routes returns the path patterns this handler serves
}

// Router defines the interface for HTTP routing and middleware management.
type Router interface {
	Use(middleware ...Middleware)                     // Use adds middleware to the router's middleware stack
	Handle(method, path string, handler http.Handler) // Handle registers a handler for the specified method and path
	Handler(handler Handler)                          // Handler registers a custom Handler implementation
	ServeHTTP(w http.ResponseWriter, r *http.Request) // ServeHTTP implements http.Handler for the entire router
}

// NewRouter builds the storage service routes on top of repo.
//
//	POST /songs/  append an entry
//	GET  /songs/  list entries in insertion order
//	GET  /health  liveness (HEAD also accepted)
func NewRouter(repo models.Repository, logger *log.Logger) *BasicRouter {
	if logger == nil {
		logger = log.New(io.Discard)
	}

	r := NewBasicRouter()
	r.Use(RecoverMiddleware(logger), LoggingMiddleware(logger))
	r.Handler(NewSongsHandler(repo, logger))
	r.Handle(http.MethodGet, "/health", HealthHandler())
	r.Handle(http.MethodHead, "/health", HealthHandler())
	return r
}

// New creates an [http.Server] serving the storage routes on addr.
func New(addr string, repo models.Repository, logger *log.Logger) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           NewRouter(repo, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}
}
