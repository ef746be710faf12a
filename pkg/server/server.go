package server

import (
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/centrosocial/centro-api/pkg/api"
	"github.com/centrosocial/centro-api/pkg/domain"
	"github.com/centrosocial/centro-api/pkg/events"
	"github.com/centrosocial/centro-api/pkg/jobs"
)

// Server assembles the router from its injected collaborators: the storage
// engine, the notifier, the event bus and the job runner.
type Server struct {
	router  *mux.Router
	storage domain.StorageEngine
}

// New creates a new instance of Server
func New(storage domain.StorageEngine, notifier api.Notifier, bus events.Bus, jobRunner *jobs.Service) *Server {
	s := &Server{
		router:  mux.NewRouter(),
		storage: storage,
	}

	// CRUD endpoints
	api.NewHandler(storage, notifier, bus).RegisterRoutes(s.router)

	// Job runner introspection/execution endpoints
	if jobRunner != nil {
		jobRunner.RegisterRoutes(s.router.PathPrefix("/api/jobs").Subrouter())
	}

	// Use the logging middleware for all routes
	s.router.Use(requestLoggerMiddleware)

	// Customize NotFoundHandler to log 404s
	s.router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.Printf("WARN: No route found for %s %s", r.Method, r.URL.Path)
		http.NotFound(w, r)
	})

	return s
}

// requestLoggerMiddleware logs the method, URL path, and duration for each request.
func requestLoggerMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		elapsed := time.Since(start)
		log.Printf("INFO: Request %s %s took %s", r.Method, r.URL.Path, elapsed)
	})
}

// InitDB loads the snapshot file. Startup cannot proceed without the data
// layer, so a load failure is returned for the caller to treat as fatal.
func (s *Server) InitDB(filename string) error {
	if err := s.storage.LoadFromFile(filename); err != nil {
		return err
	}
	log.Printf("INFO: Loaded data from file %s successfully", filename)
	return nil
}

// SaveDB saves the current database state to file
func (s *Server) SaveDB(filename string) {
	if err := s.storage.SaveToFile(filename); err != nil {
		log.Printf("ERROR: Could not save data to file %s: %v", filename, err)
	} else {
		log.Printf("INFO: Saved data to file %s successfully", filename)
	}
}

// Router exposes the internal mux.Router.
func (s *Server) Router() http.Handler {
	return s.router
}
