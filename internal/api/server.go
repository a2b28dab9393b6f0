// Package api serves boards over HTTP.
//
// Every write goes through a [dispatch.Dispatcher], so concurrent requests
// for one board are applied one after another. Mutating endpoints respond
// with the resulting board and whether it changed:
//
//	{"changed": true, "board": {...}}
//
// Errors are JSON objects with a machine-readable code:
//
//	{"code": "BOARD_FULL", "message": "no free slot in layout \"lg\""}
package api

import (
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/gridboard/pkg/board"
	"github.com/matzehuels/gridboard/pkg/dispatch"
	"github.com/matzehuels/gridboard/pkg/ops"
)

// maxBodyBytes caps request bodies, including board imports.
const maxBodyBytes = 4 << 20

// Server holds the dependencies of the HTTP handlers.
type Server struct {
	dispatcher    *dispatch.Dispatcher
	engine        *ops.Engine
	ids           board.IDGenerator
	logger        *log.Logger
	defaultLayout board.Layout
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request logger. The default is log.Default().
func WithLogger(l *log.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithEngine sets the ops engine used for transforms that create elements.
func WithEngine(e *ops.Engine) Option {
	return func(s *Server) { s.engine = e }
}

// WithIDGenerator sets the generator for new board and layout IDs, and for
// IDs assigned on import.
func WithIDGenerator(g board.IDGenerator) Option {
	return func(s *Server) { s.ids = g }
}

// WithDefaultLayout sets the layout of boards created without one.
func WithDefaultLayout(l board.Layout) Option {
	return func(s *Server) { s.defaultLayout = l }
}

// NewServer creates a Server over d.
func NewServer(d *dispatch.Dispatcher, opts ...Option) *Server {
	s := &Server{
		dispatcher: d,
		defaultLayout: board.Layout{
			Name:        board.DefaultLayoutName,
			ColumnCount: board.DefaultColumnCount,
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.ids == nil {
		s.ids = board.UUIDGenerator{}
	}
	if s.engine == nil {
		s.engine = ops.NewEngine(ops.WithIDGenerator(s.ids))
	}
	if s.logger == nil {
		s.logger = log.Default()
	}
	return s
}

// Handler returns the router with all routes and middleware.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)

	r.Route("/boards", func(r chi.Router) {
		r.Get("/", s.handleListBoards)
		r.Post("/", s.handleCreateBoard)
		r.Post("/import", s.handleImportBoard)

		r.Route("/{boardID}", func(r chi.Router) {
			r.Get("/", s.handleGetBoard)
			r.Delete("/", s.handleDeleteBoard)
			r.Get("/export", s.handleExportBoard)
			r.Get("/diagram", s.handleDiagram)
			r.Get("/events", s.handleEvents)

			r.Post("/items", s.handleCreateItem)
			r.Route("/items/{itemID}", func(r chi.Router) {
				r.Post("/duplicate", s.handleDuplicateItem)
				r.Put("/placement", s.handleMoveItem)
				r.Patch("/", s.handleUpdateItem)
				r.Delete("/", s.handleRemoveItem)
			})

			r.Post("/categories", s.handleAddCategory)
			r.Route("/categories/{sectionID}", func(r chi.Router) {
				r.Post("/move", s.handleMoveCategory)
				r.Patch("/", s.handleUpdateCategory)
				r.Delete("/", s.handleRemoveCategory)
			})

			r.Post("/sections/dynamic", s.handleAddDynamicSection)
			r.Delete("/sections/dynamic/{sectionID}", s.handleRemoveDynamicSection)

			r.Post("/layouts", s.handleAddLayout)
			r.Delete("/layouts/{layoutID}", s.handleRemoveLayout)
		})
	})

	return r
}

// requestLogger logs one line per request at debug level, and at warn level
// for server errors.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		kv := []any{
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"duration", time.Since(start).Round(time.Microsecond),
			"request_id", middleware.GetReqID(r.Context()),
		}
		if status >= http.StatusInternalServerError {
			s.logger.Warn("request failed", kv...)
			return
		}
		s.logger.Debug("request", kv...)
	})
}
