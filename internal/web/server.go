package web

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/vbonduro/ecoleta/internal/metrics"
	"github.com/vbonduro/ecoleta/internal/photostore"
	"github.com/vbonduro/ecoleta/internal/service"
	"github.com/vbonduro/ecoleta/internal/validate"
)

const defaultMaxUploadBytes = 10 << 20 // 10 MB

// Options configures the parts of the server that vary between deployments.
type Options struct {
	// UploadsDir holds the seeded item icons served under /uploads/.
	// Empty disables icon serving.
	UploadsDir     string
	MaxUploadBytes int64
	// CORSOrigins lists allowed browser origins; "*" allows any.
	CORSOrigins []string
}

type Server struct {
	points     *service.PointService
	items      *service.ItemService
	validator  *validate.Validator
	photoStore photostore.PhotoStore
	metrics    *metrics.Metrics
	router     chi.Router
	opts       Options
	logger     *slog.Logger
}

func NewServer(
	points *service.PointService,
	items *service.ItemService,
	ps photostore.PhotoStore,
	m *metrics.Metrics,
	opts Options,
	logger *slog.Logger,
) *Server {
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = defaultMaxUploadBytes
	}
	s := &Server{
		points:     points,
		items:      items,
		validator:  validate.New(),
		photoStore: ps,
		metrics:    m,
		router:     chi.NewRouter(),
		opts:       opts,
		logger:     logger,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	r := s.router
	r.Use(s.requestLogger, securityHeaders, corsMiddleware(s.opts.CORSOrigins))

	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", s.metrics.Handler())

	r.Get("/items", s.handleListItems)
	r.Delete("/items/{id}", s.handleDeleteItem)

	r.Route("/points", func(r chi.Router) {
		r.Get("/", s.handleListPoints)
		r.Post("/", s.handleCreatePoint)
		r.Get("/{id}", s.handleViewPoint)
		r.Put("/{id}", s.handleUpdatePoint)
		r.Delete("/{id}", s.handleDeletePoint)
	})

	r.Get("/uploads/data/{key}", s.handleGetImage)
	if s.opts.UploadsDir != "" {
		r.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(http.Dir(s.opts.UploadsDir))))
	}
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) ListenAndServe(addr string) error {
	s.logger.Info("starting server", "addr", addr)
	srv := &http.Server{
		Addr:         addr,
		Handler:      s,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	return srv.ListenAndServe()
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
