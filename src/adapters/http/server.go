package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"orghierarchy/src/domain"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
)

type Querier interface {
	SnapshotID() string
	Query(ctx context.Context, request domain.QueryRequest, backend domain.Backend) (*domain.QueryResult, error)
}

type Comparer interface {
	Compare(ctx context.Context, request domain.QueryRequest, left, right domain.Backend) (*domain.Comparison, error)
}

// Server representa o servidor HTTP da API
type Server struct {
	logger         *slog.Logger
	server         *http.Server
	router         chi.Router
	port           int
	querier        Querier
	comparer       Comparer
	defaultBackend domain.Backend
	validate       *validator.Validate
}

// NewServer cria uma nova instância do servidor. metricsHandler pode ser nil.
func NewServer(
	logger *slog.Logger,
	port int,
	querier Querier,
	comparer Comparer,
	defaultBackend domain.Backend,
	metricsHandler http.Handler,
) *Server {
	server := &Server{
		router:         chi.NewRouter(),
		port:           port,
		logger:         logger,
		querier:        querier,
		comparer:       comparer,
		defaultBackend: defaultBackend,
		validate:       validator.New(validator.WithRequiredStructEnabled()),
	}

	server.router.Use(middleware.RequestID)
	server.router.Use(middleware.RealIP)
	server.router.Use(server.requestLogger)
	server.router.Use(middleware.Recoverer)

	server.router.Get("/health", server.HealthCheck)
	if metricsHandler != nil {
		server.router.Handle("/metrics", metricsHandler)
	}

	// Rotas de Leitura
	server.router.Route("/v1", func(r chi.Router) {
		r.Get("/employees/{id}/ancestors", server.GetAncestors)
		r.Get("/employees/{id}/descendants", server.GetDescendants)
		r.Get("/departments/{id}/members", server.GetDepartmentMembers)
		r.Get("/company/employees", server.GetCompanyEmployees)
		r.Post("/compare", server.Compare)
	})

	server.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      server.router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	return server
}

// Handler expõe o roteador, usado com httptest.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start inicia o servidor HTTP
func (s *Server) Start() error {
	s.logger.Info("Server started", "port", s.port)

	return s.server.ListenAndServe()
}

// Shutdown encerra o servidor HTTP de forma graciosa
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down server...")
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		s.logger.Debug("HTTP request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()))
	})
}

func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(s.logger, w, http.StatusOK, HealthDTO{Status: "ok", SnapshotID: s.querier.SnapshotID()})
}
