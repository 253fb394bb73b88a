package web

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"telegram-job-applier/internal/config"
	"telegram-job-applier/internal/infra/metrics"
	"telegram-job-applier/internal/usecase"
)

// Server exposes the admin API: application inspection, cancellation and
// operational endpoints (health, metrics).
type Server struct {
	appUC  usecase.ApplicationUseCase
	userUC usecase.UserUseCase
	auth   *AuthManager
	cfg    *config.AdminConfig
	log    *zerolog.Logger

	httpServer *http.Server
}

func NewServer(appUC usecase.ApplicationUseCase, userUC usecase.UserUseCase, cfg *config.AdminConfig, logger *zerolog.Logger) *Server {
	metrics.MustRegister()
	return &Server{
		appUC:  appUC,
		userUC: userUC,
		auth:   NewAuthManager(cfg.JWTSecret, false, 30*time.Minute),
		cfg:    cfg,
		log:    logger,
	}
}

// Router builds the chi router. Split out so tests can drive it with httptest.
func (s *Server) Router() *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/admin/auth/login", s.handleAdminLogin)
		r.Post("/admin/auth/logout", s.handleAdminLogout)

		r.Group(func(r chi.Router) {
			r.Use(s.authMiddleware)
			r.Get("/applications/{id}", s.handleGetApplication)
			r.Get("/applications/{id}/history", s.handleGetHistory)
			r.Post("/applications/{id}/cancel", s.handleCancelApplication)
			r.Get("/users/{userID}/applications", s.handleListApplications)
		})
	})
	return r
}

func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:    fmt.Sprintf(":%d", s.cfg.Port),
		Handler: s.Router(),
	}
	s.log.Info().Int("port", s.cfg.Port).Msg("admin HTTP server listening")
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

// authMiddleware requires a valid admin JWT on every API route.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if len(s.cfg.JWTSecret) == 0 {
			s.log.Error().Msg("admin JWT secret is not configured")
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}
		if _, err := s.auth.ParseFromRequest(r); err != nil {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}
