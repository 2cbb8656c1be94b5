// server.go

package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mkraiem/facture-saas/internal/config"
)

// ShutdownMarker flips readiness off so load balancers stop routing
// new traffic before in-flight requests drain.
type ShutdownMarker interface {
	MarkShutdown()
}

type Config struct {
	ServerConfig  config.ServerConfig
	HealthHandler ShutdownMarker
	Logger        *slog.Logger
}

type Server struct {
	httpServer *http.Server
	router     chi.Router
	health     ShutdownMarker
	logger     *slog.Logger
}

func New(cfg Config) *Server {
	router := chi.NewRouter()

	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.ServerConfig.Host, cfg.ServerConfig.Port),
		Handler:      router,
		ReadTimeout:  cfg.ServerConfig.ReadTimeout,
		WriteTimeout: cfg.ServerConfig.WriteTimeout,
		IdleTimeout:  cfg.ServerConfig.IdleTimeout,
	}

	return &Server{
		httpServer: httpServer,
		router:     router,
		health:     cfg.HealthHandler,
		logger:     cfg.Logger,
	}
}

func (s *Server) Router() chi.Router {
	return s.router
}

func (s *Server) Start() error {
	s.logger.Info("http server listening", "addr", s.httpServer.Addr)

	if err := s.httpServer.ListenAndServe(); err != nil &&
		!errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// Shutdown marks the server not ready, waits drainDelay for load
// balancers to notice, then drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context, drainDelay time.Duration) error {
	if s.health != nil {
		s.health.MarkShutdown()
	}

	s.logger.Info("draining connections", "delay", drainDelay)
	select {
	case <-time.After(drainDelay):
	case <-ctx.Done():
	}

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	return nil
}
