package rest

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"

	"github.com/thornfield-systems/behavior-guard/internal/infrastructure/config"
)

// Server wraps an http.Server bound to a SO_REUSEPORT listener, so multiple
// process instances can share the same port under a load balancer.
type Server struct {
	httpServer *http.Server
	cfg        *config.Config
	logger     *slog.Logger
}

func NewServer(handler http.Handler, cfg *config.Config, logger *slog.Logger) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
			Handler:      handler,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
		},
		cfg:    cfg,
		logger: logger,
	}
}

// Start listens and serves until ctx is cancelled, then shuts down
// gracefully within the configured timeout.
func (s *Server) Start(ctx context.Context) error {
	lc := net.ListenConfig{Control: reusePort}
	listener, err := lc.Listen(ctx, "tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.httpServer.Addr, err)
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", slog.String("addr", s.httpServer.Addr))
		if err := s.httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		return s.shutdown()
	}
}

func (s *Server) shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.Server.ShutdownTimeout)
	defer cancel()

	s.logger.Info("shutting down server", slog.Duration("timeout", s.cfg.Server.ShutdownTimeout))
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	return nil
}
