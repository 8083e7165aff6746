// Package server owns the HTTP listener lifecycle: startup, signal handling
// and graceful shutdown.
package server

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/omnisession/omnisession-server/internal/config"
	"github.com/omnisession/omnisession-server/internal/logger"
)

type Server interface {
	RunServer()
	Shutdown()
}

type server struct {
	httpServer *httpServer
	logger     *logger.Logger
}

func NewServer(router http.Handler, cfg config.Server, logger *logger.Logger) Server {
	logger.Info().Str("address", cfg.Address).Msg("creating new server...")

	return &server{
		httpServer: newHTTPServer(router, cfg, logger),
		logger:     logger,
	}
}

func (s *server) RunServer() {
	if err := s.run(); err != nil {
		s.logger.Info().Msgf("Error running server: %v \n", err)
	}
}

func (s *server) Shutdown() {
	s.httpServer.Shutdown()
}

func (s *server) run() error {
	idleConnectionsClosed := make(chan struct{})
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGTERM,
		syscall.SIGINT,
		syscall.SIGQUIT,
	)
	defer stop()

	// listen for stop signals
	go func() {
		<-ctx.Done()

		s.Shutdown()

		close(idleConnectionsClosed)
	}()

	s.logger.Info().Msg("Launching HTTP server")
	go s.httpServer.RunServer()

	<-idleConnectionsClosed
	s.logger.Info().Msg("server Shutdown gracefully")

	return nil
}
