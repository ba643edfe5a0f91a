package web

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/goliatone/go-protocol-registry/cache"
)

type Server struct {
	log    cache.Logger
	server *http.Server
}

func NewServer(addr string, handler http.Handler, logger cache.Logger) *Server {
	if logger == nil {
		logger = cache.NopLogger{}
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		MaxHeaderBytes:    1 << 20,
		ReadHeaderTimeout: 2 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return &Server{server: srv, log: logger}
}

// Run serves until Close is called. It returns nil after a graceful shutdown.
func (s *Server) Run() error {
	s.log.Info("http server started", cache.Fields{"addr": s.server.Addr})
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Close(ctx context.Context) error {
	if err := s.server.Shutdown(ctx); err != nil {
		s.log.Warn("http server forced to shutdown", cache.Fields{"error": err.Error()})
		return err
	}
	s.log.Info("http server stopped", nil)
	return nil
}
