package httpapi

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// Server runs the HTTP listener.
type Server struct {
	log zerolog.Logger
	srv *http.Server
}

// NewServer creates a server for handler.
func NewServer(handler http.Handler, log zerolog.Logger) *Server {
	return &Server{
		log: log,
		srv: &http.Server{
			Handler:           handler,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       10 * time.Second,
			WriteTimeout:      10 * time.Second,
			IdleTimeout:       60 * time.Second,
			MaxHeaderBytes:    1 << 16,
		},
	}
}

// Listen listens on addr and serves until Close is called.
func (s *Server) Listen(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ln)
}

// Serve serves on ln until Close is called. After Close it closes ln and
// returns nil straight away.
func (s *Server) Serve(ln net.Listener) error {
	s.log.Info().Str("addr", ln.Addr().String()).Msg("HTTP listening")
	err := s.srv.Serve(ln)
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Close attempts a graceful shutdown of the HTTP server. It may be called
// before Serve.
func (s *Server) Close(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
