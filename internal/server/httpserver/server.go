package httpserver

import (
	"context"
	"net"
	"net/http"

	"github.com/yndnr/macpulse-go/internal/server/config"
)

// Server wraps the HTTP server with timeouts from configuration.
type Server struct {
	httpServer *http.Server
	cfg        config.HTTPConfig
	listener   net.Listener
}

// New creates a new HTTP server for the given handler.
func New(cfg config.HTTPConfig, handler http.Handler) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:         cfg.Addr,
			Handler:      handler,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		},
		cfg: cfg,
	}
}

// Listen binds the configured address without starting the accept
// loop. Binding separately lets callers surface address errors (port
// in use, bad address) synchronously before handing Serve to a
// goroutine.
func (s *Server) Listen() error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return err
	}
	s.listener = ln
	return nil
}

// Serve runs the accept loop on the listener bound by Listen. It picks
// HTTPS when a TLS pair is configured, plain HTTP otherwise, and
// blocks until the listener closes. Without a prior Listen it binds
// itself.
func (s *Server) Serve() error {
	if s.listener == nil {
		return s.ListenAndServe()
	}
	if s.cfg.TLSCertFile != "" && s.cfg.TLSKeyFile != "" {
		return s.httpServer.ServeTLS(s.listener, s.cfg.TLSCertFile, s.cfg.TLSKeyFile)
	}
	return s.httpServer.Serve(s.listener)
}

// ListenAndServe binds and serves in one call. It picks HTTPS when a
// TLS pair is configured, plain HTTP otherwise, and blocks until the
// listener closes.
func (s *Server) ListenAndServe() error {
	if s.cfg.TLSCertFile != "" && s.cfg.TLSKeyFile != "" {
		return s.httpServer.ListenAndServeTLS(s.cfg.TLSCertFile, s.cfg.TLSKeyFile)
	}
	return s.httpServer.ListenAndServe()
}

// Addr returns the bound listener address, or the configured address
// when nothing is bound yet. With a configured port of 0 this is the
// only way to learn the real port.
func (s *Server) Addr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.cfg.Addr
}

// Shutdown gracefully drains in-flight requests. The supplied context
// bounds the drain; callers usually derive it from the configured
// shutdown timeout.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// Close stops the server immediately without draining. A listener
// bound by Listen but never served is closed too.
func (s *Server) Close() error {
	if s.listener != nil {
		// Serve may already have closed it; the double close is harmless.
		s.listener.Close()
	}
	return s.httpServer.Close()
}
