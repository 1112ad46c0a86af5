// package server contains the router, middleware & handlers for the local print preview server
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// Middleware wraps an http.Handler and returns a new http.Handler with additional behavior.
type Middleware func(http.Handler) http.Handler

// Handler is implemented by components that own a set of routes.
type Handler interface {
	Routes() []Route
}

const shutdownTimeout = 5 * time.Second

// PreviewServer is a short-lived HTTP server bound to a local address.
type PreviewServer struct {
	addr     string
	handler  http.Handler
	logger   *log.Logger
	mu       sync.Mutex
	listener net.Listener
	srv      *http.Server
	errs     chan error
}

// NewPreviewServer creates a server for handler on addr. Port 0 picks a free port on [PreviewServer.Start].
func NewPreviewServer(addr string, handler http.Handler, logger *log.Logger) *PreviewServer {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &PreviewServer{addr: addr, handler: handler, logger: logger, errs: make(chan error, 1)}
}

// Start binds the listener and serves in the background.
func (s *PreviewServer) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.srv != nil {
		return fmt.Errorf("server already started on %s", s.listener.Addr())
	}

	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.addr, err)
	}

	s.listener = ln
	s.srv = &http.Server{Handler: s.handler, ReadHeaderTimeout: 10 * time.Second}

	go func() {
		s.logger.Info("preview server listening", "addr", ln.Addr().String())
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.errs <- err
		}
	}()
	return nil
}

// URL returns the base URL of the running server, or an empty string before [PreviewServer.Start].
func (s *PreviewServer) URL() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return ""
	}
	return "http://" + s.listener.Addr().String()
}

// Errors receives a serve failure, if one happens.
func (s *PreviewServer) Errors() <-chan error {
	return s.errs
}

// Shutdown stops the server, waiting up to five seconds for open requests.
func (s *PreviewServer) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	srv := s.srv
	s.mu.Unlock()
	if srv == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shut down preview server: %w", err)
	}
	return nil
}
