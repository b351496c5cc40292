package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"
)

const (
	defaultAddr            = ":8080"
	defaultReadTimeout     = 10 * time.Second
	defaultWriteTimeout    = 10 * time.Second
	defaultIdleTimeout     = 60 * time.Second
	defaultShutdownTimeout = 10 * time.Second
)

type HTTPServer interface {
	Run() error
	Shutdown() error
}

type Option func(s *httpServer)

func WithAddr(host string, port uint16) Option {
	return func(s *httpServer) {
		s.srv.Addr = fmt.Sprintf("%s:%d", host, port)
	}
}

func WithTimeout(read, write, idle time.Duration) Option {
	return func(s *httpServer) {
		s.srv.ReadTimeout = read
		s.srv.WriteTimeout = write
		s.srv.IdleTimeout = idle
	}
}

func WithHandler(handler http.Handler) Option {
	return func(s *httpServer) {
		s.srv.Handler = handler
	}
}

type httpServer struct {
	srv             *http.Server
	shutdownTimeout time.Duration
}

func NewHTTPServer(opts ...Option) HTTPServer {
	s := &httpServer{
		srv: &http.Server{
			Addr:         defaultAddr,
			ReadTimeout:  defaultReadTimeout,
			WriteTimeout: defaultWriteTimeout,
			IdleTimeout:  defaultIdleTimeout,
		},
		shutdownTimeout: defaultShutdownTimeout,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

func (s *httpServer) Run() error {
	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

func (s *httpServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()

	return s.srv.Shutdown(ctx)
}
