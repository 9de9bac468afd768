package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/STTM-NSU/currency-transformer/internal/config"
	"github.com/STTM-NSU/currency-transformer/internal/logger"
)

type HTTPServer struct {
	s      *http.Server
	cfg    config.ServerConfig
	logger logger.Logger
}

// NewHTTPServer builds the server. Request contexts inherit values from ctx but
// not its cancellation, so shutdown lets in-flight conversions finish.
func NewHTTPServer(ctx context.Context, cfg config.ServerConfig, handler http.Handler, logger logger.Logger) *HTTPServer {
	baseCtx := context.WithoutCancel(ctx)
	return &HTTPServer{
		s: &http.Server{
			Handler:           handler,
			Addr:              ":" + cfg.Port,
			ReadHeaderTimeout: cfg.ReadHeaderTimeout,
			BaseContext: func(listener net.Listener) context.Context {
				return baseCtx
			},
		},
		cfg:    cfg,
		logger: logger,
	}
}

func (s *HTTPServer) Start() error {
	return s.s.ListenAndServe()
}

// Shutdown stops accepting connections and waits for in-flight requests.
func (s *HTTPServer) Shutdown(ctx context.Context) error {
	return s.s.Shutdown(ctx)
}

// Run serves until ctx is done, then drains in-flight requests for at most
// ShutdownTimeout.
func (s *HTTPServer) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Infof("listening on %s", s.s.Addr)
		errCh <- s.Start()
	}()

	select {
	case <-ctx.Done():
		s.logger.Infoln("start graceful shutdown")
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.ShutdownTimeout)
		defer cancel()
		if err := s.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("%w: can't shutdown server", err)
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
