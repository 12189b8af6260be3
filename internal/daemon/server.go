package daemon

import (
	"context"
	"errors"
	"net/http"
	"time"

	"instagen/internal/logging"
	"instagen/internal/types"
)

// Server hosts the three remote operations over HTTP.
type Server struct {
	addr     string
	version  string
	backends Backends
	env      types.Credentials
	logger   logging.Logger
	server   *http.Server
}

func New(addr, version string, backends Backends, env types.Credentials, logger logging.Logger) *Server {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Server{
		addr:     addr,
		version:  version,
		backends: backends,
		env:      env,
		logger:   logger,
	}
}

func (s *Server) Run(ctx context.Context) error {
	api := &API{
		Version:  s.version,
		Backends: s.backends,
		Env:      s.env,
		Logger:   s.logger,
	}

	mux := http.NewServeMux()
	api.RegisterRoutes(mux)

	s.server = &http.Server{
		Addr:    s.addr,
		Handler: mux,
	}
	api.Shutdown = s.server.Shutdown

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("operations server listening", logging.F("addr", "http://"+s.addr))
		errCh <- s.server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.server.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
