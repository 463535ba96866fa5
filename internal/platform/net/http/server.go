package http

import (
	"context"
	"errors"
	stdhttp "net/http"
	"time"

	"osmwatch/internal/platform/config"
	"osmwatch/internal/platform/logger"

	"github.com/go-chi/chi/v5"
)

// drainWindow is how long Run waits for in-flight requests once its
// context is canceled
const drainWindow = 10 * time.Second

// Server couples a chi mux with the stdlib http.Server that serves it
type Server struct {
	addr string
	mux  *chi.Mux
	srv  *stdhttp.Server
}

// NewServer reads API_PORT from cfg (":4000" when unset) and prepares the
// server. opts see the raw *chi.Mux before any route is mounted, which is
// the only point chi accepts middleware
func NewServer(cfg config.Conf, opts ...func(*chi.Mux)) *Server {
	addr := cfg.MayString("API_PORT", ":4000")
	m := chi.NewRouter()
	for _, o := range opts {
		o(m)
	}
	return &Server{
		addr: addr,
		mux:  m,
		srv: &stdhttp.Server{
			Addr:              addr,
			Handler:           m,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// Router returns the mounting facade over the internal mux
func (s *Server) Router() Router {
	return AdaptChi(s.mux)
}

// Addr echoes the configured bind address
func (s *Server) Addr() string { return s.addr }

// Run serves until the context is canceled or the listener fails. On
// cancellation it drains in-flight requests for up to drainWindow and
// reports the stop as nil, so mains can treat a signal as a clean exit
func (s *Server) Run(ctx context.Context) error {
	log := logger.Named("http")
	log.Info().Str("addr", s.addr).Msg("http listening")

	errc := make(chan error, 1)
	go func() { errc <- s.srv.ListenAndServe() }()

	select {
	case err := <-errc:
		if errors.Is(err, stdhttp.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		log.Info().Msg("http draining")
		shCtx, cancel := context.WithTimeout(context.Background(), drainWindow)
		defer cancel()
		if err := s.srv.Shutdown(shCtx); err != nil {
			return err
		}
		<-errc
		return nil
	}
}

// Shutdown stops the server gracefully. Run calls this itself on context
// cancellation; it stays exported for callers that manage the lifecycle
// by hand
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
