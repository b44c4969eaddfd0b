// Package server exposes the query engine over HTTP.
//
// Each uploaded dataset lives in its own session, keyed by a random id and
// expired after a period of inactivity. A query only ever sees the dataset
// of the session named in its path.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/vegasq/securecheck/internal/config"
	"github.com/vegasq/securecheck/predict"
)

const shutdownTimeout = 5 * time.Second

// Server serves the HTTP API.
type Server struct {
	cfg       config.ServerConfig
	log       *logrus.Logger
	sessions  *sessionStore
	metrics   *metrics
	limiter   *rate.Limiter
	predictor predict.Predictor
	handler   http.Handler
	closeOnce sync.Once
}

// Option customizes a Server.
type Option func(*Server)

// WithPredictor replaces the outcome predictor used for submissions.
func WithPredictor(p predict.Predictor) Option {
	return func(s *Server) {
		s.predictor = p
	}
}

// New constructs a server from cfg. Call Close, or run it with Run, to
// release the session expiry loop.
func New(cfg config.ServerConfig, log *logrus.Logger, opts ...Option) *Server {
	s := &Server{
		cfg:       cfg,
		log:       log,
		sessions:  newSessionStore(cfg.SessionTTL, cfg.MaxSessions),
		predictor: predict.Default(),
	}
	if cfg.RateLimitRPS > 0 {
		s.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst)
	}
	s.metrics = newMetrics(s.sessions)
	for _, opt := range opts {
		opt(s)
	}

	go s.sessions.start()
	s.handler = s.routes()
	return s
}

// Handler returns the http.Handler serving every route.
func (s *Server) Handler() http.Handler {
	return s.handler
}

func (s *Server) routes() http.Handler {
	api := http.NewServeMux()
	api.HandleFunc("GET /v1/queries", s.handleListQueries)
	api.HandleFunc("POST /v1/datasets", s.handleUpload)
	api.HandleFunc("GET /v1/datasets/{session}", s.handleGetDataset)
	api.HandleFunc("GET /v1/datasets/{session}/records", s.handleGetRecords)
	api.HandleFunc("DELETE /v1/datasets/{session}", s.handleDeleteDataset)
	api.HandleFunc("GET /v1/datasets/{session}/queries/{query}", s.handleRunQuery)
	api.HandleFunc("POST /v1/submissions", s.handleSubmit)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.Handle("GET /metrics", promhttp.HandlerFor(s.metrics.registry, promhttp.HandlerOpts{}))
	mux.Handle("/v1/", limit(s.limiter, api))
	return s.logRequests(mux)
}

// Run listens on the configured address until ctx is canceled, then shuts
// down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		s.Close()
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	defer s.Close()

	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.WithField("addr", ln.Addr().String()).Info("server listening")
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	s.log.Info("shutdown complete")
	return nil
}

// Close stops the session expiry loop. Sessions already stored stay
// readable through Handler.
func (s *Server) Close() {
	s.closeOnce.Do(s.sessions.stop)
}
