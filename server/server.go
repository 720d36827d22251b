package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/cnosuke/tag-audit/config"
	ierrors "github.com/cnosuke/tag-audit/internal/errors"
	"github.com/cnosuke/tag-audit/types"
)

const shutdownTimeout = 10 * time.Second

// Analyzer produces the report for one request.
type Analyzer interface {
	Analyze(ctx context.Context, req types.AnalyzeRequest) (*types.AnalyzeResponse, error)
}

// Server is the HTTP front of the analyzer.
type Server struct {
	cfg      config.ServerConfig
	analyzer Analyzer
	handler  http.Handler
}

func New(cfg config.ServerConfig, a Analyzer) *Server {
	s := &Server{cfg: cfg, analyzer: a}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/analyze", s.handleAnalyze)
	mux.HandleFunc("GET /healthz", handleHealth)
	mux.Handle("GET /", staticHandler(cfg.StaticDir))

	var h http.Handler = mux
	if !cfg.DisableCORS {
		h = cors.AllowAll().Handler(h)
	}
	s.handler = withRequestID(withRecover(h))
	return s
}

func (s *Server) Handler() http.Handler {
	return s.handler
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.cfg.Port),
		Handler:      s.handler,
		ReadTimeout:  time.Duration(s.cfg.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(s.cfg.WriteTimeout) * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		zap.S().Infow("starting HTTP server",
			"addr", srv.Addr,
			"static_dir", s.cfg.StaticDir,
			"cors", !s.cfg.DisableCORS)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if ierrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return ierrors.Wrap(err, "failed to start server")
	case <-ctx.Done():
	}

	zap.S().Infow("server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return ierrors.Wrap(err, "failed to shut down server")
	}
	return nil
}
