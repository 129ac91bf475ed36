// Package server exposes the prediction form API over HTTP.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/housing-cli/internal/config"
	"github.com/sells-group/housing-cli/internal/feature"
	"github.com/sells-group/housing-cli/internal/predictor"
	"github.com/sells-group/housing-cli/internal/refdata"
)

// Server serves the housing estimation API. The snapshot and predictor
// are shared read-only across requests; each request builds its own
// feature record.
type Server struct {
	snap      *refdata.Snapshot
	assembler *feature.Assembler
	pred      predictor.Predictor
	form      config.FormConfig
}

// New creates a Server over a loaded snapshot.
func New(snap *refdata.Snapshot, pred predictor.Predictor, form config.FormConfig) *Server {
	return &Server{
		snap:      snap,
		assembler: feature.NewAssembler(snap, form),
		pred:      pred,
		form:      form,
	}
}

// Router builds the chi router with middleware and routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Get("/counties", s.handleCounties)
		r.Get("/boundaries", s.handleBoundaries)
		r.Post("/predict", s.handlePredict)
	})
	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, port int) error {
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: s.Router(),
	}

	go func() {
		<-ctx.Done()
		zap.L().Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	zap.L().Info("starting server", zap.Int("port", port))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return eris.Wrap(err, "server: listen")
	}
	return nil
}
