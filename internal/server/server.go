// Package server exposes the checklist and the admin editor over a JSON
// HTTP API built on gin.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/tenderlist/internal/admin"
	"github.com/mesh-intelligence/tenderlist/internal/app"
	"github.com/mesh-intelligence/tenderlist/pkg/types"
)

const shutdownTimeout = 10 * time.Second

// Server serves one App.
type Server struct {
	app      *app.App
	sessions *admin.Registry
	router   *gin.Engine
	log      *zap.Logger
}

// New builds the router for a. opts configure the edit-session registry.
func New(a *app.App, opts ...admin.RegistryOption) *Server {
	s := &Server{
		app:      a,
		sessions: admin.NewRegistry(opts...),
		log:      a.Logger().Named("http"),
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(s.accessLog())
	router.Use(func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Next()
	})
	s.setupRoutes(router)
	s.router = router
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// Sessions returns the open admin edit sessions.
func (s *Server) Sessions() *admin.Registry { return s.sessions }

// Run listens on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.log.Info("listening", zap.String("addr", addr))
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
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
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// accessLog logs one line per request.
func (s *Server) accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, types.ErrTableNotFound),
		errors.Is(err, types.ErrRowNotFound),
		errors.Is(err, types.ErrSessionNotFound),
		errors.Is(err, types.ErrBackupNotFound):
		return http.StatusNotFound
	case errors.Is(err, types.ErrInvalidInput),
		errors.Is(err, types.ErrInvalidData),
		errors.Is(err, types.ErrMissingColumn):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func abortWithError(c *gin.Context, err error) {
	c.JSON(statusFor(err), gin.H{"error": err.Error()})
}
