package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

const defaultShutdownTimeout = 10 * time.Second

// HTTPServer runs a gin.Engine and drains in-flight requests on shutdown.
type HTTPServer struct {
	engine          *gin.Engine
	shutdownTimeout time.Duration
}

// NewHTTPServer configures the engine for proxy-aware client IPs and 405
// responses on known routes. shutdownTimeout bounds the drain on stop; a
// non-positive value falls back to the default.
func NewHTTPServer(router *gin.Engine, shutdownTimeout time.Duration) *HTTPServer {
	router.HandleMethodNotAllowed = true
	router.ForwardedByClientIP = true
	if shutdownTimeout <= 0 {
		shutdownTimeout = defaultShutdownTimeout
	}
	return &HTTPServer{engine: router, shutdownTimeout: shutdownTimeout}
}

// Run serves on addr until ctx is done, then shuts down gracefully within the
// configured timeout.
func (s *HTTPServer) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:    addr,
		Handler: s.engine,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})

	return g.Wait()
}
