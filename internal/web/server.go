// Package web serves the roadmap over a small JSON API so a browser board
// can read the document and drive the same reorder operations as the TUI.
package web

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/alexanderramin/roadmap/internal/service"
	"github.com/gin-gonic/gin"
)

const DefaultAddr = "127.0.0.1:8080"

// StartOpts holds configuration for the API server.
type StartOpts struct {
	Roadmap service.RoadmapService
	Addr    string
	Out     io.Writer
}

// Start launches the HTTP server. It blocks until ctx is cancelled, then
// shuts down gracefully.
func Start(ctx context.Context, opts StartOpts) error {
	if opts.Roadmap == nil {
		return fmt.Errorf("web: roadmap service is required")
	}
	if opts.Addr == "" {
		opts.Addr = DefaultAddr
	}

	gin.SetMode(gin.ReleaseMode)
	srv := &http.Server{
		Addr:              opts.Addr,
		Handler:           NewRouter(opts.Roadmap),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	if opts.Out != nil {
		fmt.Fprintf(opts.Out, "Serving %s at http://%s\n", opts.Roadmap.DocumentPath(), opts.Addr)
	}

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("web: %w", err)
	}
	return nil
}

// NewRouter builds the gin engine with every route registered.
func NewRouter(roadmap service.RoadmapService) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	registerRoutes(router, &handlers{roadmap: roadmap})
	return router
}
