package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nguyentantai21042004/mdoc/internal/config"
	"github.com/nguyentantai21042004/mdoc/internal/logger"
	"github.com/nguyentantai21042004/mdoc/internal/processor"
)

const shutdownTimeout = 30 * time.Second

// Server is the MDoc HTTP API.
type Server struct {
	proc       processor.Processor
	cfg        config.ServerConfig
	uploadsDir string
	logger     logger.Logger
	router     *gin.Engine
}

// NewServer creates a new API server
func NewServer(cfg *config.Config, proc processor.Processor, log logger.Logger) *Server {
	router := gin.New()
	router.MaxMultipartMemory = 32 << 20

	s := &Server{
		proc:       proc,
		cfg:        cfg.Server,
		uploadsDir: cfg.Paths.Uploads,
		logger:     log,
		router:     router,
	}

	router.Use(requestID(), s.accessLog(), gin.Recovery())

	router.GET("/health", s.handleHealth)
	router.POST("/upload", s.handleUpload)
	// Covers /generate/meeting-summary as well as the other document types.
	router.POST("/generate/:doc_type", s.handleGenerate)
	router.GET("/sessions", s.handleListSessions)
	router.GET("/sessions/:guid", s.handleSession)
	router.DELETE("/sessions/:guid", s.handleDeleteSession)
	router.GET("/usage", s.handleUsage)

	return s
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info(ctx, "%s listening on %s", s.cfg.ServiceName, addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve http: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info(ctx, "Shutting down HTTP server...")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http: %w", err)
	}
	return nil
}
