// Package server exposes the receipt pipeline as a small JSON API.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"gestorbot/gestor-receipts/internal/batch"
	"gestorbot/gestor-receipts/internal/logging"
	"gestorbot/gestor-receipts/internal/taxonomy"
)

// DefaultAddress is the listen address when none is configured.
const DefaultAddress = ":8080"

// maxBodyBytes bounds request bodies: ten base64 documents plus JSON overhead.
const maxBodyBytes = 64 << 20

// Server serves the upload routes.
type Server struct {
	engine      *gin.Engine
	processor   batch.ReceiptProcessor
	runner      *batch.Runner
	tax         *taxonomy.Taxonomy
	maxDocBytes int
	logger      logging.Logger
}

// Options holds the collaborators of a Server.
type Options struct {
	Processor        batch.ReceiptProcessor
	Runner           *batch.Runner
	Taxonomy         *taxonomy.Taxonomy
	MaxDocumentBytes int
	// Mode is the gin mode: "debug", "release" or "test".
	Mode string
}

// New builds a Server and its routes.
func New(opts Options, logger logging.Logger) *Server {
	if opts.Mode != "" {
		gin.SetMode(opts.Mode)
	}

	s := &Server{
		engine:      gin.New(),
		processor:   opts.Processor,
		runner:      opts.Runner,
		tax:         opts.Taxonomy,
		maxDocBytes: opts.MaxDocumentBytes,
		logger:      logger,
	}
	s.engine.Use(gin.Recovery(), RequestIDMiddleware(), LoggerMiddleware(logger), bodyLimit(maxBodyBytes))
	s.routes()
	return s
}

func (s *Server) routes() {
	api := s.engine.Group("/api")
	api.POST("/upload-nota", s.uploadNota)
	api.POST("/upload-notas-massa", s.uploadNotasMassa)
	api.POST("/upload-comprovante", s.uploadComprovante)
	api.GET("/taxonomia", s.taxonomia)
	s.engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}

// Handler returns the HTTP handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run listens on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	if addr == "" {
		addr = DefaultAddress
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP server listening", logging.Field{Key: "address", Value: addr})
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	s.logger.Info("Shutting down HTTP server")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	return nil
}

func bodyLimit(n int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, n)
		c.Next()
	}
}
