// Package server exposes the analysis pipeline over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"vorp/rfm-csv/internal/common"
	"vorp/rfm-csv/internal/insights"
	"vorp/rfm-csv/internal/logging"
	"vorp/rfm-csv/internal/report"
	"vorp/rfm-csv/internal/rfm"
	"vorp/rfm-csv/internal/store"

	"github.com/gin-gonic/gin"
)

const shutdownTimeout = 10 * time.Second

// Options configure the HTTP layer.
type Options struct {
	// Delimiter is used for uploads whose header line has no semicolon.
	Delimiter rune
	// MaxUploadMB caps the size of an analyze request body.
	MaxUploadMB int
}

// Server holds the collaborators shared by all requests. Per-request state
// lives in the handlers only.
type Server struct {
	engine    *rfm.Engine
	insights  *insights.Service
	catalog   *store.SegmentCatalog
	reports   *report.Generator
	logger    logging.Logger
	delimiter rune
	maxUpload int64
	router    *gin.Engine
}

// New creates a Server and registers its routes.
func New(engine *rfm.Engine, insightsSvc *insights.Service, catalog *store.SegmentCatalog, reports *report.Generator, logger logging.Logger, opts Options) *Server {
	if logger == nil {
		logger = logging.GetLogger()
	}
	if catalog == nil {
		catalog = store.DefaultCatalog()
	}
	if insightsSvc == nil {
		insightsSvc = insights.NewService(nil, 0, logger)
	}
	if reports == nil {
		reports = report.NewGenerator(catalog, logger)
	}
	if opts.Delimiter == 0 {
		opts.Delimiter = common.DefaultDelimiter
	}
	if opts.MaxUploadMB <= 0 {
		opts.MaxUploadMB = 32
	}

	s := &Server{
		engine:    engine,
		insights:  insightsSvc,
		catalog:   catalog,
		reports:   reports,
		logger:    logger.WithField(logging.FieldComponent, "http"),
		delimiter: opts.Delimiter,
		maxUpload: int64(opts.MaxUploadMB) << 20,
	}
	s.router = s.setupRouter()
	return s
}

// Router returns the HTTP handler of the server.
func (s *Server) Router() http.Handler {
	return s.router
}

func (s *Server) setupRouter() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), s.requestLogger())
	router.MaxMultipartMemory = s.maxUpload

	router.GET("/health", s.handleHealth)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/segments", s.handleSegments)
		v1.POST("/analyze", s.handleAnalyze)
		v1.POST("/insights", s.handleInsights)
	}
	return router
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.WithFields(
			logging.F("method", c.Request.Method),
			logging.F("path", c.Request.URL.Path),
			logging.F("status", c.Writer.Status()),
			logging.F(logging.FieldDuration, time.Since(start).Milliseconds()),
		).Debug("Handled request")
	}
}

// Run serves on addr until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.WithField(logging.FieldAddress, addr).Info("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	s.logger.Info("Shutting down HTTP server")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown failed: %w", err)
	}
	return nil
}
