// Package api exposes the analysis service as a JSON HTTP API.
package api

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/francisco-sereno/synapsis-bolt-sub001/app"
	"github.com/francisco-sereno/synapsis-bolt-sub001/internal"

	"github.com/gin-gonic/gin"
)

// maxBodyBytes caps request bodies; rating matrices of a few thousand
// respondents fit comfortably.
const maxBodyBytes = 8 << 20

// Server represents the API server
type Server struct {
	router  *gin.Engine
	service *app.AnalysisService
	logger  *internal.Logger
	http    *http.Server
}

// NewServer creates the API server and registers its routes. mode is a gin
// mode (debug, release, test).
func NewServer(service *app.AnalysisService, logger *internal.Logger, mode string) *Server {
	if mode != "" {
		gin.SetMode(mode)
	}
	if logger == nil {
		logger = internal.DefaultLogger
	}

	s := &Server{
		router:  gin.New(),
		service: service,
		logger:  logger.With("API"),
	}
	s.router.Use(gin.Recovery(), s.requestLogger(), limitBody(maxBodyBytes))
	s.registerRoutes()
	s.http = &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler returns the HTTP handler serving the API
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) registerRoutes() {
	s.router.GET("/health", s.handleHealth)

	v1 := s.router.Group("/api/v1")
	{
		statistics := v1.Group("/statistics")
		statistics.POST("/descriptive", handleAnalysis(s, s.service.Describe))
		statistics.POST("/correlation", handleAnalysis(s, s.service.Correlate))
		statistics.POST("/ttest", handleAnalysis(s, s.service.TTest))
		statistics.POST("/reliability", handleAnalysis(s, s.service.Reliability))
		statistics.POST("/content-validity", handleAnalysis(s, s.service.ContentValidity))
		statistics.POST("/expert-judgment", handleAnalysis(s, s.service.ExpertJudgment))
		statistics.POST("/sample-size", handleAnalysis(s, s.service.SampleSize))
		statistics.POST("/batch", s.handleBatch)

		v1.GET("/projects/:projectID/analyses", s.handleListAnalyses)
		v1.GET("/analyses/:id", s.handleGetAnalysis)
		v1.GET("/analyses/:id/report", s.handleReport)
		v1.DELETE("/analyses/:id", s.handleDeleteAnalysis)
	}
}

// Start listens on addr until Shutdown is called
func (s *Server) Start(addr string) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	s.logger.Info("listening on %s", listener.Addr())
	if err := s.http.Serve(listener); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		status := c.Writer.Status()
		elapsed := float64(time.Since(start).Nanoseconds()) / 1e6
		if status >= http.StatusInternalServerError {
			s.logger.Warn("%s %s -> %d (%.2fms)", c.Request.Method, c.Request.URL.Path, status, elapsed)
			return
		}
		s.logger.Debug("%s %s -> %d (%.2fms)", c.Request.Method, c.Request.URL.Path, status, elapsed)
	}
}

func limitBody(limit int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		}
		c.Next()
	}
}
