// Package http provides the HTTP server infrastructure.
// Clean Architecture: Framework/driver layer - outermost circle.
package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/0xcro3dile/versebot/internal/domain/entities"
	"github.com/0xcro3dile/versebot/internal/domain/usecases"
)

// Server is the HTTP server for the chat API and UI.
type Server struct {
	manager  *usecases.Manager
	gatherer prometheus.Gatherer
	logger   *zap.Logger
	addr     string
}

// NewServer creates a new HTTP server. A nil gatherer serves the default
// Prometheus registry on /metrics.
func NewServer(manager *usecases.Manager, gatherer prometheus.Gatherer, logger *zap.Logger, addr string) *Server {
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		manager:  manager,
		gatherer: gatherer,
		logger:   logger,
		addr:     addr,
	}
}

// Handler builds the router.
func (s *Server) Handler() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), loggingMiddleware(s.logger), corsMiddleware())

	// UI
	router.GET("/", s.handleIndex)

	// API
	api := router.Group("/api")
	api.GET("/health", s.handleHealth)
	api.POST("/sessions", s.handleCreateSession)
	api.GET("/sessions/:id", s.handleGetSession)
	api.POST("/sessions/:id/messages", s.handleMessage)
	api.DELETE("/sessions/:id", s.handleCloseSession)

	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})))
	return router
}

// Start runs the HTTP server until ctx ends.
func (s *Server) Start(ctx context.Context) error {
	server := &http.Server{
		Addr:        s.addr,
		Handler:     s.Handler(),
		ReadTimeout: 15 * time.Second,
		// Replies include a deliberate pause of up to a few seconds.
		WriteTimeout: 60 * time.Second,
	}

	s.logger.Info("versebot server starting", zap.String("addr", s.addr))

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

type sessionResponse struct {
	ID      string          `json:"id"`
	Status  entities.Status `json:"status"`
	Line    string          `json:"status_line"`
	History []entities.Turn `json:"history,omitempty"`
}

type messageRequest struct {
	Text string `json:"text"`
}

type messageResponse struct {
	Reply  string                 `json:"reply"`
	Path   entities.SelectionPath `json:"path"`
	Status entities.Status        `json:"status"`
}

func (s *Server) handleCreateSession(c *gin.Context) {
	session := s.manager.Create()
	status := session.Status()
	c.JSON(http.StatusCreated, sessionResponse{ID: session.ID(), Status: status, Line: status.String()})
}

func (s *Server) handleGetSession(c *gin.Context) {
	session, err := s.manager.Get(c.Param("id"))
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	status := session.Status()
	c.JSON(http.StatusOK, sessionResponse{
		ID:      session.ID(),
		Status:  status,
		Line:    status.String(),
		History: session.History(),
	})
}

func (s *Server) handleMessage(c *gin.Context) {
	session, err := s.manager.Get(c.Param("id"))
	if err != nil {
		s.abortWithError(c, err)
		return
	}

	var req messageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	reply, err := session.Submit(c.Request.Context(), req.Text)
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, messageResponse{Reply: reply.Text, Path: reply.Path, Status: session.Status()})
}

func (s *Server) handleCloseSession(c *gin.Context) {
	if err := s.manager.Close(c.Param("id")); err != nil {
		s.abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// handleHealth returns server health status.
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "sessions": s.manager.Count()})
}

func (s *Server) abortWithError(c *gin.Context, err error) {
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, entities.ErrEmptyMessage):
		code = http.StatusBadRequest
	case errors.Is(err, entities.ErrSessionNotFound):
		code = http.StatusNotFound
	case errors.Is(err, entities.ErrSessionClosed):
		code = http.StatusGone
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		code = http.StatusServiceUnavailable
	}
	if code == http.StatusInternalServerError {
		s.logger.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
	}
	c.AbortWithStatusJSON(code, gin.H{"error": err.Error()})
}

func loggingMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debug("http request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("elapsed", time.Since(start)))
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
