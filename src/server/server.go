// Package server exposes the assistant over HTTP: POST /chat runs one
// conversation turn, GET /healthz answers liveness probes.
package server

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Responder is the conversational core the server fronts.
type Responder interface {
	Respond(ctx context.Context, message string) (string, error)
}

// Server wires the chat routes onto a gin engine.
type Server struct {
	responder Responder
	logger    *zap.Logger
	router    *gin.Engine
}

type chatRequest struct {
	Message string `json:"message" binding:"required"`
}

func New(responder Responder, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	s := &Server{responder: responder, logger: logger, router: router}
	router.Use(s.requestID)
	router.POST("/chat", s.chatHandler)
	router.GET("/healthz", s.healthHandler)
	return s
}

// Handler exposes the router as an http.Handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until the listener fails.
func (s *Server) Run(addr string) error {
	s.logger.Info("listening",
		zap.String("component", "chat-server"),
		zap.String("addr", addr))
	return s.router.Run(addr)
}

// requestID honors an incoming X-Request-ID and mints one otherwise, so a
// turn can be traced across client and server logs.
func (s *Server) requestID(c *gin.Context) {
	id := strings.TrimSpace(c.GetHeader("X-Request-ID"))
	if id == "" {
		id = uuid.NewString()
	}
	c.Set("request_id", id)
	c.Header("X-Request-ID", id)
	c.Next()
}

func (s *Server) chatHandler(c *gin.Context) {
	started := time.Now()
	requestID := c.GetString("request_id")

	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Message) == "" {
		s.logger.Warn("rejected chat request",
			zap.String("component", "chat-server"),
			zap.String("requestId", requestID),
			zap.String("clientIP", c.ClientIP()),
			zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "message is required"})
		return
	}

	reply, err := s.responder.Respond(c.Request.Context(), req.Message)
	if err != nil {
		s.logger.Error("chat turn failed",
			zap.String("component", "chat-server"),
			zap.String("requestId", requestID),
			zap.Duration("processingTime", time.Since(started)),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "agent failure"})
		return
	}

	s.logger.Info("chat turn served",
		zap.String("component", "chat-server"),
		zap.String("requestId", requestID),
		zap.String("clientIP", c.ClientIP()),
		zap.Duration("processingTime", time.Since(started)))
	c.JSON(http.StatusOK, gin.H{"response": reply})
}

func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}
