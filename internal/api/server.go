// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package api exposes the survey orchestrator over HTTP. Submissions are
// asynchronous: POST returns the session id immediately and clients poll
// the snapshot or progress endpoints. Implements: prd006-http-api (R1-R4).
package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pdiddy/statute-survey/internal/survey"
	"github.com/pdiddy/statute-survey/pkg/types"
)

// Server wraps a gin engine around the orchestrator and session store.
type Server struct {
	orch   *survey.Orchestrator
	repo   survey.SessionRepository
	logger *zap.Logger
	engine *gin.Engine
}

// NewServer wires the routes. The caller owns orchestrator shutdown.
func NewServer(orch *survey.Orchestrator, repo survey.SessionRepository, logger *zap.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)
	s := &Server{
		orch:   orch,
		repo:   repo,
		logger: logger,
		engine: gin.New(),
	}

	s.engine.Use(gin.Recovery(), s.requestLogger())

	s.engine.GET("/health", s.health)

	grp := s.engine.Group("/api/surveys")
	grp.POST("", s.submit)
	grp.GET("", s.list)
	grp.GET("/:id", s.get)
	grp.GET("/:id/progress", s.progress)
	grp.DELETE("/:id", s.cancel)

	return s
}

// Handler returns the underlying http.Handler, used by tests and by Run.
func (s *Server) Handler() http.Handler { return s.engine }

// Run serves until the listener fails.
func (s *Server) Run(addr string) error {
	s.logger.Info("http server listening", zap.String("addr", addr))
	return s.engine.Run(addr)
}

// requestLogger tags each request with a uuid and writes one access log
// line per request.
func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := uuid.NewString()
		c.Header("X-Request-ID", requestID)

		start := time.Now()
		c.Next()

		s.logger.Info("request",
			zap.String("request_id", requestID),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("elapsed", time.Since(start)))
	}
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// SubmitRequest is the POST /api/surveys body. An empty jurisdiction
// list surveys all fifty states.
type SubmitRequest struct {
	Query         string   `json:"query" binding:"required"`
	Jurisdictions []string `json:"jurisdictions"`
}

func (s *Server) submit(c *gin.Context) {
	var req SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	jurisdictions, err := types.ParseJurisdictions(req.Jurisdictions)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, err := s.orch.Submit(survey.SubmitRequest{
		Query:         req.Query,
		Jurisdictions: jurisdictions,
	})
	if errors.Is(err, survey.ErrTooManySurveys) {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusAccepted, session)
}

func (s *Server) list(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"sessions": s.repo.List()})
}

func (s *Server) get(c *gin.Context) {
	id, ok := s.sessionID(c)
	if !ok {
		return
	}
	session, found := s.repo.Get(id)
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}
	c.JSON(http.StatusOK, session)
}

func (s *Server) progress(c *gin.Context) {
	id, ok := s.sessionID(c)
	if !ok {
		return
	}
	p, found := s.repo.Progress(id)
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}
	c.JSON(http.StatusOK, p)
}

// cancel is idempotent: cancelling a terminal session reports
// cancelled=false with a 200. With ?purge=true a terminal session is
// removed instead; purging a running session is a conflict.
func (s *Server) cancel(c *gin.Context) {
	id, ok := s.sessionID(c)
	if !ok {
		return
	}
	if _, found := s.repo.Get(id); !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}

	if c.Query("purge") == "true" {
		if err := s.repo.Delete(id); err != nil {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.Status(http.StatusNoContent)
		return
	}

	c.JSON(http.StatusOK, gin.H{"cancelled": s.orch.Cancel(id)})
}

func (s *Server) sessionID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid session id"})
		return 0, false
	}
	return id, true
}
