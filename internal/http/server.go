// Package http exposes the chama REST API over gin.
package http

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"chama/internal/core"
	applog "chama/internal/log"
)

// MemberOperations is what the handlers need from the member service.
type MemberOperations interface {
	Login(ctx context.Context, phone, pin string) (core.LoginResult, error)
	Dashboard(ctx context.Context, memberID int64) (core.Dashboard, error)
	Update(ctx context.Context, memberID int64, fullName, phone, photoURL string) error
	ListWithContributions(ctx context.Context) ([]core.MemberContributions, error)
}

// ContributionApprover overwrites a contribution's approval status.
type ContributionApprover interface {
	Approve(ctx context.Context, id int64, status string) error
}

// Pinger reports storage reachability for the readiness probe.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PhotoUploader stores a profile photo and returns its public URL. A nil
// uploader leaves the upload route unmounted.
type PhotoUploader interface {
	UploadProfilePhoto(ctx context.Context, file multipart.File) (string, error)
}

type Server struct {
	engine        *gin.Engine
	logger        *applog.Logger
	members       MemberOperations
	contributions ContributionApprover
	db            Pinger
	uploader      PhotoUploader
}

// NewServer configures routes and middleware, returning a ready-to-mount
// handler.
func NewServer(logger *applog.Logger, members MemberOperations, contributions ContributionApprover, db Pinger, uploader PhotoUploader) *Server {
	s := &Server{
		engine:        gin.New(),
		logger:        logger.WithComponent(applog.ComponentHTTP),
		members:       members,
		contributions: contributions,
		db:            db,
		uploader:      uploader,
	}

	s.engine.Use(gin.Recovery(), s.requestLogger(), corsMiddleware())

	s.engine.GET("/", s.handleRoot)
	s.engine.GET("/healthz", s.handleHealth)
	s.engine.GET("/readyz", s.handleReady)

	s.engine.POST("/login", s.handleLogin)
	s.engine.GET("/member-dashboard/:id", s.handleDashboard)
	s.engine.PUT("/update-member/:id", s.handleUpdateMember)
	s.engine.GET("/all-members", s.handleAllMembers)
	s.engine.POST("/approve-contribution/:id", s.handleApproveContribution)
	s.engine.GET("/it-support", s.handleSupport)

	if s.uploader != nil {
		s.engine.POST("/upload-photo", s.handleUploadPhoto)
	}

	return s
}

// Handler returns the underlying handler for an http.Server.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// requestLogger logs every request with a generated id, status and duration.
func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		requestID := generateRequestID()
		c.Set(requestIDKey, requestID)

		c.Next()

		s.logger.InfoContext(c.Request.Context(), "Request completed",
			applog.FieldRequestID, requestID,
			applog.FieldMethod, c.Request.Method,
			applog.FieldPath, c.Request.URL.Path,
			applog.FieldStatusCode, c.Writer.Status(),
			applog.FieldDuration, time.Since(start).Milliseconds(),
			applog.FieldClientIP, c.ClientIP(),
			applog.FieldUserAgent, c.Request.UserAgent())
	}
}

func corsMiddleware() gin.HandlerFunc {
	cfg := cors.DefaultConfig()
	cfg.AllowAllOrigins = true
	cfg.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	cfg.AllowHeaders = []string{"Origin", "Content-Type", "Accept"}
	return cors.New(cfg)
}

const requestIDKey = "request_id"

// generateRequestID creates a unique request id for tracing.
func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}
