package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"chama/internal/core"
	applog "chama/internal/log"
	"chama/internal/support"
)

type loginRequest struct {
	Phone string `json:"phone" binding:"required"`
	PIN   string `json:"pin" binding:"required"`
}

type updateMemberRequest struct {
	FullName string `json:"full_name" binding:"required"`
	Phone    string `json:"phone" binding:"required"`
	PhotoURL string `json:"photo_url"`
}

type approveContributionRequest struct {
	Status string `json:"status" binding:"required"`
}

func (s *Server) handleRoot(c *gin.Context) {
	c.String(http.StatusOK, "API is running...")
}

func (s *Server) handleHealth(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}

func (s *Server) handleReady(c *gin.Context) {
	if err := s.db.Ping(c.Request.Context()); err != nil {
		s.logger.ErrorContext(c.Request.Context(), "Readiness probe failed", applog.FieldError, err)
		c.String(http.StatusServiceUnavailable, "database unavailable")
		return
	}
	c.String(http.StatusOK, "ready")
}

func (s *Server) handleLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "phone and pin are required"})
		return
	}

	res, err := s.members.Login(c.Request.Context(), req.Phone, req.PIN)
	switch {
	case errors.Is(err, core.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
	case errors.Is(err, core.ErrInvalidPIN):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid PIN"})
	case err != nil:
		s.serverError(c, "login", err)
	default:
		c.JSON(http.StatusOK, res)
	}
}

func (s *Server) handleDashboard(c *gin.Context) {
	id, ok := s.memberID(c)
	if !ok {
		return
	}

	dashboard, err := s.members.Dashboard(c.Request.Context(), id)
	switch {
	case errors.Is(err, core.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
	case err != nil:
		s.serverError(c, "member dashboard", err)
	default:
		c.JSON(http.StatusOK, dashboard)
	}
}

func (s *Server) handleUpdateMember(c *gin.Context) {
	id, ok := s.memberID(c)
	if !ok {
		return
	}

	var req updateMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "full_name and phone are required"})
		return
	}

	if err := s.members.Update(c.Request.Context(), id, req.FullName, req.Phone, req.PhotoURL); err != nil {
		s.serverError(c, "update member", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Profile updated successfully"})
}

func (s *Server) handleAllMembers(c *gin.Context) {
	entries, err := s.members.ListWithContributions(c.Request.Context())
	if err != nil {
		s.serverError(c, "list members", err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

func (s *Server) handleApproveContribution(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid contribution id"})
		return
	}

	var req approveContributionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status is required"})
		return
	}

	if err := s.contributions.Approve(c.Request.Context(), id, req.Status); err != nil {
		s.serverError(c, "approve contribution", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Contribution updated successfully"})
}

func (s *Server) handleSupport(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"whatsapp_url": support.WhatsAppURL()})
}

func (s *Server) handleUploadPhoto(c *gin.Context) {
	header, err := c.FormFile("photo")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "photo file is required"})
		return
	}

	file, err := header.Open()
	if err != nil {
		s.serverError(c, "open uploaded photo", err)
		return
	}
	defer file.Close()

	url, err := s.uploader.UploadProfilePhoto(c.Request.Context(), file)
	if err != nil {
		s.serverError(c, "upload photo", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"photo_url": url})
}

func (s *Server) memberID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid member id"})
		return 0, false
	}
	return id, true
}

// serverError maps any internal failure to an opaque 500. The underlying
// error is logged server-side only, never sent to the caller.
func (s *Server) serverError(c *gin.Context, op string, err error) {
	s.logger.ErrorContext(c.Request.Context(), "Request failed",
		"operation", op,
		applog.FieldError, err,
		applog.FieldRequestID, c.GetString(requestIDKey),
		applog.FieldPath, c.Request.URL.Path)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}
