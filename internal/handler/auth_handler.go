package handler

import (
	"errors"
	"net/http"
	"time"

	"santri_portal/internal/service"
	"santri_portal/internal/session"
	"santri_portal/internal/utils"

	"github.com/gin-gonic/gin"
)

// AuthHandler handles authentication requests
type AuthHandler struct {
	service service.AuthService
	session session.AuthSession
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(s service.AuthService, sess session.AuthSession) *AuthHandler {
	return &AuthHandler{service: s, session: sess}
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Phone    string `json:"phone" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	st, err := h.service.Login(c.Request.Context(), session.ResponseCookies(c.Writer), req.Phone, req.Password)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, sessionResponse("Login successful", st, h.session.Phase()))
}

func (h *AuthHandler) VerifyOTP(c *gin.Context) {
	var req struct {
		Phone string `json:"phone" binding:"required"`
		OTP   string `json:"otp" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	st, err := h.service.VerifyOTP(c.Request.Context(), session.ResponseCookies(c.Writer), req.Phone, req.OTP)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, sessionResponse("OTP verified", st, h.session.Phase()))
}

func (h *AuthHandler) ResendOTP(c *gin.Context) {
	var req struct {
		Phone string `json:"phone" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	if err := h.service.ResendOTP(c.Request.Context(), req.Phone); err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "OTP sent"})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	h.service.Logout(c.Request.Context(), session.ResponseCookies(c.Writer))
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// Session reports the current session without its bearer token
func (h *AuthHandler) Session(c *gin.Context) {
	st := h.session.Snapshot()
	resp := gin.H{
		"authenticated":   h.session.CheckAuth(),
		"phase":           h.session.Phase(),
		"user":            st.User,
		"role":            st.Role,
		"verify":          st.Verify,
		"last_login_time": st.LastLoginTime,
	}

	if st.AuthToken != nil {
		if info, err := utils.InspectToken(*st.AuthToken); err == nil {
			resp["token"] = info
			resp["token_expired"] = info.Expired(time.Now())
		}
	}

	c.JSON(http.StatusOK, resp)
}

// RegisterAuthRoutes registers auth routes
func (h *AuthHandler) RegisterAuthRoutes(rg *gin.RouterGroup) {
	authGroup := rg.Group("/auth")
	{
		authGroup.POST("/login", h.Login)
		authGroup.POST("/otp/verify", h.VerifyOTP)
		authGroup.POST("/otp/resend", h.ResendOTP)
		authGroup.POST("/logout", h.Logout)
		authGroup.GET("/session", h.Session)
	}
}

func sessionResponse(message string, st session.State, phase session.Phase) gin.H {
	return gin.H{
		"message":      message,
		"phase":        phase,
		"otp_required": st.Verify != 1,
		"role":         st.Role,
		"user":         st.User,
	}
}

// writeServiceError maps service errors onto HTTP responses
func writeServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials), errors.Is(err, service.ErrInvalidOTP):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNotAuthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error(), "redirect": "/login"})
	case errors.Is(err, service.ErrRejected):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrIncompleteCredentials), errors.Is(err, service.ErrBackendUnavailable):
		_ = c.Error(err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Backend unavailable, please try again"})
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
