package handler

import (
	"errors"
	"net/http"

	"santri_portal/internal/config"
	"santri_portal/internal/middleware"

	"github.com/gin-gonic/gin"
)

// AccessHandler lists the portal views reachable by the session role
type AccessHandler struct {
	access *config.AccessMap
}

// NewAccessHandler creates a new AccessHandler
func NewAccessHandler(access *config.AccessMap) *AccessHandler {
	return &AccessHandler{access: access}
}

// Helper to get authenticated user role from context
func getAuthUserRole(c *gin.Context) (string, error) {
	roleVal, exists := c.Get(middleware.AuthRoleKey)
	if !exists {
		return "", errors.New("user role not found in context")
	}
	role, ok := roleVal.(string)
	if !ok {
		return "", errors.New("invalid user role type in context")
	}
	return role, nil
}

func (h *AccessHandler) Views(c *gin.Context) {
	role, err := getAuthUserRole(c)
	if err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"role":  role,
		"admin": h.access.IsAdmin(role),
		"views": h.access.ViewsFor(role),
	})
}

// RegisterAccessRoutes registers /views for any session and /admin/views for verified admins
func (h *AccessHandler) RegisterAccessRoutes(rg *gin.RouterGroup, sessionMW, verifiedMW, adminMW gin.HandlerFunc) {
	rg.GET("/views", sessionMW, h.Views)

	adminGroup := rg.Group("/admin")
	adminGroup.Use(sessionMW, verifiedMW, adminMW)
	{
		adminGroup.GET("/views", h.Views)
	}
}
