package handler

import (
	"net/http"

	"santri_portal/internal/model"
	"santri_portal/internal/service"
	"santri_portal/internal/session"

	"github.com/gin-gonic/gin"
)

// ProfileHandler handles changes to the session user
type ProfileHandler struct {
	service service.ProfileService
}

// NewProfileHandler creates a new ProfileHandler
func NewProfileHandler(s service.ProfileService) *ProfileHandler {
	return &ProfileHandler{service: s}
}

// Update merges the JSON object in the body into the session user
func (h *ProfileHandler) Update(c *gin.Context) {
	var req map[string]any
	if err := c.ShouldBindJSON(&req); err != nil || req == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Request body must be a JSON object"})
		return
	}

	user, err := h.service.Update(c.Request.Context(), model.UpdateFromMap(req))
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

func (h *ProfileHandler) Refresh(c *gin.Context) {
	user, err := h.service.Refresh(c.Request.Context(), session.ResponseCookies(c.Writer))
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

// RegisterProfileRoutes registers profile routes behind the session gate
func (h *ProfileHandler) RegisterProfileRoutes(rg *gin.RouterGroup, sessionMW gin.HandlerFunc) {
	profileGroup := rg.Group("/profile")
	profileGroup.Use(sessionMW)
	{
		profileGroup.PATCH("", h.Update)
		profileGroup.POST("/refresh", h.Refresh)
	}
}
