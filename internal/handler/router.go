package handler

import (
	"santri_portal/internal/config"
	"santri_portal/internal/hijri"
	"santri_portal/internal/middleware"
	"santri_portal/internal/service"
	"santri_portal/internal/session"
	"santri_portal/internal/storage"

	"github.com/gin-gonic/gin"
)

// Deps are the collaborators the gateway routes are built from
type Deps struct {
	Auth      service.AuthService
	Profile   service.ProfileService
	Session   session.AuthSession
	Converter hijri.Converter
	Access    *config.AccessMap
	Store     storage.Store
}

// NewRouter wires every gateway route under /api/v1
func NewRouter(d Deps) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestID(), middleware.RequestLogger())

	sessionMW := middleware.SessionMiddleware(d.Session)
	verifiedMW := middleware.VerifiedMiddleware(d.Session)
	adminMW := middleware.AdminMiddleware(d.Access)

	apiGroup := router.Group("/api/v1")
	NewAuthHandler(d.Auth, d.Session).RegisterAuthRoutes(apiGroup)
	NewProfileHandler(d.Profile).RegisterProfileRoutes(apiGroup, sessionMW)
	NewCalendarHandler(d.Converter).RegisterCalendarRoutes(apiGroup, sessionMW)
	NewAccessHandler(d.Access).RegisterAccessRoutes(apiGroup, sessionMW, verifiedMW, adminMW)
	apiGroup.GET("/health", Health(d.Store))

	return router
}
