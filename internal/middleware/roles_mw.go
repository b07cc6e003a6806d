package middleware

import (
	"net/http"
	"slices"

	"santri_portal/internal/config"

	"github.com/gin-gonic/gin"
)

func contextRole(c *gin.Context) (string, bool) {
	roleVal, exists := c.Get(AuthRoleKey)
	if !exists {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Role not found in context, ensure session middleware runs first"})
		return "", false
	}

	userRole, ok := roleVal.(string)
	if !ok {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Invalid role type in context"})
		return "", false
	}
	return userRole, true
}

// RoleMiddleware creates a middleware to check for specific role codes
func RoleMiddleware(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userRole, ok := contextRole(c)
		if !ok {
			return
		}

		if !slices.Contains(allowedRoles, userRole) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "You do not have permission to access this resource"})
			return
		}

		c.Next()
	}
}

// AdminMiddleware checks that the role is one of the access map's admin roles
func AdminMiddleware(access *config.AccessMap) gin.HandlerFunc {
	return RoleMiddleware(access.AdminRoles...)
}

// ViewMiddleware checks that the role may open view
func ViewMiddleware(access *config.AccessMap, view string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userRole, ok := contextRole(c)
		if !ok {
			return
		}

		if !access.Allows(userRole, view) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "You do not have permission to open " + view})
			return
		}

		c.Next()
	}
}
