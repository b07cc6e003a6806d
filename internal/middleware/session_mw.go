package middleware

import (
	"net/http"

	"santri_portal/internal/session"

	"github.com/gin-gonic/gin"
)

const (
	AuthUserKey  = "authUser"
	AuthRoleKey  = "authRole"
	AuthPhaseKey = "authPhase"

	LoginPath     = "/login"
	VerifyOTPPath = "/verify-otp"
)

// SessionMiddleware rejects requests unless the gateway session passes CheckAuth
func SessionMiddleware(sess session.AuthSession) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !sess.CheckAuth() {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Session expired or not logged in", "redirect": LoginPath})
			return
		}

		st := sess.Snapshot()
		if st.AuthToken == nil || st.User == nil {
			// logged out between the check and the snapshot
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Session expired or not logged in", "redirect": LoginPath})
			return
		}

		// A cookie from an earlier login must not ride on a newer session
		if cookie, err := c.Cookie(session.TokenCookie); err == nil && cookie != "" && cookie != *st.AuthToken {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Session token mismatch", "redirect": LoginPath})
			return
		}

		role := ""
		if st.Role != nil {
			role = *st.Role
		}

		c.Set(AuthUserKey, st.User.UserID)
		c.Set(AuthRoleKey, role)
		c.Set(AuthPhaseKey, sess.Phase())

		c.Next()
	}
}

// VerifiedMiddleware requires a completed OTP verification; run it after SessionMiddleware
func VerifiedMiddleware(sess session.AuthSession) gin.HandlerFunc {
	return func(c *gin.Context) {
		if sess.Phase() != session.Verified {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Account is not verified", "redirect": VerifyOTPPath})
			return
		}
		c.Next()
	}
}
