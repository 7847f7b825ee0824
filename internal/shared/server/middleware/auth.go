package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"matching-backend/internal/shared/auth"
	"matching-backend/internal/shared/server/respond"
)

const (
	adminIDKey    = "adminId"
	adminEmailKey = "adminEmail"
	adminNameKey  = "adminName"
	adminRoleKey  = "adminRole"
)

// Auth validates bearer JWTs and stores the admin identity in context.
// Health and Google auth endpoints stay open.
func Auth(env string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Status(http.StatusNoContent)
			return
		}

		path := c.Request.URL.Path
		if path == "/api/v1/health" || strings.HasPrefix(path, "/api/v1/auth/google/") {
			c.Next()
			return
		}

		authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
		if authHeader == "" {
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "Missing identity", nil)
			return
		}
		if !strings.HasPrefix(authHeader, "Bearer ") {
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token", nil)
			return
		}

		token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer"))
		if token == "" {
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token", nil)
			return
		}

		claims, err := auth.VerifyJWT(token)
		if err != nil {
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token", nil)
			return
		}

		c.Set(adminIDKey, claims.Sub)
		if claims.Email != "" {
			c.Set(adminEmailKey, claims.Email)
		}
		if claims.Name != "" {
			c.Set(adminNameKey, claims.Name)
		}
		c.Set(adminRoleKey, claims.Role)
		c.Next()
	}
}

// AdminIDFromContext fetches the admin ID set by the auth middleware.
func AdminIDFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	val, _ := c.Get(adminIDKey)
	if id, ok := val.(string); ok {
		return id
	}
	return ""
}

// AdminEmailFromContext fetches the admin email set by the auth middleware.
func AdminEmailFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	val, _ := c.Get(adminEmailKey)
	if email, ok := val.(string); ok {
		return email
	}
	return ""
}

// AdminRoleFromContext fetches the admin role set by the auth middleware.
func AdminRoleFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	val, _ := c.Get(adminRoleKey)
	if role, ok := val.(string); ok {
		return role
	}
	return ""
}
