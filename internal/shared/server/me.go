package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"matching-backend/internal/shared/server/middleware"
	"matching-backend/internal/shared/server/respond"
)

// registerMeRoutes attaches the /me endpoint used by the admin console to
// confirm the current session.
func registerMeRoutes(rg *gin.RouterGroup) {
	rg.GET("/me", meHandler)
}

func meHandler(c *gin.Context) {
	adminID := middleware.AdminIDFromContext(c)
	if adminID == "" {
		respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token", nil)
		return
	}

	response := gin.H{
		"adminId": adminID,
	}
	if email := middleware.AdminEmailFromContext(c); email != "" {
		response["email"] = email
	}
	if role := middleware.AdminRoleFromContext(c); role != "" {
		response["role"] = role
	}

	respond.JSON(c, http.StatusOK, response)
}
