package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	googleauth "matching-backend/internal/auth"
	"matching-backend/internal/companies"
	"matching-backend/internal/matching"
	"matching-backend/internal/prompts"
	"matching-backend/internal/shared/config"
	"matching-backend/internal/shared/server/middleware"
	"matching-backend/internal/shared/server/respond"
	"matching-backend/internal/usage"
)

// RouterDeps carries the handlers the router mounts. Construction of the
// underlying services lives in bootstrap.
type RouterDeps struct {
	Config          config.Config
	GoogleAuth      *googleauth.GoogleService
	CompanyHandler  *companies.Handler
	PromptHandler   *prompts.Handler
	MatchingHandler *matching.Handler
	UsageHandler    *usage.Handler
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
		middleware.Auth(deps.Config.Env),
	)

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"ok": true})
	})
	if deps.GoogleAuth != nil {
		deps.GoogleAuth.RegisterRoutes(api)
	}
	registerMeRoutes(api)
	if deps.CompanyHandler != nil {
		deps.CompanyHandler.RegisterRoutes(api)
	}
	if deps.PromptHandler != nil {
		deps.PromptHandler.RegisterRoutes(api)
	}
	if deps.MatchingHandler != nil {
		deps.MatchingHandler.RegisterRoutes(api)
	}
	if deps.UsageHandler != nil {
		deps.UsageHandler.RegisterRoutes(api)
	}

	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
