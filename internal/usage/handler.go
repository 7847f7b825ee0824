package usage

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"matching-backend/internal/shared/server/respond"
)

// Handler exposes usage endpoints.
type Handler struct {
	Service *Service
}

// RegisterRoutes attaches usage routes.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/usage/summary", h.summary)
}

func (h *Handler) summary(c *gin.Context) {
	days := 30
	if raw := c.Query("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 || parsed > 365 {
			respond.Error(c, http.StatusBadRequest, "invalid_request", "days must be between 1 and 365", nil)
			return
		}
		days = parsed
	}

	since := time.Now().UTC().AddDate(0, 0, -days)
	summary, err := h.Service.Summarize(c.Request.Context(), since)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to summarize usage", nil)
		return
	}
	respond.OK(c, summary)
}
