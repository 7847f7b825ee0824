package companies

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"matching-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers for the company registry.
type Handler struct {
	Repo Repo
}

// NewHandler constructs a Handler.
func NewHandler(repo Repo) *Handler {
	return &Handler{Repo: repo}
}

// RegisterRoutes attaches company routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/companies", h.createCompany)
	rg.GET("/companies/:id", h.getCompany)
}

type createCompanyRequest struct {
	Name         string `json:"name" binding:"required"`
	Industry     string `json:"industry"`
	ContactEmail string `json:"contactEmail"`
}

func (h *Handler) createCompany(c *gin.Context) {
	var req createCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "name is required", nil)
		return
	}

	company, err := h.Repo.Create(c.Request.Context(), Company{
		Name:         strings.TrimSpace(req.Name),
		Industry:     strings.TrimSpace(req.Industry),
		ContactEmail: strings.TrimSpace(req.ContactEmail),
	})
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to create company", nil)
		return
	}
	respond.JSON(c, http.StatusCreated, company)
}

func (h *Handler) getCompany(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		respond.Error(c, http.StatusBadRequest, "validation_error", "company id is required", nil)
		return
	}

	company, err := h.Repo.GetByID(c.Request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "company not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch company", nil)
		}
		return
	}
	respond.OK(c, company)
}
