package prompts

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"matching-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers for prompt template administration.
type Handler struct {
	Repo Repo
}

// NewHandler constructs a Handler.
func NewHandler(repo Repo) *Handler {
	return &Handler{Repo: repo}
}

// RegisterRoutes attaches prompt template routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/prompt-templates", h.listTemplates)
	rg.POST("/prompt-templates", h.createTemplate)
	rg.PUT("/prompt-templates/:id", h.updateTemplate)
}

type templateRequest struct {
	PromptType         string `json:"promptType" binding:"required"`
	SystemPrompt       string `json:"systemPrompt"`
	UserPromptTemplate string `json:"userPromptTemplate" binding:"required"`
	IsActive           *bool  `json:"isActive"`
}

func (h *Handler) listTemplates(c *gin.Context) {
	templates, err := h.Repo.List(c.Request.Context())
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list prompt templates", nil)
		return
	}
	respond.OK(c, gin.H{"templates": templates})
}

func (h *Handler) createTemplate(c *gin.Context) {
	var req templateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "promptType and userPromptTemplate are required", nil)
		return
	}
	if err := validateRequest(req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		return
	}

	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	tmpl, err := h.Repo.Create(c.Request.Context(), Template{
		PromptType:         strings.TrimSpace(req.PromptType),
		SystemPrompt:       req.SystemPrompt,
		UserPromptTemplate: req.UserPromptTemplate,
		IsActive:           active,
	})
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to create prompt template", nil)
		return
	}
	respond.JSON(c, http.StatusCreated, tmpl)
}

func (h *Handler) updateTemplate(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		respond.Error(c, http.StatusBadRequest, "validation_error", "template id is required", nil)
		return
	}

	var req templateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "promptType and userPromptTemplate are required", nil)
		return
	}
	if err := validateRequest(req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		return
	}

	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	tmpl, err := h.Repo.Update(c.Request.Context(), Template{
		ID:                 id,
		PromptType:         strings.TrimSpace(req.PromptType),
		SystemPrompt:       req.SystemPrompt,
		UserPromptTemplate: req.UserPromptTemplate,
		IsActive:           active,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "prompt template not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to update prompt template", nil)
		}
		return
	}
	respond.OK(c, tmpl)
}

// validateRequest rejects templates using placeholders outside the allow-list
// so a typo never reaches a live prompt.
func validateRequest(req templateRequest) error {
	if err := ValidateTemplate(req.UserPromptTemplate); err != nil {
		return err
	}
	return ValidateTemplate(req.SystemPrompt)
}
