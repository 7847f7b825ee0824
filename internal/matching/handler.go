package matching

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"matching-backend/internal/shared/server/respond"
)

const maxUploadBytes = 10 << 20

// Handler wires HTTP handlers for matching requests and the two analysis
// trigger operations.
type Handler struct {
	Service *Service
}

// NewHandler constructs a Handler.
func NewHandler(service *Service) *Handler {
	return &Handler{Service: service}
}

// RegisterRoutes attaches matching routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/matching-requests", h.submit)
	rg.GET("/matching-requests", h.list)
	rg.GET("/matching-requests/:id", h.get)
	rg.POST("/matching-requests/:id/documents", h.uploadDocument)
	rg.POST("/matching-requests/:id/review", h.review)
	rg.POST("/matching-requests/:id/approve", h.approve)
	rg.POST("/matching-requests/:id/reject", h.reject)
	rg.POST("/analysis/gpt", h.runGPT)
	rg.POST("/analysis/market-research", h.runMarketResearch)
}

type submitRequest struct {
	CompanyID          int64    `json:"companyId" binding:"required"`
	TargetCountries    []string `json:"targetCountries" binding:"required"`
	CompanyDescription string   `json:"companyDescription"`
	ProductInfo        string   `json:"productInfo"`
	MarketInfo         string   `json:"marketInfo"`
}

func (h *Handler) submit(c *gin.Context) {
	var req submitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "companyId and targetCountries are required", nil)
		return
	}

	created, err := h.Service.Submit(c.Request.Context(), MatchingRequest{
		CompanyID:          req.CompanyID,
		TargetCountries:    req.TargetCountries,
		CompanyDescription: req.CompanyDescription,
		ProductInfo:        req.ProductInfo,
		MarketInfo:         req.MarketInfo,
	})
	if err != nil {
		if errors.Is(err, ErrInvalidInput) || errors.Is(err, ErrNoTargetCountries) {
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to create matching request", nil)
		return
	}
	respond.JSON(c, http.StatusCreated, created)
}

func (h *Handler) list(c *gin.Context) {
	requests, err := h.Service.List(c.Request.Context())
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list matching requests", nil)
		return
	}
	respond.OK(c, gin.H{"requests": requests})
}

func (h *Handler) get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	req, err := h.Service.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "matching request not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load matching request", nil)
		return
	}
	respond.OK(c, req)
}

func (h *Handler) uploadDocument(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadBytes)
	fileHeader, err := c.FormFile("file")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "file is required", nil)
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "failed to read file", nil)
		return
	}
	defer file.Close()

	doc, err := h.Service.AttachDocument(c.Request.Context(), id, fileHeader.Filename, file)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "matching request not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to store document", nil)
		return
	}
	respond.JSON(c, http.StatusCreated, doc)
}

func (h *Handler) review(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.Service.MarkReview(c.Request.Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "matching request not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to update matching request", nil)
		return
	}
	respond.OK(c, gin.H{"workflowStatus": WorkflowAdminReview})
}

type approveRequest struct {
	Comments string `json:"comments"`
}

func (h *Handler) approve(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req approveRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
			return
		}
	}

	updated, err := h.Service.Approve(c.Request.Context(), id, req.Comments)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "matching request not found", nil)
		case errors.Is(err, ErrAlreadyFinalized):
			respond.Error(c, http.StatusConflict, "already_finalized", "final report is already frozen", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to approve matching request", nil)
		}
		return
	}
	respond.OK(c, updated)
}

type rejectRequest struct {
	Reason string `json:"reason" binding:"required"`
}

func (h *Handler) reject(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req rejectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "reason is required", nil)
		return
	}

	updated, err := h.Service.Reject(c.Request.Context(), id, req.Reason)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "matching request not found", nil)
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to reject matching request", nil)
		}
		return
	}
	respond.OK(c, updated)
}

type gptAnalysisRequest struct {
	MatchingRequestID int64  `json:"matchingRequestId" binding:"required"`
	AdminPrompt       string `json:"adminPrompt"`
	Language          string `json:"language"`
}

// runGPT triggers the essential language-model branch. Failures are returned
// as HTTP 200 with success=false so the admin surface can render them
// inline, after a best-effort error_details write-back.
func (h *Handler) runGPT(c *gin.Context) {
	var req gptAnalysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusOK, gin.H{"success": false, "error": "matchingRequestId is required"})
		return
	}

	language, err := h.Service.RunGPTAnalysis(c.Request.Context(), req.MatchingRequestID, req.AdminPrompt, req.Language)
	if err != nil {
		if errors.Is(err, ErrNoTargetCountries) {
			h.Service.RecordInvocationFailure(c.Request.Context(), req.MatchingRequestID, "gpt_analysis", err)
		}
		c.JSON(http.StatusOK, gin.H{"success": false, "error": sanitizeError(err)})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"message":    "gpt analysis completed",
		"analysisId": req.MatchingRequestID,
		"language":   language,
	})
}

type researchRequest struct {
	MatchingRequestID int64  `json:"matchingRequestId" binding:"required"`
	AdminPrompt       string `json:"adminPrompt"`
}

// runMarketResearch triggers the supplementary grounded-research branch.
// Inner provider failures are soft and already recorded in the envelope;
// only invocation-level failures reach this error path, still as HTTP 200.
func (h *Handler) runMarketResearch(c *gin.Context) {
	var req researchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusOK, gin.H{"success": false, "error": "matchingRequestId is required"})
		return
	}

	if err := h.Service.RunMarketResearch(c.Request.Context(), req.MatchingRequestID, req.AdminPrompt); err != nil {
		if errors.Is(err, ErrNoTargetCountries) {
			h.Service.RecordInvocationFailure(c.Request.Context(), req.MatchingRequestID, "perplexity_analysis", err)
		}
		c.JSON(http.StatusOK, gin.H{"success": false, "error": sanitizeError(err)})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"message":    "market research completed",
		"analysisId": req.MatchingRequestID,
	})
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid id", nil)
		return 0, false
	}
	return id, true
}
