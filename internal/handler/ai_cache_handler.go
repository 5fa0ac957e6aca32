package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"clinops/internal/metrics"
	"clinops/internal/service"
)

// AiCacheHandler handles AI response cache endpoints.
type AiCacheHandler struct {
	aiCacheService service.AiCacheService
	metrics        *metrics.Metrics
}

// NewAiCacheHandler creates a new AI cache handler.
func NewAiCacheHandler(aiCacheService service.AiCacheService, m *metrics.Metrics) *AiCacheHandler {
	return &AiCacheHandler{aiCacheService: aiCacheService, metrics: m}
}

// PutAiCacheRequest represents a response to cache.
type PutAiCacheRequest struct {
	ProjectID  string  `json:"projectId" validate:"max=64"`
	CacheKey   string  `json:"cacheKey" validate:"max=255"`
	Response   string  `json:"response"`
	TabType    *string `json:"tabType" validate:"omitempty,max=100"`
	Persona    *string `json:"persona" validate:"omitempty,max=100"`
	TTLSeconds int     `json:"ttlSeconds" validate:"min=0,max=31536000"`
}

// ClearAiCacheResponse reports how many entries were removed.
type ClearAiCacheResponse struct {
	Deleted int64 `json:"deleted"`
}

// GetAiCache godoc
// @Summary Fetch a cached AI response
// @Tags ai-cache
// @Produce json
// @Param projectId query string true "Project ID"
// @Param cacheKey query string true "Cache key"
// @Success 200 {object} errors.Envelope
// @Failure 400 {object} errors.Envelope
// @Failure 401 {object} errors.Envelope
// @Failure 404 {object} errors.Envelope
// @Failure 500 {object} errors.Envelope
// @Router /ai-cache [get]
func (h *AiCacheHandler) GetAiCache(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return respondError(c, err, "")
	}

	entry, err := h.aiCacheService.Get(c.Request().Context(), p.UserID, c.QueryParam("projectId"), c.QueryParam("cacheKey"))
	if err != nil {
		return respondError(c, err, "Failed to read AI cache")
	}
	return respond(c, http.StatusOK, entry, "")
}

// PutAiCache godoc
// @Summary Store an AI response
// @Tags ai-cache
// @Accept json
// @Produce json
// @Param request body PutAiCacheRequest true "Cached response"
// @Success 200 {object} errors.Envelope
// @Failure 400 {object} errors.Envelope
// @Failure 401 {object} errors.Envelope
// @Failure 500 {object} errors.Envelope
// @Router /ai-cache [put]
func (h *AiCacheHandler) PutAiCache(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return respondError(c, err, "")
	}

	var req PutAiCacheRequest
	if err := bind(c, &req); err != nil {
		return respondError(c, err, "")
	}

	entry, err := h.aiCacheService.Put(c.Request().Context(), p.UserID, service.PutAiCacheInput{
		ProjectID:  req.ProjectID,
		CacheKey:   req.CacheKey,
		Response:   req.Response,
		TabType:    req.TabType,
		Persona:    req.Persona,
		TTLSeconds: req.TTLSeconds,
	})
	if err != nil {
		return respondError(c, err, "Failed to write AI cache")
	}

	h.metrics.ResourceEvent("ai_cache", "put")
	return respond(c, http.StatusOK, entry, "")
}

// ClearAiCache godoc
// @Summary Delete cached AI responses
// @Description Without projectId every entry of the caller is removed.
// @Tags ai-cache
// @Produce json
// @Param projectId query string false "Project ID"
// @Success 200 {object} errors.Envelope
// @Failure 401 {object} errors.Envelope
// @Failure 500 {object} errors.Envelope
// @Router /ai-cache [delete]
func (h *AiCacheHandler) ClearAiCache(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return respondError(c, err, "")
	}

	deleted, err := h.aiCacheService.Clear(c.Request().Context(), p.UserID, c.QueryParam("projectId"))
	if err != nil {
		return respondError(c, err, "Failed to clear AI cache")
	}

	h.metrics.ResourceEvent("ai_cache", "clear")
	return respond(c, http.StatusOK, ClearAiCacheResponse{Deleted: deleted}, "AI cache cleared")
}
