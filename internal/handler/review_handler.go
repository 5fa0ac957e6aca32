package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"clinops/internal/metrics"
	"clinops/internal/service"
)

// ReviewHandler handles dashboard review endpoints.
type ReviewHandler struct {
	reviewService service.ReviewService
	metrics       *metrics.Metrics
}

// NewReviewHandler creates a new review handler.
func NewReviewHandler(reviewService service.ReviewService, m *metrics.Metrics) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService, metrics: m}
}

// ReviewRequest represents a new dashboard review.
type ReviewRequest struct {
	Text   string `json:"text" validate:"max=5000"`
	Rating *int   `json:"rating"`
}

// ListReviews godoc
// @Summary List a project's dashboard reviews with a rating summary
// @Tags reviews
// @Produce json
// @Param projectId path string true "Project ID"
// @Success 200 {object} errors.Envelope
// @Failure 401 {object} errors.Envelope
// @Failure 403 {object} errors.Envelope
// @Failure 404 {object} errors.Envelope
// @Failure 500 {object} errors.Envelope
// @Router /projects/{projectId}/reviews [get]
func (h *ReviewHandler) ListReviews(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return respondError(c, err, "")
	}

	list, err := h.reviewService.List(c.Request().Context(), p.UserID, c.Param("projectId"))
	if err != nil {
		return respondError(c, err, "Failed to fetch reviews")
	}
	return respond(c, http.StatusOK, list, "")
}

// CreateReview godoc
// @Summary Add a dashboard review
// @Tags reviews
// @Accept json
// @Produce json
// @Param projectId path string true "Project ID"
// @Param request body ReviewRequest true "Review"
// @Success 201 {object} errors.Envelope
// @Failure 400 {object} errors.Envelope
// @Failure 401 {object} errors.Envelope
// @Failure 403 {object} errors.Envelope
// @Failure 404 {object} errors.Envelope
// @Failure 500 {object} errors.Envelope
// @Router /projects/{projectId}/reviews [post]
func (h *ReviewHandler) CreateReview(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return respondError(c, err, "")
	}

	var req ReviewRequest
	if err := bind(c, &req); err != nil {
		return respondError(c, err, "")
	}

	review, err := h.reviewService.Create(c.Request().Context(), p.UserID, c.Param("projectId"), service.ReviewInput{
		Text:   req.Text,
		Rating: req.Rating,
	})
	if err != nil {
		return respondError(c, err, "Failed to create review")
	}

	h.metrics.ResourceEvent("review", "create")
	return respond(c, http.StatusCreated, review, "")
}
