package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"clinops/internal/auth"
	"clinops/internal/metrics"
	"clinops/internal/service"
)

// FeedbackHandler handles feedback endpoints.
type FeedbackHandler struct {
	feedbackService service.FeedbackService
	metrics         *metrics.Metrics
}

// NewFeedbackHandler creates a new feedback handler.
func NewFeedbackHandler(feedbackService service.FeedbackService, m *metrics.Metrics) *FeedbackHandler {
	return &FeedbackHandler{feedbackService: feedbackService, metrics: m}
}

// FeedbackRequest represents a feedback submission.
type FeedbackRequest struct {
	Message   string  `json:"message" validate:"max=5000"`
	Persona   *string `json:"persona" validate:"omitempty,max=100"`
	TabType   *string `json:"tabType" validate:"omitempty,max=100"`
	ProjectID *string `json:"projectId" validate:"omitempty,max=64"`
}

// SubmitFeedback godoc
// @Summary Leave feedback
// @Description Works signed in or anonymously; signed in feedback records the user.
// @Tags feedback
// @Accept json
// @Produce json
// @Param request body FeedbackRequest true "Feedback"
// @Success 201 {object} errors.Envelope
// @Failure 400 {object} errors.Envelope
// @Failure 500 {object} errors.Envelope
// @Router /feedback [post]
func (h *FeedbackHandler) SubmitFeedback(c echo.Context) error {
	var req FeedbackRequest
	if err := bind(c, &req); err != nil {
		return respondError(c, err, "")
	}

	var userID string
	if p, ok := auth.FromContext(c); ok {
		userID = p.UserID
	}

	feedback, err := h.feedbackService.Submit(c.Request().Context(), userID, service.FeedbackInput{
		Message:   req.Message,
		Persona:   req.Persona,
		TabType:   req.TabType,
		ProjectID: req.ProjectID,
	})
	if err != nil {
		return respondError(c, err, "Failed to submit feedback")
	}

	h.metrics.ResourceEvent("feedback", "create")
	return respond(c, http.StatusCreated, feedback, "Feedback submitted")
}

// ListFeedback godoc
// @Summary List the caller's feedback
// @Tags feedback
// @Produce json
// @Param projectId query string false "Project ID"
// @Success 200 {object} errors.Envelope
// @Failure 401 {object} errors.Envelope
// @Failure 500 {object} errors.Envelope
// @Router /feedback [get]
func (h *FeedbackHandler) ListFeedback(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return respondError(c, err, "")
	}

	items, err := h.feedbackService.List(c.Request().Context(), p.UserID, c.QueryParam("projectId"))
	if err != nil {
		return respondError(c, err, "Failed to fetch feedback")
	}
	return respond(c, http.StatusOK, items, "")
}
