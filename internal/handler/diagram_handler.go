package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"clinops/internal/errors"
	"clinops/internal/metrics"
	"clinops/internal/service"
)

// DiagramHandler handles saved diagram endpoints.
type DiagramHandler struct {
	diagramService service.DiagramService
	metrics        *metrics.Metrics
}

// NewDiagramHandler creates a new diagram handler.
func NewDiagramHandler(diagramService service.DiagramService, m *metrics.Metrics) *DiagramHandler {
	return &DiagramHandler{diagramService: diagramService, metrics: m}
}

// SaveDiagramRequest represents a diagram to save. Required fields are
// checked by the service so the error lists every missing one.
type SaveDiagramRequest struct {
	ProjectID   string  `json:"projectId"`
	Title       string  `json:"title" validate:"max=255"`
	Description *string `json:"description"`
	DiagramCode string  `json:"diagramCode"`
	DiagramType string  `json:"diagramType" validate:"max=64"`
	Context     *string `json:"context"`
}

// SaveDiagram godoc
// @Summary Save a diagram
// @Tags diagrams
// @Accept json
// @Produce json
// @Param request body SaveDiagramRequest true "Diagram"
// @Success 201 {object} errors.Envelope
// @Failure 400 {object} errors.Envelope
// @Failure 401 {object} errors.Envelope
// @Failure 500 {object} errors.Envelope
// @Router /diagrams [post]
func (h *DiagramHandler) SaveDiagram(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return respondError(c, err, "")
	}

	var req SaveDiagramRequest
	if err := bind(c, &req); err != nil {
		return respondError(c, err, "")
	}

	diagram, err := h.diagramService.Save(c.Request().Context(), p.UserID, service.SaveDiagramInput{
		ProjectID:   req.ProjectID,
		Title:       req.Title,
		Description: req.Description,
		DiagramCode: req.DiagramCode,
		DiagramType: req.DiagramType,
		Context:     req.Context,
	})
	if err != nil {
		return respondError(c, err, "Failed to save diagram")
	}

	h.metrics.ResourceEvent("diagram", "create")
	return respond(c, http.StatusCreated, diagram, "Diagram saved")
}

// ListDiagrams godoc
// @Summary List a project's diagrams
// @Tags diagrams
// @Produce json
// @Param projectId query string true "Project ID"
// @Success 200 {object} errors.Envelope
// @Failure 400 {object} errors.Envelope
// @Failure 401 {object} errors.Envelope
// @Failure 500 {object} errors.Envelope
// @Router /diagrams [get]
func (h *DiagramHandler) ListDiagrams(c echo.Context) error {
	if _, err := principal(c); err != nil {
		return respondError(c, err, "")
	}

	projectID := c.QueryParam("projectId")
	if projectID == "" {
		return respondError(c, errors.Validation("projectId is required"), "")
	}

	diagrams, err := h.diagramService.ListByProject(c.Request().Context(), projectID)
	if err != nil {
		return respondError(c, err, "Failed to fetch diagrams")
	}
	return respond(c, http.StatusOK, diagrams, "")
}

// DeleteDiagram godoc
// @Summary Delete a diagram
// @Tags diagrams
// @Produce json
// @Param diagramId query string true "Diagram ID"
// @Success 200 {object} errors.Envelope
// @Failure 400 {object} errors.Envelope
// @Failure 401 {object} errors.Envelope
// @Failure 403 {object} errors.Envelope
// @Failure 404 {object} errors.Envelope
// @Failure 500 {object} errors.Envelope
// @Router /diagrams [delete]
func (h *DiagramHandler) DeleteDiagram(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return respondError(c, err, "")
	}

	diagramID := c.QueryParam("diagramId")
	if diagramID == "" {
		return respondError(c, errors.Validation("diagramId is required"), "")
	}

	if err := h.diagramService.Delete(c.Request().Context(), p.UserID, diagramID); err != nil {
		return respondError(c, err, "Failed to delete diagram")
	}

	h.metrics.ResourceEvent("diagram", "delete")
	return respond(c, http.StatusOK, nil, "Diagram deleted")
}
