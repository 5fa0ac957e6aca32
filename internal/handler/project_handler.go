package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"clinops/internal/metrics"
	"clinops/internal/service"
)

// ProjectHandler handles project endpoints.
type ProjectHandler struct {
	projectService service.ProjectService
	metrics        *metrics.Metrics
}

// NewProjectHandler creates a new project handler.
func NewProjectHandler(projectService service.ProjectService, m *metrics.Metrics) *ProjectHandler {
	return &ProjectHandler{projectService: projectService, metrics: m}
}

// CreateProjectRequest represents a project creation request.
type CreateProjectRequest struct {
	Name        string  `json:"name" validate:"max=255"`
	Description *string `json:"description"`
}

// UpdateProjectRequest represents a partial project update.
type UpdateProjectRequest struct {
	Name        *string `json:"name" validate:"omitempty,max=255"`
	Description *string `json:"description"`
}

// EnsureProjectRequest represents an idempotent create-or-fetch request.
type EnsureProjectRequest struct {
	ProjectID   string  `json:"projectId" validate:"required,max=64"`
	Name        string  `json:"name" validate:"max=255"`
	Description *string `json:"description"`
}

// ListProjects godoc
// @Summary List the caller's projects
// @Tags projects
// @Produce json
// @Success 200 {object} errors.Envelope
// @Failure 401 {object} errors.Envelope
// @Failure 500 {object} errors.Envelope
// @Router /projects [get]
func (h *ProjectHandler) ListProjects(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return respondError(c, err, "")
	}

	projects, err := h.projectService.List(c.Request().Context(), p.UserID)
	if err != nil {
		return respondError(c, err, "Failed to fetch projects")
	}
	return respond(c, http.StatusOK, projects, "")
}

// CreateProject godoc
// @Summary Create a project
// @Tags projects
// @Accept json
// @Produce json
// @Param request body CreateProjectRequest true "Project"
// @Success 201 {object} errors.Envelope
// @Failure 400 {object} errors.Envelope
// @Failure 401 {object} errors.Envelope
// @Failure 500 {object} errors.Envelope
// @Router /projects [post]
func (h *ProjectHandler) CreateProject(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return respondError(c, err, "")
	}

	var req CreateProjectRequest
	if err := bind(c, &req); err != nil {
		return respondError(c, err, "")
	}

	project, err := h.projectService.Create(c.Request().Context(), p.UserID, service.ProjectInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		return respondError(c, err, "Failed to create project")
	}

	h.metrics.ResourceEvent("project", "create")
	return respond(c, http.StatusCreated, project, "")
}

// GetProject godoc
// @Summary Get a project
// @Tags projects
// @Produce json
// @Param projectId path string true "Project ID"
// @Success 200 {object} errors.Envelope
// @Failure 401 {object} errors.Envelope
// @Failure 403 {object} errors.Envelope
// @Failure 404 {object} errors.Envelope
// @Failure 500 {object} errors.Envelope
// @Router /projects/{projectId} [get]
func (h *ProjectHandler) GetProject(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return respondError(c, err, "")
	}

	project, err := h.projectService.Get(c.Request().Context(), p.UserID, c.Param("projectId"))
	if err != nil {
		return respondError(c, err, "Failed to fetch project")
	}
	return respond(c, http.StatusOK, project, "")
}

// UpdateProject godoc
// @Summary Update a project
// @Tags projects
// @Accept json
// @Produce json
// @Param projectId path string true "Project ID"
// @Param request body UpdateProjectRequest true "Fields to change"
// @Success 200 {object} errors.Envelope
// @Failure 400 {object} errors.Envelope
// @Failure 401 {object} errors.Envelope
// @Failure 403 {object} errors.Envelope
// @Failure 404 {object} errors.Envelope
// @Failure 500 {object} errors.Envelope
// @Router /projects/{projectId} [patch]
func (h *ProjectHandler) UpdateProject(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return respondError(c, err, "")
	}

	var req UpdateProjectRequest
	if err := bind(c, &req); err != nil {
		return respondError(c, err, "")
	}

	project, err := h.projectService.Update(c.Request().Context(), p.UserID, c.Param("projectId"), service.ProjectPatch{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		return respondError(c, err, "Failed to update project")
	}

	h.metrics.ResourceEvent("project", "update")
	return respond(c, http.StatusOK, project, "")
}

// DeleteProject godoc
// @Summary Delete a project and everything saved under it
// @Tags projects
// @Produce json
// @Param projectId path string true "Project ID"
// @Success 200 {object} errors.Envelope
// @Failure 401 {object} errors.Envelope
// @Failure 403 {object} errors.Envelope
// @Failure 404 {object} errors.Envelope
// @Failure 500 {object} errors.Envelope
// @Router /projects/{projectId} [delete]
func (h *ProjectHandler) DeleteProject(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return respondError(c, err, "")
	}

	if err := h.projectService.Delete(c.Request().Context(), p.UserID, c.Param("projectId")); err != nil {
		return respondError(c, err, "Failed to delete project")
	}

	h.metrics.ResourceEvent("project", "delete")
	return respond(c, http.StatusOK, nil, "Project deleted")
}

// EnsureProject godoc
// @Summary Create a project with a client chosen id, or return it if it exists
// @Tags projects
// @Accept json
// @Produce json
// @Param request body EnsureProjectRequest true "Project"
// @Success 200 {object} errors.Envelope
// @Success 201 {object} errors.Envelope
// @Failure 400 {object} errors.Envelope
// @Failure 401 {object} errors.Envelope
// @Failure 403 {object} errors.Envelope
// @Failure 500 {object} errors.Envelope
// @Router /projects/ensure [post]
func (h *ProjectHandler) EnsureProject(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return respondError(c, err, "")
	}

	var req EnsureProjectRequest
	if err := bind(c, &req); err != nil {
		return respondError(c, err, "")
	}

	project, created, err := h.projectService.Ensure(c.Request().Context(), p.UserID, service.EnsureProjectInput{
		ProjectID:   req.ProjectID,
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		return respondError(c, err, "Failed to ensure project")
	}

	if !created {
		return respond(c, http.StatusOK, project, "Project already exists")
	}
	h.metrics.ResourceEvent("project", "create")
	return respond(c, http.StatusCreated, project, "Project created")
}
