package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	apperrors "clinops/internal/errors"
	"clinops/internal/model"
	"clinops/internal/repository"
)

// ErrDiagramNotFound is returned when a diagram id does not exist.
var ErrDiagramNotFound = apperrors.NotFound("Diagram not found")

// SaveDiagramInput carries the fields of a diagram to save.
type SaveDiagramInput struct {
	ProjectID   string
	Title       string
	Description *string
	DiagramCode string
	DiagramType string
	Context     *string
}

// DiagramService handles saved diagram operations.
type DiagramService interface {
	Save(ctx context.Context, userID string, in SaveDiagramInput) (*model.SavedDiagram, error)
	ListByProject(ctx context.Context, projectID string) ([]model.SavedDiagram, error)
	Delete(ctx context.Context, userID, diagramID string) error
}

type diagramService struct {
	diagrams repository.DiagramRepository
	projects repository.ProjectRepository
}

// NewDiagramService creates a new diagram service.
func NewDiagramService(diagrams repository.DiagramRepository, projects repository.ProjectRepository) DiagramService {
	return &diagramService{diagrams: diagrams, projects: projects}
}

func (s *diagramService) Save(ctx context.Context, userID string, in SaveDiagramInput) (*model.SavedDiagram, error) {
	var missing []string
	if strings.TrimSpace(in.ProjectID) == "" {
		missing = append(missing, "projectId")
	}
	if strings.TrimSpace(in.Title) == "" {
		missing = append(missing, "title")
	}
	if strings.TrimSpace(in.DiagramCode) == "" {
		missing = append(missing, "diagramCode")
	}
	if strings.TrimSpace(in.DiagramType) == "" {
		missing = append(missing, "diagramType")
	}
	if len(missing) > 0 {
		return nil, apperrors.Validation("Missing required fields: " + strings.Join(missing, ", "))
	}

	diagram := &model.SavedDiagram{
		ProjectID:   strings.TrimSpace(in.ProjectID),
		UserID:      userID,
		Title:       strings.TrimSpace(in.Title),
		Description: trimmedOrNil(in.Description),
		DiagramCode: in.DiagramCode,
		DiagramType: strings.TrimSpace(in.DiagramType),
		Context:     in.Context,
	}
	if err := s.diagrams.Create(ctx, diagram); err != nil {
		return nil, fmt.Errorf("create diagram: %w", err)
	}
	return diagram, nil
}

func (s *diagramService) ListByProject(ctx context.Context, projectID string) ([]model.SavedDiagram, error) {
	if strings.TrimSpace(projectID) == "" {
		return nil, apperrors.Validation("projectId is required")
	}
	diagrams, err := s.diagrams.ListByProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("list diagrams: %w", err)
	}
	return diagrams, nil
}

// Delete removes a diagram when the caller owns its project. Diagrams whose
// project no longer exists can be deleted by their author.
func (s *diagramService) Delete(ctx context.Context, userID, diagramID string) error {
	if strings.TrimSpace(diagramID) == "" {
		return apperrors.Validation("diagramId is required")
	}

	diagram, err := s.diagrams.FindByID(ctx, diagramID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrDiagramNotFound
		}
		return fmt.Errorf("find diagram: %w", err)
	}

	_, err = authorizeProject(ctx, s.projects, userID, diagram.ProjectID)
	switch {
	case err == nil:
	case errors.Is(err, ErrProjectNotFound):
		if diagram.UserID != userID {
			return ErrProjectForbidden
		}
	default:
		return err
	}

	if err := s.diagrams.Delete(ctx, diagramID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrDiagramNotFound
		}
		return fmt.Errorf("delete diagram: %w", err)
	}
	return nil
}
