package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"clinops/internal/cache"
	apperrors "clinops/internal/errors"
	"clinops/internal/model"
	"clinops/internal/repository"
)

var (
	// ErrProjectNotFound is returned when a project id does not exist.
	ErrProjectNotFound = apperrors.NotFound("Project not found")
	// ErrProjectForbidden is returned when the caller does not own the project.
	ErrProjectForbidden = apperrors.Forbidden("You do not have access to this project")
	// ErrProjectNameRequired is returned for empty or whitespace names.
	ErrProjectNameRequired = apperrors.Validation("Project name is required")
)

// ProjectInput carries fields for creating a project.
type ProjectInput struct {
	Name        string
	Description *string
}

// ProjectPatch carries optional fields for updating a project.
type ProjectPatch struct {
	Name        *string
	Description *string
}

// EnsureProjectInput carries a client chosen project id.
type EnsureProjectInput struct {
	ProjectID   string
	Name        string
	Description *string
}

// ProjectService handles project operations. Every method is scoped to the
// calling user.
type ProjectService interface {
	List(ctx context.Context, userID string) ([]model.Project, error)
	Create(ctx context.Context, userID string, in ProjectInput) (*model.Project, error)
	Get(ctx context.Context, userID, projectID string) (*model.Project, error)
	Update(ctx context.Context, userID, projectID string, in ProjectPatch) (*model.Project, error)
	Delete(ctx context.Context, userID, projectID string) error
	// Ensure returns the caller's project with the given id, creating it when
	// absent. created reports whether a row was inserted.
	Ensure(ctx context.Context, userID string, in EnsureProjectInput) (project *model.Project, created bool, err error)
}

type projectService struct {
	repo  repository.ProjectRepository
	cache *cache.Client
}

// NewProjectService creates a new project service. cache may be nil.
func NewProjectService(repo repository.ProjectRepository, cache *cache.Client) ProjectService {
	return &projectService{repo: repo, cache: cache}
}

func (s *projectService) List(ctx context.Context, userID string) ([]model.Project, error) {
	projects, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	return projects, nil
}

func (s *projectService) Create(ctx context.Context, userID string, in ProjectInput) (*model.Project, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, ErrProjectNameRequired
	}

	project := &model.Project{
		UserID:      userID,
		Name:        name,
		Description: trimmedOrNil(in.Description),
	}
	if err := s.repo.Create(ctx, project); err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}
	return project, nil
}

func (s *projectService) Get(ctx context.Context, userID, projectID string) (*model.Project, error) {
	return authorizeProject(ctx, s.repo, userID, projectID)
}

func (s *projectService) Update(ctx context.Context, userID, projectID string, in ProjectPatch) (*model.Project, error) {
	if in.Name != nil && strings.TrimSpace(*in.Name) == "" {
		return nil, ErrProjectNameRequired
	}

	project, err := authorizeProject(ctx, s.repo, userID, projectID)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		project.Name = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		project.Description = trimmedOrNil(in.Description)
	}

	if err := s.repo.Update(ctx, project); err != nil {
		return nil, fmt.Errorf("update project: %w", err)
	}
	return project, nil
}

func (s *projectService) Delete(ctx context.Context, userID, projectID string) error {
	if _, err := authorizeProject(ctx, s.repo, userID, projectID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, projectID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProjectNotFound
		}
		return fmt.Errorf("delete project: %w", err)
	}
	forgetProjectAiCache(ctx, s.cache, projectID)
	return nil
}

func (s *projectService) Ensure(ctx context.Context, userID string, in EnsureProjectInput) (*model.Project, bool, error) {
	projectID := strings.TrimSpace(in.ProjectID)
	if projectID == "" {
		return nil, false, apperrors.Validation("projectId is required")
	}

	existing, err := s.repo.FindByID(ctx, projectID)
	if err == nil {
		if !existing.OwnedBy(userID) {
			return nil, false, ErrProjectForbidden
		}
		return existing, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, fmt.Errorf("find project: %w", err)
	}

	name := strings.TrimSpace(in.Name)
	if name == "" {
		name = "Untitled Project"
	}

	project := &model.Project{
		ID:          projectID,
		UserID:      userID,
		Name:        name,
		Description: trimmedOrNil(in.Description),
	}
	if err := s.repo.Create(ctx, project); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// created concurrently; fall back to the stored row
			return s.Ensure(ctx, userID, in)
		}
		return nil, false, fmt.Errorf("create project: %w", err)
	}
	return project, true, nil
}

// authorizeProject loads a project and checks that userID owns it.
func authorizeProject(ctx context.Context, repo repository.ProjectRepository, userID, projectID string) (*model.Project, error) {
	project, err := repo.FindByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("find project: %w", err)
	}
	if !project.OwnedBy(userID) {
		return nil, ErrProjectForbidden
	}
	return project, nil
}
