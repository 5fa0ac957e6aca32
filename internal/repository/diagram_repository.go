package repository

import (
	"context"

	"gorm.io/gorm"

	"clinops/internal/model"
)

// DiagramRepository defines saved diagram persistence operations.
type DiagramRepository interface {
	Create(ctx context.Context, diagram *model.SavedDiagram) error
	FindByID(ctx context.Context, id string) (*model.SavedDiagram, error)
	ListByProject(ctx context.Context, projectID string) ([]model.SavedDiagram, error)
	Delete(ctx context.Context, id string) error
}

type diagramRepository struct {
	db *gorm.DB
}

// NewDiagramRepository creates a new diagram repository.
func NewDiagramRepository(db *gorm.DB) DiagramRepository {
	return &diagramRepository{db: db}
}

func (r *diagramRepository) Create(ctx context.Context, diagram *model.SavedDiagram) error {
	return r.db.WithContext(ctx).Create(diagram).Error
}

func (r *diagramRepository) FindByID(ctx context.Context, id string) (*model.SavedDiagram, error) {
	var diagram model.SavedDiagram
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&diagram).Error; err != nil {
		return nil, err
	}
	return &diagram, nil
}

func (r *diagramRepository) ListByProject(ctx context.Context, projectID string) ([]model.SavedDiagram, error) {
	diagrams := []model.SavedDiagram{}
	if err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("created_at DESC").
		Find(&diagrams).Error; err != nil {
		return nil, err
	}
	return diagrams, nil
}

func (r *diagramRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.SavedDiagram{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
