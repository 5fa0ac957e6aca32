package repository

import (
	"context"

	"gorm.io/gorm"

	"clinops/internal/model"
)

// ReviewRepository defines dashboard review persistence operations.
type ReviewRepository interface {
	Create(ctx context.Context, review *model.DashboardReview) error
	ListByProject(ctx context.Context, projectID string) ([]model.DashboardReview, error)
}

type reviewRepository struct {
	db *gorm.DB
}

// NewReviewRepository creates a new review repository.
func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) Create(ctx context.Context, review *model.DashboardReview) error {
	return r.db.WithContext(ctx).Create(review).Error
}

func (r *reviewRepository) ListByProject(ctx context.Context, projectID string) ([]model.DashboardReview, error) {
	reviews := []model.DashboardReview{}
	if err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("created_at DESC").
		Find(&reviews).Error; err != nil {
		return nil, err
	}
	return reviews, nil
}
