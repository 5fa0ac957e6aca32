package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	apperrors "clinops/internal/errors"
	"clinops/internal/model"
	"clinops/internal/repository"
)

// ReviewInput carries a new dashboard review.
type ReviewInput struct {
	Text   string
	Rating *int
}

// ReviewSummary aggregates the ratings of a project's reviews.
type ReviewSummary struct {
	Count         int     `json:"count"`
	RatedCount    int     `json:"ratedCount"`
	AverageRating *string `json:"averageRating"`
}

// ReviewList is a project's reviews with their summary.
type ReviewList struct {
	Reviews []model.DashboardReview `json:"reviews"`
	Summary ReviewSummary           `json:"summary"`
}

// ReviewService handles dashboard review operations.
type ReviewService interface {
	List(ctx context.Context, userID, projectID string) (*ReviewList, error)
	Create(ctx context.Context, userID, projectID string, in ReviewInput) (*model.DashboardReview, error)
}

type reviewService struct {
	reviews  repository.ReviewRepository
	projects repository.ProjectRepository
}

// NewReviewService creates a new review service.
func NewReviewService(reviews repository.ReviewRepository, projects repository.ProjectRepository) ReviewService {
	return &reviewService{reviews: reviews, projects: projects}
}

func (s *reviewService) List(ctx context.Context, userID, projectID string) (*ReviewList, error) {
	if _, err := authorizeProject(ctx, s.projects, userID, projectID); err != nil {
		return nil, err
	}

	reviews, err := s.reviews.ListByProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}

	return &ReviewList{Reviews: reviews, Summary: Summarize(reviews)}, nil
}

func (s *reviewService) Create(ctx context.Context, userID, projectID string, in ReviewInput) (*model.DashboardReview, error) {
	text := strings.TrimSpace(in.Text)
	if text == "" {
		return nil, apperrors.Validation("Review text is required")
	}
	if in.Rating != nil && (*in.Rating < model.MinRating || *in.Rating > model.MaxRating) {
		return nil, apperrors.Validation(fmt.Sprintf("Rating must be between %d and %d", model.MinRating, model.MaxRating))
	}

	if _, err := authorizeProject(ctx, s.projects, userID, projectID); err != nil {
		return nil, err
	}

	review := &model.DashboardReview{
		ProjectID: projectID,
		AuthorID:  userID,
		Text:      text,
		Rating:    in.Rating,
	}
	if err := s.reviews.Create(ctx, review); err != nil {
		return nil, fmt.Errorf("create review: %w", err)
	}
	return review, nil
}

// Summarize counts reviews and averages the rated ones to two decimals.
func Summarize(reviews []model.DashboardReview) ReviewSummary {
	summary := ReviewSummary{Count: len(reviews)}

	total := decimal.Zero
	for _, r := range reviews {
		if r.Rating == nil {
			continue
		}
		summary.RatedCount++
		total = total.Add(decimal.NewFromInt(int64(*r.Rating)))
	}

	if summary.RatedCount > 0 {
		avg := total.DivRound(decimal.NewFromInt(int64(summary.RatedCount)), 2).StringFixed(2)
		summary.AverageRating = &avg
	}
	return summary
}
