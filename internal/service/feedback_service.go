package service

import (
	"context"
	"fmt"
	"strings"

	apperrors "clinops/internal/errors"
	"clinops/internal/model"
	"clinops/internal/repository"
)

// FeedbackInput carries a feedback submission.
type FeedbackInput struct {
	Message   string
	Persona   *string
	TabType   *string
	ProjectID *string
}

// FeedbackService handles feedback operations.
type FeedbackService interface {
	// Submit stores feedback. userID is empty for anonymous submissions.
	Submit(ctx context.Context, userID string, in FeedbackInput) (*model.Feedback, error)
	List(ctx context.Context, userID, projectID string) ([]model.Feedback, error)
}

type feedbackService struct {
	repo repository.FeedbackRepository
}

// NewFeedbackService creates a new feedback service.
func NewFeedbackService(repo repository.FeedbackRepository) FeedbackService {
	return &feedbackService{repo: repo}
}

func (s *feedbackService) Submit(ctx context.Context, userID string, in FeedbackInput) (*model.Feedback, error) {
	message := strings.TrimSpace(in.Message)
	if message == "" {
		return nil, apperrors.Validation("Message is required")
	}

	feedback := &model.Feedback{
		Message:   message,
		Persona:   trimmedOrNil(in.Persona),
		TabType:   trimmedOrNil(in.TabType),
		ProjectID: trimmedOrNil(in.ProjectID),
	}
	if userID != "" {
		feedback.UserID = &userID
	}

	if err := s.repo.Create(ctx, feedback); err != nil {
		return nil, fmt.Errorf("create feedback: %w", err)
	}
	return feedback, nil
}

func (s *feedbackService) List(ctx context.Context, userID, projectID string) ([]model.Feedback, error) {
	items, err := s.repo.ListByUser(ctx, userID, strings.TrimSpace(projectID))
	if err != nil {
		return nil, fmt.Errorf("list feedback: %w", err)
	}
	return items, nil
}
