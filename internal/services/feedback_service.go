package services

import (
	"context"
	"fmt"

	"scentlab/internal/common"
	"scentlab/internal/models"
	"scentlab/internal/repositories"
)

type FeedbackServiceInterface interface {
	Submit(ctx context.Context, feedback *models.Feedback) error
	List(ctx context.Context, status string, limit, offset int) ([]*models.Feedback, error)
	UpdateStatus(ctx context.Context, id int64, status string) error
}

type feedbackService struct {
	feedbackRepo repositories.FeedbackRepository
}

func NewFeedbackService(feedbackRepo repositories.FeedbackRepository) FeedbackServiceInterface {
	return &feedbackService{feedbackRepo: feedbackRepo}
}

func (s *feedbackService) Submit(ctx context.Context, feedback *models.Feedback) error {
	if err := common.ValidateStringLength(feedback.CustomerName, "customer_name", 2, 255); err != nil {
		return err
	}
	if err := common.ValidateEmail(feedback.CustomerEmail, "customer_email"); err != nil {
		return err
	}
	if feedback.Rating < 1 || feedback.Rating > 5 {
		return fmt.Errorf("rating must be between 1 and 5")
	}
	if err := common.ValidateStringLength(feedback.Message, "message", 1, 5000); err != nil {
		return err
	}
	feedback.Status = models.FeedbackStatusNew
	return s.feedbackRepo.Create(ctx, feedback)
}

func (s *feedbackService) List(ctx context.Context, status string, limit, offset int) ([]*models.Feedback, error) {
	return s.feedbackRepo.List(ctx, status, limit, offset)
}

func (s *feedbackService) UpdateStatus(ctx context.Context, id int64, status string) error {
	if err := common.ValidateFeedbackStatus(status); err != nil {
		return err
	}
	feedback, err := s.feedbackRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if feedback == nil {
		return fmt.Errorf("feedback not found")
	}
	return s.feedbackRepo.UpdateStatus(ctx, id, status)
}
