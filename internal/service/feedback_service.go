package service

import (
	"context"
	"strings"

	"codelearn/internal/repository"
	"codelearn/internal/validation"
	"codelearn/models"
)

// FeedbackService accepts feedback-form messages and early-access signups.
type FeedbackService struct {
	feedback    repository.FeedbackRepository
	earlyAccess repository.EarlyAccessRepository
}

type FeedbackInput struct {
	UserID   *uint
	Name     string
	Email    string
	Feedback string
}

func NewFeedbackService(feedback repository.FeedbackRepository, earlyAccess repository.EarlyAccessRepository) *FeedbackService {
	return &FeedbackService{feedback: feedback, earlyAccess: earlyAccess}
}

func (s *FeedbackService) Submit(ctx context.Context, in FeedbackInput) (*models.UserFeedback, error) {
	email := validation.NormalizeEmail(in.Email)

	var errs validation.FieldErrors
	errs.Check(validation.ValidateRequired("name", in.Name))
	errs.Check(validation.ValidateRequired("feedback", in.Feedback))
	if email == "" {
		errs.Check(validation.ValidateRequired("email", email))
	} else {
		errs.Check(validation.ValidateEmail(email))
	}
	if !errs.Empty() {
		return nil, models.NewValidationError(errs.Error())
	}

	fb := &models.UserFeedback{
		UserID:   in.UserID,
		Name:     strings.TrimSpace(in.Name),
		Email:    email,
		Feedback: strings.TrimSpace(in.Feedback),
	}
	if err := s.feedback.Create(ctx, fb); err != nil {
		return nil, err
	}
	return fb, nil
}

func (s *FeedbackService) JoinEarlyAccess(ctx context.Context, email string) (*models.EarlyAccessSignup, error) {
	email = validation.NormalizeEmail(email)
	if err := validation.ValidateEmail(email); err != nil {
		return nil, models.NewValidationError("Valid email is required")
	}

	exists, err := s.earlyAccess.Exists(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, models.NewConflictError("Email already registered for early access")
	}

	signup := &models.EarlyAccessSignup{Email: email}
	if err := s.earlyAccess.Create(ctx, signup); err != nil {
		return nil, err
	}
	return signup, nil
}

func (s *FeedbackService) EarlyAccessCount(ctx context.Context) (int64, error) {
	return s.earlyAccess.Count(ctx)
}
