package repository

import (
	"context"
	"errors"
	"strings"

	"codelearn/internal/observability"
	"codelearn/models"

	"gorm.io/gorm"
)

// FeedbackRepository stores messages from the feedback form.
type FeedbackRepository interface {
	Create(ctx context.Context, feedback *models.UserFeedback) error
}

type feedbackRepository struct {
	db *gorm.DB
}

// NewFeedbackRepository creates a new feedback repository.
func NewFeedbackRepository(db *gorm.DB) FeedbackRepository {
	return &feedbackRepository{db: db}
}

func (r *feedbackRepository) Create(ctx context.Context, feedback *models.UserFeedback) error {
	defer observability.TrackQuery("create", "user_feedback")()

	if err := r.db.WithContext(ctx).Create(feedback).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// EarlyAccessRepository stores early-access email signups.
type EarlyAccessRepository interface {
	// Create returns a CONFLICT error when the email is already registered.
	Create(ctx context.Context, signup *models.EarlyAccessSignup) error
	Exists(ctx context.Context, email string) (bool, error)
	Count(ctx context.Context) (int64, error)
}

type earlyAccessRepository struct {
	db *gorm.DB
}

// NewEarlyAccessRepository creates a new early access repository.
func NewEarlyAccessRepository(db *gorm.DB) EarlyAccessRepository {
	return &earlyAccessRepository{db: db}
}

func (r *earlyAccessRepository) Create(ctx context.Context, signup *models.EarlyAccessSignup) error {
	defer observability.TrackQuery("create", "early_access_signups")()

	signup.Email = strings.ToLower(signup.Email)
	if err := r.db.WithContext(ctx).Create(signup).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewConflictError("Email already registered for early access")
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *earlyAccessRepository) Exists(ctx context.Context, email string) (bool, error) {
	defer observability.TrackQuery("exists", "early_access_signups")()

	var signup models.EarlyAccessSignup
	err := r.db.WithContext(ctx).Where("email = ?", strings.ToLower(email)).First(&signup).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, models.NewInternalError(err)
	}
	return true, nil
}

func (r *earlyAccessRepository) Count(ctx context.Context) (int64, error) {
	defer observability.TrackQuery("count", "early_access_signups")()

	var count int64
	if err := r.db.WithContext(ctx).Model(&models.EarlyAccessSignup{}).Count(&count).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}
