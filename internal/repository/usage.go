package repository

import (
	"context"
	"time"

	"codelearn/internal/observability"
	"codelearn/models"

	"gorm.io/gorm"
)

// UsageRepository is an append-only log of feature uses. A nil userID
// addresses the shared anonymous bucket.
type UsageRepository interface {
	Track(ctx context.Context, userID *uint, feature models.FeatureKind) error
	Count(ctx context.Context, userID *uint, feature models.FeatureKind) (int64, error)
}

type usageRepository struct {
	db  *gorm.DB
	now func() time.Time
}

// NewUsageRepository creates a new usage repository.
func NewUsageRepository(db *gorm.DB) UsageRepository {
	return &usageRepository{db: db, now: time.Now}
}

func (r *usageRepository) Track(ctx context.Context, userID *uint, feature models.FeatureKind) error {
	if !feature.Valid() {
		return models.NewInvalidFeatureError(string(feature))
	}
	defer observability.TrackQuery("track", "feature_usage")()

	event := &models.FeatureUsage{
		UserID:      userID,
		FeatureType: feature,
		UsedAt:      r.now().UTC(),
	}
	if err := r.db.WithContext(ctx).Create(event).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *usageRepository) Count(ctx context.Context, userID *uint, feature models.FeatureKind) (int64, error) {
	if !feature.Valid() {
		return 0, models.NewInvalidFeatureError(string(feature))
	}
	defer observability.TrackQuery("count", "feature_usage")()

	q := r.db.WithContext(ctx).Model(&models.FeatureUsage{}).Where("feature_type = ?", feature)
	if userID == nil {
		q = q.Where("user_id IS NULL")
	} else {
		q = q.Where("user_id = ?", *userID)
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}
