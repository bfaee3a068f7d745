package service

import (
	"context"
	"log/slog"

	"codelearn/internal/observability"
	"codelearn/internal/repository"
	"codelearn/models"
)

// DefaultFreeTierLimit is how many uses of each feature the anonymous bucket gets.
const DefaultFreeTierLimit = 3

// UsageService meters feature use and enforces the anonymous free tier.
type UsageService struct {
	usage     repository.UsageRepository
	freeLimit int64
}

// NewUsageService returns a UsageService allowing freeLimit anonymous uses per feature.
func NewUsageService(usage repository.UsageRepository, freeLimit int) *UsageService {
	if freeLimit < 0 {
		freeLimit = DefaultFreeTierLimit
	}
	return &UsageService{usage: usage, freeLimit: int64(freeLimit)}
}

// Track records one use of feature by p.
func (s *UsageService) Track(ctx context.Context, p models.Principal, feature models.FeatureKind) error {
	if err := s.usage.Track(ctx, p.UserID, feature); err != nil {
		return err
	}
	observability.FeatureUsageTotal.WithLabelValues(string(feature), observability.PrincipalLabel(p.IsAnonymous())).Inc()
	return nil
}

// Count returns how many times p has used feature.
func (s *UsageService) Count(ctx context.Context, p models.Principal, feature models.FeatureKind) (int64, error) {
	return s.usage.Count(ctx, p.UserID, feature)
}

// EnsureAllowed returns USAGE_LIMIT_EXCEEDED when p is anonymous and has
// exhausted the free allowance for feature. Authenticated users are unlimited.
func (s *UsageService) EnsureAllowed(ctx context.Context, p models.Principal, feature models.FeatureKind) error {
	if !feature.Valid() {
		return models.NewInvalidFeatureError(string(feature))
	}
	if !p.IsAnonymous() {
		return nil
	}

	count, err := s.usage.Count(ctx, nil, feature)
	if err != nil {
		return err
	}
	if count >= s.freeLimit {
		observability.FreeTierRejections.WithLabelValues(string(feature)).Inc()
		slog.InfoContext(ctx, "free tier exhausted",
			slog.String("feature", string(feature)),
			slog.Int64("count", count),
			slog.Int64("limit", s.freeLimit),
		)
		return models.NewUsageLimitError()
	}
	return nil
}
