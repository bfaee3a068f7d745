package repository

import (
	"context"
	"errors"
	"testing"

	"codelearn/internal/testutil"
	"codelearn/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUsageRepository_TrackAndCount(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewUsageRepository(db)
	ctx := context.Background()

	alice := testutil.CreateUser(t, db, "alice", "secret1")
	bob := testutil.CreateUser(t, db, "bob", "secret1")

	for i := 0; i < 3; i++ {
		require.NoError(t, repo.Track(ctx, &alice.ID, models.FeatureExplanation))
	}
	require.NoError(t, repo.Track(ctx, &alice.ID, models.FeatureProject))
	require.NoError(t, repo.Track(ctx, nil, models.FeatureExplanation))

	tests := []struct {
		name    string
		userID  *uint
		feature models.FeatureKind
		want    int64
	}{
		{"Alice explanation", &alice.ID, models.FeatureExplanation, 3},
		{"Alice project", &alice.ID, models.FeatureProject, 1},
		{"Alice feedback untouched", &alice.ID, models.FeatureFeedback, 0},
		{"Bob isolated", &bob.ID, models.FeatureExplanation, 0},
		{"Anonymous bucket", nil, models.FeatureExplanation, 1},
		{"Anonymous other feature", nil, models.FeatureProject, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.Count(ctx, tt.userID, tt.feature)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestUsageRepository_RejectsUnknownFeature(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewUsageRepository(db)
	ctx := context.Background()

	err := repo.Track(ctx, nil, models.FeatureKind("chat"))
	assert.True(t, errors.Is(err, models.ErrInvalidFeature))

	_, err = repo.Count(ctx, nil, models.FeatureKind("chat"))
	assert.True(t, errors.Is(err, models.ErrInvalidFeature))

	var rows int64
	require.NoError(t, db.Model(&models.FeatureUsage{}).Count(&rows).Error)
	assert.Zero(t, rows)
}
